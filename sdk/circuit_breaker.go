package sdk

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	// CircuitClosed lets every request through
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects requests until the timeout elapses
	CircuitOpen
	// CircuitHalfOpen lets a limited number of probe requests through
	CircuitHalfOpen
)

// String returns the string representation of the circuit state
func (cs CircuitState) String() string {
	switch cs {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker stops sending requests to an API that keeps failing.
// Only transport faults and 5xx answers count as failures; a 404 or a 422
// is a healthy API saying no.
type CircuitBreaker interface {
	// Execute runs fn unless the circuit is open
	Execute(fn func() error) error
	// State returns the current state
	State() CircuitState
	// Reset forces the circuit closed
	Reset()
}

// CircuitBreakerConfig holds circuit breaker configuration.
//
// Example:
//
//	config := sdk.DefaultConfig().
//	    WithCircuitBreaker(sdk.CircuitBreakerConfig{
//	        FailureThreshold: 5,
//	        SuccessThreshold: 2,
//	        Timeout:          30 * time.Second,
//	        HalfOpenRequests: 1,
//	    })
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	// Default: 5
	FailureThreshold int `validate:"gte=0"`

	// SuccessThreshold is the number of half-open successes that closes it again.
	// Default: 2
	SuccessThreshold int `validate:"gte=0"`

	// Timeout is how long the circuit stays open before probing.
	// Default: 30s
	Timeout time.Duration `validate:"gte=0"`

	// HalfOpenRequests caps concurrent probes while half-open.
	// Default: 3
	HalfOpenRequests int `validate:"gte=0"`

	// PerResource keeps one circuit per API resource ("cmses",
	// "mail-accounts", ...) instead of one for the whole API.
	PerResource bool
}

// DefaultCircuitBreakerConfig returns circuit breaker settings suitable for
// most deployments.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		HalfOpenRequests: 3,
	}
}

type circuitBreaker struct {
	config   CircuitBreakerConfig
	onChange func(from, to CircuitState)

	mu               sync.Mutex
	state            CircuitState
	failures         int
	successes        int
	halfOpenRequests int
	lastFailureTime  time.Time
}

// NewCircuitBreaker creates a circuit breaker. onChange, if not nil, is
// called with the lock released after every state transition.
func NewCircuitBreaker(config CircuitBreakerConfig, onChange func(from, to CircuitState)) CircuitBreaker {
	return &circuitBreaker{config: config, onChange: onChange}
}

func (cb *circuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	changes := cb.checkStateTransition()
	probe := false

	switch cb.state {
	case CircuitOpen:
		cb.mu.Unlock()
		cb.notify(changes)
		return ErrCircuitOpen
	case CircuitHalfOpen:
		if cb.halfOpenRequests >= cb.config.HalfOpenRequests {
			cb.mu.Unlock()
			cb.notify(changes)
			return fmt.Errorf("%w: half-open limit reached", ErrCircuitOpen)
		}
		cb.halfOpenRequests++
		probe = true
	}
	cb.mu.Unlock()
	cb.notify(changes)

	err := fn()

	cb.mu.Lock()
	if probe && cb.state == CircuitHalfOpen && cb.halfOpenRequests > 0 {
		cb.halfOpenRequests--
	}
	if err != nil {
		changes = cb.onFailure()
	} else {
		changes = cb.onSuccess()
	}
	cb.mu.Unlock()
	cb.notify(changes)

	return err
}

func (cb *circuitBreaker) State() CircuitState {
	cb.mu.Lock()
	changes := cb.checkStateTransition()
	state := cb.state
	cb.mu.Unlock()
	cb.notify(changes)
	return state
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	changes := cb.transitionTo(CircuitClosed)
	cb.mu.Unlock()
	cb.notify(changes)
}

type stateChange struct{ from, to CircuitState }

func (cb *circuitBreaker) notify(changes []stateChange) {
	if cb.onChange == nil {
		return
	}
	for _, c := range changes {
		cb.onChange(c.from, c.to)
	}
}

// checkStateTransition moves an open circuit to half-open once the timeout
// has elapsed. Callers hold cb.mu.
func (cb *circuitBreaker) checkStateTransition() []stateChange {
	if cb.state == CircuitOpen && time.Since(cb.lastFailureTime) >= cb.config.Timeout {
		return cb.transitionTo(CircuitHalfOpen)
	}
	return nil
}

func (cb *circuitBreaker) onSuccess() []stateChange {
	switch cb.state {
	case CircuitClosed:
		cb.failures = 0
	case CircuitHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			return cb.transitionTo(CircuitClosed)
		}
	}
	return nil
}

func (cb *circuitBreaker) onFailure() []stateChange {
	cb.lastFailureTime = time.Now()
	switch cb.state {
	case CircuitClosed:
		cb.failures++
		if cb.failures >= cb.config.FailureThreshold {
			return cb.transitionTo(CircuitOpen)
		}
	case CircuitHalfOpen:
		return cb.transitionTo(CircuitOpen)
	}
	return nil
}

func (cb *circuitBreaker) transitionTo(next CircuitState) []stateChange {
	prev := cb.state
	cb.state = next
	cb.failures = 0
	cb.successes = 0
	cb.halfOpenRequests = 0
	if prev == next {
		return nil
	}
	return []stateChange{{from: prev, to: next}}
}

// resourceCircuitBreaker keeps one circuit per API resource.
type resourceCircuitBreaker struct {
	config   CircuitBreakerConfig
	onChange func(resource string, from, to CircuitState)

	mu       sync.RWMutex
	breakers map[string]CircuitBreaker
}

func newResourceCircuitBreaker(config CircuitBreakerConfig, onChange func(string, CircuitState, CircuitState)) *resourceCircuitBreaker {
	return &resourceCircuitBreaker{
		config:   config,
		onChange: onChange,
		breakers: make(map[string]CircuitBreaker),
	}
}

// forPath returns the circuit of the resource a request path addresses.
func (r *resourceCircuitBreaker) forPath(path string) CircuitBreaker {
	return r.get(resourceOf(path))
}

func (r *resourceCircuitBreaker) get(resource string) CircuitBreaker {
	r.mu.RLock()
	cb, ok := r.breakers[resource]
	r.mu.RUnlock()
	if ok {
		return cb
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cb, ok := r.breakers[resource]; ok {
		return cb
	}
	var onChange func(from, to CircuitState)
	if r.onChange != nil {
		onChange = func(from, to CircuitState) { r.onChange(resource, from, to) }
	}
	cb = NewCircuitBreaker(r.config, onChange)
	r.breakers[resource] = cb
	return cb
}

// resourceOf returns the first segment of a relative request path.
func resourceOf(path string) string {
	path, _, _ = strings.Cut(path, "?")
	resource, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return resource
}

type noopCircuitBreaker struct{}

func (noopCircuitBreaker) Execute(fn func() error) error { return fn() }

func (noopCircuitBreaker) State() CircuitState { return CircuitClosed }

func (noopCircuitBreaker) Reset() {}
