package sdk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Client is a cluster API client. Resource operations are grouped by
// endpoint:
//
//	client, err := sdk.NewClient(sdk.DefaultConfig().WithToken(token))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	resp, err := client.Cmses().Get(ctx, 5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !resp.IsSuccess() {
//	    log.Fatalf("API error: %s", resp.ErrorMessage())
//	}
//	cms, _ := sdk.DataAs[*models.Cms](resp, sdk.KeyCms)
//
// A Client is safe for concurrent use. Every operation is a strictly
// sequential chain of requests: a compound action never issues its
// sub-requests in parallel.
type Client struct {
	transport Transport
	closer    func() error
	config    *Config
	logger    *logrus.Logger
	observer  Observer

	mu     sync.RWMutex
	closed bool

	cmses         *Cmses
	mailAccounts  *MailAccounts
	virtualHosts  *VirtualHosts
	passengerApps *PassengerApps
	domainRouters *DomainRouters
	clusters      *Clusters
	borgArchives  *BorgArchives
}

// NewClient creates a client with the provided configuration.
// If config is nil, DefaultConfig is used.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:   config,
		logger:   config.Logger,
		observer: config.Observer,
		closer:   func() error { return nil },
	}

	if config.Transport != nil {
		c.transport = config.Transport
	} else {
		t, err := newHTTPTransport(config)
		if err != nil {
			return nil, fmt.Errorf("failed to create transport: %w", err)
		}
		c.transport = t
		c.closer = t.close
	}

	base := endpoint{client: c}
	c.cmses = &Cmses{endpoint: base}
	c.mailAccounts = &MailAccounts{endpoint: base}
	c.virtualHosts = &VirtualHosts{endpoint: base}
	c.passengerApps = &PassengerApps{endpoint: base}
	c.domainRouters = &DomainRouters{endpoint: base}
	c.clusters = &Clusters{endpoint: base}
	c.borgArchives = &BorgArchives{endpoint: base}

	return c, nil
}

// Cmses returns the CMS endpoint.
func (c *Client) Cmses() *Cmses { return c.cmses }

// MailAccounts returns the mail account endpoint.
func (c *Client) MailAccounts() *MailAccounts { return c.mailAccounts }

// VirtualHosts returns the virtual host endpoint.
func (c *Client) VirtualHosts() *VirtualHosts { return c.virtualHosts }

// PassengerApps returns the Passenger app endpoint.
func (c *Client) PassengerApps() *PassengerApps { return c.passengerApps }

// DomainRouters returns the domain router endpoint.
func (c *Client) DomainRouters() *DomainRouters { return c.domainRouters }

// Clusters returns the cluster endpoint.
func (c *Client) Clusters() *Clusters { return c.clusters }

// BorgArchives returns the Borg archive endpoint.
func (c *Client) BorgArchives() *BorgArchives { return c.borgArchives }

// Config returns the validated configuration.
func (c *Client) Config() *Config { return c.config }

// Request sends a raw request through the configured transport. API errors
// come back as an unsuccessful Response; the error return carries transport
// faults only.
func (c *Client) Request(ctx context.Context, req *Request) (*Response, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.transport.Send(ctx, req)
	entry := c.logger.WithFields(logrus.Fields{
		"method":   req.Method(),
		"url":      req.URL(),
		"duration": time.Since(start),
	})
	if err != nil {
		entry.WithError(err).Warn("Cluster API request failed")
		return nil, err
	}
	if resp == nil {
		entry.Warn("Transport returned no response")
		return nil, fmt.Errorf("%w: %s %s returned no response", ErrInvalidResponse, req.Method(), req.URL())
	}

	entry = entry.WithField("status", resp.StatusCode())
	if !resp.IsSuccess() {
		entry.WithField("detail", resp.ErrorMessage()).Warn("Cluster API returned an error")
	} else {
		entry.Debug("Cluster API request completed")
	}
	return resp, nil
}

// clustersAffected reports the clusters a mutating operation touched.
func (c *Client) clustersAffected(op string, ids []int) {
	c.logger.WithFields(logrus.Fields{
		"operation":   op,
		"cluster_ids": ids,
	}).Info("Clusters affected")
	c.observer.OnClustersAffected(op, ids)
}

// Close closes the client and releases resources
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.closer()
}

func (c *Client) checkClosed() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}
	return nil
}
