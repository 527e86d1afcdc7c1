package mockapi

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Version of the mock, reported by / and /health
const Version = "1.0.0"

// resourceSpec describes a writable collection.
type resourceSpec struct {
	kind string
	// parentKind and parentKey locate the object whose cluster a new
	// record inherits. Without a parent the default cluster is used.
	parentKind string
	parentKey  string
	// writeOnly fields are accepted but never returned
	writeOnly []string
}

var (
	cmsSpec          = resourceSpec{kind: KindCmses, parentKind: KindVirtualHosts, parentKey: "virtual_host_id"}
	virtualHostSpec  = resourceSpec{kind: KindVirtualHosts}
	mailAccountSpec  = resourceSpec{kind: KindMailAccounts, writeOnly: []string{"password"}}
	passengerAppSpec = resourceSpec{kind: KindPassengerApps}
	domainRouterSpec = resourceSpec{kind: KindDomainRouters}
)

// Handler holds all dependencies for API handlers
type Handler struct {
	store     *Store
	callbacks *CallbackDispatcher
	cfg       *Config
	logger    *logrus.Logger
	started   time.Time
}

// NewHandler creates a new handler instance
func NewHandler(store *Store, callbacks *CallbackDispatcher, cfg *Config, logger *logrus.Logger) *Handler {
	return &Handler{
		store:     store,
		callbacks: callbacks,
		cfg:       cfg,
		logger:    logger,
		started:   time.Now(),
	}
}

// List handles GET /<kind>
func (h *Handler) List(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
		if err != nil {
			return invalid(c, err.Error(), "value_error", "query")
		}
		q, err := ParseListQuery(values)
		if err != nil {
			return invalid(c, err.Error(), "value_error", "query")
		}

		records := h.store.List(kind, q)
		spec := specFor(kind)
		return c.JSON(lo.Map(records, func(rec Record, _ int) Record {
			return spec.public(rec)
		}))
	}
}

// Get handles GET /<kind>/:id
func (h *Handler) Get(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return invalid(c, "value is not a valid integer", "type_error.integer", "path", "id")
		}
		rec, ok := h.store.Get(kind, id)
		if !ok {
			return notFound(c)
		}
		return c.JSON(specFor(kind).public(rec))
	}
}

// Create handles POST /<kind>. The body is checked against the client
// model of the collection.
func (h *Handler) Create(spec resourceSpec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := h.body(c)
		if err != nil {
			return invalid(c, err.Error(), "value_error.jsondecode", "body")
		}
		delete(body, "id")
		delete(body, "created_at")
		delete(body, "updated_at")
		body["cluster_id"] = h.clusterFor(spec, body)

		if err := modelCheck[spec.kind](body); err != nil {
			return invalidBody(c, err)
		}

		rec, err := h.store.Insert(spec.kind, body)
		if err != nil {
			return err
		}
		h.logger.WithFields(logrus.Fields{
			"kind":       spec.kind,
			"id":         rec.ID(),
			"cluster_id": rec.ClusterID(),
		}).Info("Object created")
		return c.Status(fiber.StatusCreated).JSON(spec.public(rec))
	}
}

// Update handles PUT /<kind>/:id
func (h *Handler) Update(spec resourceSpec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return invalid(c, "value is not a valid integer", "type_error.integer", "path", "id")
		}
		body, err := h.body(c)
		if err != nil {
			return invalid(c, err.Error(), "value_error.jsondecode", "body")
		}
		if bodyID, ok := body["id"]; ok && intOf(bodyID) != id {
			return invalid(c, "id does not match the path", "value_error", "body", "id")
		}

		current, ok := h.store.Get(spec.kind, id)
		if !ok {
			return notFound(c)
		}
		// write-only fields are kept unless the update sets them
		for _, key := range spec.writeOnly {
			if _, ok := body[key]; !ok && current[key] != nil {
				body[key] = current[key]
			}
		}
		if err := modelCheck[spec.kind](body); err != nil {
			return invalidBody(c, err)
		}

		rec, ok, err := h.store.Replace(spec.kind, id, body)
		if err != nil {
			return err
		}
		if !ok {
			return notFound(c)
		}
		return c.JSON(spec.public(rec))
	}
}

// Delete handles DELETE /<kind>/:id
func (h *Handler) Delete(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return invalid(c, "value is not a valid integer", "type_error.integer", "path", "id")
		}
		if !h.store.Delete(kind, id) {
			return notFound(c)
		}
		h.logger.WithFields(logrus.Fields{"kind": kind, "id": id}).Info("Object deleted")
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Health handles GET /health
func (h *Handler) Health(c *fiber.Ctx) error {
	stats := h.callbacks.Stats()
	return c.JSON(HealthResponse{
		Status:  "healthy",
		Service: "clusterapi-mock",
		Version: Version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Checks: map[string]string{
			"store":     fmt.Sprintf("%d clusters", h.store.Count(KindClusters)),
			"callbacks": fmt.Sprintf("%d/%d queued", stats.QueueDepth, stats.QueueCapacity),
		},
	})
}

func (h *Handler) body(c *fiber.Ctx) (Record, error) {
	var body Record
	if err := c.App().Config().JSONDecoder(c.Body(), &body); err != nil {
		return nil, fmt.Errorf("body is not a JSON object: %w", err)
	}
	if body == nil {
		return nil, fmt.Errorf("body is not a JSON object")
	}
	return body, nil
}

func (h *Handler) clusterFor(spec resourceSpec, body Record) int {
	if spec.parentKind != "" {
		if parent, ok := h.store.Get(spec.parentKind, intOf(body[spec.parentKey])); ok && parent.ClusterID() != 0 {
			return parent.ClusterID()
		}
	}
	return h.cfg.DefaultClusterID
}

func specFor(kind string) resourceSpec {
	for _, spec := range []resourceSpec{cmsSpec, virtualHostSpec, mailAccountSpec, passengerAppSpec, domainRouterSpec} {
		if spec.kind == kind {
			return spec
		}
	}
	return resourceSpec{kind: kind}
}

// public strips write-only fields.
func (s resourceSpec) public(rec Record) Record {
	if len(s.writeOnly) == 0 {
		return rec
	}
	return lo.OmitByKeys(rec, s.writeOnly)
}
