package mockapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/birbparty/clusterapi/sdk/validation"
)

// DetailResponse is the error body for everything but validation errors
type DetailResponse struct {
	Detail string `json:"detail"`
}

// ValidationDetail locates one rejected input
type ValidationDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationResponse is the 422 body; its detail is a list
type ValidationResponse struct {
	Detail []ValidationDetail `json:"detail"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks"`
}

// TaskCallback is POSTed to the callback URL of a finished task
type TaskCallback struct {
	TaskCollectionUUID string `json:"task_collection_uuid"`
	ObjectID           int    `json:"object_id,omitempty"`
	ClusterID          int    `json:"cluster_id"`
	Success            bool   `json:"success"`
}

func detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(DetailResponse{Detail: msg})
}

func notFound(c *fiber.Ctx) error {
	return detail(c, fiber.StatusNotFound, "Object not found")
}

// invalid answers 422 for one input at loc.
func invalid(c *fiber.Ctx, msg, kind string, loc ...string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationResponse{
		Detail: []ValidationDetail{{Loc: loc, Msg: msg, Type: kind}},
	})
}

// invalidBody answers 422 for a body rejected by a model check.
func invalidBody(c *fiber.Ctx, err error) error {
	if verr, ok := validation.AsValidationError(err); ok {
		return invalid(c, verr.Message, "value_error."+verr.Constraint, "body", verr.Field)
	}
	return invalid(c, err.Error(), "value_error", "body")
}

func missing(c *fiber.Ctx, in, field string) error {
	return invalid(c, "field required", "value_error.missing", in, field)
}
