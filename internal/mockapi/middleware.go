package mockapi

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"

	"github.com/birbparty/clusterapi/internal/telemetry"
)

// SetupMiddleware configures all middleware for the application
func SetupMiddleware(app *fiber.App, logger *logrus.Logger, metrics *telemetry.Metrics) {
	app.Use(requestid.New())

	app.Use(telemetry.FiberMetricsMiddleware(metrics))
	app.Use(telemetry.FiberLoggingMiddleware(logger))

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, traceparent",
	}))

	app.Use(errorHandler(logger))

	app.Use(timingMiddleware())
}

// ErrorHandler renders handler errors as {"detail": ...} bodies
func ErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			logger.WithError(err).WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Error("Unhandled error")
		}

		return detail(c, code, message)
	}
}

// errorHandler converts errors inside the middleware chain so that the
// outer middlewares see the final status.
func errorHandler(logger *logrus.Logger) fiber.Handler {
	render := ErrorHandler(logger)
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return render(c, err)
		}
		return nil
	}
}

// timingMiddleware adds request timing headers
func timingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		c.Set("X-Response-Time", fmt.Sprintf("%d ms", time.Since(start).Milliseconds()))
		return err
	}
}

// ValidateToken checks the bearer token. X-API-Key is accepted as well.
func ValidateToken(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-API-Key")
		if key == "" {
			if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
				key = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(token)) != 1 {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return detail(c, fiber.StatusUnauthorized, "Not authenticated")
		}
		return c.Next()
	}
}

// RateLimiter limits each client IP to requestsPerMinute
func RateLimiter(requestsPerMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        requestsPerMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return detail(c, fiber.StatusTooManyRequests, "Rate limit exceeded")
		},
	})
}
