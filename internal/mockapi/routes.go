package mockapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/birbparty/clusterapi/internal/telemetry"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, h *Handler, cfg *Config, metrics *telemetry.Metrics) {
	// Health and metrics endpoints (no auth required)
	app.Get("/health", h.Health)
	app.Get(cfg.MetricsPath, telemetry.FiberMetricsHandler(metrics))

	api := app.Group(cfg.BasePath)
	if cfg.RateLimit > 0 {
		api.Use(RateLimiter(cfg.RateLimit))
	}
	if cfg.APIToken != "" {
		api.Use(ValidateToken(cfg.APIToken))
	}

	clusters := api.Group("/" + KindClusters)
	clusters.Get("/", h.List(KindClusters))
	clusters.Get("/:id", h.Get(KindClusters))

	cmses := api.Group("/" + KindCmses)
	cmses.Get("/", h.List(KindCmses))
	cmses.Post("/", h.Create(cmsSpec))
	cmses.Get("/:id", h.Get(KindCmses))
	cmses.Delete("/:id", h.Delete(KindCmses))
	cmses.Post("/:id/install", h.InstallCms)
	cmses.Get("/:id/one-time-login", h.OneTimeLogin)
	cmses.Put("/:id/options/:name", h.UpdateCmsOption)
	cmses.Put("/:id/configuration-constants/:name", h.UpdateCmsConfigurationConstant)
	cmses.Post("/:id/search-replace", h.SearchReplaceCms)
	cmses.Post("/:id/regenerate-salts", h.RegenerateCmsSalts)

	mail := api.Group("/" + KindMailAccounts)
	mail.Get("/", h.List(KindMailAccounts))
	mail.Post("/", h.Create(mailAccountSpec))
	mail.Get("/usages/:id", h.MailAccountUsages)
	mail.Get("/:id", h.Get(KindMailAccounts))
	mail.Put("/:id", h.Update(mailAccountSpec))
	mail.Delete("/:id", h.Delete(KindMailAccounts))

	hosts := api.Group("/" + KindVirtualHosts)
	hosts.Get("/", h.List(KindVirtualHosts))
	hosts.Post("/", h.Create(virtualHostSpec))
	hosts.Get("/:id", h.Get(KindVirtualHosts))
	hosts.Put("/:id", h.Update(virtualHostSpec))
	hosts.Delete("/:id", h.Delete(KindVirtualHosts))

	apps := api.Group("/" + KindPassengerApps)
	apps.Get("/", h.List(KindPassengerApps))
	apps.Post("/nodejs", h.Create(passengerAppSpec))
	apps.Get("/:id", h.Get(KindPassengerApps))
	apps.Put("/:id", h.Update(passengerAppSpec))
	apps.Delete("/:id", h.Delete(KindPassengerApps))

	routers := api.Group("/" + KindDomainRouters)
	routers.Get("/", h.List(KindDomainRouters))
	routers.Get("/:id", h.Get(KindDomainRouters))
	routers.Put("/:id", h.Update(domainRouterSpec))

	api.Post("/borg-archives/database", h.CreateDatabaseArchive)

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "clusterapi-mock",
			"version": Version,
			"status":  "running",
			"api":     cfg.BasePath,
			"endpoints": fiber.Map{
				"health":  "GET /health",
				"metrics": "GET " + cfg.MetricsPath,
			},
		})
	})

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return detail(c, fiber.StatusNotFound, "Not Found")
	})
}
