package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/scholarship-portal-api/internal/config"
	"github.com/noah-isme/scholarship-portal-api/internal/handler"
	"github.com/noah-isme/scholarship-portal-api/internal/middleware"
	"github.com/noah-isme/scholarship-portal-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ScholarshipHandler      *handler.ScholarshipHandler
	ApplicationHandler      *handler.ApplicationHandler
	NotificationHandler     *handler.NotificationHandler
	AdminApplicationHandler *handler.AdminApplicationHandler
	AdminActivityHandler    *handler.AdminActivityHandler
	EmailLogHandler         *handler.EmailLogHandler
	JWTMiddleware           fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	authenticated := middleware.Authorize(middleware.AuthOptions{Role: middleware.AuthRoleAny, RequireUser: true})

	if deps.ScholarshipHandler != nil {
		deps.ScholarshipHandler.Register(api.Group("/scholarships", jwtMiddleware, authenticated))
	}

	if deps.ApplicationHandler != nil {
		student := api.Group("/student/applications",
			jwtMiddleware,
			middleware.Authorize(middleware.AuthOptions{Role: middleware.AuthRoleStudent}),
			middleware.RateLimit("student-applications", 20, time.Minute),
		)
		deps.ApplicationHandler.Register(student)
	}

	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(api.Group("/notifications", jwtMiddleware, authenticated))
	}

	admin := app.Group("/api/admin", jwtMiddleware)
	reviewer := middleware.Authorize(middleware.AuthOptions{Role: middleware.AuthRoleReviewer})

	if deps.AdminApplicationHandler != nil {
		applications := admin.Group("/applications", reviewer, middleware.RateLimit("admin-applications", 120, time.Minute))
		deps.AdminApplicationHandler.Register(applications)
	}

	if deps.AdminActivityHandler != nil {
		deps.AdminActivityHandler.Register(admin.Group("/activity", reviewer))
	}

	if deps.EmailLogHandler != nil {
		emailLogs := admin.Group("/email-logs", middleware.RequireRole(middleware.AuthRoleAdmin))
		deps.EmailLogHandler.Register(emailLogs)
	}
}
