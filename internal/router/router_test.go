package router_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/scholarship-portal-api/internal/config"
	"github.com/noah-isme/scholarship-portal-api/internal/handler"
	"github.com/noah-isme/scholarship-portal-api/internal/models"
	"github.com/noah-isme/scholarship-portal-api/internal/repository"
	"github.com/noah-isme/scholarship-portal-api/internal/router"
	"github.com/noah-isme/scholarship-portal-api/internal/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := fmt.Sprintf("file:router_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	logger := zerolog.Nop()
	validate := validator.New(validator.WithRequiredStructEnabled())
	applications := repository.NewApplicationRepository(db)
	notifier := service.InlineNotifier{}
	emitter := service.NewActivityEmitter(service.NewActivityService(repository.NewActivityLogRepository(db), logger), 8, time.Second, logger)
	t.Cleanup(emitter.Close)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role := c.Get("X-Test-Role"); role != "" {
			c.Locals("user_id", uint(1))
			c.Locals("user_role", role)
		}
		return c.Next()
	})

	router.Register(app, config.Config{AppName: "Scholarship Portal API", AppEnv: "test"}, router.Dependencies{
		ScholarshipHandler: handler.NewScholarshipHandler(service.NewScholarshipService(repository.NewScholarshipRepository(db), nil, time.Minute, logger), logger),
		AdminApplicationHandler: handler.NewAdminApplicationHandler(
			service.NewApplicationReviewService(applications, validate, notifier, emitter, nil, time.Second, logger),
			service.NewBulkReviewService(applications, validate, notifier, emitter, time.Second, logger),
			logger,
		),
		EmailLogHandler: handler.NewEmailLogHandler(service.NewEmailLogService(repository.NewEmailLogRepository(db)), logger),
	})
	return app
}

func TestRouteAccessByRole(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		path   string
		role   string
		status int
	}{
		{path: "/api/v1/health", status: fiber.StatusOK},
		{path: "/api/v1/scholarships", status: fiber.StatusUnauthorized},
		{path: "/api/v1/scholarships", role: "student", status: fiber.StatusOK},
		{path: "/api/admin/applications", role: "student", status: fiber.StatusForbidden},
		{path: "/api/admin/applications", role: "staff", status: fiber.StatusOK},
		{path: "/api/admin/email-logs", role: "staff", status: fiber.StatusForbidden},
		{path: "/api/admin/email-logs", role: "admin", status: fiber.StatusOK},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.role != "" {
			req.Header.Set("X-Test-Role", tc.role)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, tc.status, resp.StatusCode, "%s as %q", tc.path, tc.role)
	}
}
