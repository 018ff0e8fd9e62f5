package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/academica-app/academica-api/internal/config"
	"github.com/academica-app/academica-api/internal/handler"
	"github.com/academica-app/academica-api/internal/middleware"
	"github.com/academica-app/academica-api/internal/models"
	"github.com/academica-app/academica-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DepartmentHandler   *handler.DepartmentHandler
	CourseHandler       *handler.CourseHandler
	AssessmentHandler   *handler.AssessmentHandler
	SubmissionHandler   *handler.SubmissionHandler
	CalendarHandler     *handler.CalendarHandler
	AnnouncementHandler *handler.AnnouncementHandler
	NotificationHandler *handler.NotificationHandler
	DocumentHandler     *handler.DocumentHandler
	DashboardHandler    *handler.DashboardHandler
	ActivityHandler     *handler.ActivityHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	requireAdmin := middleware.RequireRole(models.RoleAdmin)
	requireApprover := middleware.RequireRole(models.RoleAdmin, models.RoleHOD)
	requireStaff := middleware.RequireRole(models.RoleAdmin, models.RoleHOD, models.RoleTeacher)
	requireStudent := middleware.RequireRole(models.RoleStudent)
	submitLimiter := middleware.RateLimit("submissions", 10, time.Minute)

	protected := api.Group("", jwtMiddleware)

	if deps.DepartmentHandler != nil {
		deps.DepartmentHandler.Register(protected.Group("/departments"), requireAdmin)
	}

	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(protected.Group("/courses"), requireAdmin, requireApprover)
	}

	if deps.AssessmentHandler != nil {
		deps.AssessmentHandler.Register(protected.Group("/assessments"), requireStaff, requireApprover)
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(protected.Group("/submissions"), requireStudent, requireStaff, submitLimiter)
	}

	if deps.CalendarHandler != nil {
		deps.CalendarHandler.Register(protected.Group("/calendar"), requireAdmin)
	}

	if deps.AnnouncementHandler != nil {
		deps.AnnouncementHandler.Register(protected.Group("/announcements"), requireApprover)
	}

	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(protected.Group("/notifications"), requireApprover)
	}

	if deps.DocumentHandler != nil {
		deps.DocumentHandler.Register(protected.Group("/documents"), requireAdmin)
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(protected.Group("/dashboard", requireStudent))
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(protected.Group("/activity", requireAdmin))
	}
}
