package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/academica-app/academica-api/internal/config"
	"github.com/academica-app/academica-api/internal/database"
	"github.com/academica-app/academica-api/internal/handler"
	"github.com/academica-app/academica-api/internal/middleware"
	"github.com/academica-app/academica-api/internal/models"
	"github.com/academica-app/academica-api/internal/repository"
	"github.com/academica-app/academica-api/internal/router"
	"github.com/academica-app/academica-api/internal/service"
	cloud "github.com/academica-app/academica-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Course{},
		&models.CourseEnrollment{},
		&models.Assessment{},
		&models.AssessmentSubmission{},
		&models.AcademicYear{},
		&models.AcademicTerm{},
		&models.CalendarEvent{},
		&models.Announcement{},
		&models.Notification{},
		&models.DocumentCategory{},
		&models.Document{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	events := service.NewNATSEventPublisher(natsConn, cfg.EventChannel, logger)

	activityService := service.NewActivityService(activityRepo, validate, logger)
	departmentService := service.NewDepartmentService(departmentRepo, userRepo, validate, logger)
	courseService := service.NewCourseService(courseRepo, departmentRepo, userRepo, validate, activityService, logger)
	assessmentService := service.NewAssessmentService(assessmentRepo, courseRepo, validate, activityService, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assessmentRepo, validate, uploader, events, logger)
	gradingService := service.NewGradingService(submissionRepo, validate, activityService, events, logger)
	visibilityService := service.NewVisibilityService(assessmentRepo, submissionRepo, courseRepo, logger)
	calendarService := service.NewCalendarService(calendarRepo, validate, logger)
	announcementService := service.NewAnnouncementService(announcementRepo, notificationRepo, userRepo, courseRepo, validate, events, logger)
	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.EventChannel, natsConn, validate, logger)
	documentService := service.NewDocumentService(documentRepo, uploader, cfg.UploadMaxSizeMB, validate, logger)
	dashboardService := service.NewStudentDashboardService(assessmentRepo, submissionRepo, redisClient, cfg.DashboardCacheTTL, logger)

	serviceCtx, stopServices := context.WithCancel(context.Background())
	defer stopServices()
	notificationService.Start(serviceCtx)

	deps := router.Dependencies{
		DepartmentHandler:   handler.NewDepartmentHandler(departmentService, logger),
		CourseHandler:       handler.NewCourseHandler(courseService, logger),
		AssessmentHandler:   handler.NewAssessmentHandler(assessmentService, visibilityService, logger),
		SubmissionHandler:   handler.NewSubmissionHandler(submissionService, gradingService, visibilityService, logger),
		CalendarHandler:     handler.NewCalendarHandler(calendarService, logger),
		AnnouncementHandler: handler.NewAnnouncementHandler(announcementService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger, cfg.NotificationKeepAlive),
		DocumentHandler:     handler.NewDocumentHandler(documentService, logger),
		DashboardHandler:    handler.NewDashboardHandler(dashboardService, logger),
		ActivityHandler:     handler.NewActivityHandler(activityService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, deps)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
