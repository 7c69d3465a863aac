package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/civiceye/civiceye/internal/auth"
	"github.com/civiceye/civiceye/internal/citizen"
	"github.com/civiceye/civiceye/internal/complaint"
	"github.com/civiceye/civiceye/internal/config"
	"github.com/civiceye/civiceye/internal/mailer"
	"github.com/civiceye/civiceye/internal/middleware"
	"github.com/civiceye/civiceye/internal/notification"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB presence outside of dev, even though main also checks.
	if !config.IsDev(d.Cfg.AppEnv) && d.DB == nil {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Logger != nil {
		app.Use(middleware.Audit(d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories
	var citizenRepo citizen.Repository
	var otpRepo auth.OTPRepository
	var complaintRepo complaint.Repository
	if d.DB != nil {
		citizenRepo = citizen.NewPostgresRepository(d.DB)
		otpRepo = auth.NewPostgresOTPRepository(d.DB)
		complaintRepo = complaint.NewPostgresRepository(d.DB)
	} else {
		citizenRepo = citizen.NewMemoryRepository()
		otpRepo = auth.NewMemoryOTPRepository()
		complaintRepo = complaint.NewMemoryRepository()
	}

	// Collaborators
	var mail mailer.Mailer
	if d.Cfg.SMTPHost != "" {
		mail = mailer.NewSMTP(d.Cfg)
	} else {
		mail = mailer.NewLogMailer(d.Logger)
	}

	var notifier notification.Notifier
	if d.Cfg.NotifyEmail != "" {
		notifier = notification.NewMailNotifier(mail, d.Cfg.NotifyEmail)
	} else {
		notifier = notification.NewLoggerNotifier(d.Logger)
	}

	// Services and handlers
	authSvc := auth.NewService(d.Cfg, citizenRepo, otpRepo, mail)
	authHandler := auth.NewHandler(authSvc)
	complaintSvc := complaint.NewService(complaintRepo, notifier, d.Logger)
	complaintHandler := complaint.NewHandler(complaintSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.EmailRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)
	RegisterPublicComplaintRoutes(api, complaintHandler)

	// Protected routes
	sessionMW := middleware.SessionAuth(d.Cfg.JWTSecret)
	protected := api.Group("", sessionMW)
	RegisterComplaintRoutes(protected, complaintHandler)

	// Profile endpoint
	protected.Get("/me", func(c *fiber.Ctx) error {
		cid, _ := c.Locals("citizen_id").(int64)
		if cid == 0 {
			return c.SendStatus(http.StatusUnauthorized)
		}
		cit, err := citizenRepo.FindByID(c.UserContext(), cid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "citizen not found")
		}
		return c.JSON(fiber.Map{
			"id":       cit.ID,
			"email":    cit.Email,
			"name":     cit.Profile().Name,
			"mobile":   cit.Mobile,
			"dob":      cit.DOB,
			"gender":   cit.Gender,
			"country":  cit.Country,
			"state":    cit.State,
			"district": cit.District,
			"city":     cit.City,
		})
	})

	return nil
}
