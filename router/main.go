package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/examstack/examstack-api/config"
	"github.com/examstack/examstack-api/database"
	"github.com/examstack/examstack-api/handlers"
	admin_handlers "github.com/examstack/examstack-api/handlers/admin"
	auth_handlers "github.com/examstack/examstack-api/handlers/auth"
	"github.com/examstack/examstack-api/services"
	"github.com/examstack/examstack-api/utils/auth"
	"github.com/examstack/examstack-api/utils/cache"
	"github.com/examstack/examstack-api/utils/middleware"
)

// SetupRoutes wires the auth stack and registers all routes.
func SetupRoutes(app *fiber.App, store database.Storage, cfg *config.Config) {
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	issuer := auth.NewTokenIssuer(auth.JWTConfig{
		Secret:        cfg.JWTSecret,
		Expiry:        time.Duration(cfg.AccessExpiryMinutes) * time.Minute,
		RefreshExpiry: time.Duration(cfg.RefreshExpiryMinutes) * time.Minute,
		Issuer:        cfg.JWTIssuer,
	})

	db := store.GetDB()

	// Redis speeds up revocation lookups when available; the ledger
	// table stays authoritative either way.
	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" {
		var err error
		redisCache, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: failed to connect to Redis: %v. Revocation lookups will hit the database.", err)
			redisCache = nil
		}
	}

	blacklist := auth.NewBlacklistService(db, redisCache)

	mailer := buildMailer(cfg)

	authService := services.NewAuthService(db, issuer, blacklist, mailer, cfg.AdminSignupCode)
	authMiddleware := middleware.NewAuthMiddleware(issuer, blacklist, db)
	authHandler := auth_handlers.NewAuthHandler(authService, db)

	app.Get("/health", handlers.HandleCheckHealth(store))

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Get("/me", authMiddleware.Required(), authHandler.GetProfile)

	adminHandler := admin_handlers.NewAdminHandler(db, blacklist)

	adminGroup := v1.Group("/admin", authMiddleware.Required(), authMiddleware.RequireAdmin())
	adminGroup.Get("/users", adminHandler.ListUsers)
	adminGroup.Get("/revocations", adminHandler.GetRevocationStats)
}

func buildMailer(cfg *config.Config) services.Mailer {
	switch cfg.MailerDriver {
	case "ses":
		mailer, err := services.NewSESMailer(services.SESConfig{
			Region: cfg.AWSRegion,
			From:   cfg.MailFrom,
			AppURL: cfg.AppURL,
		})
		if err != nil {
			log.Printf("Warning: failed to initialize SES mailer: %v. Reset notifications will be skipped.", err)
			return nil
		}
		return mailer
	default:
		smtpMailer := services.NewEmailService(services.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			AppURL:   cfg.AppURL,
		})
		if !smtpMailer.IsConfigured() {
			log.Println("Warning: SMTP not configured. Reset notifications will be skipped.")
			return nil
		}
		return smtpMailer
	}
}
