package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contact-relay-backend/config"
	"contact-relay-backend/docs" // Important for Swagger
	"contact-relay-backend/internal/delivery/http/v1"
	"contact-relay-backend/internal/usecase"
	"contact-relay-backend/pkg/email"
	"contact-relay-backend/pkg/logger"
	"contact-relay-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Contact Relay API
// @version         1.0
// @description     Relays website contact form submissions to the business inbox over SMTP.
// @host            localhost:3000
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting contact relay", "port", cfg.Port)
	gin.SetMode(cfg.GinMode)
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	// 3. Setup Email
	transport := email.NewSMTPTransport(cfg)
	composer := email.NewComposer(email.ComposerConfig{
		EnvelopeFrom:  cfg.SMTPFromEmail,
		To:            cfg.ContactEmailTo,
		SubjectPrefix: cfg.ContactSubjectPrefix,
		Branding: email.Branding{
			Name:     cfg.BrandName,
			Tagline:  cfg.BrandTagline,
			Location: cfg.BrandLocation,
			SiteURL:  cfg.SiteURL,
		},
	})
	if !transport.IsConfigured() || !composer.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - contact form will be unavailable",
			"smtp_host", cfg.SMTPHost, "smtp_port", cfg.SMTPPort)
	}

	// 4. Setup UseCases
	contactUC := usecase.NewContactUsecase(composer, transport, validation.New(), logger.Log)

	// 5. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		Config:    cfg,
		Logger:    logger.Log,
	})

	// 6. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server is running", "addr", "http://localhost:"+cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
