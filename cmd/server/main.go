package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"communityevents/config"
	_ "communityevents/docs"
	"communityevents/internal/adapters/auth"
	"communityevents/internal/adapters/email"
	httpdelivery "communityevents/internal/delivery/http"
	"communityevents/internal/delivery/http/controllers"
	"communityevents/internal/delivery/http/middleware"
	"communityevents/internal/repository/postgres"
	"communityevents/internal/services"
)

const serviceTimeout = 5 * time.Second

// @title Community Events API
// @version 1.0
// @description Event registration and capacity management service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
	if err := db.PingContext(pingCtx); err != nil {
		cancel()
		logger.Error("failed to reach database", "error", err)
		os.Exit(1)
	}
	cancel()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	taxonomyRepo := postgres.NewTaxonomyRepository(db)

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	eventService := services.NewEventService(eventRepo, serviceTimeout)
	registrationService := services.NewRegistrationService(eventRepo, participantRepo, registrationRepo, emailService, logger, serviceTimeout)
	userService := services.NewUserService(userRepo, serviceTimeout)

	verifier := auth.NewJWTVerifier(cfg.IdentityJWTSecret)

	mux := httpdelivery.NewRouter(
		logger,
		verifier,
		controllers.NewEventController(logger, eventService, userService),
		controllers.NewRegistrationController(logger, registrationService, userService),
		controllers.NewTaxonomyController(logger, taxonomyRepo),
		controllers.NewWebhookController(logger, userService, cfg.IdentityWebhookSecret),
	)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
