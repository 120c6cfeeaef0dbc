package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"campusevents/config"
	_ "campusevents/docs"
	"campusevents/internal/adapters/auth"
	"campusevents/internal/adapters/email"
	"campusevents/internal/adapters/notify"
	httpdelivery "campusevents/internal/delivery/http"
	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/domain"
	"campusevents/internal/repository/postgres"
	"campusevents/internal/services"
	"campusevents/internal/worker"
)

// @title Campus Events API
// @version 1.0
// @description College event management: events, student registrations and outer-college registrations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stdout, cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()
	if err := db.PingContext(startCtx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	applied, err := postgres.MigrateUp(startCtx, db)
	if err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database ready", "migrations_applied", applied)

	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db, postgres.NewTxCapacityCounter)
	outerRepo := postgres.NewOuterCollegeRegistrationRepository(db)
	adminRepo := postgres.NewAdminRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
		ResendAPIKey: cfg.Email.ResendAPIKey,
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	noticeHandler := worker.NewNoticeHandler(emailService, logger)

	var (
		notifier     domain.Notifier
		noticeWorker *worker.Worker
		rabbit       *notify.RabbitMQ
	)
	if cfg.RabbitMQ.URL != "" {
		rabbit, err = notify.NewRabbitMQ(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, logger)
		if err != nil {
			logger.Error("failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		notifier = rabbit
		noticeWorker = worker.New(rabbit, noticeHandler, logger)
		noticeWorker.Start(context.Background())
	} else {
		logger.Info("RABBITMQ_URL not set, handling notices in-process")
		notifier = notify.NewInline(noticeHandler.Handle, logger)
	}

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	authService := services.NewAuthService(adminRepo, hasher, auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTExpiry))
	eventService := services.NewEventService(eventRepo, cfg.ContextTimeout)
	registrationService := services.NewRegistrationService(eventRepo, registrationRepo, notifier, logger, cfg.ContextTimeout)
	outerService := services.NewOuterCollegeService(eventRepo, outerRepo, notifier, logger, cfg.ContextTimeout)

	if cfg.SeedAdmin.Email != "" && cfg.SeedAdmin.Password != "" {
		created, err := authService.EnsureAdmin(startCtx, &domain.Admin{
			Email: cfg.SeedAdmin.Email,
			Name:  cfg.SeedAdmin.Name,
			Role:  domain.AdminRole(cfg.SeedAdmin.Role),
			Cell:  domain.Cell(cfg.SeedAdmin.Cell),
		}, cfg.SeedAdmin.Password)
		if err != nil {
			logger.Error("failed to seed admin", "error", err)
			os.Exit(1)
		}
		if created {
			logger.Info("seed admin created", "email", cfg.SeedAdmin.Email)
		}
	}

	mux := httpdelivery.NewRouter(httpdelivery.Controllers{
		Events:             controllers.NewEventController(logger, eventService),
		Registrations:      controllers.NewRegistrationController(logger, registrationService),
		OuterRegistrations: controllers.NewOuterRegistrationController(logger, outerService),
		Auth:               controllers.NewAuthController(logger, authService),
		Health:             controllers.NewHealthController(logger, db),
	}, auth.NewJWTVerifier(cfg.JWTSecret), logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpdelivery.NewHandler(mux, cfg.CORSOrigins, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case s := <-sig:
		logger.Info("shutting down", "signal", s.String())
	case err := <-serverErr:
		logger.Error("server error", "error", err)
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if noticeWorker != nil {
		noticeWorker.Stop()
	}
	if rabbit != nil {
		rabbit.Close()
	}
	logger.Info("shutdown complete")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
