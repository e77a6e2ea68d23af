package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/voluntr/volunteer-api/internal/config"
	"github.com/voluntr/volunteer-api/internal/email"
	"github.com/voluntr/volunteer-api/internal/handler"
	applicationHandler "github.com/voluntr/volunteer-api/internal/handler/application"
	authHandler "github.com/voluntr/volunteer-api/internal/handler/auth"
	badgeHandler "github.com/voluntr/volunteer-api/internal/handler/badge"
	messageHandler "github.com/voluntr/volunteer-api/internal/handler/message"
	notificationHandler "github.com/voluntr/volunteer-api/internal/handler/notification"
	opportunityHandler "github.com/voluntr/volunteer-api/internal/handler/opportunity"
	organizationHandler "github.com/voluntr/volunteer-api/internal/handler/organization"
	userHandler "github.com/voluntr/volunteer-api/internal/handler/user"
	"github.com/voluntr/volunteer-api/internal/middleware"
	"github.com/voluntr/volunteer-api/internal/repository/postgres"
	"github.com/voluntr/volunteer-api/internal/router"
	applicationService "github.com/voluntr/volunteer-api/internal/service/application"
	authService "github.com/voluntr/volunteer-api/internal/service/auth"
	badgeService "github.com/voluntr/volunteer-api/internal/service/badge"
	messageService "github.com/voluntr/volunteer-api/internal/service/message"
	notificationService "github.com/voluntr/volunteer-api/internal/service/notification"
	opportunityService "github.com/voluntr/volunteer-api/internal/service/opportunity"
	organizationService "github.com/voluntr/volunteer-api/internal/service/organization"
	userService "github.com/voluntr/volunteer-api/internal/service/user"
	"github.com/voluntr/volunteer-api/pkg/auth"
	"github.com/voluntr/volunteer-api/pkg/logger"
	"github.com/voluntr/volunteer-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLogger := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Logger.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	appMetrics := metrics.New("volunteer_api")

	// Repositories
	baseRepo := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(baseRepo)
	organizationRepo := postgres.NewOrganizationRepository(baseRepo)
	opportunityRepo := postgres.NewOpportunityRepository(baseRepo)
	applicationRepo := postgres.NewApplicationRepository(baseRepo)
	notificationRepo := postgres.NewNotificationRepository(baseRepo)
	messageRepo := postgres.NewMessageRepository(baseRepo)
	badgeRepo := postgres.NewBadgeRepository(baseRepo)
	outboxRepo := postgres.NewOutboxRepository(baseRepo)

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	emailSvc := email.NewService(email.Config{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	})
	notificationSvc := notificationService.NewService(notificationRepo, outboxRepo, appLogger, appMetrics)
	badgeSvc := badgeService.NewService(badgeRepo, applicationRepo, notificationSvc, appLogger, appMetrics)
	authSvc := authService.NewService(userRepo, jwtSvc, notificationSvc, emailSvc, appLogger)
	userSvc := userService.NewService(userRepo)
	organizationSvc := organizationService.NewService(organizationRepo)
	opportunitySvc := opportunityService.NewService(opportunityRepo, organizationRepo)
	applicationSvc := applicationService.NewService(applicationRepo, opportunityRepo, userRepo, badgeSvc, notificationSvc, emailSvc, appLogger)
	messageSvc := messageService.NewService(messageRepo, userRepo, notificationSvc, appLogger)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	// Handlers
	handlers := router.Handlers{
		Base:         handler.NewHandler(db),
		Auth:         authHandler.NewHandler(authSvc),
		User:         userHandler.NewHandler(userSvc),
		Organization: organizationHandler.NewHandler(organizationSvc),
		Opportunity:  opportunityHandler.NewHandler(opportunitySvc, applicationSvc),
		Application:  applicationHandler.NewHandler(applicationSvc),
		Notification: notificationHandler.NewHandler(notificationSvc),
		Message:      messageHandler.NewHandler(messageSvc),
		Badge:        badgeHandler.NewHandler(badgeSvc),
	}

	r := router.NewRouter(authMiddleware, handlers, router.Config{
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		CORSConfig:     middleware.DefaultCORSConfig(),
		MetricsPrefix:  "volunteer_api_http",
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		appLogger.ZL.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal(err, "server forced to shutdown")
	}

	appLogger.Info("server exited properly")
}
