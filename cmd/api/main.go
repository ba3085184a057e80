package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/orderdesk-api/internal/application/service"
	"github.com/sangkips/orderdesk-api/internal/config"
	"github.com/sangkips/orderdesk-api/internal/domain/crm"
	"github.com/sangkips/orderdesk-api/internal/infrastructure/database"
	"github.com/sangkips/orderdesk-api/internal/infrastructure/repository"
	"github.com/sangkips/orderdesk-api/internal/infrastructure/rules"
	"github.com/sangkips/orderdesk-api/internal/presentation/http/handler"
	"github.com/sangkips/orderdesk-api/internal/presentation/http/middleware"
	"github.com/sangkips/orderdesk-api/internal/presentation/http/routes"
	"github.com/sangkips/orderdesk-api/pkg/email"
	"github.com/sangkips/orderdesk-api/pkg/logger"
	"github.com/sangkips/orderdesk-api/pkg/utils"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.App.Env, cfg.App.Debug)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database, log, cfg.App.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	if err := database.SeedDefaultData(db, log); err != nil {
		log.Warn().Err(err).Msg("Failed to seed default data")
	}

	// CRM rules: defaults, then the rules file when one is configured
	ruleSet := crm.NewRuleSet(crm.DefaultRules())
	if cfg.CRM.RulesPath != "" {
		watcher := rules.New(cfg.CRM.RulesPath, ruleSet, log)
		if err := watcher.Reload(); err != nil {
			log.Fatal().Err(err).Str("path", cfg.CRM.RulesPath).Msg("Invalid CRM rules file")
		}
		if cfg.CRM.WatchRules {
			if err := watcher.Start(ctx); err != nil {
				log.Warn().Err(err).Msg("CRM rules hot reload disabled")
			}
		}
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.ExpiryHours)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	readRepo := repository.NewReminderReadRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, log)
	userService := service.NewUserService(userRepo, log)
	customerService := service.NewCustomerService(customerRepo, log)
	exportService := service.NewExportService(customerRepo)
	interactionService := service.NewInteractionService(customerRepo, interactionRepo, log, time.Now)
	reminderService := service.NewReminderService(customerRepo, interactionRepo, readRepo, ruleSet, log, time.Now)
	recalcService := service.NewRecalculationService(customerRepo, orderRepo, ruleSet, cfg.CRM.RecalcWorkers, log, time.Now)
	productService := service.NewProductService(productRepo, log)
	orderService := service.NewOrderService(orderRepo, productRepo, log, time.Now)
	dashboardService := service.NewDashboardService(customerRepo, reminderService)
	maintenanceService := service.NewMaintenanceService(idempotencyRepo, log)

	// Background jobs
	if cfg.CRM.RecalcHour >= 0 {
		service.ScheduleDailyAt(ctx, log, "crm_recalculation", cfg.CRM.RecalcHour, 0, recalcService.RunScheduled)
	}
	service.ScheduleDailyAt(ctx, log, "idempotency_purge", 3, 30, maintenanceService.PurgeIdempotencyKeys)

	if cfg.Email.Enabled() && cfg.Digest.Hour >= 0 {
		mailer := email.NewEmailService(email.EmailConfig{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromName:     cfg.Email.FromName,
			FromEmail:    cfg.Email.FromEmail,
		})
		digestService := service.NewDigestService(reminderService, userRepo, mailer, cfg.Digest.Recipients, log, time.Now)
		service.ScheduleDailyAt(ctx, log, "reminder_digest", cfg.Digest.Hour, 0, func(ctx context.Context) {
			if err := digestService.SendDaily(ctx); err != nil {
				log.Error().Err(err).Msg("Reminder digest failed")
			}
		})
	}

	rateLimiter := middleware.NewClientRateLimiter(
		middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	go rateLimiter.Run(ctx)

	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(userService),
		Customer:    handler.NewCustomerHandler(customerService, exportService, time.Now),
		Interaction: handler.NewInteractionHandler(interactionService),
		Reminder:    handler.NewReminderHandler(reminderService),
		CRM:         handler.NewCRMHandler(recalcService, dashboardService, ruleSet),
		Order:       handler.NewOrderHandler(orderService),
		Product:     handler.NewProductHandler(productService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Users:           userRepo,
		Log:             log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", port).Str("env", cfg.App.Env).Msgf("Starting %s server", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
