package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"carebook_backend/database"
	"carebook_backend/internal/config"
	"carebook_backend/internal/email"
	"carebook_backend/internal/handlers"
	"carebook_backend/internal/logger"
	"carebook_backend/internal/middleware"
	subscriptionrepo "carebook_backend/internal/repositories/subscription"
	"carebook_backend/internal/routes"
	"carebook_backend/internal/services/payment"
	subscriptionservice "carebook_backend/internal/services/subscription"
	"carebook_backend/internal/validator"
	"carebook_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startWorkers(ctx, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	appHandlers := initializeHandlers(cfg, gormDB)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeHandlers(cfg *config.Config, gormDB *gorm.DB) *handlers.AppHandlers {
	planRepo := subscriptionrepo.NewPlanRepository(gormDB)
	subRepo := subscriptionrepo.NewSubscriptionRepository(gormDB)
	paymentRepo := subscriptionrepo.NewPaymentRepository(gormDB)

	gateway := payment.NewRazorpayService(
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		cfg.Razorpay.BaseURL,
		cfg.Razorpay.Currency,
	)

	var mailer email.Provider
	if cfg.Email.SMTPHost != "" {
		mailer = email.NewSMTPProvider(email.SMTPConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.SMTPUsername,
			Password: cfg.Email.SMTPPassword,
			From:     cfg.Email.FromEmail,
			FromName: cfg.Email.FromName,
		})
		logger.Info("SMTP receipts enabled", "host", cfg.Email.SMTPHost)
	} else {
		mailer = &email.NoopProvider{}
		logger.Warn("SMTP is not configured, receipts are disabled")
	}

	planService := subscriptionservice.NewPlanService(planRepo)
	membershipService := subscriptionservice.NewMembershipService(
		planRepo,
		subRepo,
		paymentRepo,
		gateway,
		mailer,
		cfg.Razorpay.Currency,
	)

	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		PlanHandler:       handlers.NewPlanHandler(baseHandler, planService),
		MembershipHandler: handlers.NewMembershipHandler(baseHandler, membershipService),
		BookingHandler:    handlers.NewBookingHandler(baseHandler, membershipService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func startWorkers(ctx context.Context, gormDB *gorm.DB) {
	subRepo := subscriptionrepo.NewSubscriptionRepository(gormDB)
	subscriptionWorker := workers.NewSubscriptionWorker(subRepo)
	subscriptionWorker.Start(ctx)
	logger.Info("Subscription worker started")
}
