package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "finman/docs" // swagger docs

	"finman/internal/auth"
	"finman/internal/cache"
	"finman/internal/config"
	"finman/internal/db"
	"finman/internal/handler"
	"finman/internal/mail"
	"finman/internal/metals"
	"finman/internal/model"
	"finman/internal/notify"
	"finman/internal/repository"
	"finman/internal/router"
	"finman/internal/service"
)

// @title Finman API
// @version 1.0
// @description Personal finance API with OTP-gated authentication, goals, ledger, plans, reports and notifications.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Goal{},
		&model.Transaction{},
		&model.Plan{},
		&model.PlanSection{},
		&model.Report{},
		&model.Notification{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	goalRepo := repository.NewGoalRepository(gormDB)
	transactionRepo := repository.NewTransactionRepository(gormDB)
	planRepo := repository.NewPlanRepository(gormDB)
	reportRepo := repository.NewReportRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	otpEngine := auth.NewOTPEngine(userRepo, cfg.OTPWindow)
	mailer := mail.FromConfig(cfg)
	dispatcher := notify.NewDispatcher(100)
	defer dispatcher.Close()

	// Initialize services
	authService := service.NewAuthService(userRepo, notificationRepo, otpEngine, jwtService, mailer, dispatcher)
	goalService := service.NewGoalService(goalRepo)
	transactionService := service.NewTransactionService(transactionRepo)
	planService := service.NewPlanService(planRepo)
	reportService := service.NewReportService(reportRepo, transactionRepo, cacheClient)
	notificationService := service.NewNotificationService(notificationRepo)
	metalsService := service.NewMetalsService(metals.NewClient(cfg.MetalsAPIURL, nil), cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	goalHandler := handler.NewGoalHandler(goalService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	planHandler := handler.NewPlanHandler(planService)
	reportHandler := handler.NewReportHandler(reportService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	metalsHandler := handler.NewMetalsHandler(metalsService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		goalHandler,
		transactionHandler,
		planHandler,
		reportHandler,
		notificationHandler,
		metalsHandler,
	)

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(swaggerHost, "http://") && !strings.HasPrefix(swaggerHost, "https://") {
		swaggerHost = "http://" + swaggerHost
	}
	log.Printf("Swagger documentation available at: %s/swagger/index.html", swaggerHost)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
