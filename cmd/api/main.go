package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/sangkips/hotelpos-api/internal/application/service"
	"github.com/sangkips/hotelpos-api/internal/config"
	"github.com/sangkips/hotelpos-api/internal/infrastructure/cache"
	"github.com/sangkips/hotelpos-api/internal/infrastructure/database"
	"github.com/sangkips/hotelpos-api/internal/infrastructure/repository"
	"github.com/sangkips/hotelpos-api/internal/infrastructure/storage"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/handler"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/routes"
	"github.com/sangkips/hotelpos-api/internal/tasks"
	"github.com/sangkips/hotelpos-api/pkg/authadmin"
	"github.com/sangkips/hotelpos-api/pkg/pra"
	"github.com/sangkips/hotelpos-api/pkg/printer"
	"github.com/sangkips/hotelpos-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()
	loc := cfg.App.Location()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := database.SeedDefaultData(db, &cfg.Bootstrap); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Redis backs the settings cache and the task queue. Without it the
	// API still serves, reading settings straight from the database.
	var settingsCache cache.SettingsCache = cache.NoopSettingsCache{}
	var invalidator service.SettingsInvalidator
	if rdb, err := cache.ConnectRedis(&cfg.Redis); err != nil {
		log.Printf("Warning: Redis unavailable, settings cache and background tasks disabled: %v", err)
	} else {
		defer func() { _ = rdb.Close() }()
		settingsCache = cache.NewSettingsCache(rdb, cfg.Redis.SettingsTTL)

		client := asynq.NewClient(tasks.RedisOpt(&cfg.Redis))
		defer func() { _ = client.Close() }()
		invalidator = tasks.NewDispatcher(client)
	}

	var objects storage.ObjectStorage
	if cfg.Storage.Bucket != "" {
		objects, err = storage.NewS3Storage(context.Background(), &cfg.Storage)
		if err != nil {
			log.Printf("Warning: Failed to initialize object storage, logo upload disabled: %v", err)
			objects = nil
		}
	}

	// Initialize repositories
	invoiceRepo := repository.NewInvoiceRepository(db)
	usinRepo := repository.NewUsinRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// External clients
	praClient := pra.NewClient(cfg.PRA.ProductionURL, cfg.PRA.SandboxURL, cfg.PRA.Timeout)
	authAdmin := authadmin.NewClient(cfg.Auth.URL, cfg.Auth.ServiceRoleKey, cfg.Auth.Timeout)
	verifier := utils.NewTokenVerifier(cfg.Auth.JWTSecret)

	thermalPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	settingsService := service.NewSettingsService(settingsRepo, settingsCache, invalidator, objects)
	invoiceService := service.NewInvoiceService(invoiceRepo, usinRepo, settingsService, praClient, loc)
	menuService := service.NewMenuService(menuRepo)
	employeeService := service.NewEmployeeService(employeeRepo, authAdmin)
	reportService := service.NewReportService(invoiceRepo, loc)
	printerService := service.NewPrinterService(thermalPrinter, invoiceRepo, settingsService, cfg.Printer.Width)

	handlers := &routes.Handlers{
		Invoice:  handler.NewInvoiceHandler(invoiceService, loc),
		Menu:     handler.NewMenuHandler(menuService, cfg.Storage.UploadMaxSize),
		Employee: handler.NewEmployeeHandler(employeeService),
		Settings: handler.NewSettingsHandler(settingsService, cfg.Storage.UploadMaxSize),
		Report:   handler.NewReportHandler(reportService),
		Printer:  handler.NewPrinterHandler(printerService),
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database handle: %v", err)
	}

	router := routes.Setup(handlers, &routes.Deps{
		Verifier:        verifier,
		Cfg:             cfg,
		EmployeeRepo:    employeeRepo,
		IdempotencyRepo: idempotencyRepo,
		Ping:            sqlDB.PingContext,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s, time zone: %s", cfg.App.Env, loc)

	if err := router.Run(":" + port); err != nil {
		log.Printf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
