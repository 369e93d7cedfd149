package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/sangkips/hotelpos-api/internal/config"
	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/domain/enum"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a connection using the configured driver
func NewDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	case "postgres", "":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Printf("Successfully connected to %s database", dialector.Name())
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.Business{},
		&entity.Employee{},
		&entity.BusinessSettings{},
		&entity.MenuItem{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.UsinCounter{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the bootstrap business and its admin employee when
// configured and the database has no business yet.
func SeedDefaultData(db *gorm.DB, cfg *config.BootstrapConfig) error {
	if cfg.BusinessName == "" || cfg.AdminAuthUID == "" || cfg.AdminEmail == "" {
		return nil
	}

	var count int64
	if err := db.Model(&entity.Business{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding bootstrap business...")
	return db.Transaction(func(tx *gorm.DB) error {
		business := entity.Business{ID: uuid.New(), Name: cfg.BusinessName}
		if err := tx.Create(&business).Error; err != nil {
			return err
		}
		admin := entity.Employee{
			AuthUID:    cfg.AdminAuthUID,
			BusinessID: business.ID,
			Name:       cfg.AdminName,
			Email:      cfg.AdminEmail,
			Role:       enum.RoleAdmin,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return errors.Join(errors.New("failed to create bootstrap admin"), err)
		}
		log.Printf("Bootstrap business %s created with admin %s", business.ID, cfg.AdminEmail)
		return nil
	})
}
