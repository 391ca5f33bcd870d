package database

import (
	"fmt"

	"github.com/sangkips/tablepos-api/internal/config"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
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

	log.Info("connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		// Catalog
		&entity.Product{},
		&entity.ProductVariant{},

		// Promotions
		&entity.PromotionRecord{},

		// Sales
		&entity.InvoiceSequence{},
		&entity.Invoice{},
		&entity.InvoiceItem{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// DemoCatalog is a small menu used to seed empty development databases.
func DemoCatalog() []entity.Product {
	return []entity.Product{
		{
			Code: "101", Name: "Masala Dosa", Category: "Breakfast", Price: decimal.NewFromInt(10), Active: true,
		},
		{
			Code: "102", Name: "Idli", Category: "Breakfast", Price: decimal.NewFromInt(6), Active: true,
			Variants: []entity.ProductVariant{
				{ID: "2pc", ProductCode: "102", Name: "2 pc", Price: decimal.NewFromInt(6)},
				{ID: "4pc", ProductCode: "102", Name: "4 pc", Price: decimal.NewFromInt(11)},
			},
		},
		{
			Code: "201", Name: "Filter Coffee", Category: "Beverages", Price: decimal.NewFromInt(3), Active: true,
			Variants: []entity.ProductVariant{
				{ID: "small", ProductCode: "201", Name: "Small", Price: decimal.NewFromInt(3)},
				{ID: "large", ProductCode: "201", Name: "Large", Price: decimal.NewFromInt(5)},
			},
		},
		{
			Code: "500", Name: "Gulab Jamun", Category: "Desserts", Price: decimal.NewFromInt(4), Active: true,
		},
	}
}

// SeedCatalog inserts the demo catalog, leaving existing products untouched.
func SeedCatalog(db *gorm.DB, log *zap.Logger) error {
	for _, p := range DemoCatalog() {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
			return fmt.Errorf("seed product %s: %w", p.Code, err)
		}
	}
	log.Info("catalog seed completed")
	return nil
}
