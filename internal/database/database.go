package database

import (
	"context"
	"fmt"
	"log/slog"

	"customerapi/internal/models"
	"customerapi/internal/repositories"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database selected by driver and migrates the customer
// schema. driver is "sqlite" or "postgres".
func Open(driver, dsn string, logLevel logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite" {
		// sqlite serializes writers; one connection also keeps a shared
		// in-memory database alive for the lifetime of the pool.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&models.Customer{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks that the database is reachable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// SeedCustomers inserts the sample customers when the store is empty.
func SeedCustomers(ctx context.Context, repo repositories.CustomerRepository, log *slog.Logger) error {
	existing, err := repo.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info("Skipping customer seed, store is not empty", "count", len(existing))
		return nil
	}

	customers := []models.Customer{
		models.NewCustomer("Ethan", "Protein Powder", 24),
		models.NewCustomer("Fae", "Pizza", 59),
		models.NewCustomer("Jayse", "Celsius", 27),
	}
	for i := range customers {
		if err := repo.Create(ctx, &customers[i]); err != nil {
			return fmt.Errorf("failed to seed customer %s: %w", *customers[i].Name, err)
		}
		log.Info("Seeded customer", "name", *customers[i].Name, "customer_id", customers[i].ID)
	}
	return nil
}
