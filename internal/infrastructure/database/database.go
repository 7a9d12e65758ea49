package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/sangkips/phoneshop-pos/internal/config"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/internal/domain/enum"
	"github.com/sangkips/phoneshop-pos/pkg/utils"
	"github.com/spf13/viper"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a connection with the driver named in cfg
func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
		// products and customers delete without checking references
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// one writer at a time, or sqlite reports the database as locked
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	log.Printf("Successfully connected to %s database", cfg.Driver)
	return db, nil
}

// Dialector maps DB_DRIVER to a gorm dialector
func Dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "postgres", "postgresql":
		return postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}), nil
	case "mysql":
		return mysql.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN()), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Models lists every table the application owns
func Models() []interface{} {
	return []interface{}{
		&entity.User{},
		&entity.UserProfile{},
		&entity.Product{},
		&entity.Customer{},
		&entity.LoanTransaction{},
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.Loss{},
		&entity.IdempotencyKey{},
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the admin account named by ADMIN_EMAIL and
// ADMIN_PASSWORD, with a shop profile, when it does not exist yet.
func SeedDefaultData(db *gorm.DB) error {
	adminEmail := strings.ToLower(strings.TrimSpace(viper.GetString("ADMIN_EMAIL")))
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	log.Println("Seeding default data...")

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}
	if count > 0 {
		log.Printf("Admin user already exists: %s", adminEmail)
		return nil
	}

	hashedPassword, err := utils.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if adminName == "" {
		adminName = "Shop Admin"
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		admin := entity.User{
			Name:     adminName,
			Email:    adminEmail,
			Password: hashedPassword,
			Role:     enum.RoleAdmin,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		return tx.Create(&entity.UserProfile{
			UserID:   admin.ID,
			Username: adminName,
			ShopName: viper.GetString("SHOP_NAME"),
		}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Printf("Admin user created: %s", adminEmail)
	return nil
}
