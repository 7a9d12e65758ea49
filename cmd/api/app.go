package main

import (
	"fmt"

	"github.com/sangkips/phoneshop-pos/internal/config"
	domainRepo "github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/internal/infrastructure/database"
	"github.com/sangkips/phoneshop-pos/internal/infrastructure/repository"
	"gorm.io/gorm"
)

// repos holds every repository the commands wire into services
type repos struct {
	tx          domainRepo.Transactor
	users       domainRepo.UserRepository
	profiles    domainRepo.ProfileRepository
	products    domainRepo.ProductRepository
	customers   domainRepo.CustomerRepository
	loans       domainRepo.LoanTransactionRepository
	sales       domainRepo.SaleRepository
	losses      domainRepo.LossRepository
	idempotency domainRepo.IdempotencyRepository
}

func newRepos(db *gorm.DB) *repos {
	return &repos{
		tx:          repository.NewTransactor(db),
		users:       repository.NewUserRepository(db),
		profiles:    repository.NewProfileRepository(db),
		products:    repository.NewProductRepository(db),
		customers:   repository.NewCustomerRepository(db),
		loans:       repository.NewLoanTransactionRepository(db),
		sales:       repository.NewSaleRepository(db),
		losses:      repository.NewLossRepository(db),
		idempotency: repository.NewIdempotencyRepository(db),
	}
}

// openDB loads configuration and connects, migrating when asked
func openDB(envFile string, migrate bool) (*config.Config, *gorm.DB, error) {
	cfg := config.LoadFrom(envFile)

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	if migrate {
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, err
		}
	}
	return cfg, db, nil
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
