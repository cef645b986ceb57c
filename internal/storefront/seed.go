package storefront

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalog "github.com/tair/pickup-store/internal/catalog/domain"
	catalogRepo "github.com/tair/pickup-store/internal/catalog/repository"
	identity "github.com/tair/pickup-store/internal/identity/domain"
	identityRepo "github.com/tair/pickup-store/internal/identity/repository"
	orderRepo "github.com/tair/pickup-store/internal/order/repository"
	"github.com/tair/pickup-store/pkg/logger"
)

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := catalogRepo.NewGormProductRepository(db).AutoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate catalog: %w", err)
	}
	if err := identityRepo.NewGormUserRepository(db).AutoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate users: %w", err)
	}
	if err := orderRepo.NewGormOrderRepository(db).AutoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate orders: %w", err)
	}
	return nil
}

const unsplash = "https://images.unsplash.com/"

var (
	seedUsers = []identity.User{
		{ID: "CUST-001", Name: "John Doe", Role: identity.RoleCustomer},
		{ID: "ADMIN-001", Name: "Store Manager", Role: identity.RoleAdmin},
	}
	seedCategories = []catalog.Category{
		{ID: "cat-1", Name: "Coffee"},
		{ID: "cat-2", Name: "Pastries"},
		{ID: "cat-3", Name: "Breakfast"},
	}
	seedProducts = []catalog.Product{
		{
			ID: "P-001", Name: "Fresh Espresso", Price: decimal.RequireFromString("180.00"), Stock: 50,
			ImageURL:    unsplash + "photo-1510591509098-f4fdc6d0ff04",
			Description: "Rich and intense dark roast espresso.", CategoryID: "cat-1",
		},
		{
			ID: "P-002", Name: "Classic Croissant", Price: decimal.RequireFromString("120.00"), Stock: 20,
			ImageURL:    unsplash + "photo-1555507036-ab1f4038808a",
			Description: "Buttery, flaky, and golden-brown pastry.", CategoryID: "cat-2",
		},
		{
			ID: "P-003", Name: "Avocado Toast", Price: decimal.RequireFromString("350.00"), Stock: 15,
			ImageURL:    unsplash + "photo-1525351484163-7529414344d8",
			Description: "Fresh avocado on sourdough with a hint of chili.", CategoryID: "cat-3",
		},
	}
)

// Seed fills each empty collection with the demo data. Collections that
// already hold rows are left alone.
func Seed(ctx context.Context, db *gorm.DB) error {
	users := identityRepo.NewGormUserRepository(db)
	categories := catalogRepo.NewGormCategoryRepository(db)
	products := catalogRepo.NewGormProductRepository(db)

	if n, err := users.Count(ctx); err != nil {
		return err
	} else if n == 0 {
		for _, u := range seedUsers {
			if err := users.Create(ctx, &u); err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.ID, err)
			}
		}
		logger.Logger.Info().Int("count", len(seedUsers)).Msg("Seeded users")
	}

	if n, err := categories.Count(ctx); err != nil {
		return err
	} else if n == 0 {
		for _, c := range seedCategories {
			if err := categories.Create(ctx, &c); err != nil {
				return fmt.Errorf("failed to seed category %s: %w", c.ID, err)
			}
		}
		logger.Logger.Info().Int("count", len(seedCategories)).Msg("Seeded categories")
	}

	if n, err := products.Count(ctx); err != nil {
		return err
	} else if n == 0 {
		for _, p := range seedProducts {
			if err := products.Create(ctx, &p); err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
			}
		}
		logger.Logger.Info().Int("count", len(seedProducts)).Msg("Seeded products")
	}
	return nil
}
