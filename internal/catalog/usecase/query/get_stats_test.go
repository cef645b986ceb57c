package query

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/pickup-store/internal/catalog/domain"
	"github.com/tair/pickup-store/internal/catalog/repository"
	"github.com/tair/pickup-store/pkg/database"
)

func TestGetStats(t *testing.T) {
	db, err := database.NewInMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	products := repository.NewGormProductRepository(db)
	categories := repository.NewGormCategoryRepository(db)
	require.NoError(t, products.AutoMigrate())
	ctx := context.Background()

	require.NoError(t, products.Create(ctx, &domain.Product{ID: "P-1", Name: "A", Price: decimal.RequireFromString("100"), Stock: 4}))
	require.NoError(t, products.Create(ctx, &domain.Product{ID: "P-2", Name: "B", Price: decimal.RequireFromString("50"), Stock: 0}))
	require.NoError(t, categories.Create(ctx, &domain.Category{ID: "cat-1", Name: "Coffee"}))

	stats, err := NewGetStatsHandler(products, categories).Handle(ctx, GetStatsQuery{})
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalProducts)
	assert.EqualValues(t, 1, stats.OutOfStock)
	assert.EqualValues(t, 4, stats.TotalStock)
	assert.EqualValues(t, 1, stats.TotalCategories)
	assert.True(t, stats.AveragePrice.Equal(decimal.RequireFromString("75")), stats.AveragePrice.String())
}

func TestListProductsIgnoresUnknownSort(t *testing.T) {
	db, err := database.NewInMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	products := repository.NewGormProductRepository(db)
	require.NoError(t, products.AutoMigrate())
	ctx := context.Background()
	require.NoError(t, products.Create(ctx, &domain.Product{ID: "P-1", Name: "Zeta"}))
	require.NoError(t, products.Create(ctx, &domain.Product{ID: "P-2", Name: "Alpha"}))

	list, err := NewListProductsHandler(products).Handle(ctx, ListProductsQuery{Sort: "random"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "P-1", list[0].ID)
}
