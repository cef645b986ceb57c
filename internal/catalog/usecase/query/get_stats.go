package query

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tair/pickup-store/internal/catalog/domain"
)

// GetStatsQuery represents the query to get catalog statistics
type GetStatsQuery struct{}

// CatalogStats summarises the catalog for the staff dashboard.
type CatalogStats struct {
	TotalProducts   int64           `json:"total_products"`
	OutOfStock      int64           `json:"out_of_stock"`
	TotalStock      int64           `json:"total_stock"`
	AveragePrice    decimal.Decimal `json:"average_price"`
	TotalCategories int64           `json:"total_categories"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(products domain.ProductRepository, categories domain.CategoryRepository) *GetStatsHandler {
	return &GetStatsHandler{products: products, categories: categories}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(ctx context.Context, _ GetStatsQuery) (*CatalogStats, error) {
	products, err := h.products.FindAll(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	totalCategories, err := h.categories.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get category count: %w", err)
	}

	stats := &CatalogStats{
		TotalProducts:   int64(len(products)),
		AveragePrice:    decimal.Zero,
		TotalCategories: totalCategories,
	}

	totalPrice := decimal.Zero
	for _, p := range products {
		stats.TotalStock += int64(p.Stock)
		if p.Stock <= 0 {
			stats.OutOfStock++
		}
		totalPrice = totalPrice.Add(p.Price)
	}
	if stats.TotalProducts > 0 {
		stats.AveragePrice = totalPrice.Div(decimal.NewFromInt(stats.TotalProducts)).Round(2)
	}

	return stats, nil
}
