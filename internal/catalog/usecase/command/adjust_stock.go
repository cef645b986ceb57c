package command

import (
	"context"

	"github.com/tair/pickup-store/internal/apperror"
	"github.com/tair/pickup-store/internal/catalog/domain"
)

// AdjustStockCommand adds Delta (possibly negative) to a product's stock.
type AdjustStockCommand struct {
	ProductID string
	Delta     int
}

// AdjustStockHandler handles stock adjustment command
type AdjustStockHandler struct {
	repo domain.ProductRepository
}

// NewAdjustStockHandler creates a new adjust stock handler
func NewAdjustStockHandler(repo domain.ProductRepository) *AdjustStockHandler {
	return &AdjustStockHandler{repo: repo}
}

// Handle applies the delta. Stock never drops below zero; a missing product is a no-op.
func (h *AdjustStockHandler) Handle(ctx context.Context, cmd AdjustStockCommand) error {
	if cmd.ProductID == "" {
		return apperror.Validation("product.AdjustStock", "product id is required")
	}
	if cmd.Delta == 0 {
		return nil
	}
	return h.repo.AdjustStock(ctx, cmd.ProductID, cmd.Delta)
}
