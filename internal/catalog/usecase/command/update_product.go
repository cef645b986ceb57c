package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/pickup-store/internal/apperror"
	"github.com/tair/pickup-store/internal/catalog/domain"
)

// UpdateProductCommand represents the command to update a product
type UpdateProductCommand struct {
	ID    string
	Patch domain.ProductPatch
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo domain.ProductRepository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// Handle writes the provided fields of the stored product and returns the
// row as stored afterwards. Stock is written only when the patch sets it.
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	const op = "product.Update"

	if cmd.ID == "" {
		return nil, apperror.Validation(op, "product id is required")
	}
	p := cmd.Patch
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, apperror.Validation(op, "product name cannot be empty")
	}
	if p.Price != nil && p.Price.IsNegative() {
		return nil, apperror.Validation(op, "price cannot be negative")
	}
	if p.Stock != nil && *p.Stock < 0 {
		return nil, apperror.Validation(op, "stock cannot be negative")
	}

	if columns := p.Columns(); len(columns) > 0 {
		if err := h.repo.Update(ctx, cmd.ID, columns); err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return h.repo.FindByID(ctx, cmd.ID)
}
