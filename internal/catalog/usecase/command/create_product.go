package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/pickup-store/internal/apperror"
	"github.com/tair/pickup-store/internal/catalog/domain"
	"github.com/tair/pickup-store/pkg/idgen"
)

// CreateProductCommand represents the command to create a new product
type CreateProductCommand struct {
	Name        string
	Price       *decimal.Decimal
	ImageURL    string
	Stock       *int
	Description string
	CategoryID  string
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo domain.ProductRepository
	ids  idgen.Generator
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo, ids: idgen.Product}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	const op = "product.Create"

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperror.Validation(op, "product name is required")
	}
	if cmd.Price == nil {
		return nil, apperror.Validation(op, "price is required")
	}
	if cmd.Price.IsNegative() {
		return nil, apperror.Validation(op, "price cannot be negative")
	}
	if cmd.Stock == nil {
		return nil, apperror.Validation(op, "stock is required")
	}
	if *cmd.Stock < 0 {
		return nil, apperror.Validation(op, "stock cannot be negative")
	}

	id, err := h.ids.Generate(ctx, h.repo.Exists)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:          id,
		Name:        name,
		Price:       *cmd.Price,
		ImageURL:    cmd.ImageURL,
		Stock:       *cmd.Stock,
		Description: cmd.Description,
		CategoryID:  cmd.CategoryID,
	}

	if err := h.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}
