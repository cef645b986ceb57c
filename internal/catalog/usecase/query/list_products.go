package query

import (
	"context"
	"fmt"

	"github.com/tair/pickup-store/internal/catalog/domain"
)

// ListProductsQuery represents the query to list products
type ListProductsQuery struct {
	Search     string
	CategoryID string // "all" or empty for every category
	Sort       string // domain.SortNameAsc, domain.SortNameDesc or empty
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(ctx context.Context, q ListProductsQuery) ([]domain.Product, error) {
	switch q.Sort {
	case domain.SortDefault, domain.SortNameAsc, domain.SortNameDesc:
	default:
		q.Sort = domain.SortDefault
	}

	products, err := h.repo.FindAll(ctx, domain.ProductFilter{
		Search:     q.Search,
		CategoryID: q.CategoryID,
		Sort:       q.Sort,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}
