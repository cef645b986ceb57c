package query

import (
	"context"
	"fmt"

	"github.com/tair/pickup-store/internal/catalog/domain"
)

// ListCategoriesQuery represents the query to list categories
type ListCategoriesQuery struct{}

// ListCategoriesHandler handles list categories query
type ListCategoriesHandler struct {
	repo domain.CategoryRepository
}

// NewListCategoriesHandler creates a new list categories handler
func NewListCategoriesHandler(repo domain.CategoryRepository) *ListCategoriesHandler {
	return &ListCategoriesHandler{repo: repo}
}

func (h *ListCategoriesHandler) Handle(ctx context.Context, _ ListCategoriesQuery) ([]domain.Category, error) {
	categories, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
