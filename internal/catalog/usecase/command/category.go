package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/pickup-store/internal/apperror"
	"github.com/tair/pickup-store/internal/catalog/domain"
	"github.com/tair/pickup-store/pkg/idgen"
)

// CreateCategoryCommand represents the command to create a category
type CreateCategoryCommand struct {
	Name string
}

// CreateCategoryHandler handles category creation command
type CreateCategoryHandler struct {
	repo domain.CategoryRepository
	ids  idgen.Generator
}

// NewCreateCategoryHandler creates a new create category handler
func NewCreateCategoryHandler(repo domain.CategoryRepository) *CreateCategoryHandler {
	return &CreateCategoryHandler{repo: repo, ids: idgen.Category}
}

func (h *CreateCategoryHandler) Handle(ctx context.Context, cmd CreateCategoryCommand) (*domain.Category, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperror.Validation("category.Create", "category name is required")
	}

	id, err := h.ids.Generate(ctx, h.repo.Exists)
	if err != nil {
		return nil, err
	}

	category := &domain.Category{ID: id, Name: name}
	if err := h.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// DeleteCategoryCommand represents the command to delete a category.
// Products keep their (now dangling) category reference.
type DeleteCategoryCommand struct {
	ID string
}

// DeleteCategoryHandler handles category deletion command
type DeleteCategoryHandler struct {
	repo domain.CategoryRepository
}

// NewDeleteCategoryHandler creates a new delete category handler
func NewDeleteCategoryHandler(repo domain.CategoryRepository) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{repo: repo}
}

func (h *DeleteCategoryHandler) Handle(ctx context.Context, cmd DeleteCategoryCommand) error {
	if cmd.ID == "" {
		return apperror.Validation("category.Delete", "category id is required")
	}
	if err := h.repo.Delete(ctx, cmd.ID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
