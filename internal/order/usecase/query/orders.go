package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tair/pickup-store/internal/apperror"
	identity "github.com/tair/pickup-store/internal/identity/domain"
	"github.com/tair/pickup-store/internal/order/domain"
)

// ListOrdersQuery lists the orders visible to RequesterID.
type ListOrdersQuery struct {
	RequesterID string
}

// ListOrdersHandler handles list orders query
type ListOrdersHandler struct {
	orders domain.Repository
	users  identity.UserRepository
}

// NewListOrdersHandler creates a new list orders handler
func NewListOrdersHandler(orders domain.Repository, users identity.UserRepository) *ListOrdersHandler {
	return &ListOrdersHandler{orders: orders, users: users}
}

// Handle returns every order (oldest first) to staff, and a customer's own
// orders (newest first) to anyone else. Staff is decided by the stored role,
// falling back to the ADMIN- id convention for ids with no user record.
func (h *ListOrdersHandler) Handle(ctx context.Context, q ListOrdersQuery) ([]domain.Order, error) {
	requester := strings.TrimSpace(q.RequesterID)
	if requester == "" {
		return nil, apperror.Validation("order.List", "customer id is required")
	}

	scope, err := h.scopeFor(ctx, requester)
	if err != nil {
		return nil, err
	}

	orders, err := h.orders.FindAll(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (h *ListOrdersHandler) scopeFor(ctx context.Context, requester string) (domain.ListScope, error) {
	user, err := h.users.FindByID(ctx, requester)
	switch {
	case err == nil:
		return domain.ListScope{CustomerID: requester, All: user.IsAdmin()}, nil
	case errors.Is(err, apperror.ErrNotFound):
		return domain.ListScope{CustomerID: requester, All: identity.LooksLikeAdminID(requester)}, nil
	default:
		return domain.ListScope{}, fmt.Errorf("failed to resolve requester: %w", err)
	}
}

// GetOrderQuery represents the query to get an order by ID
type GetOrderQuery struct {
	ID string
}

// GetOrderHandler handles get order query
type GetOrderHandler struct {
	repo domain.Repository
}

// NewGetOrderHandler creates a new get order handler
func NewGetOrderHandler(repo domain.Repository) *GetOrderHandler {
	return &GetOrderHandler{repo: repo}
}

func (h *GetOrderHandler) Handle(ctx context.Context, q GetOrderQuery) (*domain.Order, error) {
	return h.repo.FindByID(ctx, q.ID)
}
