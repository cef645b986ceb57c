package command

import (
	"context"

	"github.com/tair/pickup-store/internal/apperror"
	"github.com/tair/pickup-store/internal/order/domain"
)

// CancelOrderCommand is a customer withdrawing their own order.
type CancelOrderCommand struct {
	OrderID    string
	CustomerID string
}

// CancelOrderHandler lets customers cancel orders that are still pending.
type CancelOrderHandler struct {
	repo    domain.Repository
	updates *UpdateStatusHandler
}

// NewCancelOrderHandler creates a new cancel order handler
func NewCancelOrderHandler(repo domain.Repository, updates *UpdateStatusHandler) *CancelOrderHandler {
	return &CancelOrderHandler{repo: repo, updates: updates}
}

func (h *CancelOrderHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*UpdateStatusResult, error) {
	const op = "order.Cancel"

	if cmd.CustomerID == "" {
		return nil, apperror.Validation(op, "customer id is required")
	}

	order, err := h.repo.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	// Other customers' orders are reported as missing.
	if order.CustomerID != cmd.CustomerID {
		return nil, apperror.NotFound(op, "order", cmd.OrderID)
	}
	if order.Status == domain.StatusCancelled {
		return &UpdateStatusResult{Order: order, Previous: order.Status}, nil
	}
	if order.Status != domain.StatusPending {
		return nil, apperror.InvalidTransition(op, order.ID, string(order.Status), string(domain.StatusCancelled))
	}

	return h.updates.Handle(ctx, UpdateStatusCommand{OrderID: order.ID, Status: string(domain.StatusCancelled)})
}
