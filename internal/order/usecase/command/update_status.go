package command

import (
	"context"

	"github.com/tair/pickup-store/internal/apperror"
	"github.com/tair/pickup-store/internal/order/domain"
	"github.com/tair/pickup-store/pkg/logger"
)

// UpdateStatusCommand represents the staff action of moving an order
type UpdateStatusCommand struct {
	OrderID string
	Status  string
}

// UpdateStatusResult reports what the transition did.
type UpdateStatusResult struct {
	Order    *domain.Order
	Previous domain.Status
	Changed  bool
}

// UpdateStatusHandler handles order status transitions
type UpdateStatusHandler struct {
	repo      domain.Repository
	publisher domain.EventPublisher
}

// NewUpdateStatusHandler creates a new update status handler. publisher may be nil.
func NewUpdateStatusHandler(repo domain.Repository, publisher domain.EventPublisher) *UpdateStatusHandler {
	return &UpdateStatusHandler{repo: repo, publisher: publisher}
}

// Handle applies the transition. Asking for the current status is a no-op.
func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (*UpdateStatusResult, error) {
	const op = "order.UpdateStatus"

	if cmd.OrderID == "" {
		return nil, apperror.Validation(op, "order id is required")
	}
	status, ok := domain.ParseStatus(cmd.Status)
	if !ok {
		return nil, apperror.Validation(op, "unknown status %q", cmd.Status)
	}

	order, previous, err := h.repo.TransitionStatus(ctx, cmd.OrderID, status)
	if err != nil {
		return nil, err
	}

	result := &UpdateStatusResult{Order: order, Previous: previous, Changed: previous != status}
	if !result.Changed {
		return result, nil
	}

	logger.Info(ctx).
		Str("order_id", order.ID).
		Str("from", string(previous)).
		Str("to", string(status)).
		Msg("Order status changed")

	if h.publisher != nil {
		if err := h.publisher.PublishStatusChanged(ctx, order, previous); err != nil {
			logger.Error(ctx).Err(err).Str("order_id", order.ID).Msg("Failed to publish status changed event")
		}
	}
	return result, nil
}
