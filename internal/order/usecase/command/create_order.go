package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/pickup-store/internal/apperror"
	"github.com/tair/pickup-store/internal/order/domain"
	"github.com/tair/pickup-store/pkg/idgen"
	"github.com/tair/pickup-store/pkg/logger"
)

// CreateOrderCommand represents the command to place an order
type CreateOrderCommand struct {
	CustomerID  string
	Items       []domain.Item
	ClientTotal *decimal.Decimal
	PickupDate  string
	PickupTime  string
}

// CreateOrderHandler handles order placement
type CreateOrderHandler struct {
	repo      domain.Repository
	publisher domain.EventPublisher
	ids       idgen.Generator
	now       func() time.Time
}

// NewCreateOrderHandler creates a new create order handler. publisher may be nil.
func NewCreateOrderHandler(repo domain.Repository, publisher domain.EventPublisher) *CreateOrderHandler {
	return &CreateOrderHandler{repo: repo, publisher: publisher, ids: idgen.Order, now: time.Now}
}

// Handle validates the lines, reserves stock and stores the order as pending.
// It fails with an InsufficientStockError, leaving stock untouched, when any
// existing product cannot cover its quantity.
func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	const op = "order.Create"

	customerID := strings.TrimSpace(cmd.CustomerID)
	if customerID == "" {
		return nil, apperror.Validation(op, "customer id is required")
	}
	if len(cmd.Items) == 0 {
		return nil, apperror.Validation(op, "order has no items")
	}
	if strings.TrimSpace(cmd.PickupDate) == "" || strings.TrimSpace(cmd.PickupTime) == "" {
		return nil, apperror.Validation(op, "pickup date and time are required")
	}
	for _, item := range cmd.Items {
		if item.ProductID == "" {
			return nil, apperror.Validation(op, "item without product id")
		}
		if item.Quantity < 1 {
			return nil, apperror.Validation(op, "quantity for %s must be at least 1", item.ProductID)
		}
		if item.Price.IsNegative() {
			return nil, apperror.Validation(op, "price for %s cannot be negative", item.ProductID)
		}
	}

	items := mergeItems(cmd.Items)
	total := domain.ComputeTotal(items)
	if cmd.ClientTotal != nil && !cmd.ClientTotal.Equal(total) {
		logger.Warn(ctx).
			Str("customer_id", customerID).
			Str("client_total", cmd.ClientTotal.String()).
			Str("computed_total", total.String()).
			Msg("Client total differs from computed total, using computed")
	}

	id, err := h.ids.Generate(ctx, h.repo.Exists)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:         id,
		CustomerID: customerID,
		Items:      items,
		Total:      total,
		PickupDate: strings.TrimSpace(cmd.PickupDate),
		PickupTime: strings.TrimSpace(cmd.PickupTime),
		Status:     domain.StatusPending,
		CreatedAt:  h.now().UTC(),
	}

	if err := h.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	logger.Info(ctx).
		Str("order_id", order.ID).
		Str("customer_id", order.CustomerID).
		Str("total", order.Total.String()).
		Int("lines", len(order.Items)).
		Msg("Order placed")

	if h.publisher != nil {
		if err := h.publisher.PublishOrderPlaced(ctx, order); err != nil {
			logger.Error(ctx).Err(err).Str("order_id", order.ID).Msg("Failed to publish order placed event")
		}
	}

	return order, nil
}

// mergeItems folds repeated product lines into one, keeping the first
// snapshot and order of appearance.
func mergeItems(in []domain.Item) []domain.Item {
	index := make(map[string]int, len(in))
	out := make([]domain.Item, 0, len(in))
	for _, item := range in {
		if i, ok := index[item.ProductID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		item.LineID = 0
		item.OrderID = ""
		item.Position = len(out)
		index[item.ProductID] = len(out)
		out = append(out, item)
	}
	return out
}
