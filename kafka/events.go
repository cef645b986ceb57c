package kafka

import (
	"time"

	"github.com/google/uuid"

	"github.com/tair/pickup-store/internal/order/domain"
)

// OrderEvent is the payload published for every order lifecycle change
type OrderEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	OrderID        string    `json:"order_id"`
	CustomerID     string    `json:"customer_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Total          string    `json:"total"`
	ItemCount      int       `json:"item_count"`
	PickupDate     string    `json:"pickup_date"`
	PickupTime     string    `json:"pickup_time"`
	Timestamp      time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeOrderPlaced        = "order.placed"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// Kafka topics
const (
	TopicOrders = "storefront-orders"
)

func newOrderEvent(eventType string, order *domain.Order) OrderEvent {
	units := 0
	for _, item := range order.Items {
		units += item.Quantity
	}
	return OrderEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     string(order.Status),
		Total:      order.Total.StringFixed(2),
		ItemCount:  units,
		PickupDate: order.PickupDate,
		PickupTime: order.PickupTime,
		Timestamp:  time.Now().UTC(),
	}
}

// NewOrderPlacedEvent builds the event for a freshly placed order
func NewOrderPlacedEvent(order *domain.Order) OrderEvent {
	return newOrderEvent(EventTypeOrderPlaced, order)
}

// NewStatusChangedEvent builds the event for an applied status transition
func NewStatusChangedEvent(order *domain.Order, previous domain.Status) OrderEvent {
	event := newOrderEvent(EventTypeOrderStatusChanged, order)
	event.PreviousStatus = string(previous)
	return event
}
