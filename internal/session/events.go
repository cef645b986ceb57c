package session

import (
	"fmt"

	order "github.com/tair/pickup-store/internal/order/domain"
)

// NotificationType classifies a notification for display.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationOrder   NotificationType = "order"
	NotificationAlert   NotificationType = "alert"
)

// Event is a change observed between two polls.
type Event struct {
	Type    NotificationType
	Message string
	OrderID string
}

// OrderState is what a snapshot remembers about one order.
type OrderState struct {
	ID     string
	Status order.Status
}

// Snapshot is the order view captured by one poll.
type Snapshot struct {
	// Completed is false for the zero snapshot taken before any poll finished.
	Completed bool
	Admin     bool
	Orders    []OrderState
}

// TakeSnapshot records the orders returned by a completed poll.
func TakeSnapshot(orders []order.Order, admin bool) Snapshot {
	states := make([]OrderState, 0, len(orders))
	for _, o := range orders {
		states = append(states, OrderState{ID: o.ID, Status: o.Status})
	}
	return Snapshot{Completed: true, Admin: admin, Orders: states}
}

// DeriveEvents compares two consecutive snapshots. Staff hear about new
// orders once a previous poll has completed; customers hear about their
// orders being packed or ready.
func DeriveEvents(prev, next Snapshot) []Event {
	if next.Admin {
		if prev.Completed && len(next.Orders) > len(prev.Orders) {
			return []Event{{Type: NotificationOrder, Message: "New order received!"}}
		}
		return nil
	}

	seen := make(map[string]order.Status, len(prev.Orders))
	for _, o := range prev.Orders {
		seen[o.ID] = o.Status
	}

	var events []Event
	for _, o := range next.Orders {
		before, ok := seen[o.ID]
		if !ok || before == o.Status {
			continue
		}
		switch o.Status {
		case order.StatusPacked:
			events = append(events, Event{Type: NotificationInfo, Message: fmt.Sprintf("Order #%s Packed!", o.ID), OrderID: o.ID})
		case order.StatusReady:
			events = append(events, Event{Type: NotificationSuccess, Message: fmt.Sprintf("Order #%s Ready!", o.ID), OrderID: o.ID})
		}
	}
	return events
}
