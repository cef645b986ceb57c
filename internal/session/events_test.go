package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	order "github.com/tair/pickup-store/internal/order/domain"
)

func snap(admin bool, states ...OrderState) Snapshot {
	return Snapshot{Completed: true, Admin: admin, Orders: states}
}

func TestDeriveEvents(t *testing.T) {
	pending := OrderState{ID: "ORD-1", Status: order.StatusPending}
	packed := OrderState{ID: "ORD-1", Status: order.StatusPacked}
	ready := OrderState{ID: "ORD-1", Status: order.StatusReady}
	other := OrderState{ID: "ORD-2", Status: order.StatusPending}

	tests := []struct {
		name string
		prev Snapshot
		next Snapshot
		want []Event
	}{
		{
			name: "admin first poll is silent",
			prev: Snapshot{},
			next: snap(true, pending, other),
		},
		{
			name: "admin sees one event however many orders arrive",
			prev: snap(true, pending),
			next: snap(true, pending, other, OrderState{ID: "ORD-3", Status: order.StatusPending}),
			want: []Event{{Type: NotificationOrder, Message: "New order received!"}},
		},
		{
			name: "admin ignores status changes",
			prev: snap(true, pending),
			next: snap(true, ready),
		},
		{
			name: "admin ignores shrinking lists",
			prev: snap(true, pending, other),
			next: snap(true, pending),
		},
		{
			name: "customer packed",
			prev: snap(false, pending, other),
			next: snap(false, packed, other),
			want: []Event{{Type: NotificationInfo, Message: "Order #ORD-1 Packed!", OrderID: "ORD-1"}},
		},
		{
			name: "customer ready skipping packed",
			prev: snap(false, pending),
			next: snap(false, ready),
			want: []Event{{Type: NotificationSuccess, Message: "Order #ORD-1 Ready!", OrderID: "ORD-1"}},
		},
		{
			name: "customer completed and cancelled are silent",
			prev: snap(false, ready, other),
			next: snap(false,
				OrderState{ID: "ORD-1", Status: order.StatusCompleted},
				OrderState{ID: "ORD-2", Status: order.StatusCancelled}),
		},
		{
			name: "customer new order is silent",
			prev: snap(false),
			next: snap(false, ready),
		},
		{
			name: "customer unchanged is silent",
			prev: snap(false, packed),
			next: snap(false, packed),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveEvents(tt.prev, tt.next))
		})
	}
}

func TestTakeSnapshot(t *testing.T) {
	s := TakeSnapshot([]order.Order{{ID: "ORD-1", Status: order.StatusReady}}, true)
	assert.True(t, s.Completed)
	assert.True(t, s.Admin)
	assert.Equal(t, []OrderState{{ID: "ORD-1", Status: order.StatusReady}}, s.Orders)
}
