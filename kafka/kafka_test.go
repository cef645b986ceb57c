package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/pickup-store/internal/order/domain"
)

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:         "ORD-261020093000-AB12",
		CustomerID: "CUST-001",
		Items: []domain.Item{
			{ProductID: "P-001", Name: "Fresh Espresso", Price: decimal.RequireFromString("180"), Quantity: 2},
			{ProductID: "P-002", Name: "Classic Croissant", Price: decimal.RequireFromString("120"), Quantity: 1},
		},
		Total:      decimal.RequireFromString("480"),
		PickupDate: "2026-10-20",
		PickupTime: "09:30",
		Status:     domain.StatusReady,
		CreatedAt:  time.Now(),
	}
}

func headerValue(msg *sarama.ProducerMessage, key string) string {
	for _, h := range msg.Headers {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublishStatusChanged(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != TopicOrders {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "ORD-261020093000-AB12" {
			return errors.New("message not keyed by order id")
		}
		if headerValue(msg, "event_type") != EventTypeOrderStatusChanged {
			return errors.New("missing event_type header")
		}

		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var event OrderEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return err
		}
		if event.PreviousStatus != "packed" || event.Status != "ready" || event.Total != "480.00" || event.ItemCount != 3 {
			return errors.New("unexpected payload " + string(raw))
		}
		return nil
	})

	pub := NewPublisherWithProducer(producer, "")
	require.NoError(t, pub.PublishStatusChanged(context.Background(), sampleOrder(), domain.StatusPacked))
	require.NoError(t, pub.Close())
}

func TestPublishFailureIsReturned(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewPublisherWithProducer(producer, "orders-test")
	err := pub.PublishOrderPlaced(context.Background(), sampleOrder())
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func message(t *testing.T, eventType string, event OrderEvent) *sarama.ConsumerMessage {
	t.Helper()
	raw, err := json.Marshal(event)
	require.NoError(t, err)
	msg := &sarama.ConsumerMessage{Topic: TopicOrders, Value: raw}
	if eventType != "" {
		msg.Headers = []*sarama.RecordHeader{{Key: []byte("event_type"), Value: []byte(eventType)}}
	}
	return msg
}

func TestConsumerDispatch(t *testing.T) {
	c := newConsumer("audit", []string{TopicOrders})

	var got []OrderEvent
	c.RegisterHandler(EventTypeOrderPlaced, func(_ context.Context, e OrderEvent) error {
		got = append(got, e)
		return nil
	})

	placed := NewOrderPlacedEvent(sampleOrder())
	require.NoError(t, c.dispatch(context.Background(), message(t, EventTypeOrderPlaced, placed)))
	require.Len(t, got, 1)
	assert.Equal(t, placed.OrderID, got[0].OrderID)
	assert.Equal(t, placed.EventID, got[0].EventID)

	err := c.dispatch(context.Background(), message(t, EventTypeOrderStatusChanged, placed))
	assert.ErrorIs(t, err, ErrNoHandler)

	assert.Error(t, c.dispatch(context.Background(), message(t, "", placed)))

	bad := &sarama.ConsumerMessage{
		Value:   []byte("{"),
		Headers: []*sarama.RecordHeader{{Key: []byte("event_type"), Value: []byte(EventTypeOrderPlaced)}},
	}
	assert.Error(t, c.dispatch(context.Background(), bad))
	assert.Len(t, got, 1)
}

func TestAuditHandlesEveryOrderEvent(t *testing.T) {
	c := newConsumer("audit", []string{TopicOrders})
	c.RegisterAudit()

	order := sampleOrder()
	require.NoError(t, c.dispatch(context.Background(), message(t, EventTypeOrderPlaced, NewOrderPlacedEvent(order))))
	require.NoError(t, c.dispatch(context.Background(),
		message(t, EventTypeOrderStatusChanged, NewStatusChangedEvent(order, domain.StatusPacked))))
}
