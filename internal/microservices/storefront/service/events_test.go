package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-storefront/internal/microservices/notificator/hub"
	"restaurant-storefront/internal/microservices/storefront/domain/dao"
)

func TestRabbitEvents_OrderCreated(t *testing.T) {
	pub := &fakePublisher{}
	o := dao.Order{ID: "ord-1", OrderNumber: "ORD-20260301-0a1b2c3d", CustomerName: "John"}

	require.NoError(t, NewRabbitEvents(pub).OrderCreated(context.Background(), o))
	require.Len(t, pub.msgs, 1)
	m := pub.msgs[0]
	assert.Equal(t, "orders_topic", m.exchange)
	assert.Equal(t, OrderCreatedKey, m.key)
	assert.Equal(t, o.OrderNumber, m.correlationID)
	assert.Equal(t, "storefront", m.headers["x-source"])

	var msg dao.OrderMessage
	require.NoError(t, json.Unmarshal(m.body, &msg))
	assert.Equal(t, "ord-1", msg.OrderID)
}

func TestRabbitEvents_StatusChanged(t *testing.T) {
	pub := &fakePublisher{}
	e := hub.Event{OrderID: "ord-1", OrderNumber: "ORD-1", Status: dao.StatusReady, ChangedAt: time.Now().UTC()}

	require.NoError(t, NewRabbitEvents(pub).StatusChanged(context.Background(), e))
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "notifications_fanout", pub.msgs[0].exchange)
	assert.Empty(t, pub.msgs[0].key)

	var got hub.Event
	require.NoError(t, json.Unmarshal(pub.msgs[0].body, &got))
	assert.Equal(t, dao.StatusReady, got.Status)
}

func TestHubEvents(t *testing.T) {
	h := hub.New(1)
	ch, cancel := h.Subscribe("ord-1")
	defer cancel()

	events := NewHubEvents(h)
	require.NoError(t, events.OrderCreated(context.Background(), dao.Order{ID: "ord-1"}))
	require.NoError(t, events.StatusChanged(context.Background(), hub.Event{OrderID: "ord-1", Status: dao.StatusConfirmed}))

	assert.Equal(t, dao.StatusConfirmed, (<-ch).Status)
}
