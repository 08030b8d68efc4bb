// Package hub fans order status events out to in-process subscribers
// (the SSE tracking endpoint).
package hub

import (
	"sync"
	"time"
)

// Event - смена статуса заказа, как её видит клиент.
type Event struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	ChangedBy   string    `json:"changed_by,omitempty"`
	ChangedAt   time.Time `json:"changed_at"`
}

type Hub struct {
	mu      sync.Mutex
	subs    map[string]map[chan Event]struct{}
	buffer  int
	dropped uint64
}

func New(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 8
	}
	return &Hub{subs: make(map[string]map[chan Event]struct{}), buffer: buffer}
}

// Subscribe returns a channel of events for orderID and a cancel func that
// unsubscribes and closes the channel.
func (h *Hub) Subscribe(orderID string) (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	set, ok := h.subs[orderID]
	if !ok {
		set = make(map[chan Event]struct{})
		h.subs[orderID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[orderID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, orderID)
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber of ev.OrderID. A subscriber whose
// buffer is full misses the event; Publish never blocks.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[e.OrderID] {
		select {
		case ch <- e:
		default:
			h.dropped++
		}
	}
}

// Subscribers is the number of live subscriptions for orderID.
func (h *Hub) Subscribers(orderID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[orderID])
}

// Dropped counts events lost to full subscriber buffers.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}
