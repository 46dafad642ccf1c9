// Package events provides the in-process pub/sub hub the terminal core
// subscribes to, e.g. to refresh balances after an order fill.
package events

import (
	"sync"
	"time"
)

// OrderEvent is published when an order placement is acknowledged or filled.
type OrderEvent struct {
	Timestamp     time.Time `json:"ts"`
	Pair          string    `json:"pair"`
	Side          string    `json:"side"`
	Type          string    `json:"type"`
	ClientOrderID string    `json:"client_order_id"`
	Filled        bool      `json:"filled"`
}

// OrderHub fans out order events to all subscribers via buffered channels.
// It keeps the API intentionally small so call sites can stay straightforward.
type OrderHub struct {
	mu     sync.RWMutex
	subs   map[chan OrderEvent]struct{}
	buffer int
}

// NewOrderHub creates a hub with the given per-subscriber buffer.
func NewOrderHub(buffer int) *OrderHub {
	if buffer < 1 {
		buffer = 64
	}
	return &OrderHub{
		subs:   make(map[chan OrderEvent]struct{}),
		buffer: buffer,
	}
}

// Publish sends the event to all subscribers, dropping if a reader is slow.
func (h *OrderHub) Publish(e OrderEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
			// drop slow consumer
		}
	}
}

// Subscribe returns a channel that receives events until Unsubscribe is called.
func (h *OrderHub) Subscribe() chan OrderEvent {
	ch := make(chan OrderEvent, h.buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (h *OrderHub) Unsubscribe(ch chan OrderEvent) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}
