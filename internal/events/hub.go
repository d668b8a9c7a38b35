// Package events carries in-process change signals between the sync write
// path and live read-side views.
package events

import "sync"

// Hub fans a change signal out to every subscriber. Signals are coalesced:
// a subscriber that has not drained its channel sees at most one pending
// notification.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan struct{}
}

// NewHub builds an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan struct{})}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the listener is done; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan struct{}, 1)
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
	return ch, cancel
}

// Publish signals every subscriber without blocking.
func (h *Hub) Publish() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// SubscriberCount reports how many listeners are registered.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// IDSetHub fans out the latest ID set to every subscriber. A slow
// subscriber only ever sees the most recent set.
type IDSetHub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan []int
}

// NewIDSetHub builds an empty ID-set hub.
func NewIDSetHub() *IDSetHub {
	return &IDSetHub{subs: make(map[int]chan []int)}
}

// Subscribe registers a listener for ID-set updates.
func (h *IDSetHub) Subscribe() (<-chan []int, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan []int, 1)
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
	return ch, cancel
}

// Publish replaces any undelivered set with the latest one.
func (h *IDSetHub) Publish(ids []int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- ids:
			continue
		default:
		}
		// stale pending set: drop it, then deliver the fresh one
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- ids:
		default:
		}
	}
}
