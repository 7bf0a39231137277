package publish

import (
	"sync"

	"github.com/google/uuid"
)

// Hub is a list of observers for one simulator. Every subscriber receives
// its own clone of a published value, so observers may retain snapshots
// without seeing later mutations.
type Hub[T any] struct {
	clone func(T) T

	mu   sync.RWMutex
	subs []*Subscription
	fns  map[string]func(T)
}

// Subscription identifies a registered observer.
type Subscription struct {
	ID string

	once   sync.Once
	cancel func()
}

// Unsubscribe removes the observer. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// NewHub creates a hub that clones values with clone before delivery.
// A nil clone delivers values as-is, which is only correct for plain values.
func NewHub[T any](clone func(T) T) *Hub[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Hub[T]{
		clone: clone,
		fns:   make(map[string]func(T)),
	}
}

// Subscribe registers fn. Observers are notified in subscription order.
func (h *Hub[T]) Subscribe(fn func(T)) *Subscription {
	sub := &Subscription{ID: uuid.NewString()}
	sub.cancel = func() { h.remove(sub) }

	h.mu.Lock()
	h.subs = append(h.subs, sub)
	h.fns[sub.ID] = fn
	h.mu.Unlock()
	return sub
}

func (h *Hub[T]) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.fns, sub.ID)
	for i, s := range h.subs {
		if s == sub {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers a clone of v to every subscriber and returns the number
// of observers notified.
func (h *Hub[T]) Publish(v T) int {
	h.mu.RLock()
	fns := make([]func(T), 0, len(h.subs))
	for _, s := range h.subs {
		fns = append(fns, h.fns[s.ID])
	}
	h.mu.RUnlock()

	// Deliver outside the lock so observers may unsubscribe.
	for _, fn := range fns {
		fn(h.clone(v))
	}
	return len(fns)
}

// Len returns the number of subscribers.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
