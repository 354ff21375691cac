// Package events is a small typed in-process pub/sub. Domain services
// publish, the webhook listener subscribes. Delivery is detached: the
// publisher never waits for handlers, handler errors are logged and
// dropped.
package events

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type Handler func(payload interface{}) error

type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	// pending tracks in-flight handler goroutines so tests can drain.
	pending sync.WaitGroup
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// Publish hands the payload to every subscribed handler in its own
// goroutine and returns immediately.
func (b *Bus) Publish(eventType string, payload interface{}) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[eventType]))
	copy(handlers, b.handlers[eventType])
	b.mu.RUnlock()

	for _, h := range handlers {
		h := h
		b.pending.Add(1)
		go func() {
			defer b.pending.Done()
			if err := h(payload); err != nil {
				log.Error().Err(err).Str("event", eventType).Msg("event handler failed")
			}
		}()
	}
}

// Drain blocks until every handler published so far has returned.
func (b *Bus) Drain() {
	b.pending.Wait()
}
