package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
)

// Event is a domain notification fanned out to subscribers after a state
// change commits. Fields carry event-specific details keyed by name.
type Event struct {
	Kind       string
	OccurredAt time.Time
	Fields     map[string]any
}

// Event kinds published by the services.
const (
	KindScheduleGenerated = "schedule.generated"
	KindLineupLocked      = "lineup.locked"
	KindLineupUnlocked    = "lineup.unlocked"
	KindDoubleDuty        = "lineup.double_duty_resolved"
	KindMatchVerified     = "match.verified"
	KindMatchCompleted    = "match.completed"
)

// Publisher is the write side handed to services.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Handler consumes one event. Handlers must tolerate concurrent delivery.
type Handler func(ctx context.Context, event Event)

// Broker fans events out to subscribed handlers. Delivery is concurrent
// per handler and Publish blocks until every handler returns, so callers
// should hand it a context they are willing to wait on.
type Broker struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
}

func NewBroker() *Broker {
	return &Broker{handlers: make(map[int]Handler)}
}

// Subscribe registers a handler and returns its unsubscribe function.
func (b *Broker) Subscribe(handler Handler) func() {
	if handler == nil {
		return func() {}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

func (b *Broker) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	var wg conc.WaitGroup
	for _, h := range handlers {
		handler := h
		wg.Go(func() {
			handler(ctx, event)
		})
	}
	wg.Wait()
}

// NopPublisher discards events. Useful in tests and when no sink is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
