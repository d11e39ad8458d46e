package notify

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestBroker_PublishFansOutToAllSubscribers(t *testing.T) {
	t.Parallel()

	broker := NewBroker()
	var delivered atomic.Int32

	for i := 0; i < 3; i++ {
		broker.Subscribe(func(_ context.Context, event Event) {
			if event.Kind == KindLineupLocked {
				delivered.Add(1)
			}
		})
	}

	broker.Publish(context.Background(), Event{
		Kind:       KindLineupLocked,
		OccurredAt: time.Now().UTC(),
		Fields:     map[string]any{"lineup_id": "l1"},
	})

	if got := delivered.Load(); got != 3 {
		t.Fatalf("delivered to %d handlers, want 3", got)
	}
}

func TestBroker_UnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	broker := NewBroker()
	var delivered atomic.Int32

	unsubscribe := broker.Subscribe(func(context.Context, Event) {
		delivered.Add(1)
	})

	broker.Publish(context.Background(), Event{Kind: KindMatchCompleted})
	unsubscribe()
	broker.Publish(context.Background(), Event{Kind: KindMatchCompleted})

	if got := delivered.Load(); got != 1 {
		t.Fatalf("delivered %d times, want 1", got)
	}
}
