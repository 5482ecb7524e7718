package engine

import (
	"context"
	"testing"
	"time"

	"finlearn/core"
)

func TestEventBusSync(t *testing.T) {
	bus := NewEventBus(DispatchSync)
	count := 0
	bus.Subscribe(core.EventXPAdded, func(ctx context.Context, e core.Event) { count++ })
	bus.Publish(context.Background(), core.NewXPAdded("guest", 1, 1))
	if count != 1 {
		t.Fatalf("want 1 got %d", count)
	}
}

func TestEventBusAsync(t *testing.T) {
	bus := NewEventBus(DispatchAsync)
	defer bus.Close()
	ch := make(chan struct{})
	bus.Subscribe(core.EventXPAdded, func(ctx context.Context, e core.Event) { close(ch) })
	bus.Publish(context.Background(), core.NewXPAdded("guest", 1, 1))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus(DispatchSync)
	count := 0
	unsub := bus.Subscribe(core.EventBadgeEarned, func(ctx context.Context, e core.Event) { count++ })
	unsub()
	bus.Publish(context.Background(), core.NewBadgeEarned("guest", "first-lesson"))
	if count != 0 {
		t.Fatalf("handler ran after unsubscribe: %d", count)
	}
}
