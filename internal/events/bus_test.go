package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nerrad567/habitat-core/internal/device"
)

func testStateChange(id, name string, isOn bool) *DeviceStateChanged {
	d := &device.Device{
		ID:       id,
		Name:     name,
		Type:     device.TypeLight,
		Protocol: device.ProtocolWiFi,
		IsOn:     isOn,
	}
	return NewDeviceStateChanged(d, !isOn, "tester", ReasonUser)
}

func TestBus_PublishDeliversToAllHandlers(t *testing.T) {
	bus := NewBus()

	var count atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe(TypeDeviceStateChanged, func(_ context.Context, _ Event) error {
			count.Add(1)
			return nil
		})
	}

	bus.Publish(context.Background(), testStateChange("dev-1", "Lamp", true))

	if got := count.Load(); got != 3 {
		t.Errorf("handlers invoked = %d, want 3", got)
	}
}

func TestBus_ExactTypeMatchOnly(t *testing.T) {
	bus := NewBus()

	var stateChanges, removals atomic.Int32
	bus.Subscribe(TypeDeviceStateChanged, func(_ context.Context, _ Event) error {
		stateChanges.Add(1)
		return nil
	})
	bus.Subscribe(TypeDeviceRemoved, func(_ context.Context, _ Event) error {
		removals.Add(1)
		return nil
	})

	bus.Publish(context.Background(), testStateChange("dev-1", "Lamp", true))

	if stateChanges.Load() != 1 {
		t.Errorf("state change handler invoked %d times, want 1", stateChanges.Load())
	}
	if removals.Load() != 0 {
		t.Errorf("removal handler invoked %d times, want 0", removals.Load())
	}
}

// A failing handler must not prevent its siblings from observing the
// event, and the failure must not reach the publisher.
func TestBus_HandlerFailureIsolation(t *testing.T) {
	bus := NewBus()

	var delivered atomic.Int32
	bus.Subscribe(TypeDeviceStateChanged, func(_ context.Context, _ Event) error {
		delivered.Add(1)
		return nil
	})
	bus.Subscribe(TypeDeviceStateChanged, func(_ context.Context, _ Event) error {
		return errors.New("handler exploded")
	})
	bus.Subscribe(TypeDeviceStateChanged, func(_ context.Context, _ Event) error {
		delivered.Add(1)
		return nil
	})

	// Publish must return normally despite the failing handler.
	bus.Publish(context.Background(), testStateChange("dev-1", "Lamp", true))

	if got := delivered.Load(); got != 2 {
		t.Errorf("surviving handlers invoked = %d, want 2", got)
	}
}

func TestBus_HandlerPanicIsolation(t *testing.T) {
	bus := NewBus()

	var delivered atomic.Int32
	bus.Subscribe(TypeDeviceStateChanged, func(_ context.Context, _ Event) error {
		panic("handler panicked")
	})
	bus.Subscribe(TypeDeviceStateChanged, func(_ context.Context, _ Event) error {
		delivered.Add(1)
		return nil
	})

	bus.Publish(context.Background(), testStateChange("dev-1", "Lamp", true))

	if got := delivered.Load(); got != 1 {
		t.Errorf("surviving handler invoked = %d, want 1", got)
	}
}

// Handlers registered after a publish must not retroactively receive it.
func TestBus_HandlersResolvedAtPublishTime(t *testing.T) {
	bus := NewBus()

	var early, late atomic.Int32
	bus.Subscribe(TypeDeviceStateChanged, func(_ context.Context, _ Event) error {
		early.Add(1)
		return nil
	})

	bus.Publish(context.Background(), testStateChange("dev-1", "Lamp", true))

	bus.Subscribe(TypeDeviceStateChanged, func(_ context.Context, _ Event) error {
		late.Add(1)
		return nil
	})

	if early.Load() != 1 {
		t.Errorf("early handler invoked %d times, want 1", early.Load())
	}
	if late.Load() != 0 {
		t.Errorf("late handler invoked %d times, want 0", late.Load())
	}
}

// A handler publishing a derived event must not deadlock: each publish is
// an independent fan-out.
func TestBus_ReentrantPublish(t *testing.T) {
	bus := NewBus()

	var automationSeen atomic.Int32
	bus.Subscribe(TypeDeviceStateChanged, func(ctx context.Context, _ Event) error {
		bus.Publish(ctx, NewAutomationTriggered("test rule", "Lamp", []string{"dev-2"}))
		return nil
	})
	bus.Subscribe(TypeAutomationTriggered, func(_ context.Context, _ Event) error {
		automationSeen.Add(1)
		return nil
	})

	done := make(chan struct{})
	go func() {
		bus.Publish(context.Background(), testStateChange("dev-1", "Lamp", true))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("re-entrant publish deadlocked")
	}

	if automationSeen.Load() != 1 {
		t.Errorf("derived event seen %d times, want 1", automationSeen.Load())
	}
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()

	var count atomic.Int32
	bus.Subscribe(TypeDeviceStateChanged, func(_ context.Context, _ Event) error {
		count.Add(1)
		return nil
	})

	const publishers = 20
	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(context.Background(), testStateChange("dev-1", "Lamp", true))
		}()
	}
	wg.Wait()

	if got := count.Load(); got != publishers {
		t.Errorf("handler invoked %d times, want %d", got, publishers)
	}
}

// countingLogger counts Debug calls; used to observe logger swaps.
type countingLogger struct {
	debugs atomic.Int32
}

func (c *countingLogger) Debug(string, ...any) { c.debugs.Add(1) }
func (c *countingLogger) Error(string, ...any) {}

func TestBus_SetLoggerDuringPublish(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(TypeDeviceStateChanged, func(_ context.Context, _ Event) error { return nil })

	logger := &countingLogger{}

	const publishers = 20
	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(context.Background(), testStateChange("dev-1", "Lamp", true))
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.SetLogger(logger)
		}()
	}
	wg.Wait()

	// Publishes after the swap must use the new logger.
	bus.Publish(context.Background(), testStateChange("dev-1", "Lamp", true))
	if logger.debugs.Load() == 0 {
		t.Error("swapped-in logger never used")
	}
}

func TestBus_SubscriberCount(t *testing.T) {
	bus := NewBus()

	if got := bus.SubscriberCount(TypeDeviceAdded); got != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", got)
	}

	bus.Subscribe(TypeDeviceAdded, func(_ context.Context, _ Event) error { return nil })
	bus.Subscribe(TypeDeviceAdded, func(_ context.Context, _ Event) error { return nil })

	if got := bus.SubscriberCount(TypeDeviceAdded); got != 2 {
		t.Errorf("SubscriberCount() = %d, want 2", got)
	}
}

func TestEventConstruction(t *testing.T) {
	before := time.Now().UTC()
	e := testStateChange("dev-1", "Lamp", true)
	after := time.Now().UTC()

	if e.EventID() == "" {
		t.Error("EventID should be assigned at construction")
	}
	if e.EventType() != TypeDeviceStateChanged {
		t.Errorf("EventType() = %q, want %q", e.EventType(), TypeDeviceStateChanged)
	}
	if e.OccurredAt().Before(before) || e.OccurredAt().After(after) {
		t.Errorf("OccurredAt() = %v, want between %v and %v", e.OccurredAt(), before, after)
	}

	other := testStateChange("dev-1", "Lamp", true)
	if other.EventID() == e.EventID() {
		t.Error("each event should get a distinct ID")
	}
}

func TestAutomationTriggered_CopiesAffectedIDs(t *testing.T) {
	ids := []string{"dev-1", "dev-2"}
	e := NewAutomationTriggered("rule", "source", ids)

	ids[0] = "mutated"
	if e.AffectedDeviceIDs[0] != "dev-1" {
		t.Error("NewAutomationTriggered should copy the affected ID slice")
	}
}
