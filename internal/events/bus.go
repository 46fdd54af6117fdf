package events

import (
	"context"
	"sync"
)

// Logger defines the logging interface used by the Bus.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Error(string, ...any) {}

// Handler processes one event. Handlers run concurrently with their
// siblings; a returned error is logged and isolated, never propagated to
// the publisher.
type Handler func(ctx context.Context, event Event) error

// Bus is the in-process domain event bus.
//
// Publish delivers an event to every handler registered for the event's
// exact type. Handlers are resolved at publish time: a handler registered
// after a publish does not retroactively receive it. All handlers for one
// publish run concurrently and Publish returns only once every one of them
// has completed or failed.
//
// Re-entrant publishing is safe: handlers may call Publish themselves.
// Each publish is an independent fan-out, not a queue drained by a single
// worker, so no deadlock can occur. No ordering is guaranteed across
// independent Publish calls beyond the program order of the calls.
//
// Thread Safety: all methods are safe for concurrent use.
type Bus struct {
	handlers map[EventType][]Handler
	mu       sync.RWMutex
	logger   Logger
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the bus. Safe to call while publishes
// are in flight.
func (b *Bus) SetLogger(logger Logger) {
	b.mu.Lock()
	b.logger = logger
	b.mu.Unlock()
}

// Subscribe registers a handler for one event type. Registration is
// expected during startup wiring but is safe at any time; the handler
// only sees events published after it was registered.
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish delivers the event to all handlers registered for its type and
// waits for them to finish. Handler errors and panics are caught and
// logged per handler; they never abort sibling handlers and never reach
// the publisher.
func (b *Bus) Publish(ctx context.Context, event Event) {
	// Snapshot the handler list and logger so handlers can subscribe or
	// publish re-entrantly without holding the bus lock.
	b.mu.RLock()
	registered := b.handlers[event.EventType()]
	handlers := make([]Handler, len(registered))
	copy(handlers, registered)
	logger := b.logger
	b.mu.RUnlock()

	if len(handlers) == 0 {
		logger.Debug("event published with no subscribers",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
		)
		return
	}

	var wg sync.WaitGroup
	for _, handler := range handlers {
		wg.Add(1)
		go func(h Handler) {
			defer wg.Done()
			invoke(ctx, logger, h, event)
		}(handler)
	}
	wg.Wait()

	logger.Debug("event published",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"handlers", len(handlers),
	)
}

// invoke runs one handler with panic and error isolation.
func invoke(ctx context.Context, logger Logger, handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event handler panicked",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"panic", r,
			)
		}
	}()

	if err := handler(ctx, event); err != nil {
		logger.Error("event handler failed",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err,
		)
	}
}

// SubscriberCount returns the number of handlers registered for a type.
// Intended for startup diagnostics.
func (b *Bus) SubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}
