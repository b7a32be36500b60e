// Package messaging implements the in-process event bus. Command handlers
// publish domain events (import completed, student changed, high risk
// detected) and outer surfaces subscribe to them - the seam where the
// original product showed its toast notifications.
package messaging

import (
	"sync"

	"github.com/vidya-hub/student-risk-hub/internal/domain/shared"
	"github.com/vidya-hub/student-risk-hub/pkg/logger"
)

// EventBus is a synchronous in-memory event bus. Handlers run in the
// publisher's goroutine, in subscription order; a panicking handler is
// recovered and logged, never failing the publish.
type EventBus struct {
	mu          sync.RWMutex
	handlers    map[shared.EventType][]shared.EventHandler
	allHandlers []shared.EventHandler
	log         *logger.Logger
}

// NewEventBus creates a new event bus.
func NewEventBus(log *logger.Logger) *EventBus {
	if log == nil {
		log = logger.Default()
	}
	return &EventBus{
		handlers: make(map[shared.EventType][]shared.EventHandler),
		log:      log.With(logger.Component("eventbus")),
	}
}

// Subscribe registers a handler for one event type.
func (b *EventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll registers a handler for every event type.
func (b *EventBus) SubscribeAll(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allHandlers = append(b.allHandlers, handler)
}

// Publish delivers the event to all matching handlers. It always returns nil;
// the signature satisfies shared.EventPublisher, whose callers must not fail
// on notification problems.
func (b *EventBus) Publish(event shared.Event) error {
	b.mu.RLock()
	typed := append([]shared.EventHandler(nil), b.handlers[event.EventType()]...)
	all := append([]shared.EventHandler(nil), b.allHandlers...)
	b.mu.RUnlock()

	for _, h := range typed {
		b.dispatch(h, event)
	}
	for _, h := range all {
		b.dispatch(h, event)
	}
	return nil
}

// dispatch runs one handler, recovering panics.
func (b *EventBus) dispatch(handler shared.EventHandler, event shared.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked",
				logger.String("event_type", string(event.EventType())),
				logger.F("panic", r))
		}
	}()
	handler(event)
}

// compile-time interface check
var _ shared.EventPublisher = (*EventBus)(nil)
