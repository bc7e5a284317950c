// Package events provides event bus infrastructure for decoupled,
// event-driven communication between modules.
// This is part of the platform layer and contains no business logic.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every domain event.
type Event interface {
	// EventName identifies the event type; handlers subscribe by it.
	EventName() string
	// EventID is unique per published event.
	EventID() uuid.UUID
	OccurredAt() time.Time
}

// BaseEvent carries the identity and timestamp shared by all events.
type BaseEvent struct {
	ID        uuid.UUID `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) EventID() uuid.UUID { return e.ID }

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps a fresh event ID and the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{ID: uuid.New(), Timestamp: time.Now().UTC()}
}

// Handler processes events it was subscribed to.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc is an adapter to allow ordinary functions to be used as handlers.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Publisher is the producing side of a bus.
type Publisher interface {
	// Publish dispatches to handlers without waiting for them.
	Publish(ctx context.Context, event Event)
	// PublishSync waits for every handler and returns their joined errors.
	PublishSync(ctx context.Context, event Event) error
}

// Subscriber is the consuming side of a bus.
type Subscriber interface {
	Subscribe(eventName string, handler Handler)
}

// Bus is both sides.
type Bus interface {
	Publisher
	Subscriber
}
