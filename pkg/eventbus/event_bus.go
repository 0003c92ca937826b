// Package eventbus abstracts the publish-subscribe channel between the
// execution engine and external notification relays.
package eventbus

import (
	"context"

	"github.com/Chillizu/ai-workflow-studio/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

// EventPublisher is the write side the engine depends on.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

// EventSubscriber is the read side an external transport (WebSocket relay,
// log sink) attaches handlers to.
type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
