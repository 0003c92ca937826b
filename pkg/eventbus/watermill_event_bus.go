package eventbus

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Chillizu/ai-workflow-studio/pkg/events"
)

// WatermillEventBus carries engine events over any watermill pub/sub pair
// (in-memory gochannel for embedded use, kafka for distributed relays).
type WatermillEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	handlers   map[events.EventType]EventHandler
}

func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber) EventBus {
	return &WatermillEventBus{
		publisher:  pub,
		subscriber: sub,
		handlers:   make(map[events.EventType]EventHandler),
	}
}

func (eb *WatermillEventBus) GenerateID() string {
	return watermill.NewULID()
}

// Publish serializes the event and tags the message with the execution key
// and event type so subscribers can route without decoding the payload.
func (eb *WatermillEventBus) Publish(ctx context.Context, key string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage("msg-"+eb.GenerateID(), payload)
	msg.Metadata.Set(events.EventMetadataKey, key)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	return eb.publisher.Publish(events.Topic, msg)
}

// Handle registers the handler for one event type. Later registrations for
// the same type replace earlier ones.
func (eb *WatermillEventBus) Handle(eventType events.EventType, handler EventHandler) error {
	eb.handlers[eventType] = handler

	return nil
}

// Subscribe starts consuming the execution topic in a background goroutine.
// Messages with no registered handler are acked and dropped; decode and
// handler failures nack so the transport can redeliver.
func (eb *WatermillEventBus) Subscribe(ctx context.Context) error {
	messages, err := eb.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			if eb.dispatch(ctx, msg) {
				msg.Ack()
			} else {
				msg.Nack()
			}
		}
	}()

	return nil
}

func (eb *WatermillEventBus) dispatch(ctx context.Context, msg *message.Message) bool {
	eventType := events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey))

	handler, registered := eb.handlers[eventType]
	if !registered {
		return true
	}

	event, known := events.NewOfType(eventType)
	if !known {
		return false
	}

	if err := json.Unmarshal(msg.Payload, event); err != nil {
		return false
	}

	return handler(ctx, event) == nil
}

func (eb *WatermillEventBus) Close() error {
	if err := eb.publisher.Close(); err != nil {
		return err
	}

	return eb.subscriber.Close()
}
