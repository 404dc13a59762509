package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher emits lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bus publishes and subscribes to lifecycle events on a single topic.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	topic      string
}

// NewGoChannelBus returns an in-process bus. Messages published while nobody
// is subscribed are dropped.
func NewGoChannelBus(topic string, logger *zap.Logger) *Bus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, NewZapLoggerAdapter(logger))
	return &Bus{publisher: pubSub, subscriber: pubSub, topic: topic}
}

// NewRedisStreamBus returns a bus backed by a Redis stream; subscribers share
// consumerGroup so each event is audited once across replicas.
func NewRedisStreamBus(client redis.UniversalClient, topic, consumerGroup string, logger *zap.Logger) (*Bus, error) {
	wmLogger := NewZapLoggerAdapter(logger)

	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client:     client,
		Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("redis stream publisher: %w", err)
	}

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
		ConsumerGroup: consumerGroup,
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("redis stream subscriber: %w", err)
	}

	return &Bus{publisher: publisher, subscriber: subscriber, topic: topic}, nil
}

// Topic returns the topic events are published to.
func (b *Bus) Topic() string {
	return b.topic
}

// Publish encodes event as JSON and publishes it.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("type", string(event.Type))
	msg.SetContext(ctx)

	if err := b.publisher.Publish(b.topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Subscribe streams raw messages until ctx is cancelled.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, b.topic)
}

// Close shuts down both sides of the bus.
func (b *Bus) Close() error {
	pubErr := b.publisher.Close()
	if any(b.subscriber) == any(b.publisher) {
		return pubErr
	}
	return errors.Join(pubErr, b.subscriber.Close())
}

// Decode parses a message produced by Publish.
func Decode(msg *message.Message) (Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return Event{}, fmt.Errorf("decode event %s: %w", msg.UUID, err)
	}
	return event, nil
}
