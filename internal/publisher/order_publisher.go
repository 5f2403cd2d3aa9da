package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	OrdersTopic            = "donation-orders"
	EventTypeOrderRecorded = "OrderRecorded"
)

// OrderPublisher announces stored orders to the rest of the system.
type OrderPublisher interface {
	PublishOrderRecorded(ctx context.Context, order *domain.Order) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  OrdersTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

// PublishOrderRecorded keys the message by checkout session so every event
// for one session lands on the same partition.
func (p *KafkaPublisher) PublishOrderRecorded(ctx context.Context, order *domain.Order) error {
	payload, err := json.Marshal(domain.NewOrderRecordedEvent(order))
	if err != nil {
		return fmt.Errorf("marshal order recorded event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(order.CheckoutSessionID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeOrderRecorded)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order %s: %w", order.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop is used when no brokers are configured.
type Noop struct{}

func (Noop) PublishOrderRecorded(context.Context, *domain.Order) error { return nil }
func (Noop) Close() error                                              { return nil }
