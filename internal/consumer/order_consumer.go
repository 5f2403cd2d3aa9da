package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/publisher"
	"github.com/segmentio/kafka-go"
)

// HandlerFunc receives each decoded OrderRecorded event.
type HandlerFunc func(ctx context.Context, ev domain.OrderRecordedEvent) error

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

const (
	defaultRetryDelay = time.Second
	maxRetryDelay     = 30 * time.Second
)

// Consumer follows the donation-orders topic.
type Consumer struct {
	reader     messageReader
	handler    HandlerFunc
	log        *slog.Logger
	retryDelay time.Duration
}

func NewConsumer(handler HandlerFunc, log *slog.Logger, groupID string, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    publisher.OrdersTopic,
		GroupID:  groupID,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, handler: handler, log: log, retryDelay: defaultRetryDelay}
}

// Run reads until ctx is cancelled. Consecutive read failures back off
// exponentially up to maxRetryDelay.
func (c *Consumer) Run(ctx context.Context) {
	base := c.retryDelay
	if base <= 0 {
		base = defaultRetryDelay
	}
	delay := base
	for ctx.Err() == nil {
		if c.processMessage(ctx) {
			delay = base
			continue
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.log.Error("error closing kafka reader", slog.String("error", err.Error()))
	}
}

// processMessage handles one message. It reports false only when the read
// itself failed for a reason other than ctx ending.
func (c *Consumer) processMessage(ctx context.Context) bool {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return true
		}
		c.log.ErrorContext(ctx, "error reading message", slog.String("error", err.Error()))
		return false
	}

	if t := eventType(m); t != "" && t != publisher.EventTypeOrderRecorded {
		c.log.DebugContext(ctx, "skipping message", slog.String("event_type", t))
		return true
	}

	ev, err := decode(m.Value)
	if err != nil {
		c.log.WarnContext(ctx, "error parsing message",
			slog.String("key", string(m.Key)),
			slog.String("error", err.Error()))
		return true
	}

	if err := c.handler(ctx, ev); err != nil {
		c.log.ErrorContext(ctx, "order event handler failed",
			slog.String("checkout_session_id", ev.CheckoutSessionID),
			slog.String("error", err.Error()))
	}
	return true
}

func decode(value []byte) (domain.OrderRecordedEvent, error) {
	var ev domain.OrderRecordedEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal order recorded event: %w", err)
	}
	if ev.CheckoutSessionID == "" {
		return ev, errors.New("order recorded event without checkout_session_id")
	}
	return ev, nil
}

func eventType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "event_type" {
			return string(h.Value)
		}
	}
	return ""
}
