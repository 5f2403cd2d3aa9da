package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
)

// DefaultCurrency is recorded when a completed session carries no currency.
const DefaultCurrency = "usd"

// Order is a paid checkout session. Rows are only inserted, never updated.
type Order struct {
	ID                uuid.UUID
	CheckoutSessionID string
	PaymentIntentID   string
	CustomerID        string
	AmountSubtotal    int64
	AmountTotal       int64
	Currency          string
	PaymentStatus     string
	Status            OrderStatus
	CreatedAt         time.Time
}

// OrderRecordedEvent is published after an order row is stored.
type OrderRecordedEvent struct {
	OrderID           uuid.UUID   `json:"order_id"`
	CheckoutSessionID string      `json:"checkout_session_id"`
	PaymentIntentID   string      `json:"payment_intent_id,omitempty"`
	CustomerID        string      `json:"customer_id,omitempty"`
	AmountTotal       int64       `json:"amount_total"`
	Currency          string      `json:"currency"`
	PaymentStatus     string      `json:"payment_status"`
	Status            OrderStatus `json:"status"`
	RecordedAt        time.Time   `json:"recorded_at"`
}

func NewOrderRecordedEvent(o *Order) OrderRecordedEvent {
	return OrderRecordedEvent{
		OrderID:           o.ID,
		CheckoutSessionID: o.CheckoutSessionID,
		PaymentIntentID:   o.PaymentIntentID,
		CustomerID:        o.CustomerID,
		AmountTotal:       o.AmountTotal,
		Currency:          o.Currency,
		PaymentStatus:     o.PaymentStatus,
		Status:            o.Status,
		RecordedAt:        o.CreatedAt,
	}
}
