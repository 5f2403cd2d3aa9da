package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// SignatureHeader carries the provider's signature over the raw body.
const SignatureHeader = "Stripe-Signature"

var (
	ErrMissingSignature = errors.New("missing stripe signature")
	ErrMissingSecret    = errors.New("webhook secret not configured")
	ErrInvalidSignature = errors.New("invalid stripe signature")
	ErrMalformedEvent   = errors.New("malformed webhook event")
)

// Event is a verified webhook event. The concrete type is either
// CheckoutSessionCompleted or UnhandledEvent.
type Event interface {
	EventID() string
	EventType() string
}

// CheckoutSessionCompleted is a paid checkout session.
type CheckoutSessionCompleted struct {
	ID              string
	SessionID       string
	PaymentIntentID string
	CustomerID      string
	AmountSubtotal  int64
	AmountTotal     int64
	Currency        string
	PaymentStatus   string
}

func (e CheckoutSessionCompleted) EventID() string { return e.ID }
func (e CheckoutSessionCompleted) EventType() string {
	return string(stripe.EventTypeCheckoutSessionCompleted)
}

// Order builds the record stored for this session.
func (e CheckoutSessionCompleted) Order() *domain.Order {
	currency := e.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &domain.Order{
		ID:                uuid.New(),
		CheckoutSessionID: e.SessionID,
		PaymentIntentID:   e.PaymentIntentID,
		CustomerID:        e.CustomerID,
		AmountSubtotal:    e.AmountSubtotal,
		AmountTotal:       e.AmountTotal,
		Currency:          currency,
		PaymentStatus:     e.PaymentStatus,
		Status:            domain.OrderStatusCompleted,
	}
}

// UnhandledEvent is any verified event this service does not act on.
type UnhandledEvent struct {
	ID   string
	Type string
}

func (e UnhandledEvent) EventID() string   { return e.ID }
func (e UnhandledEvent) EventType() string { return e.Type }

type WebhookVerifier struct {
	secret    string
	tolerance time.Duration
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret, tolerance: webhook.DefaultTolerance}
}

// Parse verifies payload against signature and decodes the event. Nothing
// in payload is looked at before the signature checks out.
func (v *WebhookVerifier) Parse(payload []byte, signature string) (Event, error) {
	if signature == "" {
		return nil, ErrMissingSignature
	}
	if v.secret == "" {
		return nil, ErrMissingSecret
	}

	ev, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if isSignatureError(err) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}

	switch ev.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		return decodeCheckoutSessionCompleted(ev)
	default:
		return UnhandledEvent{ID: ev.ID, Type: string(ev.Type)}, nil
	}
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld)
}

func decodeCheckoutSessionCompleted(ev stripe.Event) (Event, error) {
	if ev.Data == nil || len(ev.Data.Raw) == 0 {
		return nil, fmt.Errorf("%w: %s has no data object", ErrMalformedEvent, ev.ID)
	}
	var s stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
		return nil, fmt.Errorf("%w: decode checkout session: %w", ErrMalformedEvent, err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("%w: %s has no checkout session id", ErrMalformedEvent, ev.ID)
	}

	out := CheckoutSessionCompleted{
		ID:             ev.ID,
		SessionID:      s.ID,
		AmountSubtotal: s.AmountSubtotal,
		AmountTotal:    s.AmountTotal,
		Currency:       string(s.Currency),
		PaymentStatus:  string(s.PaymentStatus),
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	return out, nil
}
