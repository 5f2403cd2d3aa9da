package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/payment"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/repository"
)

const maxWebhookBody = 1 << 20

type EventParser interface {
	Parse(payload []byte, signature string) (payment.Event, error)
}

type OrderRecorder interface {
	RecordOrder(ctx context.Context, order *domain.Order) error
}

type WebhookHandler struct {
	parser EventParser
	orders OrderRecorder
	log    *slog.Logger
}

func NewWebhookHandler(p EventParser, orders OrderRecorder, log *slog.Logger) *WebhookHandler {
	return &WebhookHandler{parser: p, orders: orders, log: log}
}

type WebhookAck struct {
	Received bool `json:"received"`
}

// POST /functions/v1/stripe-webhook
func (h *WebhookHandler) HandleStripeEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "could not read request body")
		return
	}

	signature := r.Header.Get(payment.SignatureHeader)
	if signature == "" {
		h.log.WarnContext(ctx, "webhook rejected", slog.String("error", payment.ErrMissingSignature.Error()))
		respondError(w, http.StatusBadRequest, "missing_signature", payment.ErrMissingSignature.Error())
		return
	}

	ev, err := h.parser.Parse(body, signature)
	if err != nil {
		h.log.WarnContext(ctx, "webhook rejected", slog.String("error", err.Error()))
		respondError(w, http.StatusBadRequest, webhookErrorCode(err), err.Error())
		return
	}

	switch e := ev.(type) {
	case payment.CheckoutSessionCompleted:
		h.recordCompleted(ctx, e)
	default:
		h.log.InfoContext(ctx, "unhandled event type",
			slog.String("event_id", ev.EventID()),
			slog.String("event_type", ev.EventType()))
	}

	respondJSON(w, http.StatusOK, WebhookAck{Received: true})
}

// recordCompleted stores the order. Storage failures are logged; the event is
// still acknowledged.
func (h *WebhookHandler) recordCompleted(ctx context.Context, e payment.CheckoutSessionCompleted) {
	err := h.orders.RecordOrder(ctx, e.Order())
	switch {
	case errors.Is(err, repository.ErrDuplicateSession):
		h.log.InfoContext(ctx, "checkout session already recorded, skipping",
			slog.String("event_id", e.EventID()),
			slog.String("checkout_session_id", e.SessionID))
	case err != nil:
		h.log.ErrorContext(ctx, "failed to store order",
			slog.String("event_id", e.EventID()),
			slog.String("checkout_session_id", e.SessionID),
			slog.String("error", err.Error()))
	}
}

func webhookErrorCode(err error) string {
	switch {
	case errors.Is(err, payment.ErrMissingSignature):
		return "missing_signature"
	case errors.Is(err, payment.ErrMissingSecret):
		return "missing_secret"
	case errors.Is(err, payment.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed_event"
	}
}
