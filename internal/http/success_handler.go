package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/payment"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/repository"
)

type OrderLookup interface {
	OrderForSession(ctx context.Context, sessionID string) (*domain.Order, error)
}

type SessionLookup interface {
	Lookup(ctx context.Context, sessionID string) (*payment.SessionSummary, error)
}

type SuccessHandler struct {
	orders       OrderLookup
	sessions     SessionLookup
	contactEmail string
	timeout      time.Duration
	log          *slog.Logger
}

// sessions may be nil when no Stripe key is configured.
func NewSuccessHandler(orders OrderLookup, sessions SessionLookup, contactEmail string, timeout time.Duration, log *slog.Logger) *SuccessHandler {
	return &SuccessHandler{orders: orders, sessions: sessions, contactEmail: contactEmail, timeout: timeout, log: log}
}

type SuccessResponseDTO struct {
	Title         string `json:"title"`
	Message       string `json:"message"`
	SessionID     string `json:"session_id,omitempty"`
	OrderRecorded bool   `json:"order_recorded"`
	AmountTotal   int64  `json:"amount_total,omitempty"`
	Currency      string `json:"currency,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
	ArtTitle      string `json:"art_title,omitempty"`
	ContactURL    string `json:"contact_url"`
}

// GET /success?session_id=...
func (h *SuccessHandler) ThankYou(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := SuccessResponseDTO{
		Title:      "Thank You for Your Support!",
		Message:    "Your donation has been processed successfully and helps support the Museum of Jaxsen and our artists.",
		SessionID:  r.URL.Query().Get("session_id"),
		ContactURL: "mailto:" + h.contactEmail + "?subject=Thank%20you%20for%20the%20donation",
	}
	if resp.SessionID == "" {
		respondJSON(w, http.StatusOK, resp)
		return
	}

	order, err := h.orders.OrderForSession(ctx, resp.SessionID)
	switch {
	case err == nil:
		resp.OrderRecorded = true
		resp.AmountTotal = order.AmountTotal
		resp.Currency = order.Currency
		resp.PaymentStatus = order.PaymentStatus
	case !errors.Is(err, repository.ErrOrderNotFound):
		h.log.WarnContext(ctx, "order lookup failed", slog.String("error", err.Error()))
	}

	// The webhook may not have arrived yet. Fill the gaps from Stripe.
	if h.sessions != nil {
		if s, err := h.sessions.Lookup(ctx, resp.SessionID); err != nil {
			h.log.WarnContext(ctx, "checkout session lookup failed", slog.String("error", err.Error()))
		} else {
			resp.ArtTitle = s.ArtTitle
			if !resp.OrderRecorded {
				resp.AmountTotal = s.AmountTotal
				resp.Currency = s.Currency
				resp.PaymentStatus = s.PaymentStatus
			}
		}
	}

	respondJSON(w, http.StatusOK, resp)
}
