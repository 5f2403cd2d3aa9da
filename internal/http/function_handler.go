package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/donation"
	"github.com/shopspring/decimal"
)

// CreateDonationFunction is the backend endpoint the donation client calls.
// It turns a donation into a Stripe Checkout session.
type CreateDonationFunction struct {
	checkout donation.Creator
	anonKey  string
	timeout  time.Duration
	log      *slog.Logger
}

func NewCreateDonationFunction(checkout donation.Creator, anonKey string, timeout time.Duration, log *slog.Logger) *CreateDonationFunction {
	return &CreateDonationFunction{checkout: checkout, anonKey: anonKey, timeout: timeout, log: log}
}

type createDonationBody struct {
	Amount     decimal.Decimal `json:"amount"`
	Email      string          `json:"email"`
	ArtistName string          `json:"artistName"`
	ArtTitle   string          `json:"artTitle"`
}

// POST /functions/v1/create-donation
func (f *CreateDonationFunction) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		respondError(w, http.StatusUnauthorized, "unauthorized", "Invalid or missing authorization")
		return
	}

	var body createDonationBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	req := domain.DonationRequest{
		Amount:     body.Amount,
		Email:      strings.TrimSpace(body.Email),
		ArtistName: body.ArtistName,
		ArtTitle:   body.ArtTitle,
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount", "Invalid amount")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), f.timeout)
	defer cancel()

	session, err := f.checkout.CreateDonation(ctx, req)
	if err != nil {
		f.log.ErrorContext(ctx, "create checkout session failed", slog.String("error", err.Error()))
		msg := "Failed to create checkout session"
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "Timed out creating checkout session"
		}
		respondError(w, http.StatusInternalServerError, "checkout_failed", msg)
		return
	}

	respondJSON(w, http.StatusOK, DonationResponseDTO{URL: session.URL, SessionID: session.ID})
}

func (f *CreateDonationFunction) authorized(r *http.Request) bool {
	if f.anonKey == "" {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(f.anonKey)) == 1
}
