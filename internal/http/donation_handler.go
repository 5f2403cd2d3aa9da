package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/donation"
)

type DonationHandler struct {
	creator      donation.Creator
	contactEmail string
	timeout      time.Duration
	log          *slog.Logger
}

func NewDonationHandler(c donation.Creator, contactEmail string, timeout time.Duration, log *slog.Logger) *DonationHandler {
	return &DonationHandler{creator: c, contactEmail: contactEmail, timeout: timeout, log: log}
}

type DonationRequestDTO struct {
	Amount     any    `json:"amount"`
	Email      string `json:"email"`
	ArtistName string `json:"artist_name"`
	ArtTitle   string `json:"art_title"`
}

type DonationResponseDTO struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id,omitempty"`
}

type DonationErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	ContactURL string `json:"contact_url,omitempty"`
}

// POST /api/v1/donations
//
// Browsers posting the form are sent to the hosted checkout with a 303.
// Callers that accept JSON get the checkout URL in the body instead.
func (h *DonationHandler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	form, err := decodeDonationForm(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var redirectURL string
	flow := donation.NewFlow(h.creator, func(u string) { redirectURL = u }, h.contactEmail)
	session, err := flow.Submit(ctx, form)
	if err != nil {
		h.respondDonationError(w, r, form, err)
		return
	}

	h.log.InfoContext(ctx, "donation checkout started", slog.String("checkout_session_id", session.ID))
	if wantsJSON(r) {
		respondJSON(w, http.StatusOK, DonationResponseDTO{URL: redirectURL, SessionID: session.ID})
		return
	}
	http.Redirect(w, r, redirectURL, http.StatusSeeOther)
}

// GET /api/v1/donations/presets
func (h *DonationHandler) Presets(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, donation.PresetAmounts)
}

func (h *DonationHandler) respondDonationError(w http.ResponseWriter, r *http.Request, form donation.Form, err error) {
	var de *donation.Error
	if !errors.As(err, &de) {
		h.log.ErrorContext(r.Context(), "donation failed", slog.String("error", err.Error()))
		respondJSON(w, http.StatusInternalServerError, DonationErrorResponse{
			Error:      donation.UserMessage(err),
			Code:       "internal_error",
			ContactURL: donation.ContactURL(h.contactEmail, form.ArtistName, form.ArtTitle),
		})
		return
	}

	resp := DonationErrorResponse{Error: de.Message, Code: de.Kind.String()}
	status := http.StatusBadGateway
	switch de.Kind {
	case donation.KindValidation:
		status = http.StatusBadRequest
	case donation.KindConfiguration:
		status = http.StatusServiceUnavailable
	}
	if de.Kind != donation.KindValidation {
		resp.ContactURL = donation.ContactURL(h.contactEmail, form.ArtistName, form.ArtTitle)
		h.log.WarnContext(r.Context(), "donation failed",
			slog.String("kind", de.Kind.String()),
			slog.Int("upstream_status", de.Status),
			slog.String("error", err.Error()))
	}
	respondJSON(w, status, resp)
}

func decodeDonationForm(w http.ResponseWriter, r *http.Request) (donation.Form, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var dto DonationRequestDTO
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
		dec.UseNumber()
		if err := dec.Decode(&dto); err != nil {
			return donation.Form{}, errors.New("invalid JSON body")
		}
		return donation.Form{Amount: amountString(dto.Amount), Email: dto.Email, ArtistName: dto.ArtistName, ArtTitle: dto.ArtTitle}, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := r.ParseForm(); err != nil {
		return donation.Form{}, errors.New("invalid form body")
	}
	return donation.Form{
		Amount:     r.PostForm.Get("amount"),
		Email:      r.PostForm.Get("email"),
		ArtistName: r.PostForm.Get("artist_name"),
		ArtTitle:   r.PostForm.Get("art_title"),
	}, nil
}

// amountString accepts the amount as a JSON number or string. Anything
// else is passed through as text and fails amount validation.
func amountString(v any) string {
	switch a := v.(type) {
	case nil:
		return ""
	case json.Number:
		return a.String()
	case string:
		return a
	default:
		return fmt.Sprint(a)
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
