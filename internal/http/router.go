package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups everything the router mounts.
type Handlers struct {
	Gallery        *GalleryHandler
	Donation       *DonationHandler
	Success        *SuccessHandler
	Webhook        *WebhookHandler
	CreateDonation *CreateDonationFunction
	DB             Pinger
}

func NewRouter(h Handlers, requestTimeout time.Duration, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if h.DB != nil {
			if err := h.DB.Ping(r.Context()); err != nil {
				respondError(w, http.StatusServiceUnavailable, "not_ready", "database unavailable")
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Get("/success", h.Success.ThankYou)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/art", func(r chi.Router) {
			r.Use(middleware.Compress(5))
			r.Get("/", h.Gallery.ListArt)
			r.Get("/id/{id}", h.Gallery.GetArtByID)
			r.Get("/{slug}", h.Gallery.GetArtBySlug)
		})
		r.Route("/donations", func(r chi.Router) {
			r.Get("/presets", h.Donation.Presets)
			r.Post("/", h.Donation.CreateDonation)
		})
	})

	r.Route("/functions/v1", func(r chi.Router) {
		r.Use(FunctionCORS)
		r.Post("/stripe-webhook", h.Webhook.HandleStripeEvent)
		r.Options("/stripe-webhook", func(http.ResponseWriter, *http.Request) {})
		r.Post("/create-donation", h.CreateDonation.ServeHTTP)
		r.Options("/create-donation", func(http.ResponseWriter, *http.Request) {})
	})

	return r
}
