package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/content"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/service"
)

const msgGalleryUnavailable = "Failed to fetch art pieces from the exhibition"

type Gallery interface {
	ListArt(ctx context.Context) ([]domain.ArtPiece, error)
	GetArtBySlug(ctx context.Context, slug string) (*domain.ArtPiece, error)
	GetArtByID(ctx context.Context, id string) (*domain.ArtPiece, error)
}

type GalleryHandler struct {
	gallery Gallery
	timeout time.Duration
	log     *slog.Logger
}

func NewGalleryHandler(g Gallery, timeout time.Duration, log *slog.Logger) *GalleryHandler {
	return &GalleryHandler{gallery: g, timeout: timeout, log: log}
}

// GET /api/v1/art
func (h *GalleryHandler) ListArt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	pieces, err := h.gallery.ListArt(ctx)
	if err != nil {
		h.log.ErrorContext(ctx, "list art failed", slog.String("error", err.Error()))
		respondError(w, http.StatusBadGateway, "content_unavailable", msgGalleryUnavailable)
		return
	}
	if pieces == nil {
		pieces = []domain.ArtPiece{}
	}
	respondJSON(w, http.StatusOK, pieces)
}

// GET /api/v1/art/{slug}
func (h *GalleryHandler) GetArtBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	slug := chi.URLParam(r, "slug")
	piece, err := h.gallery.GetArtBySlug(ctx, slug)
	h.respondPiece(w, r, piece, err, content.SlugToTitle(slug))
}

// GET /api/v1/art/id/{id}
func (h *GalleryHandler) GetArtByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	piece, err := h.gallery.GetArtByID(ctx, id)
	h.respondPiece(w, r, piece, err, id)
}

func (h *GalleryHandler) respondPiece(w http.ResponseWriter, r *http.Request, piece *domain.ArtPiece, err error, ref string) {
	switch {
	case errors.Is(err, service.ErrArtNotFound):
		respondJSON(w, http.StatusNotFound, ErrorResponse{Error: "art piece not found", Code: "not_found", Details: ref})
	case err != nil:
		h.log.ErrorContext(r.Context(), "get art failed", slog.String("ref", ref), slog.String("error", err.Error()))
		respondError(w, http.StatusBadGateway, "content_unavailable", msgGalleryUnavailable)
	default:
		respondJSON(w, http.StatusOK, piece)
	}
}
