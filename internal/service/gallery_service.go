package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/cache"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/content"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"golang.org/x/sync/singleflight"
)

const artCollection = "art"

var ErrArtNotFound = errors.New("art piece not found")

// ArtSource is the content backend the gallery reads through to.
type ArtSource interface {
	FetchArtPieces(ctx context.Context) ([]domain.ArtPiece, error)
	FetchArtPieceByID(ctx context.Context, id string) (*domain.ArtPiece, error)
}

type GalleryService struct {
	source ArtSource
	cache  cache.GalleryCache
	log    *slog.Logger
	sfg    singleflight.Group
}

func NewGalleryService(source ArtSource, c cache.GalleryCache, log *slog.Logger) *GalleryService {
	return &GalleryService{
		source: source,
		cache:  c,
		log:    log,
	}
}

// fetchTimeout bounds a shared CMS read. It runs detached from the caller
// that started it so other waiters are not failed by that caller leaving.
const fetchTimeout = 30 * time.Second

// ListArt returns the gallery, newest first. Cache failures degrade to a
// direct CMS read.
func (s *GalleryService) ListArt(ctx context.Context) ([]domain.ArtPiece, error) {
	ch := s.sfg.DoChan(artCollection, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()

		pieces, err := s.cache.Get(fetchCtx, artCollection)
		if err == nil {
			return pieces, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.WarnContext(fetchCtx, "gallery cache get failed", slog.String("error", err.Error()))
		}

		pieces, err = s.source.FetchArtPieces(fetchCtx)
		if err != nil {
			return nil, err
		}

		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := s.cache.Set(setCtx, artCollection, pieces); err != nil {
				s.log.Warn("gallery cache set failed", slog.String("error", err.Error()))
			}
		}()

		return pieces, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("list art: %w", res.Err)
		}
		return res.Val.([]domain.ArtPiece), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("list art: %w", ctx.Err())
	}
}

func (s *GalleryService) GetArtBySlug(ctx context.Context, slug string) (*domain.ArtPiece, error) {
	pieces, err := s.ListArt(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := content.FindBySlug(pieces, slug)
	if !ok {
		return nil, ErrArtNotFound
	}
	return &p, nil
}

// GetArtByID goes to the CMS directly; single entries are not cached.
func (s *GalleryService) GetArtByID(ctx context.Context, id string) (*domain.ArtPiece, error) {
	p, err := s.source.FetchArtPieceByID(ctx, id)
	if errors.Is(err, content.ErrPieceNotFound) {
		return nil, ErrArtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get art %s: %w", id, err)
	}
	return p, nil
}

// Invalidate drops the cached listing so the next read goes to the CMS.
func (s *GalleryService) Invalidate(ctx context.Context) error {
	if err := s.cache.Delete(ctx, artCollection); err != nil {
		return fmt.Errorf("invalidate gallery: %w", err)
	}
	return nil
}

// Refresh reads the gallery from the CMS and overwrites the cached listing.
// On a CMS failure the cached listing is left as it was.
func (s *GalleryService) Refresh(ctx context.Context) (int, error) {
	pieces, err := s.source.FetchArtPieces(ctx)
	if err != nil {
		return 0, fmt.Errorf("refresh gallery: %w", err)
	}
	if err := s.cache.Set(ctx, artCollection, pieces); err != nil {
		return 0, fmt.Errorf("refresh gallery: %w", err)
	}
	return len(pieces), nil
}
