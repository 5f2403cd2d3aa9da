package cache

import (
	"context"
	"errors"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
)

// GalleryCache stores rendered gallery listings keyed by collection name.
type GalleryCache interface {
	Get(ctx context.Context, collection string) ([]domain.ArtPiece, error)
	Set(ctx context.Context, collection string, pieces []domain.ArtPiece) error
	Delete(ctx context.Context, collection string) error
}

var ErrCacheMiss = errors.New("cache miss")

// Noop is used when no Redis address is configured. Every read misses.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]domain.ArtPiece, error) { return nil, ErrCacheMiss }
func (Noop) Set(context.Context, string, []domain.ArtPiece) error   { return nil }
func (Noop) Delete(context.Context, string) error                    { return nil }
