package poller

import (
	"context"
	"log/slog"
	"time"
)

type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// GalleryRefresher rewrites the cached gallery on a fixed tick so visitors
// rarely pay for a CMS round trip.
type GalleryRefresher struct {
	gallery Refresher
	tick    time.Duration
	timeout time.Duration
	log     *slog.Logger
}

func NewGalleryRefresher(g Refresher, tick, timeout time.Duration, log *slog.Logger) *GalleryRefresher {
	return &GalleryRefresher{gallery: g, tick: tick, timeout: timeout, log: log}
}

// Run refreshes once immediately, then on every tick until ctx is done.
func (p *GalleryRefresher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	p.refresh(ctx)
	for {
		select {
		case <-ticker.C:
			p.refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *GalleryRefresher) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	n, err := p.gallery.Refresh(ctx)
	if err != nil {
		p.log.WarnContext(ctx, "gallery refresh failed", slog.String("error", err.Error()))
		return
	}
	p.log.DebugContext(ctx, "gallery refreshed", slog.Int("pieces", n))
}
