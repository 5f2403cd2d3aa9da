package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/cache"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/content"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/repository"
)

type mockSource struct {
	pieces []domain.ArtPiece
	err    error
	delay  time.Duration
	calls  atomic.Int32
}

func (m *mockSource) FetchArtPieces(context.Context) ([]domain.ArtPiece, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.pieces, nil
}

func (m *mockSource) FetchArtPieceByID(_ context.Context, id string) (*domain.ArtPiece, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.pieces {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, content.ErrPieceNotFound
}

type mockCache struct {
	mu      sync.Mutex
	data    map[string][]domain.ArtPiece
	getErr  error
	setErr  error
	setCh   chan struct{}
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]domain.ArtPiece{}, setCh: make(chan struct{}, 8)}
}

func (m *mockCache) Get(_ context.Context, key string) ([]domain.ArtPiece, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(_ context.Context, key string, pieces []domain.ArtPiece) error {
	m.mu.Lock()
	defer func() {
		m.mu.Unlock()
		m.setCh <- struct{}{}
	}()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = pieces
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type mockOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order
	createErr error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: map[string]*domain.Order{}}
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.orders[o.CheckoutSessionID]; ok {
		return repository.ErrDuplicateSession
	}
	o.CreatedAt = time.Now()
	m.orders[o.CheckoutSessionID] = o
	return nil
}

func (m *mockOrderRepo) GetOrderBySessionID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) ListOrders(context.Context, int) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOrderRepo) Ping(context.Context) error                 { return nil }
func (m *mockOrderRepo) RunMigrations(*repository.Credentials) error { return nil }
func (m *mockOrderRepo) Close() error                               { return nil }

type mockPublisher struct {
	mu        sync.Mutex
	published []*domain.Order
	err       error
}

func (m *mockPublisher) PublishOrderRecorded(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, o)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

// blockingSource holds FetchArtPieces until release is closed or the
// context it was given ends.
type blockingSource struct {
	pieces  []domain.ArtPiece
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingSource(pieces []domain.ArtPiece) *blockingSource {
	return &blockingSource{pieces: pieces, started: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingSource) FetchArtPieces(ctx context.Context) ([]domain.ArtPiece, error) {
	b.once.Do(func() { close(b.started) })
	select {
	case <-b.release:
		return b.pieces, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *blockingSource) FetchArtPieceByID(context.Context, string) (*domain.ArtPiece, error) {
	return nil, content.ErrPieceNotFound
}
