package http

import (
	"context"
	"sync"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/payment"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/repository"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/service"
)

type mockGallery struct {
	pieces []domain.ArtPiece
	err    error
}

func (m mockGallery) ListArt(context.Context) ([]domain.ArtPiece, error) {
	return m.pieces, m.err
}

func (m mockGallery) GetArtBySlug(_ context.Context, slug string) (*domain.ArtPiece, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.pieces {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, service.ErrArtNotFound
}

func (m mockGallery) GetArtByID(_ context.Context, id string) (*domain.ArtPiece, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.pieces {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, service.ErrArtNotFound
}

type mockCreator struct {
	mu      sync.Mutex
	session *domain.CheckoutSession
	err     error
	calls   []domain.DonationRequest
}

func (m *mockCreator) CreateDonation(_ context.Context, req domain.DonationRequest) (*domain.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

type spyParser struct {
	called bool
	ev     payment.Event
	err    error
}

func (s *spyParser) Parse([]byte, string) (payment.Event, error) {
	s.called = true
	return s.ev, s.err
}

// orderStore behaves like the stripe_orders table, unique on session id.
type orderStore struct {
	mu     sync.Mutex
	orders []*domain.Order
	err    error
}

func (s *orderStore) RecordOrder(_ context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, existing := range s.orders {
		if existing.CheckoutSessionID == o.CheckoutSessionID {
			return repository.ErrDuplicateSession
		}
	}
	s.orders = append(s.orders, o)
	return nil
}

func (s *orderStore) OrderForSession(_ context.Context, id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, o := range s.orders {
		if o.CheckoutSessionID == id {
			return o, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (s *orderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

type mockSessionLookup struct {
	summary *payment.SessionSummary
	err     error
}

func (m mockSessionLookup) Lookup(context.Context, string) (*payment.SessionSummary, error) {
	return m.summary, m.err
}
