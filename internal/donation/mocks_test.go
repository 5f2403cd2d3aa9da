package donation

import (
	"context"
	"sync"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
)

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

type navigator struct {
	urls []string
}

func (n *navigator) navigate(url string) { n.urls = append(n.urls, url) }
