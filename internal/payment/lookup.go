package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
)

// SessionSummary is what the thank-you page shows about a checkout.
type SessionSummary struct {
	ID            string
	AmountTotal   int64
	Currency      string
	PaymentStatus string
	CustomerEmail string
	ArtistName    string
	ArtTitle      string
}

type sessionRetriever interface {
	Retrieve(ctx context.Context, id string, params *stripe.CheckoutSessionRetrieveParams) (*stripe.CheckoutSession, error)
}

// SessionLookup reads checkout sessions back from Stripe.
type SessionLookup struct {
	sessions sessionRetriever
}

func NewSessionLookup(secretKey string) *SessionLookup {
	if secretKey == "" {
		return nil
	}
	sc := stripe.NewClient(secretKey)
	return &SessionLookup{sessions: sc.V1CheckoutSessions}
}

func (l *SessionLookup) Lookup(ctx context.Context, sessionID string) (*SessionSummary, error) {
	s, err := l.sessions.Retrieve(ctx, sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session %s: %w", sessionID, err)
	}
	out := &SessionSummary{
		ID:            s.ID,
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		PaymentStatus: string(s.PaymentStatus),
		ArtistName:    s.Metadata["artist_name"],
		ArtTitle:      s.Metadata["art_title"],
	}
	if s.CustomerDetails != nil {
		out.CustomerEmail = s.CustomerDetails.Email
	}
	return out, nil
}
