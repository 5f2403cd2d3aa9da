package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

type mockRetriever struct {
	sess *stripe.CheckoutSession
	err  error
}

func (m mockRetriever) Retrieve(_ context.Context, _ string, _ *stripe.CheckoutSessionRetrieveParams) (*stripe.CheckoutSession, error) {
	return m.sess, m.err
}

func TestSessionLookup(t *testing.T) {
	l := &SessionLookup{sessions: mockRetriever{sess: &stripe.CheckoutSession{
		ID:              "cs_1",
		AmountTotal:     1000,
		Currency:        "usd",
		PaymentStatus:   stripe.CheckoutSessionPaymentStatusPaid,
		Metadata:        map[string]string{"artist_name": "Jaxsen", "art_title": "Blue Hour"},
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "donor@example.com"},
	}}}

	s, err := l.Lookup(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), s.AmountTotal)
	assert.Equal(t, "paid", s.PaymentStatus)
	assert.Equal(t, "Blue Hour", s.ArtTitle)
	assert.Equal(t, "donor@example.com", s.CustomerEmail)

	boom := errors.New("boom")
	_, err = (&SessionLookup{sessions: mockRetriever{err: boom}}).Lookup(context.Background(), "cs_1")
	assert.ErrorIs(t, err, boom)
}

func TestNewSessionLookup_NoKey(t *testing.T) {
	assert.Nil(t, NewSessionLookup(""))
}
