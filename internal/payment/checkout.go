package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

var (
	ErrStripeNotConfigured = errors.New("stripe secret key not configured")
	ErrCheckoutFailed      = errors.New("stripe checkout session creation failed")
)

// SessionAPI is the subset of the Stripe checkout session API in use.
type SessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type CheckoutConfig struct {
	SecretKey string
	SiteURL   string
	Currency  string
}

// CheckoutCreator opens Stripe Checkout sessions for donations.
type CheckoutCreator struct {
	cfg CheckoutConfig
	api SessionAPI
}

func NewCheckoutCreator(cfg CheckoutConfig) *CheckoutCreator {
	var api SessionAPI
	if cfg.SecretKey != "" {
		api = session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: cfg.SecretKey}
	}
	return newCheckoutCreator(cfg, api)
}

func newCheckoutCreator(cfg CheckoutConfig, api SessionAPI) *CheckoutCreator {
	if cfg.Currency == "" {
		cfg.Currency = domain.DefaultCurrency
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	return &CheckoutCreator{cfg: cfg, api: api}
}

// CreateDonation satisfies the same contract as the remote donation client,
// so the CLI can run against Stripe directly.
func (c *CheckoutCreator) CreateDonation(ctx context.Context, req domain.DonationRequest) (*domain.CheckoutSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if c.api == nil {
		return nil, ErrStripeNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Metadata: map[string]string{
			"artist_name": req.ArtistName,
			"art_title":   req.ArtTitle,
		},
		SuccessURL: stripe.String(c.cfg.SiteURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(c.cfg.SiteURL + "/"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(c.cfg.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(lineItemName(req)),
					},
					UnitAmount: stripe.Int64(req.AmountCents()),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SubmitType: stripe.String("donate"),
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx

	s, err := c.api.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return nil, fmt.Errorf("%w: %s", ErrCheckoutFailed, stripeErr.Msg)
		}
		return nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}
	return &domain.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func lineItemName(req domain.DonationRequest) string {
	switch {
	case req.ArtTitle != "" && req.ArtistName != "":
		return fmt.Sprintf("Donation for %q by %s", req.ArtTitle, req.ArtistName)
	case req.ArtistName != "":
		return "Donation to " + req.ArtistName
	default:
		return "Museum of Jaxsen Donation"
	}
}
