package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MinimumDonation is the smallest amount, in whole currency units, accepted
// for a donation.
var MinimumDonation = decimal.NewFromInt(1)

// MaximumDonation is the largest single charge Stripe accepts, 99999999 cents.
var MaximumDonation = decimal.New(99999999, -2)

type DonationRequest struct {
	Amount     decimal.Decimal
	Email      string
	ArtistName string
	ArtTitle   string
}

// AmountCents converts the donation to the smallest currency unit, rounding
// half away from zero.
func (r DonationRequest) AmountCents() int64 {
	return r.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CheckoutSession references a provider-hosted checkout. The provider owns it.
type CheckoutSession struct {
	ID  string
	URL string
}

var (
	ErrAmountBelowMinimum = errors.New("donation amount must be at least 1")
	ErrAmountAboveMaximum = errors.New("donation amount must be at most 999999.99")
)

// Validate keeps the amount inside the range AmountCents can represent and
// Stripe will charge.
func (r DonationRequest) Validate() error {
	if r.Amount.LessThan(MinimumDonation) {
		return ErrAmountBelowMinimum
	}
	if r.Amount.GreaterThan(MaximumDonation) {
		return ErrAmountAboveMaximum
	}
	return nil
}
