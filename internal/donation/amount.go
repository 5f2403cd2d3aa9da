package donation

import (
	"fmt"
	"strings"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/shopspring/decimal"
)

// PresetAmounts are the suggested donation buttons, in dollars.
var PresetAmounts = []domain.TipAmount{
	{Amount: 5, Label: "$5"},
	{Amount: 10, Label: "$10"},
	{Amount: 25, Label: "$25"},
	{Amount: 50, Label: "$50"},
	{Amount: 100, Label: "$100"},
}

// ParseAmount reads a donor-entered amount. Absent, non-numeric and
// out-of-range values are validation errors.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if raw == "" {
		return decimal.Zero, validationError(fmt.Errorf("%w: empty", ErrInvalidAmount))
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, validationError(fmt.Errorf("%w: %q", ErrInvalidAmount, raw))
	}
	if err := (domain.DonationRequest{Amount: d}).Validate(); err != nil {
		return decimal.Zero, validationError(fmt.Errorf("%w: %w: %s", ErrInvalidAmount, err, d))
	}
	return d, nil
}
