package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
)

// FormatSavings renders a canonical lakh amount for display in the
// requested unit: "45 L", "1 Cr". Values are floored, never rounded up;
// this is a display convenience and the result feeds no further
// calculation.
//
// Nil or zero renders as a bare "0". Sub-crore amounts stay in lakhs
// even when crore display is requested.
func FormatSavings(amountLakhs *decimal.Decimal, displayUnit domain.CurrencyUnit) string {
	if amountLakhs == nil || amountLakhs.IsZero() {
		return "0"
	}

	if displayUnit == domain.UnitCrores {
		crores := amountLakhs.Div(lakhsPerCrore)
		if crores.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return crores.Floor().String() + " Cr"
		}
	}

	return amountLakhs.Floor().String() + " L"
}
