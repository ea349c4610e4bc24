package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
)

// MaxStars is the top of the star rating scale.
const MaxStars = 5

// Monthly tier boundaries in lakhs. A month lands in a tier by strictly
// exceeding its boundary; landing exactly on a boundary stays in the
// tier below (16 lakhs monthly is tier 4, 16.01 is tier 5). Any
// positive monthly figure reaches tier 1.
var monthlyBounds = [4]decimal.Decimal{
	decimal.NewFromInt(16), // > 16 -> 5
	decimal.NewFromInt(12), // > 12 -> 4
	decimal.NewFromInt(8),  // > 8  -> 3
	decimal.NewFromInt(4),  // > 4  -> 2
}

// YTD tier boundaries in lakhs, same strict-exceed rule for tiers 2-5.
// Tier 1 requires at least 10 lakhs year to date (inclusive).
var ytdBounds = [4]decimal.Decimal{
	decimal.NewFromInt(200), // > 200 -> 5
	decimal.NewFromInt(150), // > 150 -> 4
	decimal.NewFromInt(100), // > 100 -> 3
	decimal.NewFromInt(50),  // > 50  -> 2
}

var ytdFloor = decimal.NewFromInt(10)

// Classify maps a (monthly, YTD) savings pair to a star rating in
// [0,5]. A nil figure is treated as zero. When currency is crores both
// figures are converted to lakhs first, so callers holding
// crore-denominated reports need not pre-convert.
//
// The rating is the minimum of the two independent tier lookups: a
// plant must qualify on both the current month and the year to date
// simultaneously. A strong YTD cannot compensate for a weak month, and
// vice versa.
func Classify(monthlyLakhs, ytdLakhs *decimal.Decimal, currency domain.CurrencyUnit) int {
	if monthlyLakhs == nil || ytdLakhs == nil {
		return 0
	}

	monthly := *monthlyLakhs
	ytd := *ytdLakhs
	if currency == domain.UnitCrores {
		monthly = monthly.Mul(lakhsPerCrore)
		ytd = ytd.Mul(lakhsPerCrore)
	}

	return min(monthlyTier(monthly), ytdTier(ytd))
}

// monthlyTier returns the tier the monthly figure reaches on its own.
func monthlyTier(monthly decimal.Decimal) int {
	for i, bound := range monthlyBounds {
		if monthly.GreaterThan(bound) {
			return MaxStars - i
		}
	}
	if monthly.IsPositive() {
		return 1
	}
	return 0
}

// ytdTier returns the tier the YTD figure reaches on its own.
func ytdTier(ytd decimal.Decimal) int {
	for i, bound := range ytdBounds {
		if ytd.GreaterThan(bound) {
			return MaxStars - i
		}
	}
	if ytd.GreaterThanOrEqual(ytdFloor) {
		return 1
	}
	return 0
}
