// Package scoring implements the savings normalization and incentive
// scoring rules: currency and period normalization into canonical
// monthly lakhs, the dual-threshold star rating classifier, and display
// formatting of savings figures.
//
// Everything in this package is pure: decimal in, decimal out, no
// stores, no clocks. Orchestration lives in the service layer.
package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
)

// lakhsPerCrore converts crore-denominated figures to lakhs.
var lakhsPerCrore = decimal.NewFromInt(100)

// monthsPerYear spreads an annual figure across months.
var monthsPerYear = decimal.NewFromInt(12)

// NormalizeToLakhs converts a raw (amount, unit) pair into the
// canonical lakh denomination. Amounts are assumed validated upstream
// (finite, non-negative); unrecognized units return the amount
// unchanged so that a bad row degrades rather than corrupts.
func NormalizeToLakhs(amount decimal.Decimal, unit domain.CurrencyUnit) decimal.Decimal {
	if unit == domain.UnitCrores {
		return amount.Mul(lakhsPerCrore)
	}
	return amount
}

// ToMonthly converts a lakh amount reported over a period into a
// monthly figure. Annual figures are divided by 12 without rounding;
// rounding is deferred to display formatting so precision loss does not
// compound across aggregation steps.
func ToMonthly(amountLakhs decimal.Decimal, period domain.ReportingPeriod) decimal.Decimal {
	if period == domain.PeriodAnnually {
		return amountLakhs.Div(monthsPerYear)
	}
	return amountLakhs
}
