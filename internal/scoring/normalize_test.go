package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
)

func TestNormalizeToLakhs(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		unit   domain.CurrencyUnit
		want   string
	}{
		{"lakhs pass through", "45.5", domain.UnitLakhs, "45.5"},
		{"crores scale by 100", "2", domain.UnitCrores, "200"},
		{"fractional crores", "0.16", domain.UnitCrores, "16"},
		{"zero", "0", domain.UnitCrores, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeToLakhs(decimal.RequireFromString(tt.amount), tt.unit)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestToMonthly(t *testing.T) {
	monthly := ToMonthly(decimal.NewFromInt(120), domain.PeriodMonthly)
	assert.True(t, monthly.Equal(decimal.NewFromInt(120)))

	annual := ToMonthly(decimal.NewFromInt(120), domain.PeriodAnnually)
	assert.True(t, annual.Equal(decimal.NewFromInt(10)))
}

func TestToMonthlyKeepsPrecision(t *testing.T) {
	// 2 crores reported annually: 200 lakhs over 12 months. The monthly
	// figure must stay above 16 so the tier lookup is not distorted by
	// premature rounding.
	annual := NormalizeToLakhs(decimal.NewFromInt(2), domain.UnitCrores)
	monthly := ToMonthly(annual, domain.PeriodAnnually)

	require.True(t, monthly.GreaterThan(decimal.NewFromInt(16)))
	require.True(t, monthly.LessThan(decimal.NewFromInt(17)))

	// Summed back over the year the error stays under a rupee.
	sum := monthly.Mul(decimal.NewFromInt(12))
	diff := sum.Sub(annual).Abs()
	assert.True(t, diff.LessThan(decimal.RequireFromString("0.00001")), "diff %s", diff)
}
