package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
)

func TestFormatSavings(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		unit   domain.CurrencyUnit
		want   string
	}{
		{"whole lakhs", "45", domain.UnitLakhs, "45 L"},
		{"fractional lakhs floor", "45.9", domain.UnitLakhs, "45 L"},
		{"zero", "0", domain.UnitLakhs, "0"},
		{"crore display", "150", domain.UnitCrores, "1 Cr"},
		{"crore display floors", "299.9", domain.UnitCrores, "2 Cr"},
		{"sub-crore falls back to lakhs", "99", domain.UnitCrores, "99 L"},
		{"exactly one crore", "100", domain.UnitCrores, "1 Cr"},
		{"lakh display of large amount", "250", domain.UnitLakhs, "250 L"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decimal.RequireFromString(tt.amount)
			assert.Equal(t, tt.want, FormatSavings(&d, tt.unit))
		})
	}
}

func TestFormatSavingsNil(t *testing.T) {
	assert.Equal(t, "0", FormatSavings(nil, domain.UnitLakhs))
	assert.Equal(t, "0", FormatSavings(nil, domain.UnitCrores))
}
