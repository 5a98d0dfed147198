package engine

import (
	"math"

	"freight-rating/internal/features/rating/domain"

	"github.com/shopspring/decimal"
)

// moneyDecimals is the precision of every money field in a quote.
const moneyDecimals = 2

// RoundWeight reduces v to the given decimal places in mode. The value is
// converted through its shortest decimal representation, so 4.995 half-up at
// two places is 5.00 rather than the 4.99 binary floating point would give.
func RoundWeight(v float64, decimals int, mode domain.RoundingMode) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	d := decimal.NewFromFloat(v)
	places := int32(decimals)

	switch mode {
	case domain.RoundingCeiling:
		d = d.RoundCeil(places)
	case domain.RoundingFloor:
		d = d.RoundFloor(places)
	default:
		d = d.Round(places)
	}

	f, _ := d.Float64()
	return f
}

// RoundMoney rounds a money amount half-up to two decimals.
func RoundMoney(v float64) float64 {
	return RoundWeight(v, moneyDecimals, domain.RoundingHalfUp)
}
