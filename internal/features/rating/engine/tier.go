package engine

import (
	"math"

	"freight-rating/internal/features/rating/domain"
)

// SelectTier returns the matching tier with the lowest priority value.
// Tiers sharing a priority resolve to the earlier one in the list.
func SelectTier(tiers []domain.RateTier, weight float64) (domain.RateTier, bool) {
	best := -1
	for i, t := range tiers {
		if !t.Matches(weight) {
			continue
		}
		if best < 0 || t.Priority < tiers[best].Priority {
			best = i
		}
	}
	if best < 0 {
		return domain.RateTier{}, false
	}
	return tiers[best], true
}

// Freight is the unrounded base freight of a shipment.
type Freight struct {
	Mode         domain.PricingMode
	Tier         *domain.RateTier
	ChargeWeight float64
	Base         float64
	Tax          float64
	TierExtraFee float64
	OtherFee     float64
	Total        float64
}

// PriceTier prices billable units (kg or m³) on a tier.
func PriceTier(t domain.RateTier, billable float64) Freight {
	base := billable * t.BaseRate
	tax := t.TaxRate / 100 * base
	tier := t
	return Freight{
		Mode:         domain.PricingModeTier,
		Tier:         &tier,
		Base:         base,
		Tax:          tax,
		TierExtraFee: t.ExtraFee,
		OtherFee:     t.OtherFee,
		Total:        base + tax + t.ExtraFee + t.OtherFee,
	}
}

// PriceFlat prices billable units on the channel's flat charge price.
func PriceFlat(price, billable float64) Freight {
	base := billable * price
	return Freight{
		Mode:  domain.PricingModeFlat,
		Base:  base,
		Total: base,
	}
}

// PriceMinimum is the freight of a shipment nothing else prices: the
// channel minimum, or zero.
func PriceMinimum(minCharge float64) Freight {
	return Freight{Mode: domain.PricingModeMinimum}.ApplyMinCharge(minCharge)
}

// ApplyMinCharge floors the freight total at the channel minimum.
func (f Freight) ApplyMinCharge(minCharge float64) Freight {
	f.Total = math.Max(f.Total, math.Max(0, minCharge))
	return f
}
