package engine

import (
	"math"

	"freight-rating/internal/features/rating/domain"
)

// Envelope bounds a charge weight. A zero bound is open.
type Envelope struct {
	Min float64
	Max float64
}

// Intersect narrows e to the bounds it shares with o.
func (e Envelope) Intersect(o Envelope) Envelope {
	if o.Min > 0 && o.Min > e.Min {
		e.Min = o.Min
	}
	if o.Max > 0 && (e.Max <= 0 || o.Max < e.Max) {
		e.Max = o.Max
	}
	return e
}

// Clamp pulls v inside the envelope.
func (e Envelope) Clamp(v float64) float64 {
	if e.Min > 0 && v < e.Min {
		v = e.Min
	}
	if e.Max > 0 && v > e.Max {
		v = e.Max
	}
	return v
}

// WeightPolicy is everything needed to turn actual and volumetric weight into a
// billable weight at one level (ticket or box).
type WeightPolicy struct {
	Method   domain.ChargeMethod
	Compare  domain.CompareMode
	Rounding domain.RoundingMode
	Decimals int
	Envelope Envelope
}

// TicketPolicy is the whole-shipment policy of a channel. The billed weight
// must fit both the ticket and the box charge-weight bounds.
func TicketPolicy(c *domain.Channel) WeightPolicy {
	ticket := Envelope{Min: c.MinTicketChargeWeight, Max: c.MaxTicketChargeWeight}
	return WeightPolicy{
		Method:   c.Method(),
		Compare:  c.Compare(),
		Rounding: c.RoundingMode(),
		Decimals: c.TicketDecimals(),
		Envelope: ticket.Intersect(Envelope{Min: c.MinBoxChargeWeight, Max: c.MaxBoxChargeWeight}),
	}
}

// BoxPolicy is the per-box policy of a channel.
func BoxPolicy(c *domain.Channel) WeightPolicy {
	return WeightPolicy{
		Method:   c.Method(),
		Compare:  c.Compare(),
		Rounding: c.RoundingMode(),
		Decimals: c.BoxDecimals(),
		Envelope: Envelope{Min: c.MinBoxChargeWeight, Max: c.MaxBoxChargeWeight},
	}
}

// RawChargeWeight picks the weight the method bills on, before any rounding.
func RawChargeWeight(actual, volumetric float64, method domain.ChargeMethod) float64 {
	switch method {
	case domain.ChargeMethodActual:
		return actual
	case domain.ChargeMethodVolumetric:
		return volumetric
	default:
		return math.Max(actual, volumetric)
	}
}

// RoundThenCompare rounds raw to its precision and then clamps it to env.
func RoundThenCompare(raw float64, decimals int, mode domain.RoundingMode, env Envelope) float64 {
	return env.Clamp(RoundWeight(raw, decimals, mode))
}

// CompareThenRound clamps raw to env and then rounds it to its precision.
func CompareThenRound(raw float64, decimals int, mode domain.RoundingMode, env Envelope) float64 {
	return RoundWeight(env.Clamp(raw), decimals, mode)
}

// ResolveChargeWeight applies p to the two weights. The result is never negative.
func ResolveChargeWeight(actual, volumetric float64, p WeightPolicy) float64 {
	raw := RawChargeWeight(actual, volumetric, p.Method)

	var v float64
	if p.Compare == domain.CompareModeCompareThenRound {
		v = CompareThenRound(raw, p.Decimals, p.Rounding, p.Envelope)
	} else {
		v = RoundThenCompare(raw, p.Decimals, p.Rounding, p.Envelope)
	}

	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
