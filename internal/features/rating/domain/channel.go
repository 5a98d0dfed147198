package domain

import (
	"fmt"
	"strings"
	"time"

	"freight-rating/internal/features/rating/expression"
)

// ChargeMethod selects which weight a channel bills on.
type ChargeMethod string

const (
	// ChargeMethodActual bills the scale weight.
	ChargeMethodActual ChargeMethod = "actual"
	// ChargeMethodVolumetric bills the dimensional weight.
	ChargeMethodVolumetric ChargeMethod = "volumetric"
	// ChargeMethodGreaterOf bills whichever of the two is heavier.
	ChargeMethodGreaterOf ChargeMethod = "greater-of"
)

// ParseChargeMethod normalises a stored charge method. Legacy channel exports
// carry the labels 实重, 泡重 and 综合. Unknown or empty values mean greater-of.
func ParseChargeMethod(s string) ChargeMethod {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "actual", "实重":
		return ChargeMethodActual
	case "volumetric", "泡重":
		return ChargeMethodVolumetric
	default:
		return ChargeMethodGreaterOf
	}
}

// CompareMode orders rounding against clamping to a charge-weight envelope.
type CompareMode string

const (
	// CompareModeRoundThenCompare rounds first, then clamps.
	CompareModeRoundThenCompare CompareMode = "round_then_compare"
	// CompareModeCompareThenRound clamps first, then rounds.
	CompareModeCompareThenRound CompareMode = "compare_then_round"
)

// ParseCompareMode normalises a stored compare mode, defaulting to round_then_compare.
func ParseCompareMode(s string) CompareMode {
	if CompareMode(strings.ToLower(strings.TrimSpace(s))) == CompareModeCompareThenRound {
		return CompareModeCompareThenRound
	}
	return CompareModeRoundThenCompare
}

// RoundingMode is the direction used when reducing a weight to its precision.
type RoundingMode string

const (
	RoundingHalfUp  RoundingMode = "half-up"
	RoundingCeiling RoundingMode = "ceiling"
	RoundingFloor   RoundingMode = "floor"
)

// ParseRoundingMode normalises a stored rounding mode, defaulting to half-up.
func ParseRoundingMode(s string) RoundingMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ceiling", "ceil", "up", "向上取整":
		return RoundingCeiling
	case "floor", "down", "向下取整":
		return RoundingFloor
	default:
		return RoundingHalfUp
	}
}

// UnitType is what a price is quoted against.
type UnitType string

const (
	UnitKG  UnitType = "KG"
	UnitCBM UnitType = "CBM"
)

// ParseUnitType normalises a unit, defaulting to KG.
func ParseUnitType(s string) UnitType {
	if UnitType(strings.ToUpper(strings.TrimSpace(s))) == UnitCBM {
		return UnitCBM
	}
	return UnitKG
}

// Default decimal places applied when a channel leaves a precision unset.
const (
	DefaultWeightPrecision = 2
	DefaultSizePrecision   = 4
)

// Channel is an immutable pricing snapshot handed to the engine per rating call.
type Channel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	Country   string `json:"country,omitempty"`
	Warehouse string `json:"warehouse,omitempty"`
	Origin    string `json:"origin,omitempty"`

	VolRatio     float64 `json:"volRatio"`
	ChargeMethod string  `json:"chargeMethod"`
	CompareMode  string  `json:"compareMode"`
	Rounding     string  `json:"rounding"`
	UnitType     string  `json:"unitType"`
	ChargePrice  float64 `json:"chargePrice"`
	MinCharge    float64 `json:"minCharge"`

	// Decimal places; nil means the package default.
	TicketPrecision *int `json:"ticketPrecision,omitempty"`
	BoxPrecision    *int `json:"boxPrecision,omitempty"`
	SizePrecision   *int `json:"sizePrecision,omitempty"`

	Rates         []RateTier     `json:"rates"`
	ExtraFeeRules []ExtraFeeRule `json:"extraFeeRules"`

	Constraints
}

// Constraints is the envelope a shipment must fit before the channel rates it.
// A zero bound is disabled.
type Constraints struct {
	MinPieces             int     `json:"minPieces,omitempty"`
	MaxPieces             int     `json:"maxPieces,omitempty"`
	MinBoxRealWeight      float64 `json:"minBoxRealWeight,omitempty"`
	MaxBoxRealWeight      float64 `json:"maxBoxRealWeight,omitempty"`
	MinBoxChargeWeight    float64 `json:"minBoxChargeWeight,omitempty"`
	MaxBoxChargeWeight    float64 `json:"maxBoxChargeWeight,omitempty"`
	MinBoxAvgWeight       float64 `json:"minBoxAvgWeight,omitempty"`
	MinTicketRealWeight   float64 `json:"minTicketRealWeight,omitempty"`
	MaxTicketRealWeight   float64 `json:"maxTicketRealWeight,omitempty"`
	MinTicketChargeWeight float64 `json:"minTicketChargeWeight,omitempty"`
	MaxTicketChargeWeight float64 `json:"maxTicketChargeWeight,omitempty"`
	MinDeclareValue       float64 `json:"minDeclareValue,omitempty"`
	MaxDeclareValue       float64 `json:"maxDeclareValue,omitempty"`
	RequirePhone          bool    `json:"requirePhone,omitempty"`
	RequireEmail          bool    `json:"requireEmail,omitempty"`
	RequireWeight         bool    `json:"requireWeight,omitempty"`
	RequireSize           bool    `json:"requireSize,omitempty"`
}

// RateTier is a weight-range-bound price row. Lower Priority wins on overlap.
type RateTier struct {
	MinWeight  float64 `json:"minWeight"`
	MaxWeight  float64 `json:"maxWeight"`
	WeightType string  `json:"weightType"`
	Divisor    float64 `json:"divisor,omitempty"`
	BaseRate   float64 `json:"baseRate"`
	TaxRate    float64 `json:"taxRate,omitempty"`
	ExtraFee   float64 `json:"extraFee,omitempty"`
	OtherFee   float64 `json:"otherFee,omitempty"`
	Priority   int     `json:"priority"`
}

// Matches reports whether weight falls inside the tier's closed range.
func (t RateTier) Matches(weight float64) bool {
	return t.MinWeight <= weight && weight <= t.MaxWeight
}

// Unit returns the tier's weight type, defaulting to KG.
func (t RateTier) Unit() UnitType {
	return ParseUnitType(t.WeightType)
}

// FeeType selects how a fired extra-fee rule is priced.
type FeeType string

const (
	// FeeTypeFixed charges Value once.
	FeeTypeFixed FeeType = "fixed"
	// FeeTypePerKg charges Value for every kilogram of actual weight.
	FeeTypePerKg FeeType = "perKg"
	// FeeTypePercent charges Value percent of the declared value.
	FeeTypePercent FeeType = "percent"
)

// RangeParams is the field-range shortcut used by dimension surcharges.
type RangeParams struct {
	Field string   `json:"field"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Price float64  `json:"price"`
}

// ExtraFeeRule is a conditional surcharge.
type ExtraFeeRule struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	FeeType    FeeType           `json:"feeType"`
	Value      float64           `json:"value"`
	Currency   string            `json:"currency,omitempty"`
	Expression []expression.Node `json:"expression"`
	ActiveFrom *time.Time        `json:"activeFrom,omitempty"`
	ActiveTo   *time.Time        `json:"activeTo,omitempty"`
	Params     *RangeParams      `json:"params,omitempty"`
}

// ActiveAt reports whether at falls inside the rule's optional window.
func (r ExtraFeeRule) ActiveAt(at time.Time) bool {
	if r.ActiveFrom != nil && at.Before(*r.ActiveFrom) {
		return false
	}
	if r.ActiveTo != nil && at.After(*r.ActiveTo) {
		return false
	}
	return true
}

// Method returns the parsed charge method.
func (c *Channel) Method() ChargeMethod { return ParseChargeMethod(c.ChargeMethod) }

// Compare returns the parsed compare mode.
func (c *Channel) Compare() CompareMode { return ParseCompareMode(c.CompareMode) }

// RoundingMode returns the parsed rounding mode.
func (c *Channel) RoundingMode() RoundingMode { return ParseRoundingMode(c.Rounding) }

// Unit returns the parsed unit type.
func (c *Channel) Unit() UnitType { return ParseUnitType(c.UnitType) }

// TicketDecimals is the precision of the billed charge weight.
func (c *Channel) TicketDecimals() int { return decimalsOr(c.TicketPrecision, DefaultWeightPrecision) }

// BoxDecimals is the precision of per-box charge weights.
func (c *Channel) BoxDecimals() int { return decimalsOr(c.BoxPrecision, DefaultWeightPrecision) }

// SizeDecimals is the precision of reported and billed volume.
func (c *Channel) SizeDecimals() int { return decimalsOr(c.SizePrecision, DefaultSizePrecision) }

func decimalsOr(p *int, def int) int {
	if p == nil || *p < 0 {
		return def
	}
	return *p
}

// ServesRoute reports whether the channel applies to a destination. An empty
// channel field is a wildcard; an empty query value only matches wildcards.
func (c *Channel) ServesRoute(country, warehouse, origin string) bool {
	return routeMatch(c.Country, country) &&
		routeMatch(c.Warehouse, warehouse) &&
		routeMatch(c.Origin, origin)
}

func routeMatch(channelValue, query string) bool {
	if channelValue == "" {
		return true
	}
	return strings.EqualFold(channelValue, query)
}

// Validate checks the structural invariants of the snapshot.
func (c *Channel) Validate() error {
	return validateRates(c.Rates)
}

// WithRates returns a copy of the channel whose tier list is replaced by rates.
// The whole set is validated first; on error the receiver is left untouched
// and no copy is produced. There is no partial tier update.
func (c *Channel) WithRates(rates []RateTier) (*Channel, error) {
	if err := validateRates(rates); err != nil {
		return nil, err
	}
	next := *c
	next.Rates = append([]RateTier(nil), rates...)
	return &next, nil
}

func validateRates(rates []RateTier) error {
	for i, r := range rates {
		if r.MinWeight > r.MaxWeight {
			return fmt.Errorf("%w: tier %d has minWeight %.4g above maxWeight %.4g", ErrInvalidChannel, i, r.MinWeight, r.MaxWeight)
		}
		if r.Divisor < 0 {
			return fmt.Errorf("%w: tier %d has negative divisor", ErrInvalidChannel, i)
		}
	}
	return nil
}
