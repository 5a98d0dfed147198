package engine

import (
	"fmt"
	"math"
	"time"

	"freight-rating/internal/features/rating/domain"
	"freight-rating/internal/features/rating/expression"

	"go.uber.org/zap"
)

// Field names available to extra-fee expressions.
const (
	FieldWeight            = "weight"
	FieldVolume            = "volume"
	FieldVolumetricWeight  = "volumetricWeight"
	FieldChargeWeight      = "chargeWeight"
	FieldBoxCount          = "boxCount"
	FieldDeclareValue      = "declareValue"
	FieldLength            = "length"
	FieldWidth             = "width"
	FieldHeight            = "height"
	FieldLongestSide       = "longest_side"
	FieldSecondLongestSide = "second_longest_side"
	FieldDimensionSum      = "dimension_sum"
)

// rangeFields are the fields a rule's Params range shortcut may test.
var rangeFields = map[string]bool{
	FieldLongestSide:       true,
	FieldSecondLongestSide: true,
	FieldDimensionSum:      true,
}

// Measures are the derived quantities of a shipment.
type Measures struct {
	ActualWeight     float64
	Volume           float64
	VolumetricWeight float64
	ChargeWeight     float64
}

// BuildContext flattens a shipment and its measures into expression fields.
// Per-box dimensions report the largest value across boxes.
func BuildContext(s *domain.Shipment, boxes []domain.Box, m Measures) expression.Context {
	ctx := expression.Context{
		FieldWeight:           m.ActualWeight,
		FieldVolume:           m.Volume,
		FieldVolumetricWeight: m.VolumetricWeight,
		FieldChargeWeight:     m.ChargeWeight,
		FieldBoxCount:         float64(s.Pieces()),
		FieldDeclareValue:     s.DeclareValue,
	}

	var length, width, height, longest, second, sum float64
	for _, b := range boxes {
		length = math.Max(length, b.Length)
		width = math.Max(width, b.Width)
		height = math.Max(height, b.Height)
		longest = math.Max(longest, b.LongestSide())
		second = math.Max(second, b.SecondLongestSide())
		sum = math.Max(sum, b.DimensionSum())
	}
	ctx[FieldLength] = length
	ctx[FieldWidth] = width
	ctx[FieldHeight] = height
	ctx[FieldLongestSide] = longest
	ctx[FieldSecondLongestSide] = second
	ctx[FieldDimensionSum] = sum
	return ctx
}

// Accumulator sums the extra-fee rules that fire for a shipment.
type Accumulator struct {
	evaluator *expression.Evaluator
	logger    *zap.Logger
}

// NewAccumulator creates an Accumulator.
func NewAccumulator(evaluator *expression.Evaluator, logger *zap.Logger) *Accumulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accumulator{evaluator: evaluator, logger: logger}
}

// Accumulate evaluates rules in order and returns the unrounded total with one
// line per fired rule. A rule that cannot be evaluated is logged and skipped;
// it never fails the quote.
func (a *Accumulator) Accumulate(rules []domain.ExtraFeeRule, ctx expression.Context, at time.Time) (float64, []domain.FeeLine) {
	var total float64
	lines := make([]domain.FeeLine, 0)

	for _, rule := range rules {
		if !rule.ActiveAt(at) {
			continue
		}

		amount, fired, err := a.apply(rule, ctx)
		if err != nil {
			a.logger.Warn("Skipping extra fee rule",
				zap.String("rule_id", rule.ID),
				zap.String("rule_name", rule.Name),
				zap.Error(err),
			)
			continue
		}
		if !fired {
			continue
		}

		total += amount
		lines = append(lines, domain.FeeLine{
			RuleID:   rule.ID,
			Name:     rule.Name,
			FeeType:  rule.FeeType,
			Currency: rule.Currency,
			Amount:   amount,
		})
	}

	return total, lines
}

func (a *Accumulator) apply(rule domain.ExtraFeeRule, ctx expression.Context) (float64, bool, error) {
	if p := rule.Params; p != nil && rangeFields[p.Field] {
		return rangeFee(p, ctx)
	}

	if len(rule.Expression) > 0 {
		result, err := a.evaluator.Evaluate(rule.Expression, ctx)
		if err != nil {
			return 0, false, fmt.Errorf("evaluate %q: %w", expression.Describe(rule.Expression), err)
		}
		if !result.Truthy() {
			return 0, false, nil
		}
	}

	var amount float64
	switch rule.FeeType {
	case domain.FeeTypeFixed:
		amount = rule.Value
	case domain.FeeTypePerKg:
		amount = rule.Value * ctx[FieldWeight]
	case domain.FeeTypePercent:
		amount = rule.Value / 100 * ctx[FieldDeclareValue]
	default:
		return 0, false, fmt.Errorf("unknown fee type %q", rule.FeeType)
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, false, fmt.Errorf("fee amount is not finite")
	}
	return amount, true, nil
}

// rangeFee charges Price per box when the field lies in [Min, Max]. A nil
// bound is open, as is a Max of zero or less.
func rangeFee(p *domain.RangeParams, ctx expression.Context) (float64, bool, error) {
	v := ctx[p.Field]
	if p.Min != nil && v < *p.Min {
		return 0, false, nil
	}
	if p.Max != nil && *p.Max > 0 && v > *p.Max {
		return 0, false, nil
	}

	boxes := ctx[FieldBoxCount]
	if boxes <= 0 {
		boxes = 1
	}
	return p.Price * boxes, true, nil
}
