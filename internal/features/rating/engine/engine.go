// Package engine rates a shipment on a channel: volumetric measures, charge
// weight, tier or flat base freight, extra fees and the final breakdown.
// Every call is a pure function of its inputs; an Engine is safe for
// concurrent use.
package engine

import (
	"fmt"
	"time"

	"freight-rating/internal/features/rating/domain"
	"freight-rating/internal/features/rating/expression"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds the service-wide defaults a channel may leave unset.
type Config struct {
	DefaultCurrency    string
	DefaultVolRatio    float64
	MaxExpressionDepth int
}

// Engine is the rating orchestrator.
type Engine struct {
	cfg       Config
	evaluator *expression.Evaluator
	fees      *Accumulator
	logger    *zap.Logger
	now       func() time.Time
}

// New creates an Engine. Zero config values fall back to package defaults.
func New(cfg Config, logger *zap.Logger) *Engine {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = domain.DefaultCurrency
	}
	if cfg.DefaultVolRatio <= 0 {
		cfg.DefaultVolRatio = DefaultVolRatio
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	policy := expression.FailOpen
	if cfg.MaxExpressionDepth > 0 {
		policy.MaxDepth = cfg.MaxExpressionDepth
	}
	evaluator := expression.NewEvaluator(policy)

	return &Engine{
		cfg:       cfg,
		evaluator: evaluator,
		fees:      NewAccumulator(evaluator, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// Evaluator exposes the engine's expression evaluator, configured with the
// same depth cap the extra-fee rules run under.
func (e *Engine) Evaluator() *expression.Evaluator {
	return e.evaluator
}

// Validate runs the constraint checks only. A nil channel has no constraints.
func (e *Engine) Validate(shipment *domain.Shipment, channel *domain.Channel) []string {
	if channel == nil {
		return nil
	}
	if shipment == nil {
		shipment = &domain.Shipment{}
	}
	return Validate(shipment, channel)
}

// Rate produces the cost breakdown of shipment on channel. It returns a
// *domain.ValidationError when the shipment breaks the channel's constraints
// and a configuration error when the channel's tiers are malformed. A
// shipment no tier or flat price covers is billed the minimum charge.
func (e *Engine) Rate(shipment *domain.Shipment, channel *domain.Channel) (*domain.Quote, error) {
	if channel == nil {
		return nil, fmt.Errorf("%w: no channel supplied", domain.ErrChannelNotFound)
	}
	if err := channel.Validate(); err != nil {
		return nil, fmt.Errorf("channel %s: %w", channel.ID, err)
	}
	if shipment == nil {
		shipment = &domain.Shipment{}
	}

	if violations := Validate(shipment, channel); len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	boxes := shipment.MeasuredBoxes()
	ratio := e.volRatio(channel)
	ticket := TicketPolicy(channel)

	m := Measures{
		ActualWeight:     shipment.TotalWeight(),
		Volume:           Volume(boxes),
		VolumetricWeight: VolumetricWeight(boxes, ratio),
	}
	m.ChargeWeight = ResolveChargeWeight(m.ActualWeight, m.VolumetricWeight, ticket)

	freight := e.price(channel, boxes, m, ticket)

	ctx := BuildContext(shipment, boxes, Measures{
		ActualWeight:     m.ActualWeight,
		Volume:           m.Volume,
		VolumetricWeight: m.VolumetricWeight,
		ChargeWeight:     freight.ChargeWeight,
	})
	extra, lines := e.fees.Accumulate(channel.ExtraFeeRules, ctx, e.now())
	for i := range lines {
		lines[i].Amount = RoundMoney(lines[i].Amount)
	}

	currency := channel.Currency
	if currency == "" {
		currency = e.cfg.DefaultCurrency
	}

	quote := &domain.Quote{
		ID:               uuid.NewString(),
		ShipmentID:       shipment.ID,
		ChannelID:        channel.ID,
		ChannelName:      channel.Name,
		Currency:         currency,
		FreightCost:      RoundMoney(freight.Total),
		ExtraFee:         RoundMoney(extra),
		TotalCost:        RoundMoney(freight.Total + extra),
		ChargeWeight:     freight.ChargeWeight,
		ActualWeight:     m.ActualWeight,
		Volume:           RoundWeight(m.Volume, channel.SizeDecimals(), domain.RoundingHalfUp),
		VolumetricWeight: RoundWeight(m.VolumetricWeight, channel.TicketDecimals(), domain.RoundingHalfUp),
		PricingMode:      freight.Mode,
		Tier:             freight.Tier,
		Base:             RoundMoney(freight.Base),
		Tax:              RoundMoney(freight.Tax),
		TierExtraFee:     RoundMoney(freight.TierExtraFee),
		OtherFee:         RoundMoney(freight.OtherFee),
		Fees:             lines,
		Boxes:            e.boxCharges(channel, boxes, ratio),
	}

	e.logger.Debug("Shipment rated",
		zap.String("shipment_id", shipment.ID),
		zap.String("channel_id", channel.ID),
		zap.Float64("charge_weight", quote.ChargeWeight),
		zap.Float64("total_cost", quote.TotalCost),
	)

	return quote, nil
}

// price selects a tier for the charge weight, or falls back to the flat price
// and finally to the minimum charge.
func (e *Engine) price(channel *domain.Channel, boxes []domain.Box, m Measures, ticket WeightPolicy) Freight {
	chargeWeight := m.ChargeWeight

	tier, ok := SelectTier(channel.Rates, chargeWeight)
	if ok {
		billable := chargeWeight
		switch {
		case tier.Unit() == domain.UnitCBM:
			billable = RoundWeight(m.Volume, channel.SizeDecimals(), channel.RoundingMode())
		case tier.Divisor > 0 && tier.Divisor != e.volRatio(channel):
			volumetric := VolumetricWeight(boxes, tier.Divisor)
			chargeWeight = ResolveChargeWeight(m.ActualWeight, volumetric, ticket)
			billable = chargeWeight
		}

		f := PriceTier(tier, billable)
		f.ChargeWeight = chargeWeight
		return f.ApplyMinCharge(channel.MinCharge)
	}

	if channel.ChargePrice > 0 {
		billable := chargeWeight
		if channel.Unit() == domain.UnitCBM {
			billable = RoundWeight(m.Volume, channel.SizeDecimals(), channel.RoundingMode())
		}
		f := PriceFlat(channel.ChargePrice, billable)
		f.ChargeWeight = chargeWeight
		return f.ApplyMinCharge(channel.MinCharge)
	}

	f := PriceMinimum(channel.MinCharge)
	f.ChargeWeight = chargeWeight
	return f
}

func (e *Engine) boxCharges(channel *domain.Channel, boxes []domain.Box, ratio float64) []domain.BoxCharge {
	policy := BoxPolicy(channel)
	charges := make([]domain.BoxCharge, 0, len(boxes))
	for _, b := range boxes {
		volumetric := BoxVolumetricWeight(b, ratio)
		charges = append(charges, domain.BoxCharge{
			Code:             b.Code,
			Volume:           RoundWeight(BoxVolume(b), channel.SizeDecimals(), domain.RoundingHalfUp),
			VolumetricWeight: RoundWeight(volumetric, policy.Decimals, domain.RoundingHalfUp),
			ChargeWeight:     ResolveChargeWeight(b.Weight, volumetric, policy),
		})
	}
	return charges
}

func (e *Engine) volRatio(channel *domain.Channel) float64 {
	if channel.VolRatio > 0 {
		return channel.VolRatio
	}
	return e.cfg.DefaultVolRatio
}
