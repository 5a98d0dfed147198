package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"freight-rating/internal/features/rating/domain"
	"freight-rating/internal/features/rating/engine"
	"freight-rating/internal/features/rating/expression"
	"freight-rating/internal/features/rating/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds batch and estimate fan-out when no limit is configured.
const DefaultWorkers = 8

// RatingServiceImpl implements ports.RatingService.
type RatingServiceImpl struct {
	channels    ports.ChannelProvider
	invalidator ports.ChannelInvalidator
	engine      *engine.Engine
	workers     int
	logger      *zap.Logger
}

// NewRatingService creates a new RatingServiceImpl. invalidator may be nil when
// channels are not cached.
func NewRatingService(channels ports.ChannelProvider, invalidator ports.ChannelInvalidator, eng *engine.Engine, workers int, logger *zap.Logger) *RatingServiceImpl {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingServiceImpl{
		channels:    channels,
		invalidator: invalidator,
		engine:      eng,
		workers:     workers,
		logger:      logger,
	}
}

// Quote rates one shipment on the named channel.
func (s *RatingServiceImpl) Quote(ctx context.Context, channelID string, shipment *domain.Shipment) (*domain.Quote, error) {
	channel, err := s.channel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	quote, err := s.engine.Rate(shipment, channel)
	if err != nil {
		return nil, fmt.Errorf("service: failed to rate shipment: %w", err)
	}
	return quote, nil
}

// Validate checks a shipment against the named channel without pricing it.
func (s *RatingServiceImpl) Validate(ctx context.Context, channelID string, shipment *domain.Shipment) ([]string, error) {
	channel, err := s.channel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return s.engine.Validate(shipment, channel), nil
}

// QuoteBatch rates every shipment against one channel snapshot. Shipments are
// independent: a failure is recorded on its item and never stops the others.
func (s *RatingServiceImpl) QuoteBatch(ctx context.Context, channelID string, shipments []domain.Shipment) ([]domain.BatchItem, error) {
	channel, err := s.channel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.BatchItem, len(shipments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range shipments {
		i := i
		g.Go(func() error {
			item := domain.BatchItem{Index: i, ShipmentID: shipments[i].ID}
			if err := gctx.Err(); err != nil {
				item.Error = err.Error()
				items[i] = item
				return nil
			}

			quote, err := s.engine.Rate(&shipments[i], channel)
			if err != nil {
				item.Error = err.Error()
				var verr *domain.ValidationError
				if errors.As(err, &verr) {
					item.Violations = verr.Violations
				}
			} else {
				item.Quote = quote
			}
			items[i] = item
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("service: batch cancelled: %w", err)
	}

	s.logger.Info("Batch rated",
		zap.String("channel_id", channelID),
		zap.Int("shipments", len(shipments)),
	)
	return items, nil
}

// Estimate rates the shipment on every channel serving the route and returns
// the quotes cheapest first. Channels that reject the shipment or cannot price
// it are left out.
func (s *RatingServiceImpl) Estimate(ctx context.Context, shipment *domain.Shipment, route domain.Route) ([]*domain.Quote, error) {
	all, err := s.channels.ListChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list channels: %w", err)
	}

	candidates := make([]*domain.Channel, 0, len(all))
	for i := range all {
		if all[i].ServesRoute(route.Country, route.Warehouse, route.Origin) {
			candidates = append(candidates, &all[i])
		}
	}

	results := make([]*domain.Quote, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, channel := range candidates {
		i, channel := i, channel
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			quote, err := s.engine.Rate(shipment, channel)
			if err == nil && quote.PricingMode == domain.PricingModeMinimum {
				err = fmt.Errorf("%w: channel %s does not price charge weight %v",
					domain.ErrNoApplicablePrice, channel.ID, quote.ChargeWeight)
			}
			if err != nil {
				s.logger.Debug("Channel skipped in estimate",
					zap.String("channel_id", channel.ID),
					zap.Error(err),
				)
				return nil
			}
			results[i] = quote
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("service: estimate cancelled: %w", err)
	}

	quotes := make([]*domain.Quote, 0, len(results))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, q)
		}
	}
	sort.SliceStable(quotes, func(a, b int) bool {
		return quotes[a].TotalCost < quotes[b].TotalCost
	})

	return quotes, nil
}

// EvaluateExpression runs a rule expression under the engine's evaluation policy.
func (s *RatingServiceImpl) EvaluateExpression(ctx context.Context, nodes []expression.Node, vars expression.Context) (expression.Result, error) {
	return s.engine.Evaluator().Evaluate(nodes, vars)
}

// InvalidateChannel drops the cached snapshot of a channel.
func (s *RatingServiceImpl) InvalidateChannel(ctx context.Context, channelID string) error {
	if s.invalidator == nil {
		return nil
	}
	if err := s.invalidator.Invalidate(ctx, channelID); err != nil {
		return fmt.Errorf("service: failed to invalidate channel %s: %w", channelID, err)
	}
	return nil
}

func (s *RatingServiceImpl) channel(ctx context.Context, channelID string) (*domain.Channel, error) {
	channel, err := s.channels.GetChannel(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get channel %s: %w", channelID, err)
	}
	return channel, nil
}
