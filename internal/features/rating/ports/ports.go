package ports

import (
	"context"

	"freight-rating/internal/features/rating/domain"
	"freight-rating/internal/features/rating/expression"
)

// RatingService defines the primary port for rating operations.
type RatingService interface {
	Quote(ctx context.Context, channelID string, shipment *domain.Shipment) (*domain.Quote, error)
	Validate(ctx context.Context, channelID string, shipment *domain.Shipment) ([]string, error)
	QuoteBatch(ctx context.Context, channelID string, shipments []domain.Shipment) ([]domain.BatchItem, error)
	Estimate(ctx context.Context, shipment *domain.Shipment, route domain.Route) ([]*domain.Quote, error)
	EvaluateExpression(ctx context.Context, nodes []expression.Node, vars expression.Context) (expression.Result, error)
	InvalidateChannel(ctx context.Context, channelID string) error
}

// ChannelProvider defines the secondary port supplying channel snapshots.
type ChannelProvider interface {
	GetChannel(ctx context.Context, id string) (*domain.Channel, error)
	ListChannels(ctx context.Context) ([]domain.Channel, error)
}

// ChannelInvalidator drops a cached channel snapshot.
type ChannelInvalidator interface {
	Invalidate(ctx context.Context, id string) error
}
