package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freight-rating/internal/core/cache"
	"freight-rating/internal/features/rating/domain"
	"freight-rating/internal/features/rating/ports"

	"go.uber.org/zap"
)

const channelKeyPrefix = "channel:"

// CachedChannelProvider decorates a ChannelProvider with a snapshot cache.
// Cache failures degrade to the upstream provider and never fail a lookup.
type CachedChannelProvider struct {
	upstream ports.ChannelProvider
	cache    cache.Cache
	ttl      time.Duration
	logger   *zap.Logger
}

// NewCachedChannelProvider creates a new CachedChannelProvider.
func NewCachedChannelProvider(upstream ports.ChannelProvider, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedChannelProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedChannelProvider{
		upstream: upstream,
		cache:    c,
		ttl:      ttl,
		logger:   logger,
	}
}

// GetChannel returns the cached snapshot, loading and storing it on a miss.
func (p *CachedChannelProvider) GetChannel(ctx context.Context, id string) (*domain.Channel, error) {
	key := channelKeyPrefix + id

	var cached domain.Channel
	err := cache.GetJSON(ctx, p.cache, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrKeyNotFound) {
		p.logger.Warn("Channel cache read failed", zap.String("channel_id", id), zap.Error(err))
	}

	channel, err := p.upstream.GetChannel(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, p.cache, key, channel, p.ttl); err != nil {
		p.logger.Warn("Channel cache write failed", zap.String("channel_id", id), zap.Error(err))
	}

	return channel, nil
}

// ListChannels is always served by the upstream provider.
func (p *CachedChannelProvider) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	return p.upstream.ListChannels(ctx)
}

// Invalidate drops the cached snapshot of a channel.
func (p *CachedChannelProvider) Invalidate(ctx context.Context, id string) error {
	if err := p.cache.Delete(ctx, channelKeyPrefix+id); err != nil {
		return fmt.Errorf("failed to invalidate channel %s: %w", id, err)
	}
	return nil
}
