package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"freight-rating/internal/core/config"
	"freight-rating/internal/core/httpclient"
	"freight-rating/internal/features/rating/domain"
)

// HTTPChannelProvider implements ports.ChannelProvider against the channel
// configuration API.
type HTTPChannelProvider struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// baseURL is the API root without a trailing slash.
	baseURL string
}

// NewHTTPChannelProvider creates a new HTTPChannelProvider.
func NewHTTPChannelProvider(cfg config.ChannelAPIConfig) *HTTPChannelProvider {
	return &HTTPChannelProvider{
		client:  httpclient.NewClient(cfg.RequestTimeout(), cfg.Token),
		baseURL: strings.TrimRight(cfg.URL, "/"),
	}
}

// GetChannel fetches one channel snapshot. Snapshots with an invalid tier set
// are rejected here so they never reach the engine.
func (p *HTTPChannelProvider) GetChannel(ctx context.Context, id string) (*domain.Channel, error) {
	var channel domain.Channel
	if err := p.get(ctx, "/channels/"+url.PathEscape(id), &channel); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrChannelNotFound, id)
		}
		return nil, err
	}

	if channel.ID == "" {
		channel.ID = id
	}
	if err := channel.Validate(); err != nil {
		return nil, fmt.Errorf("channel %s: %w", id, err)
	}

	return &channel, nil
}

// ListChannels fetches every channel snapshot. Invalid channels are dropped.
func (p *HTTPChannelProvider) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	var channels []domain.Channel
	if err := p.get(ctx, "/channels", &channels); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, errors.New("channel API has no /channels endpoint")
		}
		return nil, err
	}

	valid := channels[:0]
	for _, c := range channels {
		if c.Validate() == nil {
			valid = append(valid, c)
		}
	}
	return valid, nil
}

// HealthCheck verifies that the channel API is reachable and accepts the token.
func (p *HTTPChannelProvider) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/channels?limit=1", nil)
	if err != nil {
		return fmt.Errorf("health check failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}

	return nil
}

var errNotFound = errors.New("not found")

func (p *HTTPChannelProvider) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("channel API returned status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
