package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"freight-rating/internal/core/config"
	"freight-rating/internal/features/rating/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const channelJSON = `{
	"id": "air-us",
	"name": "Air Express US",
	"currency": "USD",
	"country": "US",
	"volRatio": 6000,
	"chargeMethod": "泡重",
	"compareMode": "compare_then_round",
	"rounding": "ceil",
	"ticketPrecision": 1,
	"minCharge": 80,
	"maxPieces": 10,
	"requirePhone": true,
	"rates": [
		{"minWeight": 0, "maxWeight": 30, "weightType": "KG", "baseRate": 130, "priority": 1}
	],
	"extraFeeRules": [
		{
			"id": "heavy",
			"name": "Heavy parcel",
			"feeType": "perKg",
			"value": 2,
			"expression": [
				{"type": "field", "value": "weight"},
				{"type": "operator", "value": ">"},
				{"type": "value", "value": 20}
			]
		}
	]
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) *HTTPChannelProvider {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewHTTPChannelProvider(config.ChannelAPIConfig{
		URL:     server.URL + "/",
		Token:   "tok_test",
		Timeout: 2,
	})
}

// TestHTTPChannelProvider_GetChannel_Success verifies fetching and decoding a channel.
func TestHTTPChannelProvider_GetChannel_Success(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels/air-us", r.URL.Path)
		assert.Equal(t, "Bearer tok_test", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(channelJSON))
	})

	channel, err := provider.GetChannel(context.Background(), "air-us")

	require.NoError(t, err)
	assert.Equal(t, "Air Express US", channel.Name)
	assert.Equal(t, domain.ChargeMethodVolumetric, channel.Method())
	assert.Equal(t, domain.CompareModeCompareThenRound, channel.Compare())
	assert.Equal(t, domain.RoundingCeiling, channel.RoundingMode())
	assert.Equal(t, 1, channel.TicketDecimals())
	assert.Equal(t, 10, channel.MaxPieces)
	assert.True(t, channel.RequirePhone)
	require.Len(t, channel.Rates, 1)
	require.Len(t, channel.ExtraFeeRules, 1)
	assert.Len(t, channel.ExtraFeeRules[0].Expression, 3)
}

// TestHTTPChannelProvider_GetChannel_NotFound verifies 404 mapping.
func TestHTTPChannelProvider_GetChannel_NotFound(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := provider.GetChannel(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrChannelNotFound)
	assert.Contains(t, err.Error(), "ghost")
}

// TestHTTPChannelProvider_GetChannel_InvalidTiers verifies that a bad tier set is rejected.
func TestHTTPChannelProvider_GetChannel_InvalidTiers(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"bad","rates":[{"minWeight":10,"maxWeight":1,"baseRate":1,"priority":1}]}`))
	})

	_, err := provider.GetChannel(context.Background(), "bad")

	assert.ErrorIs(t, err, domain.ErrInvalidChannel)
}

// TestHTTPChannelProvider_GetChannel_ServerError verifies non-200 handling.
func TestHTTPChannelProvider_GetChannel_ServerError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := provider.GetChannel(context.Background(), "air-us")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.NotErrorIs(t, err, domain.ErrChannelNotFound)
}

// TestHTTPChannelProvider_GetChannel_BadJSON verifies decode failures.
func TestHTTPChannelProvider_GetChannel_BadJSON(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":`))
	})

	_, err := provider.GetChannel(context.Background(), "air-us")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

// TestHTTPChannelProvider_ListChannels verifies that invalid channels are dropped.
func TestHTTPChannelProvider_ListChannels(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels", r.URL.Path)
		w.Write([]byte(`[
			{"id":"a","rates":[{"minWeight":0,"maxWeight":10,"baseRate":1,"priority":1}]},
			{"id":"b","rates":[{"minWeight":9,"maxWeight":1,"baseRate":1,"priority":1}]},
			{"id":"c","chargePrice":5}
		]`))
	})

	channels, err := provider.ListChannels(context.Background())

	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "a", channels[0].ID)
	assert.Equal(t, "c", channels[1].ID)
}

// TestHTTPChannelProvider_HealthCheck verifies the health probe.
func TestHTTPChannelProvider_HealthCheck(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			w.Write([]byte(`[]`))
		})
		assert.NoError(t, provider.HealthCheck(context.Background()))
	})

	t.Run("Unauthorized", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		err := provider.HealthCheck(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}
