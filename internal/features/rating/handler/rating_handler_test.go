package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"freight-rating/internal/features/rating/domain"
	"freight-rating/internal/features/rating/expression"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRatingService is a mock implementation of ports.RatingService
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Quote(ctx context.Context, channelID string, shipment *domain.Shipment) (*domain.Quote, error) {
	args := m.Called(ctx, channelID, shipment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockRatingService) Validate(ctx context.Context, channelID string, shipment *domain.Shipment) ([]string, error) {
	args := m.Called(ctx, channelID, shipment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRatingService) QuoteBatch(ctx context.Context, channelID string, shipments []domain.Shipment) ([]domain.BatchItem, error) {
	args := m.Called(ctx, channelID, shipments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchItem), args.Error(1)
}

func (m *MockRatingService) Estimate(ctx context.Context, shipment *domain.Shipment, route domain.Route) ([]*domain.Quote, error) {
	args := m.Called(ctx, shipment, route)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Quote), args.Error(1)
}

func (m *MockRatingService) EvaluateExpression(ctx context.Context, nodes []expression.Node, vars expression.Context) (expression.Result, error) {
	args := m.Called(ctx, nodes, vars)
	return args.Get(0).(expression.Result), args.Error(1)
}

func (m *MockRatingService) InvalidateChannel(ctx context.Context, channelID string) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func setupApp(service *MockRatingService) *fiber.App {
	app := fiber.New()
	app.Use(requestid.New(requestid.Config{Header: "X-Ray-ID"}))
	NewRatingHandler(service).Register(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestRatingHandler_Quote(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockRatingService)
		app := setupApp(svc)

		expected := &domain.Quote{ID: "q-1", ChannelID: "air", TotalCost: 1300, Currency: "CNY"}
		svc.On("Quote", mock.Anything, "air", mock.MatchedBy(func(s *domain.Shipment) bool {
			return s.Weight == 5 && len(s.Boxes) == 1
		})).Return(expected, nil).Once()

		resp := postJSON(t, app, "/rating/quote", `{"channel_id":"air","shipment":{"weight":5,"boxes":[{"length":50,"width":40,"height":30}]}}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		quote := decode[domain.Quote](t, resp)
		assert.Equal(t, 1300.0, quote.TotalCost)
		svc.AssertExpectations(t)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		app := setupApp(new(MockRatingService))

		resp := postJSON(t, app, "/rating/quote", `{"channel_id":`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[ErrorResponse](t, resp)
		assert.NotEmpty(t, body.RayID)
	})

	t.Run("MissingChannel", func(t *testing.T) {
		app := setupApp(new(MockRatingService))

		resp := postJSON(t, app, "/rating/quote", `{"shipment":{"weight":1}}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	statusCases := []struct {
		name   string
		err    error
		status int
	}{
		{"Violations", &domain.ValidationError{Violations: []string{"phone is required"}}, http.StatusUnprocessableEntity},
		{"NotFound", fmt.Errorf("service: %w", domain.ErrChannelNotFound), http.StatusNotFound},
		{"NoPrice", fmt.Errorf("service: %w", domain.ErrNoApplicablePrice), http.StatusConflict},
		{"BadChannel", fmt.Errorf("service: %w", domain.ErrInvalidChannel), http.StatusConflict},
		{"Unexpected", errors.New("redis down"), http.StatusInternalServerError},
	}
	for _, tc := range statusCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockRatingService)
			app := setupApp(svc)
			svc.On("Quote", mock.Anything, "air", mock.Anything).Return(nil, tc.err).Once()

			resp := postJSON(t, app, "/rating/quote", QuoteRequest{ChannelID: "air"})

			assert.Equal(t, tc.status, resp.StatusCode)
			body := decode[ErrorResponse](t, resp)
			assert.NotEmpty(t, body.RayID)
			assert.Equal(t, resp.Header.Get("X-Ray-ID"), body.RayID)
			if tc.status == http.StatusUnprocessableEntity {
				assert.Equal(t, []string{"phone is required"}, body.Violations)
			}
			if tc.status == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", body.Message)
			}
		})
	}
}

func TestRatingHandler_Validate(t *testing.T) {
	t.Run("Violations", func(t *testing.T) {
		svc := new(MockRatingService)
		app := setupApp(svc)
		svc.On("Validate", mock.Anything, "air", mock.Anything).Return([]string{"email is required"}, nil).Once()

		resp := postJSON(t, app, "/rating/validate", QuoteRequest{ChannelID: "air"})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[ValidationResponse](t, resp)
		assert.False(t, body.Valid)
		assert.Equal(t, []string{"email is required"}, body.Violations)
	})

	t.Run("Valid", func(t *testing.T) {
		svc := new(MockRatingService)
		app := setupApp(svc)
		svc.On("Validate", mock.Anything, "air", mock.Anything).Return(nil, nil).Once()

		resp := postJSON(t, app, "/rating/validate", QuoteRequest{ChannelID: "air"})

		body := decode[ValidationResponse](t, resp)
		assert.True(t, body.Valid)
		assert.NotNil(t, body.Violations)
	})
}

func TestRatingHandler_QuoteBatch(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockRatingService)
		app := setupApp(svc)
		items := []domain.BatchItem{
			{Index: 0, Quote: &domain.Quote{TotalCost: 10}},
			{Index: 1, Error: "no applicable price"},
		}
		svc.On("QuoteBatch", mock.Anything, "air", mock.MatchedBy(func(s []domain.Shipment) bool { return len(s) == 2 })).Return(items, nil).Once()

		resp := postJSON(t, app, "/rating/batch", BatchRequest{ChannelID: "air", Shipments: []domain.Shipment{{Weight: 1}, {Weight: 99}}})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[BatchResponse](t, resp)
		require.Len(t, body.Items, 2)
		assert.Equal(t, "no applicable price", body.Items[1].Error)
	})

	t.Run("Empty", func(t *testing.T) {
		app := setupApp(new(MockRatingService))

		resp := postJSON(t, app, "/rating/batch", BatchRequest{ChannelID: "air"})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRatingHandler_Estimate(t *testing.T) {
	svc := new(MockRatingService)
	app := setupApp(svc)
	quotes := []*domain.Quote{{ChannelID: "economy", TotalCost: 40}, {ChannelID: "express", TotalCost: 100}}
	svc.On("Estimate", mock.Anything, mock.Anything, domain.Route{Country: "US", Warehouse: "ONT8"}).Return(quotes, nil).Once()

	resp := postJSON(t, app, "/rating/estimate", `{"shipment":{"weight":2},"country":"US","warehouse":"ONT8"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[EstimateResponse](t, resp)
	require.Len(t, body.Quotes, 2)
	assert.Equal(t, "economy", body.Quotes[0].ChannelID)
	svc.AssertExpectations(t)
}

func TestRatingHandler_EvaluateExpression(t *testing.T) {
	t.Run("Condition", func(t *testing.T) {
		svc := new(MockRatingService)
		app := setupApp(svc)
		svc.On("EvaluateExpression", mock.Anything, mock.Anything, expression.Context{"weight": 25}).
			Return(expression.BoolResult(true), nil).Once()

		resp := postJSON(t, app, "/rating/expressions/evaluate", `{
			"expression": [
				{"type":"field","value":"weight"},
				{"type":"operator","value":">"},
				{"type":"value","value":20}
			],
			"context": {"weight": 25}
		}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[EvaluateResponse](t, resp)
		assert.Equal(t, true, body.Result)
		assert.True(t, body.Truthy)
		assert.Equal(t, "weight > 20", body.Description)
	})

	t.Run("Malformed", func(t *testing.T) {
		svc := new(MockRatingService)
		app := setupApp(svc)
		svc.On("EvaluateExpression", mock.Anything, mock.Anything, mock.Anything).
			Return(expression.Result{}, fmt.Errorf("%w: dangling operator", expression.ErrMalformed)).Once()

		resp := postJSON(t, app, "/rating/expressions/evaluate", `{"expression":[{"type":"operator","value":">"}]}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRatingHandler_InvalidateChannel(t *testing.T) {
	svc := new(MockRatingService)
	app := setupApp(svc)
	svc.On("InvalidateChannel", mock.Anything, "air").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/channels/air/cache", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	svc.AssertExpectations(t)
}
