package httpclient

import (
	"net/http"
	"time"

	"freight-rating/internal/core/logger"

	"go.uber.org/zap"
)

// LoggingRoundTripper logs every outgoing request with its status and latency.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := lrt.Proxied.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.Redacted()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// BearerRoundTripper adds a bearer token and a JSON Accept header to each request.
type BearerRoundTripper struct {
	Token   string
	Proxied http.RoundTripper
}

// RoundTrip clones the request before setting headers, as RoundTripper requires.
func (brt *BearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Accept", "application/json")
	if brt.Token != "" {
		r.Header.Set("Authorization", "Bearer "+brt.Token)
	}
	return brt.Proxied.RoundTrip(r)
}

// NewClient returns an http.Client that logs requests and authenticates with
// token when it is not empty.
func NewClient(timeout time.Duration, token string) *http.Client {
	return &http.Client{
		Transport: &BearerRoundTripper{
			Token:   token,
			Proxied: &LoggingRoundTripper{Proxied: http.DefaultTransport},
		},
		Timeout: timeout,
	}
}
