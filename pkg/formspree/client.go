package formspree

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/circuitbreaker"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/httpclient"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/logger"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Result captures the relay's HTTP status and parsed response body. Both are
// stored alongside the booking row as delivery metadata, whatever the outcome.
type Result struct {
	StatusCode int
	Body       interface{}
}

// OK reports whether the relay accepted the submission
func (r *Result) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Client submits form payloads to a Formspree endpoint
type Client struct {
	endpoint   string
	httpClient httpclient.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a Formspree relay client
func NewClient(endpoint string, httpClient httpclient.Client) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		breaker:    circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("formspree")),
	}
}

// Submit posts the form to the relay as application/x-www-form-urlencoded and
// returns the status code with a tolerantly-parsed body. A non-2xx status is
// not an error here; callers fold it into their degraded-outcome handling.
func (c *Client) Submit(ctx context.Context, form url.Values) (*Result, error) {
	start := time.Now()

	result, err := circuitbreaker.Execute(c.breaker, func() (*Result, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
			strings.NewReader(form.Encode()))
		if err != nil {
			return nil, fmt.Errorf("failed to build relay request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("relay call failed: %w", err)
		}
		defer resp.Body.Close()

		return &Result{
			StatusCode: resp.StatusCode,
			Body:       parseBody(resp),
		}, nil
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.RelayRequestDuration.WithLabelValues("error").Observe(duration)
		metrics.RelayRequestTotal.WithLabelValues("error").Inc()
		logger.LogAPICall("formspree", "submit", "error", duration, zap.Error(err))
		return nil, err
	}

	status := "success"
	if !result.OK() {
		status = "rejected"
	}
	metrics.RelayRequestDuration.WithLabelValues(status).Observe(duration)
	metrics.RelayRequestTotal.WithLabelValues(status).Inc()
	logger.LogAPICall("formspree", "submit", status, duration,
		zap.Int("status_code", result.StatusCode))

	return result, nil
}

// parseBody decodes the relay response leniently: JSON when declared, raw text
// otherwise, nil when empty or unreadable
func parseBody(resp *http.Response) interface{} {
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var body interface{}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil
		}
		return body
	}

	text, err := io.ReadAll(resp.Body)
	if err != nil || len(text) == 0 {
		return nil
	}
	return map[string]interface{}{"raw": string(text)}
}
