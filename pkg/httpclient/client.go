package httpclient

import (
	"net/http"
	"time"
)

// Client is the outbound HTTP surface the relay depends on, kept minimal so
// tests can substitute a fake transport
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// StandardHTTPClient wraps the standard http.Client
type StandardHTTPClient struct {
	client *http.Client
}

// NewStandardClient creates an HTTP client with default settings. The 30s
// client timeout is a backstop; callers bound individual requests with
// context deadlines.
func NewStandardClient() Client {
	return &StandardHTTPClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Do executes an HTTP request
func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}
