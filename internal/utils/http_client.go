package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around resty.Client used for outbound calls to
// third-party APIs.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates a client rooted at baseURL. A positive timeout bounds
// every request; transient failures are retried twice.
//
// Example usage:
//
//	client := utils.NewHTTPClient("https://maps.googleapis.com", 5*time.Second)
//	resp, err := client.R().SetContext(ctx).Get("/maps/api/geocode/json")
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPClient{Client: client}
}
