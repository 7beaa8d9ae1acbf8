package utils

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	retryWaitTime    = 100 * time.Millisecond
	retryMaxWaitTime = time.Second
)

// HTTPClient embeds *resty.Client so callers build requests with R() as usual.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a resty client rooted at baseURL. Requests fail
// after timeout; a zero timeout leaves resty's default. When retries is
// positive, transport failures and 502/503/504 answers are retried with
// backoff. Context cancellation is never retried.
func NewHTTPClient(baseURL string, timeout time.Duration, retries int) *HTTPClient {
	client := resty.New().SetBaseURL(baseURL)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	if retries > 0 {
		client.
			SetRetryCount(retries).
			SetRetryWaitTime(retryWaitTime).
			SetRetryMaxWaitTime(retryMaxWaitTime).
			AddRetryCondition(isTransientFailure)
	}

	return &HTTPClient{Client: client}
}

func isTransientFailure(resp *resty.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	if resp == nil {
		return false
	}

	switch resp.StatusCode() {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
