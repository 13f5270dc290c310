package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ErrUpstreamUnavailable covers timeouts, non-2xx responses and bodies that
// are not a JSON array. Handlers map it to 502.
var ErrUpstreamUnavailable = errors.New("external service unavailable")

// Client fetches reference and event collections from one tracking-platform
// deployment. No retries: retry policy, if any, belongs to the caller.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: c, logger: logger}
}

// FetchCollection GETs one collection and returns the raw JSON array text.
// The payload is kept as text so the cache can store it unchanged and the
// pipeline can read fields by name without a schema.
func (c *Client) FetchCollection(ctx context.Context, path string) (string, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		c.logger.Error("upstream fetch failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %s", ErrUpstreamUnavailable, path)
	}
	if resp.IsError() {
		c.logger.Error("upstream returned error status",
			zap.String("url", resp.Request.URL),
			zap.Int("status", resp.StatusCode()),
		)
		return "", fmt.Errorf("%w: %s (status %d)", ErrUpstreamUnavailable, path, resp.StatusCode())
	}

	body := resp.String()
	if !gjson.Valid(body) || !gjson.Parse(body).IsArray() {
		c.logger.Error("upstream returned malformed collection",
			zap.String("url", resp.Request.URL),
		)
		return "", fmt.Errorf("%w: %s (malformed body)", ErrUpstreamUnavailable, path)
	}
	return body, nil
}
