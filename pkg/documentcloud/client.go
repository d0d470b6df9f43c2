package documentcloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/documentcloud/internal/version"
)

// maxErrorBody bounds how much of a failed response is kept in a StatusError.
const maxErrorBody = 4096

// Client talks to the DocumentCloud API.
type Client struct {
	config *Config
	client *http.Client
	logger hclog.Logger
}

// NewClient creates a client. A nil cfg uses DefaultConfig. Zero fields of
// cfg are filled with defaults before validation.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid documentcloud config: %w", err)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = cfg.NewHTTPClient()
	}

	return &Client{
		config: cfg,
		client: client,
		logger: cfg.Logger.Named("documentcloud"),
	}, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return *c.config
}

// Fetch performs a GET against rawURL and returns the whole body. It is used
// for every document resource (text, PDF, images).
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, rawURL, nil)
}

// endpoint joins name onto the configured base URL.
func (c *Client) endpoint(name string) string {
	return strings.TrimSuffix(c.config.BaseURL, "/") + "/" + name
}

// postJSON submits form to an API endpoint and decodes the JSON response
// into result. Numbers are kept as json.Number.
func (c *Client) postJSON(ctx context.Context, name string, form url.Values, result interface{}) error {
	body, err := c.do(ctx, http.MethodPost, c.endpoint(name), form)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", name, err)
	}
	return nil
}

// do executes a request, retrying transient failures when MaxRetries is set.
func (c *Client) do(ctx context.Context, method, rawURL string, form url.Values) ([]byte, error) {
	if c.config.MaxRetries == 0 {
		return c.doOnce(ctx, method, rawURL, form)
	}

	var body []byte
	operation := func() error {
		b, err := c.doOnce(ctx, method, rawURL, form)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && !statusErr.Temporary() {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.RetryDelay
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.config.MaxRetries)), ctx)

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("request failed, retrying",
			"method", method,
			"url", rawURL,
			"wait", wait,
			"error", err,
		)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) doOnce(ctx context.Context, method, rawURL string, form url.Values) ([]byte, error) {
	var bodyReader io.Reader
	if form != nil {
		bodyReader = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("X-Request-Id", requestID)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("request complete",
		"method", method,
		"url", rawURL,
		"request_id", requestID,
		"status", resp.StatusCode,
		"bytes", len(respBody),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(respBody) > maxErrorBody {
			respBody = respBody[:maxErrorBody]
		}
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        rawURL,
			Body:       string(respBody),
		}
	}

	return respBody, nil
}

func defaultUserAgent() string {
	return "documentcloud-go/" + version.Version
}
