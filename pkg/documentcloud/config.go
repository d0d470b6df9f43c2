package documentcloud

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultBaseURL is the public DocumentCloud API root.
	DefaultBaseURL = "https://www.documentcloud.org/api/"

	// DefaultPerPage is the search page size requested from the API.
	DefaultPerPage = 1000
)

// Config contains configuration for the DocumentCloud client.
//
// Example configuration (HCL):
//
//	documentcloud {
//	  base_url    = "https://www.documentcloud.org/api/"
//	  timeout     = "30s"
//	  per_page    = 1000
//	  max_pages   = 0
//	  max_retries = 0
//	}
type Config struct {
	// BaseURL is the API root that endpoint names are appended to.
	// Default: https://www.documentcloud.org/api/
	BaseURL string `json:"base_url"`

	// Timeout for a single HTTP request, including reading the body.
	// Default: 30 seconds
	Timeout time.Duration `json:"timeout"`

	// PerPage is the number of search results requested per page.
	// Default: 1000
	PerPage int `json:"per_page"`

	// MaxPages caps the number of search pages fetched by Search.
	// Zero trusts the server to terminate pagination with an empty page.
	MaxPages int `json:"max_pages"`

	// MaxRetries for failed requests. Zero disables retries.
	MaxRetries int `json:"max_retries"`

	// RetryDelay is the initial backoff between retries.
	// Default: 1 second
	RetryDelay time.Duration `json:"retry_delay"`

	// TLSVerify controls TLS certificate verification.
	TLSVerify *bool `json:"tls_verify,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `json:"user_agent,omitempty"`

	// HTTPClient replaces the client built from the settings above.
	HTTPClient *http.Client `json:"-"`

	// Logger is optional; a null logger is used when nil.
	Logger hclog.Logger `json:"-"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		BaseURL:    DefaultBaseURL,
		Timeout:    30 * time.Second,
		PerPage:    DefaultPerPage,
		RetryDelay: 1 * time.Second,
		TLSVerify:  &tlsVerify,
		UserAgent:  defaultUserAgent(),
	}
}

// applyDefaults fills zero values from DefaultConfig.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = defaults.BaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.PerPage == 0 {
		c.PerPage = defaults.PerPage
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = defaults.RetryDelay
	}
	if c.TLSVerify == nil {
		c.TLSVerify = defaults.TLSVerify
	}
	if c.UserAgent == "" {
		c.UserAgent = defaults.UserAgent
	}
	if c.Logger == nil {
		c.Logger = hclog.NewNullLogger()
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(validateBaseURL)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(1)).Error("must be positive")),
		validation.Field(&c.PerPage, validation.Min(1)),
		validation.Field(&c.MaxPages, validation.Min(0)),
		validation.Field(&c.MaxRetries, validation.Min(0)),
		validation.Field(&c.RetryDelay, validation.Min(time.Duration(0))),
	)
}

func validateBaseURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https scheme, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

// NewHTTPClient creates a configured HTTP client for this config
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}
