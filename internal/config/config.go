package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/hashicorp-forge/documentcloud/pkg/documentcloud"
)

// Environment variables that override the configuration file.
const (
	EnvBaseURL  = "DOCUMENTCLOUD_BASE_URL"
	EnvTimeout  = "DOCUMENTCLOUD_TIMEOUT"
	EnvMaxPages = "DOCUMENTCLOUD_MAX_PAGES"
	EnvLogLevel = "DOCUMENTCLOUD_LOG_LEVEL"
)

// Config is the CLI configuration file.
type Config struct {
	// DocumentCloud configures the API client.
	DocumentCloud *DocumentCloud `hcl:"documentcloud,block"`

	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string `hcl:"log_level,optional"`
}

// DocumentCloud is the documentcloud block. Durations are strings such as
// "30s".
type DocumentCloud struct {
	BaseURL    string `hcl:"base_url,optional"`
	Timeout    string `hcl:"timeout,optional"`
	PerPage    int    `hcl:"per_page,optional"`
	MaxPages   int    `hcl:"max_pages,optional"`
	MaxRetries int    `hcl:"max_retries,optional"`
	RetryDelay string `hcl:"retry_delay,optional"`
	TLSVerify  *bool  `hcl:"tls_verify,optional"`
	UserAgent  string `hcl:"user_agent,optional"`
}

// NewConfig returns an empty configuration; every client setting takes its
// library default.
func NewConfig() *Config {
	return &Config{
		DocumentCloud: &DocumentCloud{},
		LogLevel:      "info",
	}
}

// Load reads the HCL file at path. An empty path returns NewConfig.
func Load(path string) (*Config, error) {
	if path == "" {
		return NewConfig(), nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Decode(path, src)
}

// Decode parses src. filename selects the syntax by extension (.hcl or
// .json) and is used in diagnostics.
func Decode(filename string, src []byte) (*Config, error) {
	cfg := NewConfig()
	if err := hclsimple.Decode(filename, src, nil, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DocumentCloud == nil {
		cfg.DocumentCloud = &DocumentCloud{}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if val, ok := lookup(EnvBaseURL); ok && val != "" {
		c.DocumentCloud.BaseURL = val
	}
	if val, ok := lookup(EnvTimeout); ok && val != "" {
		c.DocumentCloud.Timeout = val
	}
	if val, ok := lookup(EnvLogLevel); ok && val != "" {
		c.LogLevel = val
	}
	if val, ok := lookup(EnvMaxPages); ok && val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxPages, err)
		}
		c.DocumentCloud.MaxPages = n
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() (hclog.Level, error) {
	level := hclog.LevelFromString(c.LogLevel)
	if level == hclog.NoLevel {
		return hclog.NoLevel, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

// ClientConfig converts the documentcloud block into a client config. Every
// invalid duration is reported.
func (c *Config) ClientConfig(logger hclog.Logger) (*documentcloud.Config, error) {
	dc := c.DocumentCloud
	out := &documentcloud.Config{
		BaseURL:    dc.BaseURL,
		PerPage:    dc.PerPage,
		MaxPages:   dc.MaxPages,
		MaxRetries: dc.MaxRetries,
		TLSVerify:  dc.TLSVerify,
		UserAgent:  dc.UserAgent,
		Logger:     logger,
	}

	var result *multierror.Error
	if d, err := parseDuration("timeout", dc.Timeout); err != nil {
		result = multierror.Append(result, err)
	} else {
		out.Timeout = d
	}
	if d, err := parseDuration("retry_delay", dc.RetryDelay); err != nil {
		result = multierror.Append(result, err)
	} else {
		out.RetryDelay = d
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseDuration(name, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}
