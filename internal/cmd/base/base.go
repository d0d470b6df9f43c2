package base

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/documentcloud/internal/config"
	"github.com/hashicorp-forge/documentcloud/pkg/documentcloud"
)

// Command holds what every subcommand shares.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui
	Fs  afero.Fs

	// LookupEnv reads the environment; tests replace it.
	LookupEnv func(string) (string, bool)

	flagConfig   string
	flagBaseURL  string
	flagTimeout  time.Duration
	flagMaxPages int
	flagLogLevel string
	flagFormat   string
}

// New returns a Command writing to ui and the real filesystem.
func New(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log:       log,
		UI:        ui,
		Fs:        afero.NewOsFs(),
		LookupEnv: os.LookupEnv,
	}
}

// FlagSet wraps flag.FlagSet with help text rendering.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f. Output is discarded so parse errors are reported
// through the UI only.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(io.Discard)
	return &FlagSet{FlagSet: f}
}

// Help renders the flags for a command's Help text.
func (f *FlagSet) Help() string {
	var names []string
	f.VisitAll(func(fl *flag.Flag) { names = append(names, fl.Name) })
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("\n\nOptions:\n")
	for _, name := range names {
		fl := f.Lookup(name)
		fmt.Fprintf(&b, "\n  -%s", fl.Name)
		if fl.DefValue != "" && fl.DefValue != "false" {
			fmt.Fprintf(&b, "=%s", fl.DefValue)
		}
		fmt.Fprintf(&b, "\n      %s\n", fl.Usage)
	}
	return b.String()
}

// ClientFlags registers the flags used to build an API client.
func (c *Command) ClientFlags(f *FlagSet) {
	f.StringVar(
		&c.flagConfig, "config", "",
		"Path to an HCL configuration file",
	)
	f.StringVar(
		&c.flagBaseURL, "base-url", "",
		fmt.Sprintf("[%s] DocumentCloud API root", config.EnvBaseURL),
	)
	f.DurationVar(
		&c.flagTimeout, "timeout", 0,
		fmt.Sprintf("[%s] Per-request timeout", config.EnvTimeout),
	)
	f.IntVar(
		&c.flagMaxPages, "max-pages", 0,
		fmt.Sprintf("[%s] Stop searching after this many pages (0 is unlimited)", config.EnvMaxPages),
	)
	f.StringVar(
		&c.flagLogLevel, "log-level", "",
		fmt.Sprintf("[%s] Log level (trace, debug, info, warn, error)", config.EnvLogLevel),
	)
}

// FormatFlag registers -format.
func (c *Command) FormatFlag(f *FlagSet, def string) {
	f.StringVar(&c.flagFormat, "format", def, "Output format (text, json, yaml)")
}

// Client loads configuration from the file, the environment and flags, in
// increasing precedence, and builds an API client.
func (c *Command) Client() (*documentcloud.Client, error) {
	cfg, err := config.Load(c.flagConfig)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(c.LookupEnv); err != nil {
		return nil, err
	}

	if c.flagBaseURL != "" {
		cfg.DocumentCloud.BaseURL = c.flagBaseURL
	}
	if c.flagTimeout != 0 {
		cfg.DocumentCloud.Timeout = c.flagTimeout.String()
	}
	if c.flagMaxPages != 0 {
		cfg.DocumentCloud.MaxPages = c.flagMaxPages
	}
	if c.flagLogLevel != "" {
		cfg.LogLevel = c.flagLogLevel
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	c.Log.SetLevel(level)

	clientCfg, err := cfg.ClientConfig(c.Log)
	if err != nil {
		return nil, err
	}
	return documentcloud.NewClient(clientCfg)
}

// Render writes v to the UI in the selected format. text uses textFn.
func (c *Command) Render(v interface{}, textFn func() string) error {
	switch c.flagFormat {
	case "", "text":
		c.UI.Output(textFn())
	case "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		c.UI.Output(string(out))
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		c.UI.Output(strings.TrimRight(string(out), "\n"))
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", c.flagFormat)
	}
	return nil
}
