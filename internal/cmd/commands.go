package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/documentcloud/internal/cmd/base"
	"github.com/hashicorp-forge/documentcloud/internal/cmd/commands/fetch"
	"github.com/hashicorp-forge/documentcloud/internal/cmd/commands/open"
	"github.com/hashicorp-forge/documentcloud/internal/cmd/commands/search"
	"github.com/hashicorp-forge/documentcloud/internal/cmd/commands/show"
	"github.com/hashicorp-forge/documentcloud/internal/cmd/commands/version"
)

// initCommands builds the command table. Each factory gets its own base so
// flag state is never shared between commands.
func initCommands(log hclog.Logger, ui cli.Ui) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"fetch": func() (cli.Command, error) {
			return &fetch.Command{Command: base.New(log, ui)}, nil
		},
		"open": func() (cli.Command, error) {
			return &open.Command{Command: base.New(log, ui)}, nil
		},
		"search": func() (cli.Command, error) {
			return &search.Command{Command: base.New(log, ui)}, nil
		},
		"show": func() (cli.Command, error) {
			return &show.Command{Command: base.New(log, ui)}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: base.New(log, ui)}, nil
		},
	}
}
