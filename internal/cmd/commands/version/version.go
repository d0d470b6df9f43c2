package version

import (
	"github.com/hashicorp-forge/documentcloud/internal/cmd/base"
	"github.com/hashicorp-forge/documentcloud/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return `Usage: documentcloud version`
}

func (c *Command) Run(args []string) int {
	c.UI.Output("documentcloud " + version.Version)
	return 0
}
