package open

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/pkg/browser"

	"github.com/hashicorp-forge/documentcloud/internal/cmd/base"
	"github.com/hashicorp-forge/documentcloud/pkg/documentcloud"
)

type Command struct {
	*base.Command

	// OpenURL opens a URL; defaults to the system browser.
	OpenURL func(url string) error

	flagTarget string
	flagPrint  bool
}

func (c *Command) Synopsis() string {
	return "Open the first search result in a browser"
}

func (c *Command) Help() string {
	return `Usage: documentcloud open [options] <query>

  Searches for the query and opens the first result's PDF, full text or
  canonical page in the default browser.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("open", flag.ContinueOnError))
	c.ClientFlags(f)

	f.StringVar(
		&c.flagTarget, "target", "pdf",
		"What to open (pdf, text, canonical)",
	)
	f.BoolVar(
		&c.flagPrint, "print", false,
		"Print the URL instead of opening it",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	query := strings.Join(f.Args(), " ")
	if query == "" {
		c.UI.Error("a search query is required")
		return 1
	}

	client, err := c.Client()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	docs, err := client.Search(context.Background(), query)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error searching: %v", err))
		return 1
	}
	if len(docs) == 0 {
		c.UI.Error(fmt.Sprintf("no documents match %q", query))
		return 1
	}

	url, err := targetURL(docs[0], c.flagTarget)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	if c.flagPrint {
		c.UI.Output(url)
		return 0
	}

	openURL := c.OpenURL
	if openURL == nil {
		openURL = browser.OpenURL
	}
	c.UI.Info(fmt.Sprintf("Opening %s", url))
	if err := openURL(url); err != nil {
		c.UI.Error(fmt.Sprintf("error opening browser: %v", err))
		return 1
	}
	return 0
}

func targetURL(doc *documentcloud.Document, target string) (string, error) {
	switch target {
	case "pdf":
		return doc.PDFURL()
	case "text":
		return doc.FullTextURL()
	case "canonical":
		return doc.GetString("canonical_url")
	}
	return "", fmt.Errorf("unknown target %q (want pdf, text or canonical)", target)
}
