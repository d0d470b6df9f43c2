package search

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/hashicorp-forge/documentcloud/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagLimit int
}

// result is one row of output.
type result struct {
	ID    string `json:"id" yaml:"id"`
	Pages int    `json:"pages" yaml:"pages"`
	Title string `json:"title" yaml:"title"`
}

func (c *Command) Synopsis() string {
	return "Search for public documents"
}

func (c *Command) Help() string {
	return `Usage: documentcloud search [options] <query>

  Retrieves every document matching the query, following search pages until
  the API returns an empty page, and prints the id, page count and title of
  each one.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("search", flag.ContinueOnError))
	c.ClientFlags(f)
	c.FormatFlag(f, "text")

	f.IntVar(
		&c.flagLimit, "limit", 0,
		"Print at most this many documents (0 prints all)",
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

	if c.flagLimit > 0 && len(docs) > c.flagLimit {
		docs = docs[:c.flagLimit]
	}

	results := make([]result, 0, len(docs))
	for _, d := range docs {
		info, err := d.Info()
		if err != nil {
			c.UI.Error(fmt.Sprintf("error reading document: %v", err))
			return 1
		}
		results = append(results, result{ID: info.ID, Pages: info.Pages, Title: info.Title})
	}

	err = c.Render(results, func() string {
		if len(results) == 0 {
			return fmt.Sprintf("No documents match %q", query)
		}
		var b strings.Builder
		w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPAGES\tTITLE")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%d\t%s\n", r.ID, r.Pages, r.Title)
		}
		w.Flush()
		return strings.TrimRight(b.String(), "\n")
	})
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	return 0
}
