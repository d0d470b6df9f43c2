package fetch

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/documentcloud/internal/cmd/base"
	"github.com/hashicorp-forge/documentcloud/pkg/archive"
	"github.com/hashicorp-forge/documentcloud/pkg/documentcloud"
)

type Command struct {
	*base.Command

	flagDir      string
	flagLimit    int
	flagImages   string
	flagNoPDF    bool
	flagNoText   bool
	flagPageText bool
}

func (c *Command) Synopsis() string {
	return "Download search results to a directory"
}

func (c *Command) Help() string {
	return `Usage: documentcloud fetch [options] <query>

  Searches for the query and saves each result under -dir: the document
  record, its full text, its PDF and optionally per-page text and images.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("fetch", flag.ContinueOnError))
	c.ClientFlags(f)

	f.StringVar(
		&c.flagDir, "dir", "documents",
		"Directory to write documents to",
	)
	f.IntVar(
		&c.flagLimit, "limit", 10,
		"Save at most this many documents (0 saves all)",
	)
	f.StringVar(
		&c.flagImages, "images", "",
		"Also save page images at this size (small, thumbnail, large)",
	)
	f.BoolVar(
		&c.flagNoPDF, "no-pdf", false,
		"Do not download PDFs",
	)
	f.BoolVar(
		&c.flagNoText, "no-text", false,
		"Do not download full text",
	)
	f.BoolVar(
		&c.flagPageText, "page-text", false,
		"Also save the text of each page",
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

	opts := archive.Options{
		FullText: !c.flagNoText,
		PDF:      !c.flagNoPDF,
		PageText: c.flagPageText,
	}
	if c.flagImages != "" {
		size, err := documentcloud.ParseImageSize(c.flagImages)
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		opts.ImageSize = size
	}

	client, err := c.Client()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	archiver, err := archive.New(c.Fs, c.flagDir, opts, c.Log)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	ctx := context.Background()
	docs, err := client.Search(ctx, query)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error searching: %v", err))
		return 1
	}
	if c.flagLimit > 0 && len(docs) > c.flagLimit {
		docs = docs[:c.flagLimit]
	}

	failed := 0
	for _, doc := range docs {
		m, err := archiver.Save(ctx, doc)
		if m != nil {
			c.UI.Info(fmt.Sprintf("%s: %d files, %d bytes in %s", m.ID, len(m.Files), m.Bytes, m.Dir))
		}
		if err != nil {
			failed++
			c.UI.Error(fmt.Sprintf("error saving %s: %v", doc, err))
		}
	}

	c.UI.Output(fmt.Sprintf("Saved %d of %d documents to %s", len(docs)-failed, len(docs), c.flagDir))
	if failed > 0 {
		return 1
	}
	return 0
}
