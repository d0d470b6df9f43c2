package show

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/documentcloud/internal/cmd/base"
	"github.com/hashicorp-forge/documentcloud/pkg/documentcloud"
)

// DefaultQuery is searched when no query is given.
const DefaultQuery = "ruben salazar"

type Command struct {
	*base.Command

	flagPage   int
	flagFields fieldList
	flagNoText bool
}

// fieldList collects repeated -field flags.
type fieldList []string

func (l *fieldList) String() string { return strings.Join(*l, ",") }

func (l *fieldList) Set(v string) error {
	for _, name := range strings.Split(v, ",") {
		if name = strings.TrimSpace(name); name != "" {
			*l = append(*l, name)
		}
	}
	return nil
}

// output is the structured form of the command's result.
type output struct {
	Fields    map[string]interface{} `json:"fields" yaml:"fields"`
	Resources map[string]interface{} `json:"resources,omitempty" yaml:"resources,omitempty"`
	Page      int                    `json:"page,omitempty" yaml:"page,omitempty"`
	Text      string                 `json:"text,omitempty" yaml:"text,omitempty"`
}

func (c *Command) Synopsis() string {
	return "Print the first search result and the text of one page"
}

func (c *Command) Help() string {
	return `Usage: documentcloud show [options] [query]

  Searches for the query (default "` + DefaultQuery + `"), prints the fields
  and resources of the first result and then the text of one of its pages.

  Field names given to -field may use any case style; "canonicalURL",
  "canonical-url" and "canonical_url" are the same field.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("show", flag.ContinueOnError))
	c.ClientFlags(f)
	c.FormatFlag(f, "yaml")

	f.IntVar(
		&c.flagPage, "page", 1,
		"Page whose text is printed",
	)
	f.Var(
		&c.flagFields, "field",
		"Only print these fields (repeatable or comma separated)",
	)
	f.BoolVar(
		&c.flagNoText, "no-text", false,
		"Do not fetch page text",
	)

	return f
}

func (c *Command) Run(args []string) int {
	c.flagFields = nil
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	query := strings.Join(f.Args(), " ")
	if query == "" {
		query = DefaultQuery
	}

	client, err := c.Client()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	ctx := context.Background()
	docs, err := client.Search(ctx, query)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error searching: %v", err))
		return 1
	}
	if len(docs) == 0 {
		c.UI.Error(fmt.Sprintf("no documents match %q", query))
		return 1
	}
	doc := docs[0]

	out := output{}
	fields, err := selectFields(doc, c.flagFields)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	out.Fields = fields
	if len(c.flagFields) == 0 {
		out.Resources = doc.Resources().Map()
		delete(out.Fields, "resources")
	}

	if !c.flagNoText {
		text, err := doc.PageText(ctx, c.flagPage)
		if err != nil {
			c.UI.Error(fmt.Sprintf("error fetching page %d text: %v", c.flagPage, err))
			return 1
		}
		out.Page = c.flagPage
		out.Text = string(text)
	}

	err = c.Render(out, func() string { return renderText(doc, out) })
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}

// selectFields returns the requested fields, or all of them. Names are
// normalised to the API's snake_case keys.
func selectFields(doc *documentcloud.Document, names []string) (map[string]interface{}, error) {
	all := doc.Map()
	if len(names) == 0 {
		return all, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = strcase.ToSnake(name)
	}
	if err := doc.Require(keys...); err != nil {
		return nil, err
	}

	selected := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		selected[k] = all[k]
	}
	return selected, nil
}

func renderText(doc *documentcloud.Document, out output) string {
	var b strings.Builder
	b.WriteString(doc.String())
	b.WriteString("\n\n")

	fields, _ := yaml.Marshal(out.Fields)
	b.Write(fields)

	if len(out.Resources) > 0 {
		b.WriteString("\nresources:\n")
		resources, _ := yaml.Marshal(out.Resources)
		for _, line := range strings.Split(strings.TrimRight(string(resources), "\n"), "\n") {
			b.WriteString("  " + line + "\n")
		}
	}

	if out.Page > 0 {
		fmt.Fprintf(&b, "\n--- page %d ---\n%s", out.Page, out.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}
