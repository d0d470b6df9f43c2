package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/documentcloud/internal/cmd/cmdtest"
)

func TestRun(t *testing.T) {
	srv := cmdtest.NewServer(t, 3, "a1", "b2")
	base, ui := cmdtest.NewCommand()
	c := &Command{Command: base}

	code := c.Run([]string{"-base-url", srv.APIURL(), "police", "report"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	out := ui.OutputWriter.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Title of a1")
	assert.Contains(t, out, "Title of b2")
	assert.Equal(t, []string{"police report", "police report"}, srv.Queries())
}

func TestRun_JSON(t *testing.T) {
	srv := cmdtest.NewServer(t, 7, "a1", "b2", "c3")
	base, ui := cmdtest.NewCommand()
	c := &Command{Command: base}

	code := c.Run([]string{"-base-url", srv.APIURL(), "-format", "json", "-limit", "2", "x"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	var results []result
	require.NoError(t, json.Unmarshal([]byte(ui.OutputWriter.String()), &results))
	assert.Equal(t, []result{
		{ID: "a1", Pages: 7, Title: "Title of a1"},
		{ID: "b2", Pages: 7, Title: "Title of b2"},
	}, results)
}

func TestRun_NoResults(t *testing.T) {
	srv := cmdtest.NewServer(t, 1)
	base, ui := cmdtest.NewCommand()
	c := &Command{Command: base}

	code := c.Run([]string{"-base-url", srv.APIURL(), "nothing"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "No documents match \"nothing\"\n", ui.OutputWriter.String())
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing query", nil, "a search query is required"},
		{"bad flag", []string{"-nope"}, "error parsing flags"},
		{"bad base url", []string{"-base-url", "ftp://example.com", "q"}, "error creating client"},
		{"bad format", []string{"-format", "xml", "-base-url", "%s", "q"}, "unknown format"},
	}

	srv := cmdtest.NewServer(t, 1, "a1")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := make([]string, len(tt.args))
			for i, a := range tt.args {
				if a == "%s" {
					a = srv.APIURL()
				}
				args[i] = a
			}

			base, ui := cmdtest.NewCommand()
			c := &Command{Command: base}
			assert.Equal(t, 1, c.Run(args))
			assert.Contains(t, ui.ErrorWriter.String(), tt.want)
		})
	}
}

func TestRun_SearchFailure(t *testing.T) {
	srv := cmdtest.NewServer(t, 1)
	base, ui := cmdtest.NewCommand()
	c := &Command{Command: base}

	code := c.Run([]string{"-base-url", srv.URL + "/missing/", "q"})
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "error searching")
	assert.Contains(t, ui.ErrorWriter.String(), "404")
}
