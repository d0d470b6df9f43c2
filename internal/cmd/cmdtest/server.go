// Package cmdtest provides a fake DocumentCloud API for command tests.
package cmdtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/documentcloud/internal/cmd/base"
)

// Server is a fake API. Every query returns Docs on page one and nothing
// after. Resource URLs point back at the server and return
// "<id> <resource>" bodies.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	queries []string
	docs    []map[string]interface{}
	missing map[string]bool
}

// NewServer starts a server with documents for ids. Each document has
// pages pages. The server is closed when the test ends.
func NewServer(t *testing.T, pages int, ids ...string) *Server {
	t.Helper()
	s := &Server{missing: map[string]bool{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)

	for _, id := range ids {
		root := s.URL + "/documents/" + id
		s.docs = append(s.docs, map[string]interface{}{
			"id":            id,
			"title":         "Title of " + id,
			"pages":         pages,
			"access":        "public",
			"canonical_url": root + ".html",
			"resources": map[string]interface{}{
				"text": root + ".txt",
				"pdf":  root + ".pdf",
				"page": map[string]interface{}{
					"text":  root + "/pages/" + id + "-p{page}.txt",
					"image": root + "/pages/" + id + "-p{page}-{size}.gif",
				},
			},
		})
	}
	return s
}

// APIURL is the base URL to pass to -base-url.
func (s *Server) APIURL() string {
	return s.URL + "/api/"
}

// Remove makes the resource at path return 404.
func (s *Server) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missing[path] = true
}

// Queries returns the q parameters received, one per search request.
func (s *Server) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/search.json" {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.queries = append(s.queries, r.PostForm.Get("q"))
		s.mu.Unlock()

		docs := []map[string]interface{}{}
		if page, _ := strconv.Atoi(r.PostForm.Get("page")); page == 1 {
			docs = s.docs
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"documents": docs})
		return
	}

	s.mu.Lock()
	missing := s.missing[r.URL.Path]
	s.mu.Unlock()

	if !missing && strings.HasPrefix(r.URL.Path, "/documents/") {
		name := strings.TrimPrefix(r.URL.Path, "/documents/")
		fmt.Fprintf(w, "%s body", name)
		return
	}

	w.WriteHeader(http.StatusNotFound)
}

// NewCommand returns a base command writing to a mock UI, with an empty
// environment.
func NewCommand() (*base.Command, *cli.MockUi) {
	ui := cli.NewMockUi()
	c := base.New(hclog.NewNullLogger(), ui)
	c.LookupEnv = func(string) (string, bool) { return "", false }
	return c, ui
}
