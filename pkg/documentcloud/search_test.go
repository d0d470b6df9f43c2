package documentcloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// searchServer serves search.json from pages, where pages[i] holds the
// document ids of page i+1. Pages past the end are empty.
func searchServer(t *testing.T, pages [][]string, requests *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/search.json", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "salazar", r.PostForm.Get("q"))
		assert.Equal(t, "1000", r.PostForm.Get("per_page"))

		page, err := strconv.Atoi(r.PostForm.Get("page"))
		require.NoError(t, err)

		docs := []map[string]interface{}{}
		if page <= len(pages) {
			for _, id := range pages[page-1] {
				docs = append(docs, map[string]interface{}{
					"id":    id,
					"title": "Document " + id,
					"pages": 1,
				})
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"documents": docs})
	}))
}

func newTestClient(t *testing.T, serverURL string, mutate ...func(*Config)) *Client {
	t.Helper()
	cfg := &Config{
		BaseURL: serverURL + "/api/",
		Logger:  hclog.NewNullLogger(),
	}
	for _, fn := range mutate {
		fn(cfg)
	}
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func ids(t *testing.T, docs []*Document) []string {
	t.Helper()
	out := make([]string, len(docs))
	for i, d := range docs {
		id, err := d.ID()
		require.NoError(t, err)
		out[i] = id
	}
	return out
}

func TestSearch_Paginates(t *testing.T) {
	var requests int32
	srv := searchServer(t, [][]string{{"a", "b", "c"}, {"d", "e"}, {"f"}}, &requests)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	docs, err := client.Search(context.Background(), "salazar")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, ids(t, docs), "server order is kept")
	assert.Equal(t, int32(4), atomic.LoadInt32(&requests), "three full pages and one empty page")

	// Documents from Search can fetch through the client.
	assert.Equal(t, client, docs[0].fetcher)
}

func TestSearch_NoResults(t *testing.T) {
	var requests int32
	srv := searchServer(t, nil, &requests)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	docs, err := client.Search(context.Background(), "salazar")
	require.NoError(t, err)

	assert.NotNil(t, docs)
	assert.Empty(t, docs)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestSearch_MissingDocumentsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total": 0}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	docs, err := client.Search(context.Background(), "salazar")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSearch_PageLimit(t *testing.T) {
	var requests int32
	srv := searchServer(t, [][]string{{"a"}, {"b"}, {"c"}}, &requests)
	defer srv.Close()

	client := newTestClient(t, srv.URL, func(c *Config) { c.MaxPages = 2 })
	docs, err := client.Search(context.Background(), "salazar")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPageLimit))
	assert.Nil(t, docs, "no partial result")
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestSearch_RepeatedPage(t *testing.T) {
	// A server that ignores the page parameter.
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		fmt.Fprint(w, `{"documents": [{"id": "a", "title": "A"}, {"id": "b", "title": "B"}]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	docs, err := client.Search(context.Background(), "salazar")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRepeatedPage))
	assert.Nil(t, docs)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestSearch_FailureAborts(t *testing.T) {
	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, page int)
		check   func(t *testing.T, err error)
	}{
		{
			name: "server error on second page",
			handler: func(w http.ResponseWriter, page int) {
				if page == 2 {
					w.WriteHeader(http.StatusBadGateway)
					fmt.Fprint(w, "upstream down")
					return
				}
				fmt.Fprintf(w, `{"documents": [{"id": "p%d"}]}`, page)
			},
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
				assert.Equal(t, "upstream down", statusErr.Body)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, page int) {
				fmt.Fprint(w, `{"documents": [`)
			},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "failed to decode search.json response")
			},
		},
		{
			name: "documents is not a list",
			handler: func(w http.ResponseWriter, page int) {
				fmt.Fprint(w, `{"documents": "none"}`)
			},
			check: func(t *testing.T, err error) {
				var typeErr *json.UnmarshalTypeError
				assert.True(t, errors.As(err, &typeErr))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseForm())
				page, _ := strconv.Atoi(r.PostForm.Get("page"))
				tt.handler(w, page)
			}))
			defer srv.Close()

			client := newTestClient(t, srv.URL)
			docs, err := client.Search(context.Background(), "salazar")
			require.Error(t, err)
			assert.Nil(t, docs)
			tt.check(t, err)
		})
	}
}

func TestSearchPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "3", r.PostForm.Get("page"))
		assert.Equal(t, "25", r.PostForm.Get("per_page"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		fmt.Fprint(w, `{"documents": [{"id": "x", "pages": 4}]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	records, err := client.SearchPage(context.Background(), "salazar", 3, 25)
	require.NoError(t, err)
	require.Len(t, records, 1)

	pages, err := records[0].GetInt("pages")
	require.NoError(t, err)
	assert.Equal(t, 4, pages)

	_, err = client.SearchPage(context.Background(), "salazar", 0, 25)
	assert.True(t, errors.Is(err, ErrInvalidPage))
}
