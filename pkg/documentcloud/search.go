package documentcloud

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// searchResponse is the body of search.json.
type searchResponse struct {
	Documents []map[string]interface{} `json:"documents"`
}

// SearchPage retrieves one page of search results. page is 1-based.
func (c *Client) SearchPage(ctx context.Context, query string, page, perPage int) ([]Record, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidPage, page)
	}

	form := url.Values{}
	form.Set("q", query)
	form.Set("page", strconv.Itoa(page))
	form.Set("per_page", strconv.Itoa(perPage))

	var resp searchResponse
	if err := c.postJSON(ctx, "search.json", form, &resp); err != nil {
		return nil, fmt.Errorf("failed to search page %d: %w", page, err)
	}

	records := make([]Record, len(resp.Documents))
	for i, d := range resp.Documents {
		records[i] = NewRecord("Document", d)
	}
	return records, nil
}

// Search retrieves every document that matches query, in the order the
// server returns them.
//
// Pages of PerPage results are requested until the server returns an empty
// page. Any failure aborts the whole search and no partial result is
// returned. Unless MaxPages is set the loop relies on the server to end
// pagination; a page that repeats the previous one is treated as an error.
//
// Example usage:
//
//	docs, err := client.Search(ctx, "salazar")
func (c *Client) Search(ctx context.Context, query string) ([]*Document, error) {
	var (
		docs    []*Document
		lastIDs []string
	)

	for page := 1; ; page++ {
		if c.config.MaxPages > 0 && page > c.config.MaxPages {
			return nil, fmt.Errorf("%w: query %q still had results after %d pages",
				ErrPageLimit, query, c.config.MaxPages)
		}

		records, err := c.SearchPage(ctx, query, page, c.config.PerPage)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			c.logger.Info("search complete",
				"query", query,
				"pages", page,
				"documents", len(docs),
			)
			break
		}

		ids := pageIDs(records)
		if ids != nil && equalIDs(ids, lastIDs) {
			return nil, fmt.Errorf("%w: page %d of query %q", ErrRepeatedPage, page, query)
		}
		lastIDs = ids

		for _, r := range records {
			docs = append(docs, &Document{
				Record:    r,
				resources: newResource(r),
				fetcher:   c,
			})
		}
	}

	if docs == nil {
		docs = []*Document{}
	}
	return docs, nil
}

// pageIDs returns the document ids of a page, or nil when any record lacks
// one and the page cannot be compared.
func pageIDs(records []Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		id, err := r.GetString("id")
		if err != nil {
			return nil
		}
		ids[i] = id
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
