package documentcloud

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeFixture decodes src the way the client decodes API responses.
func decodeFixture(t *testing.T, src string) map[string]interface{} {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(src)))
	dec.UseNumber()
	var m map[string]interface{}
	require.NoError(t, dec.Decode(&m))
	return m
}

func TestRecord_Getters(t *testing.T) {
	r := NewRecord("Document", decodeFixture(t, `{
		"id": "1-report",
		"title": "Report",
		"pages": 12,
		"ratio": 1.5,
		"published": true,
		"created_at": "Fri, 04 Dec 2009 15:22:18 +0000",
		"page": {"text": "http://x/p{page}.txt"},
		"description": null
	}`))

	assert.Equal(t, []string{"created_at", "description", "id", "page", "pages", "published", "ratio", "title"}, r.Keys())
	assert.Equal(t, 8, r.Len())
	assert.True(t, r.Has("description"), "null values are still fields")
	assert.False(t, r.Has("access"))

	id, err := r.GetString("id")
	require.NoError(t, err)
	assert.Equal(t, "1-report", id)

	pages, err := r.GetInt("pages")
	require.NoError(t, err)
	assert.Equal(t, 12, pages)

	published, err := r.GetBool("published")
	require.NoError(t, err)
	assert.True(t, published)

	created, err := r.GetTime("created_at")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2009, 12, 4, 15, 22, 18, 0, time.UTC), created.UTC())

	page, err := r.GetRecord("page")
	require.NoError(t, err)
	text, err := page.GetString("text")
	require.NoError(t, err)
	assert.Equal(t, "http://x/p{page}.txt", text)
}

func TestRecord_MissingField(t *testing.T) {
	r := NewRecord("Document", map[string]interface{}{
		"page": map[string]interface{}{},
	})

	_, err := r.GetString("title")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFieldNotFound))

	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "Document", fieldErr.Kind)
	assert.Equal(t, "title", fieldErr.Key)

	page, err := r.GetRecord("page")
	require.NoError(t, err)
	_, err = page.GetString("image")
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "page.image", fieldErr.Key, "nested keys are dotted")
}

func TestRecord_WrongType(t *testing.T) {
	r := NewRecord("Document", decodeFixture(t, `{"title": 3, "pages": "many", "ratio": 1.5, "page": "x"}`))

	tests := []struct {
		name string
		fn   func() error
	}{
		{"int from string", func() error { _, err := r.GetInt("pages"); return err }},
		{"int from fraction", func() error { _, err := r.GetInt("ratio"); return err }},
		{"bool from number", func() error { _, err := r.GetBool("title"); return err }},
		{"record from string", func() error { _, err := r.GetRecord("page"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			var typeErr *TypeError
			assert.True(t, errors.As(err, &typeErr), "got %v", err)
			assert.False(t, errors.Is(err, ErrFieldNotFound))
		})
	}

	// JSON numbers read as strings keep their decimal form.
	title, err := r.GetString("title")
	require.NoError(t, err)
	assert.Equal(t, "3", title)
}

func TestRecord_Describe(t *testing.T) {
	r := NewRecord("Project", map[string]interface{}{"title": "Salazar files"})

	s, err := r.Describe()
	require.NoError(t, err)
	assert.Equal(t, "<Project: Salazar files>", s)
	assert.Equal(t, "<Project: Salazar files>", r.String())

	untitled := NewRecord("Project", map[string]interface{}{"id": "7"})
	_, err = untitled.Describe()
	assert.True(t, errors.Is(err, ErrFieldNotFound))
	assert.Equal(t, "<Project>", untitled.String())
}

func TestRecord_Require(t *testing.T) {
	r := NewRecord("Document", map[string]interface{}{"id": "1"})

	assert.NoError(t, r.Require("id"))

	err := r.Require("id", "title", "pages")
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)
	assert.Contains(t, err.Error(), `"title"`)
	assert.Contains(t, err.Error(), `"pages"`)
}

func TestRecord_Map(t *testing.T) {
	r := NewRecord("Document", decodeFixture(t, `{"pages": 2, "ratio": 0.5, "tags": [1, "a"], "resources": {"count": 3}}`))

	m := r.Map()
	assert.Equal(t, int64(2), m["pages"])
	assert.Equal(t, 0.5, m["ratio"])
	assert.Equal(t, []interface{}{int64(1), "a"}, m["tags"])
	assert.Equal(t, map[string]interface{}{"count": int64(3)}, m["resources"])

	// The copy is independent of the record.
	m["pages"] = int64(99)
	pages, err := r.GetInt("pages")
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
}

func TestRecord_ZeroValue(t *testing.T) {
	var r Record
	assert.Empty(t, r.Keys())
	assert.Empty(t, r.Map())
	_, err := r.Get("anything")
	assert.True(t, errors.Is(err, ErrFieldNotFound))
}
