package documentcloud

import (
	"strconv"
	"strings"
)

const (
	pagePlaceholder = "{page}"
	sizePlaceholder = "{size}"
)

// Resource holds the URLs and URL templates attached to a Document.
type Resource struct {
	Record
}

func newResource(parent Record) Resource {
	r, err := parent.GetRecord("resources")
	if err != nil {
		// Missing resources fail on first access with the dotted key.
		return Resource{Record: Record{kind: parent.kind, prefix: "resources.", fields: map[string]interface{}{}}}
	}
	return Resource{Record: r}
}

// Text returns the full-text URL.
func (r Resource) Text() (string, error) {
	return r.GetString("text")
}

// PDF returns the PDF URL.
func (r Resource) PDF() (string, error) {
	return r.GetString("pdf")
}

// Thumbnail returns the URL of the first page thumbnail.
func (r Resource) Thumbnail() (string, error) {
	return r.GetString("thumbnail")
}

// PageText returns the page text template, containing {page}.
func (r Resource) PageText() (string, error) {
	page, err := r.GetRecord("page")
	if err != nil {
		return "", err
	}
	return page.GetString("text")
}

// PageImage returns the page image template, containing {page} and {size}.
func (r Resource) PageImage() (string, error) {
	page, err := r.GetRecord("page")
	if err != nil {
		return "", err
	}
	return page.GetString("image")
}

func (r Resource) String() string {
	return "<Resources>"
}

// expand substitutes the page number and, when size is non-empty, the size
// token into template.
func expand(template string, page int, size ImageSize) string {
	url := strings.ReplaceAll(template, pagePlaceholder, strconv.Itoa(page))
	if size != "" {
		url = strings.ReplaceAll(url, sizePlaceholder, string(size))
	}
	return url
}
