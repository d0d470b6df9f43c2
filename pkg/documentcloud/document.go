package documentcloud

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ImageSize is the size token substituted into a page image template.
type ImageSize string

const (
	ImageSmall     ImageSize = "small"
	ImageThumbnail ImageSize = "thumbnail"
	ImageLarge     ImageSize = "large"
)

// ImageSizes lists every size the API renders.
var ImageSizes = []ImageSize{ImageSmall, ImageThumbnail, ImageLarge}

// ParseImageSize validates a size token.
func ParseImageSize(s string) (ImageSize, error) {
	for _, size := range ImageSizes {
		if string(size) == s {
			return size, nil
		}
	}
	return "", fmt.Errorf("unknown image size %q (want small, thumbnail or large)", s)
}

// Fetcher retrieves the body of a resource URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

var errNoFetcher = errors.New("document was built without a client")

// Document is a document returned by the API.
//
// URL accessors only substitute into the resource templates and never touch
// the network. The accessors without a URL suffix perform exactly one GET.
type Document struct {
	Record

	resources Resource
	fetcher   Fetcher
}

// Info is the typed view of the common document fields.
type Info struct {
	ID                      string `mapstructure:"id" json:"id" yaml:"id"`
	Title                   string `mapstructure:"title" json:"title" yaml:"title"`
	Access                  string `mapstructure:"access" json:"access,omitempty" yaml:"access,omitempty"`
	Pages                   int    `mapstructure:"pages" json:"pages" yaml:"pages"`
	Description             string `mapstructure:"description" json:"description,omitempty" yaml:"description,omitempty"`
	Source                  string `mapstructure:"source" json:"source,omitempty" yaml:"source,omitempty"`
	Language                string `mapstructure:"language" json:"language,omitempty" yaml:"language,omitempty"`
	CanonicalURL            string `mapstructure:"canonical_url" json:"canonical_url,omitempty" yaml:"canonical_url,omitempty"`
	Contributor             string `mapstructure:"contributor" json:"contributor,omitempty" yaml:"contributor,omitempty"`
	ContributorOrganization string `mapstructure:"contributor_organization" json:"contributor_organization,omitempty" yaml:"contributor_organization,omitempty"`
	CreatedAt               string `mapstructure:"created_at" json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt               string `mapstructure:"updated_at" json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// NewDocument wraps a decoded document object. f is used by the fetching
// accessors and may be nil when only URLs are needed.
func NewDocument(f Fetcher, fields map[string]interface{}) *Document {
	rec := NewRecord("Document", fields)
	return &Document{
		Record:    rec,
		resources: newResource(rec),
		fetcher:   f,
	}
}

// Resources returns the nested resource templates.
func (d *Document) Resources() Resource {
	return d.resources
}

// ID returns the document id.
func (d *Document) ID() (string, error) {
	return d.GetString("id")
}

// Pages returns the page count. It fails unless pages is a positive integer.
func (d *Document) Pages() (int, error) {
	n, err := d.GetInt("pages")
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, &TypeError{Kind: d.kind, Key: "pages", Want: "positive integer", Got: n}
	}
	return n, nil
}

// Info decodes the common fields. Absent fields are left empty.
func (d *Document) Info() (*Info, error) {
	var info Info
	if err := d.Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CreatedAt parses the created_at timestamp.
func (d *Document) CreatedAt() (time.Time, error) {
	return d.GetTime("created_at")
}

// UpdatedAt parses the updated_at timestamp.
func (d *Document) UpdatedAt() (time.Time, error) {
	return d.GetTime("updated_at")
}

// FullTextURL returns the URL of the whole document's text.
func (d *Document) FullTextURL() (string, error) {
	return d.resources.Text()
}

// FullText downloads the whole document's text.
func (d *Document) FullText(ctx context.Context) ([]byte, error) {
	return d.fetchURL(ctx, d.FullTextURL)
}

// PageTextURL returns the text URL of a 1-based page.
func (d *Document) PageTextURL(page int) (string, error) {
	if page < 1 {
		return "", fmt.Errorf("%w, got %d", ErrInvalidPage, page)
	}
	template, err := d.resources.PageText()
	if err != nil {
		return "", err
	}
	return expand(template, page, ""), nil
}

// PageText downloads the text of a 1-based page.
func (d *Document) PageText(ctx context.Context, page int) ([]byte, error) {
	return d.fetchURL(ctx, func() (string, error) { return d.PageTextURL(page) })
}

// PDFURL returns the URL of the original PDF.
func (d *Document) PDFURL() (string, error) {
	return d.resources.PDF()
}

// PDF downloads the original PDF.
func (d *Document) PDF(ctx context.Context) ([]byte, error) {
	return d.fetchURL(ctx, d.PDFURL)
}

// ImageURL returns the image URL of a 1-based page at the given size.
func (d *Document) ImageURL(size ImageSize, page int) (string, error) {
	if page < 1 {
		return "", fmt.Errorf("%w, got %d", ErrInvalidPage, page)
	}
	if _, err := ParseImageSize(string(size)); err != nil {
		return "", err
	}
	template, err := d.resources.PageImage()
	if err != nil {
		return "", err
	}
	return expand(template, page, size), nil
}

// SmallImageURL returns the small image URL of a page.
func (d *Document) SmallImageURL(page int) (string, error) {
	return d.ImageURL(ImageSmall, page)
}

// ThumbnailImageURL returns the thumbnail image URL of a page.
func (d *Document) ThumbnailImageURL(page int) (string, error) {
	return d.ImageURL(ImageThumbnail, page)
}

// LargeImageURL returns the large image URL of a page.
func (d *Document) LargeImageURL(page int) (string, error) {
	return d.ImageURL(ImageLarge, page)
}

// ImageURLList returns one image URL per page, pages 1 through Pages.
func (d *Document) ImageURLList(size ImageSize) ([]string, error) {
	pages, err := d.Pages()
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, pages)
	for page := 1; page <= pages; page++ {
		u, err := d.ImageURL(size, page)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// SmallImageURLList returns the small image URL of every page.
func (d *Document) SmallImageURLList() ([]string, error) {
	return d.ImageURLList(ImageSmall)
}

// ThumbnailImageURLList returns the thumbnail image URL of every page.
func (d *Document) ThumbnailImageURLList() ([]string, error) {
	return d.ImageURLList(ImageThumbnail)
}

// LargeImageURLList returns the large image URL of every page.
func (d *Document) LargeImageURLList() ([]string, error) {
	return d.ImageURLList(ImageLarge)
}

// Image downloads the image of a 1-based page at the given size.
func (d *Document) Image(ctx context.Context, size ImageSize, page int) ([]byte, error) {
	return d.fetchURL(ctx, func() (string, error) { return d.ImageURL(size, page) })
}

// SmallImage downloads the small image of a page.
func (d *Document) SmallImage(ctx context.Context, page int) ([]byte, error) {
	return d.Image(ctx, ImageSmall, page)
}

// ThumbnailImage downloads the thumbnail image of a page.
func (d *Document) ThumbnailImage(ctx context.Context, page int) ([]byte, error) {
	return d.Image(ctx, ImageThumbnail, page)
}

// LargeImage downloads the large image of a page.
func (d *Document) LargeImage(ctx context.Context, page int) ([]byte, error) {
	return d.Image(ctx, ImageLarge, page)
}

func (d *Document) fetchURL(ctx context.Context, urlFn func() (string, error)) ([]byte, error) {
	u, err := urlFn()
	if err != nil {
		return nil, err
	}
	if d.fetcher == nil {
		return nil, errNoFetcher
	}
	return d.fetcher.Fetch(ctx, u)
}
