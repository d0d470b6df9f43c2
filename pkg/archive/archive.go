// Package archive saves DocumentCloud documents and their resources to a
// filesystem.
//
// Each document gets its own directory named after its id:
//
//	<dir>/<id>/document.json   decoded API record
//	<dir>/<id>/full.txt        full text
//	<dir>/<id>/pages/p<N>.txt  per-page text
//	<dir>/<id>/<id>.pdf        original PDF
//	<dir>/<id>/images/p<N>-<size><ext>
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/documentcloud/pkg/documentcloud"
)

// Options selects which resources are saved. The record itself is always
// saved.
type Options struct {
	FullText bool
	PageText bool
	PDF      bool

	// ImageSize saves one image per page at this size. Empty skips images.
	ImageSize documentcloud.ImageSize
}

// Validate checks the options.
func (o Options) Validate() error {
	sizes := make([]interface{}, len(documentcloud.ImageSizes))
	for i, s := range documentcloud.ImageSizes {
		sizes[i] = s
	}
	return validation.ValidateStruct(&o,
		validation.Field(&o.ImageSize, validation.In(sizes...)),
	)
}

// Archiver writes documents below a root directory.
type Archiver struct {
	fs     afero.Fs
	root   string
	opts   Options
	logger hclog.Logger
}

// Manifest lists what Save wrote for one document.
type Manifest struct {
	ID    string   `json:"id"`
	Dir   string   `json:"dir"`
	Files []string `json:"files"`
	Bytes int64    `json:"bytes"`
}

// New creates an archiver writing to root on fs.
func New(fs afero.Fs, root string, opts Options, logger hclog.Logger) (*Archiver, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid archive options: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &Archiver{
		fs:     fs,
		root:   root,
		opts:   opts,
		logger: logger.Named("archive"),
	}, nil
}

// Save writes doc and the selected resources. The record is written first;
// resource failures do not stop the remaining resources and are returned
// together.
func (a *Archiver) Save(ctx context.Context, doc *documentcloud.Document) (*Manifest, error) {
	id, err := doc.ID()
	if err != nil {
		return nil, err
	}

	m := &Manifest{ID: id, Dir: filepath.Join(a.root, safeName(id))}
	if err := a.fs.MkdirAll(m.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}

	record, err := json.MarshalIndent(doc.Map(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document %s: %w", id, err)
	}
	if err := a.write(m, "document.json", record); err != nil {
		return nil, err
	}

	var result *multierror.Error
	save := func(name string, fetch func() ([]byte, error)) {
		if ctx.Err() != nil {
			result = multierror.Append(result, ctx.Err())
			return
		}
		data, err := fetch()
		if err == nil {
			err = a.write(m, name, data)
		}
		if err != nil {
			a.logger.Warn("failed to save resource", "id", id, "file", name, "error", err)
			result = multierror.Append(result, fmt.Errorf("%s: %w", name, err))
		}
	}

	if a.opts.FullText {
		save("full.txt", func() ([]byte, error) { return doc.FullText(ctx) })
	}

	if a.opts.PDF {
		save(safeName(id)+".pdf", func() ([]byte, error) { return doc.PDF(ctx) })
	}

	if a.opts.PageText || a.opts.ImageSize != "" {
		pages, err := doc.Pages()
		if err != nil {
			result = multierror.Append(result, err)
			pages = 0
		}
		for page := 1; page <= pages; page++ {
			if a.opts.PageText {
				save(path.Join("pages", fmt.Sprintf("p%d.txt", page)), func() ([]byte, error) {
					return doc.PageText(ctx, page)
				})
			}
			if a.opts.ImageSize != "" {
				size := a.opts.ImageSize
				name := fmt.Sprintf("p%d-%s%s", page, size, imageExt(doc, size, page))
				save(path.Join("images", name), func() ([]byte, error) {
					return doc.Image(ctx, size, page)
				})
			}
		}
	}

	a.logger.Info("archived document", "id", id, "files", len(m.Files), "bytes", m.Bytes)

	return m, result.ErrorOrNil()
}

func (a *Archiver) write(m *Manifest, name string, data []byte) error {
	p := filepath.Join(m.Dir, filepath.FromSlash(name))
	if err := a.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := afero.WriteFile(a.fs, p, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	m.Files = append(m.Files, name)
	m.Bytes += int64(len(data))
	return nil
}

// imageExt returns the extension of the page image URL, ".gif" when the URL
// has none.
func imageExt(doc *documentcloud.Document, size documentcloud.ImageSize, page int) string {
	u, err := doc.ImageURL(size, page)
	if err != nil {
		return ".gif"
	}
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if ext := path.Ext(u); ext != "" {
		return ext
	}
	return ".gif"
}

// safeName makes an id usable as a single path element.
func safeName(id string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "..", "_")
	name := r.Replace(id)
	if name == "" || name == "." {
		return "_"
	}
	return name
}
