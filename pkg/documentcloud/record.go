package documentcloud

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/araddon/dateparse"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
)

// Record is a read-only view of one JSON object returned by the API.
//
// Fields are exactly the keys of the decoded object. Nothing is validated
// when a Record is built; typed getters fail with a *FieldError when the key
// is absent and a *TypeError when the value has the wrong JSON type.
type Record struct {
	kind   string
	prefix string
	fields map[string]interface{}
}

// NewRecord wraps fields. kind names the wrapper in error messages.
func NewRecord(kind string, fields map[string]interface{}) Record {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return Record{kind: kind, fields: fields}
}

// Kind returns the wrapper name used in errors and String.
func (r Record) Kind() string {
	return r.kind
}

// Keys returns the field names in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Has reports whether key is present, even with a null value.
func (r Record) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

// Get returns the raw decoded value for key.
func (r Record) Get(key string) (interface{}, error) {
	v, ok := r.fields[key]
	if !ok {
		return nil, r.missing(key)
	}
	return v, nil
}

// GetString returns a string field.
func (r Record) GetString(key string) (string, error) {
	v, err := r.Get(key)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	}
	return "", r.mistyped(key, "string", v)
}

// GetInt returns an integer field. Floating point values are accepted only
// when they have no fractional part.
func (r Record) GetInt(key string) (int, error) {
	v, err := r.Get(key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, r.mistyped(key, "integer", v)
		}
		return int(i), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, r.mistyped(key, "integer", v)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	}
	return 0, r.mistyped(key, "integer", v)
}

// GetBool returns a boolean field.
func (r Record) GetBool(key string) (bool, error) {
	v, err := r.Get(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, r.mistyped(key, "boolean", v)
	}
	return b, nil
}

// GetTime parses a timestamp field. The API has used several layouts over
// time, so any layout dateparse understands is accepted.
func (r Record) GetTime(key string) (time.Time, error) {
	s, err := r.GetString(key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s field %q: %w", r.kind, r.path(key), err)
	}
	return t, nil
}

// GetRecord returns a nested object field as a Record of the same kind.
func (r Record) GetRecord(key string) (Record, error) {
	v, err := r.Get(key)
	if err != nil {
		return Record{}, err
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return Record{}, r.mistyped(key, "object", v)
	}
	return Record{kind: r.kind, prefix: r.path(key) + ".", fields: m}, nil
}

// Title returns the title field, the human-readable form of a record.
func (r Record) Title() (string, error) {
	return r.GetString("title")
}

// Describe renders the record as "<Kind: title>". It fails when the record
// has no title.
func (r Record) Describe() (string, error) {
	title, err := r.Title()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<%s: %s>", r.kind, title), nil
}

// String implements fmt.Stringer. Records without a title render as
// "<Kind>"; use Describe to get the error instead.
func (r Record) String() string {
	s, err := r.Describe()
	if err != nil {
		return "<" + r.kind + ">"
	}
	return s
}

// Require reports every key in keys that is absent.
func (r Record) Require(keys ...string) error {
	var result *multierror.Error
	for _, k := range keys {
		if !r.Has(k) {
			result = multierror.Append(result, r.missing(k))
		}
	}
	return result.ErrorOrNil()
}

// Decode copies the record into out, which must be a pointer to a struct
// with mapstructure tags.
func (r Record) Decode(out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(r.fields); err != nil {
		return fmt.Errorf("failed to decode %s: %w", r.kind, err)
	}
	return nil
}

// Map returns a deep copy of the fields with JSON numbers converted to
// int64 or float64, suitable for re-encoding.
func (r Record) Map() map[string]interface{} {
	return plainValue(r.fields).(map[string]interface{})
}

func (r Record) path(key string) string {
	return r.prefix + key
}

func (r Record) missing(key string) error {
	return &FieldError{Kind: r.kind, Key: r.path(key)}
}

func (r Record) mistyped(key, want string, got interface{}) error {
	return &TypeError{Kind: r.kind, Key: r.path(key), Want: want, Got: got}
}

func plainValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = plainValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	}
	return v
}
