package op

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Record is one server-issued operation: a JSON object with a string "type".
// Records decoded from a batch may lack one; Type is then "".
// Records are immutable; With returns a modified copy.
type Record struct {
	typ string
	raw string
}

// Field is a single key/value pair of a JSON object, in document order.
type Field struct {
	Key   string
	Value gjson.Result
}

// Parse decodes a single record from JSON.
func Parse(data []byte) (Record, error) {
	if !gjson.ValidBytes(data) {
		return Record{}, fmt.Errorf("%w: invalid JSON", ErrNotObject)
	}
	return fromResult(gjson.ParseBytes(data))
}

func fromResult(res gjson.Result) (Record, error) {
	if !res.IsObject() {
		return Record{}, ErrNotObject
	}
	t := res.Get("type")
	if t.Type != gjson.String {
		return Record{}, ErrMissingType
	}
	return Record{typ: t.String(), raw: res.Raw}, nil
}

// New builds a record of the given type. Field values are encoded the way
// encoding/json would encode them. A "type" entry in fields is ignored.
func New(typeName string, fields map[string]any) (Record, error) {
	raw, err := sjson.Set("{}", "type", typeName)
	if err != nil {
		return Record{}, fmt.Errorf("op: set type: %w", err)
	}

	// Sorted so the synthesized JSON is deterministic.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != "type" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		raw, err = sjson.Set(raw, escapeKey(k), fields[k])
		if err != nil {
			return Record{}, fmt.Errorf("op: set %q: %w", k, err)
		}
	}
	return Record{typ: typeName, raw: raw}, nil
}

// MustNew is like New but panics on error. Intended for static records.
func MustNew(typeName string, fields map[string]any) Record {
	rec, err := New(typeName, fields)
	if err != nil {
		panic(err)
	}
	return rec
}

// Type returns the record's type name.
func (r Record) Type() string {
	return r.typ
}

// IsZero reports whether r is the zero Record.
func (r Record) IsZero() bool {
	return r.raw == ""
}

// Raw returns the record's JSON text, exactly as received or synthesized.
func (r Record) Raw() string {
	return r.raw
}

// Get returns the value at a gjson path (e.g. "coordinates.top").
func (r Record) Get(path string) gjson.Result {
	if r.raw == "" {
		return gjson.Result{}
	}
	return gjson.Get(r.raw, path)
}

// String returns a top-level field as a string; numbers and booleans are
// formatted, a missing field yields "".
func (r Record) String(field string) string {
	return r.Get(escapeKey(field)).String()
}

// Has reports whether a top-level field is present (including null).
func (r Record) Has(field string) bool {
	return r.Get(escapeKey(field)).Exists()
}

// Present reports whether a top-level field is present and not null, false
// or the empty string.
func (r Record) Present(field string) bool {
	v := r.Get(escapeKey(field))
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return v.Str != ""
	default:
		return v.Exists()
	}
}

// Fields returns the entries of the object at path in document order.
// A missing or non-object value yields nil.
func (r Record) Fields(path string) []Field {
	v := r.Get(path)
	if !v.IsObject() {
		return nil
	}
	var out []Field
	v.ForEach(func(key, value gjson.Result) bool {
		out = append(out, Field{Key: key.String(), Value: value})
		return true
	})
	return out
}

// With returns a copy of r with field set to value.
func (r Record) With(field string, value any) (Record, error) {
	raw := r.raw
	if raw == "" {
		raw = "{}"
	}
	raw, err := sjson.Set(raw, escapeKey(field), value)
	if err != nil {
		return Record{}, fmt.Errorf("op: set %q: %w", field, err)
	}
	out := Record{typ: r.typ, raw: raw}
	if field == "type" {
		if s, ok := value.(string); ok {
			out.typ = s
		}
	}
	return out, nil
}

// MarshalJSON returns the record's JSON text.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.raw == "" {
		return []byte("null"), nil
	}
	return []byte(r.raw), nil
}

// UnmarshalJSON decodes a record, enforcing the object-with-type shape.
func (r *Record) UnmarshalJSON(data []byte) error {
	rec, err := Parse(data)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// GoString implements fmt.GoStringer.
func (r Record) GoString() string {
	return fmt.Sprintf("op.Record(%s)", r.raw)
}

var keyEscaper = strings.NewReplacer(
	`\`, `\\`,
	".", `\.`,
	"*", `\*`,
	"?", `\?`,
	"|", `\|`,
	"#", `\#`,
	"@", `\@`,
)

// escapeKey turns a literal object key into a gjson/sjson path.
func escapeKey(key string) string {
	return keyEscaper.Replace(key)
}
