package gamedata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is a JSON object whose top-level key order survives a load/save cycle.
// Values are kept as raw JSON, so fields an operation does not touch are written
// back exactly as they were read.
type Record struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{fields: orderedmap.New[string, json.RawMessage]()}
}

// RecordOf converts v to a Record by round-tripping it through JSON.
// Struct fields keep their declaration order.
func RecordOf(v any) (*Record, error) {
	data, err := marshalNoEscape(v)
	if err != nil {
		return nil, err
	}
	r := NewRecord()
	if err := r.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return r, nil
}

// RecordFromMap builds a record from an unordered map. Keys listed in order come
// first in that order, remaining keys follow sorted by name.
func RecordFromMap(values map[string]any, order []string) (*Record, error) {
	r := NewRecord()
	for _, key := range orderedKeys(values, order) {
		if err := r.Set(key, values[key]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Record) ensure() {
	if r.fields == nil {
		r.fields = orderedmap.New[string, json.RawMessage]()
	}
}

// Len returns the number of top-level keys.
func (r *Record) Len() int {
	if r == nil || r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// Keys returns the top-level keys in document order.
func (r *Record) Keys() []string {
	if r == nil || r.fields == nil {
		return nil
	}
	keys := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Has reports whether key is present, even with a null value.
func (r *Record) Has(key string) bool {
	_, ok := r.Raw(key)
	return ok
}

// Raw returns the undecoded value stored under key.
func (r *Record) Raw(key string) (json.RawMessage, bool) {
	if r == nil || r.fields == nil {
		return nil, false
	}
	return r.fields.Get(key)
}

// Decode unmarshals the value under key into dst. It reports false when the key is absent.
func (r *Record) Decode(key string, dst any) (bool, error) {
	raw, ok := r.Raw(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("field %q: %w", key, err)
	}
	return true, nil
}

// Int returns the value under key when it is an integral JSON number.
func (r *Record) Int(key string) (int, bool) {
	raw, ok := r.Raw(key)
	if !ok {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	if n != math.Trunc(n) {
		return 0, false
	}
	return int(n), true
}

// String returns the value under key when it is a JSON string, and "" otherwise.
func (r *Record) String(key string) string {
	raw, ok := r.Raw(key)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Set stores v under key. An existing key keeps its position; a new key is appended.
func (r *Record) Set(key string, v any) error {
	data, err := marshalNoEscape(v)
	if err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	r.SetRaw(key, data)
	return nil
}

// SetRaw stores already encoded JSON under key.
func (r *Record) SetRaw(key string, raw json.RawMessage) {
	r.ensure()
	r.fields.Set(key, raw)
}

// Merge overwrites every key present in updates, including keys whose value is nil.
// Keys absent from updates are left untouched. New keys are appended in sorted order.
func (r *Record) Merge(updates map[string]any) error {
	for _, key := range orderedKeys(updates, r.Keys()) {
		if err := r.Set(key, updates[key]); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := NewRecord()
	if r == nil || r.fields == nil {
		return c
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		raw := make(json.RawMessage, len(pair.Value))
		copy(raw, pair.Value)
		c.fields.Set(pair.Key, raw)
	}
	return c
}

// MarshalJSON writes keys in document order. HTML characters are not escaped, so
// note tags such as <param:1> survive unchanged.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if r != nil && r.fields != nil {
		first := true
		for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false

			key, err := marshalNoEscape(pair.Key)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')

			value := pair.Value
			if len(value) == 0 {
				value = json.RawMessage("null")
			}
			buf.Write(value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the record content with the given JSON object. A JSON null
// leaves the record empty.
func (r *Record) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		r.fields = orderedmap.New[string, json.RawMessage]()
		return nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("expected JSON object")
	}
	fields := orderedmap.New[string, json.RawMessage]()
	if err := fields.UnmarshalJSON(trimmed); err != nil {
		return err
	}
	r.fields = fields
	return nil
}

// marshalNoEscape encodes v without HTML escaping and without a trailing newline.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// orderedKeys returns the keys of values: first those listed in order, then the rest sorted.
func orderedKeys(values map[string]any, order []string) []string {
	keys := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, key := range order {
		if _, ok := values[key]; ok && !seen[key] {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	var rest []string
	for key := range values {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
