package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Entry is a single key/value pair of a Tree.
type Entry struct {
	Key   string
	Value any
}

// Tree is an insertion-ordered result mapping. Values are int, Percent,
// float64, string, bool or *Tree.
//
// A Tree is never mutated after construction; With returns an extended copy.
type Tree struct {
	entries []Entry
}

// NewTree builds a tree from the given entries, keeping their order.
// A repeated key replaces the earlier value in place.
func NewTree(entries ...Entry) *Tree {
	t := &Tree{}
	for _, e := range entries {
		t = t.With(e.Key, e.Value)
	}
	return t
}

// E is shorthand for constructing an Entry.
func E(key string, value any) Entry {
	return Entry{Key: key, Value: value}
}

// With returns a new tree containing the receiver's entries plus key=value.
// An existing key keeps its position and takes the new value.
func (t *Tree) With(key string, value any) *Tree {
	var n int
	if t != nil {
		n = len(t.entries)
	}
	out := &Tree{entries: make([]Entry, 0, n+1)}
	replaced := false
	if t != nil {
		for _, e := range t.entries {
			if e.Key == key {
				out.entries = append(out.entries, Entry{Key: key, Value: value})
				replaced = true
				continue
			}
			out.entries = append(out.entries, e)
		}
	}
	if !replaced {
		out.entries = append(out.entries, Entry{Key: key, Value: value})
	}
	return out
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (any, bool) {
	if t == nil {
		return nil, false
	}
	for _, e := range t.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (t *Tree) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Sub returns the nested tree stored under key.
func (t *Tree) Sub(key string) (*Tree, bool) {
	v, ok := t.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Tree)
	return sub, ok
}

// Int returns the integer stored under key.
func (t *Tree) Int(key string) (int, bool) {
	v, ok := t.Get(key)
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

// Text returns the string stored under key.
func (t *Tree) Text(key string) (string, bool) {
	v, ok := t.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Keys returns the keys in insertion order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (t *Tree) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of top-level entries.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Walk visits every scalar leaf depth-first with its dotted path.
func (t *Tree) Walk(fn func(path string, value any)) {
	t.walk("", fn)
}

func (t *Tree) walk(prefix string, fn func(string, any)) {
	for _, e := range t.Entries() {
		path := e.Key
		if prefix != "" {
			path = prefix + "." + e.Key
		}
		if sub, ok := e.Value.(*Tree); ok {
			sub.walk(path, fn)
			continue
		}
		fn(path, e.Value)
	}
}

// MarshalJSON renders the tree as a JSON object keeping key order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range t.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %q: %w", e.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Percent is a ratio already scaled to [0, 100] and rounded to two decimals.
type Percent float64

// NewPercent rounds v to two decimal places.
func NewPercent(v float64) Percent {
	return Percent(math.Round(v*100) / 100)
}

// String renders the percent with exactly two decimals.
func (p Percent) String() string {
	return strconv.FormatFloat(float64(p), 'f', 2, 64)
}

// MarshalJSON keeps the two-decimal rendering in JSON output.
func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// FormatScalar renders a leaf value as plain text.
func FormatScalar(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case Percent:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
