// Package value defines the loosely-shaped values produced by recipe detectors.
//
// A Value is a closed union over absent, text, number, list and map. Detectors
// build values from JSON-LD, hydration payloads and microdata; the normalizer
// consumes them. Accessors never panic on a shape mismatch, they return the
// zero result for the requested shape instead.
package value

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Kind identifies which member of the union a Value holds.
type Kind int

const (
	Absent Kind = iota
	KindText
	KindNumber
	KindList
	KindMap
)

// String returns a readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "absent"
	}
}

// Value is a raw value. The zero Value is absent.
type Value struct {
	kind  Kind
	text  string
	num   float64
	items []Value
	keys  map[string]Value
}

// Text returns a text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// List returns a list value. A nil list is still a (empty) list.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, items: items}
}

// Map returns a map value.
func Map(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMap, keys: m}
}

// Kind reports the member of the union held by v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v carries no value.
func (v Value) IsAbsent() bool { return v.kind == Absent }

// AsText returns the text and true when v is a text value.
func (v Value) AsText() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// AsNumber returns the number and true when v is a numeric value.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Items returns the elements of a list value, or nil for any other kind.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.items
}

// IsList reports whether v is a list.
func (v Value) IsList() bool { return v.kind == KindList }

// IsMap reports whether v is a map.
func (v Value) IsMap() bool { return v.kind == KindMap }

// Get returns the value stored under key, or an absent value when v is not a
// map or has no such key.
func (v Value) Get(key string) Value {
	if v.kind != KindMap {
		return Value{}
	}
	return v.keys[key]
}

// Has reports whether v is a map containing key with a non-absent value.
func (v Value) Has(key string) bool {
	return !v.Get(key).IsAbsent()
}

// First returns the first non-absent value among keys.
func (v Value) First(keys ...string) Value {
	for _, k := range keys {
		if got := v.Get(k); !got.IsAbsent() {
			return got
		}
	}
	return Value{}
}

// Path walks nested maps along keys.
func (v Value) Path(keys ...string) Value {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
		if cur.IsAbsent() {
			return cur
		}
	}
	return cur
}

// Keys returns the map keys of v in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.keys))
	for k := range v.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of list elements or map entries.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.items)
	case KindMap:
		return len(v.keys)
	default:
		return 0
	}
}

// FormatNumber renders n in its shortest decimal form.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// MarshalJSON renders v as JSON. Absent values render as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// Interface converts v into plain Go values (string, float64, []any,
// map[string]any or nil).
func (v Value) Interface() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.num
	case KindList:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.keys))
		for k, item := range v.keys {
			out[k] = item.Interface()
		}
		return out
	default:
		return nil
	}
}
