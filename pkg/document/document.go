// Package document holds the in-memory model of the data being edited: an
// ordered tree of mappings, sequences and scalars, plus field paths into it.
package document

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Value is any node of a document tree. Valid dynamic types are Map, []any,
// string, int64, float64, bool and nil.
type Value = any

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key   string
	Value Value
}

// Map is an ordered mapping. Keys keep the order they were inserted in.
type Map []Entry

// Get returns the value stored under key.
func (m Map) Get(key string) (Value, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Set replaces the value under key, or appends a new entry when absent.
func (m Map) Set(key string, value Value) Map {
	for i, e := range m {
		if e.Key == key {
			m[i].Value = value
			return m
		}
	}
	return append(m, Entry{Key: key, Value: value})
}

// Keys returns the keys in insertion order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for _, e := range m {
		keys = append(keys, e.Key)
	}
	return keys
}

// Equal reports whether a and b are the same document. Mapping key order is
// significant.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i].Key != bv[i].Key || !Equal(av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return false
		}
		if math.IsNaN(av) && math.IsNaN(bv) {
			return true
		}
		return av == bv
	default:
		return a == b
	}
}

// ToJSONModel converts a document into the generic model used by JSON schema
// validators: map[string]any, []any and json.Number for numbers.
func ToJSONModel(v Value) any {
	switch t := v.(type) {
	case Map:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = ToJSONModel(e.Value)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ToJSONModel(item)
		}
		return out
	case int64:
		return json.Number(strconv.FormatInt(t, 10))
	case float64:
		return json.Number(strconv.FormatFloat(t, 'g', -1, 64))
	default:
		return t
	}
}

// Normalize converts values produced by third-party decoders into the
// document model. Ordered maps are expected to already be Maps; plain Go maps
// lose their order and get their keys stringified.
func Normalize(v any) Value {
	switch t := v.(type) {
	case nil, string, bool, int64, float64:
		return t
	case Map:
		out := make(Map, 0, len(t))
		for _, e := range t {
			out = append(out, Entry{Key: e.Key, Value: Normalize(e.Value)})
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case map[string]any:
		out := make(Map, 0, len(t))
		for _, k := range sortedKeys(t) {
			out = append(out, Entry{Key: k, Value: Normalize(t[k])})
		}
		return out
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return uintValue(uint64(t))
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		return uintValue(t)
	case float32:
		return float64(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func uintValue(u uint64) Value {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}
