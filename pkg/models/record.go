package models

import (
	"encoding/json"
	"strconv"
)

// Record is one untyped object from an input collection. Any field may be
// missing or carry an unexpected type.
type Record map[string]any

// String returns the field as text. Missing and null fields give "",
// numbers and booleans give their JSON text, objects and arrays give "".
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// Has reports whether key is present with a non-null value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Records keeps the object elements of a decoded JSON array and drops
// everything else.
func Records(raw []any) []Record {
	out := make([]Record, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}
