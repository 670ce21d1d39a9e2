package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one member of an OrderedObject.
type Field struct {
	Key   string
	Value json.RawMessage
}

// OrderedObject is a JSON object that keeps its members in document order,
// so pass-through tools can rewrite one field without reshuffling the rest.
type OrderedObject []Field

// String returns the member as a string; ok is false when it is missing or
// not a JSON string.
func (o OrderedObject) String(key string) (s string, ok bool) {
	for _, f := range o {
		if f.Key != key {
			continue
		}
		if err := json.Unmarshal(f.Value, &s); err != nil {
			return "", false
		}
		return s, true
	}
	return "", false
}

// SetString replaces the member or appends it at the end.
func (o *OrderedObject) SetString(key, value string) error {
	raw, err := MarshalPlain(value)
	if err != nil {
		return err
	}
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = raw
			return nil
		}
	}
	*o = append(*o, Field{Key: key, Value: raw})
	return nil
}

func (o OrderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := MarshalPlain(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		if len(f.Value) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(f.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *OrderedObject) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	var out OrderedObject
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("member %q: %w", key, err)
		}
		out = append(out, Field{Key: key, Value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}
