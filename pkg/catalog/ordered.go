package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// orderedMap is a string keyed map remembering insertion order.
// It encodes to and decodes from a JSON object keeping that order,
// which plain Go maps cannot do.
type orderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// set stores v under key and reports whether key already existed.
// An existing key keeps its original position.
func (m *orderedMap[V]) set(key string, v V) bool {
	if m.values == nil {
		m.values = map[string]V{}
	}

	_, exists := m.values[key]
	if !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v

	return exists
}

func (m *orderedMap[V]) get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *orderedMap[V]) len() int {
	return len(m.keys)
}

func (m *orderedMap[V]) orderedKeys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

func (m orderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("could not marshal key %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')

		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, fmt.Errorf("could not marshal value of %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (m *orderedMap[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	m.keys = nil
	m.values = map[string]V{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}

		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("could not decode %q: %w", key, err)
		}

		if m.set(key, v) {
			return fmt.Errorf("duplicate key %q", key)
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	return nil
}
