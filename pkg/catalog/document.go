package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ValidationError points at the product and field breaking the document schema
type ValidationError struct {
	Key    string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid product %q: %s %s", e.Key, e.Field, e.Reason)
}

// Write stores the catalog as indented JSON at path.
// The document goes to a temporary file next to path first and is renamed
// over path only when complete, so a failed run leaves the old document intact.
func Write(path string, c *Catalog) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal catalog: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("could not create temporary file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name()) // no-op after a successful rename
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("could not write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close catalog file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("could not set catalog permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not move catalog into place: %w", err)
	}

	return nil
}

// Load reads and validates the catalog document at path
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open catalog: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a catalog document and validates it.
// Unknown fields are rejected.
func Decode(r io.Reader) (*Catalog, error) {
	c := New()
	if err := json.NewDecoder(r).Decode(c); err != nil {
		return nil, fmt.Errorf("could not decode catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks the invariants of every product in the document
func (c *Catalog) Validate() error {
	for _, key := range c.Keys() {
		p, _ := c.Get(key)

		if p.Type == "" {
			return &ValidationError{Key: key, Field: "type", Reason: "is empty"}
		}
		if p.Name == "" {
			return &ValidationError{Key: key, Field: "name", Reason: "is empty"}
		}
		if expected := ProductKey(p.Type, p.Name); key != expected {
			return &ValidationError{Key: key, Field: "key", Reason: fmt.Sprintf("does not match %q", expected)}
		}
		if p.Price.IsNegative() {
			return &ValidationError{Key: key, Field: "price", Reason: "is negative"}
		}
		for _, color := range p.Colors.Names() {
			if len(p.Colors.Files(color)) == 0 {
				return &ValidationError{Key: key, Field: "colors." + color, Reason: "has no images"}
			}
		}
	}

	return nil
}
