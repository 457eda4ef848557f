package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Catalog is the generated product document: product key -> Product.
// Keys keep the order in which the builder discovered them.
type Catalog struct {
	products orderedMap[Product]
}

type Product struct {
	Type   string          `json:"type"` // category directory name
	Name   string          `json:"name"` // product line directory name
	Price  decimal.Decimal `json:"price"`
	Colors Colors          `json:"colors"`
}

// Colors maps a color name to its image filenames in enumeration order
type Colors struct {
	files orderedMap[[]string]
}

func New() *Catalog {
	return &Catalog{}
}

// Set stores p under key and reports whether an earlier product was replaced
func (c *Catalog) Set(key string, p Product) bool {
	return c.products.set(key, p)
}

func (c *Catalog) Get(key string) (Product, bool) {
	return c.products.get(key)
}

// Keys returns product keys in document order
func (c *Catalog) Keys() []string {
	return c.products.orderedKeys()
}

func (c *Catalog) Len() int {
	return c.products.len()
}

func (c Catalog) MarshalJSON() ([]byte, error) {
	return c.products.MarshalJSON()
}

func (c *Catalog) UnmarshalJSON(data []byte) error {
	return c.products.UnmarshalJSON(data)
}

// MarshalJSON writes the price as a JSON number instead of the quoted
// string decimal.Decimal produces by default.
func (p Product) MarshalJSON() ([]byte, error) {
	type product struct {
		Type   string      `json:"type"`
		Name   string      `json:"name"`
		Price  json.Number `json:"price"`
		Colors Colors      `json:"colors"`
	}

	return json.Marshal(product{
		Type:   p.Type,
		Name:   p.Name,
		Price:  json.Number(p.Price.String()),
		Colors: p.Colors,
	})
}

// Add appends file to the color, creating the color on first use
func (c *Colors) Add(color, file string) {
	files, _ := c.files.get(color)
	c.files.set(color, append(files, file))
}

// Names returns color names in stored order
func (c Colors) Names() []string {
	return c.files.orderedKeys()
}

func (c Colors) Files(color string) []string {
	files, _ := c.files.get(color)
	return files
}

func (c Colors) Has(color string) bool {
	_, ok := c.files.get(color)
	return ok
}

func (c Colors) Len() int {
	return c.files.len()
}

// First returns the first color and its files, ok is false without colors
func (c Colors) First() (string, []string, bool) {
	if c.files.len() == 0 {
		return "", nil, false
	}

	color := c.files.keys[0]
	return color, c.Files(color), true
}

func (c Colors) MarshalJSON() ([]byte, error) {
	return c.files.MarshalJSON()
}

func (c *Colors) UnmarshalJSON(data []byte) error {
	return c.files.UnmarshalJSON(data)
}
