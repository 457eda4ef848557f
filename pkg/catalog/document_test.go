package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goes20() Product {
	p := Product{
		Type:  "tee",
		Name:  "goes20",
		Price: decimal.NewFromFloat(55.5),
	}
	p.Colors.Add("black", "tee_black_1.jpg")
	p.Colors.Add("black", "tee_black_2.jpg")
	p.Colors.Add("dark grey", "tee_dark_grey_1.png")

	return p
}

func TestMarshalKeepsOrderAndNumericPrice(t *testing.T) {
	c := New()
	c.Set("tee-goes20", goes20())
	c.Set("crewneck-law", Product{Type: "crewneck", Name: "law", Price: decimal.NewFromInt(50)})

	data, err := json.Marshal(c)
	require.NoError(t, err)

	expected := `{"tee-goes20":{"type":"tee","name":"goes20","price":55.5,` +
		`"colors":{"black":["tee_black_1.jpg","tee_black_2.jpg"],"dark grey":["tee_dark_grey_1.png"]}},` +
		`"crewneck-law":{"type":"crewneck","name":"law","price":50,"colors":{}}}`
	assert.JSONEq(t, expected, string(data))
	assert.Less(t, strings.Index(string(data), "tee-goes20"), strings.Index(string(data), "crewneck-law"))
}

func TestDecodeKeepsDocumentOrder(t *testing.T) {
	doc := `{
  "tee-zeta": {"type": "tee", "name": "zeta", "price": 55.5, "colors": {"white": ["a_white_1.png"], "black": ["a_black_1.png"]}},
  "tee-alpha": {"type": "tee", "name": "alpha", "price": "55.5", "colors": {"black": ["b_black_1.png"]}}
}`

	c, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"tee-zeta", "tee-alpha"}, c.Keys())
	zeta, _ := c.Get("tee-zeta")
	assert.Equal(t, []string{"white", "black"}, zeta.Colors.Names())

	color, files, ok := zeta.Colors.First()
	assert.True(t, ok)
	assert.Equal(t, "white", color)
	assert.Equal(t, []string{"a_white_1.png"}, files)

	alpha, _ := c.Get("tee-alpha")
	assert.True(t, decimal.NewFromFloat(55.5).Equal(alpha.Price))
}

func TestDecodeRejectsBrokenDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not_json", `{"tee-goes20": `},
		{"array", `[]`},
		{"null", `null`},
		{"unknown_field", `{"tee-a": {"type": "tee", "name": "a", "price": 1, "colors": {}, "stock": 3}}`},
		{"duplicate_key", `{"tee-a": {"type": "tee", "name": "a", "price": 1, "colors": {}}, "tee-a": {"type": "tee", "name": "a", "price": 1, "colors": {}}}`},
		{"colors_not_object", `{"tee-a": {"type": "tee", "name": "a", "price": 1, "colors": ["black"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeValidation(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"empty_type", `{"-a": {"type": "", "name": "a", "price": 1, "colors": {}}}`, "type"},
		{"empty_name", `{"tee-": {"type": "tee", "name": "", "price": 1, "colors": {}}}`, "name"},
		{"wrong_key", `{"tee-b": {"type": "tee", "name": "a", "price": 1, "colors": {}}}`, "key"},
		{"negative_price", `{"tee-a": {"type": "tee", "name": "a", "price": -1, "colors": {}}}`, "price"},
		{"empty_color", `{"tee-a": {"type": "tee", "name": "a", "price": 1, "colors": {"black": []}}}`, "colors.black"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestWriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photos.json")

	c := New()
	c.Set("tee-goes20", goes20())
	require.NoError(t, Write(path, c))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"tee-goes20\": {\n")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.Keys(), loaded.Keys())

	product, _ := loaded.Get("tee-goes20")
	assert.Equal(t, []string{"tee_black_1.jpg", "tee_black_2.jpg"}, product.Colors.Files("black"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is gone")
}

func TestWriteIntoMissingDirFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "photos.json")
	assert.Error(t, Write(path, New()))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "photos.json"))
	assert.Error(t, err)
}
