package catalog

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltcrew/voltcrewdesigns/pkg/config"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestBuilder(policy config.CollisionPolicy) *Builder {
	return NewBuilder(config.DefaultShop(), policy, testLogger())
}

func file() *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("img")}
}

func TestBuildGoes20(t *testing.T) {
	fsys := fstest.MapFS{
		"tee/goes20/tee_black_1.jpg":     file(),
		"tee/goes20/tee_black_2.jpg":     file(),
		"tee/goes20/tee_dark_grey_1.png": file(),
		"photos.json":                    file(), // files at the top level are not categories
	}

	c, report, err := newTestBuilder(config.CollisionWarn).Build(fsys)
	require.NoError(t, err)

	assert.Equal(t, []string{"tee-goes20"}, c.Keys())
	product, ok := c.Get("tee-goes20")
	require.True(t, ok)

	assert.Equal(t, "tee", product.Type)
	assert.Equal(t, "goes20", product.Name)
	assert.True(t, decimal.NewFromFloat(55.5).Equal(product.Price))
	assert.Equal(t, []string{"black", "dark grey"}, product.Colors.Names())
	assert.Equal(t, []string{"tee_black_1.jpg", "tee_black_2.jpg"}, product.Colors.Files("black"))
	assert.Equal(t, []string{"tee_dark_grey_1.png"}, product.Colors.Files("dark grey"))

	assert.Equal(t, 1, report.Products)
	assert.Equal(t, 3, report.Images)
	assert.Empty(t, report.Warnings)
}

func TestBuildSkipsMalformedAndNonImages(t *testing.T) {
	fsys := fstest.MapFS{
		"hoodies/wheelies/hoodie_black_1.png": file(),
		"hoodies/wheelies/hoodie_1.png":       file(),
		"hoodies/wheelies/notes.txt":          file(),
		"hoodies/wheelies/cover.jpg":          file(),
	}

	c, report, err := newTestBuilder(config.CollisionWarn).Build(fsys)
	require.NoError(t, err)

	product, ok := c.Get("hoodies-wheelies")
	require.True(t, ok)
	assert.Equal(t, []string{"black"}, product.Colors.Names())
	assert.Equal(t, []string{"hoodie_black_1.png"}, product.Colors.Files("black"))

	for _, color := range product.Colors.Names() {
		assert.NotContains(t, product.Colors.Files(color), "hoodie_1.png")
		assert.NotContains(t, product.Colors.Files(color), "cover.jpg")
	}

	assert.Equal(t, 2, report.Count(WarningMalformedFilename))
	assert.Equal(t, "hoodies/wheelies/cover.jpg", report.Warnings[0].Path)
	assert.Equal(t, "hoodies/wheelies/hoodie_1.png", report.Warnings[1].Path)
}

func TestBuildPriceLookup(t *testing.T) {
	fsys := fstest.MapFS{
		"Crewneck/law/crew_black_1.png":  file(),
		"socks/stripes/sock_red_1.png":   file(),
		"tee/goes20/tee_black_1.png":     file(),
		"hoodies/wheelies/h_black_1.jpg": file(),
	}

	c, _, err := newTestBuilder(config.CollisionWarn).Build(fsys)
	require.NoError(t, err)

	tests := []struct {
		key   string
		price float64
	}{
		{"crewneck-law", 70.5},
		{"socks-stripes", 50},
		{"tee-goes20", 55.5},
		{"hoodies-wheelies", 75.5},
	}

	for _, tt := range tests {
		product, ok := c.Get(tt.key)
		require.True(t, ok, tt.key)
		assert.True(t, decimal.NewFromFloat(tt.price).Equal(product.Price), "%s: got %s", tt.key, product.Price)
	}
}

func TestBuildKeysAreLowercaseAndOrdered(t *testing.T) {
	fsys := fstest.MapFS{
		"Tee/Goes20/tee_black_1.png":      file(),
		"hoodies/SpeedLimit/h_navy_1.png": file(),
		"hoodies/Wheelies/h_navy_1.png":   file(),
	}

	c, _, err := newTestBuilder(config.CollisionWarn).Build(fsys)
	require.NoError(t, err)

	// directory listing order is by name, upper case sorts first
	assert.Equal(t, []string{"tee-goes20", "hoodies-speedlimit", "hoodies-wheelies"}, c.Keys())
	for _, key := range c.Keys() {
		p, _ := c.Get(key)
		assert.Equal(t, ProductKey(p.Type, p.Name), key)
	}
}

func TestBuildEmptyProductIsKept(t *testing.T) {
	fsys := fstest.MapFS{
		"tee/blank/readme.md": file(),
	}

	c, report, err := newTestBuilder(config.CollisionWarn).Build(fsys)
	require.NoError(t, err)

	product, ok := c.Get("tee-blank")
	require.True(t, ok)
	assert.Equal(t, 0, product.Colors.Len())
	assert.Equal(t, 1, report.Count(WarningEmptyProduct))
}

func TestBuildCollisionWarnOverwrites(t *testing.T) {
	fsys := fstest.MapFS{
		"tee/GOES20/tee_black_1.png": file(),
		"tee/goes20/tee_white_1.png": file(),
		"tee/other/tee_red_1.png":    file(),
	}

	c, report, err := newTestBuilder(config.CollisionWarn).Build(fsys)
	require.NoError(t, err)

	assert.Equal(t, []string{"tee-goes20", "tee-other"}, c.Keys(), "overwritten product keeps its position")
	product, _ := c.Get("tee-goes20")
	assert.Equal(t, "goes20", product.Name)
	assert.Equal(t, []string{"white"}, product.Colors.Names())
	assert.Equal(t, 1, report.Count(WarningKeyCollision))
}

func TestBuildCollisionFail(t *testing.T) {
	fsys := fstest.MapFS{
		"tee/GOES20/tee_black_1.png": file(),
		"tee/goes20/tee_white_1.png": file(),
	}

	c, report, err := newTestBuilder(config.CollisionFail).Build(fsys)
	assert.ErrorIs(t, err, ErrKeyCollision)
	assert.Nil(t, c)
	assert.Nil(t, report)
}

func TestBuildDirMissingRoot(t *testing.T) {
	_, _, err := newTestBuilder(config.CollisionWarn).BuildDir(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestBuildDirOnDisk(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "longsleeve", "willrun")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range []string{"ls_forest_green_2.png", "ls_forest_green_1.png", "ls_maroon_1.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o600))
	}

	c, _, err := newTestBuilder(config.CollisionWarn).BuildDir(root)
	require.NoError(t, err)

	product, ok := c.Get("longsleeve-willrun")
	require.True(t, ok)
	assert.Equal(t, []string{"forest green", "maroon"}, product.Colors.Names())
	assert.Equal(t, []string{"ls_forest_green_1.png", "ls_forest_green_2.png"}, product.Colors.Files("forest green"))
	assert.True(t, decimal.NewFromFloat(65.5).Equal(product.Price))
}
