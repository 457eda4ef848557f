package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/sirupsen/logrus"

	"github.com/voltcrew/voltcrewdesigns/pkg/config"
)

var ErrKeyCollision = errors.New("product key collision")

type WarningKind string

const (
	WarningMalformedFilename WarningKind = "malformed_filename" // fewer than three underscore tokens
	WarningEmptyProduct      WarningKind = "empty_product"      // product line without a usable image
	WarningKeyCollision      WarningKind = "key_collision"      // product overwritten by a later one
)

type Warning struct {
	Kind    WarningKind `json:"kind"`
	Path    string      `json:"path"`
	Message string      `json:"message"`
}

// Report collects what the builder skipped or overwrote
type Report struct {
	Products int
	Images   int
	Warnings []Warning
}

func (r *Report) warn(kind WarningKind, p, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, Warning{
		Kind:    kind,
		Path:    p,
		Message: fmt.Sprintf(format, args...),
	})
}

// Count returns the number of warnings of the kind
func (r *Report) Count(kind WarningKind) int {
	n := 0
	for _, w := range r.Warnings {
		if w.Kind == kind {
			n++
		}
	}

	return n
}

// Builder turns a category/product-line/image tree into a Catalog
type Builder struct {
	shop   *config.Shop
	policy config.CollisionPolicy
	logger *logrus.Logger
}

func NewBuilder(shop *config.Shop, policy config.CollisionPolicy, logger *logrus.Logger) *Builder {
	return &Builder{
		shop:   shop,
		policy: policy,
		logger: logger,
	}
}

// BuildDir builds the catalog of the tree rooted at the directory root
func (b *Builder) BuildDir(root string) (*Catalog, *Report, error) {
	return b.Build(os.DirFS(root))
}

// Build walks fsys: every directory at the top level is a category,
// every directory inside a category is a product line holding the images.
// Any directory read error aborts the build, nothing partial is returned.
func (b *Builder) Build(fsys fs.FS) (*Catalog, *Report, error) {
	c := New()
	report := &Report{}

	categories, err := subdirs(fsys, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("could not read catalog root: %w", err)
	}

	for _, category := range categories {
		lines, err := subdirs(fsys, category)
		if err != nil {
			return nil, nil, fmt.Errorf("could not read category %s: %w", category, err)
		}

		for _, line := range lines {
			product, err := b.buildProduct(fsys, category, line, report)
			if err != nil {
				return nil, nil, err
			}

			key := ProductKey(category, line)
			if _, exists := c.Get(key); exists {
				if b.policy == config.CollisionFail {
					return nil, nil, fmt.Errorf("%w: %s/%s maps to %s", ErrKeyCollision, category, line, key)
				}
				report.warn(WarningKeyCollision, path.Join(category, line), "product %s overwritten", key)
			}

			c.Set(key, product)
		}
	}

	report.Products = c.Len()
	return c, report, nil
}

func (b *Builder) buildProduct(fsys fs.FS, category, line string, report *Report) (Product, error) {
	dir := path.Join(category, line)
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return Product{}, fmt.Errorf("could not read product line %s: %w", dir, err)
	}

	product := Product{
		Type:  category,
		Name:  line,
		Price: b.shop.PriceFor(category),
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !IsImage(name) {
			b.logger.WithFields(logrus.Fields{
				"path": path.Join(dir, name),
			}).Debug("Skipping non-image entry")
			continue
		}

		color, ok := ParseFilename(name)
		if !ok {
			report.warn(WarningMalformedFilename, path.Join(dir, name), "expected product_color_index.ext")
			continue
		}

		product.Colors.Add(color, name)
		report.Images++
	}

	if product.Colors.Len() == 0 {
		report.warn(WarningEmptyProduct, dir, "no usable images")
	}

	return product, nil
}

// subdirs lists directory names inside dir in enumeration order.
// Symlinks are followed, other entries are ignored.
func subdirs(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := fs.Stat(fsys, path.Join(dir, entry.Name()))
			if err != nil {
				return nil, err
			}
			isDir = info.IsDir()
		}

		if isDir {
			dirs = append(dirs, entry.Name())
		}
	}

	return dirs, nil
}
