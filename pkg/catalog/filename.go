package catalog

import (
	"regexp"
	"strings"
)

var reImageExt = regexp.MustCompile(`(?i)\.(png|jpg|jpeg)$`)

// IsImage reports whether the filename carries one of the catalog image extensions
func IsImage(filename string) bool {
	return reImageExt.MatchString(filename)
}

// ParseFilename extracts the color from a filename of the form
// product_color tokens_index.ext, e.g. tee_dark_grey_1.png -> "dark grey".
// The whole filename is split on underscores, the first token (product)
// and the last one (index with extension) are dropped.
// ok is false when the filename has fewer than three tokens.
func ParseFilename(filename string) (string, bool) {
	parts := strings.Split(filename, "_")
	if len(parts) < 3 {
		return "", false
	}

	return strings.ToLower(strings.Join(parts[1:len(parts)-1], " ")), true
}

// ProductKey builds the catalog key of a product line, e.g. tee-goes20
func ProductKey(category, productLine string) string {
	return strings.ToLower(category + "-" + productLine)
}
