package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/voltcrew/voltcrewdesigns/pkg/utils"
)

// FallbackSwatch is used for color names missing in the swatch table
const FallbackSwatch = "rgba(204,204,204,1)"

// Shop holds the tables content authors edit without touching code:
// category prices, product titles and color swatches.
type Shop struct {
	FallbackPrice decimal.Decimal
	Prices        map[string]decimal.Decimal // lowercased category -> price
	DisplayNames  map[string]string          // product key -> title
	Swatches      map[string]string          // normalized color name -> css color
}

type shopFile struct {
	FallbackPrice *float64           `yaml:"fallback_price"`
	Prices        map[string]float64 `yaml:"prices"`
	DisplayNames  map[string]string  `yaml:"display_names"`
	Swatches      map[string]string  `yaml:"swatches"`
}

func DefaultShop() *Shop {
	return &Shop{
		FallbackPrice: decimal.NewFromInt(50),
		Prices: map[string]decimal.Decimal{
			"tee":        decimal.NewFromFloat(55.5),
			"hoodies":    decimal.NewFromFloat(75.5),
			"longsleeve": decimal.NewFromFloat(65.5),
			"crewneck":   decimal.NewFromFloat(70.5),
		},
		DisplayNames: map[string]string{},
		Swatches: map[string]string{
			"black":                "rgba(0,0,0,1)",
			"darkchocolate":        "rgba(56,41,38,1)",
			"militarygreen":        "rgba(88,92,69,1)",
			"darkgrey":             "rgba(85,85,85,1)",
			"forest":               "rgba(34,139,34,1)",
			"forestgreen":          "rgba(37,58,41,1)",
			"maroon":               "rgba(128,0,0,1)",
			"royal":                "rgba(65,105,225,1)",
			"navy":                 "rgba(0,0,128,1)",
			"charcoal":             "rgba(54,69,79,1)",
			"graphiteheather":      "rgba(130,128,131,1)",
			"darkheather":          "rgba(71,71,73,1)",
			"heathersportdarknavy": "rgba(58,61,70,1)",
		},
	}
}

// LoadShop reads the yaml shop file at path on top of DefaultShop.
// A missing file is not an error, the defaults are returned.
func LoadShop(path string) (*Shop, error) {
	shop := DefaultShop()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return shop, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read shop config: %w", err)
	}

	if err := shop.apply(data); err != nil {
		return nil, fmt.Errorf("invalid shop config %s: %w", path, err)
	}

	return shop, nil
}

func (s *Shop) apply(data []byte) error {
	var file shopFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("could not unmarshal yaml: %w", err)
	}

	if file.FallbackPrice != nil {
		if *file.FallbackPrice < 0 {
			return fmt.Errorf("fallback_price must not be negative, got %v", *file.FallbackPrice)
		}
		s.FallbackPrice = decimal.NewFromFloat(*file.FallbackPrice)
	}

	// an explicit price table replaces the built-in one
	if file.Prices != nil {
		s.Prices = make(map[string]decimal.Decimal, len(file.Prices))
		for category, price := range file.Prices {
			if price < 0 {
				return fmt.Errorf("price for %q must not be negative, got %v", category, price)
			}
			s.Prices[strings.ToLower(category)] = decimal.NewFromFloat(price)
		}
	}

	for key, name := range file.DisplayNames {
		s.DisplayNames[strings.ToLower(key)] = name
	}

	for color, value := range file.Swatches {
		s.Swatches[utils.NormalizeName(color)] = value
	}

	return nil
}

// PriceFor returns the configured price of a category or the fallback price
func (s *Shop) PriceFor(category string) decimal.Decimal {
	if price, ok := s.Prices[strings.ToLower(category)]; ok {
		return price
	}

	return s.FallbackPrice
}

// DisplayName returns the configured title of a product, or fallback when none is set
func (s *Shop) DisplayName(key, fallback string) string {
	if name, ok := s.DisplayNames[strings.ToLower(key)]; ok && name != "" {
		return name
	}

	return fallback
}

// Swatch returns the css color of a color name
func (s *Shop) Swatch(color string) string {
	if value, ok := s.Swatches[utils.NormalizeName(color)]; ok {
		return value
	}

	return FallbackSwatch
}
