package storefront

import (
	"context"
	"errors"
	"html/template"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/voltcrew/voltcrewdesigns/pkg/cart"
	"github.com/voltcrew/voltcrewdesigns/pkg/catalog"
	"github.com/voltcrew/voltcrewdesigns/pkg/config"
	"github.com/voltcrew/voltcrewdesigns/pkg/images"
	"github.com/voltcrew/voltcrewdesigns/pkg/prometheus"
	"github.com/voltcrew/voltcrewdesigns/pkg/store"
)

// Placeholder is shown wherever an image could not be resolved
const Placeholder = "/assets/placeholder.svg"

// Storefront builds the page view models from a catalog loaded once at startup
type Storefront struct {
	catalog  *catalog.Catalog
	shop     *config.Shop
	resolver *images.Resolver
	tracker  *GalleryTracker
	monitor  *prometheus.Monitor
	logger   *logrus.Logger
}

type Card struct {
	Key   string
	Title string
	Price string
	Image string
	Link  string
}

type GridView struct {
	Cards []Card
}

type Swatch struct {
	Name     string
	Color    template.CSS
	Selected bool
	Link     string
	Fragment string // gallery fragment of this color
}

type SizeOption struct {
	Label    string
	Selected bool
	Link     string
}

type DetailView struct {
	Key           string
	Title         string
	Price         string
	Swatches      []Swatch
	Sizes         []SizeOption
	SelectedColor string
	SelectedSize  string
	Gallery       []string
	Message       string // validation failure shown to the shopper
	Added         bool
}

type CartLine struct {
	Index int
	Title string
	Color string
	Size  string
	Price string
	Image string
}

type CartView struct {
	Lines      []CartLine
	Total      string
	CheckedOut bool
}

func New(
	c *catalog.Catalog,
	shop *config.Shop,
	resolver *images.Resolver,
	monitor *prometheus.Monitor,
	logger *logrus.Logger,
) *Storefront {
	return &Storefront{
		catalog:  c,
		shop:     shop,
		resolver: resolver,
		tracker:  NewGalleryTracker(),
		monitor:  monitor,
		logger:   logger,
	}
}

func (s *Storefront) Catalog() *catalog.Catalog {
	return s.catalog
}

// Product looks a product up by its key
func (s *Storefront) Product(key string) (catalog.Product, bool) {
	return s.catalog.Get(key)
}

// Grid renders one card per product in document order.
// Products whose first image cannot be resolved get the placeholder.
func (s *Storefront) Grid(ctx context.Context) GridView {
	keys := s.catalog.Keys()
	cards := make([]Card, len(keys))

	for i, key := range keys {
		product, _ := s.catalog.Get(key)

		image := Placeholder
		if _, files, ok := product.Colors.First(); ok {
			image = s.resolveOrPlaceholder(ctx, product.Type, product.Name, files[0])
		}

		cards[i] = Card{
			Key:   key,
			Title: s.shop.DisplayName(key, product.Name),
			Price: FormatPrice(product.Price),
			Image: image,
			Link:  productLink(key, "", ""),
		}
	}

	return GridView{Cards: cards}
}

// Detail renders the product page. ok is false for an unknown key.
// An empty or unknown color selects the first color of the product.
func (s *Storefront) Detail(ctx context.Context, key, color, size string) (DetailView, bool) {
	product, ok := s.catalog.Get(key)
	if !ok {
		return DetailView{}, false
	}

	if !product.Colors.Has(color) {
		color, _, _ = product.Colors.First()
	}
	if !isSize(size) {
		size = ""
	}

	view := DetailView{
		Key:           key,
		Title:         s.shop.DisplayName(key, product.Name),
		Price:         FormatPrice(product.Price),
		SelectedColor: color,
		SelectedSize:  size,
		Gallery:       s.resolveGallery(ctx, product, color),
	}

	for _, name := range product.Colors.Names() {
		view.Swatches = append(view.Swatches, Swatch{
			Name:     name,
			Color:    template.CSS(s.shop.Swatch(name)), // trusted, from the shop config
			Selected: name == color,
			Link:     productLink(key, name, size),
			Fragment: GalleryLink(key, name),
		})
	}

	for _, label := range cart.Sizes {
		view.Sizes = append(view.Sizes, SizeOption{
			Label:    label,
			Selected: label == size,
			Link:     productLink(key, color, label),
		})
	}

	return view, true
}

// Gallery renders the gallery of a color for the session's latest selection.
// A render overtaken by a newer one of the same session returns ErrSuperseded.
func (s *Storefront) Gallery(ctx context.Context, session, key, color string) ([]string, error) {
	product, ok := s.catalog.Get(key)
	if !ok {
		return nil, errors.New("unknown product")
	}
	if !product.Colors.Has(color) {
		color, _, _ = product.Colors.First()
	}

	ctx, ticket := s.tracker.Begin(ctx, session)
	gallery := s.resolveGallery(ctx, product, color)

	if !s.tracker.Commit(ticket) {
		s.monitor.GallerySuperseded.WithLabelValues().Inc()
		s.logger.WithFields(logrus.Fields{
			"item":  key,
			"color": color,
		}).Debug("Discarding superseded gallery")
		return nil, ErrSuperseded
	}

	return gallery, nil
}

// Cart renders the cart lines and their total
func (s *Storefront) Cart(ctx context.Context, entries []store.CartEntry, checkedOut bool) CartView {
	view := CartView{
		Lines:      make([]CartLine, len(entries)),
		Total:      FormatPrice(cart.Total(entries)),
		CheckedOut: checkedOut,
	}

	for i, e := range entries {
		view.Lines[i] = CartLine{
			Index: i,
			Title: s.shop.DisplayName(e.ID, e.Name),
			Color: e.Color,
			Size:  e.Size,
			Price: FormatPrice(e.Price),
			Image: s.resolveOrPlaceholder(ctx, e.Type, e.Name, e.Img),
		}
	}

	return view
}

func (s *Storefront) resolveGallery(ctx context.Context, product catalog.Product, color string) []string {
	return s.resolver.ResolveAll(ctx, product.Type, product.Name, GalleryOrder(product, color))
}

func (s *Storefront) resolveOrPlaceholder(ctx context.Context, category, productLine, name string) string {
	p, err := s.resolver.Resolve(ctx, category, productLine, name)
	if err != nil {
		return Placeholder
	}

	return p
}

func isSize(size string) bool {
	for _, s := range cart.Sizes {
		if s == size {
			return true
		}
	}

	return false
}

func productLink(key, color, size string) string {
	q := url.Values{}
	q.Set("item", key)
	if color != "" {
		q.Set("color", color)
	}
	if size != "" {
		q.Set("size", size)
	}

	return "/product?" + q.Encode()
}

// GalleryLink is the fragment endpoint the product page script calls
func GalleryLink(key, color string) string {
	q := url.Values{}
	q.Set("item", key)
	q.Set("color", color)
	return "/product/gallery?" + q.Encode()
}

// ParseIndex parses the position of a cart entry from a form value
func ParseIndex(s string) (int, error) {
	return strconv.Atoi(s)
}
