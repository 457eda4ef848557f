package cart

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/voltcrew/voltcrewdesigns/pkg/catalog"
	"github.com/voltcrew/voltcrewdesigns/pkg/prometheus"
	"github.com/voltcrew/voltcrewdesigns/pkg/store"
)

// Sizes offered for every product
var Sizes = []string{"S", "M", "L", "XL"}

var (
	ErrColorRequired   = errors.New("please select a color")
	ErrSizeRequired    = errors.New("please select a size")
	ErrUnknownColor    = errors.New("color is not available for this product")
	ErrUnknownSize     = errors.New("size is not available")
	ErrIndexOutOfRange = errors.New("cart index out of range")
)

// Cart edits the carts kept in storage.
// Every read-modify-write runs under one lock, writers in other
// processes sharing the storage can still overwrite each other.
type Cart struct {
	mux     sync.Mutex
	store   store.Storage
	monitor *prometheus.Monitor
	logger  *logrus.Logger
}

func New(storage store.Storage, monitor *prometheus.Monitor, logger *logrus.Logger) *Cart {
	return &Cart{
		mux:     sync.Mutex{},
		store:   storage,
		monitor: monitor,
		logger:  logger,
	}
}

// Validate checks a color and size selection against the product
func Validate(product catalog.Product, color, size string) error {
	if color == "" {
		return ErrColorRequired
	}
	if size == "" {
		return ErrSizeRequired
	}
	if !product.Colors.Has(color) || len(product.Colors.Files(color)) == 0 {
		return ErrUnknownColor
	}
	if !slices.Contains(Sizes, size) {
		return ErrUnknownSize
	}

	return nil
}

// Add appends the selected product variant to the session's cart.
// Nothing is stored when the selection is incomplete or invalid.
func (c *Cart) Add(session, key string, product catalog.Product, color, size string) (store.CartEntry, error) {
	if err := Validate(product, color, size); err != nil {
		return store.CartEntry{}, err
	}

	entry := store.CartEntry{
		ID:    key,
		Type:  product.Type,
		Name:  product.Name,
		Color: color,
		Size:  size,
		Price: product.Price,
		Img:   product.Colors.Files(color)[0],
	}

	c.mux.Lock()
	defer c.mux.Unlock()

	entries, err := c.store.GetCart(session)
	if err != nil {
		return store.CartEntry{}, fmt.Errorf("could not load cart: %w", err)
	}

	if err := c.store.SetCart(session, append(entries, entry)); err != nil {
		return store.CartEntry{}, fmt.Errorf("could not save cart: %w", err)
	}

	c.monitor.CartAdditions.WithLabelValues().Inc()
	c.logger.WithFields(logrus.Fields{
		"item":  key,
		"color": color,
		"size":  size,
	}).Info("Added to cart")

	return entry, nil
}

// Remove deletes the entry at index, the other entries keep their order
func (c *Cart) Remove(session string, index int) error {
	c.mux.Lock()
	defer c.mux.Unlock()

	entries, err := c.store.GetCart(session)
	if err != nil {
		return fmt.Errorf("could not load cart: %w", err)
	}

	entries, err = RemoveAt(entries, index)
	if err != nil {
		return err
	}

	if err := c.store.SetCart(session, entries); err != nil {
		return fmt.Errorf("could not save cart: %w", err)
	}

	c.monitor.CartRemovals.WithLabelValues().Inc()
	return nil
}

func (c *Cart) Items(session string) ([]store.CartEntry, error) {
	entries, err := c.store.GetCart(session)
	if err != nil {
		return nil, fmt.Errorf("could not load cart: %w", err)
	}

	return entries, nil
}

func (c *Cart) Clear(session string) error {
	c.mux.Lock()
	defer c.mux.Unlock()

	if err := c.store.ClearCart(session); err != nil {
		return fmt.Errorf("could not clear cart: %w", err)
	}

	return nil
}

// RemoveAt returns a copy of entries without the one at index
func RemoveAt(entries []store.CartEntry, index int) ([]store.CartEntry, error) {
	if index < 0 || index >= len(entries) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(entries))
	}

	out := make([]store.CartEntry, 0, len(entries)-1)
	out = append(out, entries[:index]...)
	return append(out, entries[index+1:]...), nil
}

// Total sums entry prices, duplicates count once per line
func Total(entries []store.CartEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Price)
	}

	return total
}
