package cart

import (
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltcrew/voltcrewdesigns/pkg/catalog"
	"github.com/voltcrew/voltcrewdesigns/pkg/prometheus"
	"github.com/voltcrew/voltcrewdesigns/pkg/store"
)

func goes20() catalog.Product {
	p := catalog.Product{
		Type:  "tee",
		Name:  "goes20",
		Price: decimal.NewFromFloat(55.5),
	}
	p.Colors.Add("black", "tee_black_1.jpg")
	p.Colors.Add("black", "tee_black_2.jpg")
	p.Colors.Add("dark grey", "tee_dark_grey_1.png")

	return p
}

func newTestCart(storage store.Storage) *Cart {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return New(storage, prometheus.New(), logger)
}

// failingStore refuses every write
type failingStore struct {
	*store.FakeStore
}

func (s *failingStore) SetCart(_ string, _ []store.CartEntry) error {
	return errors.New("storage is down")
}

func TestAddToEmptyCart(t *testing.T) {
	c := newTestCart(store.NewFakeStore())

	entry, err := c.Add("session", "tee-goes20", goes20(), "black", "M")
	require.NoError(t, err)

	assert.Equal(t, store.CartEntry{
		ID:    "tee-goes20",
		Type:  "tee",
		Name:  "goes20",
		Color: "black",
		Size:  "M",
		Price: goes20().Price,
		Img:   "tee_black_1.jpg",
	}, entry)

	items, err := c.Items("session")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, goes20().Price.Equal(Total(items)))
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name  string
		color string
		size  string
		err   error
	}{
		{"no_color", "", "M", ErrColorRequired},
		{"no_size", "black", "", ErrSizeRequired},
		{"nothing", "", "", ErrColorRequired},
		{"unknown_color", "pink", "M", ErrUnknownColor},
		{"unknown_size", "black", "XXXL", ErrUnknownSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCart(store.NewFakeStore())

			_, err := c.Add("session", "tee-goes20", goes20(), tt.color, tt.size)
			assert.ErrorIs(t, err, tt.err)

			items, err := c.Items("session")
			require.NoError(t, err)
			assert.Empty(t, items, "failed validation must not touch the cart")
		})
	}
}

func TestAddDuplicatesAreSeparateLines(t *testing.T) {
	c := newTestCart(store.NewFakeStore())

	for i := 0; i < 2; i++ {
		_, err := c.Add("session", "tee-goes20", goes20(), "dark grey", "L")
		require.NoError(t, err)
	}

	items, err := c.Items("session")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "tee_dark_grey_1.png", items[1].Img)
	assert.True(t, decimal.NewFromInt(111).Equal(Total(items)))
}

func TestAddStorageFailure(t *testing.T) {
	c := newTestCart(&failingStore{FakeStore: store.NewFakeStore()})

	_, err := c.Add("session", "tee-goes20", goes20(), "black", "M")
	assert.Error(t, err)
}

func TestRemove(t *testing.T) {
	c := newTestCart(store.NewFakeStore())
	for _, color := range []string{"black", "dark grey", "black"} {
		_, err := c.Add("session", "tee-goes20", goes20(), color, "S")
		require.NoError(t, err)
	}

	require.NoError(t, c.Remove("session", 1))

	items, err := c.Items("session")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "black", items[0].Color)
	assert.Equal(t, "black", items[1].Color)

	assert.ErrorIs(t, c.Remove("session", 2), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.Remove("session", -1), ErrIndexOutOfRange)
}

func TestRemoveAt(t *testing.T) {
	entries := []store.CartEntry{{Color: "a"}, {Color: "b"}, {Color: "c"}, {Color: "d"}}

	for i := range entries {
		out, err := RemoveAt(entries, i)
		require.NoError(t, err)
		require.Len(t, out, len(entries)-1)

		var expected []store.CartEntry
		expected = append(expected, entries[:i]...)
		expected = append(expected, entries[i+1:]...)
		assert.Equal(t, expected, out)
	}

	assert.Len(t, entries, 4, "input is not modified")
	assert.Equal(t, "b", entries[1].Color)
}

func TestClear(t *testing.T) {
	c := newTestCart(store.NewFakeStore())
	_, err := c.Add("session", "tee-goes20", goes20(), "black", "XL")
	require.NoError(t, err)

	require.NoError(t, c.Clear("session"))

	items, err := c.Items("session")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTotalEmpty(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(Total(nil)))
}
