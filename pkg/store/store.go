package store

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartEntry is one line of a cart. The same product may appear several times,
// entries have no identity beyond their position.
type CartEntry struct {
	ID    string          `json:"id"` // product key
	Type  string          `json:"type"`
	Name  string          `json:"name"`
	Color string          `json:"color"`
	Size  string          `json:"size"`
	Price decimal.Decimal `json:"price"`
	Img   string          `json:"img"` // first filename of the color
}

// MarshalJSON keeps the price a JSON number
func (e CartEntry) MarshalJSON() ([]byte, error) {
	type entry CartEntry
	return json.Marshal(struct {
		entry
		Price json.Number `json:"price"`
	}{
		entry: entry(e),
		Price: json.Number(e.Price.String()),
	})
}

// Storage keeps one cart per browser session
type Storage interface {
	GetCart(session string) ([]CartEntry, error) // get cart entries in order, empty when unknown
	SetCart(session string, entries []CartEntry) error
	ClearCart(session string) error
}

func cartKey(session string) string {
	return "cart:" + session
}
