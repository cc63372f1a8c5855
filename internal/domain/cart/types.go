// Package cart defines the server-authoritative cart snapshot model.
//
// A Cart is always a wholesale copy of the last successful server response.
// The client never recomputes totals, item counts, or prices locally; those
// fields are owned by the backend and mirrored verbatim.
package cart

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
)

// Product is the product snapshot embedded in a cart line.
type Product struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  float64  `json:"price"`
	Stock  int      `json:"stock"`
	SKU    string   `json:"sku"`
	Images []string `json:"images,omitempty"`
	Active bool     `json:"active"`
}

// Item is a single cart line: a product snapshot plus quantity and the
// server-computed line total.
type Item struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	ItemTotal float64 `json:"itemTotal"`
}

// Cart is the complete server cart snapshot.
type Cart struct {
	ID        string  `json:"cartId"`
	Items     []Item  `json:"items"`
	ItemCount int     `json:"itemCount"`
	Total     float64 `json:"total"`
}

// Empty returns a cart with no items, used as the local state after logout
// or a clear operation when the server returns no body.
func Empty() *Cart {
	return &Cart{Items: []Item{}}
}

// Fingerprint returns a fast deterministic hash of the snapshot, used to
// detect whether a server response actually changed the local state.
func (c *Cart) Fingerprint() uint64 {
	if c == nil {
		return 0
	}
	data, err := json.Marshal(c)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}
