// Package catalog holds the most recently fetched product listings. The
// backend owns the product records; this cache only ever replaces its
// collections wholesale after a successful fetch.
package catalog

// Product is a single purchasable catalog entry as returned by the backend.
// Products are created and destroyed server-side; the client treats them as
// read-only for the lifetime of a session.
type Product struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`
	Rating   int     `json:"rating"`
	Image    string  `json:"image"`
}
