// Package cart maintains the visitor's shopping cart: the sparse record the
// backend owns, the reconciliation that joins it against the catalog, and the
// mutator that persists changes remotely before reflecting them locally.
package cart

import (
	"github.com/oakmart/storefront-web/internal/backend"
	"github.com/oakmart/storefront-web/internal/catalog"
)

// Entry is the backend's view of one cart line. The ordered sequence of
// entries returned by the backend is the single source of truth for what is
// in the cart; the client only ever replaces it wholesale.
type Entry = backend.Entry

// Item is a display-ready cart line: the full product record merged with the
// quantity from the sparse entry. Items are recomputed on every pass and
// never mutated in place.
type Item struct {
	catalog.Product
	ProductID string
	Qty       int
}

// Reconcile joins the sparse cart record against the product catalog,
// preserving entry order. Entries whose product is absent from the catalog
// yield nothing; this tolerates transient skew between a fresh cart and a
// stale catalog (or vice versa). Entries with a non-positive quantity are
// dropped even though the backend contract never sends them.
func Reconcile(entries []Entry, products []catalog.Product) []Item {
	if len(entries) == 0 || len(products) == 0 {
		return nil
	}

	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if entry.Qty <= 0 {
			continue
		}
		product, ok := byID[entry.ProductID]
		if !ok {
			continue
		}
		items = append(items, Item{
			Product:   product,
			ProductID: entry.ProductID,
			Qty:       entry.Qty,
		})
	}
	if len(items) == 0 {
		return nil
	}
	return items
}

// TotalValue returns the grand total of the reconciled cart. It is always
// recomputed from the items rather than maintained incrementally.
func TotalValue(items []Item) float64 {
	var total float64
	for _, item := range items {
		total += float64(item.Qty) * item.Cost
	}
	return total
}

// TotalItems returns the sum of quantities across the reconciled cart.
func TotalItems(items []Item) int {
	var total int
	for _, item := range items {
		total += item.Qty
	}
	return total
}
