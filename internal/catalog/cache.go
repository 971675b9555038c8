package catalog

import "sync"

// Cache keeps two views of the product catalog: the last full (unfiltered)
// listing and the listing currently displayed, which may be the result of a
// search. Both are replaced wholesale on every successful fetch; nothing is
// patched in place.
type Cache struct {
	mu        sync.RWMutex
	all       []Product
	displayed []Product
	noMatches bool
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// ReplaceAll installs a fresh unfiltered catalog. The displayed listing is
// reset to the full catalog and any previous no-match state is cleared.
func (c *Cache) ReplaceAll(products []Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = clone(products)
	c.displayed = clone(products)
	c.noMatches = false
}

// ReplaceDisplayed installs a fresh search result as the displayed listing
// and clears the no-match state. The full catalog is untouched.
func (c *Cache) ReplaceDisplayed(products []Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.displayed = clone(products)
	c.noMatches = false
}

// MarkNoMatches records that the latest search matched nothing server-side.
// The displayed listing is cleared; the full catalog is untouched so cart
// reconciliation keeps working against it.
func (c *Cache) MarkNoMatches() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.displayed = nil
	c.noMatches = true
}

// All returns a copy of the last full catalog fetch.
func (c *Cache) All() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.all)
}

// Displayed returns a copy of the listing currently shown to the visitor.
func (c *Cache) Displayed() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.displayed)
}

// NoMatches reports whether the latest search came back empty. Distinct from
// a transport failure, which leaves the previous listing in place.
func (c *Cache) NoMatches() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.noMatches
}

func clone(products []Product) []Product {
	if len(products) == 0 {
		return nil
	}
	out := make([]Product, len(products))
	copy(out, products)
	return out
}
