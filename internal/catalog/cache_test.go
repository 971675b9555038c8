package catalog_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/oakmart/storefront-web/internal/catalog"
)

func sampleProducts() []catalog.Product {
	return []catalog.Product{
		{ID: "v4sLtEcMpzabRyfx", Name: "iPhone XR", Category: "Phones", Cost: 100, Rating: 4, Image: "https://example.com/phone.jpg"},
		{ID: "upLK9JbQ4rMhTwt4", Name: "Basketball", Category: "Sports", Cost: 100, Rating: 5, Image: "https://example.com/ball.jpg"},
	}
}

func TestCacheReplaceAll(t *testing.T) {
	t.Parallel()

	cache := catalog.NewCache()
	require.Empty(t, cache.All())
	require.Empty(t, cache.Displayed())

	products := sampleProducts()
	cache.ReplaceAll(products)

	if diff := cmp.Diff(products, cache.All()); diff != "" {
		t.Fatalf("full catalog mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(products, cache.Displayed()); diff != "" {
		t.Fatalf("displayed catalog mismatch (-want +got):\n%s", diff)
	}
	require.False(t, cache.NoMatches())
}

func TestCacheReplaceDisplayedKeepsFullCatalog(t *testing.T) {
	t.Parallel()

	cache := catalog.NewCache()
	products := sampleProducts()
	cache.ReplaceAll(products)

	filtered := products[:1]
	cache.ReplaceDisplayed(filtered)

	require.Len(t, cache.Displayed(), 1)
	require.Len(t, cache.All(), 2)
	require.False(t, cache.NoMatches())
}

func TestCacheMarkNoMatches(t *testing.T) {
	t.Parallel()

	cache := catalog.NewCache()
	cache.ReplaceAll(sampleProducts())

	cache.MarkNoMatches()

	require.Empty(t, cache.Displayed())
	require.True(t, cache.NoMatches())
	// Reconciliation still needs the full catalog while a search shows nothing.
	require.Len(t, cache.All(), 2)

	cache.ReplaceDisplayed(sampleProducts())
	require.False(t, cache.NoMatches())
}

func TestCacheAccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	cache := catalog.NewCache()
	cache.ReplaceAll(sampleProducts())

	got := cache.Displayed()
	got[0].Name = "mutated"

	require.Equal(t, "iPhone XR", cache.Displayed()[0].Name)
}
