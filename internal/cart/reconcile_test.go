package cart_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/oakmart/storefront-web/internal/cart"
	"github.com/oakmart/storefront-web/internal/catalog"
)

var testCatalog = []catalog.Product{
	{ID: "A", Name: "Widget", Category: "Tools", Cost: 10, Rating: 4, Image: "https://example.com/widget.jpg"},
	{ID: "B", Name: "Gadget", Category: "Tools", Cost: 25, Rating: 5, Image: "https://example.com/gadget.jpg"},
	{ID: "C", Name: "Gizmo", Category: "Toys", Cost: 7.5, Rating: 3, Image: "https://example.com/gizmo.jpg"},
}

func TestReconcileEmptyInputs(t *testing.T) {
	t.Parallel()

	require.Empty(t, cart.Reconcile(nil, testCatalog))
	require.Empty(t, cart.Reconcile([]cart.Entry{{ProductID: "A", Qty: 2}}, nil))
	require.Empty(t, cart.Reconcile(nil, nil))
}

func TestReconcileWorkedExample(t *testing.T) {
	t.Parallel()

	items := cart.Reconcile(
		[]cart.Entry{{ProductID: "A", Qty: 2}},
		[]catalog.Product{{ID: "A", Name: "Widget", Cost: 10}},
	)

	require.Len(t, items, 1)
	require.Equal(t, "A", items[0].ProductID)
	require.Equal(t, 2, items[0].Qty)
	require.Equal(t, float64(10), items[0].Cost)
	require.Equal(t, float64(20), cart.TotalValue(items))
	require.Equal(t, 2, cart.TotalItems(items))
}

func TestReconcilePreservesEntryOrder(t *testing.T) {
	t.Parallel()

	entries := []cart.Entry{
		{ProductID: "C", Qty: 1},
		{ProductID: "A", Qty: 3},
		{ProductID: "B", Qty: 2},
	}
	items := cart.Reconcile(entries, testCatalog)

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	if diff := cmp.Diff([]string{"C", "A", "B"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileDropsUnmatchedEntries(t *testing.T) {
	t.Parallel()

	entries := []cart.Entry{
		{ProductID: "A", Qty: 1},
		{ProductID: "missing", Qty: 5},
		{ProductID: "B", Qty: 2},
	}
	items := cart.Reconcile(entries, testCatalog)

	require.Len(t, items, 2)
	require.Equal(t, "A", items[0].ProductID)
	require.Equal(t, "B", items[1].ProductID)
}

func TestReconcileDropsNonPositiveQuantities(t *testing.T) {
	t.Parallel()

	entries := []cart.Entry{
		{ProductID: "A", Qty: 0},
		{ProductID: "B", Qty: -1},
		{ProductID: "C", Qty: 4},
	}
	items := cart.Reconcile(entries, testCatalog)

	require.Len(t, items, 1)
	require.Equal(t, "C", items[0].ProductID)
	require.Equal(t, 4, items[0].Qty)
}

func TestTotalsOnEmptySequence(t *testing.T) {
	t.Parallel()

	require.Zero(t, cart.TotalValue(nil))
	require.Zero(t, cart.TotalItems(nil))
	require.Zero(t, cart.TotalValue([]cart.Item{}))
	require.Zero(t, cart.TotalItems([]cart.Item{}))
}

func TestTotalsSumAcrossItems(t *testing.T) {
	t.Parallel()

	items := cart.Reconcile([]cart.Entry{
		{ProductID: "A", Qty: 2}, // 2 * 10
		{ProductID: "C", Qty: 4}, // 4 * 7.5
	}, testCatalog)

	require.InDelta(t, 50.0, cart.TotalValue(items), 1e-9)
	require.Equal(t, 6, cart.TotalItems(items))

	// Order must not matter.
	reversed := []cart.Item{items[1], items[0]}
	require.InDelta(t, cart.TotalValue(items), cart.TotalValue(reversed), 1e-9)
	require.Equal(t, cart.TotalItems(items), cart.TotalItems(reversed))
}
