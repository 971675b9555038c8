package cart_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oakmart/storefront-web/internal/cart"
)

func TestStateStartsUnknown(t *testing.T) {
	t.Parallel()

	state := cart.NewState()
	entries, known := state.Entries()
	require.Empty(t, entries)
	require.False(t, known)
}

func TestStateReplaceMarksKnown(t *testing.T) {
	t.Parallel()

	state := cart.NewState()
	state.Replace([]cart.Entry{{ProductID: "A", Qty: 2}})

	entries, known := state.Entries()
	require.True(t, known)
	require.Equal(t, []cart.Entry{{ProductID: "A", Qty: 2}}, entries)

	// An empty replacement is a known-empty cart, not an unknown one.
	state.Replace(nil)
	entries, known = state.Entries()
	require.Empty(t, entries)
	require.True(t, known)
}

func TestStateInvalidateDistinctFromEmpty(t *testing.T) {
	t.Parallel()

	state := cart.NewState()
	state.Replace([]cart.Entry{{ProductID: "A", Qty: 1}})

	state.Invalidate()
	entries, known := state.Entries()
	require.Empty(t, entries)
	require.False(t, known)
}

func TestStateContainsAndQty(t *testing.T) {
	t.Parallel()

	state := cart.NewState()
	state.Replace([]cart.Entry{
		{ProductID: "A", Qty: 2},
		{ProductID: "B", Qty: 1},
	})

	require.True(t, state.Contains("A"))
	require.False(t, state.Contains("Z"))
	require.Equal(t, 2, state.Qty("A"))
	require.Zero(t, state.Qty("Z"))
}
