package format_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oakmart/storefront-web/internal/format"
)

func TestPrice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		cost float64
		want string
	}{
		{0, "$0"},
		{100, "$100"},
		{1049.5, "$1,049.50"},
		{85.99, "$85.99"},
		{1234567, "$1,234,567"},
		{999.999, "$1,000"},
		{-45.5, "-$45.50"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, format.Price(tc.cost), "cost %v", tc.cost)
	}
}

func TestDate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Feb 14, 2026", format.Date(time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)))
	require.Empty(t, format.Date(time.Time{}))
}
