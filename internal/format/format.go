// Package format holds small display helpers shared by view models.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Price formats a catalog cost for display. Costs are currency-unit-agnostic
// numbers shown as dollars in this store; whole amounts drop the decimals.
// Example: Price(1049.5) => "$1,049.50", Price(100) => "$100".
func Price(cost float64) string {
	neg := cost < 0
	if neg {
		cost = -cost
	}
	whole := int64(cost)
	cents := int64(math.Round((cost - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	out := "$" + thousandSep(whole)
	if cents != 0 {
		out += fmt.Sprintf(".%02d", cents)
	}
	if neg {
		return "-" + out
	}
	return out
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Date formats a timestamp in a short human-readable form.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
