package orderbook

import "github.com/shopspring/decimal"

// MaxDepthDefault bounds the number of price levels retained per side when
// no override is configured.
const MaxDepthDefault = 5000

// PriceLevel is a single (price, quantity) pair. A level with zero quantity
// is never stored; receiving one is the documented signal to delete the
// price it names.
type PriceLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// Side is an ordered, deduplicated sequence of PriceLevels: bids sorted
// strictly descending by price, asks strictly ascending. No associative
// structure backs it — the side is small relative to the books it serves
// and merges against already-sorted deltas are linear.
type Side []PriceLevel

// Comparator orders two prices the way a particular side expects: negative
// if a sorts before b, positive if after, zero if equal.
type Comparator func(a, b decimal.Decimal) int

// BidComparator orders descending by price (best bid first).
func BidComparator(a, b decimal.Decimal) int {
	return b.Cmp(a)
}

// AskComparator orders ascending by price (best ask first).
func AskComparator(a, b decimal.Decimal) int {
	return a.Cmp(b)
}

func (s Side) Len() int {
	return len(s)
}

// Best returns the first level, which is the best price under the side's
// comparator, and reports whether the side is non-empty.
func (s Side) Best() (PriceLevel, bool) {
	if len(s) == 0 {
		return PriceLevel{}, false
	}
	return s[0], true
}

// Truncate bounds the side to at most n levels, dropping the tail.
func (s Side) Truncate(n int) Side {
	if n < 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

// Clear returns a new empty side with no backing storage shared with any
// existing side.
func Clear() Side {
	return Side{}
}

// isValidLevel reports whether price is strictly positive and quantity is
// non-negative, the shape every stored or incoming level must have before
// it can participate in a merge.
func isValidLevel(price, quantity decimal.Decimal) bool {
	return price.Sign() > 0 && quantity.Sign() >= 0
}
