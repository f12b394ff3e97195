package orderbook

import "github.com/shopspring/decimal"

// validationOutcome is the result of running the integrity checks once.
type validationOutcome struct {
	// repaired is true when a crossed-book repair or depth truncation
	// mutated bids/asks in place to restore the invariants.
	repaired bool
}

// validateOrdering checks invariants (1)-(3) of the book contract: strict
// monotonic price ordering under cmp, strictly positive finite prices and
// quantities, and no duplicate price.
func validateOrdering(side Side, cmp Comparator) error {
	for i, level := range side {
		if !isValidLevel(level.Price, level.Quantity) || level.Quantity.Sign() == 0 {
			return ErrInvariantViolation
		}
		if i == 0 {
			continue
		}
		if cmp(side[i-1].Price, level.Price) >= 0 {
			return ErrInvariantViolation
		}
	}
	return nil
}

// validateAndRepair runs invariants (1)-(5) against bids/asks. It returns
// the (possibly repaired) sides, whether a repair was applied, and an error
// when the book is irreparable and must transition to RESYNC.
func validateAndRepair(bids, asks Side, maxDepth int, repairCrossed bool) (Side, Side, validationOutcome, error) {
	if err := validateOrdering(bids, BidComparator); err != nil {
		return bids, asks, validationOutcome{}, err
	}
	if err := validateOrdering(asks, AskComparator); err != nil {
		return bids, asks, validationOutcome{}, err
	}

	outcome := validationOutcome{}

	if maxDepth > 0 {
		if len(bids) > maxDepth {
			bids = bids.Truncate(maxDepth)
			outcome.repaired = true
		}
		if len(asks) > maxDepth {
			asks = asks.Truncate(maxDepth)
			outcome.repaired = true
		}
	}

	bestBid, hasBid := bids.Best()
	bestAsk, hasAsk := asks.Best()
	if !hasBid || !hasAsk || bestBid.Price.LessThan(bestAsk.Price) {
		return bids, asks, outcome, nil
	}

	// Crossed book: best_bid >= best_ask.
	if !repairCrossed {
		return bids, asks, outcome, ErrInvariantViolation
	}

	repairedAsks := removeCrossedHead(asks, bestBid.Price)
	newBestAsk, stillHasAsk := repairedAsks.Best()
	if stillHasAsk && bestBid.Price.LessThan(newBestAsk.Price) {
		outcome.repaired = true
		return bids, repairedAsks, outcome, nil
	}

	return bids, asks, outcome, ErrInvariantViolation
}

// removeCrossedHead drops ask levels priced at or below bidPrice, the one
// documented localized repair for a transient cross.
func removeCrossedHead(asks Side, bidPrice decimal.Decimal) Side {
	i := 0
	for i < len(asks) && asks[i].Price.LessThanOrEqual(bidPrice) {
		i++
	}
	return asks[i:]
}
