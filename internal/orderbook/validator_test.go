package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOrderingRejectsOutOfOrder(t *testing.T) {
	side := Side{level("99.00", "1.0"), level("100.00", "1.0")} // ascending, not valid for bids
	assert.ErrorIs(t, validateOrdering(side, BidComparator), ErrInvariantViolation)
}

func TestValidateOrderingRejectsDuplicatePrice(t *testing.T) {
	side := Side{level("100.00", "1.0"), level("100.00", "2.0")}
	assert.ErrorIs(t, validateOrdering(side, BidComparator), ErrInvariantViolation)
}

func TestValidateAndRepairTruncatesOverDepth(t *testing.T) {
	bids := Side{level("102.00", "1.0"), level("101.00", "1.0"), level("100.00", "1.0")}
	asks := Side{level("103.00", "1.0")}
	newBids, _, outcome, err := validateAndRepair(bids, asks, 2, true)
	require.NoError(t, err)
	assert.True(t, outcome.repaired)
	assert.Len(t, newBids, 2)
}

func TestValidateAndRepairCrossedBookRepairs(t *testing.T) {
	bids := Side{level("101.00", "1.0")}
	asks := Side{level("100.00", "1.0"), level("102.00", "1.0")}
	newBids, newAsks, outcome, err := validateAndRepair(bids, asks, 0, true)
	require.NoError(t, err)
	assert.True(t, outcome.repaired)
	assert.Equal(t, bids, newBids)
	require.Len(t, newAsks, 1)
	assert.True(t, newAsks[0].Price.Equal(d("102.00")))
}

func TestValidateAndRepairCrossedBookUnrepairable(t *testing.T) {
	bids := Side{level("105.00", "1.0")}
	asks := Side{level("100.00", "1.0")}
	_, _, _, err := validateAndRepair(bids, asks, 0, true)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestValidateAndRepairCrossedBookDisabled(t *testing.T) {
	bids := Side{level("101.00", "1.0")}
	asks := Side{level("100.00", "1.0")}
	_, _, _, err := validateAndRepair(bids, asks, 0, false)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}
