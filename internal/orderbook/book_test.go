package orderbook

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func level(price, quantity string) PriceLevel {
	return PriceLevel{Price: d(price), Quantity: d(quantity)}
}

func newTestBook() *OrderBook {
	return New("BTCUSDT", DefaultConfig(), testLogger())
}

func baseSnapshot() Snapshot {
	return Snapshot{
		LastUpdateID: 100,
		Bids: []PriceLevel{
			level("100.00", "1.0"),
			level("99.00", "2.0"),
		},
		Asks: []PriceLevel{
			level("101.00", "1.0"),
			level("102.00", "2.0"),
		},
	}
}

// Clean bootstrap: snapshot then a diff whose range straddles S+1.
func TestCleanBootstrap(t *testing.T) {
	book := newTestBook()
	require.NoError(t, book.ApplySnapshot(baseSnapshot()))
	assert.Equal(t, StateSnapshotted, book.State())
	assert.Equal(t, int64(100), book.Watermark())

	err := book.ApplyDiff(DepthDiff{
		FirstUpdateID: 95,
		FinalUpdateID: 105,
		Bids:          []PriceLevel{level("100.00", "1.5")},
		Asks:          []PriceLevel{},
	})
	require.NoError(t, err)
	assert.Equal(t, StateLive, book.State())
	assert.Equal(t, int64(105), book.Watermark())

	bestBid, ok := book.BestBid()
	require.True(t, ok)
	assert.True(t, d("1.5").Equal(bestBid.Quantity))
}

// Stale diff discarded: u <= L leaves the book bit-identical (P3, P4).
func TestStaleDiffDiscarded(t *testing.T) {
	book := newTestBook()
	require.NoError(t, book.ApplySnapshot(baseSnapshot()))
	require.NoError(t, book.ApplyDiff(DepthDiff{
		FirstUpdateID: 95, FinalUpdateID: 105,
		Bids: []PriceLevel{level("100.00", "1.5")},
	}))

	bidsBefore := append(Side{}, book.bids...)
	asksBefore := append(Side{}, book.asks...)
	watermarkBefore := book.Watermark()

	err := book.ApplyDiff(DepthDiff{
		FirstUpdateID: 90, FinalUpdateID: 105,
		Bids: []PriceLevel{level("100.00", "9.0")},
	})
	assert.ErrorIs(t, err, ErrStaleEvent)
	assert.Equal(t, watermarkBefore, book.Watermark())
	assert.Equal(t, bidsBefore, book.bids)
	assert.Equal(t, asksBefore, book.asks)
	assert.Equal(t, uint64(1), book.StaleCount())

	// Applying the exact same diff twice is equivalent to applying it once (P4).
	err = book.ApplyDiff(DepthDiff{
		FirstUpdateID: 95, FinalUpdateID: 105,
		Bids: []PriceLevel{level("100.00", "1.5")},
	})
	assert.ErrorIs(t, err, ErrStaleEvent)
	assert.Equal(t, watermarkBefore, book.Watermark())
	assert.Equal(t, bidsBefore, book.bids)
}

// A gap between the watermark and the next diff's first_update_id forces RESYNC.
func TestGapTriggersResync(t *testing.T) {
	book := newTestBook()
	require.NoError(t, book.ApplySnapshot(baseSnapshot()))
	require.NoError(t, book.ApplyDiff(DepthDiff{
		FirstUpdateID: 95, FinalUpdateID: 105,
		Bids: []PriceLevel{level("100.00", "1.5")},
	}))
	require.Equal(t, StateLive, book.State())

	bidsBefore := append(Side{}, book.bids...)

	resynced := false
	book.OnResyncRequest = func() { resynced = true }

	err := book.ApplyDiff(DepthDiff{
		FirstUpdateID: 110, FinalUpdateID: 120,
		Bids: []PriceLevel{level("100.00", "3.0")},
	})
	assert.ErrorIs(t, err, ErrSequenceGap)
	assert.Equal(t, StateResync, book.State())
	assert.True(t, resynced, "ResyncRequest should have been signaled")
	assert.Equal(t, bidsBefore, book.bids, "the rejected diff must not mutate the book")

	// RESYNC drops everything until a fresh snapshot arrives.
	err = book.ApplyDiff(DepthDiff{FirstUpdateID: 121, FinalUpdateID: 122})
	assert.ErrorIs(t, err, ErrStaleEvent)
	assert.Equal(t, StateResync, book.State())

	require.NoError(t, book.ApplySnapshot(Snapshot{
		LastUpdateID: 130,
		Bids:         []PriceLevel{level("100.00", "5.0")},
		Asks:         []PriceLevel{level("101.00", "5.0")},
	}))
	assert.Equal(t, StateSnapshotted, book.State())
}

// Bootstrap predicate walkthrough: a stale diff is dropped, the one straddling
// S+1 bootstraps the book, and a contiguous follow-up applies normally.
func TestBootstrapPredicateWalkthrough(t *testing.T) {
	book := newTestBook()
	require.NoError(t, book.ApplySnapshot(Snapshot{
		LastUpdateID: 50,
		Bids:         []PriceLevel{level("100.00", "1.0")},
		Asks:         []PriceLevel{level("101.00", "1.0")},
	}))

	// u < S: discarded, stays SNAPSHOTTED.
	assert.ErrorIs(t, book.ApplyDiff(DepthDiff{FirstUpdateID: 40, FinalUpdateID: 49}), ErrStaleEvent)
	assert.Equal(t, StateSnapshotted, book.State())
	assert.Equal(t, uint64(1), book.StaleCount())

	// U <= S+1 <= u: bootstrap, transitions to LIVE.
	require.NoError(t, book.ApplyDiff(DepthDiff{
		FirstUpdateID: 48, FinalUpdateID: 55,
		Bids: []PriceLevel{level("100.00", "2.0")},
	}))
	assert.Equal(t, StateLive, book.State())
	assert.Equal(t, int64(55), book.Watermark())

	// U == L+1: normal continuation.
	require.NoError(t, book.ApplyDiff(DepthDiff{
		FirstUpdateID: 56, FinalUpdateID: 60,
		Bids: []PriceLevel{level("100.00", "3.0")},
	}))
	assert.Equal(t, int64(60), book.Watermark())
}

// A zero-quantity delta deletes an existing price and is a no-op otherwise (P6).
func TestDeletion(t *testing.T) {
	book := newTestBook()
	require.NoError(t, book.ApplySnapshot(baseSnapshot()))
	require.NoError(t, book.ApplyDiff(DepthDiff{
		FirstUpdateID: 101, FinalUpdateID: 101,
		Bids: []PriceLevel{level("99.00", "0")},
	}))
	for _, lvl := range book.bids {
		assert.False(t, lvl.Price.Equal(d("99.00")), "deleted price must not remain")
	}
	assert.Equal(t, 1, book.bids.Len())

	// Deleting a price that was never there is a no-op.
	require.NoError(t, book.ApplyDiff(DepthDiff{
		FirstUpdateID: 102, FinalUpdateID: 102,
		Bids: []PriceLevel{level("50.00", "0")},
	}))
	assert.Equal(t, 1, book.bids.Len())
}

// A diff that crosses the book is repaired in place rather than forcing RESYNC.
func TestCrossedBookRepaired(t *testing.T) {
	book := newTestBook()
	require.NoError(t, book.ApplySnapshot(Snapshot{
		LastUpdateID: 100,
		Bids:         []PriceLevel{level("100.00", "1.0")},
		Asks: []PriceLevel{
			level("101.00", "1.0"),
			level("102.00", "1.0"),
			level("103.00", "1.0"),
		},
	}))
	require.NoError(t, book.ApplyDiff(DepthDiff{FirstUpdateID: 101, FinalUpdateID: 101}))

	err := book.ApplyDiff(DepthDiff{
		FirstUpdateID: 102, FinalUpdateID: 102,
		Bids: []PriceLevel{level("101.00", "1.0")}, // crosses only the 101.00 ask
	})
	require.NoError(t, err)
	assert.Equal(t, StateLive, book.State(), "a repairable cross must not force resync")
	assert.Equal(t, 2, book.asks.Len(), "only the crossed ask level should be removed")

	bestBid, ok := book.BestBid()
	require.True(t, ok)
	bestAsk, ok := book.BestAsk()
	require.True(t, ok)
	assert.True(t, bestBid.Price.LessThan(bestAsk.Price))
	assert.True(t, bestAsk.Price.Equal(d("102.00")))
}

// BestBid/BestAsk/Mid/Spread are unavailable outside SNAPSHOTTED/LIVE.
func TestQueriesUnavailableBeforeSnapshot(t *testing.T) {
	book := newTestBook()
	_, ok := book.BestBid()
	assert.False(t, ok)
	_, ok = book.Mid()
	assert.False(t, ok)

	require.NoError(t, book.ApplySnapshot(baseSnapshot()))
	mid, ok := book.Mid()
	require.True(t, ok)
	assert.True(t, mid.Equal(d("100.50")))

	spread, ok := book.Spread()
	require.True(t, ok)
	assert.True(t, spread.Equal(d("1.00")))
}

// An empty or crossed snapshot is rejected and never mutates the book (SnapshotInvalid).
func TestApplySnapshotInvalid(t *testing.T) {
	book := newTestBook()
	err := book.ApplySnapshot(Snapshot{LastUpdateID: 1})
	assert.ErrorIs(t, err, ErrSnapshotInvalid)
	assert.Equal(t, StateUninitialized, book.State())

	err = book.ApplySnapshot(Snapshot{
		LastUpdateID: 1,
		Bids:         []PriceLevel{level("102.00", "1.0")},
		Asks:         []PriceLevel{level("101.00", "1.0")},
	})
	assert.ErrorIs(t, err, ErrSnapshotInvalid)
	assert.Equal(t, StateUninitialized, book.State())
}

// A malformed batch rejects the whole diff and drives a resync.
func TestMalformedBatchTriggersResync(t *testing.T) {
	book := newTestBook()
	require.NoError(t, book.ApplySnapshot(baseSnapshot()))
	require.NoError(t, book.ApplyDiff(DepthDiff{
		FirstUpdateID: 101, FinalUpdateID: 101,
		Bids: []PriceLevel{level("100.00", "1.0")},
	}))

	err := book.ApplyDiff(DepthDiff{
		FirstUpdateID: 102, FinalUpdateID: 102,
		Bids: []PriceLevel{{Price: d("-5.00"), Quantity: d("1.0")}},
	})
	assert.Error(t, err)
	assert.Equal(t, ErrorKindMalformedInput, KindOf(err))
	assert.Equal(t, StateResync, book.State())
}

// Diffs are dropped while UNINITIALIZED; the book stays UNINITIALIZED.
func TestUninitializedDropsDiffs(t *testing.T) {
	book := newTestBook()
	err := book.ApplyDiff(DepthDiff{FirstUpdateID: 1, FinalUpdateID: 2})
	assert.ErrorIs(t, err, ErrStaleEvent)
	assert.Equal(t, StateUninitialized, book.State())
}

// Reset returns a torn-down book to UNINITIALIZED with empty sides.
func TestReset(t *testing.T) {
	book := newTestBook()
	require.NoError(t, book.ApplySnapshot(baseSnapshot()))
	require.NoError(t, book.ApplyDiff(DepthDiff{
		FirstUpdateID: 101, FinalUpdateID: 101,
		Bids: []PriceLevel{level("100.00", "1.5")},
	}))

	book.Reset()
	assert.Equal(t, StateUninitialized, book.State())
	assert.Equal(t, int64(0), book.Watermark())
	assert.Equal(t, 0, book.bids.Len())
	assert.Equal(t, 0, book.asks.Len())
	_, ok := book.BestBid()
	assert.False(t, ok)
}
