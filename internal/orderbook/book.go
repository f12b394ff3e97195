package orderbook

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Snapshot is a point-in-time dump of both sides, fetched out-of-band by
// the REST collaborator.
type Snapshot struct {
	LastUpdateID int64
	Bids         []PriceLevel
	Asks         []PriceLevel
}

// DepthDiff is an incremental update carrying a range of update ids and the
// per-side levels that changed. A level with zero quantity deletes the
// price it names.
type DepthDiff struct {
	FirstUpdateID int64
	FinalUpdateID int64
	Bids          []PriceLevel
	Asks          []PriceLevel
}

// Config holds the tunables the core recognizes.
type Config struct {
	MaxDepth      int
	GapWarn       int64
	RepairCrossed bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxDepth:      MaxDepthDefault,
		GapWarn:       1000,
		RepairCrossed: true,
	}
}

// OrderBook is the single-symbol, single-threaded local order book. It is
// owned exclusively by one driver; concurrent mutation is out of scope.
type OrderBook struct {
	symbol string
	cfg    Config
	logger zerolog.Logger

	bids Side
	asks Side

	state        State
	lastUpdateID int64
	lastApplyTS  int64

	staleCount     uint64
	gapCount       uint64
	malformedCount uint64
	resyncCount    uint64

	// OnResyncRequest, if set, is invoked synchronously whenever the book
	// transitions into RESYNC. The driver is expected to fetch a fresh
	// snapshot and feed it back through ApplySnapshot.
	OnResyncRequest func()
}

// New creates an empty OrderBook for symbol in state UNINITIALIZED.
func New(symbol string, cfg Config, logger zerolog.Logger) *OrderBook {
	return &OrderBook{
		symbol: symbol,
		cfg:    cfg,
		logger: logger,
		state:  StateUninitialized,
	}
}

// ApplySnapshot replaces both sides with the snapshot's levels after
// filtering invalid entries, and transitions the book to SNAPSHOTTED. It
// fails only if the snapshot is empty or crossed after filtering, in which
// case the book's prior state is left untouched.
func (b *OrderBook) ApplySnapshot(snap Snapshot) error {
	bids := filterAndSort(snap.Bids, BidComparator, b.cfg.MaxDepth)
	asks := filterAndSort(snap.Asks, AskComparator, b.cfg.MaxDepth)

	if len(bids) == 0 && len(asks) == 0 {
		return ErrSnapshotInvalid
	}
	if bestBid, hasBid := bids.Best(); hasBid {
		if bestAsk, hasAsk := asks.Best(); hasAsk && !bestBid.Price.LessThan(bestAsk.Price) {
			return ErrSnapshotInvalid
		}
	}

	b.bids = bids
	b.asks = asks
	b.lastUpdateID = snap.LastUpdateID
	b.lastApplyTS = time.Now().UnixMilli()
	b.state = StateSnapshotted

	b.logger.Info().
		Str("symbol", b.symbol).
		Int64("last_update_id", snap.LastUpdateID).
		Int("bids", len(bids)).
		Int("asks", len(asks)).
		Msg("order book snapshot applied")

	return nil
}

// ApplyDiff classifies diff against the current watermark and, if
// accepted, merges it into both sides atomically: either both sides update
// and the validator passes, or nothing changes and the book may move to
// RESYNC.
func (b *OrderBook) ApplyDiff(diff DepthDiff) error {
	c := classify(b.state, diff.FirstUpdateID, diff.FinalUpdateID, b.lastUpdateID, b.cfg.GapWarn)

	switch c.decision {
	case decisionDrop:
		b.staleCount++
		return ErrStaleEvent
	case decisionResync:
		b.gapCount++
		if c.gapWarn {
			b.logger.Warn().
				Str("symbol", b.symbol).
				Int64("first_update_id", diff.FirstUpdateID).
				Int64("watermark", b.lastUpdateID).
				Msg("large sequence gap before resync")
		}
		b.enterResync("sequence gap")
		return ErrSequenceGap
	}

	newBids, err := MergeSide(b.bids, diff.Bids, BidComparator, b.cfg.MaxDepth)
	if err != nil {
		b.malformedCount++
		b.enterResync("malformed bid batch")
		return err
	}
	newAsks, err := MergeSide(b.asks, diff.Asks, AskComparator, b.cfg.MaxDepth)
	if err != nil {
		b.malformedCount++
		b.enterResync("malformed ask batch")
		return err
	}

	repairedBids, repairedAsks, _, verr := validateAndRepair(newBids, newAsks, b.cfg.MaxDepth, b.cfg.RepairCrossed)
	if verr != nil {
		b.enterResync("invariant violation")
		return verr
	}

	b.bids = repairedBids
	b.asks = repairedAsks
	b.lastUpdateID = diff.FinalUpdateID
	b.lastApplyTS = time.Now().UnixMilli()

	if b.state == StateSnapshotted {
		b.state = StateLive
		b.logger.Info().Str("symbol", b.symbol).Msg("order book live")
	}

	return nil
}

// enterResync flips the book into RESYNC and signals the driver. Existing
// bids/asks are left untouched — the diff that triggered the transition
// was never applied, so the book's content is the last known-good state
// until a fresh snapshot replaces it.
func (b *OrderBook) enterResync(reason string) {
	b.state = StateResync
	b.resyncCount++
	b.logger.Warn().Str("symbol", b.symbol).Str("reason", reason).Msg("order book entering resync")
	if b.OnResyncRequest != nil {
		b.OnResyncRequest()
	}
}

// Reset discards all book state and returns it to UNINITIALIZED, for a
// driver that tears down a subscription and wants any later reuse of this
// book to start clean rather than replay stale levels.
func (b *OrderBook) Reset() {
	b.bids = Clear()
	b.asks = Clear()
	b.state = StateUninitialized
	b.lastUpdateID = 0
	b.lastApplyTS = 0
}

func (b *OrderBook) available() bool {
	return b.state == StateSnapshotted || b.state == StateLive
}

// BestBid returns the highest-priced bid, or false if unavailable.
func (b *OrderBook) BestBid() (PriceLevel, bool) {
	if !b.available() {
		return PriceLevel{}, false
	}
	return b.bids.Best()
}

// BestAsk returns the lowest-priced ask, or false if unavailable.
func (b *OrderBook) BestAsk() (PriceLevel, bool) {
	if !b.available() {
		return PriceLevel{}, false
	}
	return b.asks.Best()
}

// Mid returns (best_bid + best_ask) / 2, or false if either side is unavailable.
func (b *OrderBook) Mid() (decimal.Decimal, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return decimal.Decimal{}, false
	}
	return bid.Price.Add(ask.Price).Div(decimal.NewFromInt(2)), true
}

// Spread returns best_ask - best_bid, or false if either side is unavailable.
func (b *OrderBook) Spread() (decimal.Decimal, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return decimal.Decimal{}, false
	}
	return ask.Price.Sub(bid.Price), true
}

// State reports the current lifecycle stage.
func (b *OrderBook) State() State {
	return b.state
}

// Watermark reports the largest final_update_id fully applied (or the
// snapshot's last_update_id before the first diff lands).
func (b *OrderBook) Watermark() int64 {
	return b.lastUpdateID
}

// LastApplyTS reports the Unix wall-clock time, in milliseconds, of the last
// successful snapshot or diff application. It is taken from time.Now and is
// not monotonic: a system clock adjustment can move it backwards.
func (b *OrderBook) LastApplyTS() int64 {
	return b.lastApplyTS
}

// Counters for observability: StaleCount/GapCount/MalformedCount/ResyncCount.
func (b *OrderBook) StaleCount() uint64     { return b.staleCount }
func (b *OrderBook) GapCount() uint64       { return b.gapCount }
func (b *OrderBook) MalformedCount() uint64 { return b.malformedCount }
func (b *OrderBook) ResyncCount() uint64    { return b.resyncCount }

// filterAndSort drops entries with non-positive price or non-positive
// quantity, deduplicates by price (last occurrence wins), sorts under cmp,
// and truncates to maxDepth. Used only for snapshot ingestion, where
// invalid entries are filtered rather than rejecting the whole payload.
func filterAndSort(levels []PriceLevel, cmp Comparator, maxDepth int) Side {
	dedup := make(map[string]PriceLevel, len(levels))
	order := make([]string, 0, len(levels))
	for _, lvl := range levels {
		if lvl.Price.Sign() <= 0 || lvl.Quantity.Sign() <= 0 {
			continue
		}
		key := lvl.Price.String()
		if _, exists := dedup[key]; !exists {
			order = append(order, key)
		}
		dedup[key] = lvl
	}

	out := make(Side, len(order))
	for i, key := range order {
		out[i] = dedup[key]
	}
	sort.Slice(out, func(i, j int) bool {
		return cmp(out[i].Price, out[j].Price) < 0
	})

	if maxDepth > 0 && len(out) > maxDepth {
		out = out[:maxDepth]
	}
	return out
}
