package sqx

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// DepthPriceLevel is a single (price, quantity) pair from the wire, already
// parsed into decimal.Decimal at the collaborator boundary.
type DepthPriceLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// DepthSnapshot is a point-in-time dump of both sides of a book, obtained
// out-of-band from a REST endpoint.
type DepthSnapshot struct {
	Symbol       Symbol
	Exchange     Exchange
	LastUpdateID int64
	Bids         []DepthPriceLevel
	Asks         []DepthPriceLevel
}

// DepthDiff is an incremental update carrying a range of update ids and the
// per-side price levels that changed. Quantity == 0 means delete that price.
type DepthDiff struct {
	Symbol        Symbol
	Exchange      Exchange
	FirstUpdateID int64
	FinalUpdateID int64
	Bids          []DepthPriceLevel
	Asks          []DepthPriceLevel
	Timestamp     int64
}

// DepthEventKind discriminates the payload carried by a DepthEvent.
type DepthEventKind int

const (
	DepthEventKindUnknown DepthEventKind = iota
	DepthEventKindSnapshot
	DepthEventKindDiff
)

func (k DepthEventKind) String() string {
	return []string{"UNKNOWN", "SNAPSHOT", "DIFF"}[k]
}

// DepthEvent is the normalized payload handed to a DepthCallback: either a
// fresh snapshot (on bootstrap or after a resync) or an incremental diff.
type DepthEvent struct {
	Kind     DepthEventKind
	Snapshot *DepthSnapshot
	Diff     *DepthDiff
}

// IdStr renders the watermark this event carries as a string, suitable for
// a NATS dedup header: the snapshot's last_update_id, or the diff's
// final_update_id.
func (e *DepthEvent) IdStr() string {
	switch e.Kind {
	case DepthEventKindSnapshot:
		if e.Snapshot != nil {
			return strconv.FormatInt(e.Snapshot.LastUpdateID, 10)
		}
	case DepthEventKindDiff:
		if e.Diff != nil {
			return strconv.FormatInt(e.Diff.FinalUpdateID, 10)
		}
	}
	return ""
}

// Marshal serializes the event to its wire form.
func (e *DepthEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
