package orderbook

// State is the lifecycle stage of an OrderBook.
type State int

const (
	StateUninitialized State = iota
	StateSnapshotted
	StateLive
	StateResync
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateSnapshotted:
		return "SNAPSHOTTED"
	case StateLive:
		return "LIVE"
	case StateResync:
		return "RESYNC"
	default:
		return "UNKNOWN"
	}
}

// decision is what the state machine wants done with an incoming diff.
type decision int

const (
	decisionDrop decision = iota
	decisionApply
	decisionResync
)

// classification is the outcome of classify: what to do, and whether the
// gap (if any) crossed the warn threshold.
type classification struct {
	decision decision
	gapWarn  bool
}

// classify implements the C4 state table against the current watermark L,
// the snapshot watermark S (meaningful only in SNAPSHOTTED, where L == S
// until the first diff lands), and the incoming diff's [U, u] range.
//
// The SNAPSHOTTED stale condition is taken as u <= S rather than the
// table's literal u < S: a diff that ends exactly at the snapshot id
// carries nothing new and is indistinguishable from a stale one.
func classify(state State, U, u, L, gapWarn int64) classification {
	switch state {
	case StateSnapshotted:
		S := L
		switch {
		case u <= S:
			return classification{decision: decisionDrop}
		case U <= S+1 && S+1 <= u:
			return classification{decision: decisionApply}
		default:
			return classification{decision: decisionResync, gapWarn: U > L+gapWarn}
		}
	case StateLive:
		switch {
		case u <= L:
			return classification{decision: decisionDrop}
		case U <= L+1:
			return classification{decision: decisionApply}
		default:
			return classification{decision: decisionResync, gapWarn: U > L+gapWarn}
		}
	default: // UNINITIALIZED, RESYNC
		return classification{decision: decisionDrop}
	}
}
