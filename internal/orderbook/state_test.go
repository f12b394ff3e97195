package orderbook

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		state    State
		U, u, L  int64
		gapWarn  int64
		wantDec  decision
		wantWarn bool
	}{
		{"uninitialized always drops", StateUninitialized, 1, 2, 0, 1000, decisionDrop, false},
		{"resync always drops", StateResync, 1, 2, 50, 1000, decisionDrop, false},
		{"snapshotted stale", StateSnapshotted, 10, 49, 50, 1000, decisionDrop, false},
		{"snapshotted bootstrap", StateSnapshotted, 48, 55, 50, 1000, decisionApply, false},
		{"snapshotted gap before bootstrap", StateSnapshotted, 60, 70, 50, 1000, decisionResync, false},
		{"snapshotted large gap warns", StateSnapshotted, 2000, 2010, 50, 1000, decisionResync, true},
		{"live stale", StateLive, 90, 100, 100, 1000, decisionDrop, false},
		{"live contiguous", StateLive, 101, 110, 100, 1000, decisionApply, false},
		{"live overlap allowed", StateLive, 95, 110, 100, 1000, decisionApply, false},
		{"live gap", StateLive, 105, 110, 100, 1000, decisionResync, false},
		{"live large gap warns", StateLive, 2000, 2010, 100, 1000, decisionResync, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classify(tc.state, tc.U, tc.u, tc.L, tc.gapWarn)
			if got.decision != tc.wantDec {
				t.Errorf("decision = %v, want %v", got.decision, tc.wantDec)
			}
			if got.gapWarn != tc.wantWarn {
				t.Errorf("gapWarn = %v, want %v", got.gapWarn, tc.wantWarn)
			}
		})
	}
}
