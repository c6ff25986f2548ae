package sim

import (
	"testing"
)

// checkTrajectory verifies the properties every engine's output must hold:
// equal-length parallel series, non-decreasing times, counts that sum to the
// population, and single-node steps (each event moves exactly one node).
func checkTrajectory(t *testing.T, res *Result, order int, sir bool) {
	t.Helper()
	n := res.Len()
	if len(res.S) != n || len(res.I) != n {
		t.Fatalf("series lengths differ: times=%d S=%d I=%d", n, len(res.S), len(res.I))
	}
	if sir && len(res.R) != n {
		t.Fatalf("R series length %d, want %d", len(res.R), n)
	}
	if !sir && res.R != nil {
		t.Fatal("SIS result carries an R series")
	}
	for k := 0; k < n; k++ {
		total := res.S[k] + res.I[k]
		if sir {
			total += res.R[k]
		}
		if total != order {
			t.Errorf("entry %d: counts sum to %d, want %d", k, total, order)
		}
		if k > 0 && res.Times[k] < res.Times[k-1] {
			t.Errorf("entry %d: time %v before previous %v", k, res.Times[k], res.Times[k-1])
		}
		if k > 0 {
			ds := res.S[k] - res.S[k-1]
			di := res.I[k] - res.I[k-1]
			infection := ds == -1 && di == 1
			recovery := di == -1 && (sir && ds == 0 || !sir && ds == 1)
			if !infection && !recovery {
				t.Errorf("entry %d: delta (dS=%d, dI=%d) is not a single status flip", k, ds, di)
			}
		}
	}
}

// sameTrajectory reports whether two results are event-for-event identical.
func sameTrajectory(a, b *Result) bool {
	if a.Len() != b.Len() {
		return false
	}
	for k := 0; k < a.Len(); k++ {
		if a.Times[k] != b.Times[k] || a.S[k] != b.S[k] || a.I[k] != b.I[k] {
			return false
		}
		if (a.R == nil) != (b.R == nil) {
			return false
		}
		if a.R != nil && a.R[k] != b.R[k] {
			return false
		}
	}
	return true
}
