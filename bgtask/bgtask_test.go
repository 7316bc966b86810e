package bgtask

import "testing"

func u64(v uint64) *uint64   { return &v }
func f64(v float64) *float64 { return &v }

func pending(id string, kind Kind) Status {
	return Status{ComponentID: id, Kind: kind, Progress: Progress{}}
}

func TestGroupingByKind(t *testing.T) {
	tr := NewTracker()

	tr.Apply(pending("btc-1", KindSyncingBitcoinWallet))
	tr.Apply(pending("btc-2", KindSyncingBitcoinWallet))
	tr.Apply(pending("btc-3", KindSyncingBitcoinWallet))
	tr.Apply(pending("tor-1", KindEstablishingTor))

	reps := tr.Representatives()
	if len(reps) != 2 {
		t.Fatalf("got %d representatives, want 2", len(reps))
	}

	if reps[0].Status.Kind != KindSyncingBitcoinWallet {
		t.Fatalf("first representative kind %s", reps[0].Status.Kind)
	}
	if reps[0].LiveCount != 3 {
		t.Fatalf("live count %d, want 3", reps[0].LiveCount)
	}
	if reps[0].Status.ComponentID != "btc-1" {
		t.Fatalf("representative should be first seen, got %s", reps[0].Status.ComponentID)
	}
	if reps[1].Status.Kind != KindEstablishingTor || reps[1].LiveCount != 1 {
		t.Fatalf("second representative %s count %d", reps[1].Status.Kind, reps[1].LiveCount)
	}
}

func TestPartialMergePreservesKnownFields(t *testing.T) {
	tr := NewTracker()

	tr.Apply(Status{
		ComponentID: "btc-1",
		Kind:        KindSyncingBitcoinWallet,
		Progress:    Progress{CurrentIndex: u64(10), Total: u64(100)},
	})

	// Later update only knows the index; total must survive.
	tr.Apply(Status{
		ComponentID: "btc-1",
		Kind:        KindSyncingBitcoinWallet,
		Progress:    Progress{CurrentIndex: u64(42)},
	})

	rep := tr.Representatives()[0]
	if rep.Status.Progress.CurrentIndex == nil || *rep.Status.Progress.CurrentIndex != 42 {
		t.Fatalf("current index %v", rep.Status.Progress.CurrentIndex)
	}
	if rep.Status.Progress.Total == nil || *rep.Status.Progress.Total != 100 {
		t.Fatal("known total regressed to unknown")
	}
}

func TestCompletionExcludesFromRepresentatives(t *testing.T) {
	tr := NewTracker()

	tr.Apply(pending("btc-1", KindSyncingBitcoinWallet))
	tr.Apply(pending("btc-2", KindSyncingBitcoinWallet))
	tr.Apply(Status{ComponentID: "btc-1", Kind: KindSyncingBitcoinWallet, Progress: Progress{Completed: true}})

	reps := tr.Representatives()
	if len(reps) != 1 {
		t.Fatalf("got %d representatives", len(reps))
	}
	if reps[0].LiveCount != 1 {
		t.Fatalf("live count %d, want 1", reps[0].LiveCount)
	}
	if reps[0].Status.ComponentID != "btc-2" {
		t.Fatalf("completed entry still representing: %s", reps[0].Status.ComponentID)
	}

	// Completed entries stick around until pruned.
	if len(tr.Completed()) != 1 {
		t.Fatal("completed entry should be retained until Prune")
	}
	tr.Prune()
	if tr.Count() != 1 || len(tr.Completed()) != 0 {
		t.Fatalf("prune left %d entries, %d completed", tr.Count(), len(tr.Completed()))
	}
}

func TestCompletionForUnknownComponentDropped(t *testing.T) {
	tr := NewTracker()
	tr.Apply(Status{ComponentID: "ghost", Kind: KindSyncingMoneroWallet, Progress: Progress{Completed: true}})
	if tr.Count() != 0 {
		t.Fatal("completion for unknown component created an entry")
	}
}

func TestFractionUpdates(t *testing.T) {
	tr := NewTracker()
	tr.Apply(Status{ComponentID: "xmr-1", Kind: KindSyncingMoneroWallet, Progress: Progress{Fraction: f64(0.25)}})
	tr.Apply(Status{ComponentID: "xmr-1", Kind: KindSyncingMoneroWallet, Progress: Progress{Fraction: f64(0.75)}})

	rep := tr.Representatives()[0]
	if rep.Status.Progress.Fraction == nil || *rep.Status.Progress.Fraction != 0.75 {
		t.Fatalf("fraction %v", rep.Status.Progress.Fraction)
	}
}

func TestRepresentativeIsACopy(t *testing.T) {
	tr := NewTracker()
	tr.Apply(Status{ComponentID: "btc-1", Kind: KindSyncingBitcoinWallet, Progress: Progress{CurrentIndex: u64(5)}})

	rep := tr.Representatives()[0]
	*rep.Status.Progress.CurrentIndex = 999

	if *tr.Representatives()[0].Status.Progress.CurrentIndex != 5 {
		t.Fatal("caller mutated the tracker through a representative")
	}
}
