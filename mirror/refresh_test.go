package mirror

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type countingFetcher struct {
	mtx   sync.Mutex
	calls map[string]int
	fail  bool
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{calls: make(map[string]int)}
}

func (f *countingFetcher) FetchSummary(swapID string) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.calls[swapID]++
	if f.fail {
		return fmt.Errorf("daemon unreachable")
	}
	return nil
}

func (f *countingFetcher) count(swapID string) int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.calls[swapID]
}

func TestRefresherCoalescesBursts(t *testing.T) {
	f := newCountingFetcher()
	r := NewRefresher(f, 20*time.Millisecond, time.Second)
	defer r.Stop()

	for i := 0; i < 10; i++ {
		r.Kick("A")
	}

	time.Sleep(100 * time.Millisecond)
	if n := f.count("A"); n != 1 {
		t.Fatalf("burst of kicks produced %d fetches, want 1", n)
	}
}

func TestRefresherSpacing(t *testing.T) {
	f := newCountingFetcher()
	r := NewRefresher(f, 5*time.Millisecond, 200*time.Millisecond)
	defer r.Stop()

	r.Kick("A")
	time.Sleep(50 * time.Millisecond)
	if n := f.count("A"); n != 1 {
		t.Fatalf("first kick produced %d fetches, want 1", n)
	}

	// A second kick right after must wait out the spacing.
	r.Kick("A")
	time.Sleep(50 * time.Millisecond)
	if n := f.count("A"); n != 1 {
		t.Fatalf("second fetch ran before the minimum spacing, got %d", n)
	}

	time.Sleep(250 * time.Millisecond)
	if n := f.count("A"); n != 2 {
		t.Fatalf("second fetch never ran, got %d", n)
	}
}

func TestRefresherKeysAreIndependent(t *testing.T) {
	f := newCountingFetcher()
	r := NewRefresher(f, 5*time.Millisecond, time.Second)
	defer r.Stop()

	r.Kick("A")
	r.Kick("B")
	time.Sleep(50 * time.Millisecond)

	if f.count("A") != 1 || f.count("B") != 1 {
		t.Fatalf("per-swap fetches: A=%d B=%d, want 1 each", f.count("A"), f.count("B"))
	}
}

func TestRefresherFailureNotRetried(t *testing.T) {
	f := newCountingFetcher()
	f.fail = true
	r := NewRefresher(f, 5*time.Millisecond, 10*time.Millisecond)
	defer r.Stop()

	r.Kick("A")
	time.Sleep(100 * time.Millisecond)
	if n := f.count("A"); n != 1 {
		t.Fatalf("failed fetch was retried, got %d calls", n)
	}
}

func TestRefresherStop(t *testing.T) {
	f := newCountingFetcher()
	r := NewRefresher(f, 10*time.Millisecond, time.Second)

	r.Kick("A")
	r.Stop()
	r.Kick("B")

	time.Sleep(50 * time.Millisecond)
	if f.count("A") != 0 || f.count("B") != 0 {
		t.Fatalf("fetches ran after Stop: A=%d B=%d", f.count("A"), f.count("B"))
	}
}

func TestMirrorKicksOnTerminalEvents(t *testing.T) {
	f := newCountingFetcher()
	r := NewRefresher(f, 5*time.Millisecond, time.Second)
	defer r.Stop()
	m := New(72, 72, r)

	// Mid-swap events must not trigger refreshes.
	m.ApplyProgress("A", ProtocolEvent{Tag: TagBtcLockTxInMempool})
	m.ApplyProgress("A", ProtocolEvent{Tag: TagXmrLockTxConfirmed})
	time.Sleep(50 * time.Millisecond)
	if n := f.count("A"); n != 0 {
		t.Fatalf("non-terminal events triggered %d fetches", n)
	}

	// Terminal state plus release marker collapse into one fetch.
	m.ApplyProgress("A", ProtocolEvent{Tag: TagXmrRedeemTxInMempool})
	m.ApplyProgress("A", ProtocolEvent{Tag: TagSwapReleased})
	time.Sleep(50 * time.Millisecond)
	if n := f.count("A"); n != 1 {
		t.Fatalf("terminal burst produced %d fetches, want 1", n)
	}
}
