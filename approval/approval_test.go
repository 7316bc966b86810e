package approval

import (
	"fmt"
	"testing"
	"time"
)

type fakeResolver struct {
	calls []string
	fail  bool
}

func (r *fakeResolver) ResolveApproval(requestID string, accept bool) error {
	r.calls = append(r.calls, fmt.Sprintf("%s:%t", requestID, accept))
	if r.fail {
		return fmt.Errorf("rpc connection lost")
	}
	return nil
}

func farFuture() int64 {
	return time.Now().Add(time.Hour).Unix()
}

func TestResolveRemovesOnce(t *testing.T) {
	r := &fakeResolver{}
	s := NewStore(r)

	s.OnRequest(Request{RequestID: "req1", Kind: KindLockBitcoin, ExpirationTs: farFuture()})
	if s.Count() != 1 {
		t.Fatalf("count = %d", s.Count())
	}

	if err := s.Resolve("req1", true); err != nil {
		t.Fatal(err)
	}
	if s.Count() != 0 {
		t.Fatal("resolved request still pending")
	}
	if len(r.calls) != 1 || r.calls[0] != "req1:true" {
		t.Fatalf("resolver calls: %v", r.calls)
	}

	// Second resolve of a gone id: an error, not a panic, and no
	// resurrection.
	if err := s.Resolve("req1", true); err == nil {
		t.Fatal("expected error for already-resolved request")
	}
	if s.Count() != 0 {
		t.Fatal("double resolve re-added the entry")
	}
	if len(r.calls) != 1 {
		t.Fatalf("resolver called again: %v", r.calls)
	}
}

func TestResolveFailureKeepsPending(t *testing.T) {
	r := &fakeResolver{fail: true}
	s := NewStore(r)

	s.OnRequest(Request{RequestID: "req1", Kind: KindLockBitcoin, ExpirationTs: farFuture()})
	if err := s.Resolve("req1", false); err == nil {
		t.Fatal("expected resolver failure to surface")
	}
	if s.Count() != 1 {
		t.Fatal("failed resolve must keep the request pending")
	}

	// The failure releases the in-flight marker; the user can try again.
	r.fail = false
	if err := s.Resolve("req1", false); err != nil {
		t.Fatal(err)
	}
	if s.Count() != 0 {
		t.Fatal("retry after failure did not resolve")
	}
}

// The daemon's own resolution event can land while our resolver call is
// still on the wire.  Resolve must neither double-remove nor resurrect.
func TestResolveRacesDaemonResolution(t *testing.T) {
	s := NewStore(nil)
	s.resolver = resolverFunc(func(requestID string, accept bool) error {
		s.OnDaemonResolved(requestID)
		return nil
	})

	s.OnRequest(Request{RequestID: "req1", Kind: KindEarlyRefund, ExpirationTs: farFuture()})
	if err := s.Resolve("req1", true); err != nil {
		t.Fatal(err)
	}
	if s.Count() != 0 {
		t.Fatal("request still pending after both resolutions")
	}
}

// A second local resolve while the first is still talking to the daemon is
// rejected without calling the resolver again.
func TestResolveInFlightBlocksSecond(t *testing.T) {
	var calls int
	s := NewStore(nil)
	s.resolver = resolverFunc(func(requestID string, accept bool) error {
		calls++
		if err := s.Resolve(requestID, false); err == nil {
			t.Fatal("second resolve during an in-flight one must fail")
		}
		return nil
	})

	s.OnRequest(Request{RequestID: "req1", Kind: KindLockBitcoin, ExpirationTs: farFuture()})
	if err := s.Resolve("req1", true); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("resolver called %d times", calls)
	}
	if s.Count() != 0 {
		t.Fatal("resolved request still pending")
	}
}

type resolverFunc func(requestID string, accept bool) error

func (f resolverFunc) ResolveApproval(requestID string, accept bool) error {
	return f(requestID, accept)
}

func TestIncrementalMerge(t *testing.T) {
	s := NewStore(&fakeResolver{})

	s.OnRequest(Request{
		RequestID:    "req1",
		Kind:         KindLockBitcoin,
		ExpirationTs: farFuture(),
		Payload:      map[string]interface{}{"btc_amount": 0.5},
	})
	s.OnRequest(Request{
		RequestID: "req1",
		Payload:   map[string]interface{}{"fee": 0.0001},
	})

	if s.Count() != 1 {
		t.Fatalf("merge created a second entry, count = %d", s.Count())
	}
	got := s.Pending()[0]
	if got.Kind != KindLockBitcoin {
		t.Fatalf("merge lost the kind: %q", got.Kind)
	}
	if got.Payload["btc_amount"] != 0.5 {
		t.Fatalf("merge lost prior payload field: %v", got.Payload)
	}
	if got.Payload["fee"] != 0.0001 {
		t.Fatalf("merge dropped new payload field: %v", got.Payload)
	}
}

func TestDaemonResolution(t *testing.T) {
	s := NewStore(&fakeResolver{})

	s.OnRequest(Request{RequestID: "req1", Kind: KindSeedBackup, ExpirationTs: farFuture()})
	s.OnDaemonResolved("req1")
	if s.Count() != 0 {
		t.Fatal("daemon resolution must remove the request")
	}

	// Unknown ids are logged and dropped, nothing created.
	s.OnDaemonResolved("ghost")
	if s.Count() != 0 {
		t.Fatal("unknown resolution created an entry")
	}
}

func TestExpiryDisablesLocalActions(t *testing.T) {
	r := &fakeResolver{}
	s := NewStore(r)

	s.OnRequest(Request{RequestID: "req1", Kind: KindLockBitcoin, ExpirationTs: time.Now().Add(-time.Minute).Unix()})

	ms, ok := s.RemainingMillis("req1", time.Now())
	if !ok || ms != 0 {
		t.Fatalf("remaining = %d (%t), want 0", ms, ok)
	}

	if err := s.Resolve("req1", true); err == nil {
		t.Fatal("resolving an expired request locally must fail")
	}
	if len(r.calls) != 0 {
		t.Fatal("resolver must not be called for expired requests")
	}

	// Expired but still pending: the daemon is the timeout authority.
	if s.Count() != 1 {
		t.Fatal("expiry must not remove the request locally")
	}
}

func TestCountdown(t *testing.T) {
	s := NewStore(&fakeResolver{})
	now := time.Now()

	s.OnRequest(Request{RequestID: "req1", Kind: KindMakerChoice, ExpirationTs: now.Add(10 * time.Second).Unix()})
	ms, ok := s.RemainingMillis("req1", now)
	if !ok {
		t.Fatal("request should be pending")
	}
	if ms <= 9000 || ms > 10000 {
		t.Fatalf("remaining = %dms, want about 10s", ms)
	}

	if _, ok := s.RemainingMillis("ghost", now); ok {
		t.Fatal("unknown id reported a countdown")
	}
}

func TestPendingIsACopy(t *testing.T) {
	s := NewStore(&fakeResolver{})
	s.OnRequest(Request{
		RequestID:    "req1",
		Kind:         KindLockBitcoin,
		ExpirationTs: farFuture(),
		Payload:      map[string]interface{}{"btc_amount": 0.5},
	})

	got := s.Pending()[0]
	got.Payload["btc_amount"] = 99.0

	if s.Pending()[0].Payload["btc_amount"] != 0.5 {
		t.Fatal("caller mutated the store through a listing")
	}
}

func TestIndependentRequests(t *testing.T) {
	r := &fakeResolver{}
	s := NewStore(r)

	s.OnRequest(Request{RequestID: "req1", Kind: KindLockBitcoin, ExpirationTs: farFuture()})
	s.OnRequest(Request{RequestID: "req2", Kind: KindSeedBackup, ExpirationTs: farFuture()})

	if err := s.Resolve("req2", false); err != nil {
		t.Fatal(err)
	}
	if s.Count() != 1 {
		t.Fatalf("count = %d, want 1", s.Count())
	}
	if s.Pending()[0].RequestID != "req1" {
		t.Fatal("wrong request removed")
	}
}
