package approval

import (
	"fmt"
	"sync"
	"time"

	"github.com/getlantern/deepcopy"

	"github.com/xmrbtc/swapmon/logging"
)

// Kind tags what the daemon wants confirmed.
type Kind string

const (
	KindLockBitcoin  Kind = "LockBitcoin"  // confirm amount and fees before locking
	KindSeedBackup   Kind = "SeedBackup"   // confirm the wallet seed was written down
	KindMakerChoice  Kind = "MakerChoice"  // confirm trading with this maker
	KindEarlyRefund  Kind = "EarlyRefund"  // confirm taking the early refund path
)

// Request is a daemon-issued, time-bounded ask for explicit user
// confirmation.  The daemon owns the timeout; this side only counts down.
type Request struct {
	RequestID    string                 `json:"request_id"`
	Kind         Kind                   `json:"kind"`
	ExpirationTs int64                  `json:"expiration_ts"` // unix seconds
	Payload      map[string]interface{} `json:"payload,omitempty"`
}

// Resolver forwards an accept/deny decision to the daemon.
type Resolver interface {
	ResolveApproval(requestID string, accept bool) error
}

// Store holds the pending approval requests.  Entries only leave the map by
// explicit resolution, ours or the daemon's; closing a dialog changes
// nothing here.
type Store struct {
	resolver Resolver

	mtx      sync.Mutex
	pending  map[string]*Request
	order    []string        // insertion order, for stable listings
	inflight map[string]bool // local resolutions currently talking to the daemon
}

func NewStore(resolver Resolver) *Store {
	return &Store{
		resolver: resolver,
		pending:  make(map[string]*Request),
		inflight: make(map[string]bool),
	}
}

// OnRequest ingests a request event.  A repeated id merges the new fields
// into the existing entry instead of replacing it, so the daemon can enrich
// a request incrementally.
func (s *Store) OnRequest(req Request) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.pending[req.RequestID]
	if !ok {
		r := req
		if r.Payload == nil {
			r.Payload = make(map[string]interface{})
		}
		s.pending[req.RequestID] = &r
		s.order = append(s.order, req.RequestID)
		logging.Infof("approval: new %s request %s\n", req.Kind, req.RequestID)
		return
	}

	if req.Kind != "" {
		existing.Kind = req.Kind
	}
	if req.ExpirationTs != 0 {
		existing.ExpirationTs = req.ExpirationTs
	}
	for k, v := range req.Payload {
		existing.Payload[k] = v
	}
	logging.Debugf("approval: merged update into request %s\n", req.RequestID)
}

// OnDaemonResolved removes a request the daemon reports as no longer
// pending, e.g. after its own timeout fired.
func (s *Store) OnDaemonResolved(requestID string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.pending[requestID]; !ok {
		logging.Warnf("approval: daemon resolved unknown request %s, ignoring\n", requestID)
		return
	}
	s.remove(requestID)
	logging.Infof("approval: request %s resolved by daemon\n", requestID)
}

// Resolve sends the local accept/deny decision to the daemon and removes
// the entry on success.  On failure the entry stays pending and the error
// goes back to the caller, no retry.  Resolving an id that is already gone
// or already being resolved is an error, not a panic, and re-adds nothing.
func (s *Store) Resolve(requestID string, accept bool) error {
	s.mtx.Lock()
	req, ok := s.pending[requestID]
	if !ok {
		s.mtx.Unlock()
		return fmt.Errorf("approval request %s is not pending", requestID)
	}
	if s.inflight[requestID] {
		s.mtx.Unlock()
		return fmt.Errorf("approval request %s already has a resolution in flight", requestID)
	}
	if remaining(req, time.Now()) == 0 {
		s.mtx.Unlock()
		return fmt.Errorf("approval request %s expired, waiting on the daemon", requestID)
	}
	s.inflight[requestID] = true
	s.mtx.Unlock()

	// The resolver call happens outside the lock; it talks to the daemon.
	err := s.resolver.ResolveApproval(requestID, accept)

	s.mtx.Lock()
	delete(s.inflight, requestID)
	if err != nil {
		s.mtx.Unlock()
		return fmt.Errorf("resolving approval %s: %s", requestID, err.Error())
	}
	// The daemon's own resolution event may have raced us here; if the
	// entry is already gone there is nothing left to remove.
	if _, ok := s.pending[requestID]; !ok {
		logging.Debugf("approval: request %s resolved by daemon mid-flight\n", requestID)
	} else {
		s.remove(requestID)
	}
	s.mtx.Unlock()
	return nil
}

// RemainingMillis is the countdown the UI renders, floored at zero.  Zero
// means local actions are disabled; actual resolution of an expired request
// is the daemon's job.
func (s *Store) RemainingMillis(requestID string, now time.Time) (int64, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	req, ok := s.pending[requestID]
	if !ok {
		return 0, false
	}
	return remaining(req, now), true
}

// Pending lists the pending requests in arrival order.  Entries are deep
// copies; callers can hold them across ticks without aliasing the store.
func (s *Store) Pending() []Request {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	out := make([]Request, 0, len(s.order))
	for _, id := range s.order {
		req := s.pending[id]
		var cp Request
		if err := deepcopy.Copy(&cp, req); err != nil {
			logging.Errorf("approval: copying request %s: %s\n", id, err.Error())
			continue
		}
		out = append(out, cp)
	}
	return out
}

// Count is how many requests are pending.
func (s *Store) Count() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.pending)
}

// remove must be called with the lock held.
func (s *Store) remove(requestID string) {
	delete(s.pending, requestID)
	for i, id := range s.order {
		if id == requestID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func remaining(req *Request, now time.Time) int64 {
	ms := req.ExpirationTs*1000 - now.UnixNano()/int64(time.Millisecond)
	if ms < 0 {
		return 0
	}
	return ms
}
