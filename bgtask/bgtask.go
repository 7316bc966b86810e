package bgtask

import (
	"sync"

	"github.com/xmrbtc/swapmon/logging"
)

// Kind is the daemon-side component family a status belongs to.  Several
// live components may share a kind, e.g. two concurrent wallet syncs.
type Kind string

const (
	KindSyncingBitcoinWallet Kind = "SyncingBitcoinWallet"
	KindSyncingMoneroWallet  Kind = "SyncingMoneroWallet"
	KindOpeningMoneroWallet  Kind = "OpeningMoneroWallet"
	KindConnectingToMakers   Kind = "ConnectingToMakers"
	KindEstablishingTor      Kind = "EstablishingTor"
)

// Progress is either pending with whatever fields the daemon knows so far,
// or completed.  Optional fields are pointers so that a partial update can
// be told apart from an explicit zero.
type Progress struct {
	Completed    bool     `json:"completed"`
	CurrentIndex *uint64  `json:"current_index,omitempty"`
	Total        *uint64  `json:"total,omitempty"`
	Fraction     *float64 `json:"fraction,omitempty"`
}

// Status is one component's reported state.
type Status struct {
	ComponentID string   `json:"component_id"`
	Kind        Kind     `json:"kind"`
	Progress    Progress `json:"progress"`
}

// Representative is what gets rendered for a kind: one entry standing in
// for every live component of that kind, plus how many there are.
type Representative struct {
	Status    Status
	LiveCount int
}

// Tracker aggregates background component statuses by component id and
// groups them by kind for display.
type Tracker struct {
	mtx     sync.Mutex
	entries map[string]*Status
	order   []string // first-seen order decides the representative
}

func NewTracker() *Tracker {
	return &Tracker{
		entries: make(map[string]*Status),
	}
}

// Apply merges one status update.  The first pending update for an id
// creates the entry; a completion for an unknown id is logged and dropped
// rather than conjuring a component out of nothing.  Partial pending
// updates only overwrite the fields they carry, so known progress never
// regresses to unknown.
func (t *Tracker) Apply(update Status) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	existing, ok := t.entries[update.ComponentID]
	if !ok {
		if update.Progress.Completed {
			logging.Warnf("bgtask: completion for unknown component %s, dropping\n", update.ComponentID)
			return
		}
		st := update
		t.entries[update.ComponentID] = &st
		t.order = append(t.order, update.ComponentID)
		logging.Debugf("bgtask: tracking %s component %s\n", update.Kind, update.ComponentID)
		return
	}

	if update.Kind != "" {
		existing.Kind = update.Kind
	}
	if update.Progress.Completed {
		existing.Progress.Completed = true
		return
	}
	if update.Progress.CurrentIndex != nil {
		existing.Progress.CurrentIndex = update.Progress.CurrentIndex
	}
	if update.Progress.Total != nil {
		existing.Progress.Total = update.Progress.Total
	}
	if update.Progress.Fraction != nil {
		existing.Progress.Fraction = update.Progress.Fraction
	}
}

// Representatives returns one entry per kind with live components, in the
// order the kinds were first seen.  The representative is the first-seen
// live entry of its kind; completed entries neither represent nor count.
func (t *Tracker) Representatives() []Representative {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	counts := make(map[Kind]int)
	firstLive := make(map[Kind]*Status)
	kinds := []Kind{}
	for _, id := range t.order {
		st := t.entries[id]
		if st.Progress.Completed {
			continue
		}
		if counts[st.Kind] == 0 {
			firstLive[st.Kind] = st
			kinds = append(kinds, st.Kind)
		}
		counts[st.Kind]++
	}

	out := make([]Representative, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, Representative{
			Status:    copyStatus(firstLive[k]),
			LiveCount: counts[k],
		})
	}
	return out
}

// Completed lists entries that finished but have not been pruned yet, for
// "just completed" transitions.
func (t *Tracker) Completed() []Status {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	out := []Status{}
	for _, id := range t.order {
		if st := t.entries[id]; st.Progress.Completed {
			out = append(out, copyStatus(st))
		}
	}
	return out
}

// Prune drops completed entries once the caller is done showing them.
func (t *Tracker) Prune() {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	kept := t.order[:0]
	for _, id := range t.order {
		if t.entries[id].Progress.Completed {
			delete(t.entries, id)
			continue
		}
		kept = append(kept, id)
	}
	t.order = kept
}

// Count is how many components are tracked, completed ones included.
func (t *Tracker) Count() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return len(t.entries)
}

func copyStatus(st *Status) Status {
	cp := *st
	if st.Progress.CurrentIndex != nil {
		v := *st.Progress.CurrentIndex
		cp.Progress.CurrentIndex = &v
	}
	if st.Progress.Total != nil {
		v := *st.Progress.Total
		cp.Progress.Total = &v
	}
	if st.Progress.Fraction != nil {
		v := *st.Progress.Fraction
		cp.Progress.Fraction = &v
	}
	return cp
}
