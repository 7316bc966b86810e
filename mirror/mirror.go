package mirror

import (
	"sync"

	"github.com/xmrbtc/swapmon/logging"
	"github.com/xmrbtc/swapmon/swapstate"
	"github.com/xmrbtc/swapmon/timelock"
)

// Mirror follows the foregrounded swap through the daemon's progress
// events.  It is not the protocol state machine, just a reflection of it:
// it keeps the current and previous event for exactly one swap id, and
// starts over when a different swap id shows up.  Events for the same swap
// are assumed to arrive in protocol order; nothing here reorders or
// deduplicates.  Writes come off the daemon receive loop while renderers
// read from their own goroutine, so every access takes the mutex.
type Mirror struct {
	cancelOffset uint32
	punishOffset uint32
	refresher    *Refresher

	mtx      sync.Mutex
	swapID   string
	current  *ProtocolEvent
	previous *ProtocolEvent
	lock     timelock.Status
}

// Snapshot is a read-only copy of the mirror for renderers.
type Snapshot struct {
	SwapID   string
	Current  ProtocolEvent
	Previous *ProtocolEvent
	Timelock timelock.Status
}

// New creates an empty mirror.  The refresher may be nil if no summary
// refreshing is wanted (tests, mostly).
func New(cancelOffset, punishOffset uint32, refresher *Refresher) *Mirror {
	return &Mirror{
		cancelOffset: cancelOffset,
		punishOffset: punishOffset,
		refresher:    refresher,
	}
}

// ApplyProgress ingests one progress event.  A new swap id discards the
// tracked swap wholesale, previous included; only one swap is foregrounded
// at a time so there is nothing worth keeping.
func (m *Mirror) ApplyProgress(swapID string, ev ProtocolEvent) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.swapID != swapID {
		logging.Infof("mirror: now tracking swap %s (was %q)\n", swapID, m.swapID)
		m.swapID = swapID
		m.current = &ev
		m.previous = nil
		m.lock = nil
	} else {
		m.previous = m.current
		m.current = &ev
	}

	if m.refresher != nil && terminalLooking(ev) {
		m.refresher.Kick(swapID)
	}
}

// ApplyTimelock overwrites the stored timelock for the tracked swap.  An
// update for a swap we are not tracking is logged and dropped, as is a
// status that would move backwards through None -> Cancel -> Punish.
func (m *Mirror) ApplyTimelock(swapID string, status timelock.Status) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.swapID != swapID || m.current == nil {
		logging.Warnf("mirror: timelock update for unknown swap %s, dropping\n", swapID)
		return
	}
	if m.lock != nil && statusRank(status) < statusRank(m.lock) {
		logging.Warnf("mirror: timelock for swap %s went backwards (%s -> %s), dropping\n",
			swapID, m.lock.Kind(), status.Kind())
		return
	}
	m.lock = status
}

// Clear forgets the tracked swap, for daemon reconnects.
func (m *Mirror) Clear() {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.swapID = ""
	m.current = nil
	m.previous = nil
	m.lock = nil
}

// Snapshot returns a copy of the tracked swap, or false if no swap has been
// observed yet.
func (m *Mirror) Snapshot() (Snapshot, bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.current == nil {
		return Snapshot{}, false
	}
	snap := Snapshot{
		SwapID:   m.swapID,
		Current:  *m.current,
		Timelock: m.lock,
	}
	if m.previous != nil {
		prev := *m.previous
		snap.Previous = &prev
	}
	return snap, true
}

// StateName derives the current protocol state from the latest event tag.
// Milestone-only tags (and an empty mirror) return false.
func (m *Mirror) StateName() (swapstate.StateName, bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.current == nil {
		return "", false
	}
	return StateFor(m.current.Tag)
}

// TimelockView computes the three-segment countdown for the tracked swap,
// or false if no timelock has been reported yet.
func (m *Mirror) TimelockView() (timelock.View, bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.current == nil || m.lock == nil {
		return timelock.View{}, false
	}
	return timelock.Describe(m.lock, m.cancelOffset, m.punishOffset), true
}

func statusRank(s timelock.Status) int {
	switch s.(type) {
	case timelock.None:
		return 0
	case timelock.Cancel:
		return 1
	case timelock.Punish:
		return 2
	}

	// New variants have to be ranked here before they can be stored.
	panic("mirror: unhandled timelock status variant")
}
