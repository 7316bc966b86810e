package mirror

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/xmrbtc/swapmon/logging"
)

// SummaryFetcher pulls a fresh durable summary for a swap from the daemon.
// Implementations decide where the result goes (usually the history store).
type SummaryFetcher interface {
	FetchSummary(swapID string) error
}

// Refresher debounces and throttles summary fetches per swap id.  A burst
// of terminal-looking events collapses into one fetch after a quiet period,
// and consecutive fetches for the same swap keep a minimum spacing.  Fetch
// failures are logged and not retried; the next event will kick again.
type Refresher struct {
	fetch    SummaryFetcher
	debounce time.Duration
	spacing  time.Duration

	mtx     sync.Mutex
	timers  map[string]*time.Timer
	lastRun map[string]time.Time
	stopped bool

	group singleflight.Group
}

func NewRefresher(fetch SummaryFetcher, debounce, spacing time.Duration) *Refresher {
	return &Refresher{
		fetch:    fetch,
		debounce: debounce,
		spacing:  spacing,
		timers:   make(map[string]*time.Timer),
		lastRun:  make(map[string]time.Time),
	}
}

// Kick schedules a refresh for the swap.  Kicks within the debounce window
// reset the timer instead of queueing more fetches.
func (r *Refresher) Kick(swapID string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.stopped {
		return
	}
	if t, ok := r.timers[swapID]; ok {
		t.Reset(r.debounce)
		return
	}
	r.timers[swapID] = time.AfterFunc(r.debounce, func() {
		r.fire(swapID)
	})
}

func (r *Refresher) fire(swapID string) {
	r.mtx.Lock()
	if r.stopped {
		r.mtx.Unlock()
		return
	}
	if last, ok := r.lastRun[swapID]; ok {
		if wait := r.spacing - time.Since(last); wait > 0 {
			// Too soon after the last fetch, push the timer out.
			r.timers[swapID].Reset(wait)
			r.mtx.Unlock()
			return
		}
	}
	r.lastRun[swapID] = time.Now()
	delete(r.timers, swapID)
	r.mtx.Unlock()

	// Collapse concurrent fetches for the same swap into one call.
	_, err, _ := r.group.Do(swapID, func() (interface{}, error) {
		return nil, r.fetch.FetchSummary(swapID)
	})
	if err != nil {
		logging.Warnf("refresher: summary fetch for swap %s failed: %s\n", swapID, err.Error())
	}
}

// Stop cancels all pending timers.  Kicks after Stop are ignored.
func (r *Refresher) Stop() {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.stopped = true
	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}
