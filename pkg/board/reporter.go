package board

import (
	"sync"
	"time"
)

// DefaultReportDelay is how long invalid-link reports are coalesced before
// the cleanup callback fires.
const DefaultReportDelay = time.Second

// CleanupReporter batches invalid links for an external cleanup
// collaborator. Reports are deduplicated by endpoint pair and debounced,
// so a burst of invalid links during repeated grouping rebuilds produces
// at most one cleanup request per pair.
type CleanupReporter struct {
	delay time.Duration
	flush func([]Link)

	mu      sync.Mutex
	pending map[string]Link
	timer   *time.Timer
}

// NewCleanupReporter returns a reporter that invokes flush with the
// deduplicated batch after the debounce delay. A non-positive delay uses
// DefaultReportDelay. flush runs on a timer goroutine and must not block
// input handling.
func NewCleanupReporter(delay time.Duration, flush func([]Link)) *CleanupReporter {
	if delay <= 0 {
		delay = DefaultReportDelay
	}
	return &CleanupReporter{
		delay:   delay,
		flush:   flush,
		pending: make(map[string]Link),
	}
}

// Report queues an invalid link. Safe to call from grouping rebuilds at
// any rate.
func (r *CleanupReporter) Report(l Link) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := l.PairKey()
	if _, dup := r.pending[key]; dup {
		return
	}
	r.pending[key] = l

	if r.timer == nil {
		r.timer = time.AfterFunc(r.delay, r.fire)
	}
}

// Pending returns the number of queued reports, for tests and diagnostics.
func (r *CleanupReporter) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Stop cancels any queued flush and drops pending reports.
func (r *CleanupReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.pending = make(map[string]Link)
}

func (r *CleanupReporter) fire() {
	r.mu.Lock()
	batch := make([]Link, 0, len(r.pending))
	for _, l := range r.pending {
		batch = append(batch, l)
	}
	r.pending = make(map[string]Link)
	r.timer = nil
	r.mu.Unlock()

	if len(batch) > 0 && r.flush != nil {
		r.flush(batch)
	}
}
