// Package activity accumulates hover and edit attention per entity while
// highlight mode is active, and periodically derives the small set of
// entities that deserve visual emphasis.
//
// The tracker is a read-only observer of interaction: it never touches
// z-order, selection or persistence. Its only output is the highlight id
// set consumed by the emphasis overlay.
package activity

import (
	"sort"
	"time"
)

const (
	// DefaultRecomputeInterval is how often the highlight set is rescored.
	DefaultRecomputeInterval = 1200 * time.Millisecond

	// MinHoverThreshold is the minimum score before an entity can enter
	// the highlight set without an edit commit.
	MinHoverThreshold = 500 * time.Millisecond

	// TopN is the highlight set size.
	TopN = 5

	editWeight   = 2
	commitWeight = 2000 // milliseconds of equivalent hover per edit commit
)

// Metrics is the per-entity attention snapshot.
type Metrics struct {
	Hover       time.Duration
	Edit        time.Duration
	EditCommits int
	LastActive  time.Time
}

type entry struct {
	hover      time.Duration
	edit       time.Duration
	commits    int
	lastActive time.Time
	hoverStart time.Time // zero when not hovered
	editStart  time.Time // zero when not editing
}

// Tracker accumulates attention metrics while enabled. All methods are
// called from the input loop; the tracker performs no locking.
type Tracker struct {
	enabled bool
	now     func() time.Time

	entries   map[string]*entry
	hovered   string // current hover target, for adjacent-entity handoff
	editing   string
	firstPass bool // next Recompute force-includes recently active ids
	highlight []string
}

// NewTracker returns a disabled tracker.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now, entries: make(map[string]*entry)}
}

// SetClock injects a time source for tests.
func (t *Tracker) SetClock(now func() time.Time) { t.now = now }

// Enabled reports whether highlight mode is on.
func (t *Tracker) Enabled() bool { return t.enabled }

// SetEnabled toggles highlight mode. Turning it off resets all metrics
// and the highlight set entirely; turning it on arms the first-pass
// force-include so the user sees feedback on the first recompute.
func (t *Tracker) SetEnabled(on bool) {
	if on == t.enabled {
		return
	}
	t.enabled = on
	t.entries = make(map[string]*entry)
	t.hovered = ""
	t.editing = ""
	t.highlight = nil
	t.firstPass = on
}

// PointerEnter records the pointer entering an entity. Entering a new
// entity implicitly closes the previous hover, so attribution stays
// correct when the pointer moves directly between two adjacent entities
// without crossing empty space.
func (t *Tracker) PointerEnter(id string) {
	if !t.enabled || id == t.hovered {
		return
	}
	now := t.now()
	if t.hovered != "" {
		t.closeHover(t.hovered, now)
	}
	e := t.entry(id)
	e.hoverStart = now
	e.lastActive = now
	t.hovered = id
}

// PointerLeave records the pointer leaving an entity. Leaves for an
// entity that is no longer the hover target (stale events after a
// handoff) are ignored.
func (t *Tracker) PointerLeave(id string) {
	if !t.enabled || id != t.hovered {
		return
	}
	t.closeHover(id, t.now())
	t.hovered = ""
}

// FocusGained records the start of an editing session on an entity.
func (t *Tracker) FocusGained(id string) {
	if !t.enabled {
		return
	}
	now := t.now()
	if t.editing != "" && t.editing != id {
		t.closeEdit(t.editing, now)
	}
	e := t.entry(id)
	e.editStart = now
	e.lastActive = now
	t.editing = id
}

// FocusLost records the end of an editing session.
func (t *Tracker) FocusLost(id string) {
	if !t.enabled || id != t.editing {
		return
	}
	t.closeEdit(id, t.now())
	t.editing = ""
}

// EditCommitted records a completed edit on an entity.
func (t *Tracker) EditCommitted(id string) {
	if !t.enabled {
		return
	}
	e := t.entry(id)
	e.commits++
	e.lastActive = t.now()
}

// MetricsFor returns the accumulated metrics for an entity, including any
// in-flight hover or edit time, and whether the entity is tracked at all.
func (t *Tracker) MetricsFor(id string) (Metrics, bool) {
	e, ok := t.entries[id]
	if !ok {
		return Metrics{}, false
	}
	now := t.now()
	m := Metrics{Hover: e.hover, Edit: e.edit, EditCommits: e.commits, LastActive: e.lastActive}
	if !e.hoverStart.IsZero() {
		m.Hover += now.Sub(e.hoverStart)
	}
	if !e.editStart.IsZero() {
		m.Edit += now.Sub(e.editStart)
	}
	return m, true
}

// Recompute rescores every tracked entity and replaces the highlight set.
// Score is hover + 2x edit + 2000ms per commit; entries qualify once the
// score clears the hover threshold, or with at least one commit. On the
// first recompute after enabling, the most recently active entities are
// force-included so the overlay is not empty while scores warm up.
func (t *Tracker) Recompute() []string {
	if !t.enabled {
		t.highlight = nil
		return nil
	}

	type scored struct {
		id         string
		score      time.Duration
		lastActive time.Time
		qualifies  bool
	}
	var all []scored
	for id := range t.entries {
		m, _ := t.MetricsFor(id)
		score := m.Hover + editWeight*m.Edit + time.Duration(m.EditCommits)*commitWeight*time.Millisecond
		all = append(all, scored{
			id:         id,
			score:      score,
			lastActive: m.LastActive,
			qualifies:  score >= MinHoverThreshold || m.EditCommits > 0,
		})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].id < all[j].id
	})

	var picked []string
	for _, s := range all {
		if len(picked) == TopN {
			break
		}
		if s.qualifies {
			picked = append(picked, s.id)
		}
	}

	if t.firstPass && len(picked) < TopN {
		recent := make([]scored, len(all))
		copy(recent, all)
		sort.Slice(recent, func(i, j int) bool {
			if !recent[i].lastActive.Equal(recent[j].lastActive) {
				return recent[i].lastActive.After(recent[j].lastActive)
			}
			return recent[i].id < recent[j].id
		})
		have := make(map[string]bool, len(picked))
		for _, id := range picked {
			have[id] = true
		}
		for _, s := range recent {
			if len(picked) == TopN {
				break
			}
			if !have[s.id] {
				picked = append(picked, s.id)
			}
		}
	}
	t.firstPass = false

	t.highlight = picked
	return t.Highlight()
}

// Highlight returns the current highlight set as computed by the last
// Recompute. The slice is a copy.
func (t *Tracker) Highlight() []string {
	out := make([]string, len(t.highlight))
	copy(out, t.highlight)
	return out
}

func (t *Tracker) entry(id string) *entry {
	e, ok := t.entries[id]
	if !ok {
		e = &entry{}
		t.entries[id] = e
	}
	return e
}

func (t *Tracker) closeHover(id string, now time.Time) {
	e := t.entries[id]
	if e == nil || e.hoverStart.IsZero() {
		return
	}
	e.hover += now.Sub(e.hoverStart)
	e.hoverStart = time.Time{}
	e.lastActive = now
}

func (t *Tracker) closeEdit(id string, now time.Time) {
	e := t.entries[id]
	if e == nil || e.editStart.IsZero() {
		return
	}
	e.edit += now.Sub(e.editStart)
	e.editStart = time.Time{}
	e.lastActive = now
}
