// Package interact implements the pointer-driven interaction engines:
// rubber-band and modifier-click selection, and single/group entity
// dragging with pointer-capture-loss safety.
//
// All state here is event-driven and single-threaded: mutation happens on
// input callbacks only. Renderers read the current state per frame.
package interact

import (
	"sort"

	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/geom"
)

// SelectionState is the selection engine's state machine.
type SelectionState int

const (
	SelectionIdle SelectionState = iota
	SelectionBoxing
	SelectionHas
)

// Selection is the mutable set of selected entity ids plus the in-flight
// rubber-band box. It is independent of drag state; the drag engine reads
// it at drag start.
type Selection struct {
	state    SelectionState
	ids      map[string]bool
	boxStart geom.Point
	boxEnd   geom.Point
}

// NewSelection returns an empty selection in the idle state.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]bool)}
}

// State returns the current state machine state.
func (s *Selection) State() SelectionState { return s.state }

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool { return s.ids[id] }

// Len returns the number of selected entities.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clear empties the selection. Background clicks and clicks on unselected
// entities route through here.
func (s *Selection) Clear() {
	s.ids = make(map[string]bool)
	s.state = SelectionIdle
}

// Toggle flips membership of a single id without touching the rest, the
// modifier-click behavior.
func (s *Selection) Toggle(id string) {
	if s.ids[id] {
		delete(s.ids, id)
	} else {
		s.ids[id] = true
	}
	if len(s.ids) == 0 {
		s.state = SelectionIdle
	} else {
		s.state = SelectionHas
	}
}

// Select replaces the selection with a single id.
func (s *Selection) Select(id string) {
	s.ids = map[string]bool{id: true}
	s.state = SelectionHas
}

// StartBox begins a rubber-band gesture at a board point.
func (s *Selection) StartBox(p geom.Point) {
	s.state = SelectionBoxing
	s.boxStart = p
	s.boxEnd = p
}

// UpdateBox moves the rubber band's free corner.
func (s *Selection) UpdateBox(p geom.Point) {
	if s.state == SelectionBoxing {
		s.boxEnd = p
	}
}

// Box returns the current rubber-band rectangle and whether one is active.
func (s *Selection) Box() (geom.Rect, bool) {
	if s.state != SelectionBoxing {
		return geom.Rect{}, false
	}
	return geom.NormalizedBox(s.boxStart, s.boxEnd), true
}

// ReleaseBox ends the rubber-band gesture, replacing the selection
// wholesale with every entity whose rectangle overlaps the box. Any
// overlap qualifies. An empty result returns the engine to idle.
func (s *Selection) ReleaseBox(entities []*board.Entity) []string {
	if s.state != SelectionBoxing {
		return nil
	}
	box := geom.NormalizedBox(s.boxStart, s.boxEnd)
	s.ids = make(map[string]bool)
	for _, e := range entities {
		if e.Rect().Intersects(box) {
			s.ids[e.ID] = true
		}
	}
	if len(s.ids) == 0 {
		s.state = SelectionIdle
	} else {
		s.state = SelectionHas
	}
	return s.IDs()
}
