// Package viewport filters the full entity set down to what intersects
// the camera viewport, so renderers and views only touch what is on or
// near the screen.
package viewport

import (
	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/geom"
)

// DefaultPadding is how far beyond the viewport edge entities still count
// as visible, so things sliding into view are already materialized.
const DefaultPadding = 200.0

// Culler selects the visible subset of entities for a viewport rectangle.
// The linear implementation below is fine at expected board sizes; the
// interface exists so a spatial index can be substituted without touching
// callers.
type Culler interface {
	Visible(entities []*board.Entity, viewport geom.Rect) []*board.Entity
}

// LinearCuller tests every entity's bounding box against the padded
// viewport. Cost is linear in entity count per recompute.
type LinearCuller struct {
	Padding float64 // 0 means DefaultPadding
}

// Visible returns the entities whose bounding box intersects the viewport
// inflated by the padding, preserving input (paint) order.
func (c LinearCuller) Visible(entities []*board.Entity, viewport geom.Rect) []*board.Entity {
	pad := c.Padding
	if pad == 0 {
		pad = DefaultPadding
	}
	padded := viewport.Inflate(pad)

	out := make([]*board.Entity, 0, len(entities))
	for _, e := range entities {
		if e.Rect().Intersects(padded) {
			out = append(out, e)
		}
	}
	return out
}

// VisibleIDs is a convenience wrapper returning the visible set as an id
// set, the shape the connection grouping wants.
func VisibleIDs(c Culler, entities []*board.Entity, viewport geom.Rect) map[string]bool {
	ids := make(map[string]bool)
	for _, e := range c.Visible(entities, viewport) {
		ids[e.ID] = true
	}
	return ids
}
