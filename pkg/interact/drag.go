package interact

import (
	"math"
	"sort"

	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/camera"
	"github.com/vanderheijden86/corkboard/pkg/geom"
)

// Drag moves one entity, or the whole selection rigidly, under a captured
// pointer. It is the only writer of live positions during an interaction.
type Drag struct {
	reg *board.Registry
	cam *camera.Camera

	active    bool
	pointerID int
	primary   string
	offset    geom.Point            // pointer board point minus primary position at start
	starts    map[string]geom.Point // start-of-drag snapshot per dragged entity

	// OnCommit is invoked once with the dragged ids when the drag ends.
	// Persistence scheduling hangs off this; nothing is written before it.
	OnCommit func(ids []string)
}

// NewDrag returns a drag engine over the given registry and camera.
func NewDrag(reg *board.Registry, cam *camera.Camera) *Drag {
	return &Drag{reg: reg, cam: cam}
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool { return d.active }

// PointerID returns the captured pointer id, valid only while Active.
func (d *Drag) PointerID() int { return d.pointerID }

// Dragging reports whether the given entity is part of the current drag.
// Views use this to render dragged entities above everything else and to
// bypass settle easing on their position updates.
func (d *Drag) Dragging(id string) bool {
	if !d.active {
		return false
	}
	_, ok := d.starts[id]
	return ok
}

// Start captures the pointer and snapshots start positions. If the pressed
// entity belongs to the selection, the whole selection drags as a rigid
// group; otherwise it is a single-entity drag. Positions are snapshotted
// by value, not referenced live, so mid-drag mutations elsewhere cannot
// skew the group.
func (d *Drag) Start(pointerID int, screen geom.Point, entityID string, sel *Selection) {
	e := d.reg.Get(entityID)
	if e == nil {
		return
	}

	d.active = true
	d.pointerID = pointerID
	d.primary = entityID
	d.starts = make(map[string]geom.Point)

	if sel != nil && sel.Has(entityID) && sel.Len() > 0 {
		for _, id := range sel.IDs() {
			if se := d.reg.Get(id); se != nil {
				d.starts[id] = se.Pos
			}
		}
	} else {
		d.starts[entityID] = e.Pos
	}

	boardPt := d.cam.ToBoard(screen)
	d.offset = boardPt.Sub(e.Pos)

	// Dragged entities paint above everything else for the duration.
	for _, id := range d.sortedIDs() {
		if id != d.primary {
			d.reg.BringToFront(id)
		}
	}
	d.reg.BringToFront(d.primary)
}

// Move applies a pointer move. The board point is derived from the raw
// screen point with the camera's *current* zoom, so zooming mid-drag stays
// correct. Every dragged entity moves by the same delta relative to its
// own snapshot; the delta is clamped as a whole so no member crosses the
// board origin, preserving exact relative offsets.
func (d *Drag) Move(pointerID int, screen geom.Point) {
	if !d.active || pointerID != d.pointerID {
		return
	}
	start, ok := d.starts[d.primary]
	if !ok {
		return
	}

	boardPt := d.cam.ToBoard(screen)
	target := boardPt.Sub(d.offset)
	delta := target.Sub(start)

	var minX, minY = math.Inf(1), math.Inf(1)
	for _, p := range d.starts {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
	}
	if delta.X < -minX {
		delta.X = -minX
	}
	if delta.Y < -minY {
		delta.Y = -minY
	}

	for id, p := range d.starts {
		d.reg.SetPos(id, p.Add(delta))
	}
}

// End releases the capture and commits final positions as authoritative
// registry state. Any pointer-up or pointer-cancel ends the drag, on any
// target and regardless of pointer id mismatch after capture loss, so the
// interaction can never become permanently stuck.
func (d *Drag) End() {
	if !d.active {
		return
	}
	ids := d.sortedIDs()
	d.active = false
	d.starts = nil
	d.primary = ""

	if d.OnCommit != nil {
		d.OnCommit(ids)
	}
}

// Cancel aborts the drag, restoring every entity to its snapshot position.
func (d *Drag) Cancel() {
	if !d.active {
		return
	}
	for id, p := range d.starts {
		d.reg.SetPos(id, p)
	}
	d.active = false
	d.starts = nil
	d.primary = ""
}

func (d *Drag) sortedIDs() []string {
	ids := make([]string, 0, len(d.starts))
	for id := range d.starts {
		ids = append(ids, id)
	}
	// Stable order for commit callbacks and z-raising.
	sort.Strings(ids)
	return ids
}
