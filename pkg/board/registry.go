package board

import (
	"fmt"
	"math"
	"sort"

	"github.com/vanderheijden86/corkboard/pkg/geom"
)

// Board extent growth parameters. The extent grows in chunks so a drag
// does not trigger a resize on every pixel of movement, and it never
// shrinks automatically.
const (
	ExtentChunk  = 500.0
	ExtentMargin = 100.0
)

// Default grid placement for entities loaded without a persisted position.
const (
	gridColumns  = 4
	gridSpacingX = 240.0
	gridSpacingY = 180.0
	gridOriginX  = 60.0
	gridOriginY  = 60.0
)

// EntityRecord is the boundary contract for the entity source: position
// and size are optional and default deterministically when absent.
type EntityRecord struct {
	ID    string
	Kind  Kind
	Pos   *geom.Point
	Size  *geom.Size
	Color string
}

// Registry holds every entity on the board plus the paint order and the
// growable board extent. It is the single authority for positions and
// stacking; renderers and the culler read from it and never write.
type Registry struct {
	entities map[string]*Entity
	zorder   []string // paint order, last entry is topmost
	extent   geom.Size

	gridCursor int // next default grid slot for entities without a position
}

// NewRegistry returns an empty registry with a one-chunk extent.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]*Entity),
		extent:   geom.Size{W: ExtentChunk, H: ExtentChunk},
	}
}

// Load registers a batch of entity records. Records without a position are
// placed on the default grid in record order, so a given input always
// produces the same placement. Returns an error on duplicate ids.
func (r *Registry) Load(records []EntityRecord) error {
	for _, rec := range records {
		if err := r.Add(rec); err != nil {
			return err
		}
	}
	return nil
}

// Add registers a single entity. A nil position assigns the next default
// grid slot; a nil size assigns the kind default.
func (r *Registry) Add(rec EntityRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("entity id is empty")
	}
	if _, ok := r.entities[rec.ID]; ok {
		return fmt.Errorf("duplicate entity id %q", rec.ID)
	}

	e := &Entity{ID: rec.ID, Kind: rec.Kind, Color: rec.Color}
	if rec.Size != nil {
		e.Size = *rec.Size
	} else {
		e.Size = DefaultSize(rec.Kind)
	}
	if rec.Pos != nil {
		e.Pos = clampPos(*rec.Pos)
	} else {
		e.Pos = r.nextGridSlot()
	}

	r.entities[e.ID] = e
	r.zorder = append(r.zorder, e.ID)
	r.growExtentFor(e.Rect())
	return nil
}

func (r *Registry) nextGridSlot() geom.Point {
	col := r.gridCursor % gridColumns
	row := r.gridCursor / gridColumns
	r.gridCursor++
	return geom.Pt(gridOriginX+float64(col)*gridSpacingX, gridOriginY+float64(row)*gridSpacingY)
}

// Get returns the entity with the given id, or nil.
func (r *Registry) Get(id string) *Entity {
	return r.entities[id]
}

// Has reports whether an entity with the given id exists.
func (r *Registry) Has(id string) bool {
	_, ok := r.entities[id]
	return ok
}

// Len returns the number of registered entities.
func (r *Registry) Len() int { return len(r.entities) }

// All returns every entity in paint order (bottom first). The slice is
// freshly allocated; the pointed-to entities are live.
func (r *Registry) All() []*Entity {
	out := make([]*Entity, 0, len(r.zorder))
	for _, id := range r.zorder {
		if e, ok := r.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// IDsSorted returns all entity ids in lexical order. Component discovery
// iterates this to keep color assignment deterministic.
func (r *Registry) IDsSorted() []string {
	ids := make([]string, 0, len(r.entities))
	for id := range r.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetPos moves an entity, clamping to non-negative coordinates and growing
// the board extent in chunks when the entity would cross it.
func (r *Registry) SetPos(id string, p geom.Point) {
	e := r.entities[id]
	if e == nil {
		return
	}
	e.Pos = clampPos(p)
	r.growExtentFor(e.Rect())
}

// SetSize resizes an entity, clamping to a minimum and growing the extent
// as needed.
func (r *Registry) SetSize(id string, s geom.Size) {
	e := r.entities[id]
	if e == nil {
		return
	}
	e.Size = geom.Size{W: math.Max(s.W, 40), H: math.Max(s.H, 32)}
	r.growExtentFor(e.Rect())
}

// SetColor sets an entity's color tag.
func (r *Registry) SetColor(id, color string) {
	if e := r.entities[id]; e != nil {
		e.Color = color
	}
}

// Delete removes the entity. Link pruning and persisted-row removal are
// the caller's cascade (see Graph.RemoveEntity and the store contract).
func (r *Registry) Delete(id string) bool {
	if _, ok := r.entities[id]; !ok {
		return false
	}
	delete(r.entities, id)
	for i, zid := range r.zorder {
		if zid == id {
			r.zorder = append(r.zorder[:i], r.zorder[i+1:]...)
			break
		}
	}
	return true
}

// BringToFront moves the entity to the end of the paint order. Any
// activating interaction (click, drag start, focus) routes through here;
// the z-order list is the sole source of stacking order.
func (r *Registry) BringToFront(id string) {
	n := len(r.zorder)
	if n == 0 || r.zorder[n-1] == id {
		return
	}
	for i, zid := range r.zorder {
		if zid == id {
			copy(r.zorder[i:], r.zorder[i+1:])
			r.zorder[n-1] = id
			return
		}
	}
}

// ZOrder returns the paint order (bottom first). The returned slice is a
// copy.
func (r *Registry) ZOrder() []string {
	out := make([]string, len(r.zorder))
	copy(out, r.zorder)
	return out
}

// TopmostAt returns the topmost entity whose rectangle contains the given
// board point, or nil. This is the pointer-to-entity resolver: hit testing
// walks the paint order top-down with no dependency on any UI tree.
func (r *Registry) TopmostAt(p geom.Point) *Entity {
	for i := len(r.zorder) - 1; i >= 0; i-- {
		e := r.entities[r.zorder[i]]
		if e != nil && e.Rect().Contains(p) {
			return e
		}
	}
	return nil
}

// Extent returns the current board extent.
func (r *Registry) Extent() geom.Size { return r.extent }

// BoundingBox returns the union of all entity rectangles.
func (r *Registry) BoundingBox() geom.Rect {
	var box geom.Rect
	for _, e := range r.entities {
		box = box.Union(e.Rect())
	}
	return box
}

// growExtentFor widens the extent to the next chunk boundary that fits the
// given rectangle plus margin. The extent never shrinks.
func (r *Registry) growExtentFor(rect geom.Rect) {
	needW := rect.X + rect.W + ExtentMargin
	needH := rect.Y + rect.H + ExtentMargin
	if needW > r.extent.W {
		r.extent.W = math.Ceil(needW/ExtentChunk) * ExtentChunk
	}
	if needH > r.extent.H {
		r.extent.H = math.Ceil(needH/ExtentChunk) * ExtentChunk
	}
}

func clampPos(p geom.Point) geom.Point {
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	return p
}
