// Package layout assigns positions to board entities. The deterministic
// grid fallback always succeeds; an optional HTTP layout service can
// propose nicer positions and is abandoned on any failure.
package layout

import (
	"math"
	"sort"

	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/geom"
)

const (
	gapX       = 48.0
	gapY       = 40.0
	originX    = 60.0
	originY    = 60.0
	groupGapY  = 80.0
	maxRowSpan = 1600.0 // loose entities wrap once a row exceeds this width
)

// Result maps entity id to its assigned top-left position.
type Result map[string]geom.Point

// Fallback computes a deterministic grid layout. Entities sharing a
// connected component are packed into a near-square grid per component;
// components stack vertically; entities with no links flow row-major
// underneath. Every entity in reg gets a position.
func Fallback(reg *board.Registry, links []board.Link) Result {
	visible := make(map[string]bool, reg.Len())
	for _, id := range reg.IDsSorted() {
		visible[id] = true
	}
	grouping := board.BuildGrouping(reg, links, visible, nil)

	out := make(Result, reg.Len())
	y := originY

	for i := range grouping.Components {
		members := grouping.Components[i].Members
		y = placeGrid(reg, members, originX, y, out) + groupGapY
	}

	// Loose entities flow after the component blocks, wrapping by width
	// rather than count since their sizes vary more.
	loose := make([]string, 0, reg.Len())
	for _, id := range reg.IDsSorted() {
		if grouping.ComponentOf(id) < 0 {
			loose = append(loose, id)
		}
	}
	sort.Strings(loose)
	placeFlow(reg, loose, originX, y, out)
	return out
}

// Apply writes positions from a layout result into the registry. Unknown
// ids are skipped.
func Apply(reg *board.Registry, res Result) {
	ids := make([]string, 0, len(res))
	for id := range res {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if reg.Has(id) {
			reg.SetPos(id, res[id])
		}
	}
}

// placeGrid lays members out in a near-square grid anchored at (x, y),
// with cell size taken from the largest member. Returns the y coordinate
// just below the block.
func placeGrid(reg *board.Registry, members []string, x, y float64, out Result) float64 {
	var cellW, cellH float64
	for _, id := range members {
		if e := reg.Get(id); e != nil {
			cellW = math.Max(cellW, e.Size.W)
			cellH = math.Max(cellH, e.Size.H)
		}
	}
	if cellW == 0 {
		return y
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(members)))))
	rows := 0
	for i, id := range members {
		col := i % cols
		row := i / cols
		out[id] = geom.Pt(x+float64(col)*(cellW+gapX), y+float64(row)*(cellH+gapY))
		if row+1 > rows {
			rows = row + 1
		}
	}
	return y + float64(rows)*(cellH+gapY)
}

// placeFlow lays entities left to right, wrapping when a row exceeds
// maxRowSpan. Row height tracks the tallest entity in the row.
func placeFlow(reg *board.Registry, ids []string, x0, y float64, out Result) {
	x := x0
	rowH := 0.0
	for _, id := range ids {
		e := reg.Get(id)
		if e == nil {
			continue
		}
		if x > x0 && x+e.Size.W > maxRowSpan {
			x = x0
			y += rowH + gapY
			rowH = 0
		}
		out[id] = geom.Pt(x, y)
		x += e.Size.W + gapX
		rowH = math.Max(rowH, e.Size.H)
	}
}
