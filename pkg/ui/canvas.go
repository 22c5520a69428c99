package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/camera"
	"github.com/vanderheijden86/corkboard/pkg/geom"
	"github.com/vanderheijden86/corkboard/pkg/interact"
)

// One terminal cell covers this many screen pixels. The 1:2 ratio keeps
// boxes roughly square on common terminal fonts.
const (
	CellPxW = 10.0
	CellPxH = 20.0
)

// canvasView renders the board into a character grid. Connections go
// down first, then entity boxes in stacking order, then arrow heads,
// the rubber band and the cursor on top.
type canvasView struct {
	reg      *board.Registry
	cam      *camera.Camera
	grouping *board.Grouping
	visible  map[string]bool
	sel      *interact.Selection

	highlightOn bool
	highlight   map[string]bool

	// cardScale is the board-wide entity size multiplier from the render
	// config. Visual only: hit testing stays on board-space rects.
	cardScale float64

	cursorCol, cursorRow int
	width, height        int
}

type arrowMark struct {
	col, row int
	glyph    rune
}

func (v canvasView) render() string {
	if v.width <= 0 || v.height <= 0 {
		return ""
	}

	grid := make([][]rune, v.height)
	for r := range grid {
		grid[r] = make([]rune, v.width)
		for c := range grid[r] {
			grid[r][c] = ' '
		}
	}

	var arrows []arrowMark
	if v.grouping != nil {
		for _, e := range v.grouping.Edges {
			if mark, ok := v.drawEdge(grid, e); ok {
				arrows = append(arrows, mark)
			}
		}
	}

	for _, id := range v.reg.ZOrder() {
		if v.visible != nil && !v.visible[id] {
			continue
		}
		v.drawBox(grid, v.reg.Get(id))
	}

	for _, a := range arrows {
		v.setCell(grid, a.col, a.row, a.glyph)
	}

	if v.sel != nil {
		if box, ok := v.sel.Box(); ok {
			v.drawBand(grid, box)
		}
	}

	if v.cursorRow >= 0 && v.cursorRow < v.height && v.cursorCol >= 0 && v.cursorCol < v.width {
		grid[v.cursorRow][v.cursorCol] = '█'
	}

	var b strings.Builder
	for r, row := range grid {
		if r > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.TrimRight(string(row), " "))
	}
	return b.String()
}

// cellOf converts a board point to grid coordinates.
func (v canvasView) cellOf(p geom.Point) (col, row int) {
	s := v.cam.ToScreen(p)
	return int(s.X / CellPxW), int(s.Y / CellPxH)
}

// cellRect is an entity's box footprint in grid coordinates.
func (v canvasView) cellRect(e *board.Entity) (c0, r0, cw, rh int) {
	scale := v.cardScale
	if scale <= 0 {
		scale = 1
	}
	c0, r0 = v.cellOf(e.Pos)
	cw = int(e.Size.W * scale * v.cam.Zoom / CellPxW)
	rh = int(e.Size.H * scale * v.cam.Zoom / CellPxH)
	if cw < 4 {
		cw = 4
	}
	if rh < 3 {
		rh = 3
	}
	return c0, r0, cw, rh
}

func (v canvasView) drawBox(grid [][]rune, e *board.Entity) {
	c0, r0, cw, rh := v.cellRect(e)

	corner, horiz, vert := '+', '-', '|'
	switch {
	case v.sel != nil && v.sel.Has(e.ID):
		corner, horiz, vert = '#', '#', '#'
	case v.highlightOn && !v.highlight[e.ID]:
		// Dim everything outside the attention set.
		corner, horiz, vert = '.', '.', '.'
	}

	for r := r0; r < r0+rh; r++ {
		for c := c0; c < c0+cw; c++ {
			if r < 0 || r >= v.height || c < 0 || c >= v.width {
				continue
			}
			top, bottom := r == r0, r == r0+rh-1
			left, right := c == c0, c == c0+cw-1
			switch {
			case (top || bottom) && (left || right):
				grid[r][c] = corner
			case top || bottom:
				grid[r][c] = horiz
			case left || right:
				grid[r][c] = vert
			default:
				grid[r][c] = ' '
			}
		}
	}

	label := e.ID
	if v.highlightOn && v.highlight[e.ID] {
		label = "*" + label
	}
	v.drawText(grid, c0+1, r0+1, runewidth.Truncate(label, cw-2, "…"))
	if rh >= 4 {
		v.drawText(grid, c0+1, r0+2, runewidth.Truncate(e.Kind.String(), cw-2, "…"))
	}
}

func (v canvasView) drawText(grid [][]rune, col, row int, s string) {
	if row < 0 || row >= v.height {
		return
	}
	for _, ch := range s {
		if col >= 0 && col < v.width {
			grid[row][col] = ch
		}
		col += runewidth.RuneWidth(ch)
	}
}

// drawEdge draws an L-shaped connector between the two anchors: vertical
// run at the source column, then horizontal into the target row. The
// returned arrow mark sits just outside the target box so the box pass
// cannot paint over it.
func (v canvasView) drawEdge(grid [][]rune, e board.Edge) (arrowMark, bool) {
	a := v.reg.Get(e.Link.A)
	b := v.reg.Get(e.Link.B)
	if a == nil || b == nil {
		return arrowMark{}, false
	}
	if v.visible != nil && (!v.visible[a.ID] || !v.visible[b.ID]) {
		return arrowMark{}, false
	}

	// Parallel edges between the same pair shift sideways a column each
	// so they stay distinguishable.
	shift := e.OffsetIndex - (e.Count-1)/2

	ac, ar := v.cellOf(board.AnchorOf(a))
	bc, br := v.cellOf(board.AnchorOf(b))
	ac += shift
	bc += shift

	for r := min(ar, br) + 1; r < max(ar, br); r++ {
		v.setIfBlank(grid, ac, r, '│')
	}
	for c := min(ac, bc) + 1; c < max(ac, bc); c++ {
		v.setIfBlank(grid, c, br, '─')
	}

	bc0, br0, bcw, brh := v.cellRect(b)
	mark := arrowMark{col: bc, row: br, glyph: '▶'}
	switch {
	case ac == bc && br > ar:
		mark.glyph = '▼'
		mark.row = br0 - 1
	case ac == bc && br < ar:
		mark.glyph = '▲'
		mark.row = br0 + brh
	case bc < ac:
		mark.glyph = '◀'
		mark.col = bc0 + bcw
	default:
		mark.col = bc0 - 1
	}
	return mark, true
}

func (v canvasView) drawBand(grid [][]rune, box geom.Rect) {
	c0, r0 := v.cellOf(box.Min())
	c1, r1 := v.cellOf(box.Max())
	for c := c0; c <= c1; c++ {
		v.setCell(grid, c, r0, ':')
		v.setCell(grid, c, r1, ':')
	}
	for r := r0; r <= r1; r++ {
		v.setCell(grid, c0, r, ':')
		v.setCell(grid, c1, r, ':')
	}
}

func (v canvasView) setCell(grid [][]rune, col, row int, ch rune) {
	if row >= 0 && row < v.height && col >= 0 && col < v.width {
		grid[row][col] = ch
	}
}

func (v canvasView) setIfBlank(grid [][]rune, col, row int, ch rune) {
	if row >= 0 && row < v.height && col >= 0 && col < v.width && grid[row][col] == ' ' {
		grid[row][col] = ch
	}
}
