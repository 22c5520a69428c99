package render

import (
	"image/color"
	"math"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/geom"
)

// Connection curve constants.
const (
	connBowFactor    = 0.2  // control-point offset as a fraction of chord length
	connBowCap       = 60.0 // cap on the perpendicular control offset, screen px
	connParallelStep = 18.0 // spacing between parallel edges of the same pair
	connMaxLabel     = 24   // labels truncate past this many runes

	// Opacity tiers: edges inside the hovered blob pop, edges inside
	// other blobs recede, edges outside any blob render at full strength.
	connAlphaHovered = 0.95
	connAlphaInBlob  = 0.40
	connAlphaFree    = 0.85
)

// ConnectionRenderer rasterizes every visible link as a pixel-quantized
// quadratic bezier with an arrowhead at the "to" end.
type ConnectionRenderer struct{}

// Frame paints all edges of the scene's grouping into dc.
func (ConnectionRenderer) Frame(dc *gg.Context, sc *Scene, elapsed float64) {
	for i := range sc.Grouping.Edges {
		drawEdge(dc, sc, &sc.Grouping.Edges[i])
	}
}

func drawEdge(dc *gg.Context, sc *Scene, e *board.Edge) {
	from := sc.Reg.Get(e.Link.A)
	to := sc.Reg.Get(e.Link.B)
	if from == nil || to == nil {
		return
	}

	a := sc.Cam.ToScreen(board.AnchorOf(from))
	b := sc.Cam.ToScreen(board.AnchorOf(to))

	chord := b.Sub(a)
	dist := a.Dist(b)
	if dist < geom.Epsilon {
		return // degenerate connection, nothing to draw
	}
	perp := chord.Norm().Perp()

	// Bow the curve perpendicular to the chord, then fan parallel edges
	// of the same pair out evenly around the straight line.
	bow := math.Min(dist*connBowFactor, connBowCap)
	spread := (float64(e.OffsetIndex) - float64(e.Count-1)/2) * connParallelStep
	mid := a.Add(chord.Scale(0.5))
	ctrl := mid.Add(perp.Scale(bow + spread))

	alpha := connAlphaFree
	col := edgeColor(sc, e)
	if sc.blobRendered(e.Component) {
		if e.Component == sc.HoveredComponent {
			alpha = connAlphaHovered
		} else {
			alpha = connAlphaInBlob
		}
	}

	unit := sc.pixelUnit()
	drawBezierPixels(dc, a, ctrl, b, unit, col, alpha)

	// The blob already conveys grouping; an arrow inside it is noise.
	sameBlob := sc.blobRendered(e.Component) &&
		sc.Grouping.ComponentOf(e.Link.A) == sc.Grouping.ComponentOf(e.Link.B)
	if !sameBlob {
		drawArrowhead(dc, ctrl, b, unit, col, alpha)
	}

	if e.Link.Note != "" {
		label := truncateLabel(e.Link.Note, connMaxLabel)
		p := bezierPoint(a, ctrl, b, 0.5)
		dc.SetFontFace(basicfont.Face7x13)
		dc.SetRGBA(float64(col.R)/255, float64(col.G)/255, float64(col.B)/255, math.Min(alpha+0.1, 1))
		dc.DrawStringAnchored(label, p.X, p.Y-6, 0.5, 0.5)
	}
}

// edgeColor uses the component palette color so curves and their blob
// read as one group.
func edgeColor(sc *Scene, e *board.Edge) color.RGBA {
	if e.Component >= 0 && e.Component < len(sc.Grouping.Components) {
		return sc.Grouping.Components[e.Component].Color
	}
	return board.Palette[len(board.Palette)-1]
}

// drawBezierPixels flattens the quadratic bezier into short segments and
// draws each with Bresenham on the block grid. Segment count scales with
// chord length so long curves stay smooth without oversampling short ones.
func drawBezierPixels(dc *gg.Context, a, ctrl, b geom.Point, unit float64, c color.RGBA, alpha float64) {
	segs := int(a.Dist(b) / (unit * 2))
	if segs < 8 {
		segs = 8
	}
	if segs > 64 {
		segs = 64
	}

	prev := a
	for i := 1; i <= segs; i++ {
		t := float64(i) / float64(segs)
		p := bezierPoint(a, ctrl, b, t)
		drawPixelLine(dc,
			blockOf(prev.X, unit), blockOf(prev.Y, unit),
			blockOf(p.X, unit), blockOf(p.Y, unit),
			unit, c, alpha)
		prev = p
	}
}

// bezierPoint evaluates the quadratic bezier at t.
func bezierPoint(a, ctrl, b geom.Point, t float64) geom.Point {
	u := 1 - t
	return geom.Pt(
		u*u*a.X+2*u*t*ctrl.X+t*t*b.X,
		u*u*a.Y+2*u*t*ctrl.Y+t*t*b.Y,
	)
}

// drawArrowhead paints two stacked rotated filled rectangles at the "to"
// endpoint, aligned with the curve's arrival tangent.
func drawArrowhead(dc *gg.Context, ctrl, b geom.Point, unit float64, c color.RGBA, alpha float64) {
	dir := b.Sub(ctrl).Norm()
	angle := math.Atan2(dir.Y, dir.X)

	dc.Push()
	dc.Translate(b.X, b.Y)
	dc.Rotate(angle)
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, alpha)
	dc.DrawRectangle(-2.5*unit, -unit, 1.5*unit, 2*unit)
	dc.Fill()
	dc.DrawRectangle(-1.25*unit, -unit/2, 1.25*unit, unit)
	dc.Fill()
	dc.Pop()
}

func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
