// Package camera manages the viewport over the board: panning, bounded
// zooming and animated focus transitions, plus the affine transforms
// between board and screen coordinates.
//
// The camera is event-driven state: all mutation happens on the input
// loop, so no internal locking is performed. Renderers read it once per
// frame via ViewportRect.
package camera

import (
	"time"

	"github.com/vanderheijden86/corkboard/pkg/geom"
)

// Zoom bounds. SetZoom clamps into this range; animated transitions
// target a clamped zoom as well.
const (
	MinZoom = 0.5
	MaxZoom = 1.6
)

// DefaultTweenDuration is how long an AnimateTo transition takes.
const DefaultTweenDuration = 350 * time.Millisecond

// Camera holds the current and target view state. Offset is the board
// point rendered at the screen origin.
type Camera struct {
	Offset geom.Point
	Zoom   float64

	screenW float64
	screenH float64

	tween *tween
}

// tween is an in-flight animated transition. Starting a new AnimateTo
// replaces the pointer wholesale, so a stale tween can never blend into
// a newer one.
type tween struct {
	fromOffset geom.Point
	fromZoom   float64
	toOffset   geom.Point
	toZoom     float64
	start      time.Time
	duration   time.Duration
}

// New returns a camera at the board origin with zoom 1.
func New() *Camera {
	return &Camera{Zoom: 1}
}

// SetScreenSize records the screen dimensions used for viewport and
// centering math. Must be called before ViewportRect or AnimateTo.
func (c *Camera) SetScreenSize(w, h float64) {
	c.screenW = w
	c.screenH = h
}

// Pan translates the view by a screen-space delta. The board offset moves
// by the delta divided by the current zoom so panning speed is constant in
// screen pixels regardless of zoom. Panning cancels any running tween.
func (c *Camera) Pan(dx, dy float64) {
	c.tween = nil
	z := c.zoomOrDefault()
	c.Offset.X += dx / z
	c.Offset.Y += dy / z
}

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom], keeping the
// board point under the viewport center fixed. Cancels any running tween.
func (c *Camera) SetZoom(z float64) {
	c.tween = nil
	z = geom.Clamp(z, MinZoom, MaxZoom)
	center := c.ToBoard(geom.Pt(c.screenW/2, c.screenH/2))
	c.Zoom = z
	c.Offset.X = center.X - c.screenW/(2*z)
	c.Offset.Y = center.Y - c.screenH/(2*z)
}

// ToScreen converts a board point to screen coordinates.
func (c *Camera) ToScreen(p geom.Point) geom.Point {
	z := c.zoomOrDefault()
	return geom.Pt((p.X-c.Offset.X)*z, (p.Y-c.Offset.Y)*z)
}

// ToBoard converts a screen point to board coordinates. ToBoard(ToScreen(p))
// round-trips within floating point tolerance for any valid camera state.
func (c *Camera) ToBoard(p geom.Point) geom.Point {
	z := c.zoomOrDefault()
	return geom.Pt(p.X/z+c.Offset.X, p.Y/z+c.Offset.Y)
}

// ViewportRect returns the currently visible board-coordinate rectangle.
func (c *Camera) ViewportRect() geom.Rect {
	z := c.zoomOrDefault()
	return geom.Rect{X: c.Offset.X, Y: c.Offset.Y, W: c.screenW / z, H: c.screenH / z}
}

// AnimateTo starts an eased transition that centers the viewport on the
// given board point at the given zoom. A call while a previous transition
// is still running replaces it atomically; the two never blend.
func (c *Camera) AnimateTo(p geom.Point, zoom float64, now time.Time) {
	zoom = geom.Clamp(zoom, MinZoom, MaxZoom)
	c.tween = &tween{
		fromOffset: c.Offset,
		fromZoom:   c.zoomOrDefault(),
		toOffset:   geom.Pt(p.X-c.screenW/(2*zoom), p.Y-c.screenH/(2*zoom)),
		toZoom:     zoom,
		start:      now,
		duration:   DefaultTweenDuration,
	}
}

// Animating reports whether a transition is in flight.
func (c *Camera) Animating() bool { return c.tween != nil }

// Step advances the running transition, if any, to the given time.
// Returns true if the camera state changed.
func (c *Camera) Step(now time.Time) bool {
	tw := c.tween
	if tw == nil {
		return false
	}
	t := float64(now.Sub(tw.start)) / float64(tw.duration)
	if t >= 1 {
		c.Offset = tw.toOffset
		c.Zoom = tw.toZoom
		c.tween = nil
		return true
	}
	if t < 0 {
		t = 0
	}
	e := easeInOutCubic(t)
	c.Offset.X = tw.fromOffset.X + (tw.toOffset.X-tw.fromOffset.X)*e
	c.Offset.Y = tw.fromOffset.Y + (tw.toOffset.Y-tw.fromOffset.Y)*e
	c.Zoom = tw.fromZoom + (tw.toZoom-tw.fromZoom)*e
	return true
}

// zoomOrDefault guards against a zero-valued camera being used before
// initialization; a zero zoom would otherwise divide by zero in ToBoard.
func (c *Camera) zoomOrDefault() float64 {
	if c.Zoom < geom.Epsilon {
		return 1
	}
	return c.Zoom
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 1 + u*u*u/2
}
