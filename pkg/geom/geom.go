// Package geom provides the board-coordinate primitives shared by the
// canvas engine: points, sizes and axis-aligned rectangles, plus the small
// set of pure operations the camera, culler and renderers build on.
//
// All values are in board units with a top-left origin. Functions never
// produce NaN: any division is guarded by Epsilon.
package geom

import "math"

// Epsilon is the minimum magnitude used to guard denominators in geometric
// computations. Degenerate inputs (zero-length chords, zero radii) are
// clamped to it rather than allowed to propagate NaN into rendering.
const Epsilon = 1e-9

// Point is a location in board or screen coordinates.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Norm returns the unit vector in the direction of p. The zero vector
// normalizes to (1, 0) so callers never divide by zero.
func (p Point) Norm() Point {
	l := math.Hypot(p.X, p.Y)
	if l < Epsilon {
		return Point{1, 0}
	}
	return Point{p.X / l, p.Y / l}
}

// Perp returns p rotated 90 degrees counter-clockwise.
func (p Point) Perp() Point { return Point{-p.Y, p.X} }

// Size is a width/height pair in board units.
type Size struct {
	W float64
	H float64
}

// Rect is an axis-aligned rectangle described by its top-left corner and size.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// RectAt returns the rectangle with top-left corner p and size s.
func RectAt(p Point, s Size) Rect { return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H} }

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{r.X, r.Y} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{r.X + r.W, r.Y + r.H} }

// Center returns the geometric center of r.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether p lies inside r (inclusive of the top-left edge,
// exclusive of the bottom-right edge).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Intersects reports whether r and q overlap. Touching edges do not count
// as overlap, matching rubber-band semantics where a box must actually
// cover part of an entity to select it.
func (r Rect) Intersects(q Rect) bool {
	return r.X < q.X+q.W && q.X < r.X+r.W && r.Y < q.Y+q.H && q.Y < r.Y+r.H
}

// Union returns the smallest rectangle covering both r and q. An empty
// rectangle is treated as absent.
func (r Rect) Union(q Rect) Rect {
	if r.Empty() {
		return q
	}
	if q.Empty() {
		return r
	}
	x0 := math.Min(r.X, q.X)
	y0 := math.Min(r.Y, q.Y)
	x1 := math.Max(r.X+r.W, q.X+q.W)
	y1 := math.Max(r.Y+r.H, q.Y+q.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Inflate returns r grown by d on every side. Negative d shrinks; a
// rectangle never inverts (width/height are clamped at zero).
func (r Rect) Inflate(d float64) Rect {
	out := Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// NormalizedBox returns the rectangle spanned by two arbitrary corners, as
// produced by a rubber-band gesture dragged in any direction.
func NormalizedBox(a, b Point) Rect {
	x0 := math.Min(a.X, b.X)
	y0 := math.Min(a.Y, b.Y)
	return Rect{X: x0, Y: y0, W: math.Abs(a.X - b.X), H: math.Abs(a.Y - b.Y)}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SafeDiv divides a by b, clamping the denominator to Epsilon so the
// result is always finite.
func SafeDiv(a, b float64) float64 {
	if math.Abs(b) < Epsilon {
		if b < 0 {
			return a / -Epsilon
		}
		return a / Epsilon
	}
	return a / b
}
