package render

import (
	"math"

	"git.sr.ht/~sbinet/gg"

	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/geom"
)

// Blob shape constants. The falloff band is where the ordered dither eats
// into the edge; the alpha ramp runs from the translucent center to the
// denser rim.
const (
	blobBasePadding = 40.0
	blobPadJitter   = 16.0
	blobFalloff     = 0.85
	blobCenterAlpha = 0.10
	blobEdgeAlpha   = 0.26
	blobAlphaGamma  = 1.8
	blobTexture     = 0.02 // checkerboard +/- alpha
)

// BlobRenderer rasterizes one soft, breathing, dithered region per
// connected component behind the entities. Everything it computes is a
// pure function of (scene, elapsed time), so a frame can be replayed
// bit-identically.
type BlobRenderer struct{}

// Frame paints all qualifying components into dc. elapsed drives the edge
// animation; pass a fixed value for reproducible snapshots.
func (BlobRenderer) Frame(dc *gg.Context, sc *Scene, elapsed float64) {
	if !sc.BlobsEnabled {
		return
	}
	for i := range sc.Grouping.Components {
		drawBlob(dc, sc, &sc.Grouping.Components[i], elapsed)
	}
}

func drawBlob(dc *gg.Context, sc *Scene, comp *board.Component, elapsed float64) {
	// Bounding box over member rectangles, inflated by the base padding
	// perturbed per component. Seeding from the member-id hash keeps the
	// jitter stable across re-renders and insertion order while still
	// making distinct components look organic.
	var box geom.Rect
	count := 0
	for _, id := range comp.Members {
		if e := sc.Reg.Get(id); e != nil {
			box = box.Union(e.Rect())
			count++
		}
	}
	if count < 2 || box.Empty() {
		return
	}
	pad := blobBasePadding + (hash2(comp.Seed, count, 0)-0.5)*blobPadJitter
	box = box.Inflate(pad)

	// Screen-space ellipse.
	min := sc.Cam.ToScreen(box.Min())
	max := sc.Cam.ToScreen(box.Max())
	cx := (min.X + max.X) / 2
	cy := (min.Y + max.Y) / 2
	rx := math.Max((max.X-min.X)/2, geom.Epsilon)
	ry := math.Max((max.Y-min.Y)/2, geom.Epsilon)

	// Per-component animation phases, again seeded from membership.
	p1 := hash2(comp.Seed, 1, 1) * 2 * math.Pi
	p2 := hash2(comp.Seed, 2, 2) * 2 * math.Pi

	unit := sc.pixelUnit()
	bx0 := blockOf(min.X, unit)
	bx1 := blockOf(max.X, unit)
	by0 := blockOf(min.Y, unit)
	by1 := blockOf(max.Y, unit)

	for by := by0; by <= by1; by++ {
		for bx := bx0; bx <= bx1; bx++ {
			px := (float64(bx) + 0.5) * unit
			py := (float64(by) + 0.5) * unit

			ndx := (px - cx) / rx
			ndy := (py - cy) / ry
			d := math.Hypot(ndx, ndy)
			theta := math.Atan2(ndy, ndx)

			// Multi-frequency breathing edge: the effective radius wobbles
			// with angle and time so the region never reads as a perfect
			// ellipse.
			wobble := 1 +
				0.09*math.Sin(3*theta+elapsed*1.1+p1) +
				0.05*math.Sin(5*theta-elapsed*0.6+p2)
			if wobble < 0.5 {
				wobble = 0.5
			}
			nd := d / wobble
			if nd > 1 {
				continue
			}

			if nd > blobFalloff {
				// Ordered dither with a whisper of per-block jitter:
				// blocks drop out probabilistically toward the rim,
				// leaving a pixelated boundary instead of an antialiased
				// one.
				p := (nd - blobFalloff) / (1 - blobFalloff)
				thr := bayerThreshold(bx, by) + (hash2(comp.Seed, bx, by)-0.5)*0.12
				if p > thr {
					continue
				}
			}

			alpha := blobCenterAlpha + (blobEdgeAlpha-blobCenterAlpha)*math.Pow(nd, blobAlphaGamma)
			if (bx+by)&1 == 0 {
				alpha += blobTexture
			} else {
				alpha -= blobTexture
			}
			fillBlock(dc, bx, by, unit, comp.Color, alpha)
		}
	}
}
