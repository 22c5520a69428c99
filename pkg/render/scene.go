package render

import (
	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/camera"
)

// Scene is the per-frame snapshot both renderers read. It is assembled on
// the input/render loop from the registry, camera and current grouping;
// renderers never write through it.
type Scene struct {
	Reg      *board.Registry
	Cam      *camera.Camera
	Grouping *board.Grouping

	// HoveredComponent is the component index under the pointer, or -1.
	HoveredComponent int

	// BlobsEnabled mirrors the ambient config toggle. When false the blob
	// renderer paints nothing and the connection renderer treats every
	// edge as outside any blob.
	BlobsEnabled bool

	// PixelUnit is the rasterization block size in screen pixels;
	// 0 means DefaultPixelUnit.
	PixelUnit float64
}

func (s *Scene) pixelUnit() float64 {
	if s.PixelUnit <= 0 {
		return DefaultPixelUnit
	}
	return s.PixelUnit
}

// blobRendered reports whether the component with the given index gets a
// blob painted behind it this frame.
func (s *Scene) blobRendered(component int) bool {
	return s.BlobsEnabled && component >= 0 && component < len(s.Grouping.Components)
}
