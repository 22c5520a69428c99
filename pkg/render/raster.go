package render

import (
	"image/color"

	"git.sr.ht/~sbinet/gg"
)

// DefaultPixelUnit is the rasterization block size in screen pixels. Both
// renderers quantize to the same grid so the retro aesthetic stays
// consistent between blobs and connection lines.
const DefaultPixelUnit = 4.0

// bayer4 is the 4x4 ordered dither matrix, normalized below to [0,1).
var bayer4 = [4][4]float64{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// bayerThreshold returns the ordered dither threshold in [0,1) for a
// block coordinate.
func bayerThreshold(bx, by int) float64 {
	return bayer4[by&3][bx&3] / 16.0
}

// hash2 mixes a seed with block coordinates into a deterministic value in
// [0,1). Used for the small dither jitter so repeated renders of the same
// component are pixel-identical.
func hash2(seed uint64, x, y int) float64 {
	h := seed
	h ^= uint64(uint32(x)) * 0x9e3779b97f4a7c15
	h = (h ^ (h >> 30)) * 0xbf58476d1ce4e5b9
	h ^= uint64(uint32(y)) * 0x94d049bb133111eb
	h = (h ^ (h >> 27)) * 0x2545f4914f6cdd1d
	h ^= h >> 31
	return float64(h%1<<20) / float64(1<<20)
}

// fillBlock paints one quantized block.
func fillBlock(dc *gg.Context, bx, by int, unit float64, c color.RGBA, alpha float64) {
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, alpha)
	dc.DrawRectangle(float64(bx)*unit, float64(by)*unit, unit, unit)
	dc.Fill()
}

// drawPixelLine rasterizes a line between two block coordinates with
// Bresenham's algorithm, painting each visited block. Working on the
// integer block grid rather than subpixel floats is what produces the
// stepped, non-antialiased look.
func drawPixelLine(dc *gg.Context, x0, y0, x1, y1 int, unit float64, c color.RGBA, alpha float64) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fillBlock(dc, x0, y0, unit, c, alpha)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// blockOf quantizes a screen coordinate to the block grid.
func blockOf(v, unit float64) int {
	return int(v / unit)
}
