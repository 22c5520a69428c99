package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/camera"
	"github.com/vanderheijden86/corkboard/pkg/geom"
)

// SnapshotOptions controls board snapshot export behaviour.
type SnapshotOptions struct {
	Path      string        // Output path; format inferred from extension when Format empty
	Format    string        // "svg", "png" or "both" (case-insensitive). If empty, inferred from Path.
	Title     string        // Optional title rendered in the corner
	Reg       *board.Registry
	Links     []board.Link
	PixelUnit float64 // 0 means DefaultPixelUnit
	Blobs     bool    // paint component blobs behind the entities
	Elapsed   float64 // animation time used for the blob edge, fixed per snapshot
}

var (
	snapBackdrop = color.RGBA{0xfa, 0xf7, 0xf2, 0xff}
	snapStroke   = color.RGBA{0x2a, 0x26, 0x22, 0xff}
	snapText     = color.RGBA{0x1a, 0x18, 0x16, 0xff}
	snapSubtle   = color.RGBA{0x7a, 0x72, 0x6a, 0xff}
	snapCard     = color.RGBA{0xff, 0xfd, 0xf8, 0xff}
)

const snapPadding = 60.0

// SaveSnapshot renders a static snapshot of the board (SVG, PNG or both).
// The PNG path goes through the same block rasterizers as the live canvas,
// so the export is pixel-faithful; the SVG path is a plainer vector
// rendering meant for embedding in docs.
func SaveSnapshot(opts SnapshotOptions) error {
	if opts.Reg == nil || opts.Reg.Len() == 0 {
		return fmt.Errorf("no entities to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "png"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".png"
			}
		}
	}
	if format != "svg" && format != "png" && format != "both" {
		return fmt.Errorf("unsupported format %q (want svg, png or both)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}

	sc, w, h := snapshotScene(opts)

	switch format {
	case "png":
		return savePNG(opts, sc, w, h)
	case "svg":
		return saveSVG(opts.Path, opts, sc, w, h)
	case "both":
		base := strings.TrimSuffix(opts.Path, filepath.Ext(opts.Path))
		var g errgroup.Group
		g.Go(func() error { return savePNG(opts, sc, w, h) })
		g.Go(func() error { return saveSVG(base+".svg", opts, sc, w, h) })
		return g.Wait()
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

// snapshotScene builds a scene whose camera frames the whole board with a
// margin, at zoom 1.
func snapshotScene(opts SnapshotOptions) (*Scene, int, int) {
	box := opts.Reg.BoundingBox().Inflate(snapPadding)

	cam := &camera.Camera{Offset: box.Min(), Zoom: 1}
	w := int(math.Ceil(box.W))
	h := int(math.Ceil(box.H))
	if w < 320 {
		w = 320
	}
	if h < 240 {
		h = 240
	}
	cam.SetScreenSize(float64(w), float64(h))

	visible := make(map[string]bool, opts.Reg.Len())
	for _, id := range opts.Reg.IDsSorted() {
		visible[id] = true
	}
	grouping := board.BuildGrouping(opts.Reg, opts.Links, visible, nil)

	return &Scene{
		Reg:              opts.Reg,
		Cam:              cam,
		Grouping:         grouping,
		HoveredComponent: -1,
		BlobsEnabled:     opts.Blobs,
		PixelUnit:        opts.PixelUnit,
	}, w, h
}

func savePNG(opts SnapshotOptions, sc *Scene, w, h int) error {
	dc := gg.NewContext(w, h)
	dc.SetColor(snapBackdrop)
	dc.Clear()

	BlobRenderer{}.Frame(dc, sc, opts.Elapsed)
	ConnectionRenderer{}.Frame(dc, sc, opts.Elapsed)

	dc.SetFontFace(basicfont.Face7x13)
	for _, e := range sc.Reg.All() {
		drawCard(dc, sc, e)
	}

	if opts.Title != "" {
		dc.SetColor(snapSubtle)
		dc.DrawStringAnchored(opts.Title, 16, 16, 0, 0.5)
	}

	path := opts.Path
	if strings.ToLower(filepath.Ext(path)) != ".png" {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	}
	return dc.SavePNG(path)
}

func drawCard(dc *gg.Context, sc *Scene, e *board.Entity) {
	min := sc.Cam.ToScreen(e.Rect().Min())
	w := e.Size.W * sc.Cam.Zoom
	h := e.Size.H * sc.Cam.Zoom

	dc.SetColor(snapCard)
	dc.DrawRoundedRectangle(min.X, min.Y, w, h, 6)
	dc.Fill()
	dc.SetColor(snapStroke)
	dc.SetLineWidth(1.2)
	dc.DrawRoundedRectangle(min.X, min.Y, w, h, 6)
	dc.Stroke()

	dc.SetColor(snapText)
	dc.DrawStringAnchored(truncateLabel(e.ID, 26), min.X+8, min.Y+12, 0, 0.5)
	dc.SetColor(snapSubtle)
	dc.DrawStringAnchored(e.Kind.String(), min.X+8, min.Y+28, 0, 0.5)
}

func saveSVG(path string, opts SnapshotOptions, sc *Scene, w, h int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return renderSVGToWriter(file, opts, sc, w, h)
}

func renderSVGToWriter(out io.Writer, opts SnapshotOptions, sc *Scene, w, h int) error {
	canvas := svg.New(out)
	canvas.Start(w, h)
	canvas.Rect(0, 0, w, h, fmt.Sprintf("fill:%s", css(snapBackdrop)))

	if opts.Blobs {
		for i := range sc.Grouping.Components {
			drawBlobSVG(canvas, sc, &sc.Grouping.Components[i])
		}
	}

	for i := range sc.Grouping.Edges {
		drawEdgeSVG(canvas, sc, &sc.Grouping.Edges[i])
	}

	for _, e := range sc.Reg.All() {
		min := sc.Cam.ToScreen(e.Rect().Min())
		x := int(min.X)
		y := int(min.Y)
		ew := int(e.Size.W * sc.Cam.Zoom)
		eh := int(e.Size.H * sc.Cam.Zoom)
		canvas.Roundrect(x, y, ew, eh, 6, 6,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.2", css(snapCard), css(snapStroke)))
		canvas.Text(x+8, y+16, truncateLabel(e.ID, 26),
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(snapText)))
		canvas.Text(x+8, y+32, e.Kind.String(),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(snapSubtle)))
	}

	if opts.Title != "" {
		canvas.Text(16, 20, opts.Title,
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(snapSubtle)))
	}

	canvas.End()
	return nil
}

// drawBlobSVG approximates the dithered blob as a translucent ellipse; the
// breathing edge does not survive vectorization and is not attempted.
func drawBlobSVG(canvas *svg.SVG, sc *Scene, comp *board.Component) {
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
	box = box.Inflate(blobBasePadding)

	min := sc.Cam.ToScreen(box.Min())
	max := sc.Cam.ToScreen(box.Max())
	cx := int((min.X + max.X) / 2)
	cy := int((min.Y + max.Y) / 2)
	rx := int((max.X - min.X) / 2)
	ry := int((max.Y - min.Y) / 2)
	canvas.Ellipse(cx, cy, rx, ry,
		fmt.Sprintf("fill:%s;fill-opacity:0.18", css(comp.Color)))
}

func drawEdgeSVG(canvas *svg.SVG, sc *Scene, e *board.Edge) {
	from := sc.Reg.Get(e.Link.A)
	to := sc.Reg.Get(e.Link.B)
	if from == nil || to == nil {
		return
	}
	a := sc.Cam.ToScreen(board.AnchorOf(from))
	b := sc.Cam.ToScreen(board.AnchorOf(to))
	if a.Dist(b) < geom.Epsilon {
		return
	}
	chord := b.Sub(a)
	bow := math.Min(a.Dist(b)*connBowFactor, connBowCap)
	spread := (float64(e.OffsetIndex) - float64(e.Count-1)/2) * connParallelStep
	ctrl := a.Add(chord.Scale(0.5)).Add(chord.Norm().Perp().Scale(bow + spread))

	col := edgeColor(sc, e)
	canvas.Qbez(int(a.X), int(a.Y), int(ctrl.X), int(ctrl.Y), int(b.X), int(b.Y),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:2;stroke-opacity:0.85", css(col)))
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
