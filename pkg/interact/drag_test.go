package interact

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/camera"
	"github.com/vanderheijden86/corkboard/pkg/geom"
)

func fixture(t *testing.T, positions map[string]geom.Point) (*board.Registry, *camera.Camera) {
	t.Helper()
	reg := board.NewRegistry()
	ids := make([]string, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	// Deterministic registration order.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	for _, id := range ids {
		p := positions[id]
		if err := reg.Add(board.EntityRecord{ID: id, Kind: board.Kind{Class: board.KindNote}, Pos: &p}); err != nil {
			t.Fatal(err)
		}
	}
	cam := camera.New()
	cam.SetScreenSize(1280, 800)
	return reg, cam
}

func TestSingleDragFollowsPointer(t *testing.T) {
	reg, cam := fixture(t, map[string]geom.Point{"a": geom.Pt(100, 100)})
	d := NewDrag(reg, cam)

	// Press 10 units into the entity.
	d.Start(1, cam.ToScreen(geom.Pt(110, 110)), "a", nil)
	d.Move(1, cam.ToScreen(geom.Pt(160, 90)))

	want := geom.Pt(150, 80)
	if got := reg.Get("a").Pos; got != want {
		t.Errorf("pos = %v, want %v", got, want)
	}
}

func TestGroupDragMovesAllSelected(t *testing.T) {
	// Dragging a with delta (50, -20) while a and b are both selected
	// moves b by exactly (50, -20) too.
	reg, cam := fixture(t, map[string]geom.Point{
		"a": geom.Pt(100, 100),
		"b": geom.Pt(400, 300),
	})
	sel := NewSelection()
	sel.Toggle("a")
	sel.Toggle("b")
	d := NewDrag(reg, cam)

	d.Start(1, cam.ToScreen(geom.Pt(110, 110)), "a", sel)
	d.Move(1, cam.ToScreen(geom.Pt(160, 90)))

	if got := reg.Get("a").Pos; got != geom.Pt(150, 80) {
		t.Errorf("a = %v, want (150,80)", got)
	}
	if got := reg.Get("b").Pos; got != geom.Pt(450, 280) {
		t.Errorf("b = %v, want (450,280)", got)
	}
}

func TestRigidGroupDragProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pos := rapid.Float64Range(0, 2000)
		pa := geom.Pt(pos.Draw(t, "ax"), pos.Draw(t, "ay"))
		pb := geom.Pt(pos.Draw(t, "bx"), pos.Draw(t, "by"))
		pc := geom.Pt(pos.Draw(t, "cx"), pos.Draw(t, "cy"))

		reg := board.NewRegistry()
		for id, p := range map[string]geom.Point{"a": pa, "b": pb, "c": pc} {
			q := p
			if err := reg.Add(board.EntityRecord{ID: id, Kind: board.Kind{Class: board.KindNote}, Pos: &q}); err != nil {
				t.Fatal(err)
			}
		}
		cam := camera.New()
		cam.SetScreenSize(1280, 800)
		cam.Zoom = rapid.Float64Range(camera.MinZoom, camera.MaxZoom).Draw(t, "zoom")

		sel := NewSelection()
		sel.Toggle("a")
		sel.Toggle("b")
		sel.Toggle("c")

		before := map[string]geom.Point{
			"ab": pb.Sub(pa),
			"ac": pc.Sub(pa),
		}

		d := NewDrag(reg, cam)
		d.Start(1, cam.ToScreen(pa), "a", sel)
		delta := rapid.Float64Range(-3000, 3000)
		target := pa.Add(geom.Pt(delta.Draw(t, "dx"), delta.Draw(t, "dy")))
		d.Move(1, cam.ToScreen(target))
		d.End()

		na, nb, nc := reg.Get("a").Pos, reg.Get("b").Pos, reg.Get("c").Pos
		after := map[string]geom.Point{
			"ab": nb.Sub(na),
			"ac": nc.Sub(na),
		}
		for k := range before {
			if math.Abs(before[k].X-after[k].X) > 1e-6 || math.Abs(before[k].Y-after[k].Y) > 1e-6 {
				t.Fatalf("relative offset %s changed: %v -> %v", k, before[k], after[k])
			}
		}
		for id, p := range map[string]geom.Point{"a": na, "b": nb, "c": nc} {
			if p.X < 0 || p.Y < 0 {
				t.Fatalf("%s at %v, want non-negative", id, p)
			}
		}
	})
}

func TestZoomChangeMidDrag(t *testing.T) {
	reg, cam := fixture(t, map[string]geom.Point{"a": geom.Pt(100, 100)})
	d := NewDrag(reg, cam)

	d.Start(1, cam.ToScreen(geom.Pt(110, 110)), "a", nil)

	// Zoom changes mid-drag; moves use the current zoom, so dropping the
	// pointer on the same board point leaves the entity where it was.
	cam.SetZoom(1.5)
	d.Move(1, cam.ToScreen(geom.Pt(110, 110)))

	if got := reg.Get("a").Pos; math.Abs(got.X-100) > 1e-6 || math.Abs(got.Y-100) > 1e-6 {
		t.Errorf("pos = %v, want (100,100)", got)
	}
}

func TestDragGrowsExtent(t *testing.T) {
	reg, cam := fixture(t, map[string]geom.Point{"a": geom.Pt(100, 100)})
	before := reg.Extent()
	d := NewDrag(reg, cam)

	d.Start(1, cam.ToScreen(geom.Pt(100, 100)), "a", nil)
	d.Move(1, cam.ToScreen(geom.Pt(before.W+300, 100)))
	d.End()

	if reg.Extent().W <= before.W {
		t.Errorf("extent did not grow past %v", before.W)
	}
}

func TestDragRaisesZOrder(t *testing.T) {
	reg, cam := fixture(t, map[string]geom.Point{
		"a": geom.Pt(0, 0),
		"b": geom.Pt(500, 500),
	})
	d := NewDrag(reg, cam)
	d.Start(1, cam.ToScreen(geom.Pt(10, 10)), "a", nil)

	z := reg.ZOrder()
	if z[len(z)-1] != "a" {
		t.Errorf("dragged entity not topmost: %v", z)
	}
	if !d.Dragging("a") || d.Dragging("b") {
		t.Error("Dragging membership wrong")
	}
}

func TestCommitFiresOnceWithDraggedIDs(t *testing.T) {
	reg, cam := fixture(t, map[string]geom.Point{"a": geom.Pt(100, 100)})
	d := NewDrag(reg, cam)

	var commits [][]string
	d.OnCommit = func(ids []string) { commits = append(commits, ids) }

	d.Start(1, cam.ToScreen(geom.Pt(100, 100)), "a", nil)
	d.Move(1, cam.ToScreen(geom.Pt(200, 200)))
	if len(commits) != 0 {
		t.Fatal("commit fired before pointer up")
	}
	d.End()
	d.End() // idempotent

	if len(commits) != 1 || len(commits[0]) != 1 || commits[0][0] != "a" {
		t.Errorf("commits = %v, want one commit of [a]", commits)
	}
}

func TestCancelRestoresSnapshot(t *testing.T) {
	reg, cam := fixture(t, map[string]geom.Point{"a": geom.Pt(100, 100)})
	d := NewDrag(reg, cam)

	d.Start(1, cam.ToScreen(geom.Pt(100, 100)), "a", nil)
	d.Move(1, cam.ToScreen(geom.Pt(700, 700)))
	d.Cancel()

	if got := reg.Get("a").Pos; got != geom.Pt(100, 100) {
		t.Errorf("pos after cancel = %v, want snapshot", got)
	}
	if d.Active() {
		t.Error("drag still active after cancel")
	}
}
