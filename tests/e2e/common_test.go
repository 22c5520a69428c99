// Package e2e exercises full engine flows: board mutation through the
// interaction layer, grouping recomputes, persistence, layout and
// snapshot export, the way the applications wire them together.
package e2e

import (
	"testing"

	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/camera"
	"github.com/vanderheijden86/corkboard/pkg/geom"
	"github.com/vanderheijden86/corkboard/pkg/interact"
)

// stack is the interactive engine over a board, wired the same way the
// viewer wires it.
type stack struct {
	reg  *board.Registry
	cam  *camera.Camera
	sel  *interact.Selection
	drag *interact.Drag
	ctrl *interact.Controller
}

func newStack(t *testing.T, reg *board.Registry) *stack {
	t.Helper()
	cam := camera.New()
	cam.SetScreenSize(1600, 1200)
	sel := interact.NewSelection()
	drag := interact.NewDrag(reg, cam)
	return &stack{
		reg:  reg,
		cam:  cam,
		sel:  sel,
		drag: drag,
		ctrl: interact.NewController(reg, cam, sel, drag),
	}
}

// chainBoard builds the three-entity chain a-b-c used by the bridge
// deletion scenario.
func chainBoard(t *testing.T) (*board.Registry, []board.Link) {
	t.Helper()
	reg := board.NewRegistry()
	for i, id := range []string{"a", "b", "c"} {
		err := reg.Add(board.EntityRecord{
			ID:   id,
			Kind: board.Kind{Class: board.KindNote},
			Pos:  &geom.Point{X: float64(100 + i*300), Y: 100},
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	return reg, []board.Link{
		{A: "a", B: "b", Type: board.LinkRelated},
		{A: "b", B: "c", Type: board.LinkRelated},
	}
}

func fullVisibility(reg *board.Registry) map[string]bool {
	visible := make(map[string]bool, reg.Len())
	for _, e := range reg.All() {
		visible[e.ID] = true
	}
	return visible
}

func pruneLinks(links []board.Link, id string) []board.Link {
	kept := links[:0]
	for _, l := range links {
		if l.A != id && l.B != id {
			kept = append(kept, l)
		}
	}
	return kept
}
