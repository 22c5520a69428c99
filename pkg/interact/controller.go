package interact

import (
	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/camera"
	"github.com/vanderheijden86/corkboard/pkg/geom"
)

// Controller routes raw pointer events to the selection and drag engines.
// It owns the hit-testing policy: clicks resolve against the registry's
// z-order, never against a retained UI tree.
type Controller struct {
	reg *board.Registry
	cam *camera.Camera
	sel *Selection
	drg *Drag
}

// NewController wires a controller over shared engine state.
func NewController(reg *board.Registry, cam *camera.Camera, sel *Selection, drg *Drag) *Controller {
	return &Controller{reg: reg, cam: cam, sel: sel, drg: drg}
}

// Selection returns the selection engine.
func (c *Controller) Selection() *Selection { return c.sel }

// Drag returns the drag engine.
func (c *Controller) Drag() *Drag { return c.drg }

// PointerDown handles a pointer press at a screen point. modifier is the
// ctrl/cmd multi-select key; interactive marks presses that landed on an
// interactive sub-control (button, input, editable text, link, image),
// which are excluded from drag capture but still bring the entity to the
// front.
func (c *Controller) PointerDown(pointerID int, screen geom.Point, modifier, interactive bool) {
	boardPt := c.cam.ToBoard(screen)
	hit := c.reg.TopmostAt(boardPt)

	if hit == nil {
		// Background press: clear unless extending with the modifier,
		// then start a rubber band either way.
		if !modifier {
			c.sel.Clear()
		}
		c.sel.StartBox(boardPt)
		return
	}

	c.reg.BringToFront(hit.ID)

	if interactive {
		// The sub-control consumes the press. No capture, so there is no
		// capture to leak; a later PointerUp is a no-op.
		return
	}

	if modifier {
		c.sel.Toggle(hit.ID)
		return
	}

	// Clicking an unselected entity drops the old selection before any
	// drag logic runs.
	if !c.sel.Has(hit.ID) {
		c.sel.Clear()
	}
	c.drg.Start(pointerID, screen, hit.ID, c.sel)
}

// PointerMove advances whichever gesture is active.
func (c *Controller) PointerMove(pointerID int, screen geom.Point) {
	if c.drg.Active() {
		c.drg.Move(pointerID, screen)
		return
	}
	if c.sel.State() == SelectionBoxing {
		c.sel.UpdateBox(c.cam.ToBoard(screen))
	}
}

// PointerUp ends the active gesture. The pointer id is deliberately not
// checked against the captured one: after a capture loss the up/cancel may
// arrive from any target, and it must still end the drag.
func (c *Controller) PointerUp(pointerID int, screen geom.Point) {
	if c.drg.Active() {
		c.drg.End()
		return
	}
	if c.sel.State() == SelectionBoxing {
		c.sel.UpdateBox(c.cam.ToBoard(screen))
		c.sel.ReleaseBox(c.reg.All())
	}
}

// PointerCancel aborts the active gesture, restoring dragged entities to
// their pre-drag positions.
func (c *Controller) PointerCancel(pointerID int) {
	if c.drg.Active() {
		c.drg.Cancel()
		return
	}
	if c.sel.State() == SelectionBoxing {
		c.sel.Clear()
	}
}
