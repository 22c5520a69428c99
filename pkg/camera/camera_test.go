package camera

import (
	"math"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/corkboard/pkg/geom"
)

func TestRoundTripTransform(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := New()
		c.SetScreenSize(1280, 800)
		c.Offset = geom.Pt(
			rapid.Float64Range(-1e5, 1e5).Draw(t, "ox"),
			rapid.Float64Range(-1e5, 1e5).Draw(t, "oy"),
		)
		c.Zoom = rapid.Float64Range(MinZoom, MaxZoom).Draw(t, "zoom")

		p := geom.Pt(
			rapid.Float64Range(-1e5, 1e5).Draw(t, "px"),
			rapid.Float64Range(-1e5, 1e5).Draw(t, "py"),
		)
		back := c.ToBoard(c.ToScreen(p))
		if math.Abs(back.X-p.X) > 1e-6 || math.Abs(back.Y-p.Y) > 1e-6 {
			t.Fatalf("round trip drifted: %v -> %v", p, back)
		}
	})
}

func TestSetZoomClamps(t *testing.T) {
	c := New()
	c.SetScreenSize(800, 600)

	c.SetZoom(10)
	if c.Zoom != MaxZoom {
		t.Errorf("zoom = %v, want clamp to %v", c.Zoom, MaxZoom)
	}
	c.SetZoom(0.01)
	if c.Zoom != MinZoom {
		t.Errorf("zoom = %v, want clamp to %v", c.Zoom, MinZoom)
	}
}

func TestSetZoomKeepsCenterFixed(t *testing.T) {
	c := New()
	c.SetScreenSize(800, 600)
	c.Offset = geom.Pt(100, 200)

	before := c.ToBoard(geom.Pt(400, 300))
	c.SetZoom(1.5)
	after := c.ToBoard(geom.Pt(400, 300))

	if math.Abs(before.X-after.X) > 1e-6 || math.Abs(before.Y-after.Y) > 1e-6 {
		t.Errorf("viewport center moved during zoom: %v -> %v", before, after)
	}
}

func TestPanIsScreenSpace(t *testing.T) {
	c := New()
	c.SetScreenSize(800, 600)
	c.Zoom = 2

	c.Pan(100, 0)
	if math.Abs(c.Offset.X-50) > 1e-9 {
		t.Errorf("offset.X = %v, want 50 (100px at zoom 2)", c.Offset.X)
	}
}

func TestAnimateToReplacesTween(t *testing.T) {
	c := New()
	c.SetScreenSize(800, 600)
	now := time.Now()

	c.AnimateTo(geom.Pt(1000, 1000), 1.0, now)
	c.Step(now.Add(100 * time.Millisecond))
	midOffset := c.Offset

	// A second request replaces the first outright.
	c.AnimateTo(geom.Pt(0, 0), 1.0, now.Add(100*time.Millisecond))
	c.Step(now.Add(100*time.Millisecond + DefaultTweenDuration))

	if c.Animating() {
		t.Error("tween should be finished")
	}
	want := geom.Pt(-400, -300) // centers (0,0) at zoom 1 on a 800x600 screen
	if math.Abs(c.Offset.X-want.X) > 1e-6 || math.Abs(c.Offset.Y-want.Y) > 1e-6 {
		t.Errorf("offset = %v, want %v (first tween leaked, mid was %v)", c.Offset, want, midOffset)
	}
}

func TestStepFinishesExactly(t *testing.T) {
	c := New()
	c.SetScreenSize(800, 600)
	now := time.Now()
	c.AnimateTo(geom.Pt(500, 500), 1.2, now)

	c.Step(now.Add(DefaultTweenDuration * 2))
	if c.Animating() {
		t.Error("tween should have completed")
	}
	if c.Zoom != 1.2 {
		t.Errorf("zoom = %v, want 1.2", c.Zoom)
	}
}

func TestPanCancelsTween(t *testing.T) {
	c := New()
	c.SetScreenSize(800, 600)
	c.AnimateTo(geom.Pt(1000, 1000), 1.0, time.Now())
	c.Pan(1, 1)
	if c.Animating() {
		t.Error("pan should cancel a running tween")
	}
}

func TestZeroValueCameraIsUsable(t *testing.T) {
	var c Camera
	p := c.ToBoard(c.ToScreen(geom.Pt(10, 20)))
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		t.Fatal("zero-value camera produced NaN")
	}
}
