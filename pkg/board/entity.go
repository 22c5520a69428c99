// Package board holds the canvas data model: entities with positions,
// sizes and stacking order, the growable board extent, and the link graph
// that groups entities into connected components.
package board

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/corkboard/pkg/geom"
)

// KindClass discriminates the entity variants. Anchor points and default
// sizes dispatch exhaustively on it; adding a class without extending
// AnchorOf and DefaultSize is a compile-time-visible omission, not a
// silent lookup miss.
type KindClass int

const (
	KindNote KindClass = iota
	KindWidget
	KindProject
)

// Kind is an entity's variant tag. Widgets carry a subtype ("calendar",
// "recorder", ...) that only affects their default size; the engine never
// interprets widget internals.
type Kind struct {
	Class   KindClass
	Subtype string
}

// ParseKind parses the wire form: "note", "project" or "widget:<subtype>".
func ParseKind(s string) (Kind, error) {
	switch {
	case s == "note":
		return Kind{Class: KindNote}, nil
	case s == "project":
		return Kind{Class: KindProject}, nil
	case strings.HasPrefix(s, "widget:"):
		sub := strings.TrimPrefix(s, "widget:")
		if sub == "" {
			return Kind{}, fmt.Errorf("widget kind missing subtype: %q", s)
		}
		return Kind{Class: KindWidget, Subtype: sub}, nil
	case s == "widget":
		return Kind{Class: KindWidget}, nil
	default:
		return Kind{}, fmt.Errorf("unknown entity kind %q", s)
	}
}

// String returns the wire form of the kind.
func (k Kind) String() string {
	switch k.Class {
	case KindNote:
		return "note"
	case KindProject:
		return "project"
	case KindWidget:
		if k.Subtype == "" {
			return "widget"
		}
		return "widget:" + k.Subtype
	default:
		return fmt.Sprintf("kind(%d)", int(k.Class))
	}
}

// Entity is a positionable item on the board.
type Entity struct {
	ID    string
	Kind  Kind
	Pos   geom.Point
	Size  geom.Size
	Color string // optional per-entity color tag, empty means unset
}

// Rect returns the entity's axis-aligned bounding box.
func (e *Entity) Rect() geom.Rect {
	return geom.RectAt(e.Pos, e.Size)
}

// projectHeaderInset is where connection lines attach on project cards:
// centered horizontally, a fixed distance into the header band.
const projectHeaderInset = 18.0

// AnchorOf returns the kind-specific point where connection curves attach.
func AnchorOf(e *Entity) geom.Point {
	switch e.Kind.Class {
	case KindProject:
		return geom.Pt(e.Pos.X+e.Size.W/2, e.Pos.Y+projectHeaderInset)
	case KindNote, KindWidget:
		return e.Rect().Center()
	default:
		return e.Rect().Center()
	}
}

// DefaultSize returns the kind-dependent size used when no persisted size
// exists.
func DefaultSize(k Kind) geom.Size {
	switch k.Class {
	case KindNote:
		return geom.Size{W: 180, H: 120}
	case KindProject:
		return geom.Size{W: 200, H: 140}
	case KindWidget:
		switch k.Subtype {
		case "calendar":
			return geom.Size{W: 260, H: 220}
		case "table":
			return geom.Size{W: 320, H: 200}
		case "recorder":
			return geom.Size{W: 200, H: 96}
		default:
			return geom.Size{W: 220, H: 160}
		}
	default:
		return geom.Size{W: 180, H: 120}
	}
}
