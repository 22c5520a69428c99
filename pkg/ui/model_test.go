package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/camera"
	"github.com/vanderheijden86/corkboard/pkg/config"
	"github.com/vanderheijden86/corkboard/pkg/geom"
	boardsync "github.com/vanderheijden86/corkboard/pkg/sync"
)

// testBoard places two notes with a known cell footprint at zoom 1:
// "a" covers columns 10..25, rows 5..10; "b" covers columns 40..55,
// rows 5..10.
func testBoard(t *testing.T) (*board.Registry, []board.Link) {
	t.Helper()
	reg := board.NewRegistry()
	add := func(id string, x, y float64) {
		err := reg.Add(board.EntityRecord{
			ID:   id,
			Kind: board.Kind{Class: board.KindNote},
			Pos:  &geom.Point{X: x, Y: y},
			Size: &geom.Size{W: 160, H: 120},
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	add("a", 100, 100)
	add("b", 400, 100)
	links := []board.Link{{A: "a", B: "b", Type: board.LinkRelated}}
	return reg, links
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Registry == nil {
		opts.Registry, opts.Links = testBoard(t)
	}
	m := NewModel(opts)
	return apply(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func apply(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (m Model) withCursor(col, row int) Model {
	m.cursorCol, m.cursorRow = col, row
	m.updateHover()
	return m
}

func TestPressSelectsEntityUnderCursor(t *testing.T) {
	m := newTestModel(t, Options{Config: config.DefaultConfig()})
	m = m.withCursor(12, 7)
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if !m.sel.Has("a") {
		t.Fatalf("selection = %v, want a", m.sel.IDs())
	}
	z := m.reg.ZOrder()
	if z[len(z)-1] != "a" {
		t.Errorf("pressed entity not raised: %v", z)
	}
}

func TestPressOnBackgroundClearsSelection(t *testing.T) {
	m := newTestModel(t, Options{Config: config.DefaultConfig()})
	m = m.withCursor(12, 7)
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = m.withCursor(0, 20)
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.sel.Len() != 0 {
		t.Fatalf("selection survived background press: %v", m.sel.IDs())
	}
}

func TestGrabDragsEntityByCursorDelta(t *testing.T) {
	m := newTestModel(t, Options{Config: config.DefaultConfig()})
	m = m.withCursor(12, 7)
	m = apply(t, m, runes("g"))
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	m = apply(t, m, runes("g"))

	got := m.reg.Get("a").Pos
	if got.X != 130 || got.Y != 100 {
		t.Fatalf("a at %v, want (130, 100)", got)
	}
}

func TestEscCancelsGrabAndRestores(t *testing.T) {
	m := newTestModel(t, Options{Config: config.DefaultConfig()})
	m = m.withCursor(12, 7)
	m = apply(t, m, runes("g"), tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEsc})

	got := m.reg.Get("a").Pos
	if got.X != 100 || got.Y != 100 {
		t.Fatalf("a at %v after cancel, want (100, 100)", got)
	}
	if m.grabbing {
		t.Error("still grabbing after esc")
	}
}

func TestGrabOnBackgroundRubberBands(t *testing.T) {
	m := newTestModel(t, Options{Config: config.DefaultConfig()})
	m = m.withCursor(38, 2)
	m = apply(t, m, runes("g"))
	for i := 0; i < 22; i++ {
		m = apply(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}
	for i := 0; i < 10; i++ {
		m = apply(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m = apply(t, m, runes("g"))

	if !m.sel.Has("b") {
		t.Fatalf("band missed b: %v", m.sel.IDs())
	}
	if m.sel.Has("a") {
		t.Errorf("band caught a outside the box: %v", m.sel.IDs())
	}
}

func TestToggleExtendsSelection(t *testing.T) {
	m := newTestModel(t, Options{Config: config.DefaultConfig()})
	m = m.withCursor(12, 7)
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = m.withCursor(45, 7)
	m = apply(t, m, runes("x"))

	if !m.sel.Has("a") || !m.sel.Has("b") {
		t.Fatalf("selection = %v, want a and b", m.sel.IDs())
	}
}

func TestToggleOnBackgroundKeepsSelection(t *testing.T) {
	m := newTestModel(t, Options{Config: config.DefaultConfig()})
	m = m.withCursor(12, 7)
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = m.withCursor(0, 20)
	m = apply(t, m, runes("x"))

	if !m.sel.Has("a") {
		t.Fatalf("selection lost on background toggle: %v", m.sel.IDs())
	}
}

func TestZoomKeysClampToCameraRange(t *testing.T) {
	m := newTestModel(t, Options{Config: config.DefaultConfig()})
	for i := 0; i < 20; i++ {
		m = apply(t, m, runes("+"))
	}
	if m.cam.Zoom != camera.MaxZoom {
		t.Fatalf("zoom = %v, want clamped to %v", m.cam.Zoom, camera.MaxZoom)
	}
	for i := 0; i < 40; i++ {
		m = apply(t, m, runes("-"))
	}
	if m.cam.Zoom != camera.MinZoom {
		t.Fatalf("zoom = %v, want clamped to %v", m.cam.Zoom, camera.MinZoom)
	}
	m = apply(t, m, runes("0"))
	if m.cam.Zoom != 1 {
		t.Fatalf("zoom = %v after reset, want 1", m.cam.Zoom)
	}
}

func TestHighlightKeyTogglesTracker(t *testing.T) {
	m := newTestModel(t, Options{Config: config.DefaultConfig()})
	if m.tracker.Enabled() {
		t.Fatal("tracker enabled before toggle")
	}
	m = apply(t, m, runes("a"))
	if !m.tracker.Enabled() {
		t.Fatal("toggle did not enable highlight mode")
	}
	m = apply(t, m, runes("a"))
	if m.tracker.Enabled() {
		t.Fatal("second toggle did not disable highlight mode")
	}
}

func TestDeleteUnderCursorPrunesLinks(t *testing.T) {
	m := newTestModel(t, Options{Config: config.DefaultConfig()})
	m = m.withCursor(12, 7)
	m = apply(t, m, runes("d"))

	if m.reg.Has("a") {
		t.Fatal("a still present after delete")
	}
	if len(m.links) != 0 {
		t.Fatalf("links not pruned: %v", m.links)
	}
}

func TestDeleteQueuesStoreCascade(t *testing.T) {
	sink := &recordingSink{}
	syncer := boardsync.New(sink, "test")
	m := newTestModel(t, Options{Config: config.DefaultConfig(), Syncer: syncer})
	m = m.withCursor(12, 7)
	m = apply(t, m, runes("g"), tea.KeyMsg{Type: tea.KeyRight}, runes("g"))
	m = apply(t, m, runes("d"))

	syncer.Commit(context.Background())
	if len(sink.dels) != 1 || sink.dels[0] != "a" {
		t.Fatalf("sink deletions = %v, want [a]", sink.dels)
	}
	// The drag's queued position must not ride along and resurrect the row.
	if sink.pos != 0 {
		t.Fatalf("sink received %d position updates for a deleted entity", sink.pos)
	}
}

func TestColorKeyCyclesSelection(t *testing.T) {
	m := newTestModel(t, Options{Config: config.DefaultConfig()})
	m = m.withCursor(12, 7)
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("c"))

	if got := m.reg.Get("a").Color; got != entityColors[1] {
		t.Fatalf("color = %q, want %q", got, entityColors[1])
	}
}

type recordingSink struct {
	pos    int
	colors int
	dels   []string
}

func (s *recordingSink) UpsertPositions(_ context.Context, ups []boardsync.PositionUpdate) error {
	s.pos += len(ups)
	return nil
}

func (s *recordingSink) UpsertSizes(_ context.Context, ups []boardsync.SizeUpdate) error {
	return nil
}

func (s *recordingSink) UpsertColors(_ context.Context, ups []boardsync.ColorUpdate) error {
	s.colors += len(ups)
	return nil
}

func (s *recordingSink) DeleteEntities(_ context.Context, ids []string) error {
	s.dels = append(s.dels, ids...)
	return nil
}

func TestDragCommitQueuesPositionSync(t *testing.T) {
	sink := &recordingSink{}
	syncer := boardsync.New(sink, "test")
	m := newTestModel(t, Options{Config: config.DefaultConfig(), Syncer: syncer})
	m = m.withCursor(12, 7)
	m = apply(t, m, runes("g"), tea.KeyMsg{Type: tea.KeyRight}, runes("g"))

	if got := syncer.Pending(); got != 1 {
		t.Fatalf("pending = %d, want 1 queued position", got)
	}
	syncer.Commit(context.Background())
	if sink.pos != 1 {
		t.Fatalf("sink received %d position updates, want 1", sink.pos)
	}
}

func TestSaveWritesBoardFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	reg, links := testBoard(t)
	m := newTestModel(t, Options{
		Config:    config.DefaultConfig(),
		BoardPath: path,
		Registry:  reg,
		Links:     links,
	})
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	reg2, links2, cam, err := board.LoadFile(path)
	if err != nil {
		t.Fatalf("saved board does not load: %v", err)
	}
	if reg2.Len() != 2 || len(links2) != 1 {
		t.Fatalf("round trip lost content: %d entities, %d links", reg2.Len(), len(links2))
	}
	if cam == nil || cam.Zoom != 1 {
		t.Fatalf("camera state not saved: %+v", cam)
	}
}

func TestHelpOverlayToggles(t *testing.T) {
	m := newTestModel(t, Options{Config: config.DefaultConfig()})
	m = apply(t, m, runes("?"))
	if !strings.Contains(m.View(), "corkview keys") {
		t.Fatal("help overlay not shown")
	}
	m = apply(t, m, runes("x"))
	if strings.Contains(m.View(), "corkview keys") {
		t.Fatal("help overlay did not close on keypress")
	}
}

func TestViewShowsEntityCounts(t *testing.T) {
	m := newTestModel(t, Options{Config: config.DefaultConfig()})
	v := m.View()
	if !strings.Contains(v, "2 entities") || !strings.Contains(v, "1 links") {
		t.Fatalf("status bar missing counts:\n%s", v)
	}
}
