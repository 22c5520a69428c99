package e2e

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/corkboard/internal/store"
	"github.com/vanderheijden86/corkboard/pkg/config"
	"github.com/vanderheijden86/corkboard/pkg/geom"
	boardsync "github.com/vanderheijden86/corkboard/pkg/sync"
	"github.com/vanderheijden86/corkboard/pkg/testutil"
	"github.com/vanderheijden86/corkboard/pkg/ui"
)

func TestStoreRoundTripOfGeneratedBoard(t *testing.T) {
	reg, links, err := testutil.NewBoard(testutil.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "board.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := st.SaveBoard(ctx, reg, links); err != nil {
		t.Fatal(err)
	}
	st.Close()

	st2, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st2.Close()

	recs, err := st2.LoadEntities(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != reg.Len() {
		t.Fatalf("reloaded %d entities, want %d", len(recs), reg.Len())
	}
	got, err := st2.LoadLinks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(links) {
		t.Fatalf("reloaded %d links, want %d", len(got), len(links))
	}
}

func TestDragCommitFlowsThroughSyncerToStore(t *testing.T) {
	reg, links := chainBoard(t)
	s := newStack(t, reg)

	path := filepath.Join(t.TempDir(), "board.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	ctx := context.Background()
	if err := st.SaveBoard(ctx, reg, links); err != nil {
		t.Fatal(err)
	}

	syncer := boardsync.New(st, "board.json", boardsync.WithDebounce(10*time.Millisecond))
	s.drag.OnCommit = func(ids []string) {
		for _, id := range ids {
			if e := reg.Get(id); e != nil {
				syncer.QueuePos(id, e.Pos)
			}
		}
	}

	aPos := reg.Get("a").Pos
	s.ctrl.PointerDown(1, aPos.Add(geom.Pt(5, 5)), false, false)
	s.ctrl.PointerMove(1, aPos.Add(geom.Pt(105, 55)))
	s.ctrl.PointerUp(1, aPos.Add(geom.Pt(105, 55)))

	syncer.Commit(ctx)

	recs, err := st.LoadEntities(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range recs {
		if r.ID != "a" {
			continue
		}
		want := geom.Point{X: 200, Y: 150}
		if *r.Pos != want {
			t.Fatalf("stored a at %v, want %v", *r.Pos, want)
		}
		return
	}
	t.Fatal("a missing from store")
}

// Deleting an entity in the viewer must cascade to the store: the row
// and every link touching it go away, so reopening the board from the
// store cannot bring the entity back.
func TestViewerDeleteCascadesToStore(t *testing.T) {
	reg, links := chainBoard(t)

	path := filepath.Join(t.TempDir(), "board.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	ctx := context.Background()
	if err := st.SaveBoard(ctx, reg, links); err != nil {
		t.Fatal(err)
	}

	syncer := boardsync.New(st, "board.json", boardsync.WithDebounce(10*time.Millisecond))
	var m tea.Model = ui.NewModel(ui.Options{
		Config:   config.DefaultConfig(),
		Registry: reg,
		Links:    links,
		Syncer:   syncer,
	})
	m = drive(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	// Entity "b" covers columns 40..57, rows 5..10 at zoom 1.
	m = drive(t, m, repeatKey(45, tea.KeyMsg{Type: tea.KeyRight})...)
	m = drive(t, m, repeatKey(7, tea.KeyMsg{Type: tea.KeyDown})...)
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})

	syncer.Commit(ctx)

	if n, err := st.CountEntities(ctx); err != nil || n != 2 {
		t.Fatalf("entity count after delete = %d (%v), want 2", n, err)
	}
	got, err := st.LoadLinks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range got {
		if l.A == "b" || l.B == "b" {
			t.Fatalf("link %s-%s still touches the deleted entity", l.A, l.B)
		}
	}
	if len(got) != 0 {
		t.Fatalf("links after delete = %v, want none", got)
	}
}

func TestDebouncedWritesCoalesceInStore(t *testing.T) {
	reg, links := chainBoard(t)

	path := filepath.Join(t.TempDir(), "board.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	ctx := context.Background()
	if err := st.SaveBoard(ctx, reg, links); err != nil {
		t.Fatal(err)
	}

	syncer := boardsync.New(st, "board.json", boardsync.WithDebounce(20*time.Millisecond))
	for i := 0; i < 50; i++ {
		syncer.QueuePos("b", geom.Pt(float64(400+i), 100))
	}
	time.Sleep(120 * time.Millisecond)

	recs, err := st.LoadEntities(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range recs {
		if r.ID == "b" && r.Pos.X != 449 {
			t.Fatalf("store has b.X = %v, want latest value 449", r.Pos.X)
		}
	}
	if n, err := st.CountEntities(ctx); err != nil || n != 3 {
		t.Fatalf("entity count = %d (%v), want 3", n, err)
	}
}
