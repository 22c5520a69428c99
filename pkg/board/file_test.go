package board

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	doc := `{
  "entities": [
    {"id": "n1", "kind": "note"},
    {"id": "w1", "kind": "widget:calendar", "x": 100, "y": 200},
    {"id": "p1", "kind": "project", "x": 10, "y": 20, "w": 300, "h": 250, "color": "moss"}
  ],
  "links": [
    {"a": "n1", "b": "p1", "type": "depends-on", "note": "blocks launch"},
    {"a": "n1", "b": "w1"}
  ],
  "camera": {"x": 50, "y": 60, "zoom": 1.25}
}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, links, cam, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if reg.Len() != 3 {
		t.Fatalf("loaded %d entities", reg.Len())
	}
	w1 := reg.Get("w1")
	if w1.Pos.X != 100 || w1.Pos.Y != 200 {
		t.Fatalf("explicit position lost: %v", w1.Pos)
	}
	if want := DefaultSize(w1.Kind); w1.Size != want {
		t.Fatalf("widget size = %v, want default %v", w1.Size, want)
	}
	p1 := reg.Get("p1")
	if p1.Size.W != 300 || p1.Color != "moss" {
		t.Fatalf("explicit size/color lost: %v %q", p1.Size, p1.Color)
	}

	if len(links) != 2 {
		t.Fatalf("loaded %d links", len(links))
	}
	if links[0].Type != LinkDependsOn || links[0].Note != "blocks launch" {
		t.Fatalf("link fields lost: %+v", links[0])
	}
	if links[1].Type != LinkRelated {
		t.Fatalf("missing type should default to related, got %q", links[1].Type)
	}

	if cam == nil || cam.Zoom != 1.25 {
		t.Fatalf("camera state lost: %+v", cam)
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"a", "b", "c"} {
		if err := reg.Add(EntityRecord{ID: id, Kind: Kind{Class: KindNote}}); err != nil {
			t.Fatal(err)
		}
	}
	reg.SetColor("b", "rose")
	reg.BringToFront("a")
	links := []Link{{A: "a", B: "b", Type: LinkDerivesFrom, AIGenerated: true}}
	cam := &CameraState{X: 12, Y: 34, Zoom: 0.8}

	path := filepath.Join(t.TempDir(), "board.json")
	if err := SaveFile(path, reg, links, cam); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	reg2, links2, cam2, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if got := reg2.ZOrder(); got[len(got)-1] != "a" {
		t.Fatalf("stacking order lost: %v", got)
	}
	if reg2.Get("b").Color != "rose" {
		t.Fatal("color lost in round trip")
	}
	for _, id := range []string{"a", "b", "c"} {
		if reg2.Get(id).Pos != reg.Get(id).Pos {
			t.Fatalf("%s position drifted", id)
		}
	}
	if len(links2) != 1 || !links2[0].AIGenerated || links2[0].Type != LinkDerivesFrom {
		t.Fatalf("links drifted: %+v", links2)
	}
	if cam2 == nil || *cam2 != *cam {
		t.Fatalf("camera drifted: %+v", cam2)
	}
}

func TestLoadFileRejectsBadKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	if err := os.WriteFile(path, []byte(`{"entities":[{"id":"x","kind":"sticker"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := LoadFile(path); err == nil {
		t.Fatal("unknown kind must fail the load")
	}
}

func TestLoadFileRejectsDuplicateID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	doc := `{"entities":[{"id":"x","kind":"note"},{"id":"x","kind":"note"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := LoadFile(path); err == nil {
		t.Fatal("duplicate id must fail the load")
	}
}
