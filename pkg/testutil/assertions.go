package testutil

import (
	"testing"

	"github.com/vanderheijden86/corkboard/pkg/board"
)

// AssertNoOverlap fails if any two entity rectangles intersect.
func AssertNoOverlap(t *testing.T, reg *board.Registry) {
	t.Helper()
	all := reg.All()
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[i].Rect().Intersects(all[j].Rect()) {
				t.Errorf("%s and %s overlap: %v vs %v",
					all[i].ID, all[j].ID, all[i].Rect(), all[j].Rect())
			}
		}
	}
}

// AssertSameMembers fails unless the two id sets are equal, order aside.
func AssertSameMembers(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d ids %v, want %d ids %v", len(got), got, len(want), want)
	}
	set := make(map[string]bool, len(want))
	for _, id := range want {
		set[id] = true
	}
	for _, id := range got {
		if !set[id] {
			t.Fatalf("unexpected id %s in %v, want %v", id, got, want)
		}
	}
}
