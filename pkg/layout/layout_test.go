package layout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/corkboard/pkg/board"
)

func layoutRegistry(t *testing.T, ids ...string) *board.Registry {
	t.Helper()
	reg := board.NewRegistry()
	for _, id := range ids {
		if err := reg.Add(board.EntityRecord{ID: id, Kind: board.Kind{Class: board.KindNote}}); err != nil {
			t.Fatal(err)
		}
	}
	return reg
}

func TestFallbackCoversEveryEntity(t *testing.T) {
	reg := layoutRegistry(t, "a", "b", "c", "d", "e", "f", "g")
	links := []board.Link{
		{A: "a", B: "b", Type: board.LinkRelated},
		{A: "b", B: "c", Type: board.LinkRelated},
		{A: "d", B: "e", Type: board.LinkRelated},
	}

	res := Fallback(reg, links)
	if len(res) != reg.Len() {
		t.Fatalf("layout covers %d of %d entities", len(res), reg.Len())
	}
	for id, p := range res {
		if p.X < 0 || p.Y < 0 {
			t.Errorf("%s placed at negative position %v", id, p)
		}
	}
}

func TestFallbackDeterministic(t *testing.T) {
	links := []board.Link{
		{A: "a", B: "b", Type: board.LinkRelated},
		{A: "c", B: "d", Type: board.LinkRelated},
	}
	first := Fallback(layoutRegistry(t, "a", "b", "c", "d", "e"), links)
	for i := 0; i < 10; i++ {
		again := Fallback(layoutRegistry(t, "a", "b", "c", "d", "e"), links)
		if !reflect.DeepEqual(first, again) {
			t.Fatal("fallback layout must be deterministic")
		}
	}
}

func TestFallbackNoOverlapWithinComponent(t *testing.T) {
	reg := layoutRegistry(t, "a", "b", "c", "d")
	links := []board.Link{
		{A: "a", B: "b", Type: board.LinkRelated},
		{A: "b", B: "c", Type: board.LinkRelated},
		{A: "c", B: "d", Type: board.LinkRelated},
	}

	res := Fallback(reg, links)
	Apply(reg, res)

	ids := reg.IDsSorted()
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a := reg.Get(ids[i]).Rect()
			b := reg.Get(ids[j]).Rect()
			if a.Intersects(b) {
				t.Errorf("%s and %s overlap after layout", ids[i], ids[j])
			}
		}
	}
}

func TestFallbackGroupsStackVertically(t *testing.T) {
	reg := layoutRegistry(t, "a", "b", "x", "y")
	links := []board.Link{
		{A: "a", B: "b", Type: board.LinkRelated},
		{A: "x", B: "y", Type: board.LinkRelated},
	}

	res := Fallback(reg, links)
	if res["x"].Y <= res["a"].Y {
		t.Fatalf("second component should sit below the first: a.Y=%v x.Y=%v", res["a"].Y, res["x"].Y)
	}
}

func TestApplySkipsUnknownIDs(t *testing.T) {
	reg := layoutRegistry(t, "a")
	res := Fallback(reg, nil)
	res["ghost"] = res["a"]
	Apply(reg, res) // must not panic or add entities
	if reg.Len() != 1 {
		t.Fatal("Apply must not create entities")
	}
}

func TestComputeUsesServiceWhenHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req serviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		var resp serviceResponse
		for i, e := range req.Entities {
			resp.Positions = append(resp.Positions, servicePosition{ID: e.ID, X: float64(i) * 500, Y: 42})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	reg := layoutRegistry(t, "a", "b")
	res := Compute(context.Background(), NewServiceClient(srv.URL, 0), reg, nil)
	if res["a"].Y != 42 || res["b"].Y != 42 {
		t.Fatalf("expected service positions, got %v", res)
	}
}

func TestComputeFallsBackOnServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	reg := layoutRegistry(t, "a", "b")
	res := Compute(context.Background(), NewServiceClient(srv.URL, 0), reg, nil)
	if len(res) != 2 {
		t.Fatalf("fallback must still place every entity, got %v", res)
	}
}

func TestComputeFallsBackOnPartialResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(serviceResponse{
			Positions: []servicePosition{{ID: "a", X: 1, Y: 1}},
		})
	}))
	defer srv.Close()

	reg := layoutRegistry(t, "a", "b")
	res := Compute(context.Background(), NewServiceClient(srv.URL, 0), reg, nil)
	if _, ok := res["b"]; !ok {
		t.Fatal("partial service answer must be replaced by the fallback")
	}
	if res["a"].X == 1 {
		t.Fatal("partial service answer must be rejected wholesale")
	}
}

func TestComputeWithoutClientUsesFallback(t *testing.T) {
	reg := layoutRegistry(t, "a")
	res := Compute(context.Background(), nil, reg, nil)
	if len(res) != 1 {
		t.Fatal("nil client must select the fallback")
	}
}
