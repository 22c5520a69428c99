package board

import (
	"hash/fnv"
	"image/color"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Palette is the cyclic component palette. Component i gets
// Palette[i % len(Palette)]; discovery order is deterministic, so color
// assignment is too.
var Palette = []color.RGBA{
	{0x7c, 0xb3, 0xf5, 0xff}, // blue
	{0xf5, 0xa9, 0x7c, 0xff}, // orange
	{0x8f, 0xd6, 0x9b, 0xff}, // green
	{0xd6, 0x8f, 0xd0, 0xff}, // violet
	{0xf5, 0xd6, 0x7c, 0xff}, // amber
	{0x7c, 0xd6, 0xcf, 0xff}, // teal
	{0xef, 0x8f, 0x9b, 0xff}, // rose
	{0xb3, 0xb3, 0xb3, 0xff}, // gray
}

// Component is a derived maximal set of visible entities transitively
// connected by links. Components of size 1 are discarded before they are
// ever surfaced.
type Component struct {
	Index   int
	Members []string // sorted entity ids
	Color   color.RGBA
	Seed    uint64 // stable hash of the member ids, for blob jitter
}

// Contains reports whether id is a member of the component.
func (c *Component) Contains(id string) bool {
	i := sort.SearchStrings(c.Members, id)
	return i < len(c.Members) && c.Members[i] == id
}

// Edge is a renderable link between two visible entities, annotated with
// its component and its slot among parallel edges of the same pair.
type Edge struct {
	Link        Link
	Component   int // index into Grouping.Components
	OffsetIndex int // 0..Count-1, unique per pair
	Count       int // number of parallel edges between the same pair
}

// Grouping is the derived connection structure over the currently visible
// entity set. It is recomputed whenever the visible set or the link set
// changes and is immutable afterwards.
type Grouping struct {
	Components []Component
	Edges      []Edge

	componentOf map[string]int
}

// ComponentOf returns the component index for an entity id, or -1 if the
// entity is not part of any size>=2 component.
func (g *Grouping) ComponentOf(id string) int {
	if idx, ok := g.componentOf[id]; ok {
		return idx
	}
	return -1
}

// BuildGrouping computes connected components over the link set restricted
// to visible entities.
//
// Links with a missing or invisible endpoint are skipped; links whose
// endpoint does not exist in the registry at all are additionally passed
// to onInvalid (may be nil) so a cleanup collaborator can prune them.
// Discovery order is the order of each component's first member in sorted
// id order, which makes the palette assignment stable across recomputes.
func BuildGrouping(reg *Registry, links []Link, visible map[string]bool, onInvalid func(Link)) *Grouping {
	g := &Grouping{componentOf: make(map[string]int)}

	// Index visible entities into dense gonum node ids.
	ids := make([]string, 0, len(visible))
	for id := range visible {
		if reg.Has(id) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	nodeOf := make(map[string]int64, len(ids))
	for i, id := range ids {
		nodeOf[id] = int64(i)
	}

	ug := simple.NewUndirectedGraph()
	for _, id := range ids {
		ug.AddNode(simple.Node(nodeOf[id]))
	}

	// Filter edges and tally parallel pairs in one pass.
	pairCount := make(map[string]int)
	pairSeen := make(map[string]int)
	var kept []Link
	for _, l := range links {
		if !reg.Has(l.A) || !reg.Has(l.B) {
			if onInvalid != nil {
				onInvalid(l)
			}
			continue
		}
		if !visible[l.A] || !visible[l.B] || l.A == l.B {
			continue
		}
		kept = append(kept, l)
		pairCount[l.PairKey()]++
		a, b := nodeOf[l.A], nodeOf[l.B]
		if ug.Edge(a, b) == nil {
			ug.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
		}
	}

	// Connected components, then discard singletons and order components
	// by their first member in sorted id order.
	comps := topo.ConnectedComponents(ug)
	var members [][]string
	for _, nodes := range comps {
		if len(nodes) < 2 {
			continue
		}
		ms := make([]string, 0, len(nodes))
		for _, n := range nodes {
			ms = append(ms, ids[n.ID()])
		}
		sort.Strings(ms)
		members = append(members, ms)
	}
	sort.Slice(members, func(i, j int) bool { return members[i][0] < members[j][0] })

	for i, ms := range members {
		c := Component{
			Index:   i,
			Members: ms,
			Color:   Palette[i%len(Palette)],
			Seed:    memberSeed(ms),
		}
		g.Components = append(g.Components, c)
		for _, id := range ms {
			g.componentOf[id] = i
		}
	}

	// Annotate kept edges with component and parallel-edge slots. Offset
	// indices are assigned in input order, so for k parallel links the
	// rendered edges carry distinct indices 0..k-1.
	for _, l := range kept {
		key := l.PairKey()
		g.Edges = append(g.Edges, Edge{
			Link:        l,
			Component:   g.ComponentOf(l.A),
			OffsetIndex: pairSeen[key],
			Count:       pairCount[key],
		})
		pairSeen[key]++
	}

	return g
}

// memberSeed hashes the sorted member ids. Seeding blob jitter from the
// membership rather than the component's array index keeps renders stable
// across entity insertion and deletion order.
func memberSeed(members []string) uint64 {
	h := fnv.New64a()
	for _, id := range members {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
