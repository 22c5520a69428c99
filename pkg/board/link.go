package board

// LinkType classifies a link. Links are rendered as a single undirected
// edge regardless of type; the type is carried for callers that care.
type LinkType string

const (
	LinkRelated     LinkType = "related"
	LinkDependsOn   LinkType = "depends-on"
	LinkDerivesFrom LinkType = "derives-from"
)

// Link is an undirected relation between two entities. A and B are entity
// ids; the pair is unordered for grouping and rendering purposes even
// though a directional type may be recorded.
type Link struct {
	A           string
	B           string
	Note        string
	Type        LinkType
	AIGenerated bool
}

// PairKey returns a canonical key for the unordered endpoint pair, used to
// group parallel edges and deduplicate cleanup reports.
func (l Link) PairKey() string {
	if l.A <= l.B {
		return l.A + "\x00" + l.B
	}
	return l.B + "\x00" + l.A
}

// Other returns the endpoint opposite to id, and whether id is an endpoint
// at all.
func (l Link) Other(id string) (string, bool) {
	switch id {
	case l.A:
		return l.B, true
	case l.B:
		return l.A, true
	default:
		return "", false
	}
}

// Touches reports whether the link has id as one of its endpoints.
func (l Link) Touches(id string) bool {
	return l.A == id || l.B == id
}

// PruneLinks returns links with every link touching id removed. Entity
// deletion cascades through here so no dangling edges survive.
func PruneLinks(links []Link, id string) []Link {
	out := links[:0:0]
	for _, l := range links {
		if !l.Touches(id) {
			out = append(out, l)
		}
	}
	return out
}
