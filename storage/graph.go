package storage

import (
	"fmt"

	"github.com/janelia-flyem/pgraph/pgraph"
)

// ElementKind distinguishes vertices from edges.  Identifiers are unique per kind,
// so a vertex and an edge may share an identifier.
type ElementKind uint8

const (
	VertexKind ElementKind = iota + 1
	EdgeKind
)

func (k ElementKind) String() string {
	switch k {
	case VertexKind:
		return "vertex"
	case EdgeKind:
		return "edge"
	default:
		return fmt.Sprintf("ElementKind(%d)", uint8(k))
	}
}

// Direction selects the adjacency of a vertex or the endpoint of an edge.
// An edge leaves its Out (tail) vertex and enters its In (head) vertex.
type Direction uint8

const (
	Out Direction = iota
	In
	Both
)

func (d Direction) String() string {
	switch d {
	case Out:
		return "OUT"
	case In:
		return "IN"
	case Both:
		return "BOTH"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Opposite returns the other endpoint direction.  Both is its own opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case Out:
		return In
	case In:
		return Out
	default:
		return d
	}
}

// Iterator is a pull-based lazy sequence.  Next fails with pgraph.ErrNoSuchElement
// once HasNext has returned false.  Calling HasNext repeatedly without Next does
// not advance the sequence.
type Iterator[T any] interface {
	HasNext() bool
	Next() (T, error)
}

// Element is the identity and property map shared by vertices and edges.
type Element interface {
	// ID returns the identifier, unique among elements of the same kind.
	ID() string

	// Kind returns whether this is a vertex or an edge.
	Kind() ElementKind

	// Property returns the value stored at key, if any.
	Property(key string) (pgraph.Value, bool)

	// PropertyKeys returns the keys with values on this element in key order.
	PropertyKeys() []string

	// SetProperty overwrites the value at key and maintains automatic indices.
	SetProperty(key string, value pgraph.Value) error

	// RemoveProperty removes the value at key, returning it or nil if absent.
	RemoveProperty(key string) (pgraph.Value, error)
}

// Vertex is an element with ordered incoming and outgoing edge lists.
type Vertex interface {
	Element

	// Edges returns incident edges in insertion order.  An empty label list means all labels.
	Edges(dir Direction, labels ...string) Iterator[Edge]

	// Vertices returns the vertices at the other end of the incident edges.
	Vertices(dir Direction, labels ...string) Iterator[Vertex]
}

// Edge is a labeled element that references an Out (tail) and In (head) vertex.
type Edge interface {
	Element

	// Label returns the immutable edge label.
	Label() string

	// Vertex resolves the In or Out endpoint through the owning graph.
	Vertex(dir Direction) (Vertex, error)
}

// SameElement returns true if both elements are of the same kind and share an identifier.
func SameElement(a, b Element) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind() == b.Kind() && a.ID() == b.ID()
}
