package memgraph

import (
	"fmt"

	"github.com/janelia-flyem/pgraph/storage"
)

type vertex struct {
	element
	out *orderedSet // outgoing edge ids
	in  *orderedSet // incoming edge ids
}

func newVertex(g *Graph, id string) *vertex {
	return &vertex{
		element: element{id: id, kind: storage.VertexKind, props: make(properties), graph: g},
		out:     newOrderedSet(),
		in:      newOrderedSet(),
	}
}

func (v *vertex) String() string {
	return fmt.Sprintf("v[%s]", v.id)
}

// edgeIDs returns a snapshot of incident edge ids.  For Both the outgoing edges
// come first; a self-loop is listed once per direction.
func (v *vertex) edgeIDs(dir storage.Direction) []string {
	switch dir {
	case storage.Out:
		return v.out.snapshot()
	case storage.In:
		return v.in.snapshot()
	default:
		return append(v.out.snapshot(), v.in.snapshot()...)
	}
}

func (v *vertex) Edges(dir storage.Direction, labels ...string) storage.Iterator[storage.Edge] {
	return newEdgeIterator(v.graph, v.edgeIDs(dir), labels)
}

// Vertices returns the vertex at the far end of each incident edge.
func (v *vertex) Vertices(dir storage.Direction, labels ...string) storage.Iterator[storage.Vertex] {
	var hops []hop
	if dir == storage.Out || dir == storage.Both {
		for _, id := range v.out.snapshot() {
			hops = append(hops, hop{id, storage.In})
		}
	}
	if dir == storage.In || dir == storage.Both {
		for _, id := range v.in.snapshot() {
			hops = append(hops, hop{id, storage.Out})
		}
	}
	return newAdjacentIterator(v.graph, hops, labels)
}

// AddEdge adds an edge from this vertex to in.
func (v *vertex) AddEdge(id, label string, in storage.Vertex) (storage.Edge, error) {
	return v.graph.AddEdge(id, v, in, label)
}
