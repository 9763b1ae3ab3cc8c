package memgraph

import (
	"fmt"

	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

// edge references its endpoints by id and resolves them through the graph.
type edge struct {
	element
	label string
	outID string
	inID  string
}

func newEdge(g *Graph, id, outID, inID, label string) *edge {
	return &edge{
		element: element{id: id, kind: storage.EdgeKind, props: make(properties), graph: g},
		label:   label,
		outID:   outID,
		inID:    inID,
	}
}

func (e *edge) String() string {
	return fmt.Sprintf("e[%s][%s-%s->%s]", e.id, e.outID, e.label, e.inID)
}

func (e *edge) Label() string {
	return e.label
}

// EndpointID returns the id of the Out or In vertex without resolving it.
func (e *edge) EndpointID(dir storage.Direction) string {
	if dir == storage.In {
		return e.inID
	}
	return e.outID
}

func (e *edge) Vertex(dir storage.Direction) (storage.Vertex, error) {
	var id string
	switch dir {
	case storage.Out:
		id = e.outID
	case storage.In:
		id = e.inID
	default:
		return nil, fmt.Errorf("edge %q: endpoint direction must be IN or OUT, not %s", e.id, dir)
	}
	if e.removed {
		return nil, &pgraph.Error{Op: "Vertex", Kind: pgraph.ErrNotFound, Element: "edge", ID: e.id}
	}
	v, found := e.graph.vertices[id]
	if !found {
		return nil, &pgraph.Error{Op: "Vertex", Kind: pgraph.ErrNotFound, Element: "vertex", ID: id}
	}
	return v, nil
}
