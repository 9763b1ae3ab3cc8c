package storage

import "context"

// GraphSetter defines operations that modify a graph.
type GraphSetter interface {
	// AddVertex inserts a vertex.  An empty id asks the graph to allocate one.
	AddVertex(id string) (Vertex, error)

	// RemoveVertex removes every incident edge, then the vertex and its index entries.
	RemoveVertex(v Vertex) error

	// AddEdge adds a labeled edge from out to in.  An empty id asks the graph to allocate one.
	AddEdge(id string, out, in Vertex, label string) (Edge, error)

	// RemoveEdge detaches an edge from both endpoints and all indices.
	RemoveEdge(e Edge) error

	// Clear drops all elements and indices and restarts id allocation.
	Clear()
}

// GraphGetter defines operations that retrieve information from a graph.
type GraphGetter interface {
	// Vertex retrieves a vertex given its id.
	Vertex(id string) (Vertex, bool)

	// Edge retrieves an edge given its id.
	Edge(id string) (Edge, bool)

	// Vertices returns all vertices.  Mutating the graph during iteration does
	// not corrupt it; vertices removed before they are reached are skipped.
	Vertices() Iterator[Vertex]

	// Edges returns all edges with the same guarantees as Vertices.
	Edges() Iterator[Edge]
}

// Graph defines the entire capability a graph backend should support.
type Graph interface {
	GraphSetter
	GraphGetter

	// Shutdown persists the graph if it is backed by a store and releases resources.
	Shutdown(ctx context.Context) error
}

// IDCounter is implemented by graphs whose id allocator state is persisted.
type IDCounter interface {
	CurrentID() uint64
	SetCurrentID(id uint64)
}

// InstanceIdentifier is implemented by graphs that carry a persistent instance id.
type InstanceIdentifier interface {
	InstanceID() string
	SetInstanceID(id string)
}
