/*
	Package memgraph is an in-memory property graph that satisfies storage.IndexableGraph.

	Vertices and edges live in maps keyed by id, with insertion order kept for
	iteration.  Each vertex has ordered lists of incoming and outgoing edge ids, and
	each edge refers to its endpoints by id so that nothing outlives the graph's
	own bookkeeping.  Indices map key -> value -> element ids; automatic indices are
	kept current on every property change before SetProperty returns.

	A Graph is not safe for concurrent mutation.  Iterators work on a snapshot of
	ids taken at creation and skip elements removed before they are reached, so
	mutating the graph while iterating never corrupts it.

	If the graph was opened with a storage.Store, Shutdown saves it there.
*/
package memgraph

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/twinj/uuid"

	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

// Names of the automatic indices created by WithDefaultIndices.
const (
	DefaultVertexIndex = "vertices"
	DefaultEdgeIndex   = "edges"
)

// Option configures a new Graph.
type Option func(*Graph)

// WithDefaultIndices creates automatic vertex and edge indices over every key.
// Clear recreates them.
func WithDefaultIndices() Option {
	return func(g *Graph) {
		g.defaultIndices = true
	}
}

// WithStore attaches a store that receives the graph on Shutdown.
func WithStore(store storage.Store) Option {
	return func(g *Graph) {
		g.store = store
	}
}

// Graph is the in-memory graph store.
type Graph struct {
	vertices map[string]*vertex
	edges    map[string]*edge
	vorder   *orderedSet
	eorder   *orderedSet

	indices map[string]*index

	currentID  uint64
	instanceID string

	defaultIndices bool
	store          storage.Store
	closed         bool
}

// New returns an empty graph.
func New(options ...Option) *Graph {
	g := &Graph{instanceID: uuid.NewV4().String()}
	for _, opt := range options {
		opt(g)
	}
	g.reset()
	return g
}

// Open returns a graph loaded from the store.  The store is saved and closed on Shutdown.
func Open(ctx context.Context, store storage.Store, options ...Option) (*Graph, error) {
	g := New(append(options, WithStore(store))...)
	if err := store.Load(ctx, g); err != nil {
		return nil, fmt.Errorf("loading graph from %s: %w", store, err)
	}
	return g, nil
}

func (g *Graph) reset() {
	g.vertices = make(map[string]*vertex)
	g.edges = make(map[string]*edge)
	g.vorder = newOrderedSet()
	g.eorder = newOrderedSet()
	g.indices = make(map[string]*index)
	g.currentID = 0
	if g.defaultIndices {
		g.indices[DefaultVertexIndex] = newIndex(g, DefaultVertexIndex, storage.VertexKind, storage.AutomaticIndex, nil)
		g.indices[DefaultEdgeIndex] = newIndex(g, DefaultEdgeIndex, storage.EdgeKind, storage.AutomaticIndex, nil)
	}
}

func (g *Graph) String() string {
	return fmt.Sprintf("memgraph[vertices:%d edges:%d]", len(g.vertices), len(g.edges))
}

// InstanceID returns the UUID identifying this graph across saves.
func (g *Graph) InstanceID() string {
	return g.instanceID
}

func (g *Graph) SetInstanceID(id string) {
	g.instanceID = id
}

// CurrentID returns the last value handed out by the id allocator.
func (g *Graph) CurrentID() uint64 {
	return g.currentID
}

func (g *Graph) SetCurrentID(id uint64) {
	g.currentID = id
}

// NumVertices returns the number of vertices.
func (g *Graph) NumVertices() int {
	return len(g.vertices)
}

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// allocate returns the next counter value not already used as an id of the kind.
func (g *Graph) allocate(kind storage.ElementKind) string {
	for {
		g.currentID++
		id := strconv.FormatUint(g.currentID, 10)
		if _, used := g.element(kind, id); !used {
			return id
		}
	}
}

func (g *Graph) element(kind storage.ElementKind, id string) (storage.Element, bool) {
	switch kind {
	case storage.VertexKind:
		if v, found := g.vertices[id]; found {
			return v, true
		}
	case storage.EdgeKind:
		if e, found := g.edges[id]; found {
			return e, true
		}
	}
	return nil, false
}

// owns returns true if e is a live element of this graph.
func (g *Graph) owns(e storage.Element) bool {
	switch x := e.(type) {
	case *vertex:
		return x.graph == g && g.vertices[x.id] == x
	case *edge:
		return x.graph == g && g.edges[x.id] == x
	}
	return false
}

func (g *Graph) ownVertex(op string, v storage.Vertex) (*vertex, error) {
	if v == nil {
		return nil, &pgraph.Error{Op: op, Kind: pgraph.ErrInvalidReference, Element: "vertex"}
	}
	mv, ok := v.(*vertex)
	if !ok || mv.graph != g {
		return nil, &pgraph.Error{Op: op, Kind: pgraph.ErrInvalidReference, Element: "vertex", ID: v.ID(),
			Err: fmt.Errorf("vertex does not belong to graph %s", g.instanceID)}
	}
	if g.vertices[mv.id] != mv {
		return nil, &pgraph.Error{Op: op, Kind: pgraph.ErrInvalidReference, Element: "vertex", ID: mv.id,
			Err: fmt.Errorf("vertex has been removed")}
	}
	return mv, nil
}

func (g *Graph) AddVertex(id string) (storage.Vertex, error) {
	if g.closed {
		return nil, &pgraph.Error{Op: "AddVertex", Kind: pgraph.ErrClosed, Element: "vertex", ID: id}
	}
	if id == "" {
		id = g.allocate(storage.VertexKind)
	} else if _, found := g.vertices[id]; found {
		return nil, &pgraph.Error{Op: "AddVertex", Kind: pgraph.ErrDuplicateID, Element: "vertex", ID: id}
	}
	v := newVertex(g, id)
	g.vertices[id] = v
	g.vorder.add(id)
	return v, nil
}

func (g *Graph) Vertex(id string) (storage.Vertex, bool) {
	v, found := g.vertices[id]
	if !found {
		return nil, false
	}
	return v, true
}

func (g *Graph) Vertices() storage.Iterator[storage.Vertex] {
	return newVertexIterator(g, g.vorder.snapshot())
}

// RemoveVertex removes every incident edge, then the vertex's index entries,
// then the vertex itself.
func (g *Graph) RemoveVertex(v storage.Vertex) error {
	if v == nil {
		return &pgraph.Error{Op: "RemoveVertex", Kind: pgraph.ErrNotFound, Element: "vertex"}
	}
	mv, ok := v.(*vertex)
	if !ok || mv.graph != g || g.vertices[mv.id] != mv {
		return &pgraph.Error{Op: "RemoveVertex", Kind: pgraph.ErrNotFound, Element: "vertex", ID: v.ID()}
	}
	var removed int
	for _, id := range mv.edgeIDs(storage.Both) {
		if e, found := g.edges[id]; found {
			g.removeEdge(e)
			removed++
		}
	}
	for _, idx := range g.indices {
		if idx.kind == storage.VertexKind {
			idx.removeElement(mv.id)
		}
	}
	delete(g.vertices, mv.id)
	g.vorder.remove(mv.id)
	mv.removed = true
	pgraph.Debugf("removed vertex %q with %d incident edges\n", mv.id, removed)
	return nil
}

// AddEdge validates both endpoints before anything is modified, so a failed
// call leaves the graph unchanged.
func (g *Graph) AddEdge(id string, out, in storage.Vertex, label string) (storage.Edge, error) {
	if g.closed {
		return nil, &pgraph.Error{Op: "AddEdge", Kind: pgraph.ErrClosed, Element: "edge", ID: id}
	}
	if id != "" {
		if _, found := g.edges[id]; found {
			return nil, &pgraph.Error{Op: "AddEdge", Kind: pgraph.ErrDuplicateID, Element: "edge", ID: id}
		}
	}
	vout, err := g.ownVertex("AddEdge", out)
	if err != nil {
		return nil, err
	}
	vin, err := g.ownVertex("AddEdge", in)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = g.allocate(storage.EdgeKind)
	}
	e := newEdge(g, id, vout.id, vin.id, label)
	g.edges[id] = e
	g.eorder.add(id)
	vout.out.add(id)
	vin.in.add(id)
	return e, nil
}

func (g *Graph) Edge(id string) (storage.Edge, bool) {
	e, found := g.edges[id]
	if !found {
		return nil, false
	}
	return e, true
}

func (g *Graph) Edges() storage.Iterator[storage.Edge] {
	return newEdgeIterator(g, g.eorder.snapshot(), nil)
}

func (g *Graph) RemoveEdge(e storage.Edge) error {
	if e == nil {
		return &pgraph.Error{Op: "RemoveEdge", Kind: pgraph.ErrNotFound, Element: "edge"}
	}
	me, ok := e.(*edge)
	if !ok || me.graph != g || g.edges[me.id] != me {
		return &pgraph.Error{Op: "RemoveEdge", Kind: pgraph.ErrNotFound, Element: "edge", ID: e.ID()}
	}
	g.removeEdge(me)
	return nil
}

func (g *Graph) removeEdge(e *edge) {
	if v, found := g.vertices[e.outID]; found {
		v.out.remove(e.id)
	}
	if v, found := g.vertices[e.inID]; found {
		v.in.remove(e.id)
	}
	for _, idx := range g.indices {
		if idx.kind == storage.EdgeKind {
			idx.removeElement(e.id)
		}
	}
	delete(g.edges, e.id)
	g.eorder.remove(e.id)
	e.removed = true
}

// Clear drops every element and index and restarts id allocation.  Default
// indices are recreated.
func (g *Graph) Clear() {
	for _, v := range g.vertices {
		v.removed = true
	}
	for _, e := range g.edges {
		e.removed = true
	}
	g.reset()
	pgraph.Debugf("cleared graph %s\n", g.instanceID)
}

// Shutdown saves the graph to its store, if any, and closes the store.  Further
// additions fail with pgraph.ErrClosed.
func (g *Graph) Shutdown(ctx context.Context) error {
	if g.closed {
		return nil
	}
	g.closed = true
	if g.store == nil {
		return nil
	}
	timedLog := pgraph.NewTimeLog()
	if err := g.store.Save(ctx, g); err != nil {
		g.store.Close()
		return fmt.Errorf("saving graph to %s: %w", g.store, err)
	}
	timedLog.Infof("saved %s to %s", g, g.store)
	return g.store.Close()
}

// autoUpdate is called after a property is set.
func (g *Graph) autoUpdate(kind storage.ElementKind, id, key string, old pgraph.Value, existed bool, v pgraph.Value) {
	for _, idx := range g.indices {
		if idx.typ != storage.AutomaticIndex || idx.kind != kind || !idx.covers(key) {
			continue
		}
		if existed {
			idx.retract(key, old, id)
		}
		idx.insert(key, v, id)
	}
}

// autoRemove is called after a property is removed.
func (g *Graph) autoRemove(kind storage.ElementKind, id, key string, old pgraph.Value) {
	for _, idx := range g.indices {
		if idx.typ == storage.AutomaticIndex && idx.kind == kind && idx.covers(key) {
			idx.retract(key, old, id)
		}
	}
}

func (g *Graph) CreateManualIndex(name string, kind storage.ElementKind) (storage.Index, error) {
	if idx, found := g.indices[name]; found {
		if idx.kind == kind && idx.typ == storage.ManualIndex {
			return idx, nil
		}
		return nil, &pgraph.Error{Op: "CreateManualIndex", Kind: pgraph.ErrDuplicateIndexName, Element: "index", ID: name,
			Err: fmt.Errorf("name used by %s", idx)}
	}
	idx := newIndex(g, name, kind, storage.ManualIndex, nil)
	g.indices[name] = idx
	return idx, nil
}

// CreateAutomaticIndex creates an index over the given keys, or every key if
// keys is nil, and indexes the elements already in the graph.
func (g *Graph) CreateAutomaticIndex(name string, kind storage.ElementKind, keys []string) (storage.AutoIndex, error) {
	if idx, found := g.indices[name]; found {
		if idx.kind == kind && idx.typ == storage.AutomaticIndex && idx.sameKeys(keys) {
			return idx, nil
		}
		return nil, &pgraph.Error{Op: "CreateAutomaticIndex", Kind: pgraph.ErrDuplicateIndexName, Element: "index", ID: name,
			Err: fmt.Errorf("name used by %s", idx)}
	}
	idx := newIndex(g, name, kind, storage.AutomaticIndex, keys)
	switch kind {
	case storage.VertexKind:
		for _, v := range g.vertices {
			idx.indexElement(v.id, v.props)
		}
	case storage.EdgeKind:
		for _, e := range g.edges {
			idx.indexElement(e.id, e.props)
		}
	}
	g.indices[name] = idx
	return idx, nil
}

func (g *Graph) Index(name string, kind storage.ElementKind) (storage.Index, bool) {
	idx, found := g.indices[name]
	if !found || idx.kind != kind {
		return nil, false
	}
	return idx, true
}

func (g *Graph) Indices() []storage.Index {
	names := make([]string, 0, len(g.indices))
	for name := range g.indices {
		names = append(names, name)
	}
	sort.Strings(names)
	indices := make([]storage.Index, len(names))
	for i, name := range names {
		indices[i] = g.indices[name]
	}
	return indices
}

// DropIndex removes an index and its entries.  An automatic index stops being
// maintained.
func (g *Graph) DropIndex(name string) error {
	idx, found := g.indices[name]
	if !found {
		return &pgraph.Error{Op: "DropIndex", Kind: pgraph.ErrNotFound, Element: "index", ID: name}
	}
	idx.clear()
	delete(g.indices, name)
	return nil
}
