package memgraph_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
	"github.com/janelia-flyem/pgraph/storage/memgraph"
	"github.com/janelia-flyem/pgraph/tests"
)

func TestClassicGraph(t *testing.T) {
	g := tests.NewClassicGraph(t)
	if n := tests.Count(t, g.Vertices()); n != 6 {
		t.Fatalf("Expected 6 vertices, got %d\n", n)
	}
	if n := tests.Count(t, g.Edges()); n != 6 {
		t.Fatalf("Expected 6 edges, got %d\n", n)
	}
	marko, found := g.Vertex("1")
	if !found {
		t.Fatalf("Vertex 1 not found\n")
	}
	if name, _ := marko.Property("name"); name != "marko" {
		t.Errorf("Expected marko, got %v\n", name)
	}
	got := tests.IDs(t, marko.Vertices(storage.Out, "knows"))
	if fmt.Sprint(got) != "[2 4]" {
		t.Errorf("Expected marko to know [2 4], got %v\n", got)
	}
	got = tests.IDs(t, marko.Edges(storage.Out))
	if fmt.Sprint(got) != "[7 8 9]" {
		t.Errorf("Expected out edges [7 8 9] in insertion order, got %v\n", got)
	}
	lop, _ := g.Vertex("3")
	got = tests.IDs(t, lop.Vertices(storage.In))
	if fmt.Sprint(got) != "[1 4 6]" {
		t.Errorf("Expected lop created by [1 4 6], got %v\n", got)
	}
	josh, _ := g.Vertex("4")
	got = tests.IDs(t, josh.Vertices(storage.Both))
	if fmt.Sprint(got) != "[5 3 1]" {
		t.Errorf("Expected josh adjacent to [5 3 1], got %v\n", got)
	}
}

func TestEdgeEndpointsNeverDangle(t *testing.T) {
	g := tests.NewClassicGraph(t)
	for it := g.Edges(); it.HasNext(); {
		e, err := it.Next()
		if err != nil {
			t.Fatalf("Error iterating edges: %v\n", err)
		}
		for _, dir := range []storage.Direction{storage.Out, storage.In} {
			v, err := e.Vertex(dir)
			if err != nil {
				t.Fatalf("Edge %s has bad %s vertex: %v\n", e.ID(), dir, err)
			}
			if _, found := g.Vertex(v.ID()); !found {
				t.Fatalf("Edge %s %s vertex %s is not in graph\n", e.ID(), dir, v.ID())
			}
		}
	}
	e, _ := g.Edge("7")
	if _, err := e.Vertex(storage.Both); err == nil {
		t.Errorf("Expected error resolving BOTH endpoint\n")
	}
}

func TestRemoveVertexCascade(t *testing.T) {
	g := tests.NewClassicGraph(t)
	josh, _ := g.Vertex("4")
	incident := tests.Count(t, josh.Edges(storage.Both))
	if incident != 3 {
		t.Fatalf("Expected 3 edges incident to josh, got %d\n", incident)
	}
	before := tests.Count(t, g.Edges())
	if err := g.RemoveVertex(josh); err != nil {
		t.Fatalf("Unable to remove vertex: %v\n", err)
	}
	if after := tests.Count(t, g.Edges()); after != before-incident {
		t.Errorf("Expected %d edges after removal, got %d\n", before-incident, after)
	}
	for _, id := range []string{"8", "10", "11"} {
		if _, found := g.Edge(id); found {
			t.Errorf("Edge %s should have been removed with josh\n", id)
		}
	}
	marko, _ := g.Vertex("1")
	if got := tests.IDs(t, marko.Edges(storage.Out)); fmt.Sprint(got) != "[7 9]" {
		t.Errorf("Expected marko out edges [7 9], got %v\n", got)
	}
	if err := josh.SetProperty("name", "joshua"); !errors.Is(err, pgraph.ErrNotFound) {
		t.Errorf("Expected ErrNotFound setting property on removed vertex, got %v\n", err)
	}
	if err := g.RemoveVertex(josh); !errors.Is(err, pgraph.ErrNotFound) {
		t.Errorf("Expected ErrNotFound removing vertex twice, got %v\n", err)
	}
}

func TestSelfLoopRemoval(t *testing.T) {
	g := memgraph.New()
	v, _ := g.AddVertex("a")
	if _, err := g.AddEdge("loop", v, v, "self"); err != nil {
		t.Fatalf("Unable to add self loop: %v\n", err)
	}
	if n := tests.Count(t, v.Edges(storage.Both)); n != 2 {
		t.Errorf("Expected self loop listed once per direction, got %d\n", n)
	}
	if err := g.RemoveVertex(v); err != nil {
		t.Fatalf("Unable to remove vertex with self loop: %v\n", err)
	}
	if g.NumEdges() != 0 || g.NumVertices() != 0 {
		t.Errorf("Expected empty graph, got %s\n", g)
	}
}

type debugLines struct {
	lines []string
}

func (d *debugLines) Debugf(format string, args ...interface{}) {
	d.lines = append(d.lines, fmt.Sprintf(format, args...))
}
func (d *debugLines) Infof(format string, args ...interface{})     {}
func (d *debugLines) Warningf(format string, args ...interface{})  {}
func (d *debugLines) Errorf(format string, args ...interface{})    {}
func (d *debugLines) Criticalf(format string, args ...interface{}) {}
func (d *debugLines) Shutdown()                                    {}

func TestSelfLoopRemovalLogsEdgeCount(t *testing.T) {
	rec := &debugLines{}
	saved := pgraph.UseLogger(rec)
	pgraph.SetLogMode(pgraph.DebugMode)
	defer func() {
		pgraph.UseLogger(saved)
		pgraph.SetLogMode(pgraph.WarningMode)
	}()

	g := memgraph.New()
	v, _ := g.AddVertex("a")
	w, _ := g.AddVertex("b")
	g.AddEdge("loop", v, v, "self")
	g.AddEdge("ab", v, w, "next")
	if err := g.RemoveVertex(v); err != nil {
		t.Fatalf("Unable to remove vertex: %v\n", err)
	}
	want := "removed vertex \"a\" with 2 incident edges\n"
	var found bool
	for _, line := range rec.lines {
		found = found || line == want
	}
	if !found {
		t.Errorf("Expected debug line %q, got %q\n", want, rec.lines)
	}
}

func TestDuplicateID(t *testing.T) {
	g := tests.NewClassicGraph(t)
	_, err := g.AddVertex("1")
	if !errors.Is(err, pgraph.ErrDuplicateID) {
		t.Fatalf("Expected ErrDuplicateID, got %v\n", err)
	}
	var perr *pgraph.Error
	if !errors.As(err, &perr) || perr.ID != "1" || perr.Element != "vertex" {
		t.Errorf("Expected error to name vertex 1, got %v\n", err)
	}
	a, _ := g.Vertex("1")
	b, _ := g.Vertex("2")
	if _, err := g.AddEdge("7", a, b, "knows"); !errors.Is(err, pgraph.ErrDuplicateID) {
		t.Errorf("Expected ErrDuplicateID for edge, got %v\n", err)
	}
	// vertex and edge ids are separate namespaces
	if _, err := g.AddVertex("7"); err != nil {
		t.Errorf("Vertex id 7 should be free: %v\n", err)
	}
}

func TestInvalidReference(t *testing.T) {
	g := tests.NewClassicGraph(t)
	other := tests.NewClassicGraph(t)
	a, _ := g.Vertex("1")
	foreign, _ := other.Vertex("2")
	before := g.NumEdges()
	_, err := g.AddEdge("", a, foreign, "knows")
	if !errors.Is(err, pgraph.ErrInvalidReference) {
		t.Fatalf("Expected ErrInvalidReference for foreign vertex, got %v\n", err)
	}
	if _, err := g.AddEdge("", nil, a, "knows"); !errors.Is(err, pgraph.ErrInvalidReference) {
		t.Errorf("Expected ErrInvalidReference for nil vertex, got %v\n", err)
	}
	removed, _ := g.Vertex("6")
	if err := g.RemoveVertex(removed); err != nil {
		t.Fatalf("Unable to remove vertex: %v\n", err)
	}
	if _, err := g.AddEdge("", a, removed, "knows"); !errors.Is(err, pgraph.ErrInvalidReference) {
		t.Errorf("Expected ErrInvalidReference for removed vertex, got %v\n", err)
	}
	if g.NumEdges() != before-1 {
		t.Errorf("Failed AddEdge modified the graph: %s\n", g)
	}
	if got := tests.Count(t, a.Edges(storage.Out)); got != 3 {
		t.Errorf("Failed AddEdge modified adjacency: %d out edges\n", got)
	}
}

func TestIDAllocation(t *testing.T) {
	g := memgraph.New()
	g.AddVertex("2")
	var ids []string
	for i := 0; i < 3; i++ {
		v, err := g.AddVertex("")
		if err != nil {
			t.Fatalf("Unable to add vertex: %v\n", err)
		}
		ids = append(ids, v.ID())
	}
	if fmt.Sprint(ids) != "[1 3 4]" {
		t.Errorf("Expected allocated ids [1 3 4], got %v\n", ids)
	}
	if g.CurrentID() != 4 {
		t.Errorf("Expected counter 4, got %d\n", g.CurrentID())
	}
	g.Clear()
	if g.CurrentID() != 0 {
		t.Errorf("Expected counter reset by Clear, got %d\n", g.CurrentID())
	}
	v, _ := g.AddVertex("")
	if v.ID() != "1" {
		t.Errorf("Expected id 1 after Clear, got %s\n", v.ID())
	}
}

func TestReservedKeysAndTypes(t *testing.T) {
	g := tests.NewClassicGraph(t)
	v, _ := g.Vertex("1")
	e, _ := g.Edge("7")
	tcs := []struct {
		elem storage.Element
		key  string
	}{
		{v, "id"},
		{v, ""},
		{e, "id"},
		{e, "label"},
	}
	for _, tc := range tcs {
		err := tc.elem.SetProperty(tc.key, "x")
		if !errors.Is(err, pgraph.ErrReservedKey) {
			t.Errorf("Expected ErrReservedKey for %s key %q, got %v\n", tc.elem.Kind(), tc.key, err)
		}
	}
	if err := v.SetProperty("label", "person"); err != nil {
		t.Errorf("label should be usable on a vertex: %v\n", err)
	}
	err := v.SetProperty("tags", []string{"a"})
	if !errors.Is(err, pgraph.ErrUnsupportedPropertyType) {
		t.Errorf("Expected ErrUnsupportedPropertyType, got %v\n", err)
	}
	if err := v.SetProperty("age", 30); err != nil {
		t.Fatalf("Unable to set int property: %v\n", err)
	}
	if age, _ := v.Property("age"); age != int64(30) {
		t.Errorf("Expected int widened to int64, got %#v\n", age)
	}
	old, err := v.RemoveProperty("age")
	if err != nil || old != int64(30) {
		t.Errorf("Expected removed value 30, got %v, %v\n", old, err)
	}
	old, err = v.RemoveProperty("age")
	if err != nil || old != nil {
		t.Errorf("Expected nil removing absent key, got %v, %v\n", old, err)
	}
}

func TestIterateWhileRemoving(t *testing.T) {
	g := tests.NewClassicGraph(t)
	it := g.Vertices()
	var seen []string
	for it.HasNext() {
		v, err := it.Next()
		if err != nil {
			t.Fatalf("Error iterating: %v\n", err)
		}
		seen = append(seen, v.ID())
		if v.ID() == "1" {
			for _, id := range []string{"1", "3", "5"} {
				r, _ := g.Vertex(id)
				if err := g.RemoveVertex(r); err != nil {
					t.Fatalf("Unable to remove vertex %s: %v\n", id, err)
				}
			}
			g.AddVertex("new")
		}
	}
	if fmt.Sprint(seen) != "[1 2 4 6]" {
		t.Errorf("Expected removed vertices skipped and new ones unseen, got %v\n", seen)
	}
	if _, err := it.Next(); !errors.Is(err, pgraph.ErrNoSuchElement) {
		t.Errorf("Expected ErrNoSuchElement past the end, got %v\n", err)
	}
	edges := g.Edges()
	for edges.HasNext() {
		e, _ := edges.Next()
		g.RemoveEdge(e)
	}
	if g.NumEdges() != 0 {
		t.Errorf("Expected no edges left, got %d\n", g.NumEdges())
	}
}

func TestHasNextIdempotent(t *testing.T) {
	g := tests.NewClassicGraph(t)
	it := g.Vertices()
	for i := 0; i < 3; i++ {
		if !it.HasNext() {
			t.Fatalf("Expected HasNext true\n")
		}
	}
	v, _ := it.Next()
	if v.ID() != "1" {
		t.Errorf("Repeated HasNext advanced the iterator: got %s\n", v.ID())
	}
}

type countingStore struct {
	saved, closed int
}

func (s *countingStore) String() string                                           { return "counting" }
func (s *countingStore) Load(ctx context.Context, g storage.IndexableGraph) error { return nil }
func (s *countingStore) Save(ctx context.Context, g storage.IndexableGraph) error {
	s.saved++
	return nil
}
func (s *countingStore) Equal(config pgraph.StoreConfig) bool { return false }
func (s *countingStore) Close() error {
	s.closed++
	return nil
}

func TestShutdownSaves(t *testing.T) {
	store := new(countingStore)
	g, err := memgraph.Open(context.Background(), store)
	if err != nil {
		t.Fatalf("Unable to open graph: %v\n", err)
	}
	if err := tests.BuildClassicGraph(g); err != nil {
		t.Fatalf("Unable to build graph: %v\n", err)
	}
	if err := g.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v\n", err)
	}
	if err := g.Shutdown(context.Background()); err != nil {
		t.Fatalf("Second shutdown failed: %v\n", err)
	}
	if store.saved != 1 || store.closed != 1 {
		t.Errorf("Expected one save and close, got %d and %d\n", store.saved, store.closed)
	}
	if _, err := g.AddVertex(""); !errors.Is(err, pgraph.ErrClosed) {
		t.Errorf("Expected ErrClosed after shutdown, got %v\n", err)
	}
}
