/*
	The tests package provides fixtures shared by package tests: the classic six-vertex
	graph and throwaway store configurations.
*/
package tests

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/twinj/uuid"

	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
	"github.com/janelia-flyem/pgraph/storage/memgraph"
)

func init() {
	pgraph.SetLogMode(pgraph.WarningMode)
}

type classicVertex struct {
	id    string
	props map[string]pgraph.Value
}

type classicEdge struct {
	id, out, in, label string
	weight             float32
}

var classicVertices = []classicVertex{
	{"1", map[string]pgraph.Value{"name": "marko", "age": int32(29)}},
	{"2", map[string]pgraph.Value{"name": "vadas", "age": int32(27)}},
	{"3", map[string]pgraph.Value{"name": "lop", "lang": "java"}},
	{"4", map[string]pgraph.Value{"name": "josh", "age": int32(32)}},
	{"5", map[string]pgraph.Value{"name": "ripple", "lang": "java"}},
	{"6", map[string]pgraph.Value{"name": "peter", "age": int32(35)}},
}

var classicEdges = []classicEdge{
	{"7", "1", "2", "knows", 0.5},
	{"8", "1", "4", "knows", 1.0},
	{"9", "1", "3", "created", 0.4},
	{"10", "4", "5", "created", 1.0},
	{"11", "4", "3", "created", 0.4},
	{"12", "6", "3", "created", 0.2},
}

// BuildClassicGraph adds the classic graph: marko knows vadas and josh; marko,
// josh and peter created lop; josh created ripple.
func BuildClassicGraph(g storage.Graph) error {
	for _, cv := range classicVertices {
		v, err := g.AddVertex(cv.id)
		if err != nil {
			return err
		}
		for key, value := range cv.props {
			if err := v.SetProperty(key, value); err != nil {
				return err
			}
		}
	}
	for _, ce := range classicEdges {
		out, found := g.Vertex(ce.out)
		if !found {
			return fmt.Errorf("classic graph vertex %s missing", ce.out)
		}
		in, found := g.Vertex(ce.in)
		if !found {
			return fmt.Errorf("classic graph vertex %s missing", ce.in)
		}
		e, err := g.AddEdge(ce.id, out, in, ce.label)
		if err != nil {
			return err
		}
		if err := e.SetProperty("weight", ce.weight); err != nil {
			return err
		}
	}
	return nil
}

// NewClassicGraph returns a memory graph holding the classic graph.
func NewClassicGraph(t testing.TB, options ...memgraph.Option) *memgraph.Graph {
	g := memgraph.New(options...)
	if err := BuildClassicGraph(g); err != nil {
		t.Fatalf("Unable to build classic graph: %v\n", err)
	}
	return g
}

// TempStoreConfig returns a store configuration for the named engine rooted in a
// fresh directory that is removed when the test ends.
func TempStoreConfig(t testing.TB, engine string) pgraph.StoreConfig {
	config := pgraph.NewConfig()
	config.Set("path", filepath.Join(t.TempDir(), fmt.Sprintf("pgraph-test-%s-%x", engine, uuid.NewV4().Bytes())))
	config.Set("testing", true)
	return pgraph.StoreConfig{Config: config, Engine: engine}
}

// Count drains an iterator and returns the number of items.
func Count[T any](t testing.TB, it storage.Iterator[T]) int {
	var n int
	for it.HasNext() {
		if _, err := it.Next(); err != nil {
			t.Fatalf("Error iterating: %v\n", err)
		}
		n++
	}
	return n
}

// IDs drains an iterator of elements and returns their ids in order.
func IDs[T storage.Element](t testing.TB, it storage.Iterator[T]) []string {
	var ids []string
	for it.HasNext() {
		e, err := it.Next()
		if err != nil {
			t.Fatalf("Error iterating: %v\n", err)
		}
		ids = append(ids, e.ID())
	}
	return ids
}

// AssertIsomorphic fails the test unless both graphs have the same vertex ids,
// the same edge (id, out, in, label) tuples and the same property maps.
func AssertIsomorphic(t testing.TB, want, got storage.Graph) {
	t.Helper()
	wantV, gotV := IDs(t, want.Vertices()), IDs(t, got.Vertices())
	if len(wantV) != len(gotV) {
		t.Fatalf("Expected %d vertices, got %d\n", len(wantV), len(gotV))
	}
	for _, id := range wantV {
		wv, _ := want.Vertex(id)
		gv, found := got.Vertex(id)
		if !found {
			t.Fatalf("Vertex %q missing\n", id)
		}
		assertProperties(t, wv, gv)
	}
	wantE, gotE := IDs(t, want.Edges()), IDs(t, got.Edges())
	if len(wantE) != len(gotE) {
		t.Fatalf("Expected %d edges, got %d\n", len(wantE), len(gotE))
	}
	for _, id := range wantE {
		we, _ := want.Edge(id)
		ge, found := got.Edge(id)
		if !found {
			t.Fatalf("Edge %q missing\n", id)
		}
		if we.Label() != ge.Label() {
			t.Errorf("Edge %q label: expected %q, got %q\n", id, we.Label(), ge.Label())
		}
		for _, dir := range []storage.Direction{storage.Out, storage.In} {
			wv, err := we.Vertex(dir)
			if err != nil {
				t.Fatalf("Edge %q %s vertex: %v\n", id, dir, err)
			}
			gv, err := ge.Vertex(dir)
			if err != nil {
				t.Fatalf("Edge %q %s vertex: %v\n", id, dir, err)
			}
			if wv.ID() != gv.ID() {
				t.Errorf("Edge %q %s vertex: expected %q, got %q\n", id, dir, wv.ID(), gv.ID())
			}
		}
		assertProperties(t, we, ge)
	}
}

func assertProperties(t testing.TB, want, got storage.Element) {
	t.Helper()
	wantKeys, gotKeys := want.PropertyKeys(), got.PropertyKeys()
	if len(wantKeys) != len(gotKeys) {
		t.Errorf("%s %q: expected keys %v, got %v\n", want.Kind(), want.ID(), wantKeys, gotKeys)
		return
	}
	for _, key := range wantKeys {
		wv, _ := want.Property(key)
		gv, found := got.Property(key)
		if !found || wv != gv {
			t.Errorf("%s %q key %q: expected %#v, got %#v\n", want.Kind(), want.ID(), key, wv, gv)
		}
	}
}
