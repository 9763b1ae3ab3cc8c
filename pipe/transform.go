package pipe

import (
	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

// TransformPipe maps each input element to one output element.
type TransformPipe[S, E any] struct {
	stage[S, E]
	fn func(S) (E, error)
}

// Transform returns a pipe applying fn to every element.
func Transform[S, E any](fn func(S) (E, error)) *TransformPipe[S, E] {
	p := &TransformPipe[S, E]{fn: fn}
	p.init(p.step)
	return p
}

func (p *TransformPipe[S, E]) step() (E, bool, error) {
	var zero E
	s, ok, err := pull(p.src)
	if !ok || err != nil {
		return zero, ok, err
	}
	e, err := p.fn(s)
	if err != nil {
		return zero, false, err
	}
	return e, true, nil
}

// ExpandPipe maps each input element to a sequence and flattens the sequences.
// It moves to the next input element only when the current sequence is exhausted.
type ExpandPipe[S, E any] struct {
	stage[S, E]
	fn      func(S) (storage.Iterator[E], error)
	current storage.Iterator[E]
}

// Expand returns a flattening pipe.
func Expand[S, E any](fn func(S) (storage.Iterator[E], error)) *ExpandPipe[S, E] {
	p := &ExpandPipe[S, E]{fn: fn}
	p.init(p.step)
	return p
}

func (p *ExpandPipe[S, E]) SetSource(src storage.Iterator[S]) {
	p.stage.SetSource(src)
	p.current = nil
}

func (p *ExpandPipe[S, E]) step() (E, bool, error) {
	var zero E
	for {
		e, ok, err := pull(p.current)
		if ok || err != nil {
			return e, ok, err
		}
		s, ok, err := pull(p.src)
		if !ok || err != nil {
			return zero, ok, err
		}
		if p.current, err = p.fn(s); err != nil {
			return zero, false, err
		}
	}
}

// EdgeVertex maps each edge to its Out or In vertex.  Both yields the Out vertex
// and then the In vertex.
func EdgeVertex(dir storage.Direction) Pipe[storage.Edge, storage.Vertex] {
	if dir == storage.Both {
		return Expand(func(e storage.Edge) (storage.Iterator[storage.Vertex], error) {
			out, err := e.Vertex(storage.Out)
			if err != nil {
				return nil, err
			}
			in, err := e.Vertex(storage.In)
			if err != nil {
				return nil, err
			}
			return FromSlice(out, in), nil
		})
	}
	return Transform(func(e storage.Edge) (storage.Vertex, error) {
		return e.Vertex(dir)
	})
}

// VertexEdges expands each vertex into its incident edges with the given labels,
// or all labels if none are given.
func VertexEdges(dir storage.Direction, labels ...string) *ExpandPipe[storage.Vertex, storage.Edge] {
	return Expand(func(v storage.Vertex) (storage.Iterator[storage.Edge], error) {
		return v.Edges(dir, labels...), nil
	})
}

// VertexVertices expands each vertex into its adjacent vertices.
func VertexVertices(dir storage.Direction, labels ...string) *ExpandPipe[storage.Vertex, storage.Vertex] {
	return Expand(func(v storage.Vertex) (storage.Iterator[storage.Vertex], error) {
		return v.Vertices(dir, labels...), nil
	})
}

// PropertyPipe emits the value of a property key for each element that has it.
type PropertyPipe[E storage.Element] struct {
	stage[E, pgraph.Value]
	key string
}

// Property returns a pipe extracting the value at key.  Elements without the
// key are skipped.
func Property[E storage.Element](key string) *PropertyPipe[E] {
	p := &PropertyPipe[E]{key: key}
	p.init(p.step)
	return p
}

func (p *PropertyPipe[E]) step() (pgraph.Value, bool, error) {
	for {
		e, ok, err := pull(p.src)
		if !ok || err != nil {
			return nil, ok, err
		}
		if v, found := e.Property(p.key); found {
			return v, true, nil
		}
	}
}

// IDs maps elements to their ids.
func IDs[E storage.Element]() *TransformPipe[E, string] {
	return Transform(func(e E) (string, error) {
		return e.ID(), nil
	})
}

// Labels maps edges to their labels.
func Labels() *TransformPipe[storage.Edge, string] {
	return Transform(func(e storage.Edge) (string, error) {
		return e.Label(), nil
	})
}
