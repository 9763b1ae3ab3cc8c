package pipe

import (
	"fmt"

	"github.com/janelia-flyem/pgraph/storage"
)

// Stage is a pipe with its element types erased so that stages of different
// types can be held in one Pipeline.
type Stage = Pipe[any, any]

// Erase returns a view of p that reads and produces untyped elements.  Reading
// an element of the wrong type fails with an error from Next.
func Erase[S, E any](p Pipe[S, E]) Stage {
	return &erased[S, E]{p: p}
}

type erased[S, E any] struct {
	p Pipe[S, E]
}

func (x *erased[S, E]) SetSource(src storage.Iterator[any]) {
	x.p.SetSource(typed[S](src))
}

func (x *erased[S, E]) HasNext() bool {
	return x.p.HasNext()
}

func (x *erased[S, E]) Next() (any, error) {
	e, err := x.p.Next()
	if err != nil {
		return nil, err
	}
	return e, nil
}

type untypedIterator[E any] struct {
	it storage.Iterator[E]
}

func (u untypedIterator[E]) HasNext() bool {
	return u.it.HasNext()
}

func (u untypedIterator[E]) Next() (any, error) {
	e, err := u.it.Next()
	if err != nil {
		return nil, err
	}
	return e, nil
}

// untyped returns an iterator of any over a typed iterator.
func untyped[E any](it storage.Iterator[E]) storage.Iterator[any] {
	if it == nil {
		return nil
	}
	if t, ok := it.(typedIterator[E]); ok {
		return t.it
	}
	return untypedIterator[E]{it}
}

type typedIterator[E any] struct {
	it storage.Iterator[any]
}

func (t typedIterator[E]) HasNext() bool {
	return t.it.HasNext()
}

func (t typedIterator[E]) Next() (E, error) {
	var zero E
	v, err := t.it.Next()
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	e, ok := v.(E)
	if !ok {
		return zero, fmt.Errorf("pipe stage expected %T, got %T", zero, v)
	}
	return e, nil
}

// typed returns a typed iterator over an iterator of any.
func typed[E any](it storage.Iterator[any]) storage.Iterator[E] {
	if it == nil {
		return nil
	}
	if u, ok := it.(untypedIterator[E]); ok {
		return u.it
	}
	return typedIterator[E]{it}
}

// Pipeline is a fixed chain of stages where each stage reads from the one before.
// The chain is wired when the pipeline is created; SetSource only rewires the
// first stage.  A Pipeline is itself a Pipe and can be nested in another.
type Pipeline[S, E any] struct {
	stages []Stage
	end    storage.Iterator[E]
}

// NewPipeline chains the stages in order.  A pipeline without stages passes its
// source through unchanged.
func NewPipeline[S, E any](stages ...Stage) *Pipeline[S, E] {
	if len(stages) == 0 {
		stages = []Stage{Erase[any, any](Transform(func(v any) (any, error) { return v, nil }))}
	}
	for i := 1; i < len(stages); i++ {
		stages[i].SetSource(stages[i-1])
	}
	return &Pipeline[S, E]{
		stages: stages,
		end:    typed[E](stages[len(stages)-1]),
	}
}

// SetSource feeds the first stage from src.  Later stages keep their wiring but
// drop any lookahead taken from the previous source.
func (p *Pipeline[S, E]) SetSource(src storage.Iterator[S]) {
	p.stages[0].SetSource(untyped(src))
	for i := 1; i < len(p.stages); i++ {
		p.stages[i].SetSource(p.stages[i-1])
	}
}

func (p *Pipeline[S, E]) HasNext() bool {
	return p.end.HasNext()
}

func (p *Pipeline[S, E]) Next() (E, error) {
	return p.end.Next()
}

// Stages returns the number of stages.
func (p *Pipeline[S, E]) Stages() int {
	return len(p.stages)
}

// Then chains two typed pipes: b reads from a.
func Then[S, M, E any](a Pipe[S, M], b Pipe[M, E]) Pipe[S, E] {
	b.SetSource(a)
	return &chain[S, M, E]{a: a, b: b}
}

type chain[S, M, E any] struct {
	a Pipe[S, M]
	b Pipe[M, E]
}

func (c *chain[S, M, E]) SetSource(src storage.Iterator[S]) {
	c.a.SetSource(src)
	c.b.SetSource(c.a)
}

func (c *chain[S, M, E]) HasNext() bool {
	return c.b.HasNext()
}

func (c *chain[S, M, E]) Next() (E, error) {
	return c.b.Next()
}
