package pipe

import (
	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

// Pipe is a single stage that reads S from its source and produces E.  Pipes
// are read-only: there is no way to remove an element through a pipe.
type Pipe[S, E any] interface {
	storage.Iterator[E]

	// SetSource replaces the input of this stage and drops any lookahead.
	SetSource(src storage.Iterator[S])
}

// Filter selects whether a filter keeps the elements that match or those that don't.
type Filter uint8

const (
	Equal Filter = iota
	NotEqual
)

func (f Filter) String() string {
	if f == NotEqual {
		return "NOT_EQUAL"
	}
	return "EQUAL"
}

func (f Filter) keep(match bool) bool {
	return match == (f == Equal)
}

type sliceIterator[E any] struct {
	items []E
	pos   int
}

func (it *sliceIterator[E]) HasNext() bool {
	return it.pos < len(it.items)
}

func (it *sliceIterator[E]) Next() (E, error) {
	var zero E
	if it.pos >= len(it.items) {
		return zero, pgraph.ErrNoSuchElement
	}
	e := it.items[it.pos]
	it.items[it.pos] = zero
	it.pos++
	return e, nil
}

// FromSlice returns an iterator over the given items.
func FromSlice[E any](items ...E) storage.Iterator[E] {
	return &sliceIterator[E]{items: append([]E(nil), items...)}
}

// Empty returns an iterator with no elements.
func Empty[E any]() storage.Iterator[E] {
	return &sliceIterator[E]{}
}

// Collect drains an iterator into a slice.
func Collect[E any](it storage.Iterator[E]) ([]E, error) {
	var out []E
	for {
		e, ok, err := pull(it)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, e)
	}
}

// Drain pulls an iterator to exhaustion, e.g., to run side effects, and returns
// the number of elements pulled.
func Drain[E any](it storage.Iterator[E]) (int64, error) {
	var n int64
	for {
		_, ok, err := pull(it)
		if err != nil || !ok {
			return n, err
		}
		n++
	}
}
