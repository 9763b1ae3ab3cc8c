package pipe

import (
	"errors"

	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

type peekState uint8

const (
	unknown peekState = iota
	ready
	exhausted
)

// Peekable turns a step function into an iterator with one element of
// lookahead.  The step function returns the next element, or false when the
// sequence is done.  A step error is held until Next so HasNext stays a pure
// question.
type Peekable[E any] struct {
	step  func() (E, bool, error)
	state peekState
	next  E
	err   error
}

// NewPeekable returns an iterator driven by step.
func NewPeekable[E any](step func() (E, bool, error)) *Peekable[E] {
	return &Peekable[E]{step: step}
}

func (p *Peekable[E]) HasNext() bool {
	if p.state == unknown {
		if p.step == nil {
			p.state = exhausted
			return false
		}
		next, ok, err := p.step()
		switch {
		case err != nil:
			p.err = err
			p.state = ready
		case ok:
			p.next = next
			p.state = ready
		default:
			p.state = exhausted
		}
	}
	return p.state == ready
}

func (p *Peekable[E]) Next() (E, error) {
	var zero E
	if !p.HasNext() {
		return zero, pgraph.ErrNoSuchElement
	}
	next, err := p.next, p.err
	p.next, p.err = zero, nil
	p.state = unknown
	if err != nil {
		return zero, err
	}
	return next, nil
}

// reset forgets any lookahead, e.g., after the source has changed.
func (p *Peekable[E]) reset() {
	var zero E
	p.next, p.err = zero, nil
	p.state = unknown
}

// pull takes the next element of src.  Exhaustion is not an error.
func pull[S any](src storage.Iterator[S]) (S, bool, error) {
	var zero S
	if src == nil || !src.HasNext() {
		return zero, false, nil
	}
	s, err := src.Next()
	if errors.Is(err, pgraph.ErrNoSuchElement) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	return s, true, nil
}

// stage holds the source and lookahead shared by single-input pipes.
type stage[S, E any] struct {
	src  storage.Iterator[S]
	peek Peekable[E]
}

func (st *stage[S, E]) init(step func() (E, bool, error)) {
	st.peek.step = step
}

func (st *stage[S, E]) SetSource(src storage.Iterator[S]) {
	st.src = src
	st.peek.reset()
}

func (st *stage[S, E]) HasNext() bool {
	return st.peek.HasNext()
}

func (st *stage[S, E]) Next() (E, error) {
	return st.peek.Next()
}
