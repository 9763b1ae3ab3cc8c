package pipe

import (
	"sync/atomic"

	"github.com/janelia-flyem/pgraph/storage"
)

// Collection receives the elements drained by Aggregate.
type Collection[E any] interface {
	Add(e E)
	Contains(e E) bool
	Len() int
	Iterator() storage.Iterator[E]
}

// List is a Collection that keeps every element in arrival order.
type List[E comparable] struct {
	items []E
}

func NewList[E comparable]() *List[E] {
	return &List[E]{}
}

func (l *List[E]) Add(e E) {
	l.items = append(l.items, e)
}

func (l *List[E]) Contains(e E) bool {
	for _, item := range l.items {
		if item == e {
			return true
		}
	}
	return false
}

func (l *List[E]) Len() int {
	return len(l.items)
}

func (l *List[E]) Iterator() storage.Iterator[E] {
	return &sliceIterator[E]{items: append([]E(nil), l.items...)}
}

// Set is a Collection that keeps the first arrival of each element, in order.
type Set[E comparable] struct {
	order []E
	index map[E]struct{}
}

func NewSet[E comparable]() *Set[E] {
	return &Set[E]{index: make(map[E]struct{})}
}

func (s *Set[E]) Add(e E) {
	if _, found := s.index[e]; !found {
		s.index[e] = struct{}{}
		s.order = append(s.order, e)
	}
}

func (s *Set[E]) Contains(e E) bool {
	_, found := s.index[e]
	return found
}

func (s *Set[E]) Len() int {
	return len(s.order)
}

func (s *Set[E]) Iterator() storage.Iterator[E] {
	return &sliceIterator[E]{items: append([]E(nil), s.order...)}
}

// AggregatePipe drains its whole input into a collection on the first pull and
// then emits the collection's contents in the collection's own order.
type AggregatePipe[E any] struct {
	stage[E, E]
	coll    Collection[E]
	drained storage.Iterator[E]
}

// Aggregate returns a pipe collecting into coll, which should be empty.
func Aggregate[E any](coll Collection[E]) *AggregatePipe[E] {
	p := &AggregatePipe[E]{coll: coll}
	p.init(p.step)
	return p
}

func (p *AggregatePipe[E]) SetSource(src storage.Iterator[E]) {
	p.stage.SetSource(src)
	p.drained = nil
}

func (p *AggregatePipe[E]) step() (E, bool, error) {
	var zero E
	if p.drained == nil {
		for {
			e, ok, err := pull(p.src)
			if err != nil {
				return zero, false, err
			}
			if !ok {
				break
			}
			p.coll.Add(e)
		}
		p.drained = p.coll.Iterator()
	}
	return pull(p.drained)
}

// SideEffect returns the collection.  It is complete once the first element has
// been pulled from this pipe.
func (p *AggregatePipe[E]) SideEffect() Collection[E] {
	return p.coll
}

// CountPipe passes elements through and counts them.
type CountPipe[E any] struct {
	stage[E, E]
	count atomic.Int64
}

// Count returns a counting pipe.
func Count[E any]() *CountPipe[E] {
	p := new(CountPipe[E])
	p.init(p.step)
	return p
}

func (p *CountPipe[E]) step() (E, bool, error) {
	return pull(p.src)
}

func (p *CountPipe[E]) Next() (E, error) {
	e, err := p.stage.Next()
	if err == nil {
		p.count.Add(1)
	}
	return e, err
}

// SideEffect returns the number of elements pulled through this pipe so far.
// It may be read from another goroutine.
func (p *CountPipe[E]) SideEffect() int64 {
	return p.count.Load()
}
