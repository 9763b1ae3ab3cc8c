package pipe

import (
	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

// FilterPipe passes on the elements for which its predicate holds.
type FilterPipe[E any] struct {
	stage[E, E]
	pred func(E) (bool, error)
}

// NewFilter returns a pipe that keeps elements satisfying pred.
func NewFilter[E any](pred func(E) (bool, error)) *FilterPipe[E] {
	p := &FilterPipe[E]{pred: pred}
	p.init(p.step)
	return p
}

func (p *FilterPipe[E]) step() (E, bool, error) {
	for {
		e, ok, err := pull(p.src)
		if !ok || err != nil {
			return e, ok, err
		}
		keep, err := p.pred(e)
		if err != nil {
			return e, false, err
		}
		if keep {
			return e, true, nil
		}
	}
}

// Where returns a filter over a predicate that cannot fail.
func Where[E any](pred func(E) bool) *FilterPipe[E] {
	return NewFilter(func(e E) (bool, error) {
		return pred(e), nil
	})
}

// LabelFilter keeps edges whose label equals (or, with NotEqual, differs from) label.
func LabelFilter(label string, f Filter) *FilterPipe[storage.Edge] {
	return Where(func(e storage.Edge) bool {
		return f.keep(e.Label() == label)
	})
}

// PropertyFilter keeps elements whose property key equals (or differs from)
// value.  An element without the key never equals value.  Values compare by type
// after pgraph.NormalizeValue, so an untyped constant such as 29 is a Long and
// does not equal an age stored as int32(29).
func PropertyFilter[E storage.Element](key string, value pgraph.Value, f Filter) *FilterPipe[E] {
	want, err := pgraph.NormalizeValue(value)
	return NewFilter(func(e E) (bool, error) {
		if err != nil {
			return false, err
		}
		got, found := e.Property(key)
		return f.keep(found && got == want), nil
	})
}

// ObjectFilter keeps elements equal to (or different from) obj.
func ObjectFilter[E comparable](obj E, f Filter) *FilterPipe[E] {
	return Where(func(e E) bool {
		return f.keep(e == obj)
	})
}

// ElementFilter keeps graph elements that are (or are not) the same element as
// obj, comparing kind and id.
func ElementFilter[E storage.Element](obj storage.Element, f Filter) *FilterPipe[E] {
	return Where(func(e E) bool {
		return f.keep(storage.SameElement(e, obj))
	})
}

// ExceptFilter drops elements already in a collection, typically the side
// effect of an earlier Aggregate.
func ExceptFilter[E any](c Collection[E]) *FilterPipe[E] {
	return Where(func(e E) bool {
		return !c.Contains(e)
	})
}

// RetainFilter keeps only elements in a collection.
func RetainFilter[E any](c Collection[E]) *FilterPipe[E] {
	return Where(func(e E) bool {
		return c.Contains(e)
	})
}

// Dedup passes on the first occurrence of each element.
func Dedup[E comparable]() *FilterPipe[E] {
	seen := make(map[E]struct{})
	return Where(func(e E) bool {
		if _, found := seen[e]; found {
			return false
		}
		seen[e] = struct{}{}
		return true
	})
}

// RangePipe passes on the elements at positions low through high-1 of its input.
// It stops pulling once high is reached.
type RangePipe[E any] struct {
	stage[E, E]
	low, high int
	pos       int
}

// Range returns a pipe for the positions [low, high).  A negative high means no
// upper bound.
func Range[E any](low, high int) *RangePipe[E] {
	p := &RangePipe[E]{low: low, high: high}
	p.init(p.step)
	return p
}

func (p *RangePipe[E]) SetSource(src storage.Iterator[E]) {
	p.stage.SetSource(src)
	p.pos = 0
}

func (p *RangePipe[E]) step() (E, bool, error) {
	var zero E
	for p.high < 0 || p.pos < p.high {
		e, ok, err := pull(p.src)
		if !ok || err != nil {
			return e, ok, err
		}
		p.pos++
		if p.pos > p.low {
			return e, true, nil
		}
	}
	return zero, false, nil
}
