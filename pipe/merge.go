package pipe

import (
	"github.com/janelia-flyem/pgraph/storage"
)

// OrderedMerge reads a sequence of sequences and concatenates them, exhausting
// each inner sequence before moving to the next.  Source order is preserved;
// elements are not sorted.
func OrderedMerge[E any]() *ExpandPipe[storage.Iterator[E], E] {
	return Expand(func(it storage.Iterator[E]) (storage.Iterator[E], error) {
		return it, nil
	})
}

// Concat returns the concatenation of the given iterators.
func Concat[E any](its ...storage.Iterator[E]) storage.Iterator[E] {
	p := OrderedMerge[E]()
	p.SetSource(FromSlice(its...))
	return p
}

// FairMergePipe reads a sequence of sequences and interleaves them round robin,
// dropping each inner sequence once it is exhausted.  Inner sequences are all
// taken from the source on the first pull.
type FairMergePipe[E any] struct {
	stage[storage.Iterator[E], E]
	active []storage.Iterator[E]
	pos    int
	loaded bool
}

// FairMerge returns a round-robin merge.
func FairMerge[E any]() *FairMergePipe[E] {
	p := new(FairMergePipe[E])
	p.init(p.step)
	return p
}

func (p *FairMergePipe[E]) SetSource(src storage.Iterator[storage.Iterator[E]]) {
	p.stage.SetSource(src)
	p.active, p.pos, p.loaded = nil, 0, false
}

func (p *FairMergePipe[E]) step() (E, bool, error) {
	var zero E
	if !p.loaded {
		its, err := Collect(p.src)
		if err != nil {
			return zero, false, err
		}
		p.active = its
		p.loaded = true
	}
	for len(p.active) > 0 {
		if p.pos >= len(p.active) {
			p.pos = 0
		}
		e, ok, err := pull(p.active[p.pos])
		if err != nil {
			return zero, false, err
		}
		if !ok {
			p.active = append(p.active[:p.pos], p.active[p.pos+1:]...)
			continue
		}
		p.pos++
		return e, true, nil
	}
	return zero, false, nil
}

// Interleave returns the round-robin merge of the given iterators.
func Interleave[E any](its ...storage.Iterator[E]) storage.Iterator[E] {
	p := FairMerge[E]()
	p.SetSource(FromSlice(its...))
	return p
}
