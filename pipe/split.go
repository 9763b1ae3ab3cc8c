package pipe

import (
	"sync"

	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

// CopySplit fans one input out to a fixed number of branches.  Every element is
// copied into the queue of every branch.  Upstream is pulled only when a branch
// with an empty queue asks for more, so a branch that lags behind holds the
// elements the others have already consumed.  Branches may be drained from
// different goroutines.
type CopySplit[E any] struct {
	mu       sync.Mutex
	src      storage.Iterator[E]
	queues   [][]E
	err      error
	branches []*splitBranch[E]
}

// NewCopySplit returns a split with n branches.
func NewCopySplit[E any](n int) *CopySplit[E] {
	s := &CopySplit[E]{queues: make([][]E, n)}
	for i := 0; i < n; i++ {
		s.branches = append(s.branches, &splitBranch[E]{split: s, n: i})
	}
	return s
}

// SetSource replaces the input and empties every branch queue.
func (s *CopySplit[E]) SetSource(src storage.Iterator[E]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src = src
	s.err = nil
	for i := range s.queues {
		s.queues[i] = nil
	}
}

// Branch returns the i-th output.
func (s *CopySplit[E]) Branch(i int) storage.Iterator[E] {
	return s.branches[i]
}

// NumBranches returns the number of outputs.
func (s *CopySplit[E]) NumBranches() int {
	return len(s.branches)
}

// fill pulls one upstream element into every queue if branch i has none.
// An upstream error is delivered once, to the branch that triggered the pull.
func (s *CopySplit[E]) fill(i int) (bool, error) {
	if len(s.queues[i]) > 0 {
		return true, nil
	}
	e, ok, err := pull(s.src)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	for j := range s.queues {
		s.queues[j] = append(s.queues[j], e)
	}
	return true, nil
}

type splitBranch[E any] struct {
	split *CopySplit[E]
	n     int
	err   error
}

func (b *splitBranch[E]) HasNext() bool {
	if b.err != nil {
		return true
	}
	s := b.split
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, err := s.fill(b.n)
	if err != nil {
		b.err = err
		return true
	}
	return ok
}

func (b *splitBranch[E]) Next() (E, error) {
	var zero E
	if !b.HasNext() {
		return zero, pgraph.ErrNoSuchElement
	}
	if err := b.err; err != nil {
		b.err = nil
		return zero, err
	}
	s := b.split
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queues[b.n]
	e := q[0]
	q[0] = zero
	s.queues[b.n] = q[1:]
	return e, nil
}
