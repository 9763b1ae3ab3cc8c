package pipe

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/janelia-flyem/pgraph/storage"
)

type result[E any] struct {
	e   E
	err error
}

// ThreadedPipe runs a pipe on its own goroutine, which works ahead of the
// consumer by up to the buffer size.  The goroutine starts on the first pull and
// stops when the wrapped pipe is exhausted, its context is cancelled or Close is
// called.  SetSource and Close wait for the goroutine to return, so a goroutine
// blocked inside the wrapped pipe's source delays them until the source answers.
type ThreadedPipe[S, E any] struct {
	parent context.Context
	p      Pipe[S, E]
	buffer int

	peek   Peekable[E]
	closed atomic.Bool
	run    *threadedRun[E]
	done   bool
}

// threadedRun is one start of the goroutine.  results is closed when it returns.
type threadedRun[E any] struct {
	ctx     context.Context
	cancel  context.CancelFunc
	results chan result[E]
}

// Threaded wraps p.  A buffer below one is treated as one.
func Threaded[S, E any](ctx context.Context, p Pipe[S, E], buffer int) *ThreadedPipe[S, E] {
	if buffer < 1 {
		buffer = 1
	}
	t := &ThreadedPipe[S, E]{parent: ctx, p: p, buffer: buffer}
	t.peek.step = t.step
	return t
}

// SetSource stops any running goroutine and rewires the wrapped pipe.
func (t *ThreadedPipe[S, E]) SetSource(src storage.Iterator[S]) {
	t.stop()
	t.p.SetSource(src)
	t.done = false
	t.closed.Store(false)
	t.peek.reset()
}

func (t *ThreadedPipe[S, E]) HasNext() bool {
	return t.peek.HasNext()
}

func (t *ThreadedPipe[S, E]) Next() (E, error) {
	return t.peek.Next()
}

// Close stops the goroutine.  Elements it already produced are discarded.
func (t *ThreadedPipe[S, E]) Close() error {
	t.closed.Store(true)
	t.stop()
	return nil
}

// stop cancels the running goroutine and waits until it has returned.
func (t *ThreadedPipe[S, E]) stop() {
	if t.run == nil {
		return
	}
	t.run.cancel()
	for range t.run.results {
	}
	t.run = nil
}

func (t *ThreadedPipe[S, E]) start() {
	ctx, cancel := context.WithCancel(t.parent)
	run := &threadedRun[E]{ctx: ctx, cancel: cancel, results: make(chan result[E], t.buffer)}
	t.run = run
	results, p := run.results, t.p
	go func() {
		defer close(results)
		for ctx.Err() == nil {
			e, ok, err := pull[E](p)
			if !ok && err == nil {
				return
			}
			select {
			case results <- result[E]{e, err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
}

func (t *ThreadedPipe[S, E]) step() (E, bool, error) {
	var zero E
	if t.done || t.closed.Load() {
		return zero, false, nil
	}
	if t.run == nil {
		t.start()
	}
	select {
	case r, ok := <-t.run.results:
		if ok {
			return r.e, r.err == nil, r.err
		}
	case <-t.run.ctx.Done():
	}
	t.done = true
	if t.closed.Load() {
		return zero, false, nil
	}
	return zero, false, t.parent.Err()
}

// Mode selects how a parallel pipe feeds its workers.
type Mode uint8

const (
	// Partition gives each source element to exactly one worker.
	Partition Mode = iota

	// Copy gives every source element to every worker through a CopySplit.
	Copy
)

// ParallelPipe runs several copies of a pipe on their own goroutines and emits
// their results as they become available.  Order across workers is unspecified
// but each worker's results keep their relative order.  The output ends once
// every worker is done and every result has been consumed.
type ParallelPipe[S, E any] struct {
	parent context.Context
	mode   Mode
	pipes  []Pipe[S, E]
	src    storage.Iterator[S]

	peek   Peekable[E]
	closed atomic.Bool
	run    *parallelRun[E]
}

// parallelRun is one start of the workers.  results is closed once every
// worker has returned.
type parallelRun[E any] struct {
	cancel  context.CancelFunc
	results chan E
	err     error // set before results is closed
}

// Parallel creates n workers, each running a pipe returned by newPipe.
func Parallel[S, E any](ctx context.Context, mode Mode, n int, newPipe func() Pipe[S, E]) *ParallelPipe[S, E] {
	if n < 1 {
		n = 1
	}
	p := &ParallelPipe[S, E]{parent: ctx, mode: mode}
	for i := 0; i < n; i++ {
		p.pipes = append(p.pipes, newPipe())
	}
	p.peek.step = p.step
	return p
}

// SetSource stops any running workers and sets the shared input.
func (p *ParallelPipe[S, E]) SetSource(src storage.Iterator[S]) {
	p.stop()
	p.src = src
	p.closed.Store(false)
	p.peek.reset()
}

func (p *ParallelPipe[S, E]) HasNext() bool {
	return p.peek.HasNext()
}

func (p *ParallelPipe[S, E]) Next() (E, error) {
	return p.peek.Next()
}

// Workers returns the number of workers.
func (p *ParallelPipe[S, E]) Workers() int {
	return len(p.pipes)
}

// Close cancels the workers and waits for them to return.  Results not yet
// consumed are discarded.
func (p *ParallelPipe[S, E]) Close() error {
	p.closed.Store(true)
	p.stop()
	return nil
}

// stop cancels the running workers and waits until all of them have returned.
func (p *ParallelPipe[S, E]) stop() {
	if p.run == nil {
		return
	}
	p.run.cancel()
	for range p.run.results {
	}
	p.run = nil
}

func (p *ParallelPipe[S, E]) sources() []storage.Iterator[S] {
	sources := make([]storage.Iterator[S], len(p.pipes))
	switch p.mode {
	case Copy:
		split := NewCopySplit[S](len(p.pipes))
		split.SetSource(p.src)
		for i := range sources {
			sources[i] = split.Branch(i)
		}
	default:
		shared := &lockedSource[S]{src: p.src}
		for i := range sources {
			sources[i] = &partition[S]{shared: shared}
		}
	}
	return sources
}

func (p *ParallelPipe[S, E]) start() {
	ctx, cancel := context.WithCancel(p.parent)
	grp, gctx := errgroup.WithContext(ctx)
	run := &parallelRun[E]{cancel: cancel, results: make(chan E, len(p.pipes))}
	p.run = run
	results := run.results

	sources := p.sources()
	for i, worker := range p.pipes {
		worker := worker
		worker.SetSource(sources[i])
		grp.Go(func() error {
			for gctx.Err() == nil {
				e, ok, err := pull[E](worker)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				select {
				case results <- e:
				case <-gctx.Done():
					return nil
				}
			}
			return nil
		})
	}
	parent, closed := p.parent, &p.closed
	go func() {
		err := grp.Wait()
		if err == nil && !closed.Load() {
			err = parent.Err()
		}
		run.err = err
		close(results)
	}()
}

func (p *ParallelPipe[S, E]) step() (E, bool, error) {
	var zero E
	if p.closed.Load() {
		return zero, false, nil
	}
	if p.run == nil {
		p.start()
	}
	if e, ok := <-p.run.results; ok {
		return e, true, nil
	}
	err := p.run.err
	p.run.err = nil
	return zero, false, err
}

// lockedSource makes "check and take the next element" one atomic step for
// workers sharing a source.
type lockedSource[S any] struct {
	mu  sync.Mutex
	src storage.Iterator[S]
}

func (l *lockedSource[S]) take() (S, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return pull(l.src)
}

// partition is one worker's view of a locked source.
type partition[S any] struct {
	shared *lockedSource[S]
	peek   Peekable[S]
}

func (w *partition[S]) HasNext() bool {
	if w.peek.step == nil {
		w.peek.step = w.shared.take
	}
	return w.peek.HasNext()
}

func (w *partition[S]) Next() (S, error) {
	if w.peek.step == nil {
		w.peek.step = w.shared.take
	}
	return w.peek.Next()
}
