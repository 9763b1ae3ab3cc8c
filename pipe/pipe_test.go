package pipe

import (
	"errors"
	"fmt"
	"testing"

	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

func ints(t *testing.T, it storage.Iterator[int]) []int {
	out, err := Collect(it)
	if err != nil {
		t.Fatalf("Error collecting: %v\n", err)
	}
	return out
}

func TestPeekable(t *testing.T) {
	var calls int
	p := NewPeekable(func() (int, bool, error) {
		calls++
		return calls, calls <= 2, nil
	})
	for i := 0; i < 3; i++ {
		if !p.HasNext() {
			t.Fatalf("Expected an element\n")
		}
	}
	if calls != 1 {
		t.Errorf("HasNext advanced the sequence: %d calls\n", calls)
	}
	if v, _ := p.Next(); v != 1 {
		t.Errorf("Expected 1, got %d\n", v)
	}
	if v, _ := p.Next(); v != 2 {
		t.Errorf("Expected 2, got %d\n", v)
	}
	if p.HasNext() {
		t.Errorf("Expected exhaustion\n")
	}
	if _, err := p.Next(); !errors.Is(err, pgraph.ErrNoSuchElement) {
		t.Errorf("Expected ErrNoSuchElement, got %v\n", err)
	}
}

func TestPeekableError(t *testing.T) {
	boom := errors.New("boom")
	p := NewPeekable(func() (int, bool, error) {
		return 0, false, boom
	})
	if !p.HasNext() {
		t.Fatalf("Expected HasNext to report a pending error\n")
	}
	if _, err := p.Next(); !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v\n", err)
	}
}

func TestFilters(t *testing.T) {
	even := Where(func(i int) bool { return i%2 == 0 })
	even.SetSource(FromSlice(1, 2, 3, 4, 5, 6))
	if got := ints(t, even); fmt.Sprint(got) != "[2 4 6]" {
		t.Errorf("Expected [2 4 6], got %v\n", got)
	}

	notThree := ObjectFilter(3, NotEqual)
	notThree.SetSource(FromSlice(1, 3, 5, 3))
	if got := ints(t, notThree); fmt.Sprint(got) != "[1 5]" {
		t.Errorf("Expected [1 5], got %v\n", got)
	}

	dedup := Dedup[int]()
	dedup.SetSource(FromSlice(1, 2, 1, 3, 2))
	if got := ints(t, dedup); fmt.Sprint(got) != "[1 2 3]" {
		t.Errorf("Expected [1 2 3], got %v\n", got)
	}

	r := Range[int](1, 3)
	r.SetSource(FromSlice(10, 11, 12, 13))
	if got := ints(t, r); fmt.Sprint(got) != "[11 12]" {
		t.Errorf("Expected [11 12], got %v\n", got)
	}
	open := Range[int](2, -1)
	open.SetSource(FromSlice(10, 11, 12, 13))
	if got := ints(t, open); fmt.Sprint(got) != "[12 13]" {
		t.Errorf("Expected [12 13], got %v\n", got)
	}
}

func TestRangeStopsPulling(t *testing.T) {
	counter := Count[int]()
	counter.SetSource(FromSlice(1, 2, 3, 4, 5))
	r := Range[int](0, 2)
	r.SetSource(counter)
	ints(t, r)
	if n := counter.SideEffect(); n != 2 {
		t.Errorf("Expected range to pull 2 elements, pulled %d\n", n)
	}
}

func TestTransformAndExpand(t *testing.T) {
	double := Transform(func(i int) (int, error) { return 2 * i, nil })
	double.SetSource(FromSlice(1, 2, 3))
	if got := ints(t, double); fmt.Sprint(got) != "[2 4 6]" {
		t.Errorf("Expected [2 4 6], got %v\n", got)
	}

	repeat := Expand(func(i int) (storage.Iterator[int], error) {
		items := make([]int, i)
		for j := range items {
			items[j] = i
		}
		return FromSlice(items...), nil
	})
	repeat.SetSource(FromSlice(2, 0, 3))
	if got := ints(t, repeat); fmt.Sprint(got) != "[2 2 3 3 3]" {
		t.Errorf("Expected [2 2 3 3 3], got %v\n", got)
	}

	boom := errors.New("boom")
	failing := Transform(func(i int) (int, error) { return 0, boom })
	failing.SetSource(FromSlice(1))
	if _, err := Collect[int](failing); !errors.Is(err, boom) {
		t.Errorf("Expected transform error, got %v\n", err)
	}
}

func TestOrderedMerge(t *testing.T) {
	merged := Concat(FromSlice(1, 2, 3), Empty[int](), FromSlice(4, 5))
	if got := ints(t, merged); fmt.Sprint(got) != "[1 2 3 4 5]" {
		t.Errorf("Expected [1 2 3 4 5], got %v\n", got)
	}
	fair := Interleave(FromSlice(1, 2, 3), Empty[int](), FromSlice(4, 5))
	if got := ints(t, fair); fmt.Sprint(got) != "[1 4 2 5 3]" {
		t.Errorf("Expected [1 4 2 5 3], got %v\n", got)
	}
}

func TestAggregateAndExcept(t *testing.T) {
	counter := Count[int]()
	counter.SetSource(FromSlice(3, 1, 3, 2))
	agg := Aggregate[int](NewSet[int]())
	agg.SetSource(counter)

	if counter.SideEffect() != 0 {
		t.Errorf("Counter moved before any pull\n")
	}
	if !agg.HasNext() {
		t.Fatalf("Expected aggregated output\n")
	}
	if n := counter.SideEffect(); n != 4 {
		t.Errorf("Expected aggregate to drain 4 elements on first pull, got %d\n", n)
	}
	if got := ints(t, agg); fmt.Sprint(got) != "[3 1 2]" {
		t.Errorf("Expected set order [3 1 2], got %v\n", got)
	}
	seen := agg.SideEffect()
	if seen.Len() != 3 {
		t.Errorf("Expected 3 aggregated elements, got %d\n", seen.Len())
	}

	except := ExceptFilter(seen)
	except.SetSource(FromSlice(1, 4, 2, 5))
	if got := ints(t, except); fmt.Sprint(got) != "[4 5]" {
		t.Errorf("Expected [4 5], got %v\n", got)
	}
	retain := RetainFilter[int](seen)
	retain.SetSource(FromSlice(1, 4, 2, 5))
	if got := ints(t, retain); fmt.Sprint(got) != "[1 2]" {
		t.Errorf("Expected [1 2], got %v\n", got)
	}

	list := Aggregate[int](NewList[int]())
	list.SetSource(FromSlice(3, 1, 3))
	if got := ints(t, list); fmt.Sprint(got) != "[3 1 3]" {
		t.Errorf("Expected list order [3 1 3], got %v\n", got)
	}
}

func TestCountReflectsPulls(t *testing.T) {
	counter := Count[int]()
	counter.SetSource(FromSlice(1, 2, 3))
	counter.HasNext()
	if n := counter.SideEffect(); n != 0 {
		t.Errorf("HasNext counted an element: %d\n", n)
	}
	counter.Next()
	counter.Next()
	if n := counter.SideEffect(); n != 2 {
		t.Errorf("Expected 2 pulled, got %d\n", n)
	}
}

func TestCopySplit(t *testing.T) {
	counter := Count[int]()
	counter.SetSource(FromSlice(1, 2, 3))
	split := NewCopySplit[int](2)
	split.SetSource(counter)

	a, b := split.Branch(0), split.Branch(1)
	first, _ := a.Next()
	second, _ := a.Next()
	if first != 1 || second != 2 {
		t.Errorf("Unexpected branch a elements %d %d\n", first, second)
	}
	if n := counter.SideEffect(); n != 2 {
		t.Errorf("Split pulled ahead of demand: %d\n", n)
	}
	if got := ints(t, b); fmt.Sprint(got) != "[1 2 3]" {
		t.Errorf("Lagging branch expected [1 2 3], got %v\n", got)
	}
	if got := ints(t, a); fmt.Sprint(got) != "[3]" {
		t.Errorf("Branch a expected [3], got %v\n", got)
	}
	if split.NumBranches() != 2 {
		t.Errorf("Expected 2 branches\n")
	}
}

func TestNoSource(t *testing.T) {
	f := Where(func(i int) bool { return true })
	if f.HasNext() {
		t.Errorf("Pipe without source has elements\n")
	}
	if _, err := f.Next(); !errors.Is(err, pgraph.ErrNoSuchElement) {
		t.Errorf("Expected ErrNoSuchElement, got %v\n", err)
	}
}
