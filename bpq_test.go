package spatial

import (
	"errors"
	"math/rand"
	"sort"
	"testing"
)

// --- Construction tests ---

func TestBPQ_New_InvalidCapacity(t *testing.T) {
	for _, c := range []int{0, -1, -100} {
		q, err := NewBoundedPriorityQueue[string](c)
		if !errors.Is(err, ErrInvalidCapacity) {
			t.Errorf("NewBoundedPriorityQueue(%d) err = %v, want ErrInvalidCapacity", c, err)
		}
		if q != nil {
			t.Errorf("NewBoundedPriorityQueue(%d) returned non-nil queue", c)
		}
	}
}

func TestBPQ_Empty(t *testing.T) {
	q := newQueue[string](t, 3)

	if _, ok := q.Dequeue(); ok {
		t.Error("Dequeue() on empty queue returned a value")
	}
	if _, ok := q.First(); ok {
		t.Error("First() on empty queue returned a value")
	}
	if _, ok := q.Last(); ok {
		t.Error("Last() on empty queue returned a value")
	}
	if _, ok := q.LastPriority(); ok {
		t.Error("LastPriority() on empty queue returned a value")
	}
	if !q.IsEmpty() || q.Size() != 0 || q.Full() {
		t.Errorf("empty queue: IsEmpty=%v Size=%d Full=%v", q.IsEmpty(), q.Size(), q.Full())
	}
	if q.Cap() != 3 {
		t.Errorf("Cap() = %d, want 3", q.Cap())
	}
}

// --- Ordering tests ---

func TestBPQ_Enqueue_SortsByPriority(t *testing.T) {
	q := newQueue[string](t, 10)
	q.Enqueue("c", 3)
	q.Enqueue("a", 1)
	q.Enqueue("d", 4)
	q.Enqueue("b", 2)

	got := q.Elements()
	want := []string{"a", "b", "c", "d"}
	assertStrings(t, got, want)

	if f, _ := q.First(); f != "a" {
		t.Errorf("First() = %q, want a", f)
	}
	if l, _ := q.Last(); l != "d" {
		t.Errorf("Last() = %q, want d", l)
	}
	if p, _ := q.LastPriority(); p != 4 {
		t.Errorf("LastPriority() = %v, want 4", p)
	}
}

func TestBPQ_Enqueue_TiesKeepInsertionOrder(t *testing.T) {
	q := newQueue[string](t, 10)
	q.Enqueue("x1", 1)
	q.Enqueue("y", 0.5)
	q.Enqueue("x2", 1)
	q.Enqueue("x3", 1)
	q.Enqueue("z", 2)

	assertStrings(t, q.Elements(), []string{"y", "x1", "x2", "x3", "z"})
}

func TestBPQ_Enqueue_EvictsMaximum(t *testing.T) {
	q := newQueue[string](t, 3)
	q.Enqueue("a", 1)
	q.Enqueue("b", 2)
	q.Enqueue("c", 3)
	if !q.Full() {
		t.Fatal("queue should be full after 3 enqueues")
	}

	q.Enqueue("d", 0.5)
	assertStrings(t, q.Elements(), []string{"d", "a", "b"})

	// Higher than everything kept: a no-op.
	q.Enqueue("e", 99)
	assertStrings(t, q.Elements(), []string{"d", "a", "b"})

	// Equal to the current worst: lands after it and is evicted.
	q.Enqueue("f", 2)
	assertStrings(t, q.Elements(), []string{"d", "a", "b"})
}

func TestBPQ_KeepsCapacitySmallest(t *testing.T) {
	const capacity = 5
	q := newQueue[int](t, capacity)
	for i := 0; i <= capacity; i++ {
		q.Enqueue(i, float64(i))
	}
	if q.Size() != capacity {
		t.Fatalf("Size() = %d, want %d", q.Size(), capacity)
	}
	for i, v := range q.Elements() {
		if v != i {
			t.Errorf("Elements()[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestBPQ_Dequeue(t *testing.T) {
	q := newQueue[string](t, 4)
	q.Enqueue("b", 2)
	q.Enqueue("a", 1)

	for _, want := range []string{"a", "b"} {
		got, ok := q.Dequeue()
		if !ok || got != want {
			t.Errorf("Dequeue() = (%q, %v), want (%q, true)", got, ok, want)
		}
	}
	if _, ok := q.Dequeue(); ok {
		t.Error("Dequeue() on drained queue returned a value")
	}
}

func TestBPQ_ContainsFunc(t *testing.T) {
	q := newQueue[Point](t, 2)
	q.Enqueue(NewPoint(1, 1), 1)
	q.Enqueue(NewPoint(2, 2), 2)

	if !q.ContainsFunc(NewPoint(2, 2).Equal) {
		t.Error("ContainsFunc((2, 2)) = false, want true")
	}
	if q.ContainsFunc(NewPoint(3, 3).Equal) {
		t.Error("ContainsFunc((3, 3)) = true, want false")
	}

	// An element evicted by overflow is no longer a member.
	q.Enqueue(NewPoint(0, 0), 0)
	if q.ContainsFunc(NewPoint(2, 2).Equal) {
		t.Error("ContainsFunc((2, 2)) after eviction = true, want false")
	}
	if !q.ContainsFunc(NewPoint(0, 0).Equal) {
		t.Error("ContainsFunc((0, 0)) = false, want true")
	}
}

// --- Property tests ---

func TestBPQ_RandomEnqueues(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		capacity := 1 + rng.Intn(8)
		q := newQueue[int](t, capacity)
		var all []float64
		for i := 0; i < 40; i++ {
			p := float64(rng.Intn(20))
			all = append(all, p)
			q.Enqueue(i, p)

			if q.Size() > capacity {
				t.Fatalf("trial %d: Size() = %d exceeds capacity %d", trial, q.Size(), capacity)
			}
			last, _ := q.LastPriority()
			it := q.Iterator()
			prev := -1.0
			for it.Next() {
				if it.Priority() > last {
					t.Fatalf("trial %d: priority %v exceeds LastPriority %v", trial, it.Priority(), last)
				}
				if it.Priority() < prev {
					t.Fatalf("trial %d: priorities out of order", trial)
				}
				prev = it.Priority()
			}
		}

		sort.Float64s(all)
		it := q.Iterator()
		for i := 0; it.Next(); i++ {
			if it.Priority() != all[i] {
				t.Errorf("trial %d: kept priority[%d] = %v, want %v", trial, i, it.Priority(), all[i])
			}
		}
	}
}

// --- Iterator tests ---

func TestBPQ_Iterator(t *testing.T) {
	q := newQueue[string](t, 3)
	q.Enqueue("b", 2)
	q.Enqueue("a", 1)
	q.Enqueue("c", 3)

	var got []string
	it := q.Iterator()
	for it.Next() {
		got = append(got, it.Value())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	assertStrings(t, got, []string{"a", "b", "c"})

	// One pass only.
	if it.Next() {
		t.Error("Next() after exhaustion returned true")
	}
}

func TestBPQ_Iterator_ConcurrentModification(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(q *BoundedPriorityQueue[string])
	}{
		{"enqueue", func(q *BoundedPriorityQueue[string]) { q.Enqueue("z", 0) }},
		{"dequeue", func(q *BoundedPriorityQueue[string]) { q.Dequeue() }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			q := newQueue[string](t, 3)
			q.Enqueue("a", 1)
			q.Enqueue("b", 2)

			it := q.Iterator()
			if !it.Next() {
				t.Fatal("Next() = false on non-empty queue")
			}
			tc.mutate(q)
			if it.Next() {
				t.Error("Next() after mutation returned true")
			}
			if !errors.Is(it.Err(), ErrConcurrentModification) {
				t.Errorf("Err() = %v, want ErrConcurrentModification", it.Err())
			}
		})
	}
}

func TestBPQ_Iterator_PeeksDoNotInvalidate(t *testing.T) {
	q := newQueue[string](t, 3)
	q.Enqueue("a", 1)
	q.Enqueue("b", 2)

	it := q.Iterator()
	it.Next()
	q.First()
	q.Last()
	q.Elements()
	if !it.Next() || it.Value() != "b" {
		t.Error("iterator invalidated by read-only calls")
	}
	if it.Err() != nil {
		t.Errorf("Err() = %v, want nil", it.Err())
	}
}

func newQueue[T any](t *testing.T, capacity int) *BoundedPriorityQueue[T] {
	t.Helper()
	q, err := NewBoundedPriorityQueue[T](capacity)
	if err != nil {
		t.Fatalf("NewBoundedPriorityQueue(%d): %v", capacity, err)
	}
	return q
}

func assertStrings(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
