package spatial

import "fmt"

// BoundedPriorityQueue is a priority queue holding at most Cap elements,
// ordered by ascending priority. Elements with equal priority keep their
// insertion order.
//
// Enqueueing into a full queue evicts the maximum-priority element, which
// may be the element just enqueued. The queue is backed by a sorted slice
// rather than a heap so that Last, the worst kept candidate, is O(1); kNN
// pruning reads it on every step. Enqueue and Dequeue are O(n).
type BoundedPriorityQueue[T any] struct {
	entries  []pqEntry[T]
	capacity int
	order    int // next insertion sequence number
	mods     int // structural modification counter, checked by iterators
}

type pqEntry[T any] struct {
	element  T
	priority float64
	order    int
}

// NewBoundedPriorityQueue returns an empty queue bounded to capacity
// elements. capacity must be positive.
func NewBoundedPriorityQueue[T any](capacity int) (*BoundedPriorityQueue[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &BoundedPriorityQueue[T]{
		entries:  make([]pqEntry[T], 0, min(capacity, 64)+1),
		capacity: capacity,
	}, nil
}

// Enqueue inserts element with the given priority. The element is placed
// before the first entry with a strictly greater priority, then the tail is
// dropped if the queue exceeds its capacity.
func (q *BoundedPriorityQueue[T]) Enqueue(element T, priority float64) {
	e := pqEntry[T]{element: element, priority: priority, order: q.order}
	q.order++
	q.mods++

	i := len(q.entries)
	for j := range q.entries {
		if q.entries[j].priority > priority {
			i = j
			break
		}
	}
	q.entries = append(q.entries, pqEntry[T]{})
	copy(q.entries[i+1:], q.entries[i:])
	q.entries[i] = e

	if len(q.entries) > q.capacity {
		q.entries[len(q.entries)-1] = pqEntry[T]{}
		q.entries = q.entries[:q.capacity]
	}
}

// Dequeue removes and returns the minimum-priority element. ok is false if
// the queue is empty.
func (q *BoundedPriorityQueue[T]) Dequeue() (element T, ok bool) {
	if len(q.entries) == 0 {
		return element, false
	}
	q.mods++
	element = q.entries[0].element
	copy(q.entries, q.entries[1:])
	q.entries[len(q.entries)-1] = pqEntry[T]{}
	q.entries = q.entries[:len(q.entries)-1]
	return element, true
}

// First returns the minimum-priority element without removing it.
func (q *BoundedPriorityQueue[T]) First() (element T, ok bool) {
	if len(q.entries) == 0 {
		return element, false
	}
	return q.entries[0].element, true
}

// Last returns the maximum-priority element without removing it.
func (q *BoundedPriorityQueue[T]) Last() (element T, ok bool) {
	if len(q.entries) == 0 {
		return element, false
	}
	return q.entries[len(q.entries)-1].element, true
}

// LastPriority returns the priority of the element Last would return.
func (q *BoundedPriorityQueue[T]) LastPriority() (float64, bool) {
	if len(q.entries) == 0 {
		return 0, false
	}
	return q.entries[len(q.entries)-1].priority, true
}

// ContainsFunc is the queue's membership test: it reports whether any
// queued element satisfies match. Elements are of arbitrary type T, so the
// caller supplies the equality, e.g. q.ContainsFunc(p.Equal).
func (q *BoundedPriorityQueue[T]) ContainsFunc(match func(T) bool) bool {
	for _, e := range q.entries {
		if match(e.element) {
			return true
		}
	}
	return false
}

// Size returns the number of queued elements.
func (q *BoundedPriorityQueue[T]) Size() int { return len(q.entries) }

// Cap returns the queue's capacity.
func (q *BoundedPriorityQueue[T]) Cap() int { return q.capacity }

// IsEmpty reports whether the queue holds no elements.
func (q *BoundedPriorityQueue[T]) IsEmpty() bool { return len(q.entries) == 0 }

// Full reports whether the queue holds Cap elements.
func (q *BoundedPriorityQueue[T]) Full() bool { return len(q.entries) == q.capacity }

// Elements returns the queued elements in priority order. The slice is a
// snapshot; the queue is not modified.
func (q *BoundedPriorityQueue[T]) Elements() []T {
	out := make([]T, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.element
	}
	return out
}

// Iterator returns a forward, one-pass iterator over the queue in priority
// order. The queue must not be mutated while the iterator is in use; if it
// is, the iterator stops and Err reports ErrConcurrentModification.
func (q *BoundedPriorityQueue[T]) Iterator() *Iterator[T] {
	return &Iterator[T]{q: q, idx: -1, mods: q.mods}
}

// Iterator walks a BoundedPriorityQueue. Use it like bufio.Scanner:
//
//	it := q.Iterator()
//	for it.Next() {
//		use(it.Value())
//	}
//	if err := it.Err(); err != nil { ... }
type Iterator[T any] struct {
	q    *BoundedPriorityQueue[T]
	idx  int
	mods int
	err  error
}

// Next advances to the next element. It returns false when the queue is
// exhausted or the iterator has been invalidated.
func (it *Iterator[T]) Next() bool {
	if it.err != nil {
		return false
	}
	if it.mods != it.q.mods {
		it.err = ErrConcurrentModification
		return false
	}
	if it.idx+1 >= len(it.q.entries) {
		it.idx = len(it.q.entries)
		return false
	}
	it.idx++
	return true
}

// Value returns the current element. It must only be called after Next
// returned true.
func (it *Iterator[T]) Value() T { return it.q.entries[it.idx].element }

// Priority returns the current element's priority.
func (it *Iterator[T]) Priority() float64 { return it.q.entries[it.idx].priority }

// Err returns ErrConcurrentModification if the queue changed underneath
// the iterator, nil otherwise.
func (it *Iterator[T]) Err() error { return it.err }
