package spatial

import "errors"

var (
	// ErrInvalidCapacity is returned when a bounded queue (or a kNN query)
	// is given a non-positive capacity.
	ErrInvalidCapacity = errors.New("spatial: capacity must be positive")

	// ErrOutOfBounds is returned when a point is routed into a quadtree
	// quadrant that does not contain it, which includes inserting or
	// deleting a point outside the tree's universe.
	ErrOutOfBounds = errors.New("spatial: point outside quadrant bounds")

	// ErrConcurrentModification is reported by a BoundedPriorityQueue
	// iterator when the queue was mutated after the iterator was created.
	ErrConcurrentModification = errors.New("spatial: queue modified during iteration")

	// ErrDimensionMismatch is returned when a point's dimensionality does not
	// match the index it is used with.
	ErrDimensionMismatch = errors.New("spatial: dimension mismatch")

	// ErrInvalidConfig is returned by the index constructors for invalid
	// configuration values.
	ErrInvalidConfig = errors.New("spatial: invalid config")
)
