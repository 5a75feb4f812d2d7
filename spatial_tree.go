package spatial

import "fmt"

// Index is the query contract shared by KDTree, PRQuadTree and BruteForce.
//
// Query results never include a stored point equal to the anchor, so a
// point's own nearest neighbor is some other point. Returned points are
// copies; mutating them does not affect the index.
type Index interface {
	// Insert stores a copy of p. Duplicates are stored again.
	Insert(p Point) error

	// Delete removes one stored point equal to p. Deleting a point that is
	// not stored is a no-op and returns nil.
	Delete(p Point) error

	// Search reports whether a point equal to p is stored.
	Search(p Point) bool

	// Range returns every stored point within radius of anchor, inclusive.
	Range(anchor Point, radius float64) ([]Point, error)

	// NearestNeighbor returns the closest stored point to anchor. ok is false
	// when no candidate exists.
	NearestNeighbor(anchor Point) (nn Neighbor, ok bool, err error)

	// KNearestNeighbors returns up to k stored points closest to anchor,
	// ordered by ascending distance. Ties keep discovery order.
	KNearestNeighbors(k int, anchor Point) ([]Neighbor, error)

	// Height returns the height of the underlying tree; -1 when empty.
	Height() int

	// Count returns the number of stored points.
	Count() int

	// Dims returns the dimensionality of the index.
	Dims() int

	// Points returns copies of all stored points in traversal order.
	Points() []Point
}

var (
	_ Index = (*KDTree)(nil)
	_ Index = (*PRQuadTree)(nil)
	_ Index = (*BruteForce)(nil)
)

// checkDims returns ErrDimensionMismatch if p does not have dims coordinates.
func checkDims(p Point, dims int) error {
	if len(p) != dims {
		return fmt.Errorf("%w: point %v has %d dims, index has %d", ErrDimensionMismatch, p, len(p), dims)
	}
	return nil
}

// neighborsFromQueue drains a kNN queue into a distance-ordered slice,
// cloning each point.
func neighborsFromQueue(q *BoundedPriorityQueue[Point]) []Neighbor {
	out := make([]Neighbor, 0, q.Size())
	it := q.Iterator()
	for it.Next() {
		out = append(out, Neighbor{Point: it.Value().Clone(), Distance: it.Priority()})
	}
	return out
}
