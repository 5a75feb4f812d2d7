package spatial

import "fmt"

// BruteForce is a flat, unindexed point set that answers every query with a
// linear scan. It honors the same contract as KDTree and PRQuadTree and is
// useful as a reference when checking their answers.
type BruteForce struct {
	pts  []Point
	dims int
}

// NewBruteForce returns an empty BruteForce index for points of the given
// dimensionality.
func NewBruteForce(dims int) (*BruteForce, error) {
	if dims < 1 {
		return nil, fmt.Errorf("%w: dims must be >= 1, got %d", ErrInvalidConfig, dims)
	}
	return &BruteForce{dims: dims}, nil
}

// Insert appends a copy of p.
func (b *BruteForce) Insert(p Point) error {
	if err := checkDims(p, b.dims); err != nil {
		return err
	}
	b.pts = append(b.pts, p.Clone())
	return nil
}

// Delete removes the earliest inserted point equal to p.
func (b *BruteForce) Delete(p Point) error {
	if err := checkDims(p, b.dims); err != nil {
		return err
	}
	for i, q := range b.pts {
		if q.Equal(p) {
			b.pts = append(b.pts[:i], b.pts[i+1:]...)
			return nil
		}
	}
	return nil
}

// Search reports whether a point equal to p is stored.
func (b *BruteForce) Search(p Point) bool {
	for _, q := range b.pts {
		if q.Equal(p) {
			return true
		}
	}
	return false
}

// Range returns the stored points within radius of anchor in insertion
// order, excluding points equal to anchor.
func (b *BruteForce) Range(anchor Point, radius float64) ([]Point, error) {
	if err := checkDims(anchor, b.dims); err != nil {
		return nil, err
	}
	var out []Point
	for _, q := range b.pts {
		if !q.Equal(anchor) && q.Distance(anchor) <= radius {
			out = append(out, q.Clone())
		}
	}
	return out, nil
}

// NearestNeighbor returns the stored point closest to anchor, other than
// anchor itself. Among equidistant points the latest inserted wins, matching
// the trees' "at least as close" update rule.
func (b *BruteForce) NearestNeighbor(anchor Point) (Neighbor, bool, error) {
	if err := checkDims(anchor, b.dims); err != nil {
		return Neighbor{}, false, err
	}
	nn := NewNNData[Point]()
	for _, q := range b.pts {
		if q.Equal(anchor) {
			continue
		}
		if d := q.Distance(anchor); nn.accepts(d) {
			nn.Update(q, d)
		}
	}
	if !nn.IsSet() {
		return Neighbor{}, false, nil
	}
	return Neighbor{Point: nn.Best.Clone(), Distance: nn.BestDistance}, true, nil
}

// KNearestNeighbors returns up to k stored points closest to anchor.
// Equidistant points keep insertion order.
func (b *BruteForce) KNearestNeighbors(k int, anchor Point) ([]Neighbor, error) {
	queue, err := NewBoundedPriorityQueue[Point](k)
	if err != nil {
		return nil, err
	}
	if err := checkDims(anchor, b.dims); err != nil {
		return nil, err
	}
	for _, q := range b.pts {
		if !q.Equal(anchor) {
			queue.Enqueue(q, q.Distance(anchor))
		}
	}
	return neighborsFromQueue(queue), nil
}

// Height is -1 when empty and 0 otherwise; a flat list has one level.
func (b *BruteForce) Height() int {
	if len(b.pts) == 0 {
		return -1
	}
	return 0
}

// Count returns the number of stored points.
func (b *BruteForce) Count() int { return len(b.pts) }

// Dims returns the dimensionality of the index.
func (b *BruteForce) Dims() int { return b.dims }

// Points returns copies of the stored points in insertion order.
func (b *BruteForce) Points() []Point {
	out := make([]Point, len(b.pts))
	for i, q := range b.pts {
		out[i] = q.Clone()
	}
	return out
}
