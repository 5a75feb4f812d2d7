package spatial

import (
	"fmt"
	"math"
)

// KDTree is an unbalanced k-d tree over points of a fixed dimensionality.
//
// The splitting axis cycles with depth: the root splits on axis 0, its
// children on axis 1, and so on modulo Dims. For a node splitting on axis a,
// every point in its left subtree has coordinate a strictly less than the
// node's, and every point in its right subtree has coordinate a greater than
// or equal to it. Points are inserted in arrival order and the tree is never
// rebalanced, so its height depends on insertion order.
type KDTree struct {
	root  *kdNode
	dims  int
	count int
}

// kdNode is a single node of a KDTree. height is kept current on every
// insert and delete: 0 for a leaf, 1 + the taller child otherwise.
type kdNode struct {
	point       Point
	left, right *kdNode
	height      int
}

// NewKDTree returns an empty KDTree. Zero-valued config fields take their
// defaults from DefaultKDTreeConfig.
func NewKDTree(cfg KDTreeConfig) (*KDTree, error) {
	applyKDDefaults(&cfg)
	if err := validateKDConfig(&cfg); err != nil {
		return nil, err
	}
	return &KDTree{dims: cfg.Dims}, nil
}

// Insert stores a copy of p.
func (t *KDTree) Insert(p Point) error {
	if err := checkDims(p, t.dims); err != nil {
		return err
	}
	p = p.Clone()
	if t.root == nil {
		t.root = &kdNode{point: p}
	} else {
		t.root.insert(p, 0, t.dims)
	}
	t.count++
	return nil
}

// Delete removes one stored point equal to p. A missing point is not an
// error.
func (t *KDTree) Delete(p Point) error {
	if err := checkDims(p, t.dims); err != nil {
		return err
	}
	var removed bool
	t.root, removed = t.root.delete(p, 0, t.dims)
	if removed {
		t.count--
	}
	return nil
}

// Search reports whether a point equal to p is stored.
func (t *KDTree) Search(p Point) bool {
	if len(p) != t.dims {
		return false
	}
	return t.root.search(p, 0, t.dims)
}

// Range returns all stored points within radius of anchor, excluding points
// equal to anchor.
func (t *KDTree) Range(anchor Point, radius float64) ([]Point, error) {
	if err := checkDims(anchor, t.dims); err != nil {
		return nil, err
	}
	var results []Point
	if t.root != nil {
		t.root.rangeQuery(anchor, &results, radius, 0, t.dims)
	}
	for i := range results {
		results[i] = results[i].Clone()
	}
	return results, nil
}

// NearestNeighbor returns the stored point closest to anchor, other than
// anchor itself. Among equidistant candidates the last one visited wins.
func (t *KDTree) NearestNeighbor(anchor Point) (Neighbor, bool, error) {
	if err := checkDims(anchor, t.dims); err != nil {
		return Neighbor{}, false, err
	}
	nn := NewNNData[Point]()
	if t.root != nil {
		t.root.nearestNeighbor(anchor, 0, t.dims, nn)
	}
	if !nn.IsSet() {
		return Neighbor{}, false, nil
	}
	return Neighbor{Point: nn.Best.Clone(), Distance: nn.BestDistance}, true, nil
}

// KNearestNeighbors returns up to k stored points closest to anchor in
// ascending distance order.
func (t *KDTree) KNearestNeighbors(k int, anchor Point) ([]Neighbor, error) {
	queue, err := NewBoundedPriorityQueue[Point](k)
	if err != nil {
		return nil, err
	}
	if err := checkDims(anchor, t.dims); err != nil {
		return nil, err
	}
	if t.root != nil {
		t.root.kNearestNeighbors(k, anchor, queue, 0, t.dims)
	}
	return neighborsFromQueue(queue), nil
}

// Height returns the height of the tree: -1 when empty, 0 for a single node.
func (t *KDTree) Height() int { return t.root.getHeight() }

// Count returns the number of stored points.
func (t *KDTree) Count() int { return t.count }

// Dims returns the dimensionality of the tree.
func (t *KDTree) Dims() int { return t.dims }

// Points returns copies of all stored points in pre-order.
func (t *KDTree) Points() []Point {
	out := make([]Point, 0, t.count)
	t.root.walk(func(n *kdNode) {
		out = append(out, n.point.Clone())
	})
	return out
}

func nextAxis(axis, dims int) int {
	if axis+1 == dims {
		return 0
	}
	return axis + 1
}

// getHeight returns the cached height; -1 for a nil node.
func (n *kdNode) getHeight() int {
	if n == nil {
		return -1
	}
	return n.height
}

func (n *kdNode) fixHeight() {
	n.height = 1 + max(n.left.getHeight(), n.right.getHeight())
}

// computeHeight recomputes the subtree height from scratch, ignoring the
// cached values.
func (n *kdNode) computeHeight() int {
	if n == nil {
		return -1
	}
	return 1 + max(n.left.computeHeight(), n.right.computeHeight())
}

func (n *kdNode) walk(fn func(*kdNode)) {
	if n == nil {
		return
	}
	fn(n)
	n.left.walk(fn)
	n.right.walk(fn)
}

func (n *kdNode) insert(p Point, axis, dims int) {
	next := nextAxis(axis, dims)
	if p[axis] >= n.point[axis] {
		if n.right == nil {
			n.right = &kdNode{point: p}
		} else {
			n.right.insert(p, next, dims)
		}
	} else {
		if n.left == nil {
			n.left = &kdNode{point: p}
		} else {
			n.left.insert(p, next, dims)
		}
	}
	n.fixHeight()
}

// delete removes one point equal to p from the subtree rooted at n and
// returns the new subtree root. Interior matches are overwritten with a
// promoted successor point; only leaves are unlinked.
func (n *kdNode) delete(p Point, axis, dims int) (*kdNode, bool) {
	if n == nil {
		return nil, false
	}
	next := nextAxis(axis, dims)
	var removed bool
	switch {
	case n.point.Equal(p):
		switch {
		case n.left == nil && n.right == nil:
			return nil, true
		case n.right == nil:
			// The left subtree moves right, so its minimum on this axis
			// becomes the split value that keeps it >= on the right.
			m := n.left.findMin(axis, next, dims)
			n.point = m.point.Clone()
			n.right, n.left = n.left, nil
			n.right, _ = n.right.delete(n.point, next, dims)
		default:
			m := n.right.findMin(axis, next, dims)
			n.point = m.point.Clone()
			n.right, _ = n.right.delete(n.point, next, dims)
		}
		removed = true
	case p[axis] >= n.point[axis]:
		n.right, removed = n.right.delete(p, next, dims)
	default:
		n.left, removed = n.left.delete(p, next, dims)
	}
	if removed {
		n.fixHeight()
	}
	return n, removed
}

// findMin returns the node holding the minimum coordinate on target within
// the subtree rooted at n, which splits on axis. When axis == target only the
// left side can hold a smaller value.
func (n *kdNode) findMin(target, axis, dims int) *kdNode {
	if n == nil {
		return nil
	}
	next := nextAxis(axis, dims)
	if axis == target {
		if n.left == nil {
			return n
		}
		return n.left.findMin(target, next, dims)
	}
	best := n
	for _, c := range [2]*kdNode{n.left.findMin(target, next, dims), n.right.findMin(target, next, dims)} {
		if c != nil && c.point[target] < best.point[target] {
			best = c
		}
	}
	return best
}

func (n *kdNode) search(p Point, axis, dims int) bool {
	for n != nil {
		if n.point.Equal(p) {
			return true
		}
		if p[axis] >= n.point[axis] {
			n = n.right
		} else {
			n = n.left
		}
		axis = nextAxis(axis, dims)
	}
	return false
}

// sides returns the child on the anchor's side of the split first.
func (n *kdNode) sides(anchor Point, axis int) (near, far *kdNode) {
	if anchor[axis] >= n.point[axis] {
		return n.right, n.left
	}
	return n.left, n.right
}

// axisGap is the distance from anchor to the splitting hyperplane of n.
func (n *kdNode) axisGap(anchor Point, axis int) float64 {
	return math.Abs(n.point[axis] - anchor[axis])
}

func (n *kdNode) rangeQuery(anchor Point, results *[]Point, radius float64, axis, dims int) {
	next := nextAxis(axis, dims)
	near, far := n.sides(anchor, axis)
	if near != nil {
		near.rangeQuery(anchor, results, radius, next, dims)
	}
	if !n.point.Equal(anchor) && n.point.Distance(anchor) <= radius {
		*results = append(*results, n.point)
	}
	if far != nil && n.axisGap(anchor, axis) <= radius {
		far.rangeQuery(anchor, results, radius, next, dims)
	}
}

func (n *kdNode) nearestNeighbor(anchor Point, axis, dims int, nn *NNData[Point]) {
	next := nextAxis(axis, dims)
	if !n.point.Equal(anchor) {
		if d := n.point.Distance(anchor); nn.accepts(d) {
			nn.Update(n.point, d)
		}
	}
	near, far := n.sides(anchor, axis)
	if near != nil {
		near.nearestNeighbor(anchor, next, dims, nn)
	}
	if far != nil && (!nn.IsSet() || n.axisGap(anchor, axis) <= nn.BestDistance) {
		far.nearestNeighbor(anchor, next, dims, nn)
	}
}

func (n *kdNode) kNearestNeighbors(k int, anchor Point, queue *BoundedPriorityQueue[Point], axis, dims int) {
	next := nextAxis(axis, dims)
	if !n.point.Equal(anchor) {
		queue.Enqueue(n.point, n.point.Distance(anchor))
	}
	near, far := n.sides(anchor, axis)
	if near != nil {
		near.kNearestNeighbors(k, anchor, queue, next, dims)
	}
	if far == nil {
		return
	}
	if worst, ok := queue.LastPriority(); queue.Size() < k || !ok || n.axisGap(anchor, axis) <= worst {
		far.kNearestNeighbors(k, anchor, queue, next, dims)
	}
}

// String is used in test failure output.
func (n *kdNode) String() string {
	if n == nil {
		return "nil"
	}
	return fmt.Sprintf("%v[h=%d](%v %v)", n.point, n.height, n.left, n.right)
}
