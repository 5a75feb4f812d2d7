package spatial

import (
	"fmt"
	"math"
)

// Child slot order within a gray node. Children are stored in Z-order.
const (
	quadNW = iota
	quadNE
	quadSW
	quadSE
)

// PRQuadTree is a bucketed point-region quadtree over the square
// [0, 2^K] x [0, 2^K].
//
// Every node covers a square quadrant. Leaves (black nodes) hold up to
// BucketingParam points; a leaf that would overflow is split into a gray node
// with four children of half the side length. Empty children are nil. When
// deletions leave a gray node's subtree small enough it collapses back into a
// single leaf. Unlike KDTree, the shape of a PRQuadTree depends only on the
// set of stored points, not on the order they arrived in.
type PRQuadTree struct {
	root     quadNode
	universe quadrant
}

// NewPRQuadTree returns an empty quadtree. Zero-valued config fields take
// their defaults from DefaultQuadTreeConfig.
func NewPRQuadTree(cfg QuadTreeConfig) (*PRQuadTree, error) {
	applyQuadDefaults(&cfg)
	if err := validateQuadConfig(&cfg); err != nil {
		return nil, err
	}
	h := math.Ldexp(1, cfg.K-1)
	return &PRQuadTree{
		universe: quadrant{cx: h, cy: h, k: cfg.K, bucketingParam: cfg.BucketingParam},
	}, nil
}

// Insert stores a copy of p. Points outside the universe are rejected with
// ErrOutOfBounds and the tree is left unchanged.
func (t *PRQuadTree) Insert(p Point) error {
	if err := t.checkPoint(p); err != nil {
		return err
	}
	p = p.Clone()
	if t.root == nil {
		t.root = newBlackNode(t.universe, p)
		return nil
	}
	root, err := t.root.insert(p)
	if err != nil {
		return err
	}
	t.root = root
	return nil
}

// Delete removes one stored point equal to p. A missing point is not an
// error; a point outside the universe is.
func (t *PRQuadTree) Delete(p Point) error {
	if err := t.checkPoint(p); err != nil {
		return err
	}
	if t.root == nil {
		return nil
	}
	root, _, err := t.root.delete(p)
	if err != nil {
		return err
	}
	t.root = root
	return nil
}

// Search reports whether a point equal to p is stored. Points outside the
// universe are never stored.
func (t *PRQuadTree) Search(p Point) bool {
	if len(p) != 2 || t.root == nil {
		return false
	}
	return t.root.search(p)
}

// Range returns all stored points within radius of anchor, excluding points
// equal to anchor. The anchor may lie outside the universe.
func (t *PRQuadTree) Range(anchor Point, radius float64) ([]Point, error) {
	if err := checkDims(anchor, 2); err != nil {
		return nil, err
	}
	var results []Point
	if t.root != nil {
		t.root.rangeQuery(anchor, &results, radius)
	}
	for i := range results {
		results[i] = results[i].Clone()
	}
	return results, nil
}

// NearestNeighbor returns the stored point closest to anchor, other than
// anchor itself.
func (t *PRQuadTree) NearestNeighbor(anchor Point) (Neighbor, bool, error) {
	if err := checkDims(anchor, 2); err != nil {
		return Neighbor{}, false, err
	}
	nn := NewNNData[Point]()
	if t.root != nil {
		t.root.nearestNeighbor(anchor, nn)
	}
	if !nn.IsSet() {
		return Neighbor{}, false, nil
	}
	return Neighbor{Point: nn.Best.Clone(), Distance: nn.BestDistance}, true, nil
}

// KNearestNeighbors returns up to k stored points closest to anchor in
// ascending distance order.
func (t *PRQuadTree) KNearestNeighbors(k int, anchor Point) ([]Neighbor, error) {
	queue, err := NewBoundedPriorityQueue[Point](k)
	if err != nil {
		return nil, err
	}
	if err := checkDims(anchor, 2); err != nil {
		return nil, err
	}
	if t.root != nil {
		t.root.kNearestNeighbors(k, anchor, queue)
	}
	return neighborsFromQueue(queue), nil
}

// Height returns -1 for an empty tree, 0 when the root is a leaf, and
// 1 + the tallest child for a gray node.
func (t *PRQuadTree) Height() int {
	if t.root == nil {
		return -1
	}
	return t.root.height()
}

// Count returns the number of stored points.
func (t *PRQuadTree) Count() int {
	if t.root == nil {
		return 0
	}
	return t.root.count()
}

// Dims always returns 2.
func (t *PRQuadTree) Dims() int { return 2 }

// Points returns copies of all stored points, visiting children in Z-order
// (NW, NE, SW, SE).
func (t *PRQuadTree) Points() []Point {
	if t.root == nil {
		return []Point{}
	}
	pts := t.root.points(make([]Point, 0, t.root.count()))
	for i := range pts {
		pts[i] = pts[i].Clone()
	}
	return pts
}

func (t *PRQuadTree) checkPoint(p Point) error {
	if err := checkDims(p, 2); err != nil {
		return err
	}
	if !t.universe.contains(p) {
		return fmt.Errorf("%w: %v not in [0, %g]^2", ErrOutOfBounds, p, 2*t.universe.half())
	}
	return nil
}

// quadrant is the square region owned by a node: centered on (cx, cy) with
// half side 2^(k-1), closed on all four edges.
type quadrant struct {
	cx, cy         float64
	k              int
	bucketingParam int
}

func (q quadrant) half() float64 { return math.Ldexp(1, q.k-1) }

func (q quadrant) contains(p Point) bool {
	h := q.half()
	return p[0] >= q.cx-h && p[0] <= q.cx+h && p[1] >= q.cy-h && p[1] <= q.cy+h
}

// index returns the child slot p routes to, or -1 if p is outside q.
func (q quadrant) index(p Point) int {
	if !q.contains(p) {
		return -1
	}
	switch {
	case p[1] >= q.cy && p[0] < q.cx:
		return quadNW
	case p[1] >= q.cy:
		return quadNE
	case p[0] < q.cx:
		return quadSW
	default:
		return quadSE
	}
}

// child returns the quadrant of child slot i.
func (q quadrant) child(i int) quadrant {
	d := q.half() / 2
	c := quadrant{cx: q.cx + d, cy: q.cy + d, k: q.k - 1, bucketingParam: q.bucketingParam}
	if i == quadNW || i == quadSW {
		c.cx = q.cx - d
	}
	if i == quadSW || i == quadSE {
		c.cy = q.cy - d
	}
	return c
}

// intersects reports whether any part of q lies within radius of anchor.
func (q quadrant) intersects(anchor Point, radius float64) bool {
	h := q.half()
	dx := max(q.cx-h-anchor[0], 0, anchor[0]-(q.cx+h))
	dy := max(q.cy-h-anchor[1], 0, anchor[1]-(q.cy+h))
	return math.Hypot(dx, dy) <= radius
}

// quadNode is implemented by *blackNode and *grayNode. An empty (white)
// node is represented by a nil quadNode.
type quadNode interface {
	insert(p Point) (quadNode, error)
	// delete returns the replacement node and whether a point was removed.
	delete(p Point) (quadNode, bool, error)
	search(p Point) bool
	height() int
	count() int
	rangeQuery(anchor Point, results *[]Point, radius float64)
	nearestNeighbor(anchor Point, nn *NNData[Point])
	kNearestNeighbors(k int, anchor Point, queue *BoundedPriorityQueue[Point])
	intersects(anchor Point, radius float64) bool
	points(dst []Point) []Point
}

// blackNode is a leaf bucket. It holds at most bucketingParam points unless
// all of them are equal, in which case splitting would never separate them.
type blackNode struct {
	quadrant
	pts []Point
}

func newBlackNode(q quadrant, p Point) *blackNode {
	return &blackNode{quadrant: q, pts: []Point{p}}
}

func (b *blackNode) insert(p Point) (quadNode, error) {
	if !b.contains(p) {
		return b, fmt.Errorf("%w: %v outside quadrant centered at (%g, %g)", ErrOutOfBounds, p, b.cx, b.cy)
	}
	if len(b.pts) < b.bucketingParam || b.allEqual(p) {
		b.pts = append(b.pts, p)
		return b, nil
	}
	g := &grayNode{quadrant: b.quadrant}
	for _, q := range append(b.pts, p) {
		if _, err := g.insert(q); err != nil {
			return b, err
		}
	}
	return g, nil
}

func (b *blackNode) allEqual(p Point) bool {
	for _, q := range b.pts {
		if !q.Equal(p) {
			return false
		}
	}
	return true
}

func (b *blackNode) delete(p Point) (quadNode, bool, error) {
	for i, q := range b.pts {
		if q.Equal(p) {
			b.pts = append(b.pts[:i], b.pts[i+1:]...)
			if len(b.pts) == 0 {
				return nil, true, nil
			}
			return b, true, nil
		}
	}
	return b, false, nil
}

func (b *blackNode) search(p Point) bool {
	for _, q := range b.pts {
		if q.Equal(p) {
			return true
		}
	}
	return false
}

func (b *blackNode) height() int { return 0 }

func (b *blackNode) count() int { return len(b.pts) }

func (b *blackNode) rangeQuery(anchor Point, results *[]Point, radius float64) {
	for _, q := range b.pts {
		if !q.Equal(anchor) && q.Distance(anchor) <= radius {
			*results = append(*results, q)
		}
	}
}

func (b *blackNode) nearestNeighbor(anchor Point, nn *NNData[Point]) {
	for _, q := range b.pts {
		if q.Equal(anchor) {
			continue
		}
		if d := q.Distance(anchor); nn.accepts(d) {
			nn.Update(q, d)
		}
	}
}

func (b *blackNode) kNearestNeighbors(_ int, anchor Point, queue *BoundedPriorityQueue[Point]) {
	for _, q := range b.pts {
		if !q.Equal(anchor) {
			queue.Enqueue(q, q.Distance(anchor))
		}
	}
}

func (b *blackNode) points(dst []Point) []Point { return append(dst, b.pts...) }

// grayNode is an internal node with four child slots. n is the number of
// points in the subtree and drives collapsing on delete.
type grayNode struct {
	quadrant
	children [4]quadNode
	h        int
	n        int
}

func (g *grayNode) insert(p Point) (quadNode, error) {
	i := g.index(p)
	if i < 0 {
		return g, fmt.Errorf("%w: %v outside quadrant centered at (%g, %g)", ErrOutOfBounds, p, g.cx, g.cy)
	}
	if g.children[i] == nil {
		g.children[i] = newBlackNode(g.child(i), p)
	} else {
		c, err := g.children[i].insert(p)
		if err != nil {
			return g, err
		}
		g.children[i] = c
	}
	g.fixHeight()
	g.n++
	return g, nil
}

func (g *grayNode) delete(p Point) (quadNode, bool, error) {
	i := g.index(p)
	if i < 0 {
		return g, false, fmt.Errorf("%w: %v outside quadrant centered at (%g, %g)", ErrOutOfBounds, p, g.cx, g.cy)
	}
	if g.children[i] == nil {
		return g, false, nil
	}
	c, removed, err := g.children[i].delete(p)
	if err != nil {
		return g, false, err
	}
	g.children[i] = c
	if !removed {
		return g, false, nil
	}
	g.n--
	if g.collapsible() {
		return g.collapse(), true, nil
	}
	g.fixHeight()
	return g, true, nil
}

// collapsible reports whether every child is a leaf or empty and either the
// subtree fits in one bucket or only one child is left.
func (g *grayNode) collapsible() bool {
	occupied := 0
	for _, c := range g.children {
		if c == nil {
			continue
		}
		if _, ok := c.(*blackNode); !ok {
			return false
		}
		occupied++
	}
	return g.n <= g.bucketingParam || occupied == 1
}

// collapse merges the leaf children into a single leaf covering g's
// quadrant. An empty merge yields nil.
func (g *grayNode) collapse() quadNode {
	pts := g.points(make([]Point, 0, g.n))
	if len(pts) == 0 {
		return nil
	}
	return &blackNode{quadrant: g.quadrant, pts: pts}
}

func (g *grayNode) fixHeight() {
	h := -1
	for _, c := range g.children {
		if c != nil {
			h = max(h, c.height())
		}
	}
	g.h = h + 1
}

func (g *grayNode) search(p Point) bool {
	i := g.index(p)
	if i < 0 || g.children[i] == nil {
		return false
	}
	return g.children[i].search(p)
}

func (g *grayNode) height() int { return g.h }

func (g *grayNode) count() int { return g.n }

// visit calls fn on the anchor's own child first, then on each other
// non-empty child for which keep returns true. keep is evaluated lazily so
// it sees the bound tightened by earlier visits. An anchor outside g has no
// home child.
func (g *grayNode) visit(anchor Point, keep func(quadNode) bool, fn func(quadNode)) {
	home := g.index(anchor)
	if home >= 0 && g.children[home] != nil {
		fn(g.children[home])
	}
	for i, c := range g.children {
		if i == home || c == nil {
			continue
		}
		if keep(c) {
			fn(c)
		}
	}
}

func (g *grayNode) rangeQuery(anchor Point, results *[]Point, radius float64) {
	g.visit(anchor,
		func(c quadNode) bool { return c.intersects(anchor, radius) },
		func(c quadNode) { c.rangeQuery(anchor, results, radius) })
}

func (g *grayNode) nearestNeighbor(anchor Point, nn *NNData[Point]) {
	g.visit(anchor,
		func(c quadNode) bool { return !nn.IsSet() || c.intersects(anchor, nn.BestDistance) },
		func(c quadNode) { c.nearestNeighbor(anchor, nn) })
}

func (g *grayNode) kNearestNeighbors(k int, anchor Point, queue *BoundedPriorityQueue[Point]) {
	g.visit(anchor,
		func(c quadNode) bool {
			worst, ok := queue.LastPriority()
			return queue.Size() < k || !ok || c.intersects(anchor, worst)
		},
		func(c quadNode) { c.kNearestNeighbors(k, anchor, queue) })
}

func (g *grayNode) points(dst []Point) []Point {
	for _, c := range g.children {
		if c != nil {
			dst = c.points(dst)
		}
	}
	return dst
}
