package spatial

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Point is an ordered tuple of real-valued coordinates.
//
// Points are plain slices and therefore mutable by whoever holds them. The
// indexes in this package never alias a caller's slice: every stored point is
// a Clone taken on entry, and every point handed back is another Clone.
type Point []float64

// NewPoint returns a Point holding a copy of coords.
func NewPoint(coords ...float64) Point {
	return append(Point(nil), coords...)
}

// Dims returns the dimensionality of the point.
func (p Point) Dims() int { return len(p) }

// Clone returns a deep copy of p.
func (p Point) Clone() Point {
	if p == nil {
		return nil
	}
	return append(Point(nil), p...)
}

// Equal reports whether p and q have the same length and identical
// coordinates.
func (p Point) Equal(q Point) bool {
	return floats.Equal(p, q)
}

// Distance returns the Euclidean distance between p and q. Both points must
// have the same dimensionality.
func (p Point) Distance(q Point) float64 {
	return floats.Distance(p, q, 2)
}

// String formats the point as "(x, y, ...)".
func (p Point) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range p {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	b.WriteByte(')')
	return b.String()
}

// Neighbor is a stored point paired with its distance to a query anchor.
type Neighbor struct {
	Point    Point
	Distance float64
}
