// Package spatial implements exact in-memory spatial indexes: an unbalanced
// KD-tree over points of any dimensionality and a bucketed point-region (PR)
// quadtree over 2-dimensional points.
//
// Both structures support insertion, deletion, exact search, inclusive range
// queries, single nearest-neighbor and k-nearest-neighbor queries, and share
// the [Index] interface. Query results never include a stored point equal to
// the query anchor.
//
// Basic usage:
//
//	tree, err := spatial.NewKDTree(spatial.DefaultKDTreeConfig())
//	if err != nil {
//		return err
//	}
//	_ = tree.Insert(spatial.NewPoint(2, 3))
//	_ = tree.Insert(spatial.NewPoint(8, 1))
//	nn, ok, err := tree.NearestNeighbor(spatial.NewPoint(9, 2))
//	// nn.Point is (8, 1), nn.Distance is √2
//
// A quadtree covers the square [0, 2^K] x [0, 2^K]:
//
//	cfg := spatial.DefaultQuadTreeConfig()
//	cfg.K = 4 // [0, 16] x [0, 16]
//	qt, err := spatial.NewPRQuadTree(cfg)
//	neighbors, err := qt.KNearestNeighbors(2, spatial.NewPoint(9, 2))
//
// # Points and copies
//
// Point is a plain []float64. Indexes store a private copy of every inserted
// point and return copies from every query, so callers may reuse or mutate
// their slices freely.
//
// # Ties
//
// KNearestNeighbors orders equidistant points by the order the search
// reaches them, which follows the tree layout rather than insertion order.
// NearestNeighbor keeps the last equidistant candidate it reaches.
//
// # Concurrency
//
// Indexes are not safe for concurrent use. A BoundedPriorityQueue iterator
// detects mutation of its queue and reports ErrConcurrentModification.
package spatial
