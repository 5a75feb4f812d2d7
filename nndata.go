package spatial

// NNData holds the best nearest-neighbor candidate found so far during a
// single-NN traversal. BestDistance is -1 until the first Update.
type NNData[T any] struct {
	Best         T
	BestDistance float64
}

// NewNNData returns an unset accumulator.
func NewNNData[T any]() *NNData[T] {
	return &NNData[T]{BestDistance: -1}
}

// Update overwrites the current best. Callers only pass candidates that are
// at least as close as the current best.
func (n *NNData[T]) Update(best T, distance float64) {
	n.Best = best
	n.BestDistance = distance
}

// IsSet reports whether a candidate has been recorded.
func (n *NNData[T]) IsSet() bool { return n.BestDistance != -1 }

// accepts reports whether a candidate at distance d should replace the
// current best.
func (n *NNData[T]) accepts(d float64) bool {
	return !n.IsSet() || d <= n.BestDistance
}
