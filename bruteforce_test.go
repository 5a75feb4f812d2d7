package spatial

import (
	"errors"
	"math"
	"testing"
)

func TestBruteForce_Basic(t *testing.T) {
	b := newBrute(t, 2)
	if b.Height() != -1 {
		t.Errorf("empty Height() = %d, want -1", b.Height())
	}
	fill(t, b, scenarioPoints)

	if b.Count() != 6 || b.Height() != 0 || b.Dims() != 2 {
		t.Errorf("Count=%d Height=%d Dims=%d", b.Count(), b.Height(), b.Dims())
	}

	nn, ok, err := b.NearestNeighbor(NewPoint(9, 2))
	if err != nil || !ok || !nn.Point.Equal(NewPoint(8, 1)) || math.Abs(nn.Distance-math.Sqrt2) > floatTol {
		t.Errorf("NearestNeighbor((9, 2)) = (%v, %v, %v)", nn, ok, err)
	}

	knn, err := b.KNearestNeighbors(2, NewPoint(9, 2))
	if err != nil {
		t.Fatal(err)
	}
	assertNeighbors(t, knn, []Neighbor{
		{Point: NewPoint(8, 1), Distance: math.Sqrt2},
		{Point: NewPoint(7, 2), Distance: 2},
	})

	if err := b.Delete(NewPoint(8, 1)); err != nil {
		t.Fatal(err)
	}
	if b.Search(NewPoint(8, 1)) || b.Count() != 5 {
		t.Errorf("after Delete: Search=%v Count=%d", b.Search(NewPoint(8, 1)), b.Count())
	}
}

func TestBruteForce_KNN_TiesKeepInsertionOrder(t *testing.T) {
	b := newBrute(t, 2)
	fill(t, b, []Point{{1, 0}, {0, 1}, {-1, 0}, {0, -1}, {5, 5}})

	got, err := b.KNearestNeighbors(3, NewPoint(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	assertNeighbors(t, got, []Neighbor{
		{Point: NewPoint(1, 0), Distance: 1},
		{Point: NewPoint(0, 1), Distance: 1},
		{Point: NewPoint(-1, 0), Distance: 1},
	})
}

func TestBruteForce_Errors(t *testing.T) {
	b := newBrute(t, 2)
	if err := b.Insert(NewPoint(1)); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Insert err = %v, want ErrDimensionMismatch", err)
	}
	if _, err := b.KNearestNeighbors(-1, NewPoint(1, 1)); !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("KNearestNeighbors(-1) err = %v, want ErrInvalidCapacity", err)
	}
}

// TestIndex_Contract runs the same script against every implementation.
func TestIndex_Contract(t *testing.T) {
	impls := map[string]func(t *testing.T) Index{
		"kd":    func(t *testing.T) Index { return newKD(t, 2) },
		"quad":  func(t *testing.T) Index { return newQuad(t, 4, 1) },
		"quad3": func(t *testing.T) Index { return newQuad(t, 4, 3) },
		"brute": func(t *testing.T) Index { return newBrute(t, 2) },
	}
	for name, mk := range impls {
		t.Run(name, func(t *testing.T) {
			idx := mk(t)
			for i, p := range scenarioPoints {
				if err := idx.Insert(p); err != nil {
					t.Fatal(err)
				}
				if !idx.Search(p) {
					t.Fatalf("Search(%v) = false right after Insert", p)
				}
				if idx.Count() != i+1 {
					t.Fatalf("Count() = %d, want %d", idx.Count(), i+1)
				}
			}
			assertSamePoints(t, idx.Points(), scenarioPoints)

			got, err := idx.KNearestNeighbors(2, NewPoint(9, 2))
			if err != nil {
				t.Fatal(err)
			}
			assertNeighbors(t, got, []Neighbor{
				{Point: NewPoint(8, 1), Distance: math.Sqrt2},
				{Point: NewPoint(7, 2), Distance: 2},
			})

			for i, p := range scenarioPoints {
				if err := idx.Delete(p); err != nil {
					t.Fatal(err)
				}
				if idx.Search(p) {
					t.Fatalf("Search(%v) = true after Delete", p)
				}
				if idx.Count() != len(scenarioPoints)-i-1 {
					t.Fatalf("Count() = %d, want %d", idx.Count(), len(scenarioPoints)-i-1)
				}
			}
			if idx.Height() != -1 {
				t.Errorf("Height() = %d after deleting everything, want -1", idx.Height())
			}
		})
	}
}
