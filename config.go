package spatial

import "fmt"

// KDTreeConfig controls KD-tree construction.
// Start with [DefaultKDTreeConfig] and override the fields you need.
type KDTreeConfig struct {
	// Dims is the dimensionality of every point stored in the tree. The
	// splitting axis at depth d is d mod Dims. Must be >= 1. Default: 2.
	Dims int
}

// QuadTreeConfig controls PR quadtree construction.
// Start with [DefaultQuadTreeConfig] and override the fields you need.
type QuadTreeConfig struct {
	// K sets the universe to [0, 2^K] x [0, 2^K]. The root quadrant is
	// centered on (2^(K-1), 2^(K-1)) and every level halves the side length.
	// Must be between 1 and 62. Default: 10.
	K int

	// BucketingParam is the number of points a leaf may hold before it is
	// split into four quadrants. Must be >= 1. Default: 1.
	BucketingParam int
}

// DefaultKDTreeConfig returns a KDTreeConfig for 2-dimensional points.
func DefaultKDTreeConfig() KDTreeConfig {
	return KDTreeConfig{Dims: 2}
}

// DefaultQuadTreeConfig returns a QuadTreeConfig over [0, 1024]^2 with one
// point per leaf.
func DefaultQuadTreeConfig() QuadTreeConfig {
	return QuadTreeConfig{K: 10, BucketingParam: 1}
}

const maxQuadK = 62

// applyKDDefaults fills in zero-valued config fields with their defaults.
func applyKDDefaults(cfg *KDTreeConfig) {
	if cfg.Dims == 0 {
		cfg.Dims = DefaultKDTreeConfig().Dims
	}
}

func validateKDConfig(cfg *KDTreeConfig) error {
	if cfg.Dims < 1 {
		return fmt.Errorf("%w: Dims must be >= 1, got %d", ErrInvalidConfig, cfg.Dims)
	}
	return nil
}

func applyQuadDefaults(cfg *QuadTreeConfig) {
	def := DefaultQuadTreeConfig()
	if cfg.K == 0 {
		cfg.K = def.K
	}
	if cfg.BucketingParam == 0 {
		cfg.BucketingParam = def.BucketingParam
	}
}

func validateQuadConfig(cfg *QuadTreeConfig) error {
	if cfg.K < 1 || cfg.K > maxQuadK {
		return fmt.Errorf("%w: K must be in [1, %d], got %d", ErrInvalidConfig, maxQuadK, cfg.K)
	}
	if cfg.BucketingParam < 1 {
		return fmt.Errorf("%w: BucketingParam must be >= 1, got %d", ErrInvalidConfig, cfg.BucketingParam)
	}
	return nil
}
