package gyrotrack

// Config holds the tunable constants of the tracker. All fields have
// defaults; construct via NewDefaultConfig and override with the With*
// options.
type Config struct {
	// NumberOfTrackingBuckets is the side length B of the uniform B x B
	// image partition used by bucketed admission.
	NumberOfTrackingBuckets int
	// NumberOfKeyPointsUnconditional caps admissions regardless of
	// bucket occupancy (Stage 3).
	NumberOfKeyPointsUnconditional int
	// NumberOfKeyPointsStrong caps total admissions including
	// bucket-gated ones (Stage 4).
	NumberOfKeyPointsStrong int
	// ScoreThresholdUnconditional is the minimum score for Stage 3.
	ScoreThresholdUnconditional float64
	// ScoreThresholdStrong is the minimum score for Stage 4.
	ScoreThresholdStrong float64
	// MinSearchRadius is the small-window pixel radius (first pass).
	MinSearchRadius int
	// SearchRadius is the large-window pixel radius (second pass).
	SearchRadius int
	// MatchingThresholdBits is the Hamming-distance gate: two descriptors
	// are considered a match only if their distance is strictly below it.
	MatchingThresholdBits int
	// ParallelMatch enables sharding Match Search across goroutines via
	// errgroup. Output order and content are identical either way; this
	// only affects wall-clock cost on large previous-frame keypoint
	// counts.
	ParallelMatch bool
}

// Option mutates a Config at construction time.
type Option func(*Config)

// NewDefaultConfig returns the default configuration. Both score floors
// default to 0.0, which admits any non-negative keypoint score.
func NewDefaultConfig(opts ...Option) *Config {
	cfg := &Config{
		NumberOfTrackingBuckets:        4,
		NumberOfKeyPointsUnconditional: 20,
		NumberOfKeyPointsStrong:        100,
		ScoreThresholdUnconditional:    0.0,
		ScoreThresholdStrong:           0.0,
		MinSearchRadius:                5,
		SearchRadius:                   10,
		MatchingThresholdBits:          120,
		ParallelMatch:                  false,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithNumberOfTrackingBuckets sets the bucket grid side length B.
func WithNumberOfTrackingBuckets(b int) Option {
	return func(c *Config) { c.NumberOfTrackingBuckets = b }
}

// WithUnconditionalStage sets the count cap and score floor of Stage 3.
func WithUnconditionalStage(count int, scoreThreshold float64) Option {
	return func(c *Config) {
		c.NumberOfKeyPointsUnconditional = count
		c.ScoreThresholdUnconditional = scoreThreshold
	}
}

// WithStrongStage sets the count cap and score floor of Stage 4.
func WithStrongStage(count int, scoreThreshold float64) Option {
	return func(c *Config) {
		c.NumberOfKeyPointsStrong = count
		c.ScoreThresholdStrong = scoreThreshold
	}
}

// WithSearchRadii sets the small and large search radii, in pixels.
func WithSearchRadii(small, large int) Option {
	return func(c *Config) {
		c.MinSearchRadius = small
		c.SearchRadius = large
	}
}

// WithMatchingThresholdBits sets the Hamming-distance gate; a match
// needs a distance strictly below it.
func WithMatchingThresholdBits(bits int) Option {
	return func(c *Config) { c.MatchingThresholdBits = bits }
}

// WithParallelMatch toggles the errgroup-sharded Match Search.
func WithParallelMatch(enabled bool) Option {
	return func(c *Config) { c.ParallelMatch = enabled }
}
