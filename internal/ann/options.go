package ann

import (
	"math/rand"
	"runtime"
)

// maxLayers is the hard cap on layer index: ⌈log2(1000)⌉ + 1, fixed
// regardless of corpus size (acceptable up to tens of thousands of
// vectors).
const maxLayers = 11

// levelNormalizer is the level-generation constant ml = 1/ln(2), fixed
// independent of M rather than tuned per-M.
const levelNormalizer = 1.0 / 0.6931471805599453 // 1 / ln(2)

// Option configures an Index at construction time, beyond the three
// positional parameters New takes directly (dims, M, efConstruction).
type Option func(*config)

type config struct {
	metric            DistanceMetric
	seed              int64
	hasSeed           bool
	poolSize          int
	efConstruction    int
	hasEfConstruction bool
}

func defaultConfig() config {
	return config{metric: Euclidean, poolSize: runtime.NumCPU()}
}

// WithMetric selects the distance metric. Default: Euclidean.
func WithMetric(m DistanceMetric) Option {
	return func(c *config) { c.metric = m }
}

// WithSeed pins the thread-local random source used for level
// generation, for reproducible tests and benchmarks. Default:
// a source seeded from the global math/rand source.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
		c.hasSeed = true
	}
}

// WithWorkerPoolSize bounds how many goroutines InsertParallel's
// candidate-computation phase uses concurrently. Default: runtime.NumCPU().
func WithWorkerPoolSize(n int) Option {
	return func(c *config) { c.poolSize = n }
}

// WithEfConstruction overrides the efConstruction positional argument
// passed to New. Rarely needed; exists mainly so tests and benchmarks
// can tune candidate-list width without threading it through every
// call site that otherwise only cares about dims and m.
func WithEfConstruction(ef int) Option {
	return func(c *config) {
		c.efConstruction = ef
		c.hasEfConstruction = true
	}
}

func (c config) newRand() *rand.Rand {
	if c.hasSeed {
		return rand.New(rand.NewSource(c.seed))
	}
	return rand.New(rand.NewSource(rand.Int63()))
}
