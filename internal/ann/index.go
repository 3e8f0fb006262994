package ann

import (
	"math"
	"math/rand"
	"sync"
)

// Index is an in-memory HNSW index mapping string ids to f32 embeddings,
// optionally carrying an opaque payload of type T. The zero value is not
// usable; construct with New.
type Index[T any] struct {
	mu sync.RWMutex

	nodes      []node[T]
	idToSlot   map[string]int
	entryPoint int // slot index of the current entry point, -1 if empty

	dims           int // informational only; never re-validated against inserted vectors
	m              int
	mMax           int // == m in this design
	efConstruction int
	metric         DistanceMetric
	poolSize       int

	rng *rand.Rand
}

// New creates an empty HNSW index. dims is informational only — the
// core never re-validates that inserted vectors match it. m below 1 is
// raised to 1; efConstruction should be >= m for useful recall, though this is
// advisory only and not enforced.
func New[T any](dims, m, efConstruction int, opts ...Option) *Index[T] {
	if m < 1 {
		m = 1
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.hasEfConstruction {
		efConstruction = cfg.efConstruction
	}

	return &Index[T]{
		idToSlot:       make(map[string]int),
		entryPoint:     -1,
		dims:           dims,
		m:              m,
		mMax:           m,
		efConstruction: efConstruction,
		metric:         cfg.metric,
		poolSize:       cfg.poolSize,
		rng:            cfg.newRand(),
	}
}

// Len returns the number of vectors in the index.
func (idx *Index[T]) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.nodes)
}

// IsEmpty reports whether the index has no vectors.
func (idx *Index[T]) IsEmpty() bool {
	return idx.Len() == 0
}

// Contains reports whether id is present in the index.
func (idx *Index[T]) Contains(id string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.idToSlot[id]
	return ok
}

// GetNode returns a read-only view of the stored node for id, if present.
func (idx *Index[T]) GetNode(id string) (NodeView[T], bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	slot, ok := idx.idToSlot[id]
	if !ok {
		return NodeView[T]{}, false
	}
	n := &idx.nodes[slot]
	return NodeView[T]{
		ID:        n.id,
		Embedding: n.embedding,
		Payload:   n.payload,
		Level:     n.level(),
	}, true
}

// AllIDs returns every id currently stored, in slot order.
func (idx *Index[T]) AllIDs() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ids := make([]string, len(idx.nodes))
	for i, n := range idx.nodes {
		ids[i] = n.id
	}
	return ids
}

// Clear empties the index: storage, id map, and entry point.
func (idx *Index[T]) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.nodes = nil
	idx.idToSlot = make(map[string]int)
	idx.entryPoint = -1
}

// distance computes the configured metric between two embeddings.
func (idx *Index[T]) distance(a, b []float32) float32 {
	return idx.metric.distance(a, b)
}

// generateLevel draws a level L = floor(-ln(U) * ml) with U uniform in
// (0, 1), capped to maxLayers-1 so a pathologically small draw can never
// push a node beyond the fixed layer budget.
func (idx *Index[T]) generateLevel() int {
	u := idx.rng.Float64()
	for u == 0 {
		u = idx.rng.Float64()
	}
	level := int(-math.Log(u) * levelNormalizer)
	if level > maxLayers-1 {
		level = maxLayers - 1
	}
	return level
}
