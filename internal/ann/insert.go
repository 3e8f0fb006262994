package ann

import (
	"log/slog"
	"math"
)

// selectNeighbors picks up to m neighbors out of candidates (already
// sorted ascending by distance to the query) using a diversity-by-ratio
// heuristic: after keeping the closest candidate, each further pick
// minimizes candidateDistanceToQuery / distanceToClosestAlreadySelected,
// preferring candidates that are both near the query and far from what's
// already chosen. Ties keep the first-encountered candidate (stable over
// input order).
func (idx *Index[T]) selectNeighbors(cands candidates, m int) []int {
	if len(cands) <= m {
		out := make([]int, len(cands))
		for i, c := range cands {
			out[i] = c.slot
		}
		return out
	}

	selected := make([]int, 0, m)
	remaining := make(candidates, len(cands))
	copy(remaining, cands)

	selected = append(selected, remaining[0].slot)
	remaining = remaining[1:]

	for len(selected) < m && len(remaining) > 0 {
		bestIdx := 0
		bestScore := float32(-1)
		for i, c := range remaining {
			minDist := float32(-1)
			for _, s := range selected {
				d := idx.distance(idx.nodes[s].embedding, idx.nodes[c.slot].embedding)
				if minDist < 0 || d < minDist {
					minDist = d
				}
			}
			var score float32
			if minDist == 0 {
				score = float32(math.Inf(1))
			} else {
				score = c.dist / minDist
			}
			if bestScore < 0 || score < bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx].slot)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

// Insert adds a new vector under id. Returns ErrDuplicateID if id is
// already present; the index is left unchanged in that case.
func (idx *Index[T]) Insert(id string, embedding []float32, payload *T) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.insertLocked(id, embedding, payload, idx.generateLevel())
}

// insertLocked allocates the new node, links it into the graph, and
// promotes the entry point if warranted. Caller must hold idx.mu for
// writing. level is drawn by the caller.
func (idx *Index[T]) insertLocked(id string, embedding []float32, payload *T, level int) error {
	if _, exists := idx.idToSlot[id]; exists {
		return duplicateIDError(id)
	}

	// Links are computed before the new node is stored, so the layer-0
	// all-nodes search cannot return the node as its own neighbor.
	var neighbors [][]int
	if idx.entryPoint >= 0 {
		neighbors = idx.computeLinks(embedding, level, idx.entryPoint)
	}

	slot := len(idx.nodes)
	idx.nodes = append(idx.nodes, node[T]{
		id:          id,
		embedding:   embedding,
		payload:     payload,
		connections: make([][]int, level+1),
	})
	idx.idToSlot[id] = slot

	if idx.entryPoint < 0 {
		idx.entryPoint = slot
		return nil
	}

	idx.applyLinksLocked(slot, level, neighbors)

	if level > 0 && level >= len(idx.nodes[idx.entryPoint].connections) {
		idx.entryPoint = slot
	}
	return nil
}

// computeLinks runs the top-down layer descent and per-layer candidate
// search, starting from entrySlot, returning the neighbor list chosen
// at each layer from level down to 0. It only reads idx state — callers
// are responsible for applying the result. entrySlot < 0 (no
// established entry point yet) yields empty links at every layer.
func (idx *Index[T]) computeLinks(embedding []float32, level, entrySlot int) [][]int {
	if entrySlot < 0 {
		return make([][]int, level+1)
	}

	ep := []int{entrySlot}
	topLevel := idx.nodes[entrySlot].level()

	for layer := topLevel; layer > level; layer-- {
		found := idx.searchLayer(embedding, ep, layer, 1)
		if len(found) == 0 {
			continue
		}
		ep = []int{found[0].slot}
	}

	links := make([][]int, level+1)
	for layer := level; layer >= 0; layer-- {
		mLayer := idx.m
		if layer == 0 {
			mLayer = idx.mMax
		}
		found := idx.searchLayer(embedding, ep, layer, idx.efConstruction)
		neighbors := idx.selectNeighbors(found, mLayer)
		links[layer] = neighbors
		ep = neighbors
	}
	return links
}

// applyLinksLocked wires the bidirectional connections computed by
// computeLinks into the graph: the new node gets exactly the chosen
// neighbor list per layer, and each chosen neighbor gets the new slot
// appended to its own list at that layer. No pruning pass runs
// afterwards, so neighbor lists can grow past m over time; that
// inflation is accepted rather than corrected.
func (idx *Index[T]) applyLinksLocked(slot, level int, links [][]int) {
	for layer := level; layer >= 0; layer-- {
		neighbors := links[layer]
		idx.nodes[slot].connections[layer] = neighbors
		for _, n := range neighbors {
			if layer < len(idx.nodes[n].connections) {
				idx.nodes[n].connections[layer] = append(idx.nodes[n].connections[layer], slot)
			}
		}
	}
}

// InsertMultiple inserts items sequentially, in input order, via Insert.
// Each item's outcome is reported independently; a duplicate id fails
// only that item, not the whole call.
func (idx *Index[T]) InsertMultiple(items []Item[T]) []error {
	results := make([]error, len(items))
	for i, it := range items {
		results[i] = idx.Insert(it.ID, it.Embedding, it.Payload)
	}
	return results
}

// Rebalance validates that every stored edge is bidirectional, logging
// a warning for each asymmetry found. It never mutates the graph; it is
// a diagnostic no-op, not a structural rebuild.
func (idx *Index[T]) Rebalance() error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.nodes) == 0 {
		return nil
	}

	for i := range idx.nodes {
		for layer, conns := range idx.nodes[i].connections {
			for _, j := range conns {
				if j == i {
					slog.Warn("ann: self-loop found", "slot", i, "layer", layer)
					continue
				}
				if layer >= len(idx.nodes[j].connections) || !containsInt(idx.nodes[j].connections[layer], i) {
					slog.Warn("ann: non-bidirectional connection",
						"from", i, "to", j, "layer", layer)
				}
			}
		}
	}
	return nil
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
