package ann

// searchLayer performs a bounded greedy best-first walk over a single
// layer, starting from entrySlots, returning up to k (slot, distance)
// pairs ascending by distance.
//
// At layer 0, every other node in the index is considered a candidate
// neighbor of whichever frontier node was just popped — not just its
// stored layer-0 connection list. This turns a sparse base layer into a
// bounded-work brute-force pass ordered by the frontier, trading some
// extra comparisons for recall when the graph is sparse.
func (idx *Index[T]) searchLayer(query []float32, entrySlots []int, layer, k int) candidates {
	visited := make(map[int]bool, len(entrySlots)*2)
	var result candidates
	var frontier candidates

	for _, s := range entrySlots {
		if s < 0 || s >= len(idx.nodes) {
			continue
		}
		if layer != 0 && layer >= len(idx.nodes[s].connections) {
			continue
		}
		if visited[s] {
			continue
		}
		visited[s] = true
		d := idx.distance(query, idx.nodes[s].embedding)
		result = insertSorted(result, candidate{slot: s, dist: d}, k)
		frontier = insertSorted(frontier, candidate{slot: s, dist: d}, idx.efConstruction)
	}

	for len(frontier) > 0 {
		c := frontier[0]
		frontier = frontier[1:]

		neighbors := idx.layerNeighbors(c.slot, layer)
		for _, n := range neighbors {
			if visited[n] {
				continue
			}
			visited[n] = true

			d := idx.distance(query, idx.nodes[n].embedding)
			if len(result) < k || d < result[len(result)-1].dist {
				result = insertSorted(result, candidate{slot: n, dist: d}, k)
				frontier = insertSorted(frontier, candidate{slot: n, dist: d}, idx.efConstruction)
			}
		}
	}

	return result
}

// layerNeighbors returns the candidate neighbor slots of slot at layer,
// per the layer-0 fallback documented on searchLayer.
func (idx *Index[T]) layerNeighbors(slot, layer int) []int {
	if layer == 0 {
		all := make([]int, 0, len(idx.nodes)-1)
		for i := range idx.nodes {
			if i != slot {
				all = append(all, i)
			}
		}
		return all
	}
	if layer >= len(idx.nodes[slot].connections) {
		return nil
	}
	return idx.nodes[slot].connections[layer]
}

// Search returns up to k nearest neighbors of query, ascending by
// distance. Returns an empty slice on an empty index.
func (idx *Index[T]) Search(query []float32, k int) []SearchResult[T] {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.nodes) == 0 || idx.entryPoint < 0 {
		return nil
	}

	ep := []int{idx.entryPoint}
	topLevel := idx.nodes[idx.entryPoint].level()

	for layer := topLevel; layer > 0; layer-- {
		found := idx.searchLayer(query, ep, layer, 1)
		if len(found) == 0 {
			continue
		}
		ep = []int{found[0].slot}
	}

	found := idx.searchLayer(query, ep, 0, k)

	results := make([]SearchResult[T], len(found))
	for i, c := range found {
		n := &idx.nodes[c.slot]
		results[i] = SearchResult[T]{ID: n.id, Distance: c.dist, Payload: n.payload}
	}
	return results
}
