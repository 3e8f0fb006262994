package ann

// Remove deletes id from the index, re-linking every neighbor that
// referenced it and compacting the storage slice so slot indices stay
// dense. This touches every remaining node's connection lists (to shift
// slot numbers past the removed one), so it costs O(n * average degree)
// rather than the O(degree) a tombstone or free-list scheme would give —
// a deliberate simplicity-over-throughput tradeoff for an in-memory
// index.
func (idx *Index[T]) Remove(id string) (*T, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.removeLocked(id)
}

func (idx *Index[T]) removeLocked(id string) (*T, error) {
	slot, ok := idx.idToSlot[id]
	if !ok {
		return nil, notFoundError(id)
	}
	payload := idx.nodes[slot].payload

	for layer, conns := range idx.nodes[slot].connections {
		for _, n := range conns {
			if layer < len(idx.nodes[n].connections) {
				idx.nodes[n].connections[layer] = removeInt(idx.nodes[n].connections[layer], slot)
			}
		}
	}

	delete(idx.idToSlot, id)
	idx.nodes = append(idx.nodes[:slot], idx.nodes[slot+1:]...)

	// Every stored slot reference past the removed one shifts down by
	// one; any straggler reference to the removed slot itself (there
	// shouldn't be one, given the unlink pass above) is dropped rather
	// than left dangling.
	for i := range idx.nodes {
		for layer := range idx.nodes[i].connections {
			conns := idx.nodes[i].connections[layer]
			out := conns[:0]
			for _, n := range conns {
				switch {
				case n == slot:
					continue
				case n > slot:
					out = append(out, n-1)
				default:
					out = append(out, n)
				}
			}
			idx.nodes[i].connections[layer] = out
		}
	}

	for i := slot; i < len(idx.nodes); i++ {
		idx.idToSlot[idx.nodes[i].id] = i
	}

	switch {
	case len(idx.nodes) == 0:
		idx.entryPoint = -1
	case idx.entryPoint == slot:
		idx.entryPoint = idx.highestLevelSlot()
	case idx.entryPoint > slot:
		idx.entryPoint--
	}

	return payload, nil
}

// highestLevelSlot returns the slot of the node with the greatest level,
// breaking ties toward the lowest slot index. Used to pick a fresh entry
// point after the current one is removed.
func (idx *Index[T]) highestLevelSlot() int {
	best := 0
	for i := 1; i < len(idx.nodes); i++ {
		if idx.nodes[i].level() > idx.nodes[best].level() {
			best = i
		}
	}
	return best
}

// RemoveMultiple removes every id in ids, or none of them: it validates
// that all ids exist (and that ids contains no repeats) before removing
// anything, so a single bad id leaves the index untouched. On success
// the returned payloads are in the same order as ids.
func (idx *Index[T]) RemoveMultiple(ids []string) ([]*T, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, notFoundError(id)
		}
		seen[id] = true
		if _, ok := idx.idToSlot[id]; !ok {
			return nil, notFoundError(id)
		}
	}

	payloads := make([]*T, len(ids))
	for i, id := range ids {
		p, err := idx.removeLocked(id)
		if err != nil {
			return nil, err
		}
		payloads[i] = p
	}
	return payloads, nil
}

func removeInt(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
