package ann

import "sort"

// InsertParallel inserts a whole batch in one call. The batch is
// validated as a unit before anything is mutated: any id already in the
// index, or repeated within items, rejects the entire call with
// ErrBatchDuplicateID and no side effects.
//
// Once validated, every item is pre-allocated into storage (empty
// connection lists, id map updated) before any neighbor search runs.
// The neighbor-candidate computation for the whole batch then runs
// concurrently across a small worker pool, reading that pre-allocated
// state as a fixed snapshot — including the batch's other new, still
// unlinked nodes, which are addressable as layer-0 candidates via the
// same all-nodes fallback searchLayer always uses, but carry no
// connections yet at any layer. An item's own slot, also present in
// that snapshot, is removed from its neighbor lists. The sequential commit pass that follows
// writes only each new node's own connection lists; unlike sequential
// Insert, it does not also write the reciprocal back-edge into the
// chosen neighbors. That one-way asymmetry is a deliberate property of
// the parallel path, not a bug: it is what lets the candidate
// computation run without per-node locking.
//
// Per-item results are returned in the same order as items. The degree
// of concurrency used for the candidate-computation phase is set at
// construction time via WithWorkerPoolSize (default runtime.NumCPU()).
func (idx *Index[T]) InsertParallel(items []Item[T]) ([]error, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if seen[it.ID] {
			return nil, batchDuplicateIDError(it.ID)
		}
		seen[it.ID] = true
		if _, exists := idx.idToSlot[it.ID]; exists {
			return nil, batchDuplicateIDError(it.ID)
		}
	}

	if len(items) == 0 {
		return nil, nil
	}

	type job struct {
		origIndex int
		item      Item[T]
		level     int
		slot      int
	}

	jobs := make([]job, len(items))
	for i, it := range items {
		jobs[i] = job{origIndex: i, item: it, level: idx.generateLevel()}
	}

	// Stable descending-level sort: the highest-level item among the
	// whole batch comes first, so it is the entry-point candidate (and,
	// on an empty index, the traversal seed); equal levels keep input
	// order.
	sort.SliceStable(jobs, func(a, b int) bool { return jobs[a].level > jobs[b].level })

	preEntryPoint := idx.entryPoint
	preEntryLevel := -1
	if preEntryPoint >= 0 {
		preEntryLevel = idx.nodes[preEntryPoint].level()
	}

	for i := range jobs {
		slot := len(idx.nodes)
		idx.nodes = append(idx.nodes, node[T]{
			id:          jobs[i].item.ID,
			embedding:   jobs[i].item.Embedding,
			payload:     jobs[i].item.Payload,
			connections: make([][]int, jobs[i].level+1),
		})
		idx.idToSlot[jobs[i].item.ID] = slot
		jobs[i].slot = slot
	}

	// The snapshot's traversal seed: the pre-batch entry point if one
	// existed, otherwise the batch's own highest-level node (already
	// pre-allocated above, so it's a valid slot to search from). That
	// node can't search from itself, so it gets no links of its own —
	// matching sequential Insert's "first node has no neighbors" rule.
	seedSlot := preEntryPoint
	if seedSlot < 0 {
		seedSlot = jobs[0].slot
	}

	links := make([][][]int, len(jobs))
	pool := newWorkerPool(idx.poolSize)
	pool.run(len(jobs), func(i int) {
		if jobs[i].slot == seedSlot {
			links[i] = make([][]int, jobs[i].level+1)
			return
		}
		links[i] = idx.computeLinks(jobs[i].item.Embedding, jobs[i].level, seedSlot)
		for layer := range links[i] {
			links[i][layer] = removeInt(links[i][layer], jobs[i].slot)
		}
	})

	for i := range jobs {
		idx.applyLinksOneWay(jobs[i].slot, links[i])
	}

	switch {
	case preEntryPoint < 0:
		idx.entryPoint = jobs[0].slot
	case jobs[0].level > preEntryLevel:
		idx.entryPoint = jobs[0].slot
	}

	results := make([]error, len(items))
	for _, j := range jobs {
		results[j.origIndex] = nil
	}
	return results, nil
}

// applyLinksOneWay writes links into slot's own connection lists only,
// without appending the reciprocal back-edge into the chosen neighbors.
func (idx *Index[T]) applyLinksOneWay(slot int, links [][]int) {
	for layer, neighbors := range links {
		idx.nodes[slot].connections[layer] = neighbors
	}
}
