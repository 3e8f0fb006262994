// Package ann provides an in-memory Approximate Nearest Neighbor index
// using HNSW (Hierarchical Navigable Small World graphs), following the
// algorithm from Malkov & Yashunin (2018): "Efficient and robust
// approximate nearest neighbor using Hierarchical Navigable Small World
// graphs" — https://arxiv.org/abs/1603.09320
//
// The index maps caller-chosen string ids (plus an optional generic
// payload) to dense f32 embedding vectors, and answers k-nearest-neighbor
// queries under a configurable distance metric. Insertion comes in three
// shapes: single-item, batched-sequential, and batched-parallel (which
// fans the neighbor-candidate computation for a whole batch out across a
// small worker pool before committing it in one sequential pass).
//
// Every exported Index method requires exclusive access from the caller;
// the one exception is the read-only parallel phase that InsertParallel
// manages internally.
package ann
