package ann

import "sync"

// workerPool runs a fixed number of jobs concurrently over a bounded set
// of work items, then waits for all of them to finish. Unlike a
// general-purpose pool, it has no dynamic sizing, no submission after
// start, and no cancellation: the candidate-computation phase it serves
// runs to completion or not at all, so neither is needed.
type workerPool struct {
	size int
}

// newWorkerPool creates a pool that will run at most size jobs at once.
// size < 1 is treated as 1 (no parallelism, but still correct).
func newWorkerPool(size int) *workerPool {
	if size < 1 {
		size = 1
	}
	return &workerPool{size: size}
}

// run executes fn(i) for i in [0, n) across the pool, blocking until
// every call has returned. fn must be safe to call concurrently with
// itself; it must not mutate shared state other than its own slot in a
// caller-provided result slice.
func (p *workerPool) run(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	jobs := make(chan int)

	var wg sync.WaitGroup
	workers := p.size
	if workers > n {
		workers = n
	}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
