// Package parallel splits row-wise work over the available CPU cores.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultRowThreshold is the row count below which ForRows stays sequential.
const DefaultRowThreshold = 1000

// Parallelize divides items into contiguous ranges, one per CPU core, and runs
// fn on each range concurrently. It returns when every range is done.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ForRows runs fn over [0, rows) sequentially when rows <= threshold and in
// parallel otherwise. fn must only touch rows in its own range.
func ForRows(rows, threshold int, fn func(start, end int)) {
	if rows <= 0 {
		return
	}
	if rows <= threshold {
		fn(0, rows)
		return
	}
	Parallelize(rows, fn)
}
