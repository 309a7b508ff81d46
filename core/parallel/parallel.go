// Package parallel splits row loops over matrices across CPU cores.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the row count below which Rows stays sequential.
const DefaultThreshold = 1000

// Parallelize divides items into one contiguous range per CPU core and runs
// fn on each range concurrently. It returns after every range is done.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
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

// Rows runs fn over [0, rows) in parallel when rows exceeds threshold and
// sequentially otherwise. fn must only touch rows inside its range.
func Rows(rows, threshold int, fn func(start, end int)) {
	if rows <= 0 {
		return
	}
	if rows <= threshold {
		fn(0, rows)
		return
	}
	Parallelize(rows, fn)
}
