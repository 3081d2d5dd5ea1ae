// Package concurrency implements bounded, row-partitioned parallelism for
// the two kernels that use it: the rebin inner-dimension kernel and the
// sparse/dense fused kernel. Both are "bulk parallel over disjoint
// row ranges" with no shared mutable state across rows and no
// suspension/cancellation — a shape that golang.org/x/sync/errgroup fits
// directly, giving first-error propagation (a single malformed row fails
// the whole operation) without hand-rolling worker/job/channel machinery.
package concurrency

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RowFunc processes one outer row, identified by its linear index in
// [0, rows). Implementations must only touch the output cells that
// belong to their own row — no two tasks may ever write to the same
// output cell, a guarantee the caller upholds by construction, not
// something this package enforces.
type RowFunc func(row int) error

// ForEachRow runs fn once per row in [0, rows). When there is a single row
// or the host has a single usable core, it runs serially in the calling
// goroutine. Otherwise rows are partitioned across GOMAXPROCS workers via
// errgroup.Group and the first error encountered is returned. A failing
// row stops only its own worker's chunk; the other workers run their
// chunks to completion.
func ForEachRow(ctx context.Context, rows int, fn RowFunc) error {
	if rows <= 0 {
		return nil
	}
	workers := runtime.GOMAXPROCS(0)
	if rows == 1 || workers <= 1 {
		for row := 0; row < rows; row++ {
			if err := fn(row); err != nil {
				return err
			}
		}
		return nil
	}
	if workers > rows {
		workers = rows
	}

	g, _ := errgroup.WithContext(ctx)
	chunk := (rows + workers - 1) / workers
	for w := 0; w < workers; w++ {
		begin := w * chunk
		end := begin + chunk
		if begin >= rows {
			break
		}
		if end > rows {
			end = rows
		}
		g.Go(func() error {
			for row := begin; row < end; row++ {
				if err := fn(row); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
