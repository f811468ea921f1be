// Package batch distributes encode_batch/decode_batch across a bounded
// worker pool while preserving input order (spec.md §4.5), the same
// errgroup.SetLimit fan-out shape the pack's own registry pull path uses for
// bounded concurrent work.
package batch

import (
	"context"
	"os"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"
)

const workerCountEnv = "WORDCHIPPER_WORKERS"

// WorkerCount resolves the worker-pool size (spec.md §6.4): the
// WORDCHIPPER_WORKERS environment variable if set to a positive integer,
// otherwise the logical CPU count.
func WorkerCount() int {
	if v := os.Getenv(workerCountEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}

// Run applies fn to each element of items concurrently, bounded to
// WorkerCount() in-flight calls, and returns results in input order. The
// first error returned by any fn cancels ctx for the remaining workers and
// is returned once every in-flight call has unwound.
func Run[In, Out any](ctx context.Context, items []In, fn func(context.Context, In) (Out, error)) ([]Out, error) {
	out := make([]Out, len(items))
	if len(items) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(WorkerCount())

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			result, err := fn(gctx, item)
			if err != nil {
				return err
			}
			out[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
