// Package binning wraps internal/storage's rebin and sparse/dense fused
// kernels with the row-partitioned parallelism internal/concurrency
// provides. Rebin degrades to storage's plain serial implementation
// whenever dim is not the innermost axis or old has no outer axis, so
// callers never need to pick a path themselves; FusedOp always
// row-partitions.
package binning

import (
	"context"

	"scippgo/internal/concurrency"
	"scippgo/internal/dims"
	"scippgo/internal/errors"
	"scippgo/internal/storage"
)

// Rebin resamples old along dim from oldCoord to newCoord. It
// dispatches the inner-dimension fast path — a parallel loop over every
// outer row, each row swept independently by storage.RebinRow — whenever
// dim is old's innermost axis and old has at least one outer axis;
// otherwise it defers to storage.Rebin's serial recursion,
// which also correctly handles dim sitting anywhere in the axis order.
func Rebin(ctx context.Context, old storage.Buffer, dim dims.Dim, oldCoord, newCoord []float64) (storage.Buffer, error) {
	labels := old.Dims().Labels()
	innermost := len(labels) > 0 && labels[len(labels)-1] == dim
	if !innermost || len(labels) == 1 {
		return storage.Rebin(old, dim, oldCoord, newCoord)
	}
	if !old.Kind().Arithmetic() {
		return nil, errors.NewKindError("rebin: kind %s does not support arithmetic", old.Kind())
	}

	outerLabels := labels[:len(labels)-1]
	shape := make([]int, len(outerLabels))
	rows := 1
	for i, l := range outerLabels {
		n, _ := old.Dims().Extent(l)
		shape[i] = n
		rows *= n
	}

	target := old.Dims().Resize(dim, len(newCoord)-1)
	out := storage.NewZero(old.Kind(), target)

	err := concurrency.ForEachRow(ctx, rows, func(row int) error {
		idx := decompose(shape, row)
		oldRow, err := fixAxes(old, outerLabels, idx)
		if err != nil {
			return err
		}
		outRow, err := fixAxes(out, outerLabels, idx)
		if err != nil {
			return err
		}
		return storage.RebinRow(oldRow, outRow, oldCoord, newCoord)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// decompose turns a flat row index into per-axis indices over shape, in
// the same outermost-varies-slowest order Dimensions itself uses.
func decompose(shape []int, row int) []int {
	idx := make([]int, len(shape))
	for i := len(shape) - 1; i >= 0; i-- {
		idx[i] = row % shape[i]
		row /= shape[i]
	}
	return idx
}

func fixAxes(buf storage.Buffer, labels []dims.Dim, idx []int) (storage.Buffer, error) {
	cur := buf
	for i, l := range labels {
		next, err := storage.SliceDrop(cur, l, idx[i])
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// FusedOp applies the sparse/dense fused path to every outer
// row in parallel: row p's events are binned against weights[p, :] via
// storage.FusedOp, independently of every other row.
func FusedOp(ctx context.Context, coord [][]float64, trackVariance bool, edges []float64, weights storage.Buffer, op storage.Op) (values [][]float64, variances [][]float64, err error) {
	rows := len(coord)
	values = make([][]float64, rows)
	if trackVariance {
		variances = make([][]float64, rows)
	}

	outerLabels := weights.Dims().Labels()
	// weights is {outer..., dim}; drop the trailing (bin) axis's role by
	// treating only the outer labels as the row-fixing set.
	if len(outerLabels) > 0 {
		outerLabels = outerLabels[:len(outerLabels)-1]
	}
	shape := make([]int, len(outerLabels))
	for i, l := range outerLabels {
		n, _ := weights.Dims().Extent(l)
		shape[i] = n
	}

	err = concurrency.ForEachRow(ctx, rows, func(p int) error {
		var row storage.Buffer
		if len(outerLabels) == 0 {
			row = weights
		} else {
			idx := decompose(shape, p)
			r, ferr := fixAxes(weights, outerLabels, idx)
			if ferr != nil {
				return ferr
			}
			row = r
		}
		vals, vars, ferr := storage.FusedOp(coord[p], trackVariance, edges, row, op)
		if ferr != nil {
			return ferr
		}
		values[p] = vals
		if trackVariance {
			variances[p] = vars
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return values, variances, nil
}
