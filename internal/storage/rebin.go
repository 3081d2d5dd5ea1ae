package storage

import (
	"math"

	"scippgo/internal/dims"
	"scippgo/internal/errors"
	"scippgo/internal/kind"
)

// Rebin redistributes old's data along dim from the old edge set to the
// new one. old's other axes are iterated row by row; the
// per-row sweep itself lives in RebinRow so the row-parallel fast path in
// internal/binning can call the identical kernel without going through
// this serial outer-axis recursion.
func Rebin(old Buffer, dim dims.Dim, oldCoord, newCoord []float64) (Buffer, error) {
	if !old.Kind().Arithmetic() {
		return nil, errors.NewKindError("rebin: kind %s does not support arithmetic", old.Kind())
	}
	target := old.Dims().Resize(dim, len(newCoord)-1)
	out := newZeroOwned(old.Kind(), target)

	var outer []dims.Dim
	for _, l := range old.Dims().Labels() {
		if l != dim {
			outer = append(outer, l)
		}
	}
	if err := rebinRecurse(old, out, oldCoord, newCoord, outer, 0); err != nil {
		return nil, err
	}
	return out, nil
}

func rebinRecurse(old, out Buffer, oldCoord, newCoord []float64, outer []dims.Dim, pos int) error {
	if pos == len(outer) {
		return RebinRow(old, out, oldCoord, newCoord)
	}
	label := outer[pos]
	n, _ := old.Dims().Extent(label)
	for i := 0; i < n; i++ {
		oldRow, err := SliceDrop(old, label, i)
		if err != nil {
			return err
		}
		outRow, err := SliceDrop(out, label, i)
		if err != nil {
			return err
		}
		if err := rebinRecurse(oldRow, outRow, oldCoord, newCoord, outer, pos+1); err != nil {
			return err
		}
	}
	return nil
}

// RebinRow applies an area-overlap sweep to a single rank-1 row: old has
// length len(oldCoord)-1, out has length len(newCoord)-1 and must already
// be zeroed. The two-cursor advance rule: whichever bin's high edge comes
// first is the one that advances once its overlap with the other has been
// accounted for.
func RebinRow(old, out Buffer, oldCoord, newCoord []float64) error {
	n := len(oldCoord) - 1
	m := len(newCoord) - 1
	i, j := 0, 0
	for i < n && j < m {
		xoLow, xoHigh := oldCoord[i], oldCoord[i+1]
		xnLow, xnHigh := newCoord[j], newCoord[j+1]

		switch {
		case xnHigh <= xoLow:
			j++
		case xoHigh <= xnLow:
			i++
		default:
			overlap := min(xoHigh, xnHigh) - max(xoLow, xnLow)
			if overlap < 0 {
				overlap = 0
			}
			frac := overlap / (xoHigh - xoLow)
			accumulateRebin(old, out, i, j, frac)
			if xnHigh > xoHigh {
				i++
			} else {
				j++
			}
		}
	}
	return nil
}

func accumulateRebin(old, out Buffer, i, j int, frac float64) {
	switch old.Kind() {
	case kind.Float64:
		out.SetF64(j, out.F64(j)+old.F64(i)*frac)
	case kind.Int64:
		out.SetI64(j, out.I64(j)+int64(float64(old.I64(i))*frac))
	}
}

// eventVariance is the implicit variance carried by a single sparse
// "event" of weight 1 — a Poisson count, whose variance equals its mean.
const eventVariance = 1.0

// FusedOp implements the sparse/dense fused path: binning
// each raw abscissa in coord into weights (K bins described by the K+1
// uniformly-spaced edges) and combining the implicit per-event weight of
// 1 with the looked-up bin value via op. Returns a hard SparseError if
// edges are not (to floating-point tolerance) uniformly spaced.
func FusedOp(coord []float64, trackVariance bool, edges []float64, weights Buffer, op Op) (values, variances []float64, err error) {
	k := weights.Len()
	if len(edges) != k+1 {
		return nil, nil, errors.NewSparseError("fused op: %d edges for %d weight bins", len(edges), k)
	}
	if err := checkUniform(edges); err != nil {
		return nil, nil, err
	}

	offset := edges[0]
	scale := float64(k) / (edges[k] - edges[0])

	values = make([]float64, len(coord))
	if trackVariance {
		variances = make([]float64, len(coord))
	}
	for e, abscissa := range coord {
		bin := int(math.Floor((abscissa - offset) * scale))
		w := 0.0
		if bin >= 0 && bin < k {
			w = weights.F64(bin)
		}
		values[e] = op.apply(1, w)
		if trackVariance {
			variances[e] = fusedVariance(op, w)
		}
	}
	return values, variances, nil
}

// fusedVariance propagates eventVariance through op applied against the
// plain (variance-free) bin weight w, treating w as a constant multiplier
// or divisor of the event's own count.
func fusedVariance(op Op, w float64) float64 {
	switch op {
	case OpMul:
		return eventVariance * w * w
	case OpDiv:
		if w == 0 {
			return 0
		}
		return eventVariance / (w * w)
	default:
		return eventVariance
	}
}

func checkUniform(edges []float64) error {
	if len(edges) < 2 {
		return errors.NewSparseError("fused op: need at least one bin")
	}
	step := edges[1] - edges[0]
	const tol = 1e-9
	for i := 1; i < len(edges)-1; i++ {
		if d := edges[i+1] - edges[i]; absf(d-step) > tol*absf(step) {
			return errors.NewSparseError("fused op: non-uniform edges (step %v at bin %d, expected %v)", d, i, step)
		}
	}
	return nil
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
