// Package transform implements the elementwise transform engine: given one
// or two operands, it resolves broadcast/alignment between their
// Dimensions, dispatches a kind-appropriate Storage operation across the
// aligned views, and combines units via a caller-supplied closure that runs
// once over the whole operation rather than once per element.
package transform

import (
	"scippgo/internal/dims"
	"scippgo/internal/errors"
	"scippgo/internal/kind"
	"scippgo/internal/storage"
	"scippgo/internal/unit"
)

// Operand bundles the three things an alignment decision needs: the
// element kind lives on Data itself (storage.Buffer.Kind()).
type Operand struct {
	Dims dims.Dimensions
	Unit unit.Unit
	Data storage.Buffer
}

// UnitFunc combines the two input units into the result unit.
type UnitFunc func(a, b unit.Unit) (unit.Unit, error)

// Binary implements the `+= −= *= /=` family: lhs.Dims must contain rhs.Dims (possibly reordered, possibly a
// strict superset via broadcasting). inPlace writes into lhs.Data itself;
// otherwise lhs.Data is cloned first and the original is left untouched.
func Binary(lhs, rhs Operand, op storage.Op, unitFn UnitFunc, inPlace bool) (storage.Buffer, error) {
	if lhs.Data.Kind() != rhs.Data.Kind() {
		return nil, errors.NewKindError("binary op: underlying data types do not match (%s vs %s)", lhs.Data.Kind(), rhs.Data.Kind())
	}
	if _, err := unitFn(lhs.Unit, rhs.Unit); err != nil {
		return nil, err
	}
	if !lhs.Dims.SupersetOf(rhs.Dims) {
		return nil, errors.NewDimensionError("binary op: dimensions do not match (%s vs %s)", lhs.Dims, rhs.Dims)
	}

	aligned, err := storage.NewView(rhs.Data, lhs.Dims, 0)
	if err != nil {
		return nil, err
	}

	out := lhs.Data
	if !inPlace {
		out = lhs.Data.Clone()
	}
	if err := storage.InPlaceOp(out, aligned, op); err != nil {
		return nil, err
	}
	return out, nil
}

// ResultUnit runs unitFn once, surfacing a UnitError the same way a
// failed precondition on the data side would.
func ResultUnit(a, b unit.Unit, unitFn UnitFunc) (unit.Unit, error) {
	return unitFn(a, b)
}

// AddUnits is the UnitFunc for `+`/`-`: addition and subtraction require
// equal units on both operands.
func AddUnits(a, b unit.Unit) (unit.Unit, error) {
	if !a.Equal(b) {
		return unit.Unit{}, errors.NewUnitError("add/sub: units differ (%s vs %s)", a, b)
	}
	return a, nil
}

// MulUnits is the UnitFunc for `*`: arbitrary units, result is the product.
func MulUnits(a, b unit.Unit) (unit.Unit, error) { return a.Mul(b), nil }

// DivUnits is the UnitFunc for `/`: arbitrary units, result is the quotient.
func DivUnits(a, b unit.Unit) (unit.Unit, error) { return a.Div(b), nil }

// Reduce implements the accumulation-shaped write used by sum(var, dim):
// target must already have Dims a subset of source.Dims and be
// zero-initialized. Every element of source is folded into the (possibly
// repeated, via the broadcast axis collapsing dim away) corresponding cell
// of target, in source's own lexicographic order, for reproducible
// floating-point results regardless of goroutine scheduling.
// Fused-kind sources (Events, EventSet) accumulate the same way their
// binary += does: list concatenation, not numeric addition (see
// storage.InPlaceOp). This is what lets sum() flatten a sparse axis's
// rows across a collapsed outer dimension instead of only numeric kinds.
func Reduce(target storage.Buffer, source storage.Buffer) error {
	if target.Kind() != source.Kind() {
		return errors.NewKindError("reduce: underlying data types do not match (%s vs %s)", target.Kind(), source.Kind())
	}
	if !target.Kind().Arithmetic() && !target.Kind().Fused() {
		return errors.NewKindError("reduce: kind %s does not support accumulation", target.Kind())
	}
	aligned, err := storage.BroadcastTo(target, source.Dims())
	if err != nil {
		return err
	}
	n := source.Len()
	switch source.Kind() {
	case kind.Float64:
		for i := 0; i < n; i++ {
			aligned.SetF64(i, aligned.F64(i)+source.F64(i))
		}
	case kind.Int64:
		for i := 0; i < n; i++ {
			aligned.SetI64(i, aligned.I64(i)+source.I64(i))
		}
	case kind.Events:
		for i := 0; i < n; i++ {
			aligned.SetEvents(i, append(append([]float64(nil), aligned.Events(i)...), source.Events(i)...))
			if aligned.TracksVariance() && source.TracksVariance() {
				aligned.SetVariances(i, append(append([]float64(nil), aligned.Variances(i)...), source.Variances(i)...))
			}
		}
	case kind.EventSet:
		for i := 0; i < n; i++ {
			merged := append(append([]storage.Nested(nil), aligned.NestedList(i)...), source.NestedList(i)...)
			aligned.SetNestedList(i, merged)
		}
	}
	return nil
}
