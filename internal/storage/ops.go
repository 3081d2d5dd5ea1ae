package storage

import (
	"scippgo/internal/dims"
	"scippgo/internal/errors"
	"scippgo/internal/kind"
)

// SliceKeep returns a Buffer presenting buf's Dimensions with dim's extent
// shrunk to [begin,end), the rank-preserving slice form. The
// source may be Owned or itself a View; composition always goes through
// the view's own addressing (see view.go's package doc), so slicing a
// slice needs no special case.
func SliceKeep(buf Buffer, dim dims.Dim, begin, end int) (Buffer, error) {
	base, err := sliceBase(buf, dim, begin)
	if err != nil {
		return nil, err
	}
	target := buf.Dims().Resize(dim, end-begin)
	return NewView(buf, target, base)
}

// SliceDrop returns a Buffer with dim removed entirely, fixed at index:
// the rank-reducing slice form used when the caller asked the axis to
// disappear rather than shrink to a single-element extent.
func SliceDrop(buf Buffer, dim dims.Dim, index int) (Buffer, error) {
	base, err := sliceBase(buf, dim, index)
	if err != nil {
		return nil, err
	}
	target := buf.Dims().Erase(dim)
	return NewView(buf, target, base)
}

// sliceBase resolves the linear index, in buf's own addressing, of the
// element at position begin along dim, leaving every other axis at its
// first position. Every Buffer addresses itself densely over its own
// Dims(), so for an Owned buffer and a View alike that is simply
// begin times dim's dense stride in buf.Dims().
func sliceBase(buf Buffer, dim dims.Dim, begin int) (int, error) {
	stride, ok := buf.Dims().Stride(dim)
	if !ok {
		return 0, errors.NewDimensionError("slice: dimension %s not present", dim)
	}
	return begin * stride, nil
}

// BroadcastTo builds a Buffer presenting target over buf, adding stride-0
// axes for any label in target that buf.Dims() lacks.
// buf must already be Owned, or its Dims() must be a superset of target's
// restricted-to-buf-labels view, i.e. the usual "L superset R" broadcast
// precondition; callers materialize a non-Owned operand first (Clone())
// when it doesn't already contain every axis it needs to keep.
func BroadcastTo(buf Buffer, target dims.Dimensions) (Buffer, error) {
	return NewView(buf, target, 0)
}

// Equals reports whether a and b have equal Dims() and element-wise equal
// data. Units are compared by the caller (internal/
// variable), since Storage has no notion of units.
func Equals(a, b Buffer) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if !a.Dims().Equal(b.Dims()) {
		return false
	}
	n := a.Len()
	switch a.Kind() {
	case kind.Float64:
		for i := 0; i < n; i++ {
			if a.F64(i) != b.F64(i) {
				return false
			}
		}
	case kind.Int64:
		for i := 0; i < n; i++ {
			if a.I64(i) != b.I64(i) {
				return false
			}
		}
	case kind.Bool:
		for i := 0; i < n; i++ {
			if a.Bool(i) != b.Bool(i) {
				return false
			}
		}
	case kind.String:
		for i := 0; i < n; i++ {
			if a.Str(i) != b.Str(i) {
				return false
			}
		}
	case kind.Vector3:
		for i := 0; i < n; i++ {
			if a.Vec3(i) != b.Vec3(i) {
				return false
			}
		}
	case kind.Dataset:
		for i := 0; i < n; i++ {
			if !a.NestedAt(i).EqualNested(b.NestedAt(i)) {
				return false
			}
		}
	case kind.Events:
		for i := 0; i < n; i++ {
			if !equalFloats(a.Events(i), b.Events(i)) {
				return false
			}
		}
	case kind.EventSet:
		for i := 0; i < n; i++ {
			ar, br := a.NestedList(i), b.NestedList(i)
			if len(ar) != len(br) {
				return false
			}
			for j := range ar {
				if !ar[j].EqualNested(br[j]) {
					return false
				}
			}
		}
	}
	return true
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// InPlaceOp applies op element-wise, writing into self (self.Dims() ==
// other.Dims(); the caller has already aligned the two via broadcasting).
// For Float64/Int64 this is ordinary arithmetic. For the fused-special
// kinds (Events, EventSet) only op == OpAdd is meaningful and it means
// list concatenation, not numeric addition; any other op on a
// non-arithmetic kind is a KindError.
func InPlaceOp(self, other Buffer, op Op) error {
	if self.Kind() != other.Kind() {
		return errors.NewKindError("op: kind mismatch %s vs %s", self.Kind(), other.Kind())
	}
	n := self.Len()
	switch self.Kind() {
	case kind.Float64:
		for i := 0; i < n; i++ {
			self.SetF64(i, op.apply(self.F64(i), other.F64(i)))
		}
	case kind.Int64:
		for i := 0; i < n; i++ {
			self.SetI64(i, op.applyInt(self.I64(i), other.I64(i)))
		}
	case kind.Events:
		if op != OpAdd {
			return errors.NewKindError("op: %v not supported on kind %s", op, self.Kind())
		}
		for i := 0; i < n; i++ {
			self.SetEvents(i, append(append([]float64(nil), self.Events(i)...), other.Events(i)...))
			if self.TracksVariance() && other.TracksVariance() {
				self.SetVariances(i, append(append([]float64(nil), self.Variances(i)...), other.Variances(i)...))
			}
		}
	case kind.EventSet:
		if op != OpAdd {
			return errors.NewKindError("op: %v not supported on kind %s", op, self.Kind())
		}
		for i := 0; i < n; i++ {
			merged := append(append([]Nested(nil), self.NestedList(i)...), other.NestedList(i)...)
			self.SetNestedList(i, merged)
		}
	default:
		return errors.NewKindError("op: kind %s does not support arithmetic", self.Kind())
	}
	return nil
}

// CopyBlock copies every element of src into the sub-region of dst
// selected by [destBegin,destEnd) along dim — writing one of the two
// input blocks of a concatenation into the freshly allocated result.
// When src lacks dim altogether it is broadcast across the block, which
// is only sound when the block has length 1 (concatenation that
// introduces a brand new axis); the caller is responsible for first
// Clone()-ing any non-Owned src so BroadcastTo can compute fresh strides
// against a real dense layout.
func CopyBlock(dst Buffer, dim dims.Dim, destBegin, destEnd int, src Buffer) error {
	region, err := SliceKeep(dst, dim, destBegin, destEnd)
	if err != nil {
		return err
	}
	aligned := src
	if !src.Dims().Contains(dim) {
		if destEnd-destBegin != 1 {
			return errors.NewDimensionError("concatenate: operand missing dimension %s for a block of length %d", dim, destEnd-destBegin)
		}
		aligned, err = BroadcastTo(src, region.Dims())
		if err != nil {
			return err
		}
	}
	return copyElements(region, aligned)
}

// Relabel renames the axis currently called dim to newLabel, without
// touching any element. Valid on both an Owned buffer (a shallow copy sharing the same backing slices, same
// idea as Reshape) and a View (only its declared target Dimensions
// changes; the underlying strided.View keys everything by axis
// position, never by label, so it needs no rebuilding).
func Relabel(buf Buffer, dim dims.Dim, newLabel dims.Dim) (Buffer, error) {
	idx := -1
	for i, l := range buf.Dims().Labels() {
		if l == dim {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.NewDimensionError("rename: dimension %s not present", dim)
	}
	switch b := buf.(type) {
	case *Owned:
		out := *b
		out.d = out.d.Relabel(idx, newLabel)
		return &out, nil
	case *View:
		out := *b
		out.target = out.target.Relabel(idx, newLabel)
		return &out, nil
	default:
		return nil, errors.NewKindError("rename: unsupported buffer type %T", buf)
	}
}

func copyElements(dst, src Buffer) error {
	if dst.Kind() != src.Kind() {
		return errors.NewKindError("copy: kind mismatch %s vs %s", dst.Kind(), src.Kind())
	}
	n := dst.Len()
	switch dst.Kind() {
	case kind.Float64:
		for i := 0; i < n; i++ {
			dst.SetF64(i, src.F64(i))
		}
	case kind.Int64:
		for i := 0; i < n; i++ {
			dst.SetI64(i, src.I64(i))
		}
	case kind.Bool:
		for i := 0; i < n; i++ {
			dst.SetBool(i, src.Bool(i))
		}
	case kind.String:
		for i := 0; i < n; i++ {
			dst.SetStr(i, src.Str(i))
		}
	case kind.Vector3:
		for i := 0; i < n; i++ {
			dst.SetVec3(i, src.Vec3(i))
		}
	case kind.Dataset:
		for i := 0; i < n; i++ {
			dst.SetNestedAt(i, src.NestedAt(i).CloneNested())
		}
	case kind.Events:
		for i := 0; i < n; i++ {
			dst.SetEvents(i, append([]float64(nil), src.Events(i)...))
			if src.TracksVariance() {
				dst.SetVariances(i, append([]float64(nil), src.Variances(i)...))
			}
		}
	case kind.EventSet:
		for i := 0; i < n; i++ {
			row := src.NestedList(i)
			cp := make([]Nested, len(row))
			for j, el := range row {
				cp[j] = el.CloneNested()
			}
			dst.SetNestedList(i, cp)
		}
	}
	return nil
}
