// Package variable implements Variable: a unit, a Dimensions,
// and a Storage handle, plus operations that work uniformly on an owned
// Variable or a borrowed slice-view of one.
package variable

import (
	"math"

	"scippgo/internal/dims"
	"scippgo/internal/errors"
	"scippgo/internal/kind"
	"scippgo/internal/storage"
	"scippgo/internal/transform"
	"scippgo/internal/unit"
)

// Variable is a value type: its Dimensions live entirely on data.Dims(),
// so relabeling or reshaping always goes through data rather than two
// copies of the same shape drifting apart. readOnly marks a borrow taken
// via AsReadOnly; every mutating method checks it and returns
// errors.InvalidState instead of writing.
type Variable struct {
	name     string
	u        unit.Unit
	data     storage.Buffer
	readOnly bool
}

// NewFloat64 builds a Variable owning a dense Float64 buffer.
func NewFloat64(name string, u unit.Unit, d dims.Dimensions, values []float64) Variable {
	return Variable{name: name, u: u, data: storage.NewFloat64(d, values)}
}

// NewInt64 builds a Variable owning a dense Int64 buffer.
func NewInt64(name string, u unit.Unit, d dims.Dimensions, values []int64) Variable {
	return Variable{name: name, u: u, data: storage.NewInt64(d, values)}
}

// NewBool builds a Variable owning a dense Bool buffer.
func NewBool(name string, u unit.Unit, d dims.Dimensions, values []bool) Variable {
	return Variable{name: name, u: u, data: storage.NewBool(d, values)}
}

// NewString builds a Variable owning a dense String buffer.
func NewString(name string, u unit.Unit, d dims.Dimensions, values []string) Variable {
	return Variable{name: name, u: u, data: storage.NewString(d, values)}
}

// NewVector3 builds a Variable owning a dense Vector3 buffer.
func NewVector3(name string, u unit.Unit, d dims.Dimensions, values [][3]float64) Variable {
	return Variable{name: name, u: u, data: storage.NewVector3(d, values)}
}

// NewEvents builds a Variable owning a sparse Events buffer.
func NewEvents(name string, u unit.Unit, d dims.Dimensions, events, variances [][]float64) Variable {
	return Variable{name: name, u: u, data: storage.NewEvents(d, events, variances)}
}

// Zero builds a default-initialized Variable of the given kind.
func Zero(name string, k kind.Kind, u unit.Unit, d dims.Dimensions) Variable {
	return Variable{name: name, u: u, data: storage.NewZero(k, d)}
}

// FromScalar builds a rank-0 Float64 Variable holding a single value.
func FromScalar(value float64, u unit.Unit) Variable {
	return NewFloat64("", u, dims.Empty(), []float64{value})
}

func (v Variable) Name() string          { return v.name }
func (v Variable) Unit() unit.Unit       { return v.u }
func (v Variable) Dims() dims.Dimensions { return v.data.Dims() }
func (v Variable) Kind() kind.Kind       { return v.data.Kind() }
func (v Variable) Len() int              { return v.data.Len() }
func (v Variable) ReadOnly() bool        { return v.readOnly }

// Data exposes the underlying Storage handle for collaborators (internal/
// dataset, internal/binning) that operate directly on buffers.
func (v Variable) Data() storage.Buffer { return v.data }

// AsReadOnly returns a copy of v marked so that every in-place operation
// on it fails with InvalidState instead of writing.
func (v Variable) AsReadOnly() Variable {
	out := v
	out.readOnly = true
	return out
}

// Float64Values materializes a copy of every element as a []float64,
// erroring if v's kind isn't float64.
func (v Variable) Float64Values() ([]float64, error) {
	if v.Kind() != kind.Float64 {
		return nil, errors.NewTypeError("values: variable kind is %s, not float64", v.Kind())
	}
	n := v.data.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = v.data.F64(i)
	}
	return out, nil
}

// Int64Values materializes a copy of every element as a []int64.
func (v Variable) Int64Values() ([]int64, error) {
	if v.Kind() != kind.Int64 {
		return nil, errors.NewTypeError("values: variable kind is %s, not int64", v.Kind())
	}
	n := v.data.Len()
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = v.data.I64(i)
	}
	return out, nil
}

// BoolValues materializes a copy of every element as a []bool.
func (v Variable) BoolValues() ([]bool, error) {
	if v.Kind() != kind.Bool {
		return nil, errors.NewTypeError("values: variable kind is %s, not bool", v.Kind())
	}
	n := v.data.Len()
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		out[i] = v.data.Bool(i)
	}
	return out, nil
}

// SparseFloat64Values returns a copy of the row-th sparse container.
// row indexes the dense (outer) axes only.
func (v Variable) SparseFloat64Values(row int) ([]float64, error) {
	if !v.Kind().Sparse() {
		return nil, errors.NewTypeError("sparse_values: variable kind %s is not sparse", v.Kind())
	}
	return append([]float64(nil), v.data.Events(row)...), nil
}

// Slice implements a two-mode descriptor: end == -1 takes a single
// index and drops dim from the result; otherwise [begin,end) is kept
// with dim's extent shrunk accordingly. The result borrows v's storage
// (no element copy) and inherits v's read-only flag.
func (v Variable) Slice(dim dims.Dim, begin, end int) (Variable, error) {
	var buf storage.Buffer
	var err error
	if end == -1 {
		buf, err = storage.SliceDrop(v.data, dim, begin)
	} else {
		if begin < 0 || end < begin {
			return Variable{}, errors.NewSliceError("slice: invalid range [%d,%d) for %s", begin, end, dim)
		}
		buf, err = storage.SliceKeep(v.data, dim, begin, end)
	}
	if err != nil {
		return Variable{}, err
	}
	return Variable{name: v.name, u: v.u, data: buf, readOnly: v.readOnly}, nil
}

// Reshape relabels/reshapes v's Dimensions: legal
// only when the new Dimensions has the same volume. An owned Variable is
// relabeled in place (shared backing slices); a view is copied to a
// contiguous buffer first, since a strided view has no single "in
// place" reinterpretation of its shape.
func (v Variable) Reshape(newDims dims.Dimensions) (Variable, error) {
	owned, ok := v.data.(*storage.Owned)
	if !ok {
		owned = v.data.Clone().(*storage.Owned)
	}
	out, err := owned.Reshape(newDims)
	if err != nil {
		return Variable{}, errors.NewDimensionError("%v", err)
	}
	return Variable{name: v.name, u: v.u, data: out, readOnly: v.readOnly}, nil
}

// Transpose reorders v's axes to order, producing a non-contiguous view
// unless order is already v's axis order.
func (v Variable) Transpose(order []dims.Dim) (Variable, error) {
	cur := v.Dims()
	extents := make([]int, len(order))
	for i, l := range order {
		e, ok := cur.Extent(l)
		if !ok {
			return Variable{}, errors.NewDimensionError("transpose: dimension %s not present", l)
		}
		extents[i] = e
	}
	target := dims.New(order, extents)
	buf, err := storage.NewView(v.data, target, 0)
	if err != nil {
		return Variable{}, err
	}
	return Variable{name: v.name, u: v.u, data: buf, readOnly: v.readOnly}, nil
}

// Rename relabels axis from to to, without moving any element.
func (v Variable) Rename(from, to dims.Dim) (Variable, error) {
	buf, err := storage.Relabel(v.data, from, to)
	if err != nil {
		return Variable{}, err
	}
	return Variable{name: v.name, u: v.u, data: buf, readOnly: v.readOnly}, nil
}

// Equal reports equal units, names, dims (as sets, any order), and every
// element under lhs's iteration order.
func (v Variable) Equal(other Variable) bool {
	if !v.u.Equal(other.u) || v.name != other.name {
		return false
	}
	if v.Kind() != other.Kind() || !v.Dims().SameSet(other.Dims()) {
		return false
	}
	aligned, err := storage.NewView(other.data, v.Dims(), 0)
	if err != nil {
		return false
	}
	return storage.Equals(v.data, aligned)
}

func (v Variable) binary(other Variable, op storage.Op, unitFn transform.UnitFunc) (Variable, error) {
	ru, err := unitFn(v.u, other.u)
	if err != nil {
		return Variable{}, err
	}
	out, err := transform.Binary(
		transform.Operand{Dims: v.Dims(), Unit: v.u, Data: v.data},
		transform.Operand{Dims: other.Dims(), Unit: other.u, Data: other.data},
		op, unitFn, false,
	)
	if err != nil {
		return Variable{}, err
	}
	return Variable{name: v.name, u: ru, data: out}, nil
}

func (v *Variable) binaryAssign(other Variable, op storage.Op, unitFn transform.UnitFunc) error {
	if v.readOnly {
		return errors.NewInvalidState("mutation through a const view")
	}
	ru, err := unitFn(v.u, other.u)
	if err != nil {
		return err
	}
	out, err := transform.Binary(
		transform.Operand{Dims: v.Dims(), Unit: v.u, Data: v.data},
		transform.Operand{Dims: other.Dims(), Unit: other.u, Data: other.data},
		op, unitFn, true,
	)
	if err != nil {
		return err
	}
	v.data = out
	v.u = ru
	return nil
}

// Add returns v+other. Units must be equal.
func (v Variable) Add(other Variable) (Variable, error) { return v.binary(other, storage.OpAdd, transform.AddUnits) }

// Sub returns v-other. Units must be equal.
func (v Variable) Sub(other Variable) (Variable, error) { return v.binary(other, storage.OpSub, transform.AddUnits) }

// Mul returns v*other. Units combine as a product.
func (v Variable) Mul(other Variable) (Variable, error) { return v.binary(other, storage.OpMul, transform.MulUnits) }

// Div returns v/other. Units combine as a quotient.
func (v Variable) Div(other Variable) (Variable, error) { return v.binary(other, storage.OpDiv, transform.DivUnits) }

// AddAssign implements v += other in place.
func (v *Variable) AddAssign(other Variable) error { return v.binaryAssign(other, storage.OpAdd, transform.AddUnits) }

// SubAssign implements v -= other in place.
func (v *Variable) SubAssign(other Variable) error { return v.binaryAssign(other, storage.OpSub, transform.AddUnits) }

// MulAssign implements v *= other in place.
func (v *Variable) MulAssign(other Variable) error { return v.binaryAssign(other, storage.OpMul, transform.MulUnits) }

// DivAssign implements v /= other in place.
func (v *Variable) DivAssign(other Variable) error { return v.binaryAssign(other, storage.OpDiv, transform.DivUnits) }

// Concatenate joins a and b along dim. Element
// kind, unit, and name must match. When dim is already the sparse axis
// of both operands, their per-row containers are concatenated row-wise;
// when dim is absent from both operands entirely, a brand new axis of
// extent 2 is introduced ahead of the shared shape;
// otherwise every other dense axis must already agree and the result is
// allocated with dim's extent equal to the sum of the two inputs'.
func Concatenate(a, b Variable, dim dims.Dim) (Variable, error) {
	if a.Kind() != b.Kind() {
		return Variable{}, errors.NewKindError("concatenate: kind mismatch %s vs %s", a.Kind(), b.Kind())
	}
	if !a.u.Equal(b.u) {
		return Variable{}, errors.NewUnitError("concatenate: units differ (%s vs %s)", a.u, b.u)
	}
	if a.name != b.name {
		return Variable{}, errors.NewDimensionError("concatenate: name mismatch %q vs %q", a.name, b.name)
	}

	ad, bd := a.Dims(), b.Dims()

	if ad.IsSparse() && bd.IsSparse() {
		labels := ad.Labels()
		if labels[len(labels)-1] == dim {
			return concatenateSparse(a, b, dim)
		}
	}

	if !ad.Contains(dim) && !bd.Contains(dim) {
		if !ad.SameSet(bd) {
			return Variable{}, errors.NewDimensionError("concatenate: dims mismatch for new axis %s", dim)
		}
		labels := append([]dims.Dim{dim}, ad.Labels()...)
		extents := append([]int{2}, ad.Shape()...)
		target := dims.New(labels, extents)
		out := storage.NewZero(a.Kind(), target)
		if err := storage.CopyBlock(out, dim, 0, 1, a.data); err != nil {
			return Variable{}, err
		}
		if err := storage.CopyBlock(out, dim, 1, 2, b.data); err != nil {
			return Variable{}, err
		}
		return Variable{name: a.name, u: a.u, data: out}, nil
	}

	an, ok := ad.Extent(dim)
	if !ok {
		return Variable{}, errors.NewDimensionError("concatenate: dimension %s not present on a", dim)
	}
	bn, ok := bd.Extent(dim)
	if !ok {
		return Variable{}, errors.NewDimensionError("concatenate: dimension %s not present on b", dim)
	}
	for _, l := range ad.Labels() {
		if l == dim {
			continue
		}
		ea, _ := ad.Extent(l)
		eb, ok := bd.Extent(l)
		if !ok || ea != eb {
			return Variable{}, errors.NewDimensionError("concatenate: axis %s extents disagree", l)
		}
	}

	target := ad.Resize(dim, an+bn)
	out := storage.NewZero(a.Kind(), target)
	if err := storage.CopyBlock(out, dim, 0, an, a.data); err != nil {
		return Variable{}, err
	}
	if err := storage.CopyBlock(out, dim, an, an+bn, b.data); err != nil {
		return Variable{}, err
	}
	return Variable{name: a.name, u: a.u, data: out}, nil
}

func concatenateSparse(a, b Variable, dim dims.Dim) (Variable, error) {
	ad := a.Dims()
	if !ad.SameSet(b.Dims()) {
		return Variable{}, errors.NewDimensionError("concatenate: outer dims mismatch for sparse axis %s", dim)
	}
	rows := ad.DenseVolume()
	out := storage.NewZero(a.Kind(), ad).(*storage.Owned)
	switch a.Kind() {
	case kind.Events:
		for i := 0; i < rows; i++ {
			merged := append(append([]float64(nil), a.data.Events(i)...), b.data.Events(i)...)
			out.SetEvents(i, merged)
			if a.data.TracksVariance() && b.data.TracksVariance() {
				mv := append(append([]float64(nil), a.data.Variances(i)...), b.data.Variances(i)...)
				out.SetVariances(i, mv)
			}
		}
	case kind.EventSet:
		for i := 0; i < rows; i++ {
			row := append(append([]storage.Nested(nil), a.data.NestedList(i)...), b.data.NestedList(i)...)
			out.SetNestedList(i, row)
		}
	default:
		return Variable{}, errors.NewSparseError("concatenate: kind %s is not sparse", a.Kind())
	}
	return Variable{name: a.name, u: a.u, data: out}, nil
}

// Split partitions v along dim at the given sorted, unique, in-range
// indices. Empty indices returns []Variable{v}.
func Split(v Variable, dim dims.Dim, indices []int) ([]Variable, error) {
	n, ok := v.Dims().Extent(dim)
	if !ok {
		return nil, errors.NewDimensionError("split: dimension %s not present", dim)
	}
	if len(indices) == 0 {
		return []Variable{v}, nil
	}
	bounds := make([]int, 0, len(indices)+2)
	bounds = append(bounds, 0)
	bounds = append(bounds, indices...)
	bounds = append(bounds, n)

	out := make([]Variable, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		part, err := v.Slice(dim, bounds[i], bounds[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, part)
	}
	return out, nil
}

// Filter keeps the rows of v along dim for which mask[i] != 0. mask must
// be rank-1 with label dim.
func Filter(v Variable, dim dims.Dim, mask Variable) (Variable, error) {
	md := mask.Dims()
	if md.Rank() != 1 {
		return Variable{}, errors.NewDimensionError("filter: mask must be rank 1")
	}
	if md.Labels()[0] != dim {
		return Variable{}, errors.NewDimensionError("filter: mask dimension %s does not match %s", md.Labels()[0], dim)
	}
	n, ok := v.Dims().Extent(dim)
	if !ok {
		return Variable{}, errors.NewDimensionError("filter: dimension %s not present", dim)
	}
	if mask.Len() != n {
		return Variable{}, errors.NewDimensionError("filter: mask length %d does not match extent %d", mask.Len(), n)
	}

	var rows []Variable
	for i := 0; i < n; i++ {
		if !truthy(mask, i) {
			continue
		}
		row, err := v.Slice(dim, i, i+1)
		if err != nil {
			return Variable{}, err
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		target := v.Dims().Resize(dim, 0)
		return Variable{name: v.name, u: v.u, data: storage.NewZero(v.Kind(), target)}, nil
	}
	result := rows[0]
	for _, r := range rows[1:] {
		merged, err := Concatenate(result, r, dim)
		if err != nil {
			return Variable{}, err
		}
		result = merged
	}
	return result, nil
}

func truthy(mask Variable, i int) bool {
	switch mask.Kind() {
	case kind.Bool:
		return mask.data.Bool(i)
	case kind.Float64:
		return mask.data.F64(i) != 0
	case kind.Int64:
		return mask.data.I64(i) != 0
	default:
		return false
	}
}

// Sum erases dim from v's dims, zero-initializes the result, and
// accumulates every element of v into it. Unit is preserved. For the
// fused-special kinds (Events, EventSet) "accumulate" means flattening
// every row's sparse container into the one row left after dim collapses,
// the same list-concatenation semantics += uses on those kinds.
func Sum(v Variable, dim dims.Dim) (Variable, error) {
	if !v.Kind().Arithmetic() && !v.Kind().Fused() {
		return Variable{}, errors.NewKindError("sum: kind %s does not support accumulation", v.Kind())
	}
	target := v.Dims().Erase(dim)
	out := storage.NewZero(v.Kind(), target)
	if err := transform.Reduce(out, v.data); err != nil {
		return Variable{}, err
	}
	return Variable{name: v.name, u: v.u, data: out}, nil
}

// Mean is sum(v,dim) * (1/extent(dim)). Only Float64
// is supported: the 1/n scale factor is not generally representable for
// an integral kind.
func Mean(v Variable, dim dims.Dim) (Variable, error) {
	if v.Kind() != kind.Float64 {
		return Variable{}, errors.NewKindError("mean: kind %s not supported, only float64", v.Kind())
	}
	s, err := Sum(v, dim)
	if err != nil {
		return Variable{}, err
	}
	n, ok := v.Dims().Extent(dim)
	if !ok || n == 0 {
		return Variable{}, errors.NewDimensionError("mean: dimension %s not present or zero extent", dim)
	}
	scale := 1.0 / float64(n)
	vals, _ := s.Float64Values()
	for i := range vals {
		vals[i] *= scale
	}
	return NewFloat64(s.name, s.u, s.Dims(), vals), nil
}

// Permute copies the single-element slice at indices[i] of v into
// position i of the result, for every i.
func Permute(v Variable, dim dims.Dim, indices []int) (Variable, error) {
	if len(indices) == 0 {
		target := v.Dims().Resize(dim, 0)
		return Variable{name: v.name, u: v.u, data: storage.NewZero(v.Kind(), target)}, nil
	}
	parts := make([]Variable, len(indices))
	for i, idx := range indices {
		p, err := v.Slice(dim, idx, idx+1)
		if err != nil {
			return Variable{}, err
		}
		parts[i] = p
	}
	result := parts[0]
	for _, p := range parts[1:] {
		merged, err := Concatenate(result, p, dim)
		if err != nil {
			return Variable{}, err
		}
		result = merged
	}
	return result, nil
}

// ReplaceNaN returns a copy of v with every NaN element replaced by
// replacement: arithmetic
// kinds only; a literal replacement carries no uncertainty of its own,
// so no variance bookkeeping is touched.
func ReplaceNaN(v Variable, replacement float64) (Variable, error) {
	if !v.Kind().Arithmetic() {
		return Variable{}, errors.NewKindError("replace_nan: kind %s does not support arithmetic", v.Kind())
	}
	out := v.data.Clone()
	n := out.Len()
	if v.Kind() == kind.Float64 {
		for i := 0; i < n; i++ {
			if math.IsNaN(out.F64(i)) {
				out.SetF64(i, replacement)
			}
		}
	}
	return Variable{name: v.name, u: v.u, data: out, readOnly: v.readOnly}, nil
}
