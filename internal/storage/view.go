package storage

import (
	"scippgo/internal/dims"
	"scippgo/internal/errors"
	"scippgo/internal/kind"
	"scippgo/internal/strided"
)

// View is the non-owning Storage variant: a strided mapping
// presenting shape target over an arbitrary source Buffer. The source may
// itself be an Owned buffer or another View — every Buffer, by the
// interface's contract, already addresses its own elements 0..Len()-1 in
// dense lexicographic order over its own Dims(), so a View's StridedView
// can always be built directly against source.Dims() regardless of what
// is physically underneath (an Owned slice, or another layer of
// broadcasting/transposition/slicing). This is what lets slice-of-a-slice,
// transpose-of-a-slice, and broadcast-of-a-renamed-view all compose
// without a case split.
//
// Read-only vs. mutable access is not tracked here: storage.View always
// permits writes. The "no mutation through a const view" invariant is
// enforced one layer up, by internal/variable, which is the layer that
// knows whether a particular borrow was asked for as const — see
// variable.Variable.readOnly.
type View struct {
	src    Buffer
	target dims.Dimensions
	sv     *strided.View
}

var _ Buffer = (*View)(nil)

// NewView builds a View presenting shape target over src, starting at
// linear index base within src's own addressing.
func NewView(src Buffer, target dims.Dimensions, base int) (*View, error) {
	sv, err := strided.New(src.Dims(), target, base)
	if err != nil {
		return nil, errors.NewDimensionError("%v", err)
	}
	return &View{src: src, target: target, sv: sv}, nil
}

func (v *View) Kind() kind.Kind       { return v.src.Kind() }
func (v *View) Dims() dims.Dimensions { return v.target }
func (v *View) Len() int              { return v.sv.Len() }
func (v *View) IsView() bool          { return true }

// IsContiguous reports whether the view's declared Dimensions form a
// contiguous sub-block of its immediate source's Dimensions.
func (v *View) IsContiguous() bool {
	return v.target.IsContiguousIn(v.src.Dims())
}

// AxisIndex returns the position of label within the view's own target
// axis order, or -1 if absent.
func (v *View) AxisIndex(label dims.Dim) int {
	for i, l := range v.target.Labels() {
		if l == label {
			return i
		}
	}
	return -1
}

// Base returns the linear index, within src's own addressing, of this
// view's first element.
func (v *View) Base() int { return v.sv.Base() }

// StrideAt returns the source-index stride of the axis at position ax (in
// the view's own target axis order); 0 means that axis is broadcast.
func (v *View) StrideAt(ax int) int { return v.sv.StrideAt(ax) }

// Source returns the Buffer this view was built over.
func (v *View) Source() Buffer { return v.src }

func (v *View) F64(i int) float64         { return v.src.F64(v.sv.At(i)) }
func (v *View) SetF64(i int, val float64) { v.src.SetF64(v.sv.At(i), val) }
func (v *View) I64(i int) int64           { return v.src.I64(v.sv.At(i)) }
func (v *View) SetI64(i int, val int64)   { v.src.SetI64(v.sv.At(i), val) }
func (v *View) Bool(i int) bool           { return v.src.Bool(v.sv.At(i)) }
func (v *View) SetBool(i int, val bool)   { v.src.SetBool(v.sv.At(i), val) }
func (v *View) Str(i int) string          { return v.src.Str(v.sv.At(i)) }
func (v *View) SetStr(i int, val string)  { v.src.SetStr(v.sv.At(i), val) }
func (v *View) Vec3(i int) [3]float64         { return v.src.Vec3(v.sv.At(i)) }
func (v *View) SetVec3(i int, val [3]float64) { v.src.SetVec3(v.sv.At(i), val) }
func (v *View) NestedAt(i int) Nested         { return v.src.NestedAt(v.sv.At(i)) }
func (v *View) SetNestedAt(i int, val Nested) { v.src.SetNestedAt(v.sv.At(i), val) }

func (v *View) Events(row int) []float64 { return v.src.Events(v.sv.At(row)) }
func (v *View) SetEvents(row int, vals []float64) {
	v.src.SetEvents(v.sv.At(row), vals)
}
func (v *View) Variances(row int) []float64 { return v.src.Variances(v.sv.At(row)) }
func (v *View) SetVariances(row int, vals []float64) {
	v.src.SetVariances(v.sv.At(row), vals)
}
func (v *View) TracksVariance() bool         { return v.src.TracksVariance() }
func (v *View) NestedList(row int) []Nested { return v.src.NestedList(v.sv.At(row)) }
func (v *View) SetNestedList(row int, vals []Nested) {
	v.src.SetNestedList(v.sv.At(row), vals)
}

// Clone deep-copies the elements the view can see into a fresh Owned
// buffer with the view's own Dimensions: the result is never itself a view.
func (v *View) Clone() Buffer {
	owned := v.Resize(v.target).(*Owned)
	n := v.Len()
	switch v.Kind() {
	case kind.Float64:
		for i := 0; i < n; i++ {
			owned.SetF64(i, v.F64(i))
		}
	case kind.Int64:
		for i := 0; i < n; i++ {
			owned.SetI64(i, v.I64(i))
		}
	case kind.Bool:
		for i := 0; i < n; i++ {
			owned.SetBool(i, v.Bool(i))
		}
	case kind.String:
		for i := 0; i < n; i++ {
			owned.SetStr(i, v.Str(i))
		}
	case kind.Vector3:
		for i := 0; i < n; i++ {
			owned.SetVec3(i, v.Vec3(i))
		}
	case kind.Dataset:
		for i := 0; i < n; i++ {
			owned.SetNestedAt(i, v.NestedAt(i).CloneNested())
		}
	case kind.Events:
		for i := 0; i < n; i++ {
			owned.SetEvents(i, append([]float64(nil), v.Events(i)...))
			if v.TracksVariance() {
				owned.SetVariances(i, append([]float64(nil), v.Variances(i)...))
			}
		}
	case kind.EventSet:
		for i := 0; i < n; i++ {
			row := v.NestedList(i)
			cp := make([]Nested, len(row))
			for j, el := range row {
				cp[j] = el.CloneNested()
			}
			owned.SetNestedList(i, cp)
		}
	}
	return owned
}

// CloneView builds a lightweight View presenting the same Dimensions over
// the same source.
func (v *View) CloneView() Buffer {
	nv, err := NewView(v.src, v.target, v.sv.Base())
	if err != nil {
		panic(err)
	}
	return nv
}

func (v *View) Resize(d dims.Dimensions) Buffer {
	// Views never own memory, so this simply produces a fresh same-kind
	// Owned buffer the caller uses to materialize a copy.
	return newZeroOwned(v.Kind(), d)
}
