package storage

import (
	"fmt"

	"scippgo/internal/dims"
	"scippgo/internal/kind"
)

// Owned is the exclusive-ownership Storage variant. Exactly one
// of its typed slices is populated, selected by k. Cloning an Owned is
// always a deep copy; Go's slice semantics already give value-like copying
// once the backing array is duplicated, so no separate copy-on-write
// bookkeeping is needed — a fresh Clone() simply never shares backing
// storage with its source.
type Owned struct {
	k kind.Kind
	d dims.Dimensions

	f64  []float64
	i64  []int64
	b    []bool
	str  []string
	vec3 [][3]float64
	ds   []Nested

	events        [][]float64
	variances     [][]float64
	trackVariance bool
	nestedLists   [][]Nested
}

var _ Buffer = (*Owned)(nil)

// NewFloat64 builds an Owned Float64 buffer. len(data) must equal d.Volume().
func NewFloat64(d dims.Dimensions, data []float64) *Owned {
	mustDenseLen(d, len(data))
	return &Owned{k: kind.Float64, d: d, f64: data}
}

// NewInt64 builds an Owned Int64 buffer.
func NewInt64(d dims.Dimensions, data []int64) *Owned {
	mustDenseLen(d, len(data))
	return &Owned{k: kind.Int64, d: d, i64: data}
}

// NewBool builds an Owned Bool buffer.
func NewBool(d dims.Dimensions, data []bool) *Owned {
	mustDenseLen(d, len(data))
	return &Owned{k: kind.Bool, d: d, b: data}
}

// NewString builds an Owned String buffer.
func NewString(d dims.Dimensions, data []string) *Owned {
	mustDenseLen(d, len(data))
	return &Owned{k: kind.String, d: d, str: data}
}

// NewVector3 builds an Owned Vector3 buffer.
func NewVector3(d dims.Dimensions, data [][3]float64) *Owned {
	mustDenseLen(d, len(data))
	return &Owned{k: kind.Vector3, d: d, vec3: data}
}

// NewDataset builds an Owned Dataset-element buffer.
func NewDataset(d dims.Dimensions, data []Nested) *Owned {
	mustDenseLen(d, len(data))
	return &Owned{k: kind.Dataset, d: d, ds: data}
}

// NewEvents builds an Owned sparse Events buffer: d's last axis must carry
// the Sparse marker, and len(events) (and len(variances), if non-nil) must
// equal d.DenseVolume().
func NewEvents(d dims.Dimensions, events [][]float64, variances [][]float64) *Owned {
	mustSparse(d)
	mustDenseLen(d, len(events))
	o := &Owned{k: kind.Events, d: d, events: events}
	if variances != nil {
		mustDenseLen(d, len(variances))
		o.variances = variances
		o.trackVariance = true
	}
	return o
}

// NewEventSet builds an Owned sparse EventSet buffer (per-row lists of
// nested Dataset values).
func NewEventSet(d dims.Dimensions, values [][]Nested) *Owned {
	mustSparse(d)
	mustDenseLen(d, len(values))
	return &Owned{k: kind.EventSet, d: d, nestedLists: values}
}

func mustDenseLen(d dims.Dimensions, n int) {
	want := d.DenseVolume()
	if n != want {
		panic(fmt.Sprintf("storage: buffer length %d does not match dims %s (want %d)", n, d, want))
	}
}

func mustSparse(d dims.Dimensions) {
	if !d.IsSparse() {
		panic(fmt.Sprintf("storage: dims %s is not sparse", d))
	}
}

func (o *Owned) Kind() kind.Kind          { return o.k }
func (o *Owned) Dims() dims.Dimensions    { return o.d }
func (o *Owned) IsContiguous() bool       { return true }
func (o *Owned) IsView() bool             { return false }
func (o *Owned) TracksVariance() bool     { return o.trackVariance }

func (o *Owned) Len() int {
	if o.d.IsSparse() {
		return o.d.DenseVolume()
	}
	return o.d.Volume()
}

func (o *Owned) F64(i int) float64      { return o.f64[i] }
func (o *Owned) SetF64(i int, v float64) { o.f64[i] = v }
func (o *Owned) I64(i int) int64         { return o.i64[i] }
func (o *Owned) SetI64(i int, v int64)   { o.i64[i] = v }
func (o *Owned) Bool(i int) bool         { return o.b[i] }
func (o *Owned) SetBool(i int, v bool)   { o.b[i] = v }
func (o *Owned) Str(i int) string        { return o.str[i] }
func (o *Owned) SetStr(i int, v string)  { o.str[i] = v }
func (o *Owned) Vec3(i int) [3]float64       { return o.vec3[i] }
func (o *Owned) SetVec3(i int, v [3]float64) { o.vec3[i] = v }
func (o *Owned) NestedAt(i int) Nested       { return o.ds[i] }
func (o *Owned) SetNestedAt(i int, v Nested) { o.ds[i] = v }

func (o *Owned) Events(row int) []float64 { return o.events[row] }
func (o *Owned) SetEvents(row int, vals []float64) {
	o.events[row] = vals
}
func (o *Owned) Variances(row int) []float64 {
	if o.variances == nil {
		return nil
	}
	return o.variances[row]
}
func (o *Owned) SetVariances(row int, vals []float64) {
	if o.variances == nil {
		o.variances = make([][]float64, o.Len())
		o.trackVariance = true
	}
	o.variances[row] = vals
}
func (o *Owned) NestedList(row int) []Nested { return o.nestedLists[row] }
func (o *Owned) SetNestedList(row int, vals []Nested) {
	o.nestedLists[row] = vals
}

// View builds a *View onto o presenting shape target, starting at flat
// offset base.
func (o *Owned) View(target dims.Dimensions, base int) (*View, error) {
	return NewView(o, target, base)
}

func (o *Owned) Clone() Buffer {
	out := &Owned{k: o.k, d: o.d, trackVariance: o.trackVariance}
	switch o.k {
	case kind.Float64:
		out.f64 = append([]float64(nil), o.f64...)
	case kind.Int64:
		out.i64 = append([]int64(nil), o.i64...)
	case kind.Bool:
		out.b = append([]bool(nil), o.b...)
	case kind.String:
		out.str = append([]string(nil), o.str...)
	case kind.Vector3:
		out.vec3 = append([][3]float64(nil), o.vec3...)
	case kind.Dataset:
		out.ds = make([]Nested, len(o.ds))
		for i, n := range o.ds {
			out.ds[i] = n.CloneNested()
		}
	case kind.Events:
		out.events = cloneFloatRows(o.events)
		if o.variances != nil {
			out.variances = cloneFloatRows(o.variances)
		}
	case kind.EventSet:
		out.nestedLists = make([][]Nested, len(o.nestedLists))
		for i, row := range o.nestedLists {
			cp := make([]Nested, len(row))
			for j, n := range row {
				cp[j] = n.CloneNested()
			}
			out.nestedLists[i] = cp
		}
	}
	return out
}

func cloneFloatRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = append([]float64(nil), r...)
	}
	return out
}

func (o *Owned) CloneView() Buffer {
	v, err := o.View(o.d, 0)
	if err != nil {
		// o.d is always a valid target against itself.
		panic(err)
	}
	return v
}

// Reshape relabels o's Dimensions to newDims without touching any element,
// legal only when the two Dimensions describe the same volume. The result
// shares o's backing slices: Go's slice headers already give the
// by-reference aliasing a relabel-in-place needs, handing back a new
// header over the same backing data rather than copying it.
func (o *Owned) Reshape(newDims dims.Dimensions) (*Owned, error) {
	if o.d.IsSparse() || newDims.IsSparse() {
		return nil, fmt.Errorf("storage: reshape does not support sparse dims")
	}
	if newDims.Volume() != o.d.Volume() {
		return nil, fmt.Errorf("storage: reshape volume mismatch (%d vs %d)", newDims.Volume(), o.d.Volume())
	}
	out := *o
	out.d = newDims
	return &out, nil
}

func (o *Owned) Resize(d dims.Dimensions) Buffer {
	out := newZeroOwned(o.k, d)
	if o.k == kind.Events && o.trackVariance {
		out.(*Owned).trackVariance = true
		out.(*Owned).variances = make([][]float64, d.DenseVolume())
	}
	return out
}

// NewZero builds a fresh, default-initialized Owned buffer of kind k with
// Dimensions d. Exported for callers (internal/binning) that need to
// allocate a same-kind result buffer without going through an existing
// instance's Resize.
func NewZero(k kind.Kind, d dims.Dimensions) Buffer {
	return newZeroOwned(k, d)
}

// newZeroOwned builds a fresh, default-initialized Owned buffer of kind k
// with Dimensions d.
func newZeroOwned(k kind.Kind, d dims.Dimensions) Buffer {
	switch k {
	case kind.Float64:
		return NewFloat64(d, make([]float64, d.Volume()))
	case kind.Int64:
		return NewInt64(d, make([]int64, d.Volume()))
	case kind.Bool:
		return NewBool(d, make([]bool, d.Volume()))
	case kind.String:
		return NewString(d, make([]string, d.Volume()))
	case kind.Vector3:
		return NewVector3(d, make([][3]float64, d.Volume()))
	case kind.Dataset:
		return NewDataset(d, make([]Nested, d.Volume()))
	case kind.Events:
		return NewEvents(d, make([][]float64, d.DenseVolume()), nil)
	case kind.EventSet:
		return NewEventSet(d, make([][]Nested, d.DenseVolume()))
	default:
		panic(fmt.Sprintf("storage: resize of unknown kind %s", k))
	}
}
