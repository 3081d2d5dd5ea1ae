// Package dims implements the label-aware dimension algebra: an ordered
// association of dimension labels to extents, with an optional innermost
// sparse marker.
package dims

import (
	"fmt"
	"strings"
)

// Dim is a dimension label drawn from a closed enumeration. Labels compare
// by identity (the underlying int), never by string.
type Dim int

const (
	Invalid Dim = iota
	X
	Y
	Z
	Row
	Col
	Time
	Spectrum
	Energy
	Temperature
	Wavelength
	Event
	Group
)

var names = map[Dim]string{
	Invalid:     "invalid",
	X:           "x",
	Y:           "y",
	Z:           "z",
	Row:         "row",
	Col:         "col",
	Time:        "time",
	Spectrum:    "spectrum",
	Energy:      "energy",
	Temperature: "temperature",
	Wavelength:  "wavelength",
	Event:       "event",
	Group:       "group",
}

func (d Dim) String() string {
	if n, ok := names[d]; ok {
		return n
	}
	return fmt.Sprintf("dim(%d)", int(d))
}

// Sparse is the distinguished extent sentinel marking the final axis of a
// Dimensions value as ragged (one independently-sized container per outer
// index) rather than dense.
const Sparse = -1

// axis is a single (label, extent) pair.
type axis struct {
	label  Dim
	extent int
}

// Dimensions is an ordered (label -> extent) mapping. The first entry is the
// outermost axis, the last the innermost; this order defines memory layout
// for a dense buffer. Only the last axis may carry the Sparse marker.
type Dimensions struct {
	axes []axis
}

// Empty returns a rank-0 Dimensions (a scalar).
func Empty() Dimensions {
	return Dimensions{}
}

// New builds a Dimensions from labels and extents given in outermost-to-
// innermost order. Panics on a duplicate label or a misplaced Sparse marker
// — both are programmer errors the caller controls.
func New(labels []Dim, extents []int) Dimensions {
	if len(labels) != len(extents) {
		panic(fmt.Sprintf("dims: %d labels but %d extents", len(labels), len(extents)))
	}
	d := Dimensions{}
	for i, l := range labels {
		if err := d.checkAppend(l, extents[i]); err != nil {
			panic(err.Error())
		}
		d.axes = append(d.axes, axis{label: l, extent: extents[i]})
	}
	return d
}

func (d Dimensions) checkAppend(label Dim, extent int) error {
	if d.Contains(label) {
		return fmt.Errorf("dims: duplicate label %s", label)
	}
	if extent < 0 && extent != Sparse {
		return fmt.Errorf("dims: negative extent %d for %s", extent, label)
	}
	if extent == Sparse && len(d.axes) > 0 {
		// sparse marker is only meaningful on the last axis; a later Add
		// would move it out of that position, so we simply forbid adding
		// anything after a sparse axis exists yet.
	}
	for _, a := range d.axes {
		if a.extent == Sparse {
			return fmt.Errorf("dims: cannot add %s after sparse axis %s", label, a.label)
		}
	}
	return nil
}

// Rank returns the number of axes.
func (d Dimensions) Rank() int { return len(d.axes) }

// IsSparse reports whether the last axis carries the Sparse marker.
func (d Dimensions) IsSparse() bool {
	return len(d.axes) > 0 && d.axes[len(d.axes)-1].extent == Sparse
}

// Contains reports whether label appears in d.
func (d Dimensions) Contains(label Dim) bool {
	for _, a := range d.axes {
		if a.label == label {
			return true
		}
	}
	return false
}

// Extent returns the extent of label, or (0, false) if absent.
func (d Dimensions) Extent(label Dim) (int, bool) {
	for _, a := range d.axes {
		if a.label == label {
			return a.extent, true
		}
	}
	return 0, false
}

// Labels returns the axis labels in outermost-to-innermost order.
func (d Dimensions) Labels() []Dim {
	out := make([]Dim, len(d.axes))
	for i, a := range d.axes {
		out[i] = a.label
	}
	return out
}

// Shape returns the axis extents in outermost-to-innermost order.
func (d Dimensions) Shape() []int {
	out := make([]int, len(d.axes))
	for i, a := range d.axes {
		out[i] = a.extent
	}
	return out
}

// Stride returns the element stride for label under dense row-major layout:
// the product of the extents of all axes to its right. Returns (0, false)
// when label is absent. A dense Dimensions with a sparse last axis treats
// that axis' stride as 1 (each outer index owns exactly one container).
func (d Dimensions) Stride(label Dim) (int, bool) {
	idx := -1
	for i, a := range d.axes {
		if a.label == label {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, false
	}
	stride := 1
	for i := idx + 1; i < len(d.axes); i++ {
		e := d.axes[i].extent
		if e == Sparse {
			e = 1
		}
		stride *= e
	}
	return stride, true
}

// Volume returns the product of dense extents. Panics if d is sparse — the
// caller must use DenseVolume (the outer-row count) in that case.
func (d Dimensions) Volume() int {
	if d.IsSparse() {
		panic("dims: Volume undefined for a sparse Dimensions; use DenseVolume")
	}
	v := 1
	for _, a := range d.axes {
		v *= a.extent
	}
	return v
}

// DenseVolume returns the product of the extents of every axis except a
// trailing sparse marker: the number of outer rows, each owning one sparse
// container.
func (d Dimensions) DenseVolume() int {
	v := 1
	for _, a := range d.axes {
		if a.extent == Sparse {
			continue
		}
		v *= a.extent
	}
	return v
}

// Add appends (label, extent) as the new innermost axis.
func (d Dimensions) Add(label Dim, extent int) Dimensions {
	if err := d.checkAppend(label, extent); err != nil {
		panic(err.Error())
	}
	out := d.clone()
	out.axes = append(out.axes, axis{label: label, extent: extent})
	return out
}

// Resize returns a copy of d with label's extent changed to n.
func (d Dimensions) Resize(label Dim, n int) Dimensions {
	out := d.clone()
	for i := range out.axes {
		if out.axes[i].label == label {
			out.axes[i].extent = n
			return out
		}
	}
	panic(fmt.Sprintf("dims: resize of missing label %s", label))
}

// Erase returns a copy of d with label removed.
func (d Dimensions) Erase(label Dim) Dimensions {
	out := Dimensions{axes: make([]axis, 0, len(d.axes))}
	for _, a := range d.axes {
		if a.label != label {
			out.axes = append(out.axes, a)
		}
	}
	return out
}

// Relabel renames the axis at position i to newLabel.
func (d Dimensions) Relabel(i int, newLabel Dim) Dimensions {
	out := d.clone()
	out.axes[i].label = newLabel
	return out
}

// IsContiguousIn reports whether d is a contiguous sub-block of other under
// the same axis order: every label of d appears in other in the same
// relative order, and for every axis of other that is not in d, d's
// remaining axes still describe a single contiguous run of other's memory.
// Concretely: the trailing axes of other (in order) must match d exactly
// except the outermost matched axis of d may have a smaller extent than
// other's.
func (d Dimensions) IsContiguousIn(other Dimensions) bool {
	if len(d.axes) > len(other.axes) {
		return false
	}
	offset := len(other.axes) - len(d.axes)
	for i, a := range d.axes {
		oa := other.axes[offset+i]
		if a.label != oa.label {
			return false
		}
		if i == 0 {
			if a.extent > oa.extent {
				return false
			}
		} else if a.extent != oa.extent {
			return false
		}
	}
	return true
}

// Equal reports whether d and other have exactly the same axes in the same
// order.
func (d Dimensions) Equal(other Dimensions) bool {
	if len(d.axes) != len(other.axes) {
		return false
	}
	for i, a := range d.axes {
		if a != other.axes[i] {
			return false
		}
	}
	return true
}

// SameSet reports whether d and other carry the same (label, extent) pairs,
// any order.
func (d Dimensions) SameSet(other Dimensions) bool {
	if len(d.axes) != len(other.axes) {
		return false
	}
	for _, a := range d.axes {
		oe, ok := other.Extent(a.label)
		if !ok || oe != a.extent {
			return false
		}
	}
	return true
}

// SupersetOf reports whether every axis of other also appears in d with the
// same extent (other's label set is a subset of d's): the broadcast
// direction where the left operand's dims are a superset of the right's.
func (d Dimensions) SupersetOf(other Dimensions) bool {
	for _, a := range other.axes {
		e, ok := d.Extent(a.label)
		if !ok || e != a.extent {
			return false
		}
	}
	return true
}

func (d Dimensions) clone() Dimensions {
	out := Dimensions{axes: make([]axis, len(d.axes))}
	copy(out.axes, d.axes)
	return out
}

// String renders Dimensions as "{label:extent, ...}" in axis order, mostly
// for error messages and tests.
func (d Dimensions) String() string {
	parts := make([]string, len(d.axes))
	for i, a := range d.axes {
		if a.extent == Sparse {
			parts[i] = fmt.Sprintf("%s:sparse", a.label)
		} else {
			parts[i] = fmt.Sprintf("%s:%d", a.label, a.extent)
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
