// Package strided implements StridedView: a non-owning cursor
// that traverses a flat buffer laid out as parent Dimensions as if it had
// shape target Dimensions, realizing projection, broadcast, sub-block
// selection, and axis reorder simultaneously via per-axis strides (a
// stride of zero encodes broadcasting).
package strided

import (
	"fmt"

	"scippgo/internal/dims"
)

// View is a strided cursor. It holds no data of its own — only the shape
// and per-axis strides needed to compute a flat buffer offset — and must
// not outlive the buffer it was built against.
type View struct {
	extents []int
	strides []int
	weights []int // iteration weight per axis: product of extents to its right
	base    int
	length  int

	cursor []int
	idx    int // current linear position, -1 before the first Next()
}

// New constructs a View over a buffer laid out as parentDims, presenting it
// with shape targetDims starting at flat offset base. It rejects a
// non-broadcast axis (one present in parentDims) whose target extent
// exceeds the parent's extent for that axis.
func New(parentDims, targetDims dims.Dimensions, base int) (*View, error) {
	labels := targetDims.Labels()
	shape := targetDims.Shape()

	extents := make([]int, len(labels))
	strides := make([]int, len(labels))

	for i, l := range labels {
		e := shape[i]
		if e == dims.Sparse {
			e = 1 // the sparse axis is a per-row container, handled outside the view
		}
		if parentDims.Contains(l) {
			pe, _ := parentDims.Extent(l)
			if pe != dims.Sparse && e > pe {
				return nil, fmt.Errorf("strided: target extent %d for %s exceeds parent extent %d", e, l, pe)
			}
			s, _ := parentDims.Stride(l)
			strides[i] = s
		} else {
			strides[i] = 0 // broadcast axis
		}
		extents[i] = e
	}

	weights := make([]int, len(extents))
	w := 1
	for i := len(extents) - 1; i >= 0; i-- {
		weights[i] = w
		w *= extents[i]
	}

	return &View{
		extents: extents,
		strides: strides,
		weights: weights,
		base:    base,
		length:  w,
		cursor:  make([]int, len(extents)),
		idx:     -1,
	}, nil
}

// Len returns the number of elements the view iterates over (the product of
// its target extents; DenseVolume when the target is sparse).
func (v *View) Len() int { return v.length }

// Rank returns the number of axes.
func (v *View) Rank() int { return len(v.extents) }

// Base returns the flat offset of the view's first element.
func (v *View) Base() int { return v.base }

// StrideAt returns the source stride of the axis at position ax (in the
// view's own, target-dims axis order).
func (v *View) StrideAt(ax int) int { return v.strides[ax] }

// ExtentAt returns the extent of the axis at position ax.
func (v *View) ExtentAt(ax int) int { return v.extents[ax] }

// At returns the flat buffer offset for linear (target-dims lexicographic)
// index i, without disturbing the sequential Next()/Offset() cursor. This
// is the "constant time" random-access form: it decomposes i
// into per-axis indices via the precomputed iteration weights rather than
// stepping.
func (v *View) At(i int) int {
	off := v.base
	rem := i
	for ax := 0; ax < len(v.extents); ax++ {
		w := v.weights[ax]
		if w == 0 {
			continue // a zero extent elsewhere already makes Len() 0; avoid dividing by it
		}
		axIdx := rem / w
		rem -= axIdx * w
		off += axIdx * v.strides[ax]
	}
	return off
}

// Reset rewinds the sequential cursor to before the first element.
func (v *View) Reset() {
	for i := range v.cursor {
		v.cursor[i] = 0
	}
	v.idx = -1
}

// Next advances the sequential cursor to the next element in target-dims
// lexicographic order (outermost axis varies slowest), carrying into outer
// axes as inner ones wrap. It returns
// false once the view is exhausted.
func (v *View) Next() bool {
	if v.idx+1 >= v.length {
		v.idx = v.length
		return false
	}
	if v.idx < 0 {
		v.idx = 0
		return true
	}
	v.idx++
	for ax := len(v.cursor) - 1; ax >= 0; ax-- {
		v.cursor[ax]++
		if v.cursor[ax] < v.extents[ax] {
			return true
		}
		v.cursor[ax] = 0
	}
	return true
}

// Offset returns the flat buffer offset of the element the sequential
// cursor currently sits on. Only meaningful after a call to Next() that
// returned true.
func (v *View) Offset() int {
	off := v.base
	for ax, c := range v.cursor {
		off += c * v.strides[ax]
	}
	return off
}
