// Package storage implements the type-erased Storage concept: exclusive
// ownership of a dense buffer of one element kind (Owned), or a
// non-owning strided mapping onto a foreign buffer (View). Both variants
// satisfy the Buffer interface and dispatch every operation on the kind
// tag, never on a runtime type hierarchy (see DESIGN.md, "internal/kind").
package storage

import (
	"scippgo/internal/dims"
	"scippgo/internal/kind"
)

// Op identifies a binary arithmetic operator for InPlaceOp and the fused
// sparse/dense path.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
)

func (op Op) apply(a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	default:
		panic("storage: unknown op")
	}
}

func (op Op) applyInt(a, b int64) int64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	default:
		panic("storage: unknown op")
	}
}

// Nested is implemented by element types that Storage holds type-erased
// for the Dataset and EventSet kinds (internal/storage cannot import
// internal/dataset without an import cycle, since Dataset is built on top
// of Variable which is built on top of Storage).
type Nested interface {
	CloneNested() Nested
	EqualNested(other Nested) bool
}

// Buffer is the polymorphic interface both Owned and View satisfy. Typed
// accessors take a linear index in the buffer's own iteration order
// (0..Len()-1 for dense kinds, or a row index for the sparse ones) — a
// View resolves that index through its StridedView before delegating to
// its parent.
type Buffer interface {
	Kind() kind.Kind
	Dims() dims.Dimensions
	// Len is the dense element count (Volume) for a dense buffer, or the
	// outer row count (DenseVolume) for a sparse one.
	Len() int
	IsContiguous() bool
	IsView() bool

	F64(i int) float64
	SetF64(i int, v float64)
	I64(i int) int64
	SetI64(i int, v int64)
	Bool(i int) bool
	SetBool(i int, v bool)
	Str(i int) string
	SetStr(i int, v string)
	Vec3(i int) [3]float64
	SetVec3(i int, v [3]float64)
	NestedAt(i int) Nested
	SetNestedAt(i int, v Nested)

	// Events/NestedList access the sparse per-row containers; row is an
	// index over the dense (outer) axes only.
	Events(row int) []float64
	SetEvents(row int, vals []float64)
	Variances(row int) []float64
	SetVariances(row int, vals []float64)
	TracksVariance() bool
	NestedList(row int) []Nested
	SetNestedList(row int, vals []Nested)

	// Clone deep-copies the buffer; the result is always an Owned buffer
	// (IsView() == false).
	Clone() Buffer
	// CloneView builds a lightweight View presenting the same Dimensions
	// over the same data; it is contiguous only when self is.
	CloneView() Buffer
	// Resize returns a new, default-initialized Owned buffer of the same
	// kind with the given Dimensions.
	Resize(d dims.Dimensions) Buffer
}
