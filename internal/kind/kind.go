// Package kind implements the closed element-kind tag enumeration that
// Storage and Variable dispatch on.
package kind

import "fmt"

// Kind identifies which concrete element type a Storage holds. The set is
// closed: Storage and the transform engine switch on it exhaustively rather
// than querying a runtime type hierarchy (see DESIGN.md, "internal/kind").
type Kind int

const (
	Invalid Kind = iota
	Float64
	Int64
	Bool
	String
	Vector3  // fixed-length vector of 3 doubles
	Dataset  // a nested Dataset held as a scalar element
	Events   // sparse, per-row container of float64 "event" weights
	EventSet // sparse, per-row container of nested Dataset values
)

func (k Kind) String() string {
	switch k {
	case Float64:
		return "float64"
	case Int64:
		return "int64"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Vector3:
		return "vector3"
	case Dataset:
		return "dataset"
	case Events:
		return "events"
	case EventSet:
		return "event_set"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Arithmetic reports whether k supports ordinary numeric +=/-=/*=//=.
func (k Kind) Arithmetic() bool {
	switch k {
	case Float64, Int64:
		return true
	default:
		return false
	}
}

// Fused reports whether k is one of the "fused-special" kinds that
// implement += as list concatenation instead of numeric addition: the two
// sparse per-row container kinds.
func (k Kind) Fused() bool {
	return k == Events || k == EventSet
}

// Sparse reports whether k is only ever found on the innermost axis of a
// sparse Dimensions.
func (k Kind) Sparse() bool {
	return k == Events || k == EventSet
}

// Comparable reports whether k supports elementwise ==.
// Every kind is comparable; Dataset/Events/EventSet compare by recursively
// delegating to their own equality, not by this package.
func (k Kind) Comparable() bool {
	return true
}
