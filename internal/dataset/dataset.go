// Package dataset implements Dataset: a mapping from (role,
// name) to Variable, where role is one of coord/label/data/mask/attr.
// Coordinate axes participate in alignment checks; masks are OR-combined
// on arithmetic.
package dataset

import (
	"math"

	"github.com/google/uuid"

	"scippgo/internal/errors"
	"scippgo/internal/kind"
	"scippgo/internal/variable"
)

// Role identifies how a Variable participates in a Dataset.
type Role int

const (
	Coord Role = iota
	Label
	Data
	Mask
	Attr
)

func (r Role) String() string {
	switch r {
	case Coord:
		return "coord"
	case Label:
		return "label"
	case Data:
		return "data"
	case Mask:
		return "mask"
	case Attr:
		return "attr"
	default:
		return "role(?)"
	}
}

type key struct {
	role Role
	name string
}

// Dataset aggregates Variables under a stable identity, the way a
// DataFrame aggregates Series under a shared index. The uuid.UUID
// identity is exposed through ID; Merge and Add do not consult it.
type Dataset struct {
	id   uuid.UUID
	vars map[key]variable.Variable
}

// New builds an empty Dataset with a fresh identity.
func New() *Dataset {
	return &Dataset{id: uuid.New(), vars: make(map[key]variable.Variable)}
}

// ID returns the Dataset's stable identity.
func (d *Dataset) ID() uuid.UUID { return d.id }

// Set inserts or replaces the Variable stored under (role, name). A
// coord insertion must agree in extent with every dimension label
// already present on any existing coord.
func (d *Dataset) Set(role Role, name string, v variable.Variable) error {
	if role == Coord {
		if err := d.checkCoordAlignment(v); err != nil {
			return err
		}
	}
	d.vars[key{role, name}] = v
	return nil
}

// Get returns the Variable stored under (role, name), if any.
func (d *Dataset) Get(role Role, name string) (variable.Variable, bool) {
	v, ok := d.vars[key{role, name}]
	return v, ok
}

// Delete removes the Variable stored under (role, name).
func (d *Dataset) Delete(role Role, name string) {
	delete(d.vars, key{role, name})
}

// Names returns every name stored under role, in no particular order.
func (d *Dataset) Names(role Role) []string {
	var out []string
	for k := range d.vars {
		if k.role == role {
			out = append(out, k.name)
		}
	}
	return out
}

func (d *Dataset) checkCoordAlignment(v variable.Variable) error {
	for k, existing := range d.vars {
		if k.role != Coord {
			continue
		}
		for _, label := range existing.Dims().Labels() {
			newExtent, ok := v.Dims().Extent(label)
			if !ok {
				continue
			}
			existingExtent, _ := existing.Dims().Extent(label)
			if newExtent != existingExtent {
				return errors.NewDimensionError(
					"coord %q: axis %s extent %d disagrees with existing coord %q extent %d",
					label, label, newExtent, k.name, existingExtent,
				)
			}
		}
	}
	return nil
}

// Add combines d and other: every coord shared by name must agree (checked
// up front via CheckArithmeticAlignment); data Variables present in both
// are summed; masks present in both are OR-combined. The
// result's coords/labels/attrs are d's own, extended with whatever other
// carries under a name d doesn't already have.
func (d *Dataset) Add(other *Dataset) (*Dataset, error) {
	if err := CheckArithmeticAlignment(d, other); err != nil {
		return nil, err
	}

	out := New()
	for k, v := range d.vars {
		out.vars[k] = v
	}

	for k, ov := range other.vars {
		switch k.role {
		case Coord:
			if _, ok := out.Get(Coord, k.name); ok {
				continue
			}
			if err := out.Set(Coord, k.name, ov); err != nil {
				return nil, err
			}
		case Data:
			if existing, ok := out.Get(Data, k.name); ok {
				sum, err := existing.Add(ov)
				if err != nil {
					return nil, err
				}
				out.vars[k] = sum
				continue
			}
			out.vars[k] = ov
		case Mask:
			if existing, ok := out.Get(Mask, k.name); ok {
				merged, err := orMasks(existing, ov)
				if err != nil {
					return nil, err
				}
				out.vars[k] = merged
				continue
			}
			out.vars[k] = ov
		default:
			if _, ok := out.vars[k]; !ok {
				out.vars[k] = ov
			}
		}
	}
	return out, nil
}

func orMasks(a, b variable.Variable) (variable.Variable, error) {
	if a.Kind() != kind.Bool || b.Kind() != kind.Bool {
		return variable.Variable{}, errors.NewKindError("mask combination requires bool kind")
	}
	av, err := a.BoolValues()
	if err != nil {
		return variable.Variable{}, err
	}
	bv, err := b.BoolValues()
	if err != nil {
		return variable.Variable{}, err
	}
	if len(av) != len(bv) {
		return variable.Variable{}, errors.NewDimensionError("mask combination: length mismatch %d vs %d", len(av), len(bv))
	}
	out := make([]bool, len(av))
	for i := range av {
		out[i] = av[i] || bv[i]
	}
	return variable.NewBool(a.Name(), a.Unit(), a.Dims(), out), nil
}

// Stats holds the five-number summary Describe reports per data
// Variable (SPEC_FULL.md §C, grounded on DataFrame.Describe).
type Stats struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
}

// Describe summarizes every Float64 data Variable with the same
// count/mean/std/min/max five-number shape a DataFrame.Describe reports
// per numeric column.
func (d *Dataset) Describe() map[string]Stats {
	out := make(map[string]Stats)
	for k, v := range d.vars {
		if k.role != Data || v.Kind() != kind.Float64 {
			continue
		}
		vals, err := v.Float64Values()
		if err != nil || len(vals) == 0 {
			continue
		}
		out[k.name] = describeValues(vals)
	}
	return out
}

func describeValues(vals []float64) Stats {
	n := len(vals)
	sum := 0.0
	min, max := vals[0], vals[0]
	for _, x := range vals {
		sum += x
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	mean := sum / float64(n)
	variance := 0.0
	for _, x := range vals {
		d := x - mean
		variance += d * d
	}
	if n > 1 {
		variance /= float64(n - 1)
	}
	return Stats{Count: n, Mean: mean, Std: math.Sqrt(variance), Min: min, Max: max}
}

// Merge combines d and other's variable maps outright (no arithmetic),
// admitting the union only once every coordinate shared by name agrees
// (SPEC_FULL.md §C, grounded on DataFrame.Join's precondition-check
// shape: verify agreement before touching any output). A name present
// in both under a non-coord role is an error rather than silently
// picking one side.
func (d *Dataset) Merge(other *Dataset) (*Dataset, error) {
	if err := CheckArithmeticAlignment(d, other); err != nil {
		return nil, err
	}
	for k := range other.vars {
		if k.role == Coord {
			continue
		}
		if _, exists := d.vars[k]; exists {
			return nil, errors.NewDimensionError("merge: %s %q present in both datasets", k.role, k.name)
		}
	}

	out := New()
	for k, v := range d.vars {
		out.vars[k] = v
	}
	for k, v := range other.vars {
		out.vars[k] = v
	}
	return out, nil
}

func namesByRole(d *Dataset, role Role) map[string]struct{} {
	out := make(map[string]struct{})
	for k := range d.vars {
		if k.role == role {
			out[k.name] = struct{}{}
		}
	}
	return out
}

// CheckArithmeticAlignment verifies that every coordinate axis shared
// between d and other agrees, the precondition for arithmetic between
// Datasets, without performing the combination itself. Exposed separately
// from Add so Variable-level callers (e.g. a
// future binary-op dispatcher keyed on dims.Dim rather than Role) can
// reuse the same check.
func CheckArithmeticAlignment(d, other *Dataset) error {
	for name := range namesByRole(d, Coord) {
		a, _ := d.Get(Coord, name)
		b, ok := other.Get(Coord, name)
		if !ok {
			continue
		}
		if !a.Equal(b) {
			return errors.NewDimensionError("coord %q disagrees between datasets", name)
		}
	}
	return nil
}
