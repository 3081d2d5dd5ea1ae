package dataset

import (
	"testing"

	"scippgo/internal/dims"
	"scippgo/internal/unit"
	"scippgo/internal/variable"
)

func TestSetAndGet(t *testing.T) {
	d := New()
	x := variable.NewFloat64("x", unit.Of("m"), dims.New([]dims.Dim{dims.X}, []int{3}), []float64{1, 2, 3})
	if err := d.Set(Coord, "x", x); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := d.Get(Coord, "x")
	if !ok {
		t.Fatalf("Get: not found")
	}
	if !got.Equal(x) {
		t.Errorf("round-tripped coord differs from input")
	}
}

func TestCoordAlignmentRejectsMismatch(t *testing.T) {
	d := New()
	x := variable.NewFloat64("x", unit.Of("m"), dims.New([]dims.Dim{dims.X}, []int{3}), []float64{1, 2, 3})
	if err := d.Set(Coord, "x", x); err != nil {
		t.Fatalf("Set: %v", err)
	}
	badX := variable.NewFloat64("x2", unit.Of("m"), dims.New([]dims.Dim{dims.X}, []int{5}), []float64{1, 2, 3, 4, 5})
	if err := d.Set(Coord, "x2", badX); err == nil {
		t.Errorf("expected DimensionError for conflicting coord extent on shared axis %s", dims.X)
	}
}

func TestAddSumsDataAndOrsMasks(t *testing.T) {
	dimsXY := dims.New([]dims.Dim{dims.X}, []int{2})

	a := New()
	if err := a.Set(Data, "counts", variable.NewFloat64("counts", unit.Counts(), dimsXY, []float64{1, 2})); err != nil {
		t.Fatalf("a.Set data: %v", err)
	}
	if err := a.Set(Mask, "bad", variable.NewBool("bad", unit.Dimensionless(), dimsXY, []bool{true, false})); err != nil {
		t.Fatalf("a.Set mask: %v", err)
	}

	b := New()
	if err := b.Set(Data, "counts", variable.NewFloat64("counts", unit.Counts(), dimsXY, []float64{10, 20})); err != nil {
		t.Fatalf("b.Set data: %v", err)
	}
	if err := b.Set(Mask, "bad", variable.NewBool("bad", unit.Dimensionless(), dimsXY, []bool{false, true})); err != nil {
		t.Fatalf("b.Set mask: %v", err)
	}

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	data, ok := sum.Get(Data, "counts")
	if !ok {
		t.Fatalf("sum missing data variable")
	}
	got, _ := data.Float64Values()
	want := []float64{11, 22}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("counts[%d] = %v, want %v", i, got[i], w)
		}
	}

	mask, ok := sum.Get(Mask, "bad")
	if !ok {
		t.Fatalf("sum missing mask variable")
	}
	maskVals, _ := mask.BoolValues()
	if !maskVals[0] || !maskVals[1] {
		t.Errorf("mask = %v, want all true (OR-combined)", maskVals)
	}
}

func TestDescribeComputesSummaryStats(t *testing.T) {
	d := New()
	v := variable.NewFloat64("v", unit.Dimensionless(), dims.New([]dims.Dim{dims.X}, []int{4}), []float64{1, 2, 3, 4})
	if err := d.Set(Data, "v", v); err != nil {
		t.Fatalf("Set: %v", err)
	}
	stats := d.Describe()
	s, ok := stats["v"]
	if !ok {
		t.Fatalf("Describe: missing %q", "v")
	}
	if s.Count != 4 || s.Min != 1 || s.Max != 4 || s.Mean != 2.5 {
		t.Errorf("stats = %+v, want count=4 min=1 max=4 mean=2.5", s)
	}
}

func TestMergeRejectsDuplicateNonCoord(t *testing.T) {
	d := dims.New([]dims.Dim{dims.X}, []int{2})
	a := New()
	if err := a.Set(Data, "v", variable.NewFloat64("v", unit.Dimensionless(), d, []float64{1, 2})); err != nil {
		t.Fatalf("a.Set: %v", err)
	}
	b := New()
	if err := b.Set(Data, "v", variable.NewFloat64("v", unit.Dimensionless(), d, []float64{3, 4})); err != nil {
		t.Fatalf("b.Set: %v", err)
	}
	if _, err := a.Merge(b); err == nil {
		t.Errorf("expected error merging datasets with a shared data name")
	}
}

func TestMergeUnionsDisjointVariables(t *testing.T) {
	dx := dims.New([]dims.Dim{dims.X}, []int{2})
	a := New()
	if err := a.Set(Coord, "x", variable.NewFloat64("x", unit.Of("m"), dx, []float64{0, 1})); err != nil {
		t.Fatalf("a.Set coord: %v", err)
	}
	if err := a.Set(Data, "v1", variable.NewFloat64("v1", unit.Dimensionless(), dx, []float64{1, 2})); err != nil {
		t.Fatalf("a.Set data: %v", err)
	}
	b := New()
	if err := b.Set(Coord, "x", variable.NewFloat64("x", unit.Of("m"), dx, []float64{0, 1})); err != nil {
		t.Fatalf("b.Set coord: %v", err)
	}
	if err := b.Set(Data, "v2", variable.NewFloat64("v2", unit.Dimensionless(), dx, []float64{3, 4})); err != nil {
		t.Fatalf("b.Set data: %v", err)
	}
	merged, err := a.Merge(b)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if _, ok := merged.Get(Data, "v1"); !ok {
		t.Errorf("merged missing v1")
	}
	if _, ok := merged.Get(Data, "v2"); !ok {
		t.Errorf("merged missing v2")
	}
}
