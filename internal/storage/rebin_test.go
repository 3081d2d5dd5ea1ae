package storage

import (
	"math"
	"testing"

	"scippgo/internal/dims"
)

func approxEqual(t *testing.T, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > tol {
			t.Errorf("[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRebinIdentity(t *testing.T) {
	d := dims.New([]dims.Dim{dims.X}, []int{3})
	old := NewFloat64(d, []float64{10, 20, 30})
	oldCoord := []float64{0, 1, 2, 3}
	newCoord := []float64{0, 1, 2, 3}

	out, err := Rebin(old, dims.X, oldCoord, newCoord)
	if err != nil {
		t.Fatalf("Rebin: %v", err)
	}
	got := make([]float64, out.Len())
	for i := range got {
		got[i] = out.F64(i)
	}
	approxEqual(t, got, []float64{10, 20, 30}, 1e-9)
}

func TestRebinMerging(t *testing.T) {
	d := dims.New([]dims.Dim{dims.X}, []int{4})
	old := NewFloat64(d, []float64{1, 1, 1, 1})
	oldCoord := []float64{0, 1, 2, 3, 4}
	newCoord := []float64{0, 2, 4}

	out, err := Rebin(old, dims.X, oldCoord, newCoord)
	if err != nil {
		t.Fatalf("Rebin: %v", err)
	}
	got := make([]float64, out.Len())
	for i := range got {
		got[i] = out.F64(i)
	}
	approxEqual(t, got, []float64{2, 2}, 1e-9)
}

func TestRebinPartialOverlap(t *testing.T) {
	d := dims.New([]dims.Dim{dims.X}, []int{1})
	old := NewFloat64(d, []float64{10})
	oldCoord := []float64{0, 2}
	newCoord := []float64{0, 1, 2}

	out, err := Rebin(old, dims.X, oldCoord, newCoord)
	if err != nil {
		t.Fatalf("Rebin: %v", err)
	}
	got := make([]float64, out.Len())
	for i := range got {
		got[i] = out.F64(i)
	}
	approxEqual(t, got, []float64{5, 5}, 1e-9)
}

func TestRebinOuterRowsIndependent(t *testing.T) {
	d := dims.New([]dims.Dim{dims.Y, dims.X}, []int{2, 4})
	old := NewFloat64(d, []float64{1, 1, 1, 1, 2, 2, 2, 2})
	oldCoord := []float64{0, 1, 2, 3, 4}
	newCoord := []float64{0, 2, 4}

	out, err := Rebin(old, dims.X, oldCoord, newCoord)
	if err != nil {
		t.Fatalf("Rebin: %v", err)
	}
	got := make([]float64, out.Len())
	for i := range got {
		got[i] = out.F64(i)
	}
	approxEqual(t, got, []float64{2, 2, 4, 4}, 1e-9)
}

func TestRebinRejectsNonArithmetic(t *testing.T) {
	d := dims.New([]dims.Dim{dims.X}, []int{2})
	old := NewString(d, []string{"a", "b"})
	if _, err := Rebin(old, dims.X, []float64{0, 1, 2}, []float64{0, 2}); err == nil {
		t.Errorf("expected error rebinning a string buffer")
	}
}

func TestFusedOpMultiplyBins(t *testing.T) {
	wd := dims.New([]dims.Dim{dims.X}, []int{2})
	weights := NewFloat64(wd, []float64{5, 7})
	edges := []float64{0, 1, 2}
	coord := []float64{0.5, 1.5, -1, 2.5}

	values, _, err := FusedOp(coord, false, edges, weights, OpMul)
	if err != nil {
		t.Fatalf("FusedOp: %v", err)
	}
	approxEqual(t, values, []float64{5, 7, 0, 0}, 1e-9)
}

func TestFusedOpNegativeAbscissaFloors(t *testing.T) {
	// offset=0, scale=0.1: abscissa -5 maps to bin floor(-0.5) == -1, out of
	// range, so the event must read weight 0, not weights[0] (which
	// truncation toward zero, int(-0.5)==0, would incorrectly select).
	wd := dims.New([]dims.Dim{dims.X}, []int{1})
	weights := NewFloat64(wd, []float64{9})
	edges := []float64{0, 10}
	coord := []float64{-5}

	values, _, err := FusedOp(coord, false, edges, weights, OpMul)
	if err != nil {
		t.Fatalf("FusedOp: %v", err)
	}
	approxEqual(t, values, []float64{0}, 1e-9)
}

func TestFusedOpRejectsNonUniformEdges(t *testing.T) {
	wd := dims.New([]dims.Dim{dims.X}, []int{2})
	weights := NewFloat64(wd, []float64{5, 7})
	edges := []float64{0, 1, 5}

	if _, _, err := FusedOp([]float64{0.5}, false, edges, weights, OpMul); err == nil {
		t.Errorf("expected SparseError for non-uniform edges")
	}
}
