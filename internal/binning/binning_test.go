package binning

import (
	"context"
	"testing"

	"scippgo/internal/dims"
	"scippgo/internal/storage"
)

func TestRebinInnerDimensionFastPath(t *testing.T) {
	d := dims.New([]dims.Dim{dims.Y, dims.X}, []int{2, 4})
	old := storage.NewFloat64(d, []float64{1, 1, 1, 1, 2, 2, 2, 2})
	oldCoord := []float64{0, 1, 2, 3, 4}
	newCoord := []float64{0, 2, 4}

	out, err := Rebin(context.Background(), old, dims.X, oldCoord, newCoord)
	if err != nil {
		t.Fatalf("Rebin: %v", err)
	}
	want := []float64{2, 2, 4, 4}
	for i, w := range want {
		if got := out.F64(i); got != w {
			t.Errorf("out[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestRebinFallsBackWhenNotInnermost(t *testing.T) {
	d := dims.New([]dims.Dim{dims.X, dims.Y}, []int{4, 2})
	old := storage.NewFloat64(d, []float64{1, 10, 1, 10, 1, 10, 1, 10})
	oldCoord := []float64{0, 1, 2, 3, 4}
	newCoord := []float64{0, 2, 4}

	out, err := Rebin(context.Background(), old, dims.X, oldCoord, newCoord)
	if err != nil {
		t.Fatalf("Rebin: %v", err)
	}
	if n, _ := out.Dims().Extent(dims.X); n != 2 {
		t.Fatalf("Extent(X) = %d, want 2", n)
	}
}

func TestFusedOpRowsIndependent(t *testing.T) {
	wd := dims.New([]dims.Dim{dims.Group, dims.X}, []int{2, 2})
	weights := storage.NewFloat64(wd, []float64{5, 7, 11, 13})

	coord := [][]float64{
		{0.5, 1.5},
		{1.5},
	}
	edges := []float64{0, 1, 2}

	values, _, err := FusedOp(context.Background(), coord, false, edges, weights, storage.OpMul)
	if err != nil {
		t.Fatalf("FusedOp: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("len(values) = %d, want 2", len(values))
	}
	wantRow0 := []float64{5, 7}
	for i, w := range wantRow0 {
		if values[0][i] != w {
			t.Errorf("row0[%d] = %v, want %v", i, values[0][i], w)
		}
	}
	if values[1][0] != 13 {
		t.Errorf("row1[0] = %v, want 13", values[1][0])
	}
}
