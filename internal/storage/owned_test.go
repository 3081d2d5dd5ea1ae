package storage

import (
	"testing"

	"scippgo/internal/dims"
)

func TestOwnedRoundTrip(t *testing.T) {
	d := dims.New([]dims.Dim{dims.Y, dims.X}, []int{2, 3})
	o := NewFloat64(d, []float64{1, 2, 3, 4, 5, 6})

	if o.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", o.Len())
	}
	if o.IsView() {
		t.Errorf("Owned.IsView() = true")
	}
	if !o.IsContiguous() {
		t.Errorf("Owned.IsContiguous() = false")
	}
}

func TestOwnedCloneIsIndependent(t *testing.T) {
	d := dims.New([]dims.Dim{dims.X}, []int{3})
	o := NewFloat64(d, []float64{1, 2, 3})

	c := o.Clone().(*Owned)
	c.SetF64(0, 99)

	if o.F64(0) != 1 {
		t.Errorf("clone mutated source: o.F64(0) = %v, want 1", o.F64(0))
	}
	if c.IsView() {
		t.Errorf("Clone().IsView() = true")
	}
}

func TestSliceKeepAndDrop(t *testing.T) {
	d := dims.New([]dims.Dim{dims.Y, dims.X}, []int{2, 3})
	o := NewFloat64(d, []float64{1, 2, 3, 4, 5, 6})

	row, err := SliceDrop(o, dims.Y, 1)
	if err != nil {
		t.Fatalf("SliceDrop: %v", err)
	}
	if row.Dims().Contains(dims.Y) {
		t.Errorf("SliceDrop did not remove dimension")
	}
	want := []float64{4, 5, 6}
	for i, w := range want {
		if got := row.F64(i); got != w {
			t.Errorf("row[%d] = %v, want %v", i, got, w)
		}
	}

	block, err := SliceKeep(o, dims.X, 1, 3)
	if err != nil {
		t.Fatalf("SliceKeep: %v", err)
	}
	if n, _ := block.Dims().Extent(dims.X); n != 2 {
		t.Fatalf("SliceKeep extent = %d, want 2", n)
	}
	wantBlock := []float64{2, 3, 5, 6}
	for i, w := range wantBlock {
		if got := block.F64(i); got != w {
			t.Errorf("block[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestSliceOfASlice(t *testing.T) {
	d := dims.New([]dims.Dim{dims.X}, []int{5})
	o := NewFloat64(d, []float64{0, 1, 2, 3, 4})

	first, err := SliceKeep(o, dims.X, 1, 4) // {1,2,3}
	if err != nil {
		t.Fatalf("SliceKeep: %v", err)
	}
	second, err := SliceKeep(first, dims.X, 1, 3) // {2,3}
	if err != nil {
		t.Fatalf("SliceKeep of a slice: %v", err)
	}
	want := []float64{2, 3}
	for i, w := range want {
		if got := second.F64(i); got != w {
			t.Errorf("second[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestBroadcastToAndEquals(t *testing.T) {
	xd := dims.New([]dims.Dim{dims.X}, []int{3})
	x := NewFloat64(xd, []float64{1, 2, 3})

	target := dims.New([]dims.Dim{dims.Y, dims.X}, []int{2, 3})
	b, err := BroadcastTo(x, target)
	if err != nil {
		t.Fatalf("BroadcastTo: %v", err)
	}
	if b.Len() != 6 {
		t.Fatalf("broadcast Len() = %d, want 6", b.Len())
	}
	want := []float64{1, 2, 3, 1, 2, 3}
	for i, w := range want {
		if got := b.F64(i); got != w {
			t.Errorf("broadcast[%d] = %v, want %v", i, got, w)
		}
	}

	other := NewFloat64(target, want)
	if !Equals(b, other) {
		t.Errorf("Equals(broadcast view, equivalent owned) = false")
	}
}

func TestInPlaceOpArithmetic(t *testing.T) {
	d := dims.New([]dims.Dim{dims.X}, []int{3})
	a := NewFloat64(d, []float64{1, 2, 3})
	b := NewFloat64(d, []float64{10, 20, 30})

	if err := InPlaceOp(a, b, OpAdd); err != nil {
		t.Fatalf("InPlaceOp: %v", err)
	}
	want := []float64{11, 22, 33}
	for i, w := range want {
		if got := a.F64(i); got != w {
			t.Errorf("a[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestInPlaceOpEventsConcatenates(t *testing.T) {
	d := dims.New([]dims.Dim{dims.Event}, []int{dims.Sparse})
	a := NewEvents(d, [][]float64{{1, 2}}, nil)
	b := NewEvents(d, [][]float64{{3}}, nil)

	if err := InPlaceOp(a, b, OpAdd); err != nil {
		t.Fatalf("InPlaceOp: %v", err)
	}
	want := []float64{1, 2, 3}
	got := a.Events(0)
	if len(got) != len(want) {
		t.Fatalf("Events(0) = %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("Events(0)[%d] = %v, want %v", i, got[i], w)
		}
	}
}

func TestInPlaceOpRejectsNonArithmeticKind(t *testing.T) {
	d := dims.New([]dims.Dim{dims.X}, []int{2})
	a := NewString(d, []string{"a", "b"})
	b := NewString(d, []string{"c", "d"})

	if err := InPlaceOp(a, b, OpAdd); err == nil {
		t.Errorf("expected KindError for string InPlaceOp")
	}
}

func TestCopyBlockConcatenateAlongNewAxis(t *testing.T) {
	xd := dims.New([]dims.Dim{dims.X}, []int{3})
	a := NewFloat64(xd, []float64{1, 2, 3})
	b := NewFloat64(xd, []float64{4, 5, 6})

	target := dims.New([]dims.Dim{dims.Group, dims.X}, []int{2, 3})
	dst := NewFloat64(target, make([]float64, 6))

	if err := CopyBlock(dst, dims.Group, 0, 1, a); err != nil {
		t.Fatalf("CopyBlock a: %v", err)
	}
	if err := CopyBlock(dst, dims.Group, 1, 2, b); err != nil {
		t.Fatalf("CopyBlock b: %v", err)
	}

	want := []float64{1, 2, 3, 4, 5, 6}
	for i, w := range want {
		if got := dst.F64(i); got != w {
			t.Errorf("dst[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestViewCloneIsOwnedAndIndependent(t *testing.T) {
	d := dims.New([]dims.Dim{dims.Y, dims.X}, []int{2, 3})
	o := NewFloat64(d, []float64{1, 2, 3, 4, 5, 6})

	row, err := SliceDrop(o, dims.Y, 0)
	if err != nil {
		t.Fatalf("SliceDrop: %v", err)
	}
	cloned := row.Clone()
	if cloned.IsView() {
		t.Errorf("View.Clone().IsView() = true")
	}
	cloned.SetF64(0, 99)
	if o.F64(0) != 1 {
		t.Errorf("View.Clone() mutation leaked into source: %v", o.F64(0))
	}
}
