package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestForEachRowVisitsEveryRow(t *testing.T) {
	const rows = 37
	var seen [rows]int32

	err := ForEachRow(context.Background(), rows, func(row int) error {
		atomic.AddInt32(&seen[row], 1)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachRow: %v", err)
	}
	for i, v := range seen {
		if v != 1 {
			t.Errorf("row %d visited %d times, want 1", i, v)
		}
	}
}

func TestForEachRowPropagatesFirstError(t *testing.T) {
	want := errors.New("malformed row")

	err := ForEachRow(context.Background(), 16, func(row int) error {
		if row == 5 {
			return want
		}
		return nil
	})
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestForEachRowZeroRows(t *testing.T) {
	called := false
	err := ForEachRow(context.Background(), 0, func(row int) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachRow: %v", err)
	}
	if called {
		t.Errorf("fn called with zero rows")
	}
}
