package heapdump

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/chazu/mcurt/vm"
	"github.com/google/go-cmp/cmp"
)

func buildHeap(t *testing.T) *vm.Runtime {
	t.Helper()
	rt := vm.New(vm.Options{HeapSize: 4096, Globals: 2})
	ctx := rt.Main()
	s, err := ctx.NewString("leaf")
	if err != nil {
		t.Fatal(err)
	}
	arr, err := ctx.MakeArray(vm.AnyArrayClass, s, vm.FromInt(1))
	if err != nil {
		t.Fatal(err)
	}
	rt.SetGlobal(1, arr)
	if _, err := ctx.NewIntArray(3, 0); err != nil { // unreachable
		t.Fatal(err)
	}
	return rt
}

func TestWrite(t *testing.T) {
	rt := buildHeap(t)
	path := filepath.Join(t.TempDir(), "heap.db")
	ctx := context.Background()

	sum, err := Write(ctx, path, rt)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	// string, vector, array, int array; vector -> string, array -> vector.
	want := Summary{Objects: 4, Refs: 2, Roots: 1, Words: 3 + 4 + 3 + 5}
	if diff := cmp.Diff(want, sum); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var kind string
	var slot int
	var addr int64
	if err := db.QueryRow("SELECT kind, slot, addr FROM roots").Scan(&kind, &slot, &addr); err != nil {
		t.Fatal(err)
	}
	if kind != "global" || slot != 1 || addr != int64(rt.Global(1).Pointer()) {
		t.Errorf("root = %s[%d] %#x", kind, slot, addr)
	}

	var allocs int
	if err := db.QueryRow("SELECT value FROM stats WHERE name = 'allocations'").Scan(&allocs); err != nil {
		t.Fatal(err)
	}
	if allocs != 4 {
		t.Errorf("allocations stat = %d, want 4", allocs)
	}
}

func TestWriteReplacesExisting(t *testing.T) {
	rt := buildHeap(t)
	path := filepath.Join(t.TempDir(), "heap.db")
	ctx := context.Background()
	if _, err := Write(ctx, path, rt); err != nil {
		t.Fatal(err)
	}
	rt.Collect()
	sum, err := Write(ctx, path, rt)
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if sum.Objects != 3 {
		t.Errorf("objects after collection = %d, want 3", sum.Objects)
	}
}

func TestHistogram(t *testing.T) {
	rt := buildHeap(t)
	path := filepath.Join(t.TempDir(), "heap.db")
	ctx := context.Background()
	if _, err := Write(ctx, path, rt); err != nil {
		t.Fatal(err)
	}

	got, err := Histogram(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	want := []ClassCount{
		{Class: "integer[]", Objects: 1, Words: 5},
		{Class: "Vector", Objects: 1, Words: 4},
		{Class: "any[]", Objects: 1, Words: 3},
		{Class: "string", Objects: 1, Words: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("histogram mismatch (-want +got):\n%s", diff)
	}

	if _, err := Histogram(ctx, filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("Histogram of a missing file should fail")
	}
}
