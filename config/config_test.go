package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/mcurt/vm"
	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[heap]
size = "16KB"
watermark = 0.5
step-budget = 8
globals = 12

[log]
verbosity = 2

[image]
table = "build/classes.mcrt"
dump = "/tmp/heap.db"
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	opts, err := c.VMOptions()
	if err != nil {
		t.Fatal(err)
	}
	want := vm.Options{HeapSize: 16 * 1024, Watermark: 0.5, StepBudget: 8, Globals: 12}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Errorf("VMOptions mismatch (-want +got):\n%s", diff)
	}
	if c.Log.Verbosity != 2 {
		t.Errorf("verbosity = %d, want 2", c.Log.Verbosity)
	}
	if got := c.Path(c.Image.Table); got != filepath.Join(c.Dir, "build", "classes.mcrt") {
		t.Errorf("table path = %q", got)
	}
	if got := c.Path(c.Image.Dump); got != "/tmp/heap.db" {
		t.Errorf("absolute dump path rewritten to %q", got)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[log]\nverbosity = 1\n")

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	opts, err := c.VMOptions()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(vm.DefaultOptions(), opts); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestExplicitZeroWatermark(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[heap]\nwatermark = 0.0\n")
	c, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if *c.Heap.Watermark != 0 {
		t.Errorf("watermark = %v, want explicit 0 kept", *c.Heap.Watermark)
	}
}

func TestDefault(t *testing.T) {
	opts, err := Default().VMOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.HeapSize != vm.DefaultOptions().HeapSize {
		t.Errorf("HeapSize = %d", opts.HeapSize)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad size", "[heap]\nsize = \"lots\"\n", "invalid heap size"},
		{"tiny heap", "[heap]\nsize = \"8B\"\n", "too small"},
		{"watermark", "[heap]\nwatermark = 1.5\n", "watermark"},
		{"negative budget", "[heap]\nstep-budget = -1\n", "negative step budget"},
		{"syntax", "[heap\n", "parse error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := Load(dir)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[heap]\nsize = \"4KB\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	if n, _ := c.HeapBytes(); n != 4096 {
		t.Errorf("heap bytes = %d, want 4096", n)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	c, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if c != nil {
		t.Error("expected nil config when no file exists")
	}
}
