// Package config handles mcurt.toml runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/chazu/mcurt/vm"
	"github.com/inhies/go-bytesize"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "mcurt.toml"

// Config represents an mcurt.toml file.
type Config struct {
	Heap  Heap  `toml:"heap"`
	Log   Log   `toml:"log"`
	Image Image `toml:"image"`

	// Dir is the directory containing the mcurt.toml file (set at load time).
	Dir string `toml:"-"`
}

// Heap configures the arena and the collector.
type Heap struct {
	Size       string   `toml:"size"` // e.g. "32KB"
	Watermark  *float64 `toml:"watermark"`
	StepBudget int      `toml:"step-budget"`
	Globals    int      `toml:"globals"`
}

// Log configures logging.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

// Image configures the class table image and heap dumps.
type Image struct {
	Table string `toml:"table"`
	Dump  string `toml:"dump"`
}

// Default returns the configuration used when no mcurt.toml exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	def := vm.DefaultOptions()
	if c.Heap.Size == "" {
		c.Heap.Size = bytesize.New(float64(def.HeapSize)).String()
	}
	if c.Heap.Watermark == nil {
		wm := def.Watermark
		c.Heap.Watermark = &wm
	}
	if c.Heap.StepBudget == 0 {
		c.Heap.StepBudget = def.StepBudget
	}
	if c.Heap.Globals == 0 {
		c.Heap.Globals = def.Globals
	}
}

// Load parses mcurt.toml from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find an mcurt.toml file, then loads
// and returns it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// HeapBytes returns the configured arena size in bytes.
func (c *Config) HeapBytes() (int, error) {
	b, err := bytesize.Parse(c.Heap.Size)
	if err != nil {
		return 0, fmt.Errorf("invalid heap size %q: %w", c.Heap.Size, err)
	}
	return int(b), nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	n, err := c.HeapBytes()
	if err != nil {
		return err
	}
	if n < 64 {
		return fmt.Errorf("heap size %s is too small", c.Heap.Size)
	}
	if wm := *c.Heap.Watermark; wm < 0 || wm > 1 {
		return fmt.Errorf("watermark %v outside [0, 1]", wm)
	}
	if c.Heap.StepBudget < 0 {
		return fmt.Errorf("negative step budget %d", c.Heap.StepBudget)
	}
	if c.Heap.Globals < 0 {
		return fmt.Errorf("negative global count %d", c.Heap.Globals)
	}
	return nil
}

// VMOptions maps the heap section to runtime options.
func (c *Config) VMOptions() (vm.Options, error) {
	if err := c.Validate(); err != nil {
		return vm.Options{}, err
	}
	n, _ := c.HeapBytes()
	return vm.Options{
		HeapSize:   n,
		Watermark:  *c.Heap.Watermark,
		StepBudget: c.Heap.StepBudget,
		Globals:    c.Heap.Globals,
	}, nil
}

// Path resolves a path from the file relative to its directory.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}
