// mcurt CLI - runs a built-in allocation workload on the runtime and
// reports collector statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/mcurt/config"
	"github.com/chazu/mcurt/heapdump"
	"github.com/chazu/mcurt/lib/gpio"
	"github.com/chazu/mcurt/vm"
	"github.com/chazu/mcurt/vm/flash"
)

var log = commonlog.GetLogger("mcurt.cli")

func main() {
	configDir := flag.String("config", "", "Directory to search for mcurt.toml (default: current directory)")
	table := flag.String("table", "", "Class table image to load (overrides [image] table)")
	iterations := flag.Int("iterations", 1000, "Number of workload iterations")
	dump := flag.String("dump", "", "Write a SQLite heap dump to this path (overrides [image] dump)")
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mcurt [options]\n\n")
		fmt.Fprintf(os.Stderr, "Runs the built-in workload on a fresh runtime and prints GC statistics.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  mcurt -iterations 5000            # Longer run with defaults\n")
		fmt.Fprintf(os.Stderr, "  mcurt -config ./board -v          # Use ./board/mcurt.toml\n")
		fmt.Fprintf(os.Stderr, "  mcurt -table app.mcrt -dump h.db  # Load classes, dump the heap\n")
	}
	flag.Parse()

	cfg, err := loadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	verbosity := cfg.Log.Verbosity
	if *verbose && verbosity < 2 {
		verbosity = 2
	}
	var logPath *string
	if cfg.Log.Path != "" {
		p := cfg.Path(cfg.Log.Path)
		logPath = &p
	}
	commonlog.Configure(verbosity, logPath)

	opts, err := cfg.VMOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	rt := vm.New(opts)
	if err := rt.RegisterClass(gpio.Class); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tablePath := *table
	if tablePath == "" {
		tablePath = cfg.Path(cfg.Image.Table)
	}
	if tablePath != "" {
		if err := loadTable(rt, tablePath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *verbose {
		fmt.Printf("Heap: %s, watermark %.2f, step budget %d\n",
			humanize.IBytes(uint64(opts.HeapSize)), opts.Watermark, opts.StepBudget)
	}

	pins := gpio.NewSimulated()
	gpio.Use(pins)

	status, err := rt.TryAndCatch(func(ctx *vm.Context) error {
		return runWorkload(ctx, *iterations)
	})
	if err != nil {
		log.Errorf("workload failed: %s", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	printStats(rt.Stats())
	if *verbose {
		fmt.Printf("GPIO writes: %d\n", pins.Writes)
	}

	dumpPath := *dump
	if dumpPath == "" {
		dumpPath = cfg.Path(cfg.Image.Dump)
	}
	if dumpPath != "" {
		sum, err := heapdump.Write(context.Background(), dumpPath, rt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing heap dump: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Heap dump: %s (%d objects, %d refs, %d roots, %s)\n",
			dumpPath, sum.Objects, sum.Refs, sum.Roots, humanize.IBytes(uint64(sum.Words)*4))
	}

	os.Exit(int(status))
}

func loadConfig(dir string) (*config.Config, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg, err := config.FindAndLoad(wd)
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			return config.Default(), nil
		}
		return cfg, nil
	}
	return config.Load(dir)
}

func loadTable(rt *vm.Runtime, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading class table: %w", err)
	}
	classes, err := flash.Load(rt, data, gpio.Natives())
	if err != nil {
		return err
	}
	log.Infof("loaded %d classes from %s (%s)", len(classes), path, humanize.IBytes(uint64(len(data))))
	return nil
}

func printStats(s vm.Stats) {
	fmt.Printf("Allocations: %s\n", humanize.Comma(int64(s.Allocations)))
	fmt.Printf("GC cycles:   %d (%d steps, last %s)\n", s.Cycles, s.Steps, s.LastCycle)
	fmt.Printf("Freed:       %s objects\n", humanize.Comma(int64(s.FreedObjects)))
	fmt.Printf("Heap:        %s used of %s (largest free block %s)\n",
		humanize.IBytes(uint64(s.UsedBytes)), humanize.IBytes(uint64(s.HeapBytes)),
		humanize.IBytes(uint64(s.LargestFreeBytes)))
}
