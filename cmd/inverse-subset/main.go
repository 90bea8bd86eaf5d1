package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"

	inversesubset "github.com/stoyan/inverse-subset"
	"github.com/tdewolff/argp"
)

const version = "1.0.0"

var (
	Error   *log.Logger
	Warning *log.Logger
)

func main() {
	Error = log.New(os.Stderr, "ERROR: ", 0)
	Warning = log.New(os.Stderr, "WARNING: ", 0)

	var cfg inversesubset.Config
	var showVersion bool
	cmd := argp.New("Generate an inverse subset font, containing the glyphs of a complete font that are missing from a subset font")
	cmd.AddOpt(&cfg.Complete, "c", "complete", "Path to the complete font file (required).")
	cmd.AddOpt(&cfg.Subset, "s", "subset", "Path to the subset font file (required).")
	cmd.AddOpt(&cfg.Output, "o", "output", "Directory for the inverse subset font, defaults to the working directory.")
	cmd.AddOpt(&showVersion, "", "version", "Print the version and exit.")
	cmd.Parse()

	if showVersion {
		fmt.Println(version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, cfg, os.Stdout)
	stop()
	if err != nil {
		Error.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg inversesubset.Config, stdout io.Writer) error {
	if cfg.Complete == "" {
		return fmt.Errorf("required option not set: --complete")
	} else if cfg.Subset == "" {
		return fmt.Errorf("required option not set: --subset")
	}
	cfg.Log = log.New(stdout, "", 0)

	if target := cfg.Target(); target != "" {
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			Warning.Printf("%s already exists and will be overwritten", target)
		}
	}

	res, err := inversesubset.Run(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%v:  %v => %v code points,  %v\n", filepath.Base(res.Target), res.Complete.Len(), res.Inverse.Len(), formatBytes(uint64(res.Size)))
	fmt.Fprintln(stdout, "Inverse subset generation complete.")
	return nil
}

// formatBytes formats size with a decimal unit, eg. "1.5 kB".
func formatBytes(size uint64) string {
	if size < 10 {
		return fmt.Sprintf("%d B", size)
	}

	units := []string{"B", "kB", "MB", "GB", "TB", "PB", "EB"}
	scale := int(math.Floor((math.Log10(float64(size)) + math.Log10(2.0)) / 3.0))
	value := float64(size) / math.Pow10(scale*3.0)
	format := "%.0f %s"
	if value < 10.0 {
		format = "%.1f %s"
	}
	return fmt.Sprintf(format, value, units[scale])
}
