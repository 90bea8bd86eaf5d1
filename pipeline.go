package inversesubset

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xhd2015/xgo/support/fileutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultFormat is the output format when Config.Format is empty.
const DefaultFormat = "woff2"

// DefaultTimeout bounds the subset generator when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Minute

// Config configures a Run.
type Config struct {
	Complete string // path to the complete font
	Subset   string // path to the subset font
	Output   string // output directory, defaults to the working directory

	Format    string          // output format, defaults to DefaultFormat
	Generator SubsetGenerator // defaults to Glyphhanger
	Timeout   time.Duration   // defaults to DefaultTimeout
	Log       *log.Logger     // progress messages, discarded when nil
}

// Target returns the path of the inverse subset font: the complete font's file name without extension, suffixed with "-inverse-subset" and the format extension, in the output directory.
func (cfg Config) Target() string {
	format := cfg.Format
	if format == "" {
		format = DefaultFormat
	}
	base := filepath.Base(cfg.Complete)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(cfg.Output, base+"-inverse-subset."+format)
}

func (cfg Config) withDefaults() Config {
	if cfg.Output == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.Output = wd
		} else {
			cfg.Output = "."
		}
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.Log == nil {
		cfg.Log = log.New(io.Discard, "", 0)
	}
	if cfg.Generator == nil {
		cfg.Generator = &Glyphhanger{Log: cfg.Log}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}

// Result describes a Run.
type Result struct {
	Complete, Subset, Inverse Set
	Whitelist                 string
	Target                    string
	Size                      int64 // size of Target in bytes
}

// Run builds the inverse subset of the complete font: the font with the glyphs of all code points in the complete font that are absent from the subset font. Inputs are checked before anything is written, including that the generator's output file does not exist yet, since it may be the subset font itself. When the subset font covers the complete font, ErrEmptyInverse is returned together with the partial result.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	p := message.NewPrinter(language.English)

	for _, input := range []InputError{{"complete", cfg.Complete}, {"subset", cfg.Subset}} {
		if ok, err := fileutil.FileExists(input.Path); err != nil {
			return nil, err
		} else if !ok {
			return nil, &InputError{Name: input.Name, Path: input.Path}
		}
	}

	// the generator must not overwrite the subset font or any other existing file
	if err := checkOutputFree(OutputPath(cfg.Generator, cfg.Complete, cfg.Format)); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		return nil, err
	}

	res := &Result{}
	var err error
	if res.Complete, err = Extract(cfg.Complete); err != nil {
		return nil, err
	}
	cfg.Log.Print(p.Sprintf("Complete font %s: %d code points", cfg.Complete, res.Complete.Len()))
	if res.Subset, err = Extract(cfg.Subset); err != nil {
		return nil, err
	}
	cfg.Log.Print(p.Sprintf("Subset font %s: %d code points", cfg.Subset, res.Subset.Len()))

	res.Inverse = res.Complete.Difference(res.Subset)
	if res.Inverse.Len() == 0 {
		return res, ErrEmptyInverse
	}
	res.Whitelist = res.Inverse.Whitelist()

	cfg.Log.Print(p.Sprintf("Creating the inverse subset of %d code points...", res.Inverse.Len()))
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	target := cfg.Target()
	if res.Size, err = BuildSubset(ctx, cfg.Generator, cfg.Complete, target, res.Inverse, cfg.Format); err != nil {
		return nil, err
	}
	res.Target = target
	cfg.Log.Println("Created:", target)
	return res, nil
}
