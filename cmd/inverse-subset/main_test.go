package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	inversesubset "github.com/stoyan/inverse-subset"
	"github.com/tdewolff/test"
	"golang.org/x/image/font/gofont/goregular"
)

func init() {
	Error = log.New(io.Discard, "", 0)
	Warning = log.New(io.Discard, "", 0)
}

func writeTestFile(t *testing.T, dir, name string, b []byte) string {
	t.Helper()
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, b, 0644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	small := writeTestFile(t, t.TempDir(), "small.ttf", goregular.TTF)
	subset, err := (&inversesubset.Native{}).Generate(context.Background(), small, inversesubset.NewSet('A', 'B', 'C'), "woff2")
	test.Error(t, err)

	cfg := inversesubset.Config{
		Complete:  writeTestFile(t, dir, "Go-Regular.ttf", goregular.TTF),
		Subset:    subset,
		Output:    filepath.Join(dir, "out"),
		Generator: &inversesubset.Native{},
	}

	stdout := &bytes.Buffer{}
	test.Error(t, run(context.Background(), cfg, stdout))
	test.T(t, strings.Contains(stdout.String(), "Go-Regular-inverse-subset.woff2:"), true, stdout.String())
	test.T(t, strings.HasSuffix(stdout.String(), "Inverse subset generation complete.\n"), true, stdout.String())

	_, err = os.Stat(filepath.Join(dir, "out", "Go-Regular-inverse-subset.woff2"))
	test.Error(t, err)

	// existing targets are overwritten with a warning
	warnings := &bytes.Buffer{}
	Warning = log.New(warnings, "", 0)
	defer func() { Warning = log.New(io.Discard, "", 0) }()
	test.Error(t, run(context.Background(), cfg, io.Discard))
	test.T(t, strings.Contains(warnings.String(), "already exists"), true, warnings.String())
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	font := writeTestFile(t, dir, "Go-Regular.ttf", goregular.TTF)

	err := run(context.Background(), inversesubset.Config{Subset: font}, io.Discard)
	test.T(t, strings.Contains(err.Error(), "--complete"), true, err.Error())

	err = run(context.Background(), inversesubset.Config{Complete: font}, io.Discard)
	test.T(t, strings.Contains(err.Error(), "--subset"), true, err.Error())

	err = run(context.Background(), inversesubset.Config{
		Complete: filepath.Join(dir, "missing.ttf"),
		Subset:   font,
		Output:   dir,
	}, io.Discard)
	test.T(t, errors.Is(err, inversesubset.ErrInputNotFound), true, err)

	err = run(context.Background(), inversesubset.Config{
		Complete: font,
		Subset:   font,
		Output:   dir,
	}, io.Discard)
	test.T(t, errors.Is(err, inversesubset.ErrEmptyInverse), true, err)
}

func TestFormatBytes(t *testing.T) {
	var tests = []struct {
		size     uint64
		expected string
	}{
		{0, "0 B"},
		{9, "9 B"},
		{100, "100 B"},
		{1500, "1.5 kB"},
		{23456, "23 kB"},
		{4200000, "4.2 MB"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			test.T(t, formatBytes(tt.size), tt.expected)
		})
	}
}
