package inversesubset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"

	"github.com/xhd2015/xgo/support/filecopy"
	"github.com/xhd2015/xgo/support/fileutil"
)

// BuildSubset lets gen create a subset of input with the whitelisted code points and moves the produced file to target, creating its directory if needed. It returns the size of target in bytes. When the file gen writes to already exists beforehand, or gen reports success but the produced file does not exist, a *BuildError is returned.
func BuildSubset(ctx context.Context, gen SubsetGenerator, input, target string, whitelist Set, format string) (int64, error) {
	if err := checkOutputFree(OutputPath(gen, input, format)); err != nil {
		return 0, err
	}

	produced, err := gen.Generate(ctx, input, whitelist, format)
	if err != nil {
		return 0, err
	}

	if ok, err := fileutil.FileExists(produced); err != nil {
		return 0, err
	} else if !ok {
		return 0, &BuildError{Path: produced, Err: ErrOutputMissing}
	}

	if produced != target {
		if err := moveFile(produced, target); err != nil {
			return 0, err
		}
	}

	info, err := os.Stat(target)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// checkOutputFree returns a *BuildError wrapping ErrOutputExists when a file exists at output.
func checkOutputFree(output string) error {
	if ok, err := fileutil.FileExists(output); err != nil {
		return err
	} else if ok {
		return &BuildError{Path: output, Err: ErrOutputExists}
	}
	return nil
}

func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}

	// rename does not work across file systems
	if err := filecopy.CopyFileAll(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
