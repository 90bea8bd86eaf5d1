package inversesubset

import (
	"fmt"
	"strings"
)

// ErrInputNotFound is returned when an input font does not exist.
var ErrInputNotFound = fmt.Errorf("font file not found")

// ErrNoCharacterMap is returned when a font has no cmap subtable that maps code points.
var ErrNoCharacterMap = fmt.Errorf("no usable character map")

// ErrEmptyInverse is returned when the subset font already covers every code point of the complete font.
var ErrEmptyInverse = fmt.Errorf("subset font covers all code points of the complete font, nothing to build")

// ErrOutputMissing is returned when the subset generator finished without producing a file.
var ErrOutputMissing = fmt.Errorf("subset file not found")

// ErrOutputExists is returned when the file the subset generator writes to already exists before it runs. It would either be overwritten or be mistaken for the generated subset.
var ErrOutputExists = fmt.Errorf("subset file already exists, move or rename it first")

// InputError reports an input font that is missing.
type InputError struct {
	Name string // complete or subset
	Path string
}

func (err *InputError) Error() string {
	return fmt.Sprintf("%s font file not found at %q", err.Name, err.Path)
}

func (err *InputError) Unwrap() error {
	return ErrInputNotFound
}

// FontError reports a font that could not be read or parsed.
type FontError struct {
	Path string
	Err  error
}

func (err *FontError) Error() string {
	return fmt.Sprintf("%v: %v", err.Path, err.Err)
}

func (err *FontError) Unwrap() error {
	return err.Err
}

// ToolError reports a failed subset generator invocation. ExitCode is -1 when the process did not exit normally or no process was involved.
type ToolError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (err *ToolError) Error() string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "%s: %v", err.Command, err.Err)
	if 0 < err.ExitCode {
		fmt.Fprintf(sb, " (exit code %d)", err.ExitCode)
	}
	if stderr := strings.TrimSpace(err.Stderr); stderr != "" {
		sb.WriteString(": ")
		sb.WriteString(stderr)
	}
	return sb.String()
}

func (err *ToolError) Unwrap() error {
	return err.Err
}

// BuildError reports a problem with the intermediate file of a subset generator, either ErrOutputMissing or ErrOutputExists.
type BuildError struct {
	Path string
	Err  error
}

func (err *BuildError) Error() string {
	return fmt.Sprintf("%v: %s", err.Err, err.Path)
}

func (err *BuildError) Unwrap() error {
	return err.Err
}
