package inversesubset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tdewolff/font"
	"github.com/xhd2015/xgo/support/cmd"
)

// SubsetGenerator creates a font file that contains only the glyphs for the whitelisted code points, encoded in the given format (eg. woff2). It returns the path of the file it produced.
type SubsetGenerator interface {
	Generate(ctx context.Context, input string, whitelist Set, format string) (string, error)
}

// OutputPather is implemented by subset generators that know in advance where Generate writes to.
type OutputPather interface {
	OutputPath(input, format string) string
}

// OutputPath returns where gen will write the subset of input, which is IntermediatePath unless gen implements OutputPather.
func OutputPath(gen SubsetGenerator, input, format string) string {
	if pather, ok := gen.(OutputPather); ok {
		return pather.OutputPath(input, format)
	}
	return IntermediatePath(input, format)
}

// IntermediatePath returns where subset generators write their output: next to the input, named after the input without its extension, with the "-subset" suffix and the format as extension.
func IntermediatePath(input, format string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "-subset." + format
}

// Glyphhanger generates subsets by running the glyphhanger command line tool.
type Glyphhanger struct {
	Command string    // defaults to glyphhanger
	Stdout  io.Writer // output of the tool, discarded when nil
	Log     *log.Logger
}

func (g *Glyphhanger) command() string {
	if g.Command == "" {
		return "glyphhanger"
	}
	return g.Command
}

// OutputPath returns the file glyphhanger writes to.
func (g *Glyphhanger) OutputPath(input, format string) string {
	return IntermediatePath(input, format)
}

// Args returns the command line arguments passed to glyphhanger.
func (g *Glyphhanger) Args(input string, whitelist Set, format string) []string {
	return []string{
		"--formats=" + format,
		"--subset=" + input,
		"--whitelist=" + whitelist.Whitelist(),
	}
}

// Generate runs glyphhanger and waits for it to exit. A failed invocation returns a *ToolError with the captured standard error.
func (g *Glyphhanger) Generate(ctx context.Context, input string, whitelist Set, format string) (string, error) {
	name := g.command()
	args := g.Args(input, whitelist, format)
	if g.Log != nil {
		g.Log.Println("Running:", commandLine(name, args))
	}

	stderr := &bytes.Buffer{}
	c := exec.CommandContext(ctx, name, args...)
	c.Stdout = g.Stdout
	c.Stderr = stderr
	c.WaitDelay = time.Second
	if err := c.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", &ToolError{
			Command:  name,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}
	return g.OutputPath(input, format), nil
}

func commandLine(name string, args []string) string {
	quoted := make([]string, 0, 1+len(args))
	quoted = append(quoted, cmd.Quote(name))
	for _, arg := range args {
		quoted = append(quoted, cmd.Quote(arg))
	}
	return strings.Join(quoted, " ")
}

const nativeCommand = "tdewolff/font"

// Native generates subsets in-process with the github.com/tdewolff/font subsetter. Supported formats are woff2, ttf (TrueType outlines), and otf (CFF outlines).
type Native struct {
	Dir string // output directory, defaults to the directory of the input
}

// OutputPath returns IntermediatePath, or a file of the same name in Dir.
func (n *Native) OutputPath(input, format string) string {
	output := IntermediatePath(input, format)
	if n.Dir != "" {
		output = filepath.Join(n.Dir, filepath.Base(output))
	}
	return output
}

// Generate writes the subset to OutputPath.
func (n *Native) Generate(ctx context.Context, input string, whitelist Set, format string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ToolError{Command: nativeCommand, ExitCode: -1, Err: err}
	}

	sfnt, err := readFont(input)
	if err != nil {
		return "", &FontError{Path: input, Err: err}
	}

	// convert to sorted list of glyph IDs, .notdef is always kept
	glyphMap := map[uint16]bool{0: true}
	for _, c := range whitelist.Sorted() {
		glyphMap[sfnt.GlyphIndex(rune(c))] = true
	}
	glyphIDs := make([]uint16, 0, len(glyphMap))
	for glyphID := range glyphMap {
		glyphIDs = append(glyphIDs, glyphID)
	}
	sort.Slice(glyphIDs, func(i, j int) bool { return glyphIDs[i] < glyphIDs[j] })

	sfntSubset, err := sfnt.Subset(glyphIDs, font.SubsetOptions{Tables: font.KeepMinTables})
	if err != nil {
		return "", &ToolError{Command: nativeCommand, ExitCode: -1, Err: fmt.Errorf("%v: %w", input, err)}
	}

	var b []byte
	switch format {
	case "woff2":
		if b, err = sfntSubset.WriteWOFF2(); err != nil {
			return "", &ToolError{Command: nativeCommand, ExitCode: -1, Err: err}
		}
	case "ttf":
		if sfntSubset.IsCFF {
			return "", &ToolError{Command: nativeCommand, ExitCode: -1, Err: fmt.Errorf("cannot convert CFF to TrueType glyph outlines")}
		}
		b = sfntSubset.Write()
	case "otf":
		if sfntSubset.IsTrueType {
			return "", &ToolError{Command: nativeCommand, ExitCode: -1, Err: fmt.Errorf("cannot convert TrueType to CFF glyph outlines")}
		}
		b = sfntSubset.Write()
	default:
		return "", &ToolError{Command: nativeCommand, ExitCode: -1, Err: fmt.Errorf("unsupported output format: %v", format)}
	}

	output := n.OutputPath(input, format)
	if err := os.WriteFile(output, b, 0644); err != nil {
		return "", err
	}
	return output, nil
}
