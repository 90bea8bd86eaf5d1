package inversesubset

import (
	"os"

	"github.com/tdewolff/font"
)

// Extract returns the code points that the font file at path maps to a glyph. TTF, OTF, WOFF, WOFF2, and EOT files are supported, for TTC and OTC collections the first font is used. Errors are of type *FontError.
func Extract(path string) (Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &FontError{Path: path, Err: err}
	}
	set, err := ParseCodePoints(b)
	if err != nil {
		return nil, &FontError{Path: path, Err: err}
	}
	return set, nil
}

// ParseCodePoints is like Extract but reads the font from b.
func ParseCodePoints(b []byte) (Set, error) {
	sfnt, err := parseFont(b)
	if err != nil {
		return nil, err
	}
	table, ok := sfnt.Tables["cmap"]
	if !ok {
		return nil, ErrNoCharacterMap
	}
	return cmapCodePoints(table, sfnt.NumGlyphs())
}

func parseFont(b []byte) (*font.SFNT, error) {
	b, err := font.ToSFNT(b)
	if err != nil {
		return nil, err
	}
	return font.ParseSFNT(b, 0)
}

func readFont(filename string) (*font.SFNT, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return parseFont(b)
}
