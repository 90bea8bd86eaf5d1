package inversesubset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// CodePoint is a Unicode code point.
type CodePoint rune

// String returns the canonical form U+HEX, with uppercase hexadecimal digits and no zero padding.
func (c CodePoint) String() string {
	return "U+" + strings.ToUpper(strconv.FormatInt(int64(c), 16))
}

// ParseCodePoint parses the canonical form U+HEX. The prefix is case insensitive.
func ParseCodePoint(s string) (CodePoint, error) {
	if len(s) < 3 || (s[0] != 'U' && s[0] != 'u') || s[1] != '+' {
		return 0, fmt.Errorf("invalid code point: %q", s)
	}
	v, err := strconv.ParseUint(s[2:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid code point: %q", s)
	} else if unicode.MaxRune < v {
		return 0, fmt.Errorf("code point out of range: %q", s)
	}
	return CodePoint(v), nil
}

// Set is a set of code points.
type Set map[CodePoint]struct{}

// NewSet returns a set containing the given code points.
func NewSet(cs ...CodePoint) Set {
	set := make(Set, len(cs))
	for _, c := range cs {
		set[c] = struct{}{}
	}
	return set
}

// Add adds code point c to the set.
func (set Set) Add(c CodePoint) {
	set[c] = struct{}{}
}

// Has returns true if c is in the set.
func (set Set) Has(c CodePoint) bool {
	_, ok := set[c]
	return ok
}

// Len returns the number of code points.
func (set Set) Len() int {
	return len(set)
}

// Sorted returns the code points in ascending order.
func (set Set) Sorted() []CodePoint {
	cs := make([]CodePoint, 0, len(set))
	for c := range set {
		cs = append(cs, c)
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i] < cs[j] })
	return cs
}

// Strings returns the canonical forms of the code points in ascending order.
func (set Set) Strings() []string {
	cs := set.Sorted()
	ss := make([]string, len(cs))
	for i, c := range cs {
		ss[i] = c.String()
	}
	return ss
}

// Difference returns the code points in set that are not in other.
func (set Set) Difference(other Set) Set {
	diff := make(Set, len(set))
	for c := range set {
		if !other.Has(c) {
			diff[c] = struct{}{}
		}
	}
	return diff
}

// Whitelist returns the comma separated canonical forms in ascending order, as passed to subsetting tools.
func (set Set) Whitelist() string {
	return strings.Join(set.Strings(), ",")
}

// ParseWhitelist parses a comma separated list of code points. Surrounding whitespace and empty items are ignored.
func ParseWhitelist(s string) (Set, error) {
	set := Set{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item == "" {
			continue
		}
		c, err := ParseCodePoint(item)
		if err != nil {
			return nil, err
		}
		set.Add(c)
	}
	return set, nil
}
