package inversesubset

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tdewolff/test"
)

func TestCodePointString(t *testing.T) {
	var tests = []struct {
		c CodePoint
		s string
	}{
		{0x0, "U+0"},
		{0x41, "U+41"},
		{0xabc, "U+ABC"},
		{0xFFFD, "U+FFFD"},
		{0x1F600, "U+1F600"},
		{0x10FFFF, "U+10FFFF"},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			test.T(t, tt.c.String(), tt.s)

			c, err := ParseCodePoint(tt.s)
			test.Error(t, err)
			test.T(t, c, tt.c)
		})
	}
}

func TestParseCodePoint(t *testing.T) {
	c, err := ParseCodePoint("u+00e9")
	test.Error(t, err)
	test.T(t, c, CodePoint(0xE9))

	for _, s := range []string{"", "U+", "41", "U+G1", "U+-41", "U+110000", "X+41", "U+41 "} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseCodePoint(s)
			test.T(t, err != nil, true, "expected error")
		})
	}
}

func TestSetDifference(t *testing.T) {
	complete := NewSet(0x41, 0x42, 0x43)
	subset := NewSet(0x41)

	inverse := complete.Difference(subset)
	if diff := cmp.Diff(NewSet(0x42, 0x43), inverse); diff != "" {
		t.Fatalf("inverse mismatch (-want +got):\n%s", diff)
	}
	test.T(t, inverse.Whitelist(), "U+42,U+43")

	// the receiver is not modified
	test.T(t, complete.Len(), 3)
}

func TestSetDifferenceProperties(t *testing.T) {
	var tests = []struct {
		name string
		a, b Set
	}{
		{"disjoint", NewSet(0x41, 0x42), NewSet(0x61, 0x62)},
		{"overlap", NewSet(0x41, 0x42, 0x43, 0x1F600), NewSet(0x42, 0x1F600, 0x20AC)},
		{"superset", NewSet(0x41), NewSet(0x41, 0x42)},
		{"empty", NewSet(), NewSet(0x41)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inverse := tt.a.Difference(tt.b)
			for c := range inverse {
				test.T(t, tt.b.Has(c), false, c.String(), "in subset")
				test.T(t, tt.a.Has(c), true, c.String(), "not in complete")
			}
			for c := range tt.a {
				test.T(t, inverse.Has(c) != tt.b.Has(c), true, c.String())
			}

			if diff := cmp.Diff(tt.a, tt.a.Difference(Set{})); diff != "" {
				t.Errorf("A - {} != A (-want +got):\n%s", diff)
			}
			test.T(t, tt.a.Difference(tt.a).Len(), 0)
		})
	}
}

func TestSetWhitelist(t *testing.T) {
	set := NewSet(0x1F600, 0x43, 0x41, 0xE9, 0x41)
	test.T(t, set.Len(), 4)
	test.T(t, set.Whitelist(), "U+41,U+43,U+E9,U+1F600")
	test.T(t, NewSet().Whitelist(), "")

	// map iteration order must not leak into the output
	for i := 0; i < 10; i++ {
		test.T(t, set.Whitelist(), "U+41,U+43,U+E9,U+1F600")
	}

	set2, err := ParseWhitelist(" U+41, U+43,,U+E9 ,U+1F600")
	test.Error(t, err)
	if diff := cmp.Diff(set, set2); diff != "" {
		t.Fatalf("whitelist mismatch (-want +got):\n%s", diff)
	}

	_, err = ParseWhitelist("U+41,A")
	test.T(t, err != nil, true, "expected error")
}

func TestSetStrings(t *testing.T) {
	pattern := regexp.MustCompile(`^U\+[0-9A-F]+$`)
	set := NewSet(0x0, 0x9, 0xa, 0xff, 0x100, 0xffff, 0x10000, 0x10FFFF)
	ss := set.Strings()
	test.T(t, len(ss), set.Len())
	for i, s := range ss {
		test.T(t, pattern.MatchString(s), true, s)
		if 0 < i {
			test.T(t, ss[i-1] != s, true, "duplicate", s)
		}
	}
}
