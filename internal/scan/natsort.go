package scan

import (
	"sort"
	"strings"
	"unicode"
)

// NaturalLess reports whether a sorts before b under numeric-aware
// comparison: runs of ASCII digits compare by numeric value, everything
// else compares by code point with ASCII letters case-folded. This makes
// "2.mp3" sort before "10.mp3" and "dir2" before "dir10".
func NaturalLess(a, b string) bool {
	return naturalCompare(a, b) < 0
}

// SortNatural sorts paths in place using NaturalLess.
func SortNatural(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return NaturalLess(paths[i], paths[j])
	})
}

func naturalCompare(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	i, j := 0, 0

	for i < len(ra) && j < len(rb) {
		ca := ra[i]
		cb := rb[j]

		if isASCIIDigit(ca) && isASCIIDigit(cb) {
			na, ni := digitRun(ra, i)
			nb, nj := digitRun(rb, j)
			if cmp := compareNumericRuns(na, nb); cmp != 0 {
				return cmp
			}
			i, j = ni, nj
			continue
		}

		fa := foldASCII(ca)
		fb := foldASCII(cb)
		if fa != fb {
			if fa < fb {
				return -1
			}
			return 1
		}
		i++
		j++
	}

	switch {
	case i < len(ra):
		return 1
	case j < len(rb):
		return -1
	default:
		// Equal when case-folded; fall back to the raw strings so the
		// ordering stays total.
		return strings.Compare(a, b)
	}
}

// compareNumericRuns compares two digit runs by value without converting
// to integers, so arbitrarily long runs cannot overflow.
func compareNumericRuns(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func digitRun(runes []rune, start int) (string, int) {
	end := start
	for end < len(runes) && isASCIIDigit(runes[end]) {
		end++
	}
	return string(runes[start:end]), end
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func foldASCII(r rune) rune {
	if r <= unicode.MaxASCII {
		return unicode.ToLower(r)
	}
	return r
}
