package patch

import (
	"strings"
	"unicode"
)

// seekSequence finds the sequence of pattern lines within lines starting at
// or after start. Matches are attempted with decreasing strictness: exact,
// then ignoring trailing whitespace, then ignoring leading and trailing
// whitespace. When eof is true the search starts at the position where
// pattern would align with the end of lines, falling back to start if that
// position precedes it.
func seekSequence(lines []string, pattern []string, start int, eof bool) (int, bool) {
	if len(pattern) == 0 {
		return start, true
	}
	if len(pattern) > len(lines) {
		return 0, false
	}

	searchStart := start
	if eof && len(lines) >= len(pattern) {
		searchStart = len(lines) - len(pattern)
	}
	maxStart := len(lines) - len(pattern)

	// searchStart > maxStart means start is already past every position a
	// match could begin: the loops below are empty ranges and correctly
	// report no match, the same as the Rust start..=max range this is
	// ported from. Clamping searchStart down to maxStart here would search
	// lines before the caller's requested start, returning a match the
	// caller explicitly asked to skip past.
	for i := searchStart; i <= maxStart; i++ {
		if matchExact(lines[i:i+len(pattern)], pattern) {
			return i, true
		}
	}
	for i := searchStart; i <= maxStart; i++ {
		if matchWith(lines[i:i+len(pattern)], pattern, strings.TrimRightFunc) {
			return i, true
		}
	}
	for i := searchStart; i <= maxStart; i++ {
		if matchWith(lines[i:i+len(pattern)], pattern, strings.TrimFunc) {
			return i, true
		}
	}
	return 0, false
}

func matchExact(window, pattern []string) bool {
	for i := range pattern {
		if window[i] != pattern[i] {
			return false
		}
	}
	return true
}

func matchWith(window, pattern []string, trim func(string, func(rune) bool) string) bool {
	for i := range pattern {
		if trim(window[i], unicode.IsSpace) != trim(pattern[i], unicode.IsSpace) {
			return false
		}
	}
	return true
}
