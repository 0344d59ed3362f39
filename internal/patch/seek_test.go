package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeekSequence_ExactMatch(t *testing.T) {
	idx, ok := seekSequence([]string{"foo", "bar", "baz"}, []string{"bar", "baz"}, 0, false)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestSeekSequence_RstripIgnoresTrailingWhitespace(t *testing.T) {
	idx, ok := seekSequence([]string{"foo   ", "bar\t\t"}, []string{"foo", "bar"}, 0, false)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestSeekSequence_TrimIgnoresLeadingAndTrailingWhitespace(t *testing.T) {
	idx, ok := seekSequence([]string{"    foo   ", "   bar\t"}, []string{"foo", "bar"}, 0, false)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestSeekSequence_PatternLongerThanInputReturnsNotFound(t *testing.T) {
	_, ok := seekSequence([]string{"just one line"}, []string{"too", "many", "lines"}, 0, false)
	assert.False(t, ok)
}

func TestSeekSequence_EmptyPatternMatchesAtStart(t *testing.T) {
	idx, ok := seekSequence([]string{"a", "b"}, nil, 1, false)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestSeekSequence_EOFBiasesSearchToEnd(t *testing.T) {
	lines := []string{"a", "b", "a", "b"}
	idx, ok := seekSequence(lines, []string{"a", "b"}, 0, true)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
}

// A start past every position a match could begin at must report no match,
// never a match before the requested start.
func TestSeekSequence_StartPastMaxStartReportsNotFound(t *testing.T) {
	lines := []string{"a", "b", "a", "b"}
	_, ok := seekSequence(lines, []string{"a", "b"}, 3, false)
	assert.False(t, ok)
}
