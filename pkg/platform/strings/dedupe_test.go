package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "trims whitespace", input: []string{"  cs101  ", "math  "}, expected: []string{"cs101", "math"}},
		{name: "removes duplicates preserving order", input: []string{"b", "a", "b", "c", "a"}, expected: []string{"b", "a", "c"}},
		{name: "drops blanks", input: []string{"x", "", "   "}, expected: []string{"x"}},
		{name: "case sensitive", input: []string{"Bio", "bio"}, expected: []string{"Bio", "bio"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{}, SplitList(""))
	assert.Equal(t, []string{}, SplitList("  "))
	assert.Equal(t, []string{"cs101", "math200"}, SplitList("cs101, math200,cs101,"))
}

func TestDedupe(t *testing.T) {
	assert.Nil(t, Dedupe[int](nil))
	assert.Equal(t, []int{3, 1, 2}, Dedupe([]int{3, 1, 3, 2, 1}))
}
