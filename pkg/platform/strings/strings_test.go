package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"comma separated", "A,B,C", []string{"A", "B", "C"}},
		{"mixed delimiters", "A; B,C", []string{"A", "B", "C"}},
		{"whitespace and empties", " A ,, ;B, ", []string{"A", "B"}},
		{"empty input", "", []string{}},
		{"single entry", " T-001 ", []string{"T-001"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.in))
		})
	}
}

func TestDedupeAndTrim(t *testing.T) {
	assert.Equal(t, []string{"foo", "bar"}, DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  "}))

	var empty []string
	assert.Equal(t, empty, DedupeAndTrim(nil))
}
