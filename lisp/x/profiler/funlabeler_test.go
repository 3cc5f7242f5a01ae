// Copyright © 2018 The ELPS authors

package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{
			name:     "empty",
			label:    "",
			expected: "",
		},
		{
			name:     "no label",
			label:    "Adds two numbers. @trace",
			expected: "",
		},
		{
			name:     "normal",
			label:    "@trace{ Add-It }",
			expected: "Add-It",
		},
		{
			name:     "mutator",
			label:    "Resets the counter. @trace{ reset-counter! }",
			expected: "reset-counter!",
		},
		{
			name:     "predicate",
			label:    "@trace { counter-zero? }",
			expected: "counter-zero?",
		},
		{
			name:     "spaces",
			label:    "@trace{Add  It}",
			expected: "Add_It",
		},
		{
			name:     "first label wins",
			label:    "@trace{one} @trace{two}",
			expected: "one",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual := cleanLabel(tc.label)
			assert.Equal(t, tc.expected, actual, "cleanLabel(%s)", tc.label)
		})
	}
}
