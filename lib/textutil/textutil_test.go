package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanTitle(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: "  Dune:   Part Two ", expected: "Dune: Part Two"},
		{in: "The\nZone of\t Interest", expected: "The Zone of Interest"},
		{in: "Film: Past Lives", expected: "Past Lives"},
		// certificate suffixes carry meaning and stay put
		{in: "Caught Stealing (15)", expected: "Caught Stealing (15)"},
		{in: "   ", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, CleanTitle(test.in), "in: %q", test.in)
	}
}
