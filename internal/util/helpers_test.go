package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetOrdinalSuffix(t *testing.T) {
	cases := map[int]string{
		0: "", 1: "st", 2: "nd", 3: "rd", 4: "th",
		11: "th", 12: "th", 13: "th",
		21: "st", 22: "nd", 23: "rd", 31: "st", 111: "th",
	}
	for day, want := range cases {
		assert.Equal(t, want, GetOrdinalSuffix(day), "day %d", day)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
}
