package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgPairs(t *testing.T) {
	args, err := parseArgPairs([]string{"expression=6*7", "text=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "6*7", args["expression"])
	// Only the first '=' splits; values may contain more.
	assert.Equal(t, "a=b", args["text"])
}

func TestParseArgPairsMalformed(t *testing.T) {
	_, err := parseArgPairs([]string{"no-equals"})
	assert.Error(t, err)

	_, err = parseArgPairs([]string{"=value"})
	assert.Error(t, err)
}
