package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountMap(t *testing.T) {
	require := require.New(t)

	groups := []groupCount{
		{ID: "pending", Count: 12},
		{ID: "resolved", Count: 7},
	}

	m := countMap(groups)
	require.Len(m, 2)
	require.EqualValues(12, m["pending"])
	require.EqualValues(7, m["resolved"])

	require.Empty(countMap(nil))
}

func TestFirstCount(t *testing.T) {
	require := require.New(t)

	require.EqualValues(0, firstCount(nil))
	require.EqualValues(42, firstCount([]groupCount{{Count: 42}}))
}
