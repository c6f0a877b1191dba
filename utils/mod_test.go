package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermutations(t *testing.T) {
	require.Nil(t, Permutations([]int{}))
	require.Equal(t, [][]int{{7}}, Permutations([]int{7}))
	require.Equal(t, [][]int{
		{1, 2, 3},
		{1, 3, 2},
		{2, 1, 3},
		{2, 3, 1},
		{3, 1, 2},
		{3, 2, 1},
	}, Permutations([]int{1, 2, 3}))
}

func TestFindIndex(t *testing.T) {
	require.Equal(t, 1, FindIndex([]string{"a", "b"}, "b"))
	require.Equal(t, -1, FindIndex([]string{"a", "b"}, "c"))
}
