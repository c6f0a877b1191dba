package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunWritesProfileOnFailure(t *testing.T) {
	out := t.TempDir()

	code := run([]string{"-profile", "mem", "-out", out, "-strategy", "oracle"})

	require.Equal(t, 2, code)
	_, err := os.Stat(filepath.Join(out, "mem.pprof"))
	require.NoError(t, err, "The profile should be written before the process exits")
}

func TestRunExitCodes(t *testing.T) {
	require.Equal(t, 2, run([]string{"-profile", "trace"}))
	require.Equal(t, 2, run([]string{"-throughput", "0"}))
	require.Equal(t, 2, run([]string{"-undefined"}))
	require.Equal(t, 0, run([]string{"-games", "1", "-strategy", "greedy", "-out", t.TempDir()}))
}

func TestParseCounts(t *testing.T) {
	counts, err := parseCounts("1, 4,8")
	require.NoError(t, err)
	require.Equal(t, []int{1, 4, 8}, counts)

	_, err = parseCounts("2,x")
	require.Error(t, err)
}
