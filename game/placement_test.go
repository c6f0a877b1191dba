package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlacementRoundTrip(t *testing.T) {
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			p := PlacementAt(x, y)
			require.Len(t, string(p), 2)
			require.Regexp(t, `^[a-h][1-8]$`, string(p))

			gotX, gotY, err := ParsePlacement(string(p))
			require.NoError(t, err)
			require.Equal(t, x, gotX)
			require.Equal(t, y, gotY)
		}
	}
}

func TestParsePlacement(t *testing.T) {
	x, y, err := ParsePlacement("h1")
	require.NoError(t, err)
	require.Equal(t, 7, x, "Column letter maps to x")
	require.Equal(t, 0, y, "Row digit maps to y")

	for _, s := range []string{"", "h", "h0", "h9", "z3", "H1", "h1 ", "11"} {
		_, _, err := ParsePlacement(s)
		require.ErrorIs(t, err, ErrInvalidPlacement, "placement %q", s)
	}
}
