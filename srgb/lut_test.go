package srgb

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGammaToLinear(t *testing.T) {
	lut := GammaToLinear()
	require.Len(t, lut, GammaLevels)
	require.Equal(t, float32(0), lut[0])
	require.InDelta(t, 1.0, lut[255], 1e-6)
	for i := 1; i < len(lut); i++ {
		require.GreaterOrEqual(t, lut[i], lut[i-1], "index %d", i)
	}
	// the linear segment of the sRGB curve
	require.InDelta(t, float64(10.0/255/12.92), float64(lut[10]), 1e-7)
}

func TestLinearToGamma(t *testing.T) {
	lut := LinearToGamma()
	require.Len(t, lut, LinearSteps+1)
	require.Equal(t, uint8(0), lut[0])
	require.Equal(t, uint8(255), lut[LinearSteps])
	require.Equal(t, uint8(254), lut[LinearSteps-1])
	for i := 1; i < len(lut); i++ {
		require.GreaterOrEqual(t, lut[i], lut[i-1], "index %d", i)
	}
	require.Equal(t, uint8(32), lut[11])
	require.Equal(t, uint8(33), lut[12])
}

func TestTablesAreShared(t *testing.T) {
	a, b := GammaToLinear(), GammaToLinear()
	require.Same(t, &a[0], &b[0])
	c, d := LinearToGamma(), LinearToGamma()
	require.Same(t, &c[0], &d[0])
}

func TestDelinearize(t *testing.T) {
	testCases := []struct {
		in   float32
		want uint8
	}{
		{0, 0},
		{-1, 0},
		{1, 255},
		{0.9999, 255},
		{2, 255},
		{float32(math.Inf(1)), 255},
		{float32(math.Inf(-1)), 0},
		{float32(math.NaN()), 0},
		{12.5 / 1025, 33},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprint(tc.in), func(t *testing.T) {
			require.Equal(t, tc.want, Delinearize(tc.in))
		})
	}
}

func TestRoundTripIsApproximate(t *testing.T) {
	// The inverse curve is a plain power law, so mid tones drift. Only the
	// end points are guaranteed to survive a round trip.
	require.Equal(t, uint8(0), Delinearize(Linearize(0)))
	require.Equal(t, uint8(255), Delinearize(Linearize(255)))
	drift := 0
	for i := range GammaLevels {
		if Delinearize(Linearize(uint8(i))) != uint8(i) {
			drift++
		}
	}
	require.NotZero(t, drift)
}
