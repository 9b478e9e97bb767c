package ambient

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

var _ = fmt.Print

func TestPackLayout(t *testing.T) {
	testCases := []struct {
		order PixelOrder
		want  uint32
	}{
		{ARGB, 0x44112233},
		{ABGR, 0x44332211},
		{RGBA, 0x11223344},
		{BGRA, 0x33221144},
	}
	for _, tc := range testCases {
		t.Run(tc.order.String(), func(t *testing.T) {
			require.Equal(t, tc.want, tc.order.Pack(0x11, 0x22, 0x33, 0x44))
			r, g, b, a := tc.order.Unpack(tc.want)
			require.Equal(t, []uint8{0x11, 0x22, 0x33, 0x44}, []uint8{r, g, b, a})
		})
	}
}

func TestParsePixelOrder(t *testing.T) {
	for _, s := range []string{"argb", "ARGB", " Argb "} {
		o, err := ParsePixelOrder(s)
		require.NoError(t, err)
		require.Equal(t, ARGB, o)
	}
	o, err := ParsePixelOrder("bgra")
	require.NoError(t, err)
	require.Equal(t, BGRA, o)

	_, err = ParsePixelOrder("rgb")
	require.True(t, errors.Is(err, ErrUnknownPixelOrder))
}

func TestPixelOrderText(t *testing.T) {
	b, err := RGBA.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "RGBA", string(b))
	var o PixelOrder
	require.NoError(t, o.UnmarshalText([]byte("abgr")))
	require.Equal(t, ABGR, o)
	_, err = PixelOrder(42).MarshalText()
	require.ErrorIs(t, err, ErrUnknownPixelOrder)
	require.Equal(t, "PixelOrder(42)", PixelOrder(42).String())
}
