package ambient

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/require"
)

// atOnly hides the Opaque method of the wrapped image.
type atOnly struct{ image.Image }

func test_opaque(t *testing.T, img draw.Image) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	t.Run(fmt.Sprintf("%T", img), func(t *testing.T) {
		for y := range h {
			for x := range w {
				img.Set(x, y, color.Opaque)
			}
		}
		require.True(t, IsOpaque(img))
		require.True(t, IsOpaque(atOnly{img}))
		for y := range h {
			for x := range w {
				img.Set(x, y, color.Transparent)
				require.False(t, IsOpaque(img))
				require.False(t, IsOpaque(atOnly{img}))
				img.Set(x, y, color.Opaque)
			}
		}
	})
}

func TestIsOpaque(t *testing.T) {
	r := image.Rect(0, 0, 3, 5)
	test_opaque(t, image.NewNRGBA(r))
	test_opaque(t, image.NewNRGBA64(r))
	test_opaque(t, image.NewRGBA(r))
	test_opaque(t, image.NewRGBA64(r))
	require.True(t, IsOpaque(NewNRGB(r)))
	require.True(t, IsOpaque(atOnly{NewNRGB(r)}))
}
