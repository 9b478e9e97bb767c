package ambient

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

var _ = fmt.Print

// numbered returns a w x h image whose red channel holds 1 + the pixel index
// in row major order.
func numbered(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(1 + y*w + x), A: 0xff})
		}
	}
	return img
}

func reds(img *image.NRGBA) (ans [][]uint8) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := []uint8{}
		for x := b.Min.X; x < b.Max.X; x++ {
			row = append(row, img.NRGBAAt(x, y).R)
		}
		ans = append(ans, row)
	}
	return
}

func TestTransforms(t *testing.T) {
	// 1 2 3
	// 4 5 6
	src := numbered(3, 2)
	testCases := []struct {
		name string
		fn   func(image.Image) *image.NRGBA
		want [][]uint8
	}{
		{"FlipH", FlipH, [][]uint8{{3, 2, 1}, {6, 5, 4}}},
		{"FlipV", FlipV, [][]uint8{{4, 5, 6}, {1, 2, 3}}},
		{"Rotate90", Rotate90, [][]uint8{{3, 6}, {2, 5}, {1, 4}}},
		{"Rotate180", Rotate180, [][]uint8{{6, 5, 4}, {3, 2, 1}}},
		{"Rotate270", Rotate270, [][]uint8{{4, 1}, {5, 2}, {6, 3}}},
		{"Transpose", Transpose, [][]uint8{{1, 4}, {2, 5}, {3, 6}}},
		{"Transverse", Transverse, [][]uint8{{6, 3}, {5, 2}, {4, 1}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, reds(tc.fn(src)))
		})
	}
}

func TestTransformsHandleOffsetOrigin(t *testing.T) {
	src := numbered(4, 4).SubImage(image.Rect(1, 1, 3, 4))
	// 6 7
	// 10 11
	// 14 15
	require.Equal(t, [][]uint8{{7, 6}, {11, 10}, {15, 14}}, reds(FlipH(src)))
	require.Equal(t, image.Rect(0, 0, 3, 2), Rotate90(src).Bounds())
}

func TestFixOrientation(t *testing.T) {
	src := numbered(3, 2)
	require.Same(t, src, fixOrientation(src, orientationUnspecified))
	require.Same(t, src, fixOrientation(src, orientationNormal))
	require.Equal(t, reds(Rotate270(src)), reds(fixOrientation(src, orientationRotate270).(*image.NRGBA)))
	require.Equal(t, reds(Transverse(src)), reds(fixOrientation(src, orientationTransverse).(*image.NRGBA)))
}
