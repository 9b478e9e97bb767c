package ambient

import (
	"image"

	"golang.org/x/image/draw"
)

// ToNRGBA returns img as an *image.NRGBA with its origin at (0, 0). The
// result shares no memory with img.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}

// remap builds a dstW x dstH image where each pixel is copied from the
// source position returned by from.
func remap(img image.Image, dstW, dstH int, from func(x, y, w, h int) (int, int)) *image.NRGBA {
	src := ToNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	for y := range dstH {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+4*dstW]
		for x := range dstW {
			sx, sy := from(x, y, w, h)
			i := sy*src.Stride + sx*4
			copy(row[x*4:x*4+4:x*4+4], src.Pix[i:i+4:i+4])
		}
	}
	return dst
}

// FlipH flips the image horizontally (left to right).
func FlipH(img image.Image) *image.NRGBA {
	b := img.Bounds()
	return remap(img, b.Dx(), b.Dy(), func(x, y, w, h int) (int, int) { return w - 1 - x, y })
}

// FlipV flips the image vertically (top to bottom).
func FlipV(img image.Image) *image.NRGBA {
	b := img.Bounds()
	return remap(img, b.Dx(), b.Dy(), func(x, y, w, h int) (int, int) { return x, h - 1 - y })
}

// Rotate90 rotates the image 90 degrees counter-clockwise.
func Rotate90(img image.Image) *image.NRGBA {
	b := img.Bounds()
	return remap(img, b.Dy(), b.Dx(), func(x, y, w, h int) (int, int) { return w - 1 - y, x })
}

func Rotate180(img image.Image) *image.NRGBA {
	b := img.Bounds()
	return remap(img, b.Dx(), b.Dy(), func(x, y, w, h int) (int, int) { return w - 1 - x, h - 1 - y })
}

// Rotate270 rotates the image 270 degrees counter-clockwise.
func Rotate270(img image.Image) *image.NRGBA {
	b := img.Bounds()
	return remap(img, b.Dy(), b.Dx(), func(x, y, w, h int) (int, int) { return y, h - 1 - x })
}

// Transpose flips the image horizontally and rotates 90 degrees
// counter-clockwise.
func Transpose(img image.Image) *image.NRGBA {
	b := img.Bounds()
	return remap(img, b.Dy(), b.Dx(), func(x, y, w, h int) (int, int) { return y, x })
}

// Transverse flips the image vertically and rotates 90 degrees
// counter-clockwise.
func Transverse(img image.Image) *image.NRGBA {
	b := img.Bounds()
	return remap(img, b.Dy(), b.Dx(), func(x, y, w, h int) (int, int) { return w - 1 - y, h - 1 - x })
}

// orientation is the EXIF flag that specifies the transformation needed to
// display an image correctly.
type orientation int

const (
	orientationUnspecified orientation = 0
	orientationNormal      orientation = 1
	orientationFlipH       orientation = 2
	orientationRotate180   orientation = 3
	orientationFlipV       orientation = 4
	orientationTranspose   orientation = 5
	orientationRotate270   orientation = 6
	orientationTransverse  orientation = 7
	orientationRotate90    orientation = 8
)

// fixOrientation applies the transform corresponding to o.
func fixOrientation(img image.Image, o orientation) image.Image {
	switch o {
	case orientationFlipH:
		return FlipH(img)
	case orientationFlipV:
		return FlipV(img)
	case orientationRotate90:
		return Rotate90(img)
	case orientationRotate180:
		return Rotate180(img)
	case orientationRotate270:
		return Rotate270(img)
	case orientationTranspose:
		return Transpose(img)
	case orientationTransverse:
		return Transverse(img)
	}
	return img
}
