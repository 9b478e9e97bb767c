package ambient

import (
	"fmt"
	"image"
	"image/color"
)

func unpremultiply8(r, a uint8) uint8 {
	return uint8((uint16(r) * 0xff) / uint16(a))
}

// Pack copies img into a row major buffer of packed pixels. Colors are
// stored un-premultiplied.
func Pack(img image.Image, order PixelOrder) (pixels []uint32, width, height int) {
	b := img.Bounds()
	width, height = b.Dx(), b.Dy()
	pixels = make([]uint32, width*height)
	if width == 0 || height == 0 {
		return
	}
	rs, gs, bs, as := order.shifts()
	pack := func(r, g, b, a uint8) uint32 {
		return uint32(r)<<rs | uint32(g)<<gs | uint32(b)<<bs | uint32(a)<<as
	}
	switch src := img.(type) {
	case *NRGB:
		for y := range height {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			_ = row[3*(width-1)+2]
			for x, dst := 0, pixels[y*width:(y+1)*width]; x < width; x++ {
				s := row[0:3:3]
				dst[x] = pack(s[0], s[1], s[2], 0xff)
				row = row[3:]
			}
		}
	case *image.NRGBA:
		for y := range height {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			_ = row[4*(width-1)+3]
			for x, dst := 0, pixels[y*width:(y+1)*width]; x < width; x++ {
				s := row[0:4:4]
				dst[x] = pack(s[0], s[1], s[2], s[3])
				row = row[4:]
			}
		}
	case *image.RGBA:
		for y := range height {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			_ = row[4*(width-1)+3]
			for x, dst := 0, pixels[y*width:(y+1)*width]; x < width; x++ {
				s := row[0:4:4]
				switch a := s[3]; a {
				case 0xff:
					dst[x] = pack(s[0], s[1], s[2], a)
				case 0:
					dst[x] = pack(0, 0, 0, 0)
				default:
					dst[x] = pack(unpremultiply8(s[0], a), unpremultiply8(s[1], a), unpremultiply8(s[2], a), a)
				}
				row = row[4:]
			}
		}
	case *image.Gray:
		for y := range height {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			_ = row[width-1]
			for x, dst := 0, pixels[y*width:(y+1)*width]; x < width; x++ {
				dst[x] = pack(row[x], row[x], row[x], 0xff)
			}
		}
	default:
		for y := range height {
			dst := pixels[y*width : (y+1)*width]
			for x := range width {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				dst[x] = pack(c.R, c.G, c.B, c.A)
			}
		}
	}
	return
}

// Unpack converts a packed buffer back into an image with its origin at
// (0, 0). When keepAlpha is false the result is an opaque *NRGB, otherwise
// an *image.NRGBA.
func Unpack(pixels []uint32, width, height int, order PixelOrder, keepAlpha bool) (image.Image, error) {
	if width < 0 || height < 0 || len(pixels) < width*height {
		return nil, fmt.Errorf("the image width and height dont match the size of the pixel data: width=%d height=%d len=%d", width, height, len(pixels))
	}
	rs, gs, bs, as := order.shifts()
	r := image.Rect(0, 0, width, height)
	if !keepAlpha {
		img := NewNRGB(r)
		d := img.Pix
		for _, p := range pixels[:width*height] {
			s := d[0:3:3]
			s[0], s[1], s[2] = uint8(p>>rs), uint8(p>>gs), uint8(p>>bs)
			d = d[3:]
		}
		return img, nil
	}
	img := image.NewNRGBA(r)
	d := img.Pix
	for _, p := range pixels[:width*height] {
		s := d[0:4:4]
		s[0], s[1], s[2], s[3] = uint8(p>>rs), uint8(p>>gs), uint8(p>>bs), uint8(p>>as)
		d = d[4:]
	}
	return img, nil
}

type pixelOrderer interface {
	PixelOrder() PixelOrder
}

type alphaPreserver interface {
	PreservesAlpha() bool
}

// ApplyToImage runs alg over a copy of img and returns the result. The
// pixel order and alpha handling are taken from alg when it reports them
// (as Compensator does), otherwise ARGB is used and alpha is dropped. img is
// not modified.
func ApplyToImage(alg Algorithm, img image.Image) image.Image {
	order, keepAlpha := ARGB, false
	if o, ok := alg.(pixelOrderer); ok {
		order = o.PixelOrder()
	}
	if a, ok := alg.(alphaPreserver); ok {
		keepAlpha = a.PreservesAlpha()
	}
	pixels, w, h := Pack(img, order)
	alg.Apply(pixels, w, h)
	ans, _ := Unpack(pixels, w, h, order, keepAlpha)
	return ans
}

// IsOpaque reports whether every pixel of img is fully opaque.
func IsOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}
