package ambient

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/kettek/apng"
	"github.com/rwcarlsen/goexif/exif"
	exif_tiff "github.com/rwcarlsen/goexif/tiff"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kovidgoyal/ambient/types"
)

type fileSystem interface {
	Create(string) (io.WriteCloser, error)
	Open(string) (io.ReadCloser, error)
}

type localFS struct{}

func (localFS) Create(name string) (io.WriteCloser, error) { return os.Create(name) }
func (localFS) Open(name string) (io.ReadCloser, error)    { return os.Open(name) }

var fs fileSystem = localFS{}

type Format = types.Format

const (
	UNKNOWN = types.UNKNOWN
	JPEG    = types.JPEG
	PNG     = types.PNG
	GIF     = types.GIF
	TIFF    = types.TIFF
	WEBP    = types.WEBP
	BMP     = types.BMP
)

var (
	// ErrUnsupportedFormat means the given image format is not supported.
	ErrUnsupportedFormat = errors.New("ambient: unsupported image format")
	// ErrNoFrames is returned when writing an Image that has no frames.
	ErrNoFrames = errors.New("ambient: image has no frames")
)

type decodeConfig struct {
	autoOrientation bool
	maxSize         int
}

var defaultDecodeConfig = decodeConfig{
	autoOrientation: true,
}

// DecodeOption sets an optional parameter for the Decode and Open functions.
type DecodeOption func(*decodeConfig)

// AutoOrientation returns a DecodeOption that sets the auto-orientation mode.
// If auto-orientation is enabled, the image will be transformed after decoding
// according to the EXIF orientation tag (if present). By default it's enabled.
func AutoOrientation(enabled bool) DecodeOption {
	return func(c *decodeConfig) {
		c.autoOrientation = enabled
	}
}

// MaxSize returns a DecodeOption that shrinks still images whose larger
// dimension exceeds n by an integer factor. Zero, the default, disables
// shrinking.
func MaxSize(n int) DecodeOption {
	return func(c *decodeConfig) {
		c.maxSize = max(0, n)
	}
}

// NewDecodeConfig returns the decode configuration built from opts.
func NewDecodeConfig(opts ...DecodeOption) decodeConfig {
	cfg := defaultDecodeConfig
	for _, option := range opts {
		option(&cfg)
	}
	return cfg
}

type exifInfo struct {
	orientation orientation
	nonSRGB     bool
}

func read_exif(data []byte) (ans exifInfo) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil || x == nil {
		return
	}
	if tag, err := x.Get(exif.Orientation); err == nil && tag != nil && tag.Format() == exif_tiff.IntVal {
		if v, err := tag.Int(0); err == nil && v > 0 && v < 9 {
			ans.orientation = orientation(v)
		}
	}
	// 1 is sRGB, 0xffff is uncalibrated
	if tag, err := x.Get(exif.ColorSpace); err == nil && tag != nil && tag.Format() == exif_tiff.IntVal {
		if v, err := tag.Int(0); err == nil && v != 1 {
			ans.nonSRGB = true
		}
	}
	return
}

// png_is_animated reports whether an acTL chunk precedes the image data.
func png_is_animated(data []byte) bool {
	const sig = "\x89PNG\r\n\x1a\n"
	if !bytes.HasPrefix(data, []byte(sig)) {
		return false
	}
	data = data[len(sig):]
	for len(data) >= 8 {
		n := int(binary.BigEndian.Uint32(data))
		switch string(data[4:8]) {
		case "acTL":
			return true
		case "IDAT", "IEND":
			return false
		}
		if n < 0 || len(data) < 12+n {
			return false
		}
		data = data[12+n:]
	}
	return false
}

func shrink(img image.Image, max_size int) image.Image {
	if max_size <= 0 {
		return img
	}
	b := img.Bounds()
	factor := max(b.Dx(), b.Dy()) / max_size
	if factor < 2 {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, max(1, b.Dx()/factor), max(1, b.Dy()/factor)))
	draw.ApproxBiLinear.Scale(dst, dst.Rect, img, b, draw.Src, nil)
	return dst
}

func decode_all(data []byte, cfg decodeConfig) (ans *Image, err error) {
	c, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	ans = &Image{Format: types.FromDecoderName(name), Width: c.Width, Height: c.Height}
	switch {
	case ans.Format == GIF:
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		ans.populate_from_gif(g)
	case ans.Format == PNG && png_is_animated(data):
		p, err := apng.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		ans.populate_from_apng(&p)
	default:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		ans.Frames = append(ans.Frames, &Frame{Number: 1, Image: img})
	}
	if len(ans.Frames) == 0 {
		return nil, ErrNoFrames
	}
	ex := read_exif(data)
	ans.NonSRGB = ex.nonSRGB
	if ans.NonSRGB {
		Logger().Warn().Stringer("format", ans.Format).Msg("image is not in the sRGB color space, results may be inaccurate")
	}
	if cfg.autoOrientation && ex.orientation > orientationNormal {
		for _, f := range ans.Frames {
			f.Image = fixOrientation(f.Image, ex.orientation)
		}
		if ex.orientation >= orientationTranspose {
			ans.Width, ans.Height = ans.Height, ans.Width
		}
	}
	if cfg.maxSize > 0 && len(ans.Frames) == 1 {
		f := ans.Frames[0]
		f.Image = shrink(f.Image, cfg.maxSize)
		ans.Width, ans.Height = f.Image.Bounds().Dx(), f.Image.Bounds().Dy()
	}
	return ans, nil
}

// Decode reads an image from r including all animation frames if it is
// an animated GIF or PNG.
func Decode(r io.Reader, opts ...DecodeOption) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decode_all(data, NewDecodeConfig(opts...))
}

// Open loads an image from file.
//
//	img, err := ambient.Open("test.jpg", ambient.MaxSize(4096))
func Open(filename string, opts ...DecodeOption) (*Image, error) {
	file, err := fs.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	ans, err := Decode(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return ans, nil
}

// FormatFromExtension parses image format from filename extension:
// "jpg" (or "jpeg"), "png", "gif", "tif" (or "tiff"), "webp" and "bmp" are supported.
func FormatFromExtension(ext string) (Format, error) {
	if f, ok := types.FormatExts[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return f, nil
	}
	return UNKNOWN, ErrUnsupportedFormat
}

// FormatFromFilename parses image format from the extension of filename.
func FormatFromFilename(filename string) (Format, error) {
	return FormatFromExtension(filepath.Ext(filename))
}

type encodeConfig struct {
	jpegQuality         int
	pngCompressionLevel png.CompressionLevel
}

var defaultEncodeConfig = encodeConfig{
	jpegQuality:         95,
	pngCompressionLevel: png.DefaultCompression,
}

// EncodeOption sets an optional parameter for the Encode and Save functions.
type EncodeOption func(*encodeConfig)

// JPEGQuality returns an EncodeOption that sets the output JPEG quality.
// Quality ranges from 1 to 100 inclusive, higher is better. Default is 95.
func JPEGQuality(quality int) EncodeOption {
	return func(c *encodeConfig) {
		c.jpegQuality = quality
	}
}

// PNGCompressionLevel returns an EncodeOption that sets the compression level
// of the PNG-encoded image. Default is png.DefaultCompression.
func PNGCompressionLevel(level png.CompressionLevel) EncodeOption {
	return func(c *encodeConfig) {
		c.pngCompressionLevel = level
	}
}

// Encode writes the image img to w in the specified format.
func Encode(w io.Writer, img image.Image, format Format, opts ...EncodeOption) error {
	cfg := defaultEncodeConfig
	for _, option := range opts {
		option(&cfg)
	}

	switch format {
	case JPEG:
		if n, ok := img.(*NRGB); ok {
			img = ToNRGBA(n)
		}
		if nrgba, ok := img.(*image.NRGBA); ok && IsOpaque(nrgba) {
			rgba := &image.RGBA{
				Pix:    nrgba.Pix,
				Stride: nrgba.Stride,
				Rect:   nrgba.Rect,
			}
			return jpeg.Encode(w, rgba, &jpeg.Options{Quality: cfg.jpegQuality})
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: cfg.jpegQuality})

	case PNG:
		encoder := png.Encoder{CompressionLevel: cfg.pngCompressionLevel}
		return encoder.Encode(w, img)

	case GIF:
		return gif.Encode(w, img, nil)

	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})

	case BMP:
		return bmp.Encode(w, img)

	case WEBP:
		return nativewebp.Encode(w, img, nil)
	}

	return ErrUnsupportedFormat
}

// EncodeAll writes every frame of img to w. Only PNG and GIF can hold an
// animation, other formats get the first frame.
func (self *Image) EncodeAll(w io.Writer, format Format, opts ...EncodeOption) error {
	if len(self.Frames) == 0 {
		return ErrNoFrames
	}
	if len(self.Frames) > 1 {
		switch format {
		case PNG:
			return self.EncodeAsPNG(w)
		case GIF:
			return self.EncodeAsGIF(w)
		}
		Logger().Warn().Stringer("format", format).Int("frames", len(self.Frames)).Msg("format cannot store animations, writing only the first frame")
	}
	return Encode(w, self.First(), format, opts...)
}

func create(filename string, write func(io.Writer) error) (err error) {
	file, err := fs.Create(filename)
	if err != nil {
		return err
	}
	err = write(file)
	errc := file.Close()
	if err == nil {
		err = errc
	}
	return err
}

// Save saves the image to file with the specified filename.
// The format is determined from the filename extension.
//
//	// Save the image as JPEG with optional quality parameter set to 80.
//	err := ambient.Save(img, "out.jpg", ambient.JPEGQuality(80))
func Save(img image.Image, filename string, opts ...EncodeOption) (err error) {
	f, err := FormatFromFilename(filename)
	if err != nil {
		return err
	}
	return create(filename, func(w io.Writer) error { return Encode(w, img, f, opts...) })
}

// Save writes all frames of self to filename, choosing the format from the
// filename extension.
func (self *Image) Save(filename string, opts ...EncodeOption) (err error) {
	f, err := FormatFromFilename(filename)
	if err != nil {
		return err
	}
	return create(filename, func(w io.Writer) error { return self.EncodeAll(w, f, opts...) })
}
