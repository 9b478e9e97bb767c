package ambient

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/jpeg"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

type memFile struct {
	bytes.Buffer
	name string
	fs   *memFS
}

func (f *memFile) Close() error {
	f.fs.files[f.name] = f.Bytes()
	return nil
}

type memFS struct {
	files map[string][]byte
}

func (m *memFS) Create(name string) (io.WriteCloser, error) {
	return &memFile{name: name, fs: m}, nil
}

func (m *memFS) Open(name string) (io.ReadCloser, error) {
	if data, ok := m.files[name]; ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return nil, os.ErrNotExist
}

func useMemFS(t *testing.T) *memFS {
	m := &memFS{files: map[string][]byte{}}
	orig := fs
	fs = m
	t.Cleanup(func() { fs = orig })
	return m
}

func TestEncodeDecodeFormats(t *testing.T) {
	src := numbered(5, 3)
	for _, format := range []Format{JPEG, PNG, GIF, TIFF, BMP, WEBP} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, src, format))
			img, err := Decode(&buf)
			require.NoError(t, err)
			require.Equal(t, format, img.Format)
			require.Len(t, img.Frames, 1)
			require.Equal(t, 5, img.Width)
			require.Equal(t, 3, img.Height)
			require.Equal(t, image.Rect(0, 0, 5, 3), img.First().Bounds())
			require.False(t, img.NonSRGB)
		})
	}
	require.ErrorIs(t, Encode(io.Discard, src, UNKNOWN), ErrUnsupportedFormat)
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("this is not an image")))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeMaxSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 100, 40)), PNG))
	data := buf.Bytes()

	img, err := Decode(bytes.NewReader(data), MaxSize(30))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 33, 13), img.First().Bounds())
	require.Equal(t, 33, img.Width)

	img, err = Decode(bytes.NewReader(data), MaxSize(60))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 100, 40), img.First().Bounds())

	img, err = Decode(bytes.NewReader(data), MaxSize(0))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 100, 40), img.First().Bounds())
}

// jpegWithExif encodes img as JPEG and inserts an APP1 segment holding
// the orientation and color space tags.
func jpegWithExif(t *testing.T, img image.Image, orient, colorSpace uint16) []byte {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	le := binary.LittleEndian
	tiff := []byte("II")
	tiff = le.AppendUint16(tiff, 42)
	tiff = le.AppendUint32(tiff, 8)
	tiff = le.AppendUint16(tiff, 2)
	for _, e := range [][2]uint16{{0x0112, orient}, {0xa001, colorSpace}} {
		tiff = le.AppendUint16(tiff, e[0])
		tiff = le.AppendUint16(tiff, 3)
		tiff = le.AppendUint32(tiff, 1)
		tiff = le.AppendUint16(tiff, e[1])
		tiff = le.AppendUint16(tiff, 0)
	}
	tiff = le.AppendUint32(tiff, 0)
	payload := append([]byte("Exif\x00\x00"), tiff...)
	app1 := []byte{0xff, 0xe1}
	app1 = binary.BigEndian.AppendUint16(app1, uint16(len(payload)+2))
	app1 = append(app1, payload...)
	data := buf.Bytes()
	ans := append([]byte{}, data[:2]...)
	ans = append(ans, app1...)
	return append(ans, data[2:]...)
}

func TestDecodeExif(t *testing.T) {
	data := jpegWithExif(t, numbered(3, 2), uint16(orientationRotate270), 0xffff)

	img, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, JPEG, img.Format)
	require.True(t, img.NonSRGB)
	require.Equal(t, image.Rect(0, 0, 2, 3), img.First().Bounds())
	require.Equal(t, 2, img.Width)
	require.Equal(t, 3, img.Height)

	img, err = Decode(bytes.NewReader(data), AutoOrientation(false))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 3, 2), img.First().Bounds())

	data = jpegWithExif(t, numbered(3, 2), uint16(orientationNormal), 1)
	img, err = Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.False(t, img.NonSRGB)
	require.Equal(t, image.Rect(0, 0, 3, 2), img.First().Bounds())
}

func TestFormatFromFilename(t *testing.T) {
	for name, want := range map[string]Format{
		"a.jpg": JPEG, "b.JPEG": JPEG, "c.png": PNG, "d.apng": PNG, "e.gif": GIF,
		"f.tif": TIFF, "g.webp": WEBP, "h.bmp": BMP,
	} {
		f, err := FormatFromFilename(name)
		require.NoError(t, err)
		require.Equal(t, want, f, name)
	}
	_, err := FormatFromFilename("x.xcf")
	require.True(t, errors.Is(err, ErrUnsupportedFormat))
	_, err = FormatFromFilename("noext")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSaveAndOpen(t *testing.T) {
	m := useMemFS(t)
	require.NoError(t, Save(numbered(4, 4), "out.png"))
	require.Contains(t, m.files, "out.png")
	require.False(t, png_is_animated(m.files["out.png"]))

	img, err := Open("out.png")
	require.NoError(t, err)
	require.Equal(t, PNG, img.Format)
	require.Equal(t, reds(numbered(4, 4)), reds(ToNRGBA(img.First())))

	require.NoError(t, img.Save("out.bmp"))
	img, err = Open("out.bmp")
	require.NoError(t, err)
	require.Equal(t, BMP, img.Format)

	require.ErrorIs(t, Save(numbered(1, 1), "out.xyz"), ErrUnsupportedFormat)
	_, err = Open("missing.png")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeAllEmpty(t *testing.T) {
	require.ErrorIs(t, (&Image{}).EncodeAll(io.Discard, PNG), ErrNoFrames)
}
