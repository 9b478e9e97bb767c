// Package types holds the small value types shared between the ambient
// packages and the commands.
package types

import (
	"fmt"
	"strings"
)

// Format is an image file format.
type Format int

// Image file formats.
const (
	UNKNOWN Format = iota
	JPEG
	PNG
	GIF
	TIFF
	WEBP
	BMP
)

var FormatExts = map[string]Format{
	"jpg":  JPEG,
	"jpeg": JPEG,
	"png":  PNG,
	"apng": PNG,
	"gif":  GIF,
	"tif":  TIFF,
	"tiff": TIFF,
	"webp": WEBP,
	"bmp":  BMP,
}

var formatNames = map[Format]string{
	JPEG: "JPEG",
	PNG:  "PNG",
	GIF:  "GIF",
	TIFF: "TIFF",
	WEBP: "WEBP",
	BMP:  "BMP",
}

// canonicalExts is the extension used when writing a format.
var canonicalExts = map[Format]string{
	JPEG: ".jpg",
	PNG:  ".png",
	GIF:  ".gif",
	TIFF: ".tiff",
	WEBP: ".webp",
	BMP:  ".bmp",
}

func (f Format) String() string {
	return formatNames[f]
}

// Ext returns the file extension, including the leading dot, for f or the
// empty string for UNKNOWN.
func (f Format) Ext() string {
	return canonicalExts[f]
}

// FromDecoderName maps the names registered with image.RegisterFormat to a
// Format. github.com/kettek/apng registers "apng" for the PNG signature and
// can win the lookup over image/png.
func FromDecoderName(name string) Format {
	switch strings.ToLower(name) {
	case "jpeg":
		return JPEG
	case "png", "apng":
		return PNG
	case "gif":
		return GIF
	case "tiff", "tif":
		return TIFF
	case "webp":
		return WEBP
	case "bmp":
		return BMP
	}
	return UNKNOWN
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(f.String())), nil
}

func (f *Format) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(string(text)), "."))
	if s == "" {
		*f = UNKNOWN
		return nil
	}
	if x, ok := FormatExts[s]; ok {
		*f = x
		return nil
	}
	return fmt.Errorf("unknown image format: %q", string(text))
}
