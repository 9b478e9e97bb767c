package ambient

import (
	"errors"
	"fmt"
	"strings"
)

// PixelOrder is the layout of the four 8-bit channels inside a packed
// uint32 pixel, named from the most significant byte down.
type PixelOrder int

const (
	ARGB PixelOrder = iota // 0xAARRGGBB, the default
	ABGR
	RGBA
	BGRA
)

var ErrUnknownPixelOrder = errors.New("ambient: unknown pixel order")

var pixelOrderNames = map[PixelOrder]string{
	ARGB: "ARGB",
	ABGR: "ABGR",
	RGBA: "RGBA",
	BGRA: "BGRA",
}

func (o PixelOrder) String() string {
	if s, ok := pixelOrderNames[o]; ok {
		return s
	}
	return fmt.Sprintf("PixelOrder(%d)", int(o))
}

// ParsePixelOrder parses a case insensitive pixel order name such as "argb".
func ParsePixelOrder(s string) (PixelOrder, error) {
	q := strings.ToUpper(strings.TrimSpace(s))
	for o, name := range pixelOrderNames {
		if name == q {
			return o, nil
		}
	}
	return ARGB, fmt.Errorf("%w: %q", ErrUnknownPixelOrder, s)
}

func (o PixelOrder) MarshalText() ([]byte, error) {
	if _, ok := pixelOrderNames[o]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPixelOrder, int(o))
	}
	return []byte(o.String()), nil
}

func (o *PixelOrder) UnmarshalText(text []byte) (err error) {
	*o, err = ParsePixelOrder(string(text))
	return
}

// shifts returns the bit offsets of the red, green, blue and alpha channels.
func (o PixelOrder) shifts() (r, g, b, a uint) {
	switch o {
	case ABGR:
		return 0, 8, 16, 24
	case RGBA:
		return 24, 16, 8, 0
	case BGRA:
		return 8, 16, 24, 0
	}
	return 16, 8, 0, 24
}

// Pack combines channels into a single pixel.
func (o PixelOrder) Pack(r, g, b, a uint8) uint32 {
	rs, gs, bs, as := o.shifts()
	return uint32(r)<<rs | uint32(g)<<gs | uint32(b)<<bs | uint32(a)<<as
}

// Unpack splits a pixel into its channels.
func (o PixelOrder) Unpack(p uint32) (r, g, b, a uint8) {
	rs, gs, bs, as := o.shifts()
	return uint8(p >> rs), uint8(p >> gs), uint8(p >> bs), uint8(p >> as)
}
