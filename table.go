package ambient

import (
	"github.com/kovidgoyal/ambient/srgb"
)

// PixelTable maps (reference intensity, channel intensity) to the adjusted
// channel intensity. The reference is the brightest channel of the pixel, so
// only entries with channel <= reference are populated.
type PixelTable [srgb.GammaLevels][srgb.GammaLevels]uint8

// Compile fills t from a gain curve. The gain is keyed on the
// reference intensity and applied to each channel in linear light so that
// all three channels of a pixel are scaled by the same factor.
func (t *PixelTable) Compile(gain *GainCurve) {
	for i := range srgb.GammaLevels {
		g := gain[i]
		row := t[i][: i+1 : i+1]
		for j := range row {
			row[j] = srgb.Delinearize(g * srgb.Linearize(uint8(j)))
		}
	}
}

// CompileTable returns a newly allocated table for gain.
func CompileTable(gain *GainCurve) *PixelTable {
	t := &PixelTable{}
	t.Compile(gain)
	return t
}
