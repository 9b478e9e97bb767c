/*
Package ambient compensates images for viewing under bright ambient light.

A Compensator is configured with a single ambient-light parameter (0 for a
dark room up to 5 for direct sunlight) and rewrites packed 32-bit pixels so
that shadows and midtones are lifted enough to stay readable, while black
stays black and white stays white. The gain applied to each pixel is chosen
from its brightest channel so hues are preserved.

The lower level pieces are exposed too: Lux and CurveParams describe the
gain curve, GainCurve samples it over the 256 sRGB levels and PixelTable
caches its effect on every (brightest channel, channel) pair. Decode, Open,
Encode and Save move images between files and the packed pixel buffers the
algorithm works on, including animated GIF and PNG files.
*/
package ambient

import "fmt"

type Version struct {
	Major, Minor, Patch uint
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v Version) Equal(o Version) bool {
	return v.Major == o.Major && v.Minor == o.Minor && v.Patch == o.Patch
}

func (v Version) After(o Version) bool {
	switch {
	case v.Major != o.Major:
		return v.Major > o.Major
	case v.Minor != o.Minor:
		return v.Minor > o.Minor
	}
	return v.Patch > o.Patch
}

func (v Version) Before(o Version) bool {
	return !v.Equal(o) && !v.After(o)
}

// CurrentVersion is the version of this package.
var CurrentVersion = Version{1, 0, 0}
