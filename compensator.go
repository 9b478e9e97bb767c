package ambient

import (
	"fmt"
)

var _ = fmt.Print

// Compensator brightens shadows according to the ambient light level while
// leaving highlights essentially unchanged. The gain for every channel of a
// pixel is chosen from the brightest channel, which preserves hue.
//
// The zero value is ready to use and behaves as if Init(0, ColorInfo{}) had
// been called. A Compensator must not be used from multiple goroutines at
// once.
type Compensator struct {
	parameter     float32
	order         PixelOrder
	preserveAlpha bool

	gain  GainCurve
	table PixelTable
	// generation is bumped by Init, compiled records the generation the
	// table was built from.
	generation, compiled uint64
}

// Option configures a Compensator.
type Option func(*Compensator)

// WithPixelOrder sets the packing of the pixel buffers passed to Apply.
// Defaults to ARGB.
func WithPixelOrder(o PixelOrder) Option {
	return func(c *Compensator) {
		c.order = o
	}
}

// PreserveAlpha controls what happens to the alpha channel. By default
// Apply writes fully opaque pixels regardless of the input alpha. When
// enabled the input alpha is copied through unchanged.
func PreserveAlpha(enabled bool) Option {
	return func(c *Compensator) {
		c.preserveAlpha = enabled
	}
}

func NewCompensator(opts ...Option) *Compensator {
	c := &Compensator{}
	for _, o := range opts {
		o(c)
	}
	c.Init(0, ColorInfo{})
	return c
}

// Init sets the ambient parameter and rebuilds the gain curve. info is
// ignored.
func (c *Compensator) Init(parameter float32, info ColorInfo) {
	c.parameter = parameter
	c.gain = NewGainCurve(parameter)
	c.generation++
	Logger().Debug().Float32("parameter", parameter).Stringer("curve", NewCurveParams(parameter)).Msg("rebuilt gain curve")
}

func (c *Compensator) Parameter() float32 { return c.parameter }

func (c *Compensator) PixelOrder() PixelOrder { return c.order }

func (c *Compensator) PreservesAlpha() bool { return c.preserveAlpha }

// Gain returns a copy of the current gain curve.
func (c *Compensator) Gain() GainCurve {
	c.ensureInit()
	return c.gain
}

func (c *Compensator) ensureInit() {
	if c.generation == 0 {
		c.Init(0, ColorInfo{})
	}
}

// Table returns the pixel table for the current gain curve, compiling it
// if Init was called since it was last built. The returned table is owned
// by c and must not be modified.
func (c *Compensator) Table() *PixelTable {
	c.ensureInit()
	if c.compiled != c.generation {
		c.table.Compile(&c.gain)
		c.compiled = c.generation
		Logger().Debug().Float32("parameter", c.parameter).Msg("compiled pixel table")
	}
	return &c.table
}

// Apply adjusts the first width*height pixels of the buffer in place.
func (c *Compensator) Apply(pixels []uint32, width, height int) {
	t := c.Table()
	rs, gs, bs, as := c.order.shifts()
	keep_alpha := c.preserveAlpha
	for i, p := range pixels[:width*height] {
		r, g, b := uint8(p>>rs), uint8(p>>gs), uint8(p>>bs)
		row := &t[max(r, g, b)]
		a := uint32(0xff)
		if keep_alpha {
			a = (p >> as) & 0xff
		}
		pixels[i] = uint32(row[r])<<rs | uint32(row[g])<<gs | uint32(row[b])<<bs | a<<as
	}
}

func (c *Compensator) Meta() Meta { return DefaultMeta }
