package ambient

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"math"
	"time"

	"github.com/kettek/apng"
	"golang.org/x/image/draw"

	"github.com/kovidgoyal/ambient/types"
)

var _ = fmt.Print

type Frame struct {
	Number      uint
	X, Y        int
	Image       image.Image `json:"-"`
	Delay       time.Duration
	ComposeOnto uint // 1-based number of the frame to draw onto, 0 for a blank canvas
	Replace     bool // Do a simple pixel replacement rather than a full alpha blend when compositing this frame
}

// Image is a decoded image file, possibly with several animation frames.
type Image struct {
	Frames        []*Frame
	Format        types.Format
	Width, Height int         // canvas size
	LoopCount     uint        // 0 means loop forever, 1 means loop once, ...
	DefaultImage  image.Image `json:"-"` // an APNG "default image" that is not part of the animation
	// NonSRGB is set when the EXIF ColorSpace tag says the pixels are not
	// sRGB. The compensation curve assumes sRGB input.
	NonSRGB bool
}

func normalizeOrigin(img image.Image) image.Image {
	if img.Bounds().Min == (image.Point{}) {
		return img
	}
	return ToNRGBA(img)
}

// gifDelay follows browsers in treating tiny delays as 100ms.
func gifDelay(centiseconds int) time.Duration {
	if centiseconds <= 1 {
		centiseconds = 10
	}
	return time.Duration(centiseconds) * 10 * time.Millisecond
}

func (self *Image) populate_from_gif(g *gif.GIF) {
	self.Width, self.Height = g.Config.Width, g.Config.Height
	prev_disposal := uint8(gif.DisposalBackground)
	var prev_compose_onto uint
	for i, img := range g.Image {
		b := img.Bounds()
		self.Width, self.Height = max(self.Width, b.Max.X), max(self.Height, b.Max.Y)
		frame := Frame{
			Number: uint(len(self.Frames) + 1), Image: normalizeOrigin(img), X: b.Min.X, Y: b.Min.Y,
			Delay: gifDelay(g.Delay[i]),
		}
		switch prev_disposal {
		case gif.DisposalNone, gif.DisposalBackground:
			// Background disposal should clear to the background but
			// browsers draw onto the previous frame, so do the same.
			frame.ComposeOnto = frame.Number - 1
		case gif.DisposalPrevious:
			frame.ComposeOnto = prev_compose_onto
		}
		prev_disposal, prev_compose_onto = g.Disposal[i], frame.ComposeOnto
		self.Frames = append(self.Frames, &frame)
	}
	switch {
	case g.LoopCount == 0:
		self.LoopCount = 0
	case g.LoopCount < 0:
		self.LoopCount = 1
	default:
		self.LoopCount = uint(g.LoopCount) + 1
	}
}

func (self *Image) populate_from_apng(p *apng.APNG) {
	self.LoopCount = p.LoopCount
	prev_disposal := int(apng.DISPOSE_OP_BACKGROUND)
	var prev_compose_onto uint
	for _, f := range p.Frames {
		if f.IsDefault {
			self.DefaultImage = f.Image
			continue
		}
		b := f.Image.Bounds()
		self.Width, self.Height = max(self.Width, f.XOffset+b.Dx()), max(self.Height, f.YOffset+b.Dy())
		frame := Frame{
			Number: uint(len(self.Frames) + 1), Image: normalizeOrigin(f.Image), X: f.XOffset, Y: f.YOffset,
			Replace: f.BlendOp == apng.BLEND_OP_SOURCE,
			Delay:   time.Duration(float64(time.Second) * f.GetDelay()),
		}
		switch prev_disposal {
		case int(apng.DISPOSE_OP_NONE):
			frame.ComposeOnto = frame.Number - 1
		case int(apng.DISPOSE_OP_PREVIOUS):
			frame.ComposeOnto = prev_compose_onto
		}
		prev_disposal, prev_compose_onto = int(f.DisposeOp), frame.ComposeOnto
		self.Frames = append(self.Frames, &frame)
	}
}

// Coalesce all animation frames so that each frame is a full canvas
// snapshot of the animation at that instant.
func (self *Image) Coalesce() {
	if len(self.Frames) < 2 {
		return
	}
	for _, f := range self.Frames {
		var canvas *image.NRGBA
		if f.ComposeOnto == 0 {
			canvas = image.NewNRGBA(image.Rect(0, 0, self.Width, self.Height))
		} else {
			canvas = ToNRGBA(self.Frames[f.ComposeOnto-1].Image)
		}
		op := draw.Over
		if f.Replace {
			op = draw.Src
		}
		b := f.Image.Bounds()
		draw.Draw(canvas, image.Rect(f.X, f.Y, f.X+b.Dx(), f.Y+b.Dy()), f.Image, b.Min, op)
		f.Image = canvas
		f.X, f.Y = 0, 0
		f.ComposeOnto = 0
		f.Replace = true
	}
}

// Compensate runs alg over every frame, replacing the frame images. Animated
// images are coalesced first so that frames no longer depend on their
// predecessors' transparency.
func (self *Image) Compensate(alg Algorithm) {
	self.Coalesce()
	for _, f := range self.Frames {
		f.Image = ApplyToImage(alg, f.Image)
	}
	if self.DefaultImage != nil {
		self.DefaultImage = ApplyToImage(alg, self.DefaultImage)
	}
}

// as_fraction converts a duration to the closest numerator/denominator
// pair that fits in uint16, using continued fractions.
func as_fraction(d time.Duration) (num, den uint16) {
	if d <= 0 {
		return 0, 1
	}
	val := d.Seconds()
	best_num, best_den := uint16(0), uint16(1)
	best_err := math.Abs(val)
	var h, k [3]int64
	h[0], k[0] = 0, 1
	h[1], k[1] = 1, 0
	f := val
	for range 64 {
		a := int64(f)
		h[2] = a*h[1] + h[0]
		k[2] = a*k[1] + k[0]
		if h[2] > math.MaxUint16 || k[2] > math.MaxUint16 {
			break
		}
		if e := math.Abs(val - float64(h[2])/float64(k[2])); e < best_err {
			best_err, best_num, best_den = e, uint16(h[2]), uint16(k[2])
		}
		if f == float64(a) {
			break
		}
		f = 1 / (f - float64(a))
		h[0], h[1] = h[1], h[2]
		k[0], k[1] = k[1], k[2]
	}
	return best_num, best_den
}

func (self *Image) as_apng() (ans apng.APNG) {
	ans.LoopCount = self.LoopCount
	if self.DefaultImage != nil {
		ans.Frames = append(ans.Frames, apng.Frame{Image: self.DefaultImage, IsDefault: true})
	}
	for _, f := range self.Frames {
		d := apng.Frame{
			DisposeOp: apng.DISPOSE_OP_NONE, BlendOp: apng.BLEND_OP_OVER, XOffset: f.X, YOffset: f.Y, Image: f.Image,
		}
		if f.Replace {
			d.BlendOp = apng.BLEND_OP_SOURCE
		}
		d.DelayNumerator, d.DelayDenominator = as_fraction(f.Delay)
		ans.Frames = append(ans.Frames, d)
	}
	return
}

// First returns the image to use when only a single still image can be
// written.
func (self *Image) First() image.Image {
	if self.DefaultImage != nil {
		return self.DefaultImage
	}
	if len(self.Frames) == 0 {
		return nil
	}
	return self.Frames[0].Image
}

// EncodeAsPNG writes a PNG, or an APNG when there is more than one frame.
func (self *Image) EncodeAsPNG(w io.Writer) error {
	if len(self.Frames) == 0 {
		return ErrNoFrames
	}
	if len(self.Frames) < 2 {
		return png.Encode(w, self.First())
	}
	img := self.Clone()
	img.Coalesce()
	return apng.Encode(w, img.as_apng())
}

// EncodeAsGIF writes an animated GIF, dithering every frame to the Plan 9
// palette.
func (self *Image) EncodeAsGIF(w io.Writer) error {
	if len(self.Frames) == 0 {
		return ErrNoFrames
	}
	img := self.Clone()
	img.Coalesce()
	g := gif.GIF{Config: image.Config{Width: img.Width, Height: img.Height}}
	for _, f := range img.Frames {
		b := f.Image.Bounds()
		p := image.NewPaletted(image.Rect(f.X, f.Y, f.X+b.Dx(), f.Y+b.Dy()), palette.Plan9)
		draw.FloydSteinberg.Draw(p, p.Rect, f.Image, b.Min)
		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, int(f.Delay/(10*time.Millisecond)))
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	switch img.LoopCount {
	case 0:
		g.LoopCount = 0
	case 1:
		g.LoopCount = -1
	default:
		g.LoopCount = int(img.LoopCount) - 1
	}
	return gif.EncodeAll(w, &g)
}

// Clone returns a copy of self whose frame images can be modified without
// affecting self.
func (self *Image) Clone() *Image {
	ans := *self
	if ans.DefaultImage != nil {
		ans.DefaultImage = ToNRGBA(ans.DefaultImage)
	}
	ans.Frames = make([]*Frame, len(self.Frames))
	for i, f := range self.Frames {
		nf := *f
		nf.Image = ToNRGBA(f.Image)
		ans.Frames[i] = &nf
	}
	return &ans
}
