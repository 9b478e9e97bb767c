package ambient

import (
	"fmt"
	"math"

	"github.com/kovidgoyal/ambient/srgb"
)

// Lux returns the simulated ambient illuminance for a parameter,
// 2500 * 2^((p-10)/2) clamped to [MinLux, MaxLux].
func Lux(parameter float32) float32 {
	lux := float32(math.Pow(2, float64((parameter-10)/2))) * MaxLux
	lux = min(lux, MaxLux)
	lux = max(lux, MinLux)
	return lux
}

// CurveParams are the constants of the two segment gain curve. Below the
// breakpoint X1 the gain is the constant K1. Above it the linear light
// output follows a straight line from (X1, Y1) to (1, 1).
type CurveParams struct {
	Lux float32 `json:"lux"`
	X1  float32 `json:"x1"`
	K1  float32 `json:"k1"`
	Y1  float32 `json:"y1"`
}

func NewCurveParams(parameter float32) CurveParams {
	lux := Lux(parameter)
	x1 := lux / 10000
	k1 := (0.5 - x1) * 8
	return CurveParams{Lux: lux, X1: x1, K1: k1, Y1: k1 * x1}
}

// Gain returns the multiplicative gain for a linear light value t.
func (c CurveParams) Gain(t float32) float32 {
	if t < c.X1 {
		return c.K1
	}
	return (c.Y1 + (t-c.X1)*(1-c.Y1)/(1-c.X1)) / t
}

func (c CurveParams) String() string {
	return fmt.Sprintf("CurveParams{lux=%g x1=%g k1=%g y1=%g}", c.Lux, c.X1, c.K1, c.Y1)
}

// GainCurve holds one gain factor per 8-bit gamma intensity.
type GainCurve [srgb.GammaLevels]float32

// NewGainCurve builds the gain curve for an ambient parameter. The gain is
// 1 at full intensity and continuous at the breakpoint.
func NewGainCurve(parameter float32) (ans GainCurve) {
	c := NewCurveParams(parameter)
	for i, t := range srgb.GammaToLinear() {
		ans[i] = c.Gain(t)
	}
	return
}
