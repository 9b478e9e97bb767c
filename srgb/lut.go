// Package srgb holds the shared gamma/linear lookup tables used by the
// ambient compensation curve.
//
// The forward table uses the exact sRGB transfer function while the inverse
// uses a plain 1/2.2 power, so a value taken through Linearize and
// Delinearize does not necessarily come back unchanged.
package srgb

import (
	"math"
	"sync"
)

const (
	// GammaLevels is the number of 8-bit gamma encoded intensities.
	GammaLevels = 256
	// LinearSteps is the number of quantisation steps of the linear domain
	// used by the inverse table. The table has one extra slot for 1.0.
	LinearSteps = 1024
)

var gammaToLinearLUT = sync.OnceValue(func() []float32 {
	ans := make([]float32, GammaLevels)
	for i := range ans {
		ans[i] = LinearizeExact(float32(i) / 255)
	}
	return ans
})

var linearToGammaLUT = sync.OnceValue(func() []uint8 {
	ans := make([]uint8, LinearSteps+1)
	for i := range LinearSteps {
		g := DelinearizeApprox(float32(i) / LinearSteps)
		ans[i] = uint8(math.Floor(float64(g * 255)))
	}
	ans[LinearSteps] = 255
	return ans
})

// LinearizeExact converts a normalised gamma encoded value to linear light
// using the sRGB electro-optical transfer function.
func LinearizeExact(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	const a float32 = 0.055
	return float32(math.Pow(float64((v+a)/(1+a)), float64(float32(2.4))))
}

// DelinearizeApprox converts a normalised linear value back to gamma space
// with a simple 2.2 power curve.
func DelinearizeApprox(v float32) float32 {
	return float32(math.Pow(float64(v), float64(1/float32(2.2))))
}

// GammaToLinear returns the shared 256 entry table mapping 8-bit gamma
// intensities to normalised linear light. Callers must not modify it.
func GammaToLinear() []float32 { return gammaToLinearLUT() }

// LinearToGamma returns the shared LinearSteps+1 entry table mapping
// quantised linear light to 8-bit gamma intensities. Callers must not
// modify it.
func LinearToGamma() []uint8 { return linearToGammaLUT() }

// Linearize converts an 8-bit gamma encoded value to normalised linear light.
func Linearize(v uint8) float32 {
	return gammaToLinearLUT()[v]
}

// Delinearize converts a linear value to an 8-bit gamma encoded value,
// clipping it to [0, 1]. Values just below 1.0 land in the final slot, so
// 1.0 maps to 255 even after small rounding errors.
func Delinearize(v float32) uint8 {
	v *= LinearSteps + 1
	v = min(LinearSteps, v)
	v = max(0, v)
	if v != v {
		// NaN
		v = 0
	}
	return linearToGammaLUT()[int(v)]
}
