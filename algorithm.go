package ambient

import (
	"fmt"
)

// Algorithm is a tone curve that can be initialised from an ambient
// parameter and then applied to packed pixel buffers. Implementations are
// not safe for concurrent use, callers must serialise Init and Apply on a
// single instance.
type Algorithm interface {
	// Init sets the ambient parameter and rebuilds any state derived from
	// it. info is accepted for compatibility with color aware algorithms
	// and may be ignored.
	Init(parameter float32, info ColorInfo)
	// Apply transforms the first width*height pixels in place.
	Apply(pixels []uint32, width, height int)
	Meta() Meta
}

// Meta describes the parameter range of an Algorithm.
type Meta interface {
	ParameterMin() int
	ParameterMax() int
	// DefaultParameter maps an ambient light sensor reading in lux to a
	// parameter.
	DefaultParameter(lux int) float32
}

type Gains struct {
	R, G, B float32
}

// Matrix is a row major 3x3 color matrix.
type Matrix [9]float32

// ColorInfo carries camera white balance data. None of the algorithms in
// this package use it, it is passed through untouched.
type ColorInfo struct {
	Gains  Gains
	Matrix *Matrix
}

var IdentityMatrix = Matrix{1, 0, 0, 0, 1, 0, 0, 0, 1}

// IdentityColorInfo is unit gains with the identity matrix.
func IdentityColorInfo() ColorInfo {
	m := IdentityMatrix
	return ColorInfo{Gains: Gains{1, 1, 1}, Matrix: &m}
}

func (m Matrix) String() string {
	return fmt.Sprintf("Matrix(%g %g %g, %g %g %g, %g %g %g)", m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}

// Identity is an Algorithm that leaves pixels unchanged. Useful as the
// "original" side of a comparison.
type Identity struct{}

func (Identity) Init(parameter float32, info ColorInfo) {}

func (Identity) Apply(pixels []uint32, width, height int) {}

func (Identity) Meta() Meta { return DefaultMeta }

var (
	_ Algorithm = (*Compensator)(nil)
	_ Algorithm = Identity{}
)
