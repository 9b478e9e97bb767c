package ambient

import (
	"math"
)

const (
	// MinLux and MaxLux bound the ambient illuminance the curve responds to.
	MinLux = 80
	MaxLux = 2500

	ParameterMin = 0
	ParameterMax = 5
)

type meta struct{}

func (meta) ParameterMin() int { return ParameterMin }
func (meta) ParameterMax() int { return ParameterMax }

// DefaultParameter returns log2(lux/2500) + 5 with lux clamped to
// [MinLux, MaxLux], so readings map onto roughly [0, 5].
func (meta) DefaultParameter(lux int) float32 {
	lux = max(MinLux, min(MaxLux, lux))
	return float32(math.Log(float64(float32(lux)/MaxLux))/math.Log(2) + 5)
}

// DefaultMeta is the Meta shared by the algorithms in this package.
var DefaultMeta Meta = meta{}
