package imgproc

import (
	"math"

	"github.com/wippyai/cvbridge/geom"
)

// MorphologyDefaultBorderValue is the border value that makes erosion and
// dilation ignore out-of-image pixels: every channel holds +MaxFloat64.
func MorphologyDefaultBorderValue() geom.Scalar {
	return geom.ScalarAll(math.MaxFloat64)
}
