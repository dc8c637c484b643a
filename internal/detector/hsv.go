package detector

import "gocv.io/x/gocv"

// Slider limits for each HSV channel as produced by gocv.ColorBGRToHSV on
// 8-bit frames.
const (
	MaxHue        = 179
	MaxSaturation = 255
	MaxValue      = 255
)

// HSV is a single 8-bit hue/saturation/value triple.
type HSV struct {
	H, S, V int
}

// HSVRange is an inclusive box in HSV space.
type HSVRange struct {
	Lower HSV
	Upper HSV
}

// Contains reports whether c lies inside r on all three channels.
func (r HSVRange) Contains(c HSV) bool {
	return c.H >= r.Lower.H && c.H <= r.Upper.H &&
		c.S >= r.Lower.S && c.S <= r.Upper.S &&
		c.V >= r.Lower.V && c.V <= r.Upper.V
}

// Scalars returns the bounds in the form gocv.InRangeWithScalar expects.
func (r HSVRange) Scalars() (lower, upper gocv.Scalar) {
	lower = gocv.NewScalar(float64(r.Lower.H), float64(r.Lower.S), float64(r.Lower.V), 0)
	upper = gocv.NewScalar(float64(r.Upper.H), float64(r.Upper.S), float64(r.Upper.V), 0)
	return lower, upper
}

// Fixed ranges for the static classes.
var (
	RedRange = HSVRange{
		Lower: HSV{H: 0, S: 70, V: 30},
		Upper: HSV{H: 10, S: MaxSaturation, V: MaxValue},
	}
	BlueRange = HSVRange{
		Lower: HSV{H: 100, S: 100, V: 30},
		Upper: HSV{H: 130, S: MaxSaturation, V: MaxValue},
	}
)
