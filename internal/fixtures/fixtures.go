// Package fixtures builds synthetic frames for tests.
package fixtures

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/colortrack/internal/detector"
)

// Sample colors, chosen well inside their class ranges so that the
// HSV -> BGR -> HSV round trip stays in range.
var (
	Gray  = detector.HSV{H: 0, S: 0, V: 128}
	Green = detector.HSV{H: 60, S: 150, V: 150}
	Red   = detector.HSV{H: 5, S: 200, V: 200}
	Blue  = detector.HSV{H: 115, S: 200, V: 200}
)

// Frame returns a BGR frame of the given size filled with bg.
// The caller is responsible for closing the returned Mat.
func Frame(width, height int, bg detector.HSV) gocv.Mat {
	frame := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	frame.SetTo(toScalar(bg))
	return frame
}

// Fill paints rect on a BGR frame with the HSV color c.
func Fill(frame *gocv.Mat, rect image.Rectangle, c detector.HSV) {
	gocv.Rectangle(frame, rect, toRGBA(c), -1)
}

// FrameWith returns a frame with a single filled rectangle on bg.
func FrameWith(width, height int, bg detector.HSV, rect image.Rectangle, c detector.HSV) gocv.Mat {
	frame := Frame(width, height, bg)
	Fill(&frame, rect, c)
	return frame
}

// ToHSV converts a BGR frame to HSV.
func ToHSV(frame gocv.Mat) gocv.Mat {
	hsv := gocv.NewMat()
	gocv.CvtColor(frame, &hsv, gocv.ColorBGRToHSV)
	return hsv
}

// At reads the HSV triple at (x, y) of an HSV Mat.
func At(hsv gocv.Mat, x, y int) detector.HSV {
	v := hsv.GetVecbAt(y, x)
	return detector.HSV{H: int(v[0]), S: int(v[1]), V: int(v[2])}
}

// toScalar converts an HSV color to a BGR scalar.
func toScalar(c detector.HSV) gocv.Scalar {
	bgr := toRGBA(c)
	return gocv.NewScalar(float64(bgr.B), float64(bgr.G), float64(bgr.R), 0)
}

// toRGBA converts an HSV color to the RGBA value gocv draws with.
func toRGBA(c detector.HSV) color.RGBA {
	px := gocv.NewMatWithSize(1, 1, gocv.MatTypeCV8UC3)
	defer px.Close()
	px.SetUCharAt3(0, 0, 0, uint8(c.H))
	px.SetUCharAt3(0, 0, 1, uint8(c.S))
	px.SetUCharAt3(0, 0, 2, uint8(c.V))

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(px, &bgr, gocv.ColorHSVToBGR)

	v := bgr.GetVecbAt(0, 0)
	return color.RGBA{B: v[0], G: v[1], R: v[2], A: 255}
}
