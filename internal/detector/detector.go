// Package detector finds colored regions in HSV frames: range masks,
// morphological cleanup and external contour extraction.
package detector

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Default detection settings.
const (
	// DefaultMinArea is the smallest contour area that is labelled.
	DefaultMinArea = 1000
	// DefaultMaxArea is the largest contour area that is labelled.
	DefaultMaxArea = 30000
	// DefaultKernelSize is the side of the square structuring element.
	DefaultKernelSize = 5
)

// Class is a named color class with the box color used to annotate it.
type Class struct {
	Label string
	Color color.RGBA
	Range HSVRange
}

// Static classes. Green has no fixed range; its bounds come from the
// adjustable threshold set.
var (
	Red  = Class{Label: "Red", Color: color.RGBA{R: 255, A: 255}, Range: RedRange}
	Blue = Class{Label: "Blue", Color: color.RGBA{B: 255, A: 255}, Range: BlueRange}
)

// GreenColor is the annotation color of the tracked green region.
var GreenColor = color.RGBA{G: 255, A: 255}

// Contour is an external contour reduced to what the pipeline needs.
type Contour struct {
	Area float64
	Box  image.Rectangle
}

// Region is a labelled detection that passed the area filter.
type Region struct {
	Label string
	Color color.RGBA
	Box   image.Rectangle
	Area  float64
}

// Config holds the detection parameters.
type Config struct {
	MinArea    float64
	MaxArea    float64
	KernelSize int
}

// DefaultConfig returns a Config with the standard area bounds and kernel.
func DefaultConfig() Config {
	return Config{
		MinArea:    DefaultMinArea,
		MaxArea:    DefaultMaxArea,
		KernelSize: DefaultKernelSize,
	}
}

// ColorDetector extracts regions of a given HSV range from HSV frames.
// It owns the structuring element and must be closed.
type ColorDetector struct {
	config Config
	kernel gocv.Mat
}

// NewColorDetector creates a detector. Non-positive fields of cfg fall back
// to the defaults.
func NewColorDetector(cfg Config) *ColorDetector {
	if cfg.MinArea <= 0 {
		cfg.MinArea = DefaultMinArea
	}
	if cfg.MaxArea <= 0 {
		cfg.MaxArea = DefaultMaxArea
	}
	if cfg.KernelSize <= 0 {
		cfg.KernelSize = DefaultKernelSize
	}

	return &ColorDetector{
		config: cfg,
		kernel: gocv.GetStructuringElement(gocv.MorphRect, image.Pt(cfg.KernelSize, cfg.KernelSize)),
	}
}

// Config returns the detector settings.
func (d *ColorDetector) Config() Config {
	return d.config
}

// Mask returns a binary mask of the pixels of hsv inside r.
// The caller is responsible for closing the returned Mat.
func Mask(hsv gocv.Mat, r HSVRange) gocv.Mat {
	lower, upper := r.Scalars()
	mask := gocv.NewMat()
	gocv.InRangeWithScalar(hsv, lower, upper, &mask)
	return mask
}

// Clean applies a closing and then an opening to mask in place.
// Closing first fills holes before opening removes specks.
func (d *ColorDetector) Clean(mask *gocv.Mat) {
	gocv.MorphologyEx(*mask, mask, gocv.MorphClose, d.kernel)
	gocv.MorphologyEx(*mask, mask, gocv.MorphOpen, d.kernel)
}

// Contours returns the external contours of mask with their area and
// bounding box.
func (d *ColorDetector) Contours(mask gocv.Mat) []Contour {
	points := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer points.Close()

	contours := make([]Contour, 0, points.Size())
	for i := 0; i < points.Size(); i++ {
		c := points.At(i)
		contours = append(contours, Contour{
			Area: gocv.ContourArea(c),
			Box:  gocv.BoundingRect(c),
		})
	}
	return contours
}

// Candidates runs mask, cleanup and contour extraction for r without any
// area filtering.
func (d *ColorDetector) Candidates(hsv gocv.Mat, r HSVRange) []Contour {
	mask := Mask(hsv, r)
	defer mask.Close()

	d.Clean(&mask)
	return d.Contours(mask)
}

// Detect returns the regions of class c whose contour area lies within
// [MinArea, MaxArea].
func (d *ColorDetector) Detect(hsv gocv.Mat, c Class) []Region {
	var regions []Region
	for _, contour := range d.Candidates(hsv, c.Range) {
		if !d.InAreaBounds(contour.Area) {
			continue
		}
		regions = append(regions, Region{
			Label: c.Label,
			Color: c.Color,
			Box:   contour.Box,
			Area:  contour.Area,
		})
	}
	return regions
}

// InAreaBounds reports whether area passes the labelling filter.
func (d *ColorDetector) InAreaBounds(area float64) bool {
	return area >= d.config.MinArea && area <= d.config.MaxArea
}

// Close releases the structuring element.
func (d *ColorDetector) Close() error {
	return d.kernel.Close()
}
