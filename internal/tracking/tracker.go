// Package tracking follows a single colored region across frames using a
// hue histogram back-projection and mean-shift.
package tracking

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/ayusman/colortrack/internal/detector"
)

// Histogram settings.
const (
	// HistBins is the number of hue bins in the reference histogram.
	HistBins = 16
	// HueRangeMax is the exclusive upper bound of 8-bit OpenCV hue.
	HueRangeMax = 180
	// DefaultMaxSeedArea bounds the contour area of the tracking seed.
	DefaultMaxSeedArea = 30000
)

var hueRanges = []float64{0, HueRangeMax}

// State is the tracker lifecycle state.
type State int

const (
	// StateUninitialized waits for a seed region.
	StateUninitialized State = iota
	// StateTracking follows the seed with mean-shift.
	StateTracking
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateTracking:
		return "tracking"
	default:
		return "unknown"
	}
}

// Config holds tracker settings.
type Config struct {
	Bins        int
	MaxSeedArea float64
	Criteria    Criteria
}

// DefaultConfig returns 16 bins, a 30000 pixel seed bound and the default
// mean-shift criteria.
func DefaultConfig() Config {
	return Config{
		Bins:        HistBins,
		MaxSeedArea: DefaultMaxSeedArea,
		Criteria:    DefaultCriteria(),
	}
}

// Tracker moves from StateUninitialized to StateTracking exactly once. The
// reference histogram is computed on that transition and never replaced.
type Tracker struct {
	config Config
	state  State
	window image.Rectangle
	hist   gocv.Mat
}

// NewTracker creates an uninitialized tracker.
func NewTracker(cfg Config) *Tracker {
	if cfg.Bins <= 0 {
		cfg.Bins = HistBins
	}
	if cfg.MaxSeedArea <= 0 {
		cfg.MaxSeedArea = DefaultMaxSeedArea
	}
	if cfg.Criteria.MaxIter <= 0 {
		cfg.Criteria.MaxIter = DefaultMaxIter
	}
	if cfg.Criteria.Epsilon <= 0 {
		cfg.Criteria.Epsilon = DefaultEpsilon
	}

	return &Tracker{
		config: cfg,
		state:  StateUninitialized,
		hist:   gocv.NewMat(),
	}
}

// State returns the current lifecycle state.
func (t *Tracker) State() State {
	return t.state
}

// Window returns the tracked rectangle. It is empty until tracking starts.
func (t *Tracker) Window() image.Rectangle {
	return t.window
}

// Histogram returns a copy of the normalized reference histogram, or nil
// before tracking starts.
func (t *Tracker) Histogram() []float32 {
	if t.state != StateTracking || t.hist.Empty() {
		return nil
	}

	bins := make([]float32, t.hist.Rows())
	for i := range bins {
		bins[i] = t.hist.GetFloatAt(i, 0)
	}
	return bins
}

// SelectSeed picks the bounding box of the largest contour whose area is
// below maxArea. No lower area bound applies.
func SelectSeed(candidates []detector.Contour, maxArea float64) (image.Rectangle, bool) {
	var (
		best     image.Rectangle
		bestArea float64
		found    bool
	)
	for _, c := range candidates {
		if c.Area > bestArea && c.Area < maxArea {
			best = c.Box
			bestArea = c.Area
			found = true
		}
	}
	return best, found
}

// Initialize seeds the tracker from the green candidates of the current
// HSV frame. It does nothing once tracking has started and reports whether
// the transition to StateTracking happened on this call.
func (t *Tracker) Initialize(hsv gocv.Mat, candidates []detector.Contour) (bool, error) {
	if t.state == StateTracking {
		return false, nil
	}

	seed, ok := SelectSeed(candidates, t.config.MaxSeedArea)
	if !ok {
		return false, nil
	}
	seed = seed.Intersect(image.Rect(0, 0, hsv.Cols(), hsv.Rows()))
	if seed.Empty() {
		return false, nil
	}

	hue, err := hueChannel(hsv)
	if err != nil {
		return false, err
	}
	defer hue.Close()

	roi := hue.Region(seed)
	defer roi.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	hist := gocv.NewMat()
	gocv.CalcHist([]gocv.Mat{roi}, []int{0}, mask, &hist, []int{t.config.Bins}, hueRanges, false)
	gocv.Normalize(hist, &hist, 0, 255, gocv.NormMinMax)

	t.hist.Close()
	t.hist = hist
	t.window = seed
	t.state = StateTracking

	return true, nil
}

// Update runs one mean-shift search seeded at the current window over the
// back-projection of hsv and stores the result. It returns the new window
// and the number of iterations. Before tracking starts it is a no-op.
func (t *Tracker) Update(hsv gocv.Mat) (image.Rectangle, int, error) {
	if t.state != StateTracking {
		return t.window, 0, nil
	}

	hue, err := hueChannel(hsv)
	if err != nil {
		return t.window, 0, err
	}
	defer hue.Close()

	backProj := gocv.NewMat()
	defer backProj.Close()
	gocv.CalcBackProject([]gocv.Mat{hue}, []int{0}, t.hist, &backProj, hueRanges, true)

	prob, err := GrayImage(backProj)
	if err != nil {
		return t.window, 0, errors.Wrap(err, "back-projection")
	}

	window, iter := MeanShift(prob, t.window, t.config.Criteria)
	t.window = window

	return window, iter, nil
}

// Close releases the reference histogram.
func (t *Tracker) Close() error {
	return t.hist.Close()
}

// hueChannel returns the first channel of an HSV Mat.
func hueChannel(hsv gocv.Mat) (gocv.Mat, error) {
	if hsv.Empty() || hsv.Channels() != 3 {
		return gocv.NewMat(), errors.Errorf("expected 3-channel HSV frame, got %d channels", hsv.Channels())
	}

	channels := gocv.Split(hsv)
	for i := 1; i < len(channels); i++ {
		channels[i].Close()
	}
	return channels[0], nil
}
