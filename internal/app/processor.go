package app

import (
	"image"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/ayusman/colortrack/internal/detector"
	"github.com/ayusman/colortrack/internal/tracking"
)

// Annotation style.
const (
	BoxThickness  = 2
	TextScale     = 0.5
	TextThickness = 1
	// LabelOffset is the vertical gap between a box and its label.
	LabelOffset = 5
)

// GreenLabel labels the tracked region.
const GreenLabel = "Green"

// ErrEmptyFrame is returned when Process receives an empty Mat.
var ErrEmptyFrame = errors.New("empty frame")

// Result is the outcome of processing one frame.
type Result struct {
	// Frame is the annotated copy of the input. The caller must close it.
	Frame gocv.Mat
	// Regions lists every box drawn on Frame, the tracked region last.
	Regions []detector.Region
	// State is the tracker state after this frame.
	State tracking.State
	// Window is the tracked rectangle, empty before tracking starts.
	Window image.Rectangle
	// Initialized is true on the frame that started tracking.
	Initialized bool
	// Iterations counts the mean-shift steps that moved the window on this
	// frame. A target that has not moved reports 0.
	Iterations int
}

// Processor turns a BGR frame into an annotated frame and carries the
// tracking state from one frame to the next.
type Processor struct {
	detector   *detector.ColorDetector
	tracker    *tracking.Tracker
	thresholds *tracking.Thresholds
	static     []detector.Class
	log        zerolog.Logger
}

// NewProcessor creates a processor reading green bounds from thresholds.
func NewProcessor(thresholds *tracking.Thresholds, dcfg detector.Config, tcfg tracking.Config, log zerolog.Logger) *Processor {
	if thresholds == nil {
		thresholds = tracking.NewThresholds()
	}
	return &Processor{
		detector:   detector.NewColorDetector(dcfg),
		tracker:    tracking.NewTracker(tcfg),
		thresholds: thresholds,
		static:     []detector.Class{detector.Red, detector.Blue},
		log:        log,
	}
}

// Tracker returns the tracker owned by the processor.
func (p *Processor) Tracker() *tracking.Tracker {
	return p.tracker
}

// Thresholds returns the green threshold set.
func (p *Processor) Thresholds() *tracking.Thresholds {
	return p.thresholds
}

// Process runs one pipeline step:
// 1. Convert to HSV
// 2. Label red and blue regions within the area bounds
// 3. Seed the tracker from the largest green contour (once)
// 4. Mean-shift the green window and draw it
func (p *Processor) Process(frame gocv.Mat) (Result, error) {
	if frame.Empty() {
		return Result{}, ErrEmptyFrame
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(frame, &hsv, gocv.ColorBGRToHSV)

	res := Result{Frame: frame.Clone()}

	for _, class := range p.static {
		for _, region := range p.detector.Detect(hsv, class) {
			draw(&res.Frame, region)
			res.Regions = append(res.Regions, region)
		}
	}

	green := p.thresholds.Range()
	if p.tracker.State() == tracking.StateUninitialized {
		candidates := p.detector.Candidates(hsv, green)
		if len(candidates) > 0 {
			ok, err := p.tracker.Initialize(hsv, candidates)
			if err != nil {
				res.Frame.Close()
				return Result{}, errors.Wrap(err, "initialize tracker")
			}
			if ok {
				res.Initialized = true
				p.log.Info().
					Interface("window", p.tracker.Window()).
					Interface("green", green).
					Msg("tracking initialized")
			}
		}
	}

	if p.tracker.State() == tracking.StateTracking {
		window, iter, err := p.tracker.Update(hsv)
		if err != nil {
			res.Frame.Close()
			return Result{}, errors.Wrap(err, "update tracker")
		}
		region := detector.Region{
			Label: GreenLabel,
			Color: detector.GreenColor,
			Box:   window,
			Area:  float64(window.Dx() * window.Dy()),
		}
		draw(&res.Frame, region)
		res.Regions = append(res.Regions, region)
		res.Iterations = iter
	}

	res.State = p.tracker.State()
	res.Window = p.tracker.Window()
	return res, nil
}

// Close releases the detector and tracker resources.
func (p *Processor) Close() error {
	derr := p.detector.Close()
	terr := p.tracker.Close()
	if derr != nil {
		return derr
	}
	return terr
}

// draw outlines r and writes its label just above the top-left corner.
func draw(img *gocv.Mat, r detector.Region) {
	gocv.Rectangle(img, r.Box, r.Color, BoxThickness)
	gocv.PutText(img, r.Label, r.Box.Min.Sub(image.Pt(0, LabelOffset)),
		gocv.FontHersheySimplex, TextScale, r.Color, TextThickness)
}
