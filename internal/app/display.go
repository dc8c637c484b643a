package app

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/colortrack/internal/tracking"
)

// Key codes handled by the run loop.
const (
	KeyNone  = -1
	KeyEsc   = 27
	KeySpace = 32
)

// Display shows annotated frames and reports key presses.
type Display interface {
	Show(frame gocv.Mat)
	// WaitKey waits up to delay milliseconds (0 = forever) and returns the
	// pressed key or KeyNone.
	WaitKey(delay int) int
	Close() error
}

// Controls feeds user adjustments into the threshold set. Sync is called
// by the run loop once per frame.
type Controls interface {
	Sync()
	Close() error
}

// WindowDisplay shows frames in a HighGUI window.
type WindowDisplay struct {
	window *gocv.Window
}

// NewWindowDisplay opens a window with the given title.
func NewWindowDisplay(title string) *WindowDisplay {
	return &WindowDisplay{window: gocv.NewWindow(title)}
}

func (d *WindowDisplay) Show(frame gocv.Mat) {
	d.window.IMShow(frame)
}

func (d *WindowDisplay) WaitKey(delay int) int {
	key := d.window.WaitKey(delay)
	if key < 0 {
		return KeyNone
	}
	// drop modifier bits some backends report
	return key & 0xFF
}

func (d *WindowDisplay) Close() error {
	return d.window.Close()
}

// HeadlessDisplay discards frames and never reports a key.
type HeadlessDisplay struct {
	mu    sync.Mutex
	shown int
}

// NewHeadlessDisplay creates a display for runs without a screen.
func NewHeadlessDisplay() *HeadlessDisplay {
	return &HeadlessDisplay{}
}

func (d *HeadlessDisplay) Show(frame gocv.Mat) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shown++
}

func (d *HeadlessDisplay) WaitKey(delay int) int { return KeyNone }

func (d *HeadlessDisplay) Close() error { return nil }

// Shown returns the number of frames passed to Show.
func (d *HeadlessDisplay) Shown() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shown
}

// ControlPanel is a HighGUI window with one trackbar per green bound.
type ControlPanel struct {
	window     *gocv.Window
	bars       map[tracking.Field]*gocv.Trackbar
	thresholds *tracking.Thresholds
}

// NewControlPanel opens the control window with trackbars positioned at
// the current threshold values.
func NewControlPanel(title string, thresholds *tracking.Thresholds) *ControlPanel {
	window := gocv.NewWindow(title)
	bars := make(map[tracking.Field]*gocv.Trackbar, len(tracking.Fields))
	for _, f := range tracking.Fields {
		bar := window.CreateTrackbar(f.String(), f.Max())
		bar.SetPos(thresholds.Value(f))
		bars[f] = bar
	}

	return &ControlPanel{
		window:     window,
		bars:       bars,
		thresholds: thresholds,
	}
}

// Sync copies the trackbar positions into the threshold set.
func (c *ControlPanel) Sync() {
	for f, bar := range c.bars {
		c.thresholds.Set(f, bar.GetPos())
	}
}

func (c *ControlPanel) Close() error {
	return c.window.Close()
}
