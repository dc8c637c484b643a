// Package app wires the video source, frame processor and display into the
// color tracking run loop.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ayusman/colortrack/internal/capture"
	"github.com/ayusman/colortrack/internal/detector"
	"github.com/ayusman/colortrack/internal/tracking"
)

// Run loop timing constants.
const (
	// DefaultFrameDelay is the key wait per frame in milliseconds.
	DefaultFrameDelay = 30
	// PausePollMs is how often a paused loop polls for keys and cancellation.
	PausePollMs = 100
)

// Config holds configuration options for the application.
type Config struct {
	Source     capture.Source
	Display    Display
	Controls   Controls // optional
	Thresholds *tracking.Thresholds
	FrameDelay int
	Detector   detector.Config
	Tracker    tracking.Config
	Logger     zerolog.Logger
}

// Stats summarizes a finished run.
type Stats struct {
	// Frames is the number of frames processed.
	Frames int
	// TrackingStartedAt is the 1-based frame index at which tracking
	// started, or 0 if it never did.
	TrackingStartedAt int
	// Quit is true when the user pressed Esc.
	Quit bool
	// Cancelled is true when the context ended the run.
	Cancelled bool
	Duration  time.Duration
}

// App is the main application that reads, processes and shows frames.
type App struct {
	config    Config
	source    capture.Source
	display   Display
	controls  Controls
	processor *Processor
	log       zerolog.Logger
	mu        sync.Mutex
	running   bool
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.FrameDelay <= 0 {
		config.FrameDelay = DefaultFrameDelay
	}
	if config.Display == nil {
		config.Display = NewHeadlessDisplay()
	}
	if config.Thresholds == nil {
		config.Thresholds = tracking.NewThresholds()
	}
	if config.Detector == (detector.Config{}) {
		config.Detector = detector.DefaultConfig()
	}
	if config.Tracker == (tracking.Config{}) {
		config.Tracker = tracking.DefaultConfig()
	}

	return &App{
		config:    config,
		source:    config.Source,
		display:   config.Display,
		controls:  config.Controls,
		processor: NewProcessor(config.Thresholds, config.Detector, config.Tracker, config.Logger),
		log:       config.Logger,
	}
}

// Processor returns the frame processor used by the run loop.
func (a *App) Processor() *Processor {
	return a.processor
}

// Run opens the source and processes frames until the stream ends, the
// user quits or ctx is cancelled. End of stream is not an error.
func (a *App) Run(ctx context.Context) (Stats, error) {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return Stats{}, errors.New("app is already running")
	}
	if a.source == nil {
		a.mu.Unlock()
		return Stats{}, errors.New("no video source configured")
	}
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	if err := a.source.Open(); err != nil {
		return Stats{}, errors.Wrap(err, "open source")
	}
	defer a.source.Close()

	a.log.Info().
		Float64("fps", a.source.FPS()).
		Int("frame_delay_ms", a.config.FrameDelay).
		Msg("run loop started")

	start := time.Now()
	stats, err := a.runPipeline(ctx)
	stats.Duration = time.Since(start)

	a.log.Info().
		Int("frames", stats.Frames).
		Int("tracking_started_at", stats.TrackingStartedAt).
		Bool("quit", stats.Quit).
		Bool("cancelled", stats.Cancelled).
		Dur("duration", stats.Duration).
		Msg("run loop finished")

	return stats, err
}

// Close releases the processor, display and controls.
func (a *App) Close() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	keep(a.processor.Close())
	keep(a.display.Close())
	if a.controls != nil {
		keep(a.controls.Close())
	}
	return first
}
