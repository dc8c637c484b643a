package app

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ayusman/colortrack/internal/capture"
)

// runPipeline is the main loop that processes frames from the source.
//
// Pipeline logic:
// 1. Stop when ctx is done
// 2. Read a frame, stop normally at end of stream
// 3. Copy control panel positions into the thresholds
// 4. Process and show the frame
// 5. Wait for a key: Esc quits, Space pauses
func (a *App) runPipeline(ctx context.Context) (Stats, error) {
	var stats Stats

	for {
		if ctx.Err() != nil {
			stats.Cancelled = true
			return stats, nil
		}

		frame, err := a.source.ReadFrame()
		if errors.Is(err, capture.ErrEndOfStream) {
			a.log.Debug().Int("frames", stats.Frames).Msg("end of stream")
			return stats, nil
		}
		if err != nil {
			return stats, errors.Wrap(err, "read frame")
		}

		if a.controls != nil {
			a.controls.Sync()
		}

		res, err := a.processor.Process(*frame)
		frame.Close()
		if err != nil {
			return stats, errors.Wrapf(err, "process frame %d", stats.Frames+1)
		}

		stats.Frames++
		if res.Initialized {
			stats.TrackingStartedAt = stats.Frames
		}

		a.display.Show(res.Frame)
		res.Frame.Close()

		switch a.display.WaitKey(a.config.FrameDelay) {
		case KeyEsc:
			stats.Quit = true
			return stats, nil
		case KeySpace:
			if a.pause(ctx) {
				stats.Quit = true
				return stats, nil
			}
		}
	}
}

// pause blocks until Space resumes (false) or Esc quits (true). A cancelled
// context resumes so the loop can observe it.
func (a *App) pause(ctx context.Context) bool {
	a.log.Debug().Msg("paused")
	for {
		switch a.display.WaitKey(PausePollMs) {
		case KeySpace:
			a.log.Debug().Msg("resumed")
			return false
		case KeyEsc:
			return true
		}
		if ctx.Err() != nil {
			return false
		}
	}
}
