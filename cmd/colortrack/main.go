package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ayusman/colortrack/internal/app"
	"github.com/ayusman/colortrack/internal/capture"
	"github.com/ayusman/colortrack/internal/config"
	"github.com/ayusman/colortrack/internal/logging"
	"github.com/ayusman/colortrack/internal/tracking"
)

// HighGUI windows must be driven from the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "colortrack: %v\n", err)
		fmt.Fprintln(os.Stderr, "usage: colortrack [flags] <video>")
		return 1
	}

	log := logging.New(os.Stderr, cfg.LogLevel)
	log.Info().
		Str("video", cfg.VideoPath).
		Bool("headless", cfg.Headless).
		Msg("colortrack starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	thresholds := tracking.NewThresholds()

	var (
		display  app.Display
		controls app.Controls
	)
	if cfg.Headless {
		display = app.NewHeadlessDisplay()
	} else {
		display = app.NewWindowDisplay(cfg.WindowTitle)
		controls = app.NewControlPanel(cfg.ControlTitle, thresholds)
	}

	a := app.New(app.Config{
		Source:     capture.NewFileSource(cfg.VideoPath),
		Display:    display,
		Controls:   controls,
		Thresholds: thresholds,
		FrameDelay: cfg.FrameDelay,
		Logger:     logging.Component(log, "app"),
	})
	defer a.Close()

	if _, err := a.Run(ctx); err != nil {
		log.Error().Err(err).Str("video", cfg.VideoPath).Msg("run failed")
		return 1
	}
	return 0
}
