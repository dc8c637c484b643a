// Package config loads runtime settings from a .env file, the environment
// and command-line flags, in increasing order of precedence.
package config

import (
	"flag"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Environment variables read by Load.
const (
	EnvVideo      = "COLORTRACK_VIDEO"
	EnvFrameDelay = "COLORTRACK_FRAME_DELAY_MS"
	EnvHeadless   = "COLORTRACK_HEADLESS"
	EnvLogLevel   = "COLORTRACK_LOG_LEVEL"
)

// Defaults
const (
	DefaultFrameDelay   = 30
	DefaultLogLevel     = "info"
	DefaultWindowTitle  = "Color detection"
	DefaultControlTitle = "Control"
)

// ErrNoVideo is returned when no video path was configured.
var ErrNoVideo = errors.New("no video path given")

// Config holds runtime configuration for the tracker.
type Config struct {
	// VideoPath is the file to decode.
	VideoPath string
	// FrameDelay is the per-frame key wait in milliseconds.
	FrameDelay int
	// Headless disables the display and control windows.
	Headless bool
	// LogLevel is a zerolog level name.
	LogLevel string

	WindowTitle  string
	ControlTitle string
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		FrameDelay:   DefaultFrameDelay,
		LogLevel:     DefaultLogLevel,
		WindowTitle:  DefaultWindowTitle,
		ControlTitle: DefaultControlTitle,
	}
}

// Load builds a Config from .env (missing file ignored), the environment and
// args (without the program name). The first positional argument, when
// present, is the video path.
func Load(args []string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.applyEnv(os.Getenv)

	fs := flag.NewFlagSet("colortrack", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.VideoPath, "video", cfg.VideoPath, "video file to process")
	fs.IntVar(&cfg.FrameDelay, "delay", cfg.FrameDelay, "per-frame key wait in milliseconds")
	fs.BoolVar(&cfg.Headless, "headless", cfg.Headless, "run without windows")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.WindowTitle, "window", cfg.WindowTitle, "title of the result window")
	fs.StringVar(&cfg.ControlTitle, "control-window", cfg.ControlTitle, "title of the threshold control window")

	// flag stops at the first positional argument; keep parsing after it so
	// "clip.avi -headless" still honors the flag.
	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return nil, errors.Wrap(err, "parse flags")
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		rest = fs.Args()[1:]
	}
	switch len(positional) {
	case 0:
	case 1:
		cfg.VideoPath = positional[0]
	default:
		return nil, errors.Errorf("unexpected arguments %q", positional[1:])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from environment lookups. Malformed numbers and
// booleans are ignored.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvVideo); v != "" {
		c.VideoPath = v
	}
	if v := getenv(EnvFrameDelay); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.FrameDelay = n
		}
	}
	if v := getenv(EnvHeadless); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Headless = b
		}
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate normalizes values to safe ranges and reports a missing video.
func (c *Config) Validate() error {
	if c.FrameDelay <= 0 {
		c.FrameDelay = DefaultFrameDelay
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.WindowTitle == "" {
		c.WindowTitle = DefaultWindowTitle
	}
	if c.ControlTitle == "" {
		c.ControlTitle = DefaultControlTitle
	}
	if strings.TrimSpace(c.VideoPath) == "" {
		return ErrNoVideo
	}
	return nil
}
