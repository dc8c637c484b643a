package config

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 30, cfg.FrameDelay)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Headless)
	assert.Empty(t, cfg.VideoPath)
	assert.Equal(t, DefaultControlTitle, cfg.ControlTitle)
}

func TestLoad_PositionalVideo(t *testing.T) {
	t.Setenv(EnvVideo, "")

	cfg, err := Load([]string{"-delay", "50", "clip.avi"})
	require.NoError(t, err)
	assert.Equal(t, "clip.avi", cfg.VideoPath)
	assert.Equal(t, 50, cfg.FrameDelay)
}

func TestLoad_FlagsAfterVideo(t *testing.T) {
	t.Setenv(EnvVideo, "")
	t.Setenv(EnvHeadless, "")

	cfg, err := Load([]string{"clip.avi", "-headless", "-control-window", "Sliders"})
	require.NoError(t, err)
	assert.Equal(t, "clip.avi", cfg.VideoPath)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "Sliders", cfg.ControlTitle)
}

func TestLoad_ExtraPositional(t *testing.T) {
	t.Setenv(EnvVideo, "")

	_, err := Load([]string{"a.avi", "-delay", "10", "b.avi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.avi")
}

func TestLoad_EnvThenFlags(t *testing.T) {
	t.Setenv(EnvVideo, "env.avi")
	t.Setenv(EnvFrameDelay, "15")
	t.Setenv(EnvHeadless, "true")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "env.avi", cfg.VideoPath)
	assert.Equal(t, 15, cfg.FrameDelay)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "debug", cfg.LogLevel)

	cfg, err = Load([]string{"-video", "flag.avi", "-headless=false"})
	require.NoError(t, err)
	assert.Equal(t, "flag.avi", cfg.VideoPath)
	assert.False(t, cfg.Headless)
}

func TestLoad_MissingVideo(t *testing.T) {
	t.Setenv(EnvVideo, "")

	_, err := Load(nil)
	assert.True(t, errors.Is(err, ErrNoVideo))
}

func TestLoad_BadFlag(t *testing.T) {
	_, err := Load([]string{"-nope"})
	assert.Error(t, err)
}

func TestApplyEnv_IgnoresMalformed(t *testing.T) {
	env := map[string]string{
		EnvFrameDelay: "soon",
		EnvHeadless:   "maybe",
	}
	cfg := DefaultConfig()
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, DefaultFrameDelay, cfg.FrameDelay)
	assert.False(t, cfg.Headless)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantDelay int
		wantLevel string
		wantErr   error
	}{
		{
			name:      "zero delay falls back",
			cfg:       Config{VideoPath: "a.avi"},
			wantDelay: DefaultFrameDelay,
			wantLevel: DefaultLogLevel,
		},
		{
			name:      "keeps explicit values",
			cfg:       Config{VideoPath: "a.avi", FrameDelay: 5, LogLevel: " Warn "},
			wantDelay: 5,
			wantLevel: "warn",
		},
		{
			name:      "blank video",
			cfg:       Config{VideoPath: "  "},
			wantDelay: DefaultFrameDelay,
			wantLevel: DefaultLogLevel,
			wantErr:   ErrNoVideo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantDelay, tt.cfg.FrameDelay)
			assert.Equal(t, tt.wantLevel, tt.cfg.LogLevel)
			assert.NotEmpty(t, tt.cfg.WindowTitle)
		})
	}
}
