package capture

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestNewFileSource(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "relative path", path: "data/rgb.avi"},
		{name: "absolute path", path: "/tmp/rgb.avi"},
		{name: "empty path", path: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewFileSource(tt.path)

			if src == nil {
				t.Fatal("NewFileSource returned nil")
			}

			// Source should not be running before Open
			if src.IsOpen() {
				t.Error("source should not be open initially")
			}

			if got := src.FPS(); got != 0 {
				t.Errorf("FPS() = %f, want 0 before Open", got)
			}
		})
	}
}

func TestFileSource_ReadFrame_NotOpened(t *testing.T) {
	src := NewFileSource("missing.avi")

	_, err := src.ReadFrame()
	if !errors.Is(err, ErrSourceNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrSourceNotOpen", err)
	}
}

func TestFileSource_Close_NotOpened(t *testing.T) {
	src := NewFileSource("missing.avi")

	// Close on a source that was never opened should not panic and return nil
	if err := src.Close(); err != nil {
		t.Errorf("Close() on not opened source should return nil, got: %v", err)
	}
}

func TestFileSource_Open_MissingFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires the OpenCV video backend")
	}

	src := NewFileSource(filepath.Join(t.TempDir(), "does-not-exist.avi"))

	if err := src.Open(); err == nil {
		src.Close()
		t.Fatal("Open() should fail for a missing file")
	}

	if src.IsOpen() {
		t.Error("IsOpen() should return false after a failed Open()")
	}
}
