// Package capture provides video frame sources backed by GoCV (OpenCV).
package capture

import (
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

var (
	// ErrSourceNotOpen is returned when trying to read from a source that is not open.
	ErrSourceNotOpen = errors.New("video source is not open")
	// ErrEndOfStream is returned once the source has no more frames.
	ErrEndOfStream = errors.New("end of video stream")
)

// Source defines the interface for frame producers consumed by the run loop.
type Source interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	FPS() float64
	IsOpen() bool
}

// fileSource decodes frames from a video file using GoCV.
type fileSource struct {
	path    string
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
}

// NewFileSource creates a Source that reads the video file at path.
// The file is not touched until Open is called.
func NewFileSource(path string) Source {
	return &fileSource{path: path}
}

// Open opens the video file for decoding.
func (s *fileSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	capture, err := gocv.VideoCaptureFile(s.path)
	if err != nil {
		return errors.Wrapf(err, "open video %q", s.path)
	}
	if !capture.IsOpened() {
		capture.Close()
		return errors.Errorf("open video %q: capture not opened", s.path)
	}

	s.capture = capture
	s.running = true

	return nil
}

// Close releases the decoder.
func (s *fileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.capture == nil {
		s.running = false
		return nil
	}

	err := s.capture.Close()
	s.capture = nil
	s.running = false

	return err
}

// ReadFrame decodes the next frame. The caller is responsible for closing
// the returned Mat. ErrEndOfStream is returned when the file is exhausted.
func (s *fileSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.capture == nil {
		return nil, ErrSourceNotOpen
	}

	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, ErrEndOfStream
	}

	return &mat, nil
}

// FPS reports the frame rate stored in the container, or 0 when unknown.
func (s *fileSource) FPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return 0
	}
	return s.capture.Get(gocv.VideoCaptureFPS)
}

// IsOpen returns true if the file is currently open.
func (s *fileSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}
