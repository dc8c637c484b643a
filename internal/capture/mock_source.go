package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockSource plays back pre-built frames for testing
type MockSource struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	openErr error
	reads   int
	mu      sync.Mutex
	running bool
}

func NewMockSource(frames []*gocv.Mat, loop bool) *MockSource {
	return &MockSource{
		frames: frames,
		loop:   loop,
	}
}

// SetOpenError makes the next Open call fail with err.
func (s *MockSource) SetOpenError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openErr = err
}

func (s *MockSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openErr != nil {
		return s.openErr
	}
	s.running = true
	s.index = 0
	return nil
}

func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

func (s *MockSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, ErrSourceNotOpen
	}

	if s.index >= len(s.frames) {
		if !s.loop || len(s.frames) == 0 {
			return nil, ErrEndOfStream
		}
		s.index = 0
	}

	// Clone the frame so the original isn't modified
	frame := s.frames[s.index].Clone()
	s.index++
	s.reads++

	return &frame, nil
}

func (s *MockSource) FPS() float64 { return 30 }

func (s *MockSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Reads returns how many frames were handed out since creation.
func (s *MockSource) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// Reset restarts playback from the beginning
func (s *MockSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}
