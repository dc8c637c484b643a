package capture

import (
	"testing"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

func TestMockSource_Playback(t *testing.T) {
	// Create test frames
	frame1 := gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	src := NewMockSource([]*gocv.Mat{&frame1, &frame2}, false)

	if err := src.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	for i := 0; i < 2; i++ {
		f, err := src.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		f.Close()
	}

	// Third read reports the end of the stream (no loop)
	_, err := src.ReadFrame()
	if !errors.Is(err, ErrEndOfStream) {
		t.Errorf("ReadFrame() error = %v, want ErrEndOfStream", err)
	}

	if got := src.Reads(); got != 2 {
		t.Errorf("Reads() = %d, want 2", got)
	}
}

func TestMockSource_Loop(t *testing.T) {
	frame := gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8UC3)
	defer frame.Close()

	src := NewMockSource([]*gocv.Mat{&frame}, true)
	src.Open()
	defer src.Close()

	// Should loop indefinitely
	for i := 0; i < 5; i++ {
		f, err := src.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() iteration %d error = %v", i, err)
		}
		f.Close()
	}
}

func TestMockSource_Empty(t *testing.T) {
	src := NewMockSource(nil, true)
	src.Open()
	defer src.Close()

	_, err := src.ReadFrame()
	if !errors.Is(err, ErrEndOfStream) {
		t.Errorf("ReadFrame() on empty looping source error = %v, want ErrEndOfStream", err)
	}
}

func TestMockSource_NotOpened(t *testing.T) {
	src := NewMockSource(nil, false)

	_, err := src.ReadFrame()
	if !errors.Is(err, ErrSourceNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrSourceNotOpen", err)
	}
}

func TestMockSource_OpenError(t *testing.T) {
	src := NewMockSource(nil, false)
	want := errors.New("boom")
	src.SetOpenError(want)

	if err := src.Open(); !errors.Is(err, want) {
		t.Errorf("Open() error = %v, want %v", err, want)
	}
	if src.IsOpen() {
		t.Error("IsOpen() should be false after failed Open()")
	}
}
