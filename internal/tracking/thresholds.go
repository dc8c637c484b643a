package tracking

import (
	"sync"

	"github.com/ayusman/colortrack/internal/detector"
)

// Field identifies one of the six adjustable green bounds.
type Field int

const (
	HueLow Field = iota
	HueHigh
	SatLow
	SatHigh
	ValLow
	ValHigh
)

// Fields lists every Field in slider order.
var Fields = []Field{HueLow, HueHigh, SatLow, SatHigh, ValLow, ValHigh}

var fieldNames = [...]string{"LowH", "HighH", "LowS", "HighS", "LowV", "HighV"}

// String returns the slider name of f.
func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// Max returns the largest value the field accepts.
func (f Field) Max() int {
	switch f {
	case HueLow, HueHigh:
		return detector.MaxHue
	case SatLow, SatHigh:
		return detector.MaxSaturation
	default:
		return detector.MaxValue
	}
}

// DefaultGreen is the initial green threshold set.
var DefaultGreen = detector.HSVRange{
	Lower: detector.HSV{H: 35, S: 50, V: 50},
	Upper: detector.HSV{H: 85, S: 255, V: 255},
}

// Thresholds is the adjustable green threshold set. It is safe for
// concurrent use; the run loop reads it once per frame.
type Thresholds struct {
	mu     sync.RWMutex
	values [6]int
}

// NewThresholds returns a threshold set initialised to DefaultGreen.
func NewThresholds() *Thresholds {
	t := &Thresholds{}
	t.SetRange(DefaultGreen)
	return t
}

// Set stores v for field f, clamped to [0, f.Max()].
// Unknown fields are ignored.
func (t *Thresholds) Set(f Field, v int) {
	if f < 0 || int(f) >= len(t.values) {
		return
	}
	if v < 0 {
		v = 0
	}
	if v > f.Max() {
		v = f.Max()
	}

	t.mu.Lock()
	t.values[f] = v
	t.mu.Unlock()
}

// Value returns the current value of f.
func (t *Thresholds) Value(f Field) int {
	if f < 0 || int(f) >= len(t.values) {
		return 0
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.values[f]
}

// SetRange replaces all six bounds.
func (t *Thresholds) SetRange(r detector.HSVRange) {
	t.Set(HueLow, r.Lower.H)
	t.Set(HueHigh, r.Upper.H)
	t.Set(SatLow, r.Lower.S)
	t.Set(SatHigh, r.Upper.S)
	t.Set(ValLow, r.Lower.V)
	t.Set(ValHigh, r.Upper.V)
}

// Range returns a consistent snapshot of the bounds.
func (t *Thresholds) Range() detector.HSVRange {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return detector.HSVRange{
		Lower: detector.HSV{H: t.values[HueLow], S: t.values[SatLow], V: t.values[ValLow]},
		Upper: detector.HSV{H: t.values[HueHigh], S: t.values[SatHigh], V: t.values[ValHigh]},
	}
}
