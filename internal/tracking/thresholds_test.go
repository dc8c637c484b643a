package tracking

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/colortrack/internal/detector"
)

func TestNewThresholds_Defaults(t *testing.T) {
	th := NewThresholds()

	assert.Equal(t, DefaultGreen, th.Range())
	assert.Equal(t, 35, th.Value(HueLow))
	assert.Equal(t, 85, th.Value(HueHigh))
	assert.Equal(t, 50, th.Value(SatLow))
	assert.Equal(t, 255, th.Value(SatHigh))
	assert.Equal(t, 50, th.Value(ValLow))
	assert.Equal(t, 255, th.Value(ValHigh))
}

func TestThresholds_SetClamps(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		value int
		want  int
	}{
		{name: "hue in range", field: HueLow, value: 20, want: 20},
		{name: "hue above max", field: HueHigh, value: 200, want: 179},
		{name: "saturation negative", field: SatLow, value: -3, want: 0},
		{name: "value above max", field: ValHigh, value: 300, want: 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := NewThresholds()
			th.Set(tt.field, tt.value)
			assert.Equal(t, tt.want, th.Value(tt.field))
		})
	}
}

func TestThresholds_UnknownField(t *testing.T) {
	th := NewThresholds()
	th.Set(Field(42), 10)

	assert.Equal(t, 0, th.Value(Field(42)))
	assert.Equal(t, DefaultGreen, th.Range())
	assert.Equal(t, "unknown", Field(42).String())
}

func TestField_NamesAndLimits(t *testing.T) {
	names := []string{"LowH", "HighH", "LowS", "HighS", "LowV", "HighV"}
	limits := []int{179, 179, 255, 255, 255, 255}

	for i, f := range Fields {
		assert.Equal(t, names[i], f.String())
		assert.Equal(t, limits[i], f.Max())
	}
}

func TestThresholds_SetRange(t *testing.T) {
	th := NewThresholds()
	r := detector.HSVRange{
		Lower: detector.HSV{H: 1, S: 2, V: 3},
		Upper: detector.HSV{H: 4, S: 5, V: 6},
	}
	th.SetRange(r)
	assert.Equal(t, r, th.Range())
}

func TestThresholds_ConcurrentAccess(t *testing.T) {
	th := NewThresholds()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				th.Set(Fields[j%len(Fields)], i+j)
				_ = th.Range()
			}
		}(i)
	}
	wg.Wait()

	r := th.Range()
	assert.LessOrEqual(t, r.Upper.H, detector.MaxHue)
	assert.LessOrEqual(t, r.Upper.S, detector.MaxSaturation)
}
