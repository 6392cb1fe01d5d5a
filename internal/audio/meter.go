package audio

import "math"

// MeterConfig tunes a Meter.
type MeterConfig struct {
	// Window is how many of the most recent samples each reading covers.
	Window int
	// Smoothing in [0,1) is how much of the previous reading survives a frame
	// when the signal falls. 0 disables smoothing.
	Smoothing float64
}

// DefaultMeterConfig matches a 2048-sample analysis buffer with heavy
// smoothing, which keeps the level from flickering between frames.
func DefaultMeterConfig() MeterConfig {
	return MeterConfig{Window: 2048, Smoothing: 0.9}
}

// Meter turns a block of stereo samples into a smoothed loudness level.
// Rises are followed immediately; falls decay by the smoothing factor.
type Meter struct {
	smoothing float64
	level     float64
}

func NewMeter(cfg MeterConfig) *Meter {
	return &Meter{smoothing: clamp(cfg.Smoothing, 0, 1)}
}

// Measure folds samples into the running level and returns it.
func (m *Meter) Measure(samples [][2]float64) float64 {
	rms := RMS(samples)
	m.level = math.Max(rms, m.level*m.smoothing)
	return m.level
}

func (m *Meter) Reset() { m.level = 0 }

// RMS is the root mean square of the mono mix of samples.
func RMS(samples [][2]float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sumSquares float64
	for _, s := range samples {
		mono := (s[0] + s[1]) * 0.5
		sumSquares += mono * mono
	}
	return math.Sqrt(sumSquares / float64(len(samples)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
