// Package visual holds the presentation state that reacts to beats and to the
// raw level: background color, rotation flag and a traveling sine wave.
package visual

import (
	"image/color"
	"math"
	"math/rand"
)

// Config shapes the wave.
type Config struct {
	// XSpacing is the horizontal distance between wave sample points.
	XSpacing float64
	// Period is how many pixels before the wave repeats.
	Period float64
	// PhaseStep is added to the wave phase every frame.
	PhaseStep float64
	// AmpBoost scales the level into a pixel amplitude.
	AmpBoost float64
}

func DefaultConfig() Config {
	return Config{XSpacing: 16, Period: 500, PhaseStep: 0.02, AmpBoost: 650}
}

type State struct {
	cfg Config
	rng *rand.Rand
	dx  float64

	background color.RGBA
	rotate     bool
	theta      float64
	amplitude  float64
	ys         []float64
}

// New returns a state sized for a viewport width, with a random starting
// background drawn from rng.
func New(cfg Config, width int, rng *rand.Rand) *State {
	if cfg.XSpacing <= 0 {
		cfg.XSpacing = DefaultConfig().XSpacing
	}
	if cfg.Period <= 0 {
		cfg.Period = DefaultConfig().Period
	}
	s := &State{
		cfg:    cfg,
		rng:    rng,
		dx:     (2 * math.Pi / cfg.Period) * cfg.XSpacing,
		rotate: true,
	}
	s.background = s.randomColor()
	s.Resize(width)
	return s
}

// Resize re-derives the number of wave points for a new viewport width.
func (s *State) Resize(width int) {
	if width < 0 {
		width = 0
	}
	n := int(math.Floor((float64(width) + s.cfg.XSpacing) / s.cfg.XSpacing))
	if n == len(s.ys) {
		return
	}
	s.ys = make([]float64, n)
	s.sample()
}

// Update applies one frame: a beat flashes a new background and toggles the
// rotation flag; every frame advances the wave and rescales it by level.
func (s *State) Update(level float64, beat bool) {
	if beat {
		s.background = s.randomColor()
		s.rotate = !s.rotate
	}
	s.amplitude = level * s.cfg.AmpBoost
	s.theta += s.cfg.PhaseStep
	s.sample()
}

func (s *State) sample() {
	x := s.theta
	for i := range s.ys {
		s.ys[i] = math.Sin(x) * s.amplitude
		x += s.dx
	}
}

func (s *State) randomColor() color.RGBA {
	return color.RGBA{
		R: uint8(s.rng.Intn(256)),
		G: uint8(s.rng.Intn(256)),
		B: uint8(s.rng.Intn(256)),
		A: 255,
	}
}

func (s *State) Background() color.RGBA { return s.background }
func (s *State) Rotate() bool           { return s.rotate }

// Wave returns the vertical offset of each sample point. The slice is reused
// by the next Update.
func (s *State) Wave() []float64 { return s.ys }

// Amplitude is the current scaled level in pixels.
func (s *State) Amplitude() float64 { return s.amplitude }

// Phase is the accumulated wave phase in radians.
func (s *State) Phase() float64 { return s.theta }

func (s *State) XSpacing() float64 { return s.cfg.XSpacing }
