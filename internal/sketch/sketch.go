// Package sketch wires one frame of the pipeline: read a level, step the beat
// detector, update the visual state.
package sketch

import (
	"math"

	"github.com/iburimskiy/beat-visualization/internal/beat"
	"github.com/iburimskiy/beat-visualization/internal/visual"
)

// LevelSource yields the current loudness once per frame.
type LevelSource interface {
	Level() float64
}

// LevelFunc adapts a function to LevelSource.
type LevelFunc func() float64

func (f LevelFunc) Level() float64 { return f() }

// Frame is the outcome of one Tick.
type Frame struct {
	Level    float64
	Beat     bool
	Detector beat.State
}

// Sketch owns the detector and visual state for one audio stream. Tick must
// be called from a single goroutine.
type Sketch struct {
	source   LevelSource
	detector *beat.Detector
	visual   *visual.State
}

func New(source LevelSource, detector *beat.Detector, vis *visual.State) *Sketch {
	return &Sketch{source: source, detector: detector, visual: vis}
}

// Tick runs one frame. Without a source, or with a non-finite reading, the
// frame reads as silence.
func (s *Sketch) Tick() Frame {
	level := 0.0
	if s.source != nil {
		level = s.source.Level()
	}
	if math.IsNaN(level) || math.IsInf(level, 0) {
		level = 0
	}
	isBeat := s.detector.Step(level)
	s.visual.Update(level, isBeat)
	return Frame{
		Level:    level,
		Beat:     isBeat,
		Detector: s.detector.State(),
	}
}

// Restart attaches a new stream. Detector state from the previous stream is
// discarded; the visual state carries over.
func (s *Sketch) Restart(source LevelSource) {
	s.source = source
	s.detector.Reset()
}

func (s *Sketch) Visual() *visual.State { return s.visual }

func (s *Sketch) Detector() *beat.Detector { return s.detector }
