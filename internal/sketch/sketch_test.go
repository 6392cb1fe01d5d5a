package sketch

import (
	"math"
	"math/rand"
	"testing"

	"github.com/faiface/beep"

	"github.com/iburimskiy/beat-visualization/internal/audio"
	"github.com/iburimskiy/beat-visualization/internal/beat"
	"github.com/iburimskiy/beat-visualization/internal/visual"
)

func sequence(levels ...float64) LevelSource {
	i := 0
	return LevelFunc(func() float64 {
		if i >= len(levels) {
			return 0
		}
		v := levels[i]
		i++
		return v
	})
}

func newSketch(src LevelSource) *Sketch {
	return New(src,
		beat.New(beat.DefaultConfig()),
		visual.New(visual.DefaultConfig(), 640, rand.New(rand.NewSource(5))),
	)
}

func TestTickReactsOnlyOnBeatFrames(t *testing.T) {
	s := newSketch(sequence(0.05, 0.3, 0.3, 0.0))

	wantBeats := []bool{false, true, false, false}
	for i, want := range wantBeats {
		bg := s.Visual().Background()
		rot := s.Visual().Rotate()

		f := s.Tick()
		if f.Beat != want {
			t.Fatalf("frame %d: beat got %v, want %v", i, f.Beat, want)
		}
		changed := s.Visual().Rotate() != rot
		if changed != want {
			t.Errorf("frame %d: rotation toggled=%v, beat=%v", i, changed, want)
		}
		if !want && s.Visual().Background() != bg {
			t.Errorf("frame %d: background changed without a beat", i)
		}
	}
}

func TestTickReportsDetectorState(t *testing.T) {
	s := newSketch(sequence(0.2, 0.1))

	f := s.Tick()
	if f.Level != 0.2 || f.Detector.Beats != 1 || f.Detector.Frames != 1 {
		t.Errorf("first frame: %+v", f)
	}
	f = s.Tick()
	if f.Level != 0.1 || f.Detector.FramesSinceBeat != 1 || f.Detector.Frames != 2 {
		t.Errorf("second frame: %+v", f)
	}
	if got, want := s.Visual().Amplitude(), 0.1*visual.DefaultConfig().AmpBoost; got != want {
		t.Errorf("amplitude: got %f, want %f", got, want)
	}
}

func TestNilSourceIsSilence(t *testing.T) {
	s := newSketch(nil)
	for i := 0; i < 5; i++ {
		if f := s.Tick(); f.Beat || f.Level != 0 {
			t.Fatalf("frame %d: %+v", i, f)
		}
	}
}

func TestRestartResetsDetector(t *testing.T) {
	s := newSketch(sequence(0.9))
	if !s.Tick().Beat {
		t.Fatal("expected beat")
	}
	// 0.5 would be held off by the 1.08 cutoff of the previous stream.
	s.Restart(sequence(0.5))
	if s.Detector().Cutoff() != beat.DefaultConfig().Threshold {
		t.Fatalf("cutoff after restart: %f", s.Detector().Cutoff())
	}
	if !s.Tick().Beat {
		t.Error("new stream should start with a fresh detector")
	}
}

func TestTapDrivenPipeline(t *testing.T) {
	// 44.1kHz at 60 frames per second is 735 samples per frame.
	const perFrame = 735
	frame := 0
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := 0.0
			if frame == 10 {
				v = 0.5
			}
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	})
	tap := audio.NewTap(src, 4096)
	s := newSketch(audio.NewAnalyzer(tap, audio.MeterConfig{Window: perFrame, Smoothing: 0.9}))

	buf := make([][2]float64, perFrame)
	var beats []int
	for frame = 0; frame < 120; frame++ {
		tap.Stream(buf)
		if s.Tick().Beat {
			beats = append(beats, frame)
		}
	}
	if len(beats) != 1 || beats[0] != 10 {
		t.Errorf("beats at frames %v, want [10]", beats)
	}
}

func TestTickTreatsNonFiniteLevelAsSilence(t *testing.T) {
	s := newSketch(sequence(math.NaN(), math.Inf(1), math.Inf(-1)))
	for i := 0; i < 3; i++ {
		f := s.Tick()
		if f.Level != 0 || f.Beat {
			t.Errorf("frame %d: got level=%v beat=%v, want silence", i, f.Level, f.Beat)
		}
		if a := s.Visual().Amplitude(); a != 0 {
			t.Errorf("frame %d: amplitude %v, want 0", i, a)
		}
		for j, y := range s.Visual().Wave() {
			if math.IsNaN(y) || math.IsInf(y, 0) {
				t.Fatalf("frame %d: wave[%d] = %v", i, j, y)
			}
		}
	}
}
