package beat

import (
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-9

func scenarioConfig() Config {
	return Config{
		Threshold:        0.11,
		CutoffMultiplier: 1.2,
		DecayRate:        0.98,
		HoldFrames:       30,
	}
}

func TestNewStartsAtThreshold(t *testing.T) {
	d := New(scenarioConfig())
	if d.Cutoff() != 0.11 {
		t.Errorf("initial cutoff: got %f, want 0.11", d.Cutoff())
	}
	if d.FramesSinceBeat() != 0 {
		t.Errorf("initial framesSinceBeat: got %d, want 0", d.FramesSinceBeat())
	}
}

func TestScenario(t *testing.T) {
	d := New(scenarioConfig())

	if !d.Step(0.2) {
		t.Fatal("frame 1: expected beat at level 0.2")
	}
	if math.Abs(d.Cutoff()-0.24) > eps {
		t.Fatalf("frame 1: cutoff got %f, want 0.24", d.Cutoff())
	}
	if d.FramesSinceBeat() != 0 {
		t.Fatalf("frame 1: framesSinceBeat got %d, want 0", d.FramesSinceBeat())
	}

	// Hold window: framesSinceBeat runs 0..30 inclusive before decay starts,
	// so frames 2 through 32 leave the cutoff untouched.
	for frame := 2; frame <= 32; frame++ {
		if d.Step(0.15) {
			t.Fatalf("frame %d: unexpected beat during hold", frame)
		}
		if math.Abs(d.Cutoff()-0.24) > eps {
			t.Fatalf("frame %d: cutoff moved during hold: %f", frame, d.Cutoff())
		}
	}

	if d.Step(0.15) {
		t.Fatal("frame 33: unexpected beat")
	}
	if math.Abs(d.Cutoff()-0.2352) > eps {
		t.Fatalf("frame 33: cutoff got %f, want 0.2352", d.Cutoff())
	}

	frame := 33
	for {
		frame++
		if frame > 200 {
			t.Fatal("no re-trigger within 200 frames")
		}
		prevCutoff := d.Cutoff()
		if d.Step(0.15) {
			if prevCutoff >= 0.15 {
				t.Fatalf("frame %d: beat fired with cutoff %f >= level", frame, prevCutoff)
			}
			break
		}
	}
	// 0.24*0.98^23 > 0.15 > 0.24*0.98^24, so the 24th decay (frame 56)
	// lets frame 57 through.
	if frame != 57 {
		t.Errorf("re-trigger frame: got %d, want 57", frame)
	}
	if math.Abs(d.Cutoff()-0.15*1.2) > eps {
		t.Errorf("cutoff after re-trigger: got %f, want 0.18", d.Cutoff())
	}
}

func TestNoDoubleTrigger(t *testing.T) {
	cfg := scenarioConfig()
	d := New(cfg)
	level := cfg.Threshold * 1.2 * 1.5

	if !d.Step(level) {
		t.Fatal("expected beat on first qualifying frame")
	}
	for i := 0; i < cfg.HoldFrames+1; i++ {
		if d.Step(level) {
			t.Fatalf("frame %d after beat: double trigger on sustained level", i+1)
		}
	}
}

func TestSustainedLevelIsDebounced(t *testing.T) {
	d := New(scenarioConfig())
	beats := 0
	for i := 0; i < 1000; i++ {
		if d.Step(0.5) {
			beats++
		}
	}
	// A held level re-fires only once the raised cutoff has decayed back
	// under it, which takes at least the hold window each time.
	if beats < 1 {
		t.Fatalf("expected at least one beat, got %d", beats)
	}
	if beats > 1000/(30+1) {
		t.Errorf("too many beats for sustained level: %d", beats)
	}
}

func TestEventualRetrigger(t *testing.T) {
	cfg := scenarioConfig()
	d := New(cfg)
	if !d.Step(0.8) {
		t.Fatal("expected initial beat")
	}

	const l2 = 0.3
	// hold frames, then n decays with 0.96*0.98^n < 0.3.
	n := int(math.Ceil(math.Log(l2/(0.8*cfg.CutoffMultiplier)) / math.Log(cfg.DecayRate)))
	bound := cfg.HoldFrames + 1 + n + 1

	for i := 0; i < bound; i++ {
		d.Step(0)
	}
	if !d.Step(l2) {
		t.Fatalf("no beat at %f after %d silent frames (cutoff %f)", l2, bound, d.Cutoff())
	}
}

func TestSelfCalibration(t *testing.T) {
	cfg := scenarioConfig()
	cfg.HoldFrames = 0

	quiet := New(cfg)
	loud := New(cfg)
	quiet.Step(0.2)
	loud.Step(0.5)

	if !(loud.Cutoff() > quiet.Cutoff()) {
		t.Fatalf("loud cutoff %f should exceed quiet cutoff %f", loud.Cutoff(), quiet.Cutoff())
	}
	if math.Abs(quiet.Cutoff()-0.24) > eps || math.Abs(loud.Cutoff()-0.6) > eps {
		t.Fatalf("cutoffs: got quiet=%f loud=%f, want 0.24 and 0.6", quiet.Cutoff(), loud.Cutoff())
	}

	if !quiet.Step(0.3) {
		t.Error("0.3 should trigger after a quiet beat")
	}
	if loud.Step(0.3) {
		t.Error("0.3 should not trigger after a loud beat")
	}
}

func TestDecayFloor(t *testing.T) {
	cfg := scenarioConfig()
	d := New(cfg)
	d.Step(1.0)
	for i := 0; i < 10000; i++ {
		d.Step(0)
		if d.Cutoff() < cfg.Threshold {
			t.Fatalf("frame %d: cutoff %f fell below threshold", i, d.Cutoff())
		}
	}
	if d.Cutoff() != cfg.Threshold {
		t.Errorf("cutoff after long silence: got %f, want %f", d.Cutoff(), cfg.Threshold)
	}
}

func TestInvariantHoldsForRandomInput(t *testing.T) {
	configs := []struct {
		name string
		cfg  Config
	}{
		{"default", DefaultConfig()},
		{"no hold", Config{Threshold: 0.05, CutoffMultiplier: 1.1, DecayRate: 0.9, HoldFrames: 0}},
		{"multiplier below one", Config{Threshold: 0.2, CutoffMultiplier: 0.5, DecayRate: 0.98, HoldFrames: 3}},
		{"decay above one", Config{Threshold: 0.1, CutoffMultiplier: 1.2, DecayRate: 1.5, HoldFrames: 3}},
		{"negative hold", Config{Threshold: 0.1, CutoffMultiplier: 1.2, DecayRate: 0.5, HoldFrames: -4}},
	}

	for _, tt := range configs {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			d := New(tt.cfg)
			for i := 0; i < 5000; i++ {
				level := rng.Float64() * 1.5
				if i%97 == 0 {
					level = -level
				}
				d.Step(level)
				if d.Cutoff() < tt.cfg.Threshold {
					t.Fatalf("step %d: cutoff %f < threshold %f", i, d.Cutoff(), tt.cfg.Threshold)
				}
			}
		})
	}
}

func TestBeatAndDecayExclusive(t *testing.T) {
	cfg := Config{Threshold: 0.1, CutoffMultiplier: 1.2, DecayRate: 0.5, HoldFrames: 0}
	d := New(cfg)
	d.Step(0.5) // cutoff 0.6
	d.Step(0)   // hold
	d.Step(0)   // decay to 0.3

	if !d.Step(0.4) {
		t.Fatal("expected beat")
	}
	// A decay in the same transition would leave 0.24 instead of 0.48.
	if math.Abs(d.Cutoff()-0.48) > eps {
		t.Errorf("cutoff after beat: got %f, want 0.48", d.Cutoff())
	}
}

func TestNonFiniteLevelsAreSilence(t *testing.T) {
	d := New(scenarioConfig())
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if d.Step(v) {
			t.Errorf("Step(%v) reported a beat", v)
		}
		if d.Cutoff() != 0.11 {
			t.Errorf("Step(%v) changed cutoff to %f", v, d.Cutoff())
		}
	}
	if !d.Step(0.2) {
		t.Error("detector stopped working after non-finite input")
	}
}

func TestStateAndReset(t *testing.T) {
	d := New(scenarioConfig())
	d.Step(0.3)
	d.Step(0.1)

	s := d.State()
	if s.Frames != 2 || s.Beats != 1 {
		t.Errorf("state counters: got frames=%d beats=%d, want 2 and 1", s.Frames, s.Beats)
	}
	if s.Level != 0.1 || s.FramesSinceBeat != 1 {
		t.Errorf("state: got level=%f framesSinceBeat=%d", s.Level, s.FramesSinceBeat)
	}

	d.Reset()
	s = d.State()
	if s.Cutoff != s.Threshold || s.Frames != 0 || s.Beats != 0 || s.FramesSinceBeat != 0 {
		t.Errorf("state after reset: %+v", s)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"zero threshold", Config{Threshold: 0, CutoffMultiplier: 1.2, DecayRate: 0.98}, true},
		{"threshold above one", Config{Threshold: 1.5, CutoffMultiplier: 1.2, DecayRate: 0.98}, true},
		{"multiplier one", Config{Threshold: 0.1, CutoffMultiplier: 1, DecayRate: 0.98}, true},
		{"decay one", Config{Threshold: 0.1, CutoffMultiplier: 1.2, DecayRate: 1}, true},
		{"negative hold", Config{Threshold: 0.1, CutoffMultiplier: 1.2, DecayRate: 0.98, HoldFrames: -1}, true},
		{"nan threshold", Config{Threshold: math.NaN(), CutoffMultiplier: 1.2, DecayRate: 0.98}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
