// Package beat turns a per-frame loudness level into debounced beat events.
//
// A beat fires when the level clears both a static threshold and a dynamic
// cutoff. On a beat the cutoff jumps to the beat's own level times a
// multiplier, stays frozen for a hold window, and then decays back toward the
// threshold one frame at a time.
package beat

import (
	"errors"
	"fmt"
	"math"
)

// Config holds the detector parameters. It is fixed for the lifetime of a
// Detector.
type Config struct {
	// Threshold is the static floor below which no beat can trigger.
	Threshold float64
	// CutoffMultiplier scales the triggering level into the next cutoff.
	CutoffMultiplier float64
	// DecayRate is applied to the cutoff once per frame after the hold window.
	DecayRate float64
	// HoldFrames is how many frames after a beat the cutoff stays frozen.
	HoldFrames int
}

// DefaultConfig returns parameters tuned for a ~60 fps frame loop.
func DefaultConfig() Config {
	return Config{
		Threshold:        0.11,
		CutoffMultiplier: 1.2,
		DecayRate:        0.98,
		HoldFrames:       30,
	}
}

// Validate reports parameters outside their useful range. New accepts any
// config; a config failing Validate just detects poorly.
func (c Config) Validate() error {
	var errs []error
	if !(c.Threshold > 0 && c.Threshold <= 1) {
		errs = append(errs, fmt.Errorf("threshold %v outside (0,1]", c.Threshold))
	}
	if !(c.CutoffMultiplier > 1) {
		errs = append(errs, fmt.Errorf("cutoff multiplier %v must be > 1", c.CutoffMultiplier))
	}
	if !(c.DecayRate > 0 && c.DecayRate < 1) {
		errs = append(errs, fmt.Errorf("decay rate %v outside (0,1)", c.DecayRate))
	}
	if c.HoldFrames < 0 {
		errs = append(errs, fmt.Errorf("hold frames %d must be >= 0", c.HoldFrames))
	}
	return errors.Join(errs...)
}

// State is a read-only view of a detector after its most recent Step.
type State struct {
	Level           float64
	Threshold       float64
	Cutoff          float64
	FramesSinceBeat int
	Frames          uint64
	Beats           uint64
}

// Detector is a streaming beat detector. It is not safe for concurrent use;
// Step must be called once per frame from a single goroutine.
type Detector struct {
	cfg Config

	cutoff          float64
	framesSinceBeat int

	level  float64
	frames uint64
	beats  uint64
}

// New returns a detector with cutoff at the threshold.
func New(cfg Config) *Detector {
	d := &Detector{cfg: cfg}
	d.Reset()
	return d
}

// Reset returns the detector to its initial state, as if the stream had just
// started.
func (d *Detector) Reset() {
	d.cutoff = d.cfg.Threshold
	d.framesSinceBeat = 0
	d.level = 0
	d.frames = 0
	d.beats = 0
}

// Step advances the detector by one frame and reports whether level is a beat.
// Non-finite levels count as silence.
func (d *Detector) Step(level float64) bool {
	if math.IsNaN(level) || math.IsInf(level, 0) {
		level = 0
	}
	d.level = level
	d.frames++

	if level > d.cutoff && level > d.cfg.Threshold {
		d.cutoff = math.Max(level*d.cfg.CutoffMultiplier, d.cfg.Threshold)
		d.framesSinceBeat = 0
		d.beats++
		return true
	}

	if d.framesSinceBeat <= d.cfg.HoldFrames {
		d.framesSinceBeat++
		return false
	}

	d.cutoff = math.Max(d.cutoff*d.cfg.DecayRate, d.cfg.Threshold)
	return false
}

// Cutoff is the level the next sample must exceed to count as a beat.
func (d *Detector) Cutoff() float64 { return d.cutoff }

// Threshold is the configured static floor.
func (d *Detector) Threshold() float64 { return d.cfg.Threshold }

// FramesSinceBeat counts frames since the last beat. It stops growing once the
// hold window has elapsed.
func (d *Detector) FramesSinceBeat() int { return d.framesSinceBeat }

// Config returns the parameters the detector was built with.
func (d *Detector) Config() Config { return d.cfg }

// State snapshots the detector.
func (d *Detector) State() State {
	return State{
		Level:           d.level,
		Threshold:       d.cfg.Threshold,
		Cutoff:          d.cutoff,
		FramesSinceBeat: d.framesSinceBeat,
		Frames:          d.frames,
		Beats:           d.beats,
	}
}
