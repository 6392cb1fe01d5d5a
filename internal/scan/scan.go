// Package scan runs the beat pipeline over a whole stream without playing it,
// pacing the detector at a simulated frame rate.
package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/faiface/beep"

	"github.com/iburimskiy/beat-visualization/internal/audio"
	"github.com/iburimskiy/beat-visualization/internal/beat"
)

// Beat is one detected beat.
type Beat struct {
	Frame  int
	At     time.Duration
	Level  float64
	Cutoff float64
}

type Options struct {
	// FPS is the simulated frame rate; the detector is stepped once per frame.
	FPS      int
	Detector beat.Config
	Meter    audio.MeterConfig
	// OnBeat, when set, is called for each beat as it is found.
	OnBeat func(Beat)
}

type Result struct {
	Beats    []Beat
	Frames   int
	Duration time.Duration
}

// Run streams s to the end. It stops early with ctx.Err() when ctx is done.
func Run(ctx context.Context, s beep.Streamer, rate beep.SampleRate, opts Options) (Result, error) {
	if opts.FPS <= 0 {
		return Result{}, fmt.Errorf("scan: fps must be positive, got %d", opts.FPS)
	}
	if rate <= 0 {
		return Result{}, fmt.Errorf("scan: sample rate must be positive, got %d", rate)
	}
	if opts.FPS > int(rate) {
		// Every frame needs at least one sample.
		return Result{}, fmt.Errorf("scan: fps %d exceeds sample rate %d", opts.FPS, rate)
	}

	window := opts.Meter.Window
	if window <= 0 {
		window = audio.DefaultMeterConfig().Window
	}
	tap := audio.NewTap(s, window)
	analyzer := audio.NewAnalyzer(tap, opts.Meter)
	detector := beat.New(opts.Detector)

	var (
		res      Result
		consumed int64
		buf      [][2]float64
	)
	for frame := 0; ; frame++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		// Frame boundaries are computed from the frame index so rounding
		// never accumulates.
		end := int64(frame+1) * int64(rate) / int64(opts.FPS)
		need := int(end - consumed)
		if cap(buf) < need {
			buf = make([][2]float64, need)
		}
		got, ok := fill(tap, buf[:need])
		consumed += int64(got)
		if got == 0 {
			break
		}

		level := analyzer.Level()
		res.Frames++
		if detector.Step(level) {
			b := Beat{
				Frame:  frame,
				At:     rate.D(int(consumed)),
				Level:  level,
				Cutoff: detector.Cutoff(),
			}
			res.Beats = append(res.Beats, b)
			if opts.OnBeat != nil {
				opts.OnBeat(b)
			}
		}
		if !ok {
			break
		}
	}
	res.Duration = rate.D(int(consumed))

	if err := s.Err(); err != nil {
		return res, fmt.Errorf("scan: stream: %w", err)
	}
	return res, nil
}

// fill streams until buf is full or the source is drained.
func fill(s beep.Streamer, buf [][2]float64) (int, bool) {
	total := 0
	for total < len(buf) {
		n, ok := s.Stream(buf[total:])
		total += n
		if !ok {
			return total, false
		}
	}
	return total, true
}
