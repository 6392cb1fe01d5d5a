// Package playback drives the system speaker.
package playback

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"go.uber.org/zap"

	"github.com/iburimskiy/beat-visualization/internal/audio"
)

// Player plays one audio.Track at a time through the system speaker, routing the
// audio through a Tap so it can be measured while it plays.
type Player struct {
	logger   *zap.Logger
	ringSize int

	initDone   bool
	sampleRate beep.SampleRate

	track  *audio.Track
	ctrl   *beep.Ctrl
	paused bool

	// ended is set from the speaker goroutine when the track runs out.
	ended atomic.Bool
}

func NewPlayer(logger *zap.Logger, ringSize int) *Player {
	return &Player{logger: logger, ringSize: ringSize}
}

// Play stops whatever is playing and starts t from its current position.
// The returned tap records the samples as they reach the speaker. The player
// takes ownership of t.
func (p *Player) Play(t *audio.Track) (*audio.Tap, error) {
	bufferSize := t.Format.SampleRate.N(time.Second / 20)
	if !p.initDone || p.sampleRate != t.Format.SampleRate {
		if p.initDone {
			speaker.Lock()
			speaker.Clear()
			speaker.Unlock()
		}
		if err := speaker.Init(t.Format.SampleRate, bufferSize); err != nil {
			return nil, fmt.Errorf("init speaker at %d Hz: %w", t.Format.SampleRate, err)
		}
		p.initDone = true
		p.sampleRate = t.Format.SampleRate
	}

	if p.track != nil && p.track != t {
		p.Stop()
	}

	tap := audio.NewTap(t.Streamer, p.ringSize)
	ctrl := &beep.Ctrl{Streamer: tap, Paused: false}

	speaker.Lock()
	speaker.Clear()
	p.ended.Store(false)
	speaker.Unlock()

	p.track = t
	p.ctrl = ctrl
	p.paused = false

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		p.ended.Store(true)
	})))

	p.logger.Info("playback started",
		zap.String("path", t.Path),
		zap.Int("sampleRate", int(t.Format.SampleRate)),
		zap.Duration("duration", t.Duration()),
	)
	return tap, nil
}

// Restart rewinds the current track and plays it again with a fresh tap.
func (p *Player) Restart() (*audio.Tap, error) {
	if p.track == nil {
		return nil, fmt.Errorf("restart: nothing loaded")
	}
	speaker.Lock()
	err := p.track.Rewind()
	speaker.Unlock()
	if err != nil {
		return nil, fmt.Errorf("rewind %s: %w", p.track.Path, err)
	}
	return p.Play(p.track)
}

// TogglePause pauses or resumes playback and reports the new paused state.
func (p *Player) TogglePause() bool {
	if p.ctrl == nil {
		return false
	}
	speaker.Lock()
	p.paused = !p.paused
	p.ctrl.Paused = p.paused
	speaker.Unlock()
	return p.paused
}

func (p *Player) Paused() bool { return p.paused }

// Ended reports whether the current track has played to the end.
func (p *Player) Ended() bool { return p.ended.Load() }

// Loaded reports whether a track is attached.
func (p *Player) Loaded() bool { return p.track != nil }

// Track returns the current track, or nil.
func (p *Player) Track() *audio.Track { return p.track }

// Seek moves playback of the current track to fraction of its length.
func (p *Player) Seek(fraction float64) error {
	if p.track == nil || p.track.Streamer == nil {
		return fmt.Errorf("seek: nothing loaded")
	}
	offset := p.track.Offset(fraction)
	speaker.Lock()
	err := p.track.Streamer.Seek(offset)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("seek %s to sample %d: %w", p.track.Path, offset, err)
	}
	p.logger.Debug("seek",
		zap.String("path", p.track.Path),
		zap.Duration("to", p.track.Format.SampleRate.D(offset)),
	)
	return nil
}

// Position is how far into the current track playback has got.
func (p *Player) Position() time.Duration {
	if p.track == nil || p.track.Streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.track.Streamer.Position()
	speaker.Unlock()
	return p.track.Format.SampleRate.D(pos)
}

// Stop silences the speaker and releases the current track.
func (p *Player) Stop() {
	if p.initDone {
		speaker.Lock()
		speaker.Clear()
		speaker.Unlock()
	}
	if p.track != nil {
		if err := p.track.Close(); err != nil {
			p.logger.Warn("close track", zap.String("path", p.track.Path), zap.Error(err))
		}
	}
	p.track = nil
	p.ctrl = nil
	p.paused = false
}
