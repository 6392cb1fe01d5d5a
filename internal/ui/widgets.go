// Package ui holds the window's pointer-driven controls and formatting
// helpers. It knows nothing about ebiten; the game feeds it a Pointer each
// frame.
package ui

import (
	"math"
	"time"
)

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Fraction is how far x lies across r, clamped to [0,1].
func (r Rect) Fraction(x int) float64 {
	if r.W <= 0 {
		return 0
	}
	return clamp01(float64(x-r.X) / float64(r.W))
}

// Pointer is the mouse state for one frame.
type Pointer struct {
	X, Y         int
	JustPressed  bool
	JustReleased bool
}

// Button is a clickable rectangle. A click is a press and a release that
// both land inside it.
type Button struct {
	Bounds Rect
	Label  string

	hovered bool
	pressed bool
}

// Update feeds one frame of pointer state and reports whether the button was
// clicked.
func (b *Button) Update(p Pointer) bool {
	b.hovered = b.Bounds.Contains(p.X, p.Y)
	if b.hovered && p.JustPressed {
		b.pressed = true
	}
	clicked := false
	if p.JustReleased {
		clicked = b.pressed && b.hovered
		b.pressed = false
	}
	return clicked
}

func (b *Button) Hovered() bool { return b.hovered }

func (b *Button) Pressed() bool { return b.pressed }

// SeekBar turns clicks and drags on a progress bar into seek requests.
type SeekBar struct {
	Bounds Rect
	// MinStep is the smallest change in position a drag must make before it
	// seeks again.
	MinStep float64
	// Cooldown is the minimum time between two seeks while dragging.
	Cooldown time.Duration

	hovered  bool
	dragging bool
	last     float64
	lastSeek time.Time
}

// Update feeds one frame of pointer state. When it returns true the caller
// should seek to the returned fraction of the track.
func (s *SeekBar) Update(p Pointer, now time.Time) (float64, bool) {
	s.hovered = s.Bounds.Contains(p.X, p.Y)

	if s.hovered && p.JustPressed {
		s.dragging = true
		return s.seek(s.Bounds.Fraction(p.X), now), true
	}
	if p.JustReleased {
		s.dragging = false
		return 0, false
	}
	if !s.dragging {
		return 0, false
	}

	f := s.Bounds.Fraction(p.X)
	if math.Abs(f-s.last) <= s.MinStep || now.Sub(s.lastSeek) < s.Cooldown {
		return 0, false
	}
	return s.seek(f, now), true
}

func (s *SeekBar) seek(f float64, now time.Time) float64 {
	s.last = f
	s.lastSeek = now
	return f
}

func (s *SeekBar) Hovered() bool { return s.hovered }

func (s *SeekBar) Dragging() bool { return s.dragging }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
