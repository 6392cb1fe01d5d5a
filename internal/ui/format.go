package ui

import (
	"fmt"
	"time"
)

// Progress is pos as a fraction of total, clamped to [0,1].
func Progress(pos, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return clamp01(float64(pos) / float64(total))
}

// FormatDuration formats a duration as MM:SS, or H:MM:SS past an hour.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
