package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges
var (
	Level = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beatviz_level",
		Help: "Smoothed loudness level of the most recent frame",
	})
	Cutoff = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beatviz_beat_cutoff",
		Help: "Level the next frame must exceed to count as a beat",
	})
)

// Counters
var (
	FramesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beatviz_frames_total",
		Help: "Total frames fed to the beat detector",
	})
	BeatsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beatviz_beats_total",
		Help: "Total beats detected",
	})
	TracksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beatviz_tracks_total",
		Help: "Tracks opened by outcome",
	}, []string{"outcome"})
)

// ObserveFrame records one detector step.
func ObserveFrame(level, cutoff float64, beat bool) {
	FramesTotal.Inc()
	Level.Set(level)
	Cutoff.Set(cutoff)
	if beat {
		BeatsTotal.Inc()
	}
}
