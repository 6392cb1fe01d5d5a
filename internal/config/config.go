package config

import (
	"os"
	"strconv"
	"time"

	"github.com/iburimskiy/beat-visualization/internal/audio"
	"github.com/iburimskiy/beat-visualization/internal/beat"
	"github.com/iburimskiy/beat-visualization/internal/visual"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512
	TPS          = 60

	VisualRingSize  = 8192
	AnalysisWindow  = 2048
	SmoothingFactor = 0.9

	// Beat detection
	BeatThreshold        = 0.11
	BeatCutoffMultiplier = 1.2
	BeatDecayRate        = 0.98
	BeatHoldFrames       = 30

	// Wave
	WaveSpacing   = 16
	WavePeriod    = 500.0
	WavePhaseStep = 0.02
	WaveAmpBoost  = 650.0
	SpriteSize    = 16

	// Title
	Title         = "DANCE"
	TitleFontSize = 80
	TitleBaseline = 80
)

type Config struct {
	Width  int
	Height int
	TPS    int

	RingSize       int
	AnalysisWindow int
	Smoothing      float64

	Threshold        float64
	CutoffMultiplier float64
	DecayRate        float64
	HoldFrames       int

	WaveSpacing   float64
	WavePeriod    float64
	WavePhaseStep float64
	WaveAmpBoost  float64

	Seed      int64
	ImagePath string
	FontPath  string
	DebugAddr string
	Loop      bool
}

// Default returns the built-in configuration. The seed comes from the clock.
func Default() *Config {
	return &Config{
		Width:            WindowWidth,
		Height:           WindowHeight,
		TPS:              TPS,
		RingSize:         VisualRingSize,
		AnalysisWindow:   AnalysisWindow,
		Smoothing:        SmoothingFactor,
		Threshold:        BeatThreshold,
		CutoffMultiplier: BeatCutoffMultiplier,
		DecayRate:        BeatDecayRate,
		HoldFrames:       BeatHoldFrames,
		WaveSpacing:      WaveSpacing,
		WavePeriod:       WavePeriod,
		WavePhaseStep:    WavePhaseStep,
		WaveAmpBoost:     WaveAmpBoost,
		Seed:             time.Now().UnixNano(),
	}
}

// Load returns Default overridden by BEAT_* environment variables. Values
// that fail to parse keep their default.
func Load() *Config {
	c := Default()
	c.Threshold = getEnvFloat("BEAT_THRESHOLD", c.Threshold)
	c.CutoffMultiplier = getEnvFloat("BEAT_CUTOFF_MULTIPLIER", c.CutoffMultiplier)
	c.DecayRate = getEnvFloat("BEAT_DECAY_RATE", c.DecayRate)
	c.HoldFrames = getEnvInt("BEAT_HOLD_FRAMES", c.HoldFrames)
	c.Smoothing = getEnvFloat("BEAT_SMOOTHING", c.Smoothing)
	c.Seed = int64(getEnvInt("BEAT_SEED", int(c.Seed)))
	c.ImagePath = getEnv("BEAT_IMAGE", c.ImagePath)
	c.FontPath = getEnv("BEAT_FONT", c.FontPath)
	c.DebugAddr = getEnv("BEAT_DEBUG_ADDR", c.DebugAddr)
	return c
}

func (c *Config) Beat() beat.Config {
	return beat.Config{
		Threshold:        c.Threshold,
		CutoffMultiplier: c.CutoffMultiplier,
		DecayRate:        c.DecayRate,
		HoldFrames:       c.HoldFrames,
	}
}

func (c *Config) Meter() audio.MeterConfig {
	return audio.MeterConfig{Window: c.AnalysisWindow, Smoothing: c.Smoothing}
}

func (c *Config) Wave() visual.Config {
	return visual.Config{
		XSpacing:  c.WaveSpacing,
		Period:    c.WavePeriod,
		PhaseStep: c.WavePhaseStep,
		AmpBoost:  c.WaveAmpBoost,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
