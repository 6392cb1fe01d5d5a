package config

import "flag"

// RegisterBeatFlags binds the detector and meter settings to fs, using the
// current values as defaults.
func (c *Config) RegisterBeatFlags(fs *flag.FlagSet) {
	fs.Float64Var(&c.Threshold, "threshold", c.Threshold, "level below which no beat can trigger")
	fs.Float64Var(&c.CutoffMultiplier, "cutoff-multiplier", c.CutoffMultiplier, "cutoff after a beat, as a multiple of the beat's level")
	fs.Float64Var(&c.DecayRate, "decay-rate", c.DecayRate, "per-frame cutoff decay factor once the hold window ends")
	fs.IntVar(&c.HoldFrames, "hold-frames", c.HoldFrames, "frames after a beat before the cutoff starts to decay")
	fs.Float64Var(&c.Smoothing, "smoothing", c.Smoothing, "level smoothing factor in [0,1)")
	fs.IntVar(&c.AnalysisWindow, "window", c.AnalysisWindow, "samples per level reading")
}

// RegisterSketchFlags binds the window, asset and debug settings to fs.
func (c *Config) RegisterSketchFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.ImagePath, "image", c.ImagePath, "sprite image for the wave (PNG or JPEG); empty draws a built-in sprite")
	fs.StringVar(&c.FontPath, "font", c.FontPath, "TTF/OTF font for the title; empty uses Go Regular")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed for background colors")
	fs.StringVar(&c.DebugAddr, "debug-addr", c.DebugAddr, "serve /healthz, /metrics and /v1/state on this address")
	fs.BoolVar(&c.Loop, "loop", c.Loop, "restart the track when it ends")
	fs.IntVar(&c.Width, "width", c.Width, "initial window width")
	fs.IntVar(&c.Height, "height", c.Height, "initial window height")
}
