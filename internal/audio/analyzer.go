package audio

// Analyzer reads the loudness of whatever a Tap most recently recorded.
type Analyzer struct {
	tap    *Tap
	meter  *Meter
	window int
}

func NewAnalyzer(tap *Tap, cfg MeterConfig) *Analyzer {
	window := cfg.Window
	if window <= 0 {
		window = DefaultMeterConfig().Window
	}
	return &Analyzer{tap: tap, meter: NewMeter(cfg), window: window}
}

// Level measures the latest window of the tap. Call it once per frame.
func (a *Analyzer) Level() float64 {
	return a.meter.Measure(a.tap.Snapshot(a.window))
}

// Reset clears both the tap and the smoothed level.
func (a *Analyzer) Reset() {
	a.tap.Reset()
	a.meter.Reset()
}
