package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/iburimskiy/beat-visualization/internal/audio"
	"github.com/iburimskiy/beat-visualization/internal/beat"
	"github.com/iburimskiy/beat-visualization/internal/config"
	"github.com/iburimskiy/beat-visualization/internal/debugserver"
	"github.com/iburimskiy/beat-visualization/internal/metrics"
	"github.com/iburimskiy/beat-visualization/internal/playback"
	"github.com/iburimskiy/beat-visualization/internal/sketch"
	"github.com/iburimskiy/beat-visualization/internal/ui"
	"github.com/iburimskiy/beat-visualization/internal/visual"
)

type Options struct {
	Config *config.Config
	Logger *zap.Logger
	RunID  string
	// Publisher receives a snapshot after every frame. Optional.
	Publisher *debugserver.Publisher
}

// Game is the ebiten driver: it ticks the sketch once per Update and draws the
// resulting visual state.
type Game struct {
	cfg       *config.Config
	logger    *zap.Logger
	runID     string
	publisher *debugserver.Publisher

	player   *playback.Player
	analyzer *audio.Analyzer
	sketch   *sketch.Sketch

	openButton ui.Button
	seekBar    ui.SeekBar

	// assets
	sprite        *ebiten.Image
	builtinSprite bool
	face          *text.GoTextFace

	width  int
	height int

	last    sketch.Frame
	idle    bool
	lastErr error
}

func New(opts Options) (*Game, error) {
	cfg := opts.Config
	sprite, builtin, err := loadSprite(cfg.ImagePath, config.SpriteSize)
	if err != nil {
		return nil, err
	}
	face, err := loadFace(cfg.FontPath, config.TitleFontSize)
	if err != nil {
		return nil, err
	}

	detector := beat.New(cfg.Beat())
	if err := detector.Config().Validate(); err != nil {
		opts.Logger.Warn("beat detector configured outside its useful range", zap.Error(err))
	}

	vis := visual.New(cfg.Wave(), cfg.Width, rand.New(rand.NewSource(cfg.Seed)))
	return &Game{
		cfg:           cfg,
		logger:        opts.Logger,
		runID:         opts.RunID,
		publisher:     opts.Publisher,
		player:        playback.NewPlayer(opts.Logger, cfg.RingSize),
		sketch:        sketch.New(nil, detector, vis),
		openButton:    ui.Button{Bounds: openButtonBounds(), Label: "Open File"},
		seekBar: ui.SeekBar{
			Bounds:   seekBarBounds(cfg.Width, cfg.Height),
			MinStep:  0.01,
			Cooldown: 50 * time.Millisecond,
		},
		sprite:        sprite,
		builtinSprite: builtin,
		face:          face,
		width:         cfg.Width,
		height:        cfg.Height,
		idle:          true,
	}, nil
}

// Load opens path and starts playing it with a fresh detector.
func (g *Game) Load(path string) error {
	track, err := audio.Open(path)
	if err != nil {
		metrics.TracksTotal.WithLabelValues("error").Inc()
		return err
	}
	tap, err := g.player.Play(track)
	if err != nil {
		_ = track.Close()
		metrics.TracksTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.TracksTotal.WithLabelValues("ok").Inc()
	g.attach(tap)
	g.idle = false
	g.lastErr = nil
	return nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.player.TogglePause()
	}
	p := pointer()
	if g.openButton.Update(p) || inpututil.IsKeyJustPressed(ebiten.KeyO) {
		if err := g.openFileDialog(); err != nil {
			g.lastErr = err
			g.logger.Warn("open file", zap.Error(err))
		}
	}
	if f, ok := g.seekBar.Update(p, time.Now()); ok && g.player.Loaded() {
		g.seek(f)
	}

	if g.player.Loaded() && g.player.Ended() {
		g.handleTrackEnd()
	}

	if g.idle {
		return nil
	}
	if g.player.Paused() {
		g.publish(g.last)
		return nil
	}

	f := g.sketch.Tick()
	g.last = f
	metrics.ObserveFrame(f.Level, f.Detector.Cutoff, f.Beat)
	if f.Beat {
		g.logger.Debug("beat",
			zap.Uint64("frame", f.Detector.Frames),
			zap.Float64("level", f.Level),
			zap.Float64("cutoff", f.Detector.Cutoff),
		)
	}
	g.publish(f)
	return nil
}

func (g *Game) handleTrackEnd() {
	path := g.player.Track().Path
	if g.cfg.Loop {
		tap, err := g.player.Restart()
		if err == nil {
			g.logger.Info("track looped", zap.String("path", path))
			g.attach(tap)
			return
		}
		g.lastErr = err
		g.logger.Warn("loop restart failed", zap.String("path", path), zap.Error(err))
	}
	g.logger.Info("playback ended",
		zap.String("path", path),
		zap.Uint64("frames", g.last.Detector.Frames),
		zap.Uint64("beats", g.last.Detector.Beats),
	)
	g.player.Stop()
	g.analyzer = nil
	g.sketch.Restart(nil)
	g.idle = true
}

// attach measures tap from the next frame on, with a fresh detector.
func (g *Game) attach(tap *audio.Tap) {
	g.analyzer = audio.NewAnalyzer(tap, g.cfg.Meter())
	g.sketch.Restart(g.analyzer)
}

// seek jumps to fraction of the current track. The tap still holds audio from
// before the jump, so it is cleared along with the detector.
func (g *Game) seek(fraction float64) {
	if err := g.player.Seek(fraction); err != nil {
		g.lastErr = err
		g.logger.Warn("seek failed", zap.Error(err))
		return
	}
	g.analyzer.Reset()
	g.sketch.Restart(g.analyzer)
}

func (g *Game) publish(f sketch.Frame) {
	if g.publisher == nil {
		return
	}
	vis := g.sketch.Visual()
	bg := vis.Background()
	track := ""
	if t := g.player.Track(); t != nil {
		track = t.Path
	}
	g.publisher.Publish(debugserver.Snapshot{
		RunID:           g.runID,
		Track:           track,
		Frame:           f.Detector.Frames,
		Level:           f.Level,
		Beat:            f.Beat,
		Threshold:       f.Detector.Threshold,
		Cutoff:          f.Detector.Cutoff,
		FramesSinceBeat: f.Detector.FramesSinceBeat,
		Beats:           f.Detector.Beats,
		Background:      fmt.Sprintf("#%02x%02x%02x", bg.R, bg.G, bg.B),
		Rotate:          vis.Rotate(),
		Paused:          g.player.Paused(),
		UpdatedAt:       time.Now(),
	})
}

func (g *Game) openFileDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: audio.Extensions,
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	g.logger.Info("file selected", zap.String("path", filename))
	return g.Load(filename)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width {
		g.sketch.Visual().Resize(outsideWidth)
	}
	g.width, g.height = outsideWidth, outsideHeight
	g.seekBar.Bounds = seekBarBounds(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Close stops playback and releases the current track.
func (g *Game) Close() {
	g.player.Stop()
}
