package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/iburimskiy/beat-visualization/internal/audio"
	"github.com/iburimskiy/beat-visualization/internal/config"
	"github.com/iburimskiy/beat-visualization/internal/debugserver"
	"github.com/iburimskiy/beat-visualization/internal/game"
)

const windowTitle = "Beat Visualization - Space: Play/Pause, O: Open, Esc/Q: Quit"

func main() {
	cfg := config.Load()
	cfg.RegisterBeatFlags(flag.CommandLine)
	cfg.RegisterSketchFlags(flag.CommandLine)
	debug := flag.Bool("debug", false, "development logging, including every beat")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [audio file]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := newLogger(*debug)
	defer logger.Sync()

	runID := uuid.NewString()
	logger = logger.With(zap.String("run", runID))

	path := flag.Arg(0)
	if path == "" {
		var err error
		path, err = zenity.SelectFile(
			zenity.Title("Open Audio File"),
			zenity.FileFilters{{Name: "Audio", Patterns: audio.Extensions}},
		)
		if errors.Is(err, zenity.ErrCanceled) {
			logger.Info("no file selected")
			return
		}
		if err != nil {
			fatal(logger, "file dialog failed", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var publisher *debugserver.Publisher
	if cfg.DebugAddr != "" {
		publisher = &debugserver.Publisher{}
		go func() {
			if err := debugserver.Serve(ctx, cfg.DebugAddr, debugserver.NewRouter(publisher), logger); err != nil {
				logger.Error("debug server failed", zap.Error(err))
			}
		}()
	}

	g, err := game.New(game.Options{
		Config:    cfg,
		Logger:    logger,
		RunID:     runID,
		Publisher: publisher,
	})
	if err != nil {
		fatal(logger, "failed to load assets", err)
	}
	defer g.Close()

	if err := g.Load(path); err != nil {
		fatal(logger, "failed to play "+path, err)
	}

	logger.Info("beat visualization starting",
		zap.String("path", path),
		zap.Float64("threshold", cfg.Threshold),
		zap.Float64("cutoffMultiplier", cfg.CutoffMultiplier),
		zap.Float64("decayRate", cfg.DecayRate),
		zap.Int("holdFrames", cfg.HoldFrames),
		zap.Int64("seed", cfg.Seed),
	)

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game loop failed", zap.Error(err))
		g.Close()
		cancel()
		os.Exit(1)
	}
}

func newLogger(debug bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		return zap.NewNop()
	}
	return logger
}

// fatal reports a startup failure in a dialog, since the program is usually
// launched without a terminal, then exits.
func fatal(logger *zap.Logger, msg string, err error) {
	_ = zenity.Error(fmt.Sprintf("%s: %v", msg, err), zenity.Title("Beat Visualization"))
	logger.Fatal(msg, zap.Error(err))
}
