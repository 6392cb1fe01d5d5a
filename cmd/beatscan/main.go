// Command beatscan runs the beat detector over an audio file without playing
// it and prints the time of every beat.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iburimskiy/beat-visualization/internal/audio"
	"github.com/iburimskiy/beat-visualization/internal/config"
	"github.com/iburimskiy/beat-visualization/internal/scan"
)

func main() {
	cfg := config.Load()
	cfg.RegisterBeatFlags(flag.CommandLine)
	fps := flag.Int("fps", config.TPS, "simulated frame rate; the detector steps once per frame")
	quiet := flag.Bool("quiet", false, "only log the summary")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <audio file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run", uuid.NewString()))

	if err := cfg.Beat().Validate(); err != nil {
		logger.Warn("beat detector configured outside its useful range", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg, path, *fps, *quiet); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("scan interrupted")
			return
		}
		logger.Error("scan failed", zap.String("path", path), zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger, cfg *config.Config, path string, fps int, quiet bool) error {
	track, err := audio.Open(path)
	if err != nil {
		return err
	}
	defer track.Close()

	opts := scan.Options{
		FPS:      fps,
		Detector: cfg.Beat(),
		Meter:    cfg.Meter(),
	}
	if !quiet {
		opts.OnBeat = func(b scan.Beat) {
			fmt.Printf("%s\tframe=%d\tlevel=%.3f\tcutoff=%.3f\n", clock(b.At), b.Frame, b.Level, b.Cutoff)
		}
	}

	res, err := scan.Run(ctx, track.Streamer, track.Format.SampleRate, opts)
	if err != nil {
		return err
	}
	logger.Info("scan complete",
		zap.String("path", path),
		zap.Int("frames", res.Frames),
		zap.Int("beats", len(res.Beats)),
		zap.Duration("duration", res.Duration),
	)
	return nil
}

// clock formats d as MM:SS.mmm
func clock(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}
