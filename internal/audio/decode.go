package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// ErrUnsupportedFormat is returned by Open for file extensions no decoder
// handles.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Extensions lists the file patterns Open understands.
var Extensions = []string{"*.wav", "*.mp3", "*.flac", "*.ogg"}

// Track is a decoded audio file ready to stream.
type Track struct {
	Path     string
	Streamer beep.StreamSeekCloser
	Format   beep.Format

	file *os.File
}

// Open decodes the file at path, picking the decoder by extension.
func Open(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
		if err == nil && format.Precision == 2 {
			// beep's wav decoder scales 16-bit PCM by 1/(2^16-1), half of full
			// scale.
			streamer = withGain(streamer, 1)
		}
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	default:
		_ = f.Close()
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return &Track{
		Path:     path,
		Streamer: streamer,
		Format:   format,
		file:     f,
	}, nil
}

// gained applies an effects.Gain in front of a seekable stream.
type gained struct {
	beep.StreamSeekCloser
	gain *effects.Gain
}

// withGain multiplies every sample of s by 1+gain.
func withGain(s beep.StreamSeekCloser, gain float64) beep.StreamSeekCloser {
	return &gained{StreamSeekCloser: s, gain: &effects.Gain{Streamer: s, Gain: gain}}
}

func (g *gained) Stream(samples [][2]float64) (int, bool) { return g.gain.Stream(samples) }

func (g *gained) Err() error { return g.gain.Err() }

// Duration is the total play time of the track.
func (t *Track) Duration() time.Duration {
	return t.Format.SampleRate.D(t.Streamer.Len())
}

// Offset is the sample index at fraction of the track, clamped so that it is
// always a valid Seek target.
func (t *Track) Offset(fraction float64) int {
	n := t.Streamer.Len()
	if n <= 0 || math.IsNaN(fraction) || fraction <= 0 {
		return 0
	}
	if fraction >= 1 {
		return n - 1
	}
	return int(fraction * float64(n))
}

// Rewind seeks back to the first sample.
func (t *Track) Rewind() error {
	return t.Streamer.Seek(0)
}

// Close releases the decoder and the underlying file.
func (t *Track) Close() error {
	var errs []error
	if t.Streamer != nil {
		errs = append(errs, t.Streamer.Close())
		t.Streamer = nil
	}
	if t.file != nil {
		// Most decoders close the file along with themselves.
		if err := t.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
		t.file = nil
	}
	return errors.Join(errs...)
}
