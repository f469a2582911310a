package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Slicer splits an MP3 buffer into sub-clips with the ffmpeg binary
type Slicer struct {
	FFmpegPath string
	TempDir    string
}

// NewSlicer creates a slicer that writes its scratch files to os.TempDir
func NewSlicer() *Slicer {
	return &Slicer{FFmpegPath: "ffmpeg", TempDir: os.TempDir()}
}

// Slice cuts audio into consecutive clips of at most maxSeconds each, in
// playback order. With normalize set, loudness is normalized per clip.
func (s *Slicer) Slice(ctx context.Context, audio []byte, maxSeconds float64, normalize bool) ([][]byte, error) {
	if len(audio) == 0 {
		return nil, errors.New("slice: empty audio")
	}
	if maxSeconds <= 0 {
		return nil, fmt.Errorf("slice: max seconds must be > 0, got %v", maxSeconds)
	}

	dir, err := os.MkdirTemp(s.TempDir, "storyreel-slice-*")
	if err != nil {
		return nil, fmt.Errorf("slice: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "input.mp3")
	if err := os.WriteFile(in, audio, 0o600); err != nil {
		return nil, fmt.Errorf("slice: write input: %w", err)
	}

	probe, err := ffmpeg.Probe(in)
	if err != nil {
		return nil, fmt.Errorf("slice: probe: %w", err)
	}
	duration, err := probeDuration(probe)
	if err != nil {
		return nil, fmt.Errorf("slice: %w", err)
	}

	bounds := sliceBounds(duration, maxSeconds)
	clips := make([][]byte, 0, len(bounds))
	for i, b := range bounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := filepath.Join(dir, fmt.Sprintf("chunk_%03d.mp3", i))
		kw := ffmpeg.KwArgs{"c:a": "libmp3lame", "b:a": "128k"}
		if normalize {
			kw["af"] = "loudnorm"
		}
		stream := ffmpeg.Input(in, ffmpeg.KwArgs{
			"ss": strconv.FormatFloat(b[0], 'f', 3, 64),
			"t":  strconv.FormatFloat(b[1]-b[0], 'f', 3, 64),
		}).Output(out, kw).OverWriteOutput()

		if err := s.run(ctx, stream); err != nil {
			return nil, fmt.Errorf("slice: chunk %d: %w", i, err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			return nil, fmt.Errorf("slice: read chunk %d: %w", i, err)
		}
		clips = append(clips, data)
	}
	return clips, nil
}

func (s *Slicer) run(ctx context.Context, stream *ffmpeg.Stream) error {
	bin := s.FFmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, bin, stream.GetArgs()...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, tail(out, 512))
	}
	return nil
}

// minClipSeconds drops tails too short to encode or transcribe
const minClipSeconds = 0.001

// sliceBounds returns [start, end) pairs covering duration in steps of max
func sliceBounds(duration, max float64) [][2]float64 {
	if duration <= 0 {
		return nil
	}
	n := int(math.Ceil(duration / max))
	bounds := make([][2]float64, 0, n)
	for i := range n {
		start := float64(i) * max
		end := math.Min(start+max, duration)
		if end-start < minClipSeconds {
			continue
		}
		bounds = append(bounds, [2]float64{start, end})
	}
	return bounds
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func probeDuration(probe string) (float64, error) {
	var p probeOutput
	if err := json.Unmarshal([]byte(probe), &p); err != nil {
		return 0, fmt.Errorf("decode probe output: %w", err)
	}
	d, err := strconv.ParseFloat(p.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", p.Format.Duration, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("audio has no duration")
	}
	return d, nil
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(b)
}
