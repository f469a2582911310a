package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"storyreel/captions"
	"storyreel/config"
	"storyreel/types"
)

// Uploader stores a finished render and exposes its public URL
type Uploader interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	PublicURL(bucket, key string) string
}

// FFmpegConfig configures the local render backend
type FFmpegConfig struct {
	FFmpegPath string
	TempDir    string
	Width      int
	Height     int
	Bucket     string
}

// FFmpeg renders scenes locally: the background is cropped to 9:16, captions
// are burned in from an ASS script and the narration replaces the audio.
// Submit renders synchronously; Status reports the recorded outcome.
type FFmpeg struct {
	cfg        FFmpegConfig
	store      Uploader
	httpClient *http.Client
	logger     *slog.Logger

	mu   sync.Mutex
	jobs map[string]types.RenderResult
}

// NewFFmpeg creates a local renderer that uploads finished videos through store
func NewFFmpeg(cfg FFmpegConfig, store Uploader, logger *slog.Logger) *FFmpeg {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = config.VideoWidth, config.VideoHeight
	}
	if cfg.Bucket == "" {
		cfg.Bucket = config.DefaultRenderBucket
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FFmpeg{
		cfg:        cfg,
		store:      store,
		httpClient: &http.Client{},
		logger:     logger,
		jobs:       make(map[string]types.RenderResult),
	}
}

// Submit renders sc and records the result under a new job ID
func (f *FFmpeg) Submit(ctx context.Context, sc types.SceneDescription) (types.RenderJob, error) {
	job := types.RenderJob{ID: uuid.New().String()}

	dir, err := os.MkdirTemp(f.cfg.TempDir, "storyreel-render-*")
	if err != nil {
		return types.RenderJob{}, fmt.Errorf("ffmpeg: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	audioPath := filepath.Join(dir, "audio.mp3")
	if err := f.downloadFile(ctx, sc.AudioURL, audioPath); err != nil {
		return types.RenderJob{}, fmt.Errorf("ffmpeg: failed to download audio: %w", err)
	}
	videoPath := filepath.Join(dir, "background.mp4")
	if err := f.downloadFile(ctx, sc.VideoURL, videoPath); err != nil {
		return types.RenderJob{}, fmt.Errorf("ffmpeg: failed to download video: %w", err)
	}
	assPath := filepath.Join(dir, "captions.ass")
	if err := f.writeASS(assPath, sc); err != nil {
		return types.RenderJob{}, fmt.Errorf("ffmpeg: failed to generate ASS: %w", err)
	}

	outPath := filepath.Join(dir, "out.mp4")
	stream := f.graph(videoPath, audioPath, assPath, outPath, sc.VideoDuration)
	cmd := exec.CommandContext(ctx, f.cfg.FFmpegPath, stream.GetArgs()...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return types.RenderJob{}, ctx.Err()
		}
		f.logger.Warn("ffmpeg render failed", "job", job.ID, "error", err)
		f.record(job, types.RenderResult{Status: types.RenderFailed, Message: lastLine(out)})
		return job, nil
	}

	out, err := os.Open(outPath)
	if err != nil {
		return types.RenderJob{}, fmt.Errorf("ffmpeg: open output: %w", err)
	}
	defer out.Close()

	key := job.ID + config.VideoExtension
	if err := f.store.Upload(ctx, f.cfg.Bucket, key, out, "video/mp4"); err != nil {
		return types.RenderJob{}, fmt.Errorf("ffmpeg: upload render: %w", err)
	}
	f.record(job, types.RenderResult{Status: types.RenderDone, MediaURL: f.store.PublicURL(f.cfg.Bucket, key)})
	return job, nil
}

// Status returns the recorded outcome of a submitted job. A terminal outcome
// is reported once and then forgotten.
func (f *FFmpeg) Status(ctx context.Context, job types.RenderJob) (types.RenderResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.jobs[job.ID]
	if !ok {
		return types.RenderResult{}, fmt.Errorf("ffmpeg: unknown job %s", job.ID)
	}
	if res.Status.Terminal() {
		delete(f.jobs, job.ID)
	}
	return res, nil
}

func (f *FFmpeg) record(job types.RenderJob, res types.RenderResult) {
	f.mu.Lock()
	f.jobs[job.ID] = res
	f.mu.Unlock()
}

// graph builds the ffmpeg invocation: crop and scale the background to the
// output frame, burn in the captions, and mux with the narration
func (f *FFmpeg) graph(videoPath, audioPath, assPath, outPath string, duration float64) *ffmpeg.Stream {
	video := ffmpeg.Input(videoPath, ffmpeg.KwArgs{"stream_loop": "-1", "t": fmt.Sprintf("%.2f", duration)})
	audio := ffmpeg.Input(audioPath)

	cropped := ffmpeg.Filter(
		[]*ffmpeg.Stream{video},
		"crop",
		ffmpeg.Args{"ih*9/16:ih"},
	).Filter(
		"scale",
		ffmpeg.Args{fmt.Sprintf("%d:%d", f.cfg.Width, f.cfg.Height)},
	)

	assForFFmpeg := strings.ReplaceAll(filepath.ToSlash(assPath), ":", "\\:")
	withSubs := ffmpeg.Filter([]*ffmpeg.Stream{cropped}, "ass", ffmpeg.Args{assForFFmpeg})

	return ffmpeg.Output([]*ffmpeg.Stream{withSubs, audio}, outPath, ffmpeg.KwArgs{
		"c:v":      config.VideoCodec,
		"c:a":      config.AudioCodec,
		"b:a":      config.AudioBitrate,
		"preset":   config.VideoPreset,
		"shortest": "",
	}).OverWriteOutput()
}

func (f *FFmpeg) writeASS(path string, sc types.SceneDescription) error {
	groups := make([]types.CaptionGroup, len(sc.Captions))
	for i, c := range sc.Captions {
		groups[i] = types.CaptionGroup{Text: c.Text, Start: c.Start, End: c.Start + c.Duration}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return captions.WriteASS(file, groups, captions.ASSOptions{
		Title:    "storyreel",
		Width:    f.cfg.Width,
		Height:   f.cfg.Height,
		FontName: sc.Style.FontFamily,
		FontSize: sc.Style.FontSize,
		MarginV:  f.cfg.Height * 4 / 10,
	})
}

func (f *FFmpeg) downloadFile(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download: status %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	return lines[len(lines)-1]
}
