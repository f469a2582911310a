package render

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storyreel/types"
)

type memUploader struct {
	objects map[string][]byte
}

func (m *memUploader) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[bucket+"/"+key] = b
	return nil
}

func (m *memUploader) PublicURL(bucket, key string) string {
	return "https://cdn/" + bucket + "/" + key
}

func TestFFmpeg_GraphArgs(t *testing.T) {
	r := NewFFmpeg(FFmpegConfig{Width: 720, Height: 1280}, &memUploader{}, nil)
	args := strings.Join(r.graph("bg.mp4", "a.mp3", "c.ass", "out.mp4", 12.5).GetArgs(), " ")

	for _, want := range []string{"bg.mp4", "a.mp3", "crop", "scale", "720", "ass", "libx264", "aac", "out.mp4", "12.50"} {
		if !strings.Contains(args, want) {
			t.Fatalf("ffmpeg args missing %q: %s", want, args)
		}
	}
}

func TestFFmpeg_WriteASS(t *testing.T) {
	r := NewFFmpeg(FFmpegConfig{}, &memUploader{}, nil)
	path := filepath.Join(t.TempDir(), "c.ass")
	if err := r.writeASS(path, testScene()); err != nil {
		t.Fatalf("writeASS error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ass: %v", err)
	}
	if !strings.Contains(string(b), "Dialogue: 0,0:00:01.20,0:00:02.00,Default,,0,0,0,,a time") {
		t.Fatalf("unexpected ASS output:\n%s", b)
	}
}

func TestFFmpeg_SubmitFailsOnMissingSource(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	r := NewFFmpeg(FFmpegConfig{TempDir: t.TempDir()}, &memUploader{objects: map[string][]byte{}}, nil)
	sc := testScene()
	sc.AudioURL = srv.URL + "/missing.mp3"
	if _, err := r.Submit(context.Background(), sc); err == nil {
		t.Fatalf("expected download error")
	}
	if _, err := r.Status(context.Background(), types.RenderJob{ID: "nope"}); err == nil {
		t.Fatalf("expected unknown job error")
	}
}

func TestFFmpeg_StatusForgetsTerminalJobs(t *testing.T) {
	r := NewFFmpeg(FFmpegConfig{}, &memUploader{}, nil)
	job := types.RenderJob{ID: "j1"}
	r.record(job, types.RenderResult{Status: types.RenderDone, MediaURL: "https://cdn/renders/j1.mp4"})

	res, err := r.Status(context.Background(), job)
	if err != nil || res.MediaURL != "https://cdn/renders/j1.mp4" {
		t.Fatalf("Status = %+v, %v", res, err)
	}
	if len(r.jobs) != 0 {
		t.Fatalf("terminal job still tracked: %v", r.jobs)
	}
	if _, err := r.Status(context.Background(), job); err == nil {
		t.Fatalf("expected unknown job error after terminal status was read")
	}
}
