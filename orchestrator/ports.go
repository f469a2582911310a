package orchestrator

import (
	"context"
	"io"

	"storyreel/types"
)

// PostSource fetches candidate stories
type PostSource interface {
	Fetch(ctx context.Context, q types.PostQuery) ([]types.Post, error)
}

// Synthesizer turns text into narration audio
type Synthesizer interface {
	Synthesize(ctx context.Context, voice types.Voice, text string) ([]byte, error)
}

// Slicer splits narration into clips of at most maxSeconds
type Slicer interface {
	Slice(ctx context.Context, audio []byte, maxSeconds float64, normalize bool) ([][]byte, error)
}

// AssetStore holds audio chunks and background videos. Delete must succeed
// for objects that are already gone.
type AssetStore interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	PublicURL(bucket, key string) string
	List(ctx context.Context, bucket string) ([]types.Asset, error)
	Delete(ctx context.Context, bucket, key string) error
}

// Transcriber returns word timings for hosted audio
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) ([]types.WordTiming, error)
}

// Renderer renders scene descriptions
type Renderer interface {
	Submit(ctx context.Context, sc types.SceneDescription) (types.RenderJob, error)
	Status(ctx context.Context, job types.RenderJob) (types.RenderResult, error)
}

// Notifier announces each rendered part
type Notifier interface {
	Send(ctx context.Context, msg types.Message) error
}

// History remembers posts that were already narrated
type History interface {
	Seen(ctx context.Context, p types.Post) (bool, error)
	Remember(ctx context.Context, p types.Post) error
}

// Reporter receives progress updates for status surfaces
type Reporter interface {
	Stage(post string, chunk int, stage string)
	Published(msg types.Message)
}

type nopReporter struct{}

func (nopReporter) Stage(string, int, string) {}
func (nopReporter) Published(types.Message) {}
