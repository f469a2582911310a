// Package orchestrator drives one run: select posts, narrate them, and turn
// every narration chunk into a rendered, announced part.
package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"storyreel/captions"
	"storyreel/config"
	"storyreel/render"
	"storyreel/scene"
	"storyreel/types"
)

// cleanupTimeout bounds each best-effort delete, including after cancellation
const cleanupTimeout = 30 * time.Second

// Deps are the collaborators of a run; all are required except History and Reporter
type Deps struct {
	Source      PostSource
	Synthesizer Synthesizer
	Slicer      Slicer
	Store       AssetStore
	Transcriber Transcriber
	Renderer    Renderer
	Notifier    Notifier
	History     History
	Reporter    Reporter
	Logger      *slog.Logger
}

// Options are the run settings
type Options struct {
	Query         types.PostQuery
	PostCount     int
	MinTextLength int
	MaxTextLength int
	ReversePosts  bool

	Voice             types.Voice
	MaxChunkSeconds   float64
	MaxCaptionSeconds float64
	NormalizeAudio    bool

	AudioBucket        string
	VideoBucket        string
	RecycleVideoAssets bool

	Style types.Style
	Poll  render.Policy
}

// Orchestrator runs the pipeline
type Orchestrator struct {
	deps Deps
	opts Options
	log  *slog.Logger
}

// New creates an orchestrator, filling unset options with defaults
func New(deps Deps, opts Options) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Reporter == nil {
		deps.Reporter = nopReporter{}
	}
	if opts.PostCount <= 0 {
		opts.PostCount = config.DefaultPostCount
	}
	if opts.MaxChunkSeconds <= 0 {
		opts.MaxChunkSeconds = config.DefaultMaxChunkSeconds
	}
	if opts.MaxCaptionSeconds <= 0 {
		opts.MaxCaptionSeconds = config.DefaultMaxCaptionSeconds
	}
	if opts.AudioBucket == "" {
		opts.AudioBucket = config.DefaultAudioBucket
	}
	if opts.VideoBucket == "" {
		opts.VideoBucket = config.DefaultVideoBucket
	}
	if opts.Style == (types.Style{}) {
		opts.Style = scene.DefaultStyle()
	}
	if opts.Poll == (render.Policy{}) {
		opts.Poll = render.DefaultPolicy(config.DefaultRenderTimeout)
	}
	return &Orchestrator{deps: deps, opts: opts, log: deps.Logger}
}

// Run executes one pipeline run. Fields set in req override the configured
// query and post count. The returned error is non-nil only when the run was
// stopped: no eligible posts, exhausted video pool, cancellation, or a
// failed fetch.
func (o *Orchestrator) Run(ctx context.Context, req types.RunRequest) (types.RunSummary, error) {
	sum := types.RunSummary{RunID: req.ID}
	if sum.RunID == "" {
		sum.RunID = uuid.New().String()
	}
	log := o.log.With("run", sum.RunID)

	query, count := o.resolve(req)
	posts, err := o.selectPosts(ctx, log, query, count)
	if err != nil {
		return sum, err
	}

	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		err := o.processPost(ctx, log.With("post", post.Title), post, &sum)
		if err != nil {
			return sum, err
		}
	}

	log.Info("run complete", "posts", sum.PostsProcessed, "published", sum.PartsPublished, "failed", sum.PartsFailed)
	return sum, nil
}

func (o *Orchestrator) resolve(req types.RunRequest) (types.PostQuery, int) {
	q := o.opts.Query
	if req.Category != "" {
		q.Category = req.Category
	}
	if req.Sort != "" {
		q.Sort = req.Sort
	}
	if req.TimeWindow != "" {
		q.TimeWindow = req.TimeWindow
	}
	count := o.opts.PostCount
	if req.Count > 0 {
		count = req.Count
	}
	return q, count
}

// selectPosts fetches, filters by length and history, optionally reverses and takes count posts
func (o *Orchestrator) selectPosts(ctx context.Context, log *slog.Logger, q types.PostQuery, count int) ([]types.Post, error) {
	o.deps.Reporter.Stage("", -1, "fetch")
	log.Info("fetching posts", "stage", "fetch", "category", q.Category, "sort", q.Sort, "time", q.TimeWindow, "limit", q.Limit)

	fetched, err := o.deps.Source.Fetch(ctx, q)
	if err != nil {
		return nil, types.NewProviderError("source", "fetch", err)
	}

	var eligible []types.Post
	for _, p := range fetched {
		n := utf8.RuneCountInString(p.Text)
		if n < o.opts.MinTextLength || (o.opts.MaxTextLength > 0 && n > o.opts.MaxTextLength) {
			continue
		}
		if o.deps.History != nil {
			seen, err := o.deps.History.Seen(ctx, p)
			if err != nil {
				log.Warn("history lookup failed, keeping post", "post", p.Title, "error", err)
			} else if seen {
				log.Debug("skipping published post", "post", p.Title)
				continue
			}
		}
		eligible = append(eligible, p)
	}

	if o.opts.ReversePosts {
		slices.Reverse(eligible)
	}
	if len(eligible) < count {
		return nil, fmt.Errorf("%d of %d fetched posts eligible, need %d: %w", len(eligible), len(fetched), count, types.ErrNoEligiblePosts)
	}

	log.Info("posts selected", "fetched", len(fetched), "eligible", len(eligible), "count", count)
	return eligible[:count], nil
}

// processPost narrates one post and renders its chunks in order. It returns
// an error only when the whole run must stop.
func (o *Orchestrator) processPost(ctx context.Context, log *slog.Logger, post types.Post, sum *types.RunSummary) error {
	o.deps.Reporter.Stage(post.Title, -1, "synthesize")
	log.Info("synthesizing narration", "stage", "synthesize", "chars", utf8.RuneCountInString(post.Text))
	audio, err := o.deps.Synthesizer.Synthesize(ctx, o.opts.Voice, post.Text)
	if err != nil {
		return o.abortPost(ctx, log, types.NewProviderError("tts", "synthesize", err))
	}

	o.deps.Reporter.Stage(post.Title, -1, "slice")
	chunks, err := o.deps.Slicer.Slice(ctx, audio, o.opts.MaxChunkSeconds, o.opts.NormalizeAudio)
	if err != nil {
		return o.abortPost(ctx, log, types.NewProviderError("slicer", "slice", err))
	}
	log.Info("narration sliced", "stage", "slice", "chunks", len(chunks))

	assets, err := o.deps.Store.List(ctx, o.opts.VideoBucket)
	if err != nil {
		return o.abortPost(ctx, log, types.NewProviderError("storage", "list", err))
	}
	pool := NewVideoPool(assets, config.VideoExtension)
	log.Info("video pool ready", "videos", pool.Len())

	published := 0
	var stop error
	for i, data := range chunks {
		if err := ctx.Err(); err != nil {
			stop = err
			break
		}
		clog := log.With("chunk", i)
		ok, err := o.processChunk(ctx, clog, post, types.AudioChunk{Index: i, Data: data}, pool)
		if errors.Is(err, types.ErrAssetPoolExhausted) || (err != nil && ctx.Err() != nil) {
			stop = err
			break
		}
		if err != nil {
			clog.Error("chunk failed", "error", err)
		}
		if ok {
			published++
			sum.PartsPublished++
		} else {
			sum.PartsFailed++
		}
	}

	sum.PostsProcessed++
	if stop == nil || published > 0 {
		if o.deps.History != nil {
			if err := o.deps.History.Remember(context.WithoutCancel(ctx), post); err != nil {
				log.Warn("failed to remember post", "error", err)
			}
		}
	}
	if stop != nil {
		log.Error("run stopped", "error", stop)
		return stop
	}
	log.Info("post complete", "published", published, "chunks", len(chunks))
	return nil
}

func (o *Orchestrator) abortPost(ctx context.Context, log *slog.Logger, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	log.Error("post aborted", "error", err)
	return nil
}

// processChunk runs upload, transcribe, segment, compose, render and notify
// for one chunk. It reports whether a part was published; its error is
// ErrAssetPoolExhausted, a context error, or a chunk-local failure.
func (o *Orchestrator) processChunk(ctx context.Context, log *slog.Logger, post types.Post, chunk types.AudioChunk, pool *VideoPool) (bool, error) {
	stage := func(s string) {
		o.deps.Reporter.Stage(post.Title, chunk.Index, s)
		log.Info("chunk stage", "stage", s)
	}

	video, err := pool.Pop()
	if err != nil {
		return false, err
	}
	if !o.opts.RecycleVideoAssets {
		defer o.cleanup(ctx, log, video.Bucket, video.Key, o.opts.VideoBucket)
	}

	stage("upload")
	audioKey := uuid.New().String() + config.AudioExtension
	if err := o.deps.Store.Upload(ctx, o.opts.AudioBucket, audioKey, bytes.NewReader(chunk.Data), config.AudioContentType); err != nil {
		return false, chunkErr("storage", "upload", chunk.Index, err)
	}
	defer o.cleanup(ctx, log, o.opts.AudioBucket, audioKey, o.opts.AudioBucket)
	audioURL := o.deps.Store.PublicURL(o.opts.AudioBucket, audioKey)

	stage("transcribe")
	words, err := o.deps.Transcriber.Transcribe(ctx, audioURL)
	if err != nil {
		return false, chunkErr("transcriber", "transcribe", chunk.Index, err)
	}

	stage("segment")
	groups, err := captions.Segment(words, o.opts.MaxCaptionSeconds)
	if err != nil {
		return false, fmt.Errorf("segment chunk %d: %w", chunk.Index, err)
	}

	stage("compose")
	sc, err := scene.Compose(audioURL, video.URL, groups, o.opts.Style)
	if err != nil {
		return false, fmt.Errorf("compose chunk %d: %w", chunk.Index, err)
	}

	stage("render")
	job, err := o.deps.Renderer.Submit(ctx, sc)
	if err != nil {
		return false, chunkErr("renderer", "submit", chunk.Index, err)
	}
	res, err := render.Await(ctx, o.deps.Renderer, job, o.opts.Poll, func(r types.RenderResult) {
		log.Debug("render status", "job", job.ID, "status", r.Status, "message", r.Message)
	})
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, chunkErr("renderer", "status", chunk.Index, err)
	}
	if res.Status != types.RenderDone {
		log.Warn("render failed", "job", job.ID, "message", res.Message)
		return false, nil
	}

	stage("notify")
	msg := types.Message{Title: fmt.Sprintf("%s Pt. %d", post.Title, chunk.Index+1), URL: res.MediaURL}
	if err := o.deps.Notifier.Send(ctx, msg); err != nil {
		log.Warn("notification failed", "error", chunkErr("notifier", "send", chunk.Index, err))
	}
	o.deps.Reporter.Published(msg)
	log.Info("part published", "title", msg.Title, "url", msg.URL)
	return true, nil
}

// cleanup deletes bucket/key best-effort; failures are logged only
func (o *Orchestrator) cleanup(ctx context.Context, log *slog.Logger, bucket, key, fallbackBucket string) {
	if bucket == "" {
		bucket = fallbackBucket
	}
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()
	if err := o.deps.Store.Delete(dctx, bucket, key); err != nil {
		log.Warn("cleanup failed", "error", &types.CleanupError{Bucket: bucket, Key: key, Err: err})
	}
}

func chunkErr(provider, op string, chunk int, err error) error {
	return &types.ProviderError{Provider: provider, Op: op, Chunk: chunk, Err: err}
}
