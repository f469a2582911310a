// Package app wires the configured adapters into a runnable orchestrator.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"storyreel/config"
	"storyreel/history"
	"storyreel/kafka"
	"storyreel/notify"
	"storyreel/orchestrator"
	"storyreel/render"
	"storyreel/scene"
	"storyreel/sources"
	"storyreel/speech"
	"storyreel/storage"
	"storyreel/transcribe"
	"storyreel/types"
)

// App owns the orchestrator and every connection it holds open
type App struct {
	Config       config.Config
	Orchestrator *orchestrator.Orchestrator

	log     *slog.Logger
	closers []func() error
}

// Build validates cfg and constructs every adapter. reporter may be nil.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, reporter orchestrator.Reporter) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, log: logger}

	store, err := storage.NewS3(ctx, storage.S3Config{
		Endpoint:      cfg.S3Endpoint,
		Region:        cfg.S3Region,
		Profile:       cfg.S3Profile,
		UsePathStyle:  cfg.S3UsePathStyle,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		return nil, err
	}

	notifier, err := a.notifier(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	deps := orchestrator.Deps{
		Source:      newSource(cfg, logger),
		Synthesizer: speech.NewOpenAI(cfg.OpenAIAPIKey),
		Slicer:      speech.NewSlicer(),
		Store:       store,
		Transcriber: transcribe.NewDeepgram(transcribe.DeepgramConfig{APIKey: cfg.DeepgramAPIKey, Model: cfg.DeepgramModel}),
		Renderer:    newRenderer(cfg, store, logger),
		Notifier:    notifier,
		History:     a.history(ctx, cfg),
		Reporter:    reporter,
		Logger:      logger,
	}
	a.Orchestrator = orchestrator.New(deps, Options(cfg))
	return a, nil
}

// Options maps the configuration onto orchestrator options
func Options(cfg config.Config) orchestrator.Options {
	return orchestrator.Options{
		Query: types.PostQuery{
			Category:   cfg.Category(),
			Sort:       cfg.Sort,
			TimeWindow: cfg.TimeWindow,
			Limit:      cfg.PostLimit,
		},
		PostCount:          cfg.PostCount,
		MinTextLength:      cfg.MinTextLength,
		MaxTextLength:      cfg.MaxTextLength,
		ReversePosts:       cfg.ReversePosts,
		Voice:              types.Voice{Model: cfg.TTSModel, ID: cfg.TTSVoice},
		MaxChunkSeconds:    cfg.MaxChunkSeconds,
		MaxCaptionSeconds:  cfg.MaxCaptionSeconds,
		NormalizeAudio:     cfg.NormalizeAudio,
		AudioBucket:        cfg.AudioBucket,
		VideoBucket:        cfg.VideoBucket,
		RecycleVideoAssets: cfg.RecycleVideoAssets,
		Style:              scene.DefaultStyle(),
		Poll:               render.DefaultPolicy(cfg.RenderTimeout),
	}
}

func newSource(cfg config.Config, logger *slog.Logger) orchestrator.PostSource {
	if cfg.Source == "rss" {
		return sources.NewRSS(true, logger)
	}
	return sources.NewReddit(sources.RedditConfig{
		ClientID:  cfg.RedditClientID,
		Secret:    cfg.RedditSecret,
		Username:  cfg.RedditUsername,
		Password:  cfg.RedditPassword,
		UserAgent: cfg.RedditUserAgent,
	})
}

func newRenderer(cfg config.Config, store render.Uploader, logger *slog.Logger) orchestrator.Renderer {
	if cfg.RenderBackend == "ffmpeg" {
		return render.NewFFmpeg(render.FFmpegConfig{
			Width:  cfg.VideoWidth,
			Height: cfg.VideoHeight,
			Bucket: cfg.RenderBucket,
		}, store, logger)
	}
	return render.NewJSON2Video(render.JSON2VideoConfig{
		APIKey:  cfg.JSON2VideoAPIKey,
		Width:   cfg.VideoWidth,
		Height:  cfg.VideoHeight,
		Quality: cfg.VideoQuality,
	})
}

// notifier combines Discord and Kafka; with neither configured parts are only logged
func (a *App) notifier(cfg config.Config) (orchestrator.Notifier, error) {
	var senders notify.Multi
	if cfg.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscord(cfg.DiscordWebhookURL))
	}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicNotifications)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		a.closers = append(a.closers, p.Close)
		senders = append(senders, notify.NewKafka(p))
	}
	if len(senders) == 0 {
		a.log.Warn("no notification channel configured")
		return notify.Discard{}, nil
	}
	return senders, nil
}

// history falls back to a no-op history when Redis is unset or unreachable
func (a *App) history(ctx context.Context, cfg config.Config) orchestrator.History {
	if cfg.RedisAddr == "" {
		return history.Noop{}
	}
	h, err := history.NewRedis(ctx, history.BloomConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		Key:      cfg.HistoryKey,
		TTL:      cfg.HistoryTTL,
	})
	if err != nil {
		a.log.Warn("post history disabled", "error", err)
		return history.Noop{}
	}
	a.closers = append(a.closers, h.Close)
	return h
}

// Close releases producer and Redis connections
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
