package config

import (
	"strings"
	"testing"
	"time"
)

func mapEnv(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func validEnv() map[string]string {
	return map[string]string{
		"REDDIT_USERNAME":    "u",
		"REDDIT_PASSWORD":    "p",
		"REDDIT_CLIENT_ID":   "id",
		"REDDIT_SECRET":      "s",
		"SUBREDDIT":          "nosleep",
		"OPENAI_API_KEY":     "sk",
		"DEEPGRAM_API_KEY":   "dg",
		"JSON2VIDEO_API_KEY": "j2v",
		"S3_PUBLIC_BASE_URL": "https://x.supabase.co/storage/v1/object/public/",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(mapEnv(validEnv()))
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	if cfg.MaxChunkSeconds != 59 || cfg.MaxCaptionSeconds != 3 {
		t.Fatalf("unexpected chunk/caption defaults: %v/%v", cfg.MaxChunkSeconds, cfg.MaxCaptionSeconds)
	}
	if cfg.VideoWidth != 1080 || cfg.VideoHeight != 1920 || cfg.VideoQuality != "high" {
		t.Fatalf("unexpected video defaults: %dx%d %s", cfg.VideoWidth, cfg.VideoHeight, cfg.VideoQuality)
	}
	if cfg.AudioBucket != "audio" || cfg.VideoBucket != "video" || cfg.RenderBucket != "renders" {
		t.Fatalf("unexpected buckets: %s %s %s", cfg.AudioBucket, cfg.VideoBucket, cfg.RenderBucket)
	}
	if cfg.RecycleVideoAssets {
		t.Fatalf("video assets must be single-use by default")
	}
	if cfg.RenderTimeout != 10*time.Minute {
		t.Fatalf("RenderTimeout = %v", cfg.RenderTimeout)
	}
	if strings.HasSuffix(cfg.S3PublicBaseURL, "/") {
		t.Fatalf("public base URL keeps trailing slash: %q", cfg.S3PublicBaseURL)
	}
	if cfg.Category() != "nosleep" {
		t.Fatalf("Category() = %q", cfg.Category())
	}
}

func TestLoad_Overrides(t *testing.T) {
	env := validEnv()
	env["KAFKA_BOOTSTRAP_SERVERS"] = "a:9092, b:9092,"
	env["RECYCLE_VIDEO_ASSETS"] = "true"
	env["RENDER_TIMEOUT_SECONDS"] = "90"
	env["MAX_CHUNK_SECONDS"] = "40"

	cfg, err := LoadFrom(mapEnv(env))
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "b:9092" {
		t.Fatalf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if !cfg.RecycleVideoAssets || cfg.RenderTimeout != 90*time.Second || cfg.MaxChunkSeconds != 40 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_MalformedValue(t *testing.T) {
	env := validEnv()
	env["POST_COUNT"] = "many"
	if _, err := LoadFrom(mapEnv(env)); err == nil || !strings.Contains(err.Error(), "POST_COUNT") {
		t.Fatalf("expected POST_COUNT error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(m map[string]string)
		wantErr string
	}{
		{"missing openai key", func(m map[string]string) { delete(m, "OPENAI_API_KEY") }, "OPENAI_API_KEY"},
		{"rss without feed", func(m map[string]string) { m["SOURCE"] = "rss" }, "RSS_FEED_URL"},
		{"unknown backend", func(m map[string]string) { m["RENDER_BACKEND"] = "blender" }, "RENDER_BACKEND"},
		{"ffmpeg needs no json2video key", func(m map[string]string) {
			m["RENDER_BACKEND"] = "ffmpeg"
			delete(m, "JSON2VIDEO_API_KEY")
		}, ""},
		{"min above max", func(m map[string]string) { m["MIN_TEXT_LENGTH"] = "9000" }, "MIN_TEXT_LENGTH"},
		{"zero caption span", func(m map[string]string) { m["MAX_CAPTION_SECONDS"] = "0" }, "MAX_CAPTION_SECONDS"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := validEnv()
			c.mutate(env)
			cfg, err := LoadFrom(mapEnv(env))
			if err != nil {
				t.Fatalf("LoadFrom error: %v", err)
			}
			err = cfg.Validate()
			if c.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("Validate error = %v; want mention of %s", err, c.wantErr)
			}
		})
	}
}
