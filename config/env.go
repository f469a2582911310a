package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full runtime configuration, read once from the environment
type Config struct {
	Source string // reddit | rss

	RedditUsername  string
	RedditPassword  string
	RedditClientID  string
	RedditSecret    string
	RedditUserAgent string
	Subreddit       string
	Sort            string
	TimeWindow      string
	PostLimit       int
	PostCount       int
	MinTextLength   int
	MaxTextLength   int
	ReversePosts    bool
	RSSFeedURL      string

	OpenAIAPIKey   string
	TTSModel       string
	TTSVoice       string
	DeepgramAPIKey string
	DeepgramModel  string

	RenderBackend      string // json2video | ffmpeg
	JSON2VideoAPIKey   string
	VideoWidth         int
	VideoHeight        int
	VideoQuality       string
	MaxChunkSeconds    float64
	MaxCaptionSeconds  float64
	NormalizeAudio     bool
	RecycleVideoAssets bool
	RenderTimeout      time.Duration

	S3Endpoint      string
	S3Region        string
	S3Profile       string
	S3UsePathStyle  bool
	S3PublicBaseURL string
	AudioBucket     string
	VideoBucket     string
	RenderBucket    string

	DiscordWebhookURL       string
	KafkaBrokers            []string
	KafkaTopicNotifications string
	KafkaTopicRunRequests   string
	KafkaConsumerGroupID    string

	RedisAddr  string
	RedisPass  string
	HistoryKey string
	HistoryTTL time.Duration

	Port         int
	CronSchedule string
	LogLevel     string
}

// Load reads the configuration from the process environment. Unset variables
// fall back to defaults; malformed values are an error.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through an arbitrary lookup function
func LoadFrom(getenv func(string) string) (Config, error) {
	e := &envReader{get: getenv}

	cfg := Config{
		Source: strings.ToLower(e.str("SOURCE", DefaultSource)),

		RedditUsername:  e.str("REDDIT_USERNAME", ""),
		RedditPassword:  e.str("REDDIT_PASSWORD", ""),
		RedditClientID:  e.str("REDDIT_CLIENT_ID", ""),
		RedditSecret:    e.str("REDDIT_SECRET", ""),
		RedditUserAgent: e.str("REDDIT_USER_AGENT", DefaultRedditUserAgent),
		Subreddit:       e.str("SUBREDDIT", ""),
		Sort:            e.str("SORT", DefaultSort),
		TimeWindow:      e.str("TIME_WINDOW", DefaultTimeWindow),
		PostLimit:       e.integer("POST_LIMIT", DefaultPostLimit),
		PostCount:       e.integer("POST_COUNT", DefaultPostCount),
		MinTextLength:   e.integer("MIN_TEXT_LENGTH", DefaultMinTextLength),
		MaxTextLength:   e.integer("MAX_TEXT_LENGTH", DefaultMaxTextLength),
		ReversePosts:    e.boolean("REVERSE_POSTS", false),
		RSSFeedURL:      e.str("RSS_FEED_URL", ""),

		OpenAIAPIKey:   e.str("OPENAI_API_KEY", ""),
		TTSModel:       e.str("TTS_MODEL", DefaultTTSModel),
		TTSVoice:       e.str("TTS_VOICE", DefaultTTSVoice),
		DeepgramAPIKey: e.str("DEEPGRAM_API_KEY", ""),
		DeepgramModel:  e.str("DEEPGRAM_MODEL", "nova-2"),

		RenderBackend:      strings.ToLower(e.str("RENDER_BACKEND", "json2video")),
		JSON2VideoAPIKey:   e.str("JSON2VIDEO_API_KEY", ""),
		VideoWidth:         e.integer("VIDEO_WIDTH", VideoWidth),
		VideoHeight:        e.integer("VIDEO_HEIGHT", VideoHeight),
		VideoQuality:       e.str("VIDEO_QUALITY", DefaultVideoQuality),
		MaxChunkSeconds:    e.number("MAX_CHUNK_SECONDS", DefaultMaxChunkSeconds),
		MaxCaptionSeconds:  e.number("MAX_CAPTION_SECONDS", DefaultMaxCaptionSeconds),
		NormalizeAudio:     e.boolean("NORMALIZE_AUDIO", false),
		RecycleVideoAssets: e.boolean("RECYCLE_VIDEO_ASSETS", false),
		RenderTimeout:      e.seconds("RENDER_TIMEOUT_SECONDS", DefaultRenderTimeout),

		S3Endpoint:      e.str("S3_ENDPOINT", ""),
		S3Region:        e.str("S3_REGION", ""),
		S3Profile:       e.str("S3_PROFILE", ""),
		S3UsePathStyle:  e.boolean("S3_USE_PATH_STYLE", false),
		S3PublicBaseURL: strings.TrimRight(e.str("S3_PUBLIC_BASE_URL", ""), "/"),
		AudioBucket:     e.str("AUDIO_BUCKET", DefaultAudioBucket),
		VideoBucket:     e.str("VIDEO_BUCKET", DefaultVideoBucket),
		RenderBucket:    e.str("RENDER_BUCKET", DefaultRenderBucket),

		DiscordWebhookURL:       e.str("DISCORD_WEBHOOK_URL", ""),
		KafkaBrokers:            splitList(e.str("KAFKA_BOOTSTRAP_SERVERS", "")),
		KafkaTopicNotifications: e.str("KAFKA_TOPIC_NOTIFICATIONS", DefaultKafkaTopicNotifications),
		KafkaTopicRunRequests:   e.str("KAFKA_TOPIC_RUN_REQUESTS", DefaultKafkaTopicRunRequests),
		KafkaConsumerGroupID:    e.str("KAFKA_CONSUMER_GROUP_ID", DefaultKafkaConsumerGroup),

		RedisAddr:  e.str("REDIS_ADDR", ""),
		RedisPass:  e.str("REDIS_PASS", ""),
		HistoryKey: e.str("HISTORY_KEY", DefaultHistoryKey),
		HistoryTTL: e.seconds("HISTORY_TTL_SECONDS", DefaultHistoryTTL),

		Port:         e.integer("PORT", DefaultPort),
		CronSchedule: e.str("CRON_SCHEDULE", ""),
		LogLevel:     strings.ToLower(e.str("LOG_LEVEL", "info")),
	}

	if e.err != nil {
		return Config{}, e.err
	}
	return cfg, nil
}

// Validate checks ranges and the credentials required by the selected backends
func (c Config) Validate() error {
	var errs []error

	switch c.Source {
	case "reddit":
		if c.RedditClientID == "" || c.RedditSecret == "" {
			errs = append(errs, errors.New("REDDIT_CLIENT_ID and REDDIT_SECRET are required for the reddit source"))
		}
		if c.RedditUsername == "" || c.RedditPassword == "" {
			errs = append(errs, errors.New("REDDIT_USERNAME and REDDIT_PASSWORD are required for the reddit source"))
		}
		if c.Subreddit == "" {
			errs = append(errs, errors.New("SUBREDDIT is required for the reddit source"))
		}
	case "rss":
		if c.RSSFeedURL == "" {
			errs = append(errs, errors.New("RSS_FEED_URL is required for the rss source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SOURCE %q", c.Source))
	}

	switch c.RenderBackend {
	case "json2video":
		if c.JSON2VideoAPIKey == "" {
			errs = append(errs, errors.New("JSON2VIDEO_API_KEY is required for the json2video backend"))
		}
	case "ffmpeg":
	default:
		errs = append(errs, fmt.Errorf("unknown RENDER_BACKEND %q", c.RenderBackend))
	}

	if c.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required"))
	}
	if c.DeepgramAPIKey == "" {
		errs = append(errs, errors.New("DEEPGRAM_API_KEY is required"))
	}
	if c.S3PublicBaseURL == "" {
		errs = append(errs, errors.New("S3_PUBLIC_BASE_URL is required"))
	}

	if c.PostLimit <= 0 {
		errs = append(errs, errors.New("POST_LIMIT must be > 0"))
	}
	if c.PostCount <= 0 {
		errs = append(errs, errors.New("POST_COUNT must be > 0"))
	}
	if c.PostCount > c.PostLimit {
		errs = append(errs, errors.New("POST_COUNT must be <= POST_LIMIT"))
	}
	if c.MinTextLength < 0 || c.MinTextLength > c.MaxTextLength {
		errs = append(errs, errors.New("MIN_TEXT_LENGTH must be >= 0 and <= MAX_TEXT_LENGTH"))
	}
	if c.MaxChunkSeconds <= 0 {
		errs = append(errs, errors.New("MAX_CHUNK_SECONDS must be > 0"))
	}
	if c.MaxCaptionSeconds <= 0 {
		errs = append(errs, errors.New("MAX_CAPTION_SECONDS must be > 0"))
	}
	if c.VideoWidth <= 0 || c.VideoHeight <= 0 {
		errs = append(errs, errors.New("VIDEO_WIDTH and VIDEO_HEIGHT must be > 0"))
	}
	if c.RenderTimeout <= 0 {
		errs = append(errs, errors.New("RENDER_TIMEOUT_SECONDS must be > 0"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}

	return errors.Join(errs...)
}

// Category returns the source-specific category used in post queries
func (c Config) Category() string {
	if c.Source == "rss" {
		return c.RSSFeedURL
	}
	return c.Subreddit
}

type envReader struct {
	get func(string) string
	err error
}

func (e *envReader) str(key, def string) string {
	if v := strings.TrimSpace(e.get(key)); v != "" {
		return v
	}
	return def
}

func (e *envReader) integer(key string, def int) int {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return n
}

func (e *envReader) number(key string, def float64) float64 {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return f
}

func (e *envReader) boolean(key string, def bool) bool {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return b
}

func (e *envReader) seconds(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return time.Duration(secs) * time.Second
}

func (e *envReader) fail(key, val string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("invalid %s=%q: %w", key, val, err)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
