package config

import "time"

// Narration Constants
const (
	// DefaultMaxChunkSeconds is the longest audio slice rendered as one part
	DefaultMaxChunkSeconds = 59.0

	// DefaultMaxCaptionSeconds bounds how long one caption group stays on screen
	DefaultMaxCaptionSeconds = 3.0

	// DefaultTTSModel is the speech model used for narration
	DefaultTTSModel = "tts-1"

	// DefaultTTSVoice is the narrator voice
	DefaultTTSVoice = "onyx"

	// AudioContentType is the MIME type of uploaded narration chunks
	AudioContentType = "audio/mpeg"

	// AudioExtension is appended to every uploaded narration chunk key
	AudioExtension = ".mp3"
)

// Post Selection Constants
const (
	// DefaultSource selects where stories come from
	DefaultSource = "reddit"

	// DefaultSort is the listing order requested from the source
	DefaultSort = "top"

	// DefaultTimeWindow restricts top listings to a period
	DefaultTimeWindow = "day"

	// DefaultPostLimit is how many posts are fetched before filtering
	DefaultPostLimit = 25

	// DefaultPostCount is how many posts are narrated per run
	DefaultPostCount = 1

	// DefaultMinTextLength and DefaultMaxTextLength bound post length in runes
	DefaultMinTextLength = 300
	DefaultMaxTextLength = 5000

	// DefaultRedditUserAgent identifies the client to the Reddit API
	DefaultRedditUserAgent = "storyreel/1.0"
)

// Video Output Constants
const (
	// VideoWidth is the output video width (9:16 aspect ratio)
	VideoWidth = 1080

	// VideoHeight is the output video height (9:16 aspect ratio)
	VideoHeight = 1920

	// DefaultVideoQuality is the quality preset sent to the remote renderer
	DefaultVideoQuality = "high"

	// VideoExtension is the only background asset type accepted from the pool
	VideoExtension = ".mp4"

	// VideoCodec is the video encoding codec for local renders
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec for local renders
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate for local renders
	AudioBitrate = "192k"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"
)

// Caption Style Constants
const (
	CaptionFontFamily   = "Playfair Display"
	CaptionFontWeight   = 800
	CaptionFontSize     = 68
	CaptionColor        = "#FFFFFF"
	CaptionShadowColor  = "#000000"
	CaptionShadowOffset = 4

	// CaptionSafeWidth keeps captions inside the centered 80% of the frame
	CaptionSafeWidth = VideoWidth * 8 / 10

	// CaptionMarginV positions local-render subtitles at 40% from the bottom
	CaptionMarginV = VideoHeight * 4 / 10
)

// Render Polling Constants
const (
	// PollInitialInterval is the first wait between render status checks
	PollInitialInterval = 2 * time.Second

	// PollBackoffFactor multiplies the wait after each check
	PollBackoffFactor = 1.5

	// PollMaxInterval caps the wait between checks
	PollMaxInterval = 15 * time.Second

	// DefaultRenderTimeout bounds the whole wait for one render
	DefaultRenderTimeout = 10 * time.Minute
)

// Storage Constants
const (
	DefaultAudioBucket  = "audio"
	DefaultVideoBucket  = "video"
	DefaultRenderBucket = "renders"
)

// Messaging Constants
const (
	DefaultKafkaTopicNotifications = "storyreel.parts"
	DefaultKafkaTopicRunRequests   = "storyreel.runs"
	DefaultKafkaConsumerGroup      = "storyreel"
)

// History Constants
const (
	DefaultHistoryKey = "posts:bloom"
	DefaultHistoryTTL = 30 * 24 * time.Hour
)

// Service Constants
const (
	DefaultPort = 8080

	// MaxLogEntries is the size of the run log ring served by the API
	MaxLogEntries = 50
)
