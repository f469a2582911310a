package types

// Style holds the cosmetic settings applied to every caption overlay
type Style struct {
	FontFamily   string `json:"font_family"`
	FontWeight   int    `json:"font_weight"`
	FontSize     int    `json:"font_size"`
	Color        string `json:"color"`
	ShadowColor  string `json:"shadow_color"`
	ShadowOffset int    `json:"shadow_offset"`
	// SafeWidth is the width in pixels captions may occupy, centered on the frame
	SafeWidth int `json:"safe_width"`
}

// CaptionOverlay is one timed text element of a scene
type CaptionOverlay struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// SceneDescription is the declarative description of one renderable video
type SceneDescription struct {
	AudioURL      string           `json:"audio_url"`
	VideoURL      string           `json:"video_url"`
	Captions      []CaptionOverlay `json:"captions"`
	VideoDuration float64          `json:"video_duration"`
	Style         Style            `json:"style"`
}

// RenderStatus is the lifecycle state of a render job
type RenderStatus string

const (
	RenderPending RenderStatus = "pending"
	RenderRunning RenderStatus = "running"
	RenderDone    RenderStatus = "done"
	RenderFailed  RenderStatus = "failed"
)

// Terminal reports whether no further status change is expected
func (s RenderStatus) Terminal() bool {
	return s == RenderDone || s == RenderFailed
}

// RenderJob identifies a submitted render
type RenderJob struct {
	ID string `json:"id"`
}

// RenderResult is a status snapshot of a render job
type RenderResult struct {
	Status   RenderStatus `json:"status"`
	MediaURL string       `json:"media_url,omitempty"`
	Message  string       `json:"message,omitempty"`
}
