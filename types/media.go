package types

import "time"

// WordTiming is one transcribed word with its position in the audio, in seconds
type WordTiming struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// CaptionGroup is a run of consecutive words shown on screen as one subtitle
type CaptionGroup struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the on-screen duration of the group in seconds
func (g CaptionGroup) Duration() float64 { return g.End - g.Start }

// AudioChunk is one bounded slice of a synthesized narration
type AudioChunk struct {
	Index int
	Data  []byte
}

// Voice selects the speech model and voice used for narration
type Voice struct {
	Model string `json:"model"`
	ID    string `json:"id"`
}

// Asset describes one stored object in a bucket
type Asset struct {
	Bucket       string    `json:"bucket"`
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Message is what gets published for every rendered part
type Message struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
