// Package transcribe turns a hosted audio file into word-level timings.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storyreel/types"
)

const defaultDeepgramURL = "https://api.deepgram.com"

// DeepgramConfig configures the pre-recorded transcription client
type DeepgramConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Deepgram transcribes audio by URL with the Deepgram listen API
type Deepgram struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewDeepgram creates a Deepgram client
func NewDeepgram(cfg DeepgramConfig) *Deepgram {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultDeepgramURL
	}
	model := cfg.Model
	if model == "" {
		model = "nova-2"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Deepgram{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Words []struct {
					Word           string  `json:"word"`
					PunctuatedWord string  `json:"punctuated_word"`
					Start          float64 `json:"start"`
					End            float64 `json:"end"`
				} `json:"words"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe returns the words of the first channel's best alternative, in
// order. Punctuated forms are preferred when smart formatting produced them.
func (d *Deepgram) Transcribe(ctx context.Context, audioURL string) ([]types.WordTiming, error) {
	params := url.Values{}
	params.Set("model", d.model)
	params.Set("smart_format", "true")

	payload, err := json.Marshal(map[string]string{"url": audioURL})
	if err != nil {
		return nil, fmt.Errorf("deepgram: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/v1/listen?"+params.Encode(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("deepgram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+d.apiKey)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepgram: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("deepgram: API returned %d: %s", resp.StatusCode, string(body))
	}

	var out listenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("deepgram: decode response: %w", err)
	}
	if len(out.Results.Channels) == 0 || len(out.Results.Channels[0].Alternatives) == 0 {
		return nil, fmt.Errorf("deepgram: response has no alternatives")
	}

	raw := out.Results.Channels[0].Alternatives[0].Words
	words := make([]types.WordTiming, 0, len(raw))
	for _, w := range raw {
		text := w.PunctuatedWord
		if text == "" {
			text = w.Word
		}
		words = append(words, types.WordTiming{Word: text, Start: w.Start, End: w.End})
	}
	return words, nil
}
