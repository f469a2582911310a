// Package speech synthesizes narration and slices it into renderable chunks.
package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"storyreel/types"
)

// OpenAI synthesizes speech with the OpenAI audio API
type OpenAI struct {
	client openai.Client
}

// NewOpenAI creates a synthesizer; extra options (base URL, retries) are passed to the client
func NewOpenAI(apiKey string, opts ...option.RequestOption) *OpenAI {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAI{client: openai.NewClient(opts...)}
}

type speechRequest struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize returns MP3 audio for text spoken by the given voice
func (o *OpenAI) Synthesize(ctx context.Context, voice types.Voice, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("speech: empty text")
	}

	var audio []byte
	err := o.client.Post(ctx, "audio/speech", speechRequest{
		Model:          voice.Model,
		Voice:          voice.ID,
		Input:          text,
		ResponseFormat: "mp3",
	}, &audio)
	if err != nil {
		return nil, fmt.Errorf("speech: synthesize: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("speech: empty audio response")
	}
	return audio, nil
}
