// Package scene assembles the declarative description of one rendered part.
package scene

import (
	"fmt"
	"strings"

	"storyreel/config"
	"storyreel/types"
)

// DefaultStyle is the caption look used for every part
func DefaultStyle() types.Style {
	return types.Style{
		FontFamily:   config.CaptionFontFamily,
		FontWeight:   config.CaptionFontWeight,
		FontSize:     config.CaptionFontSize,
		Color:        config.CaptionColor,
		ShadowColor:  config.CaptionShadowColor,
		ShadowOffset: config.CaptionShadowOffset,
		SafeWidth:    config.CaptionSafeWidth,
	}
}

// Compose builds a scene with the full narration, the background video held
// until the last caption ends, and one overlay per caption group.
func Compose(audioURL, videoURL string, captions []types.CaptionGroup, style types.Style) (types.SceneDescription, error) {
	if strings.TrimSpace(audioURL) == "" || strings.TrimSpace(videoURL) == "" {
		return types.SceneDescription{}, fmt.Errorf("compose: audio and video URLs are required: %w", types.ErrInvalidInput)
	}
	if len(captions) == 0 {
		return types.SceneDescription{}, fmt.Errorf("compose: no captions: %w", types.ErrInvalidInput)
	}

	overlays := make([]types.CaptionOverlay, 0, len(captions))
	for i, c := range captions {
		if c.End < c.Start {
			return types.SceneDescription{}, fmt.Errorf("compose: caption %d ends before it starts: %w", i, types.ErrInvalidInput)
		}
		overlays = append(overlays, types.CaptionOverlay{
			Text:     c.Text,
			Start:    c.Start,
			Duration: c.Duration(),
		})
	}

	return types.SceneDescription{
		AudioURL:      audioURL,
		VideoURL:      videoURL,
		Captions:      overlays,
		VideoDuration: captions[len(captions)-1].End,
		Style:         style,
	}, nil
}
