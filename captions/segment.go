// Package captions turns transcribed word timings into on-screen caption
// groups and renders them as ASS subtitle scripts.
package captions

import (
	"fmt"
	"math"
	"strings"

	"storyreel/types"
)

// Segment merges consecutive words into caption groups. A group is closed
// before the next word once its accumulated span has reached maxSpan, so a
// single word longer than maxSpan still becomes its own group.
func Segment(words []types.WordTiming, maxSpan float64) ([]types.CaptionGroup, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("segment: no words: %w", types.ErrInvalidInput)
	}
	if maxSpan <= 0 || math.IsNaN(maxSpan) {
		return nil, fmt.Errorf("segment: max span %v: %w", maxSpan, types.ErrInvalidInput)
	}
	if err := validate(words); err != nil {
		return nil, err
	}

	var groups []types.CaptionGroup
	var text []string
	var start, end float64

	for _, w := range words {
		if len(text) > 0 && math.Abs(end-start) >= maxSpan {
			groups = append(groups, types.CaptionGroup{
				Text:  strings.Join(text, " "),
				Start: start,
				End:   end,
			})
			text = text[:0]
		}
		if len(text) == 0 {
			start = w.Start
		}
		text = append(text, w.Word)
		end = w.End
	}

	groups = append(groups, types.CaptionGroup{
		Text:  strings.Join(text, " "),
		Start: start,
		End:   end,
	})
	return groups, nil
}

func validate(words []types.WordTiming) error {
	prev := 0.0
	for i, w := range words {
		switch {
		case math.IsNaN(w.Start) || math.IsNaN(w.End):
			return fmt.Errorf("segment: word %d has NaN timestamp: %w", i, types.ErrInvalidInput)
		case w.Start < 0 || w.End < 0:
			return fmt.Errorf("segment: word %d has negative timestamp: %w", i, types.ErrInvalidInput)
		case w.End < w.Start:
			return fmt.Errorf("segment: word %d ends at %.3f before it starts at %.3f: %w", i, w.End, w.Start, types.ErrInvalidInput)
		case w.Start < prev:
			return fmt.Errorf("segment: word %d starts at %.3f before previous word at %.3f: %w", i, w.Start, prev, types.ErrInvalidInput)
		}
		prev = w.Start
	}
	return nil
}
