package captions

import (
	"fmt"
	"io"
	"strings"

	"storyreel/types"
)

// ASSOptions controls the header and style of a generated ASS script
type ASSOptions struct {
	Title    string
	Width    int
	Height   int
	FontName string
	FontSize int
	// MarginV is the distance of the caption baseline from the bottom edge in pixels
	MarginV int
}

// WriteASS writes an Advanced SubStation Alpha script with one dialogue line
// per caption group.
func WriteASS(w io.Writer, groups []types.CaptionGroup, opts ASSOptions) error {
	var b strings.Builder

	b.WriteString("[Script Info]\n")
	fmt.Fprintf(&b, "Title: %s\n", opts.Title)
	b.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&b, "PlayResX: %d\n", opts.Width)
	fmt.Fprintf(&b, "PlayResY: %d\n", opts.Height)
	b.WriteString("\n")

	b.WriteString("[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	// White bold text, black outline with a drop shadow, bottom-centered
	fmt.Fprintf(&b, "Style: Default,%s,%d,&H00FFFFFF,&H00FFFFFF,&H00000000,&H80000000,-1,0,0,0,100,100,0,0,1,3,2,2,40,40,%d,1\n",
		opts.FontName, opts.FontSize, opts.MarginV)
	b.WriteString("\n")

	b.WriteString("[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, g := range groups {
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			FormatASSTimestamp(g.Start),
			FormatASSTimestamp(g.End),
			escapeASS(g.Text))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatASSTimestamp converts seconds to the ASS h:mm:ss.cc format
func FormatASSTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds*100 + 0.5)
	cs := total % 100
	secs := (total / 100) % 60
	mins := (total / 6000) % 60
	hours := total / 360000
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, mins, secs, cs)
}

// escapeASS keeps override blocks and hard line breaks out of caption text
func escapeASS(s string) string {
	r := strings.NewReplacer("{", "(", "}", ")", "\\", "/", "\n", " ")
	return r.Replace(s)
}
