package transcription

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// FormatTime renders seconds as MM:SS using floor division. Minutes are
// zero-padded to two digits and grow past 99 as needed. Negative, NaN and
// infinite inputs render as "00:00".
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "00:00"
	}
	minutes := int64(math.Floor(seconds / 60))
	secs := int64(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// FormatSegments prepares segments for display. It returns a new slice
// and leaves the input untouched.
func FormatSegments(segments []Segment) []FormattedSegment {
	out := make([]FormattedSegment, 0, len(segments))
	for _, seg := range segments {
		words := slices.Clone(seg.Words)
		if words == nil {
			words = []Word{}
		}
		out = append(out, FormattedSegment{
			Text:      strings.TrimSpace(seg.Text),
			StartTime: FormatTime(seg.Start),
			EndTime:   FormatTime(seg.End),
			Duration:  seg.End - seg.Start,
			Words:     words,
		})
	}
	return out
}
