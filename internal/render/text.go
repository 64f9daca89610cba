package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lsm1103/ArenaAI/internal/match"
	"github.com/lsm1103/ArenaAI/internal/transcript"
)

// MinSec formats milliseconds as "mm:ss". Minutes are not wrapped at the
// hour, matching the timestamps embedded in segment lines.
func MinSec(ms int64) string {
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Transcript renders a document as a line-oriented speaker log: a metadata
// header, the roster identity section, and the interleaved timeline where
// each segment renders as "[start-end] display_speaker: text" and each time
// mark as a bannered label line.
func Transcript(doc *Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== %s speaker log ===\n", doc.VideoName)
	fmt.Fprintf(&b, "Match: %s\n", doc.MatchName)
	fmt.Fprintf(&b, "Board: %s\n", doc.BoardType)
	fmt.Fprintf(&b, "Total duration: %s\n", MinSec(doc.TotalDurationMS))
	fmt.Fprintf(&b, "Speech segments: %d\n", doc.TotalSegments)
	fmt.Fprintf(&b, "Merged segments: %d\n", len(doc.MergedSegments))
	fmt.Fprintf(&b, "Time marks: %d\n", len(doc.TimeMarks))
	if len(doc.NoSheriff) > 0 {
		fmt.Fprintf(&b, "No-sheriff players: %s\n", strings.Join(doc.NoSheriff, ", "))
	}
	b.WriteString("\n")

	b.WriteString("=== speaker identities ===\n")
	speakers := make([]string, 0, len(doc.SpeakerRoles))
	for name := range doc.SpeakerRoles {
		speakers = append(speakers, name)
	}
	sort.Strings(speakers)
	for _, name := range speakers {
		role := doc.SpeakerRoles[name]
		if seat := doc.SpeakerSeats[name]; seat != "" && seat != match.NoSeat {
			fmt.Fprintf(&b, "%s (%s): %s\n", seat, name, role)
		} else {
			fmt.Fprintf(&b, "%s: %s\n", name, role)
		}
	}
	b.WriteString("\n")

	for _, item := range transcript.AssembleTimeline(doc.MergedSegments, doc.TimeMarks) {
		b.WriteString(TimelineLine(item))
		b.WriteString("\n")
	}

	return b.String()
}

// TimelineLine renders a single timeline item without a trailing newline.
func TimelineLine(item transcript.TimelineItem) string {
	switch item.Kind {
	case transcript.ItemSpeech:
		seg := item.Segment
		return fmt.Sprintf("[%s-%s] %s: %s", MinSec(seg.StartMS), MinSec(seg.EndMS), seg.DisplaySpeaker, seg.Text)
	case transcript.ItemTimeMark:
		return fmt.Sprintf("=== [%s] %s ===", MinSec(item.Mark.StartMS), item.Mark.Label)
	default:
		return ""
	}
}

// SegmentLine renders one merged segment as a transcript line, the shape
// consumed by the analysis prompts.
func SegmentLine(seg transcript.MergedSegment) string {
	return fmt.Sprintf("[%s-%s] %s: %s", MinSec(seg.StartMS), MinSec(seg.EndMS), seg.DisplaySpeaker, seg.Text)
}
