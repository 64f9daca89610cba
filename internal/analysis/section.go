package analysis

import (
	"fmt"
	"strings"

	"github.com/lsm1103/ArenaAI/internal/transcript"
)

// Section is a contiguous slice of a run's merged segments bounded by time
// marks.
type Section struct {
	StartLabel string
	EndLabel   string
	StartMS    int64
	EndMS      int64 // 0 means open-ended (runs to the end of the match)
	Segments   []transcript.MergedSegment
}

// ExtractSection cuts the merged segment list to the window opened by the
// first time mark whose label contains startLabel and closed by the next
// mark. A missing start anchor is fatal: the consumer depends on it.
func ExtractSection(segments []transcript.MergedSegment, marks []transcript.TimeMark, startLabel string) (*Section, error) {
	startIdx := -1
	for i, mark := range marks {
		if strings.Contains(mark.Label, startLabel) {
			startIdx = i
			break
		}
	}
	if startIdx == -1 {
		return nil, fmt.Errorf("time mark %q not found", startLabel)
	}

	section := &Section{
		StartLabel: marks[startIdx].Label,
		StartMS:    marks[startIdx].StartMS,
	}
	if startIdx+1 < len(marks) {
		section.EndLabel = marks[startIdx+1].Label
		section.EndMS = marks[startIdx+1].StartMS
	}

	for _, seg := range segments {
		if seg.StartMS < section.StartMS {
			continue
		}
		if section.EndMS > 0 && seg.StartMS >= section.EndMS {
			break
		}
		section.Segments = append(section.Segments, seg)
	}

	return section, nil
}
