package analysis

import (
	"strings"

	"github.com/lsm1103/ArenaAI/internal/match"
	"github.com/lsm1103/ArenaAI/internal/render"
	"github.com/lsm1103/ArenaAI/internal/transcript"
)

// Speech is one speaker's uninterrupted turn: the maximal run of consecutive
// section segments attributed to the same display speaker.
type Speech struct {
	Speaker    string
	Segments   []transcript.MergedSegment
	Transcript string
	StartMS    int64
	EndMS      int64
}

// GroupBySpeaker partitions section segments into per-speaker turns,
// preserving order. Judge and unknown segments are procedural chatter, not
// player speeches; they terminate the current turn and are dropped.
func GroupBySpeaker(segments []transcript.MergedSegment) []Speech {
	var speeches []Speech
	var current []transcript.MergedSegment
	currentSpeaker := ""

	flush := func() {
		if len(current) == 0 {
			return
		}
		speeches = append(speeches, buildSpeech(currentSpeaker, current))
		current = nil
		currentSpeaker = ""
	}

	for _, seg := range segments {
		speaker := seg.DisplaySpeaker
		if speaker == "" {
			speaker = seg.Speaker
		}

		if speaker == match.Judge || speaker == transcript.SpeakerUnknown {
			flush()
			continue
		}

		if speaker != currentSpeaker {
			flush()
			currentSpeaker = speaker
		}
		current = append(current, seg)
	}
	flush()

	return speeches
}

func buildSpeech(speaker string, segments []transcript.MergedSegment) Speech {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		lines = append(lines, render.SegmentLine(seg))
	}
	return Speech{
		Speaker:    speaker,
		Segments:   segments,
		Transcript: strings.Join(lines, "\n"),
		StartMS:    segments[0].StartMS,
		EndMS:      segments[len(segments)-1].EndMS,
	}
}
