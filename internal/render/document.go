package render

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/lsm1103/ArenaAI/internal/match"
	"github.com/lsm1103/ArenaAI/internal/transcript"
)

// ProcessingConfig echoes the pipeline parameters into the result document
// so a run can be reproduced from its output alone.
type ProcessingConfig struct {
	SimilarityThreshold  float64 `json:"similarity_threshold"`
	MinSpeakerDurationMS int64   `json:"min_speaker_duration_ms"`
	CascadeCorrection    bool    `json:"cascade_correction"`
}

// Document is the serializable result of one pipeline run: match metadata,
// the raw and merged segment lists, the time marks, and the roster maps.
type Document struct {
	RunID            string                         `json:"run_id"`
	MatchName        string                         `json:"match_name"`
	VideoName        string                         `json:"video_name"`
	AudioPath        string                         `json:"audio_path"`
	BoardType        string                         `json:"board_type"`
	ProcessingConfig ProcessingConfig               `json:"processing_config"`
	CandidateSpeakers []string                      `json:"candidate_speakers"`
	UsedVoiceprints  []string                       `json:"used_voiceprints"`
	Segments         []transcript.IdentifiedSegment `json:"segments"`
	MergedSegments   []transcript.MergedSegment     `json:"merged_segments"`
	TimeMarks        []transcript.TimeMark          `json:"time_marks"`
	SpeakerRoles     map[string]string              `json:"speaker_roles"`
	SpeakerSeats     map[string]string              `json:"speaker_seats"`
	NoSheriff        []string                       `json:"no_sheriff"`
	TotalSegments    int                            `json:"total_segments"`
	TotalDurationMS  int64                          `json:"total_duration_ms"`
}

// BuildDocument assembles the result document for one run.
func BuildDocument(
	runID string,
	videoName string,
	audioPath string,
	config *match.Config,
	processing ProcessingConfig,
	usedVoiceprints []string,
	result *transcript.Result,
	totalDurationMS int64,
) *Document {
	return &Document{
		RunID:             runID,
		MatchName:         config.Name,
		VideoName:         videoName,
		AudioPath:         audioPath,
		BoardType:         config.BoardType,
		ProcessingConfig:  processing,
		CandidateSpeakers: config.CandidateNames(),
		UsedVoiceprints:   usedVoiceprints,
		Segments:          result.Segments,
		MergedSegments:    result.Merged,
		TimeMarks:         config.TimeMarks,
		SpeakerRoles:      config.Roles(),
		SpeakerSeats:      config.SeatLabels(),
		NoSheriff:         config.NoSheriff,
		TotalSegments:     len(result.Segments),
		TotalDurationMS:   totalDurationMS,
	}
}

// LoadDocument reads a result document written by a processing run.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse result document: %w", err)
	}
	if doc.RunID == "" {
		return nil, fmt.Errorf("result document has no run_id")
	}
	return &doc, nil
}

// MatchConfig reconstructs the match configuration embedded in the document,
// so downstream stages can run from the document alone.
func (d *Document) MatchConfig() *match.Config {
	names := make([]string, 0, len(d.SpeakerRoles))
	for name := range d.SpeakerRoles {
		names = append(names, name)
	}
	sort.Strings(names)

	participants := make([]match.Participant, 0, len(names))
	for _, name := range names {
		participants = append(participants, match.Participant{
			Name:      name,
			Role:      d.SpeakerRoles[name],
			SeatLabel: d.SpeakerSeats[name],
		})
	}

	return &match.Config{
		Name:         d.MatchName,
		BoardType:    d.BoardType,
		Participants: participants,
		NoSheriff:    d.NoSheriff,
		TimeMarks:    d.TimeMarks,
	}
}
