package sqlite

import "time"

// RunRecord represents one completed pipeline run over a match video
type RunRecord struct {
	ID              string    `json:"id"`
	MatchName       string    `json:"match_name"`
	VideoName       string    `json:"video_name"`
	BoardType       string    `json:"board_type"`
	AudioPath       string    `json:"audio_path"`
	SegmentCount    int       `json:"segment_count"`
	TotalDurationMS int64     `json:"total_duration_ms"`
	CreatedAt       time.Time `json:"created_at"`
}

// SegmentRecord represents one merged, speaker-attributed segment of a run
type SegmentRecord struct {
	ID             int64  `json:"id"`
	RunID          string `json:"run_id"`
	Position       int    `json:"position"`
	Speaker        string `json:"speaker"`
	DisplaySpeaker string `json:"display_speaker"`
	StartMS        int64  `json:"start_ms"`
	EndMS          int64  `json:"end_ms"`
	DurationMS     int64  `json:"duration_ms"`
	Text           string `json:"text"`
}

// MarkRecord represents one time mark attached to a run
type MarkRecord struct {
	ID      int64  `json:"id"`
	RunID   string `json:"run_id"`
	StartMS int64  `json:"start_ms"`
	Label   string `json:"label"`
}

// AnalysisRecord represents one LLM analysis or commentary produced for a run
type AnalysisRecord struct {
	ID           int64     `json:"id"`
	RunID        string    `json:"run_id"`
	Kind         string    `json:"kind"` // "analysis" or "commentary"
	SectionLabel string    `json:"section_label"`
	Model        string    `json:"model"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}
