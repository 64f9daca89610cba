package transcript

// SpeakerUnknown labels segments whose embedding matched no voiceprint
// above the similarity threshold, or whose embedding extraction failed.
const SpeakerUnknown = "unknown"

// Span locates one speech-activity region inside a source audio file.
// Spans are produced by the external VAD collaborator.
type Span struct {
	AudioPath string `json:"audio_path"`
	StartMS   int64  `json:"start_ms"`
	EndMS     int64  `json:"end_ms"`
}

// DurationMS returns the span length in milliseconds.
func (s Span) DurationMS() int64 {
	return s.EndMS - s.StartMS
}

// RawSegment is one speech-activity segment as delivered by the external
// collaborators: timing from VAD, an optional speaker embedding, and the
// recognized text. A nil Embedding means extraction failed for this segment.
type RawSegment struct {
	StartMS   int64     `json:"start_ms"`
	EndMS     int64     `json:"end_ms"`
	Embedding []float64 `json:"-"`
	Text      string    `json:"text"`
}

// DurationMS returns the segment length in milliseconds.
func (s RawSegment) DurationMS() int64 {
	return s.EndMS - s.StartMS
}

// IdentifiedSegment is a RawSegment with a speaker attribution attached.
// DisplaySpeaker is the seat label when the roster defines one, otherwise
// it equals Speaker.
type IdentifiedSegment struct {
	StartMS        int64  `json:"start_ms"`
	EndMS          int64  `json:"end_ms"`
	DurationMS     int64  `json:"duration_ms"`
	Speaker        string `json:"speaker"`
	DisplaySpeaker string `json:"display_speaker"`
	Text           string `json:"text"`
}

// MergedSegment is a maximal run of consecutive same-speaker segments.
// Invariant: in any merged list no two adjacent entries share Speaker.
type MergedSegment struct {
	Speaker        string `json:"speaker"`
	DisplaySpeaker string `json:"display_speaker"`
	StartMS        int64  `json:"start_ms"`
	EndMS          int64  `json:"end_ms"`
	DurationMS     int64  `json:"duration_ms"`
	Text           string `json:"text"`
}

// TimeMark is an externally supplied chronological annotation (a phase
// boundary such as "first night") merged into the rendered timeline.
type TimeMark struct {
	StartMS int64  `json:"start_ms"`
	Label   string `json:"label"`
}

// ItemKind discriminates timeline entries.
type ItemKind string

const (
	ItemSpeech   ItemKind = "speech"
	ItemTimeMark ItemKind = "time_mark"
)

// TimelineItem is one entry of the final rendered sequence: either a merged
// speech segment or a time mark, ordered ascending by StartMS.
type TimelineItem struct {
	Kind    ItemKind       `json:"type"`
	StartMS int64          `json:"start_ms"`
	Segment *MergedSegment `json:"segment,omitempty"`
	Mark    *TimeMark      `json:"mark,omitempty"`
}
