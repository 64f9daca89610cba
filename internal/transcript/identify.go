package transcript

import (
	"math"

	"github.com/lsm1103/ArenaAI/internal/voiceprint"
)

// DefaultSimilarityThreshold is the minimum cosine similarity for a
// voiceprint match to be accepted.
const DefaultSimilarityThreshold = 0.3

// Identifier assigns a speaker label to a segment embedding by cosine
// similarity against a voiceprint library. It is pure: no I/O, no state
// mutated across calls.
type Identifier struct {
	library    *voiceprint.Library
	threshold  float64
	seatLabels map[string]string
	judge      string
}

// NewIdentifier creates an identifier over the given (roster-filtered)
// library. seatLabels maps speaker names to display seat labels; the judge
// name is never seat-substituted. A zero threshold means unset and falls
// back to DefaultSimilarityThreshold; a negative threshold is honored and
// accepts any comparable match.
func NewIdentifier(library *voiceprint.Library, threshold float64, seatLabels map[string]string, judge string) *Identifier {
	if threshold == 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Identifier{
		library:    library,
		threshold:  threshold,
		seatLabels: seatLabels,
		judge:      judge,
	}
}

// Identify attributes a speaker to one raw segment. A nil embedding or a
// best similarity below the threshold yields SpeakerUnknown; neither is an
// error.
func (id *Identifier) Identify(seg RawSegment) IdentifiedSegment {
	speaker := SpeakerUnknown
	if seg.Embedding != nil {
		if name, similarity := id.bestMatch(seg.Embedding); similarity >= id.threshold {
			speaker = name
		}
	}

	return IdentifiedSegment{
		StartMS:        seg.StartMS,
		EndMS:          seg.EndMS,
		DurationMS:     seg.DurationMS(),
		Speaker:        speaker,
		DisplaySpeaker: id.displayName(speaker),
		Text:           seg.Text,
	}
}

// bestMatch scans the library in construction order and returns the entry
// with the highest cosine similarity. On an exact tie the first entry wins,
// which keeps identification deterministic.
func (id *Identifier) bestMatch(embedding []float64) (string, float64) {
	bestSpeaker := ""
	bestSimilarity := -1.0

	for _, entry := range id.library.Entries() {
		similarity, ok := cosineSimilarity(embedding, entry.Embedding)
		if !ok {
			continue
		}
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			bestSpeaker = entry.Name
		}
	}

	return bestSpeaker, bestSimilarity
}

// displayName maps a speaker to its seat label when one exists. The judge
// and unknown speakers always display as themselves.
func (id *Identifier) displayName(speaker string) string {
	if speaker == SpeakerUnknown || speaker == id.judge {
		return speaker
	}
	if seat, ok := id.seatLabels[speaker]; ok && seat != "" && seat != "none" {
		return seat
	}
	return speaker
}

// cosineSimilarity returns the cosine similarity of two vectors. Vectors of
// mismatched length or zero magnitude are not comparable; the entry is
// skipped rather than failing the segment.
func cosineSimilarity(a, b []float64) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
