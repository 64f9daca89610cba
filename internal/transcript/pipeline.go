package transcript

import (
	"context"
	"fmt"
)

// Config holds the tunable parameters of one consolidation run.
type Config struct {
	SimilarityThreshold  float64
	MinSpeakerDurationMS int64
	CascadeCorrection    bool
}

// Result is the output of one run: the per-segment attributions, the
// corrected merged list, and the renderable timeline.
type Result struct {
	Segments []IdentifiedSegment `json:"segments"`
	Merged   []MergedSegment     `json:"merged_segments"`
	Timeline []TimelineItem      `json:"timeline"`
}

// Pipeline consolidates a raw segment stream into a speaker-attributed
// transcript. All model inference happens in the injected collaborators;
// per-segment collaborator failures degrade to unknown speaker or empty
// text and never abort the run.
type Pipeline struct {
	segmenter   Segmenter
	embedder    Embedder
	transcriber Transcriber
	identifier  *Identifier
	observer    Observer
	config      Config
}

// NewPipeline creates a pipeline. The observer may be nil.
func NewPipeline(
	segmenter Segmenter,
	embedder Embedder,
	transcriber Transcriber,
	identifier *Identifier,
	config Config,
	observer Observer,
) *Pipeline {
	if observer == nil {
		observer = NopObserver{}
	}
	if config.MinSpeakerDurationMS <= 0 {
		config.MinSpeakerDurationMS = DefaultMinSpeakerDurationMS
	}
	return &Pipeline{
		segmenter:   segmenter,
		embedder:    embedder,
		transcriber: transcriber,
		identifier:  identifier,
		observer:    observer,
		config:      config,
	}
}

// Run detects speech spans in the audio file, gathers embedding and text for
// each one, and consolidates the resulting segments with the given time
// marks. Only a segmenter-level failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, audioPath string, marks []TimeMark) (*Result, error) {
	spans, err := p.segmenter.Segment(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to segment audio: %w", err)
	}

	raw := make([]RawSegment, 0, len(spans))
	for _, span := range spans {
		seg := RawSegment{StartMS: span.StartMS, EndMS: span.EndMS}

		// Extraction or recognition failure on one segment is a degrade
		// path: the segment survives with unknown speaker or empty text.
		if embedding, err := p.embedder.Embed(ctx, span); err == nil {
			seg.Embedding = embedding
		}
		if text, err := p.transcriber.Transcribe(ctx, span); err == nil {
			seg.Text = text
		}

		raw = append(raw, seg)
	}

	return p.Consolidate(raw, marks), nil
}

// Consolidate runs the pure transform chain over an already-gathered segment
// list: identify, merge, correct, re-merge, assemble timeline. It is
// deterministic for identical inputs.
func (p *Pipeline) Consolidate(raw []RawSegment, marks []TimeMark) *Result {
	identified := make([]IdentifiedSegment, 0, len(raw))
	for i, seg := range raw {
		out := p.identifier.Identify(seg)
		identified = append(identified, out)
		p.observer.SegmentProcessed(i, len(raw), out)
	}

	corrector := &Corrector{
		MinDurationMS: p.config.MinSpeakerDurationMS,
		Cascade:       p.config.CascadeCorrection,
		OnRelabel:     p.observer.SegmentRelabeled,
	}
	merged := corrector.Correct(Merge(identified))

	return &Result{
		Segments: identified,
		Merged:   merged,
		Timeline: AssembleTimeline(merged, marks),
	}
}
