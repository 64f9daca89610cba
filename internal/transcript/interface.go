package transcript

import "context"

// Segmenter detects speech-activity spans in a source audio file. It is an
// external collaborator (a VAD model service); the core only consumes its
// output spans.
type Segmenter interface {
	Segment(ctx context.Context, audioPath string) ([]Span, error)
}

// Embedder extracts a speaker embedding for one speech span.
type Embedder interface {
	Embed(ctx context.Context, span Span) ([]float64, error)
}

// Transcriber recognizes the spoken text of one speech span.
type Transcriber interface {
	Transcribe(ctx context.Context, span Span) (string, error)
}

// Observer receives progress notifications from a pipeline run. The core
// performs no I/O of its own; logging and progress display live behind this
// interface.
type Observer interface {
	SegmentProcessed(index, total int, seg IdentifiedSegment)
	SegmentRelabeled(seg MergedSegment, from, to string)
}

// NopObserver discards all notifications.
type NopObserver struct{}

func (NopObserver) SegmentProcessed(int, int, IdentifiedSegment) {}
func (NopObserver) SegmentRelabeled(MergedSegment, string, string) {}

var _ Observer = NopObserver{}
