package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/lsm1103/ArenaAI/internal/voiceprint"
)

type fakeSegmenter struct {
	spans []Span
	err   error
}

func (f *fakeSegmenter) Segment(ctx context.Context, audioPath string) ([]Span, error) {
	if f.err != nil {
		return nil, f.err
	}
	spans := make([]Span, len(f.spans))
	copy(spans, f.spans)
	for i := range spans {
		spans[i].AudioPath = audioPath
	}
	return spans, nil
}

type fakeEmbedder struct {
	embeddings map[int64][]float64
	err        error
}

func (f *fakeEmbedder) Embed(ctx context.Context, span Span) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	emb, ok := f.embeddings[span.StartMS]
	if !ok {
		return nil, errors.New("no embedding")
	}
	return emb, nil
}

type fakeTranscriber struct {
	texts map[int64]string
	err   error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, span Span) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.texts[span.StartMS], nil
}

func pipelineFixture(seg *fakeSegmenter, emb *fakeEmbedder, tr *fakeTranscriber, cfg Config) *Pipeline {
	library := voiceprint.New([]voiceprint.Entry{
		{Name: "alice", Embedding: []float64{1, 0}},
		{Name: "bob", Embedding: []float64{0, 1}},
	})
	identifier := NewIdentifier(library, 0.3, nil, "judge")
	return NewPipeline(seg, emb, tr, identifier, cfg, nil)
}

func TestPipelineRun(t *testing.T) {
	seg := &fakeSegmenter{spans: []Span{
		{StartMS: 0, EndMS: 4000},
		{StartMS: 4000, EndMS: 8000},
		{StartMS: 8000, EndMS: 12000},
	}}
	emb := &fakeEmbedder{embeddings: map[int64][]float64{
		0:    {1, 0},
		4000: {1, 0},
		8000: {0, 1},
	}}
	tr := &fakeTranscriber{texts: map[int64]string{
		0:    "hello ",
		4000: "again ",
		8000: "reply",
	}}

	p := pipelineFixture(seg, emb, tr, Config{MinSpeakerDurationMS: 3000})
	result, err := p.Run(context.Background(), "match.wav", []TimeMark{{StartMS: 6000, Label: "vote"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Segments) != 3 {
		t.Fatalf("segments = %d, want 3", len(result.Segments))
	}
	if len(result.Merged) != 2 {
		t.Fatalf("merged = %d, want 2", len(result.Merged))
	}
	if result.Merged[0].Speaker != "alice" || result.Merged[0].Text != "hello again " {
		t.Errorf("merged[0] = %+v", result.Merged[0])
	}
	if result.Merged[1].Speaker != "bob" {
		t.Errorf("merged[1] = %+v", result.Merged[1])
	}
	if len(result.Timeline) != 3 {
		t.Errorf("timeline = %d items, want 3", len(result.Timeline))
	}
}

func TestPipelineSegmenterFailureIsFatal(t *testing.T) {
	seg := &fakeSegmenter{err: errors.New("model server down")}
	p := pipelineFixture(seg, &fakeEmbedder{}, &fakeTranscriber{}, Config{})

	if _, err := p.Run(context.Background(), "match.wav", nil); err == nil {
		t.Fatal("Run() error = nil, want segmenter failure")
	}
}

func TestPipelineEmbedFailureDegradesToUnknown(t *testing.T) {
	seg := &fakeSegmenter{spans: []Span{{StartMS: 0, EndMS: 4000}}}
	emb := &fakeEmbedder{err: errors.New("embedding failed")}
	tr := &fakeTranscriber{texts: map[int64]string{0: "still transcribed"}}

	p := pipelineFixture(seg, emb, tr, Config{})
	result, err := p.Run(context.Background(), "match.wav", nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Segments[0].Speaker != SpeakerUnknown {
		t.Errorf("Speaker = %q, want %q", result.Segments[0].Speaker, SpeakerUnknown)
	}
	if result.Segments[0].Text != "still transcribed" {
		t.Errorf("Text = %q, transcription should survive embed failure", result.Segments[0].Text)
	}
}

func TestPipelineTranscribeFailureKeepsSegment(t *testing.T) {
	seg := &fakeSegmenter{spans: []Span{{StartMS: 0, EndMS: 4000}}}
	emb := &fakeEmbedder{embeddings: map[int64][]float64{0: {1, 0}}}
	tr := &fakeTranscriber{err: errors.New("recognition failed")}

	p := pipelineFixture(seg, emb, tr, Config{})
	result, err := p.Run(context.Background(), "match.wav", nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Segments[0].Speaker != "alice" {
		t.Errorf("Speaker = %q, attribution should survive transcription failure", result.Segments[0].Speaker)
	}
	if result.Segments[0].Text != "" {
		t.Errorf("Text = %q, want empty", result.Segments[0].Text)
	}
}

type recordingObserver struct {
	processed int
	relabels  int
}

func (o *recordingObserver) SegmentProcessed(index, total int, seg IdentifiedSegment) { o.processed++ }
func (o *recordingObserver) SegmentRelabeled(seg MergedSegment, from, to string)     { o.relabels++ }

func TestPipelineNotifiesObserver(t *testing.T) {
	raw := []RawSegment{
		{StartMS: 0, EndMS: 5000, Embedding: []float64{1, 0}},
		{StartMS: 5000, EndMS: 5500, Embedding: []float64{0, 1}},
		{StartMS: 5500, EndMS: 11000, Embedding: []float64{1, 0}},
	}

	library := voiceprint.New([]voiceprint.Entry{
		{Name: "alice", Embedding: []float64{1, 0}},
		{Name: "bob", Embedding: []float64{0, 1}},
	})
	obs := &recordingObserver{}
	p := NewPipeline(nil, nil, nil, NewIdentifier(library, 0.3, nil, "judge"),
		Config{MinSpeakerDurationMS: 3000}, obs)

	result := p.Consolidate(raw, nil)
	if obs.processed != 3 {
		t.Errorf("processed = %d, want 3", obs.processed)
	}
	if obs.relabels != 1 {
		t.Errorf("relabels = %d, want 1", obs.relabels)
	}
	if len(result.Merged) != 1 || result.Merged[0].Speaker != "alice" {
		t.Errorf("merged = %+v, want single alice run", result.Merged)
	}
}
