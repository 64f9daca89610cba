package transcript

import (
	"reflect"
	"testing"
)

func ident(speaker string, start, end int64, text string) IdentifiedSegment {
	return IdentifiedSegment{
		StartMS:        start,
		EndMS:          end,
		DurationMS:     end - start,
		Speaker:        speaker,
		DisplaySpeaker: speaker,
		Text:           text,
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		in   []IdentifiedSegment
		want []MergedSegment
	}{
		{
			name: "empty input",
			in:   nil,
			want: nil,
		},
		{
			name: "single segment",
			in:   []IdentifiedSegment{ident("a", 0, 1000, "hi")},
			want: []MergedSegment{{Speaker: "a", DisplaySpeaker: "a", StartMS: 0, EndMS: 1000, DurationMS: 1000, Text: "hi"}},
		},
		{
			name: "consecutive same speaker collapse",
			in: []IdentifiedSegment{
				ident("a", 0, 1000, "one "),
				ident("a", 1000, 2500, "two "),
				ident("a", 2500, 3000, "three"),
			},
			want: []MergedSegment{
				{Speaker: "a", DisplaySpeaker: "a", StartMS: 0, EndMS: 3000, DurationMS: 3000, Text: "one two three"},
			},
		},
		{
			name: "alternating speakers stay separate",
			in: []IdentifiedSegment{
				ident("a", 0, 1000, "x"),
				ident("b", 1000, 2000, "y"),
				ident("a", 2000, 3000, "z"),
			},
			want: []MergedSegment{
				{Speaker: "a", DisplaySpeaker: "a", StartMS: 0, EndMS: 1000, DurationMS: 1000, Text: "x"},
				{Speaker: "b", DisplaySpeaker: "b", StartMS: 1000, EndMS: 2000, DurationMS: 1000, Text: "y"},
				{Speaker: "a", DisplaySpeaker: "a", StartMS: 2000, EndMS: 3000, DurationMS: 1000, Text: "z"},
			},
		},
		{
			name: "runs at both ends",
			in: []IdentifiedSegment{
				ident("a", 0, 500, "1"),
				ident("a", 500, 900, "2"),
				ident("b", 900, 1200, "3"),
				ident("c", 1200, 1400, "4"),
				ident("c", 1400, 1800, "5"),
			},
			want: []MergedSegment{
				{Speaker: "a", DisplaySpeaker: "a", StartMS: 0, EndMS: 900, DurationMS: 900, Text: "12"},
				{Speaker: "b", DisplaySpeaker: "b", StartMS: 900, EndMS: 1200, DurationMS: 300, Text: "3"},
				{Speaker: "c", DisplaySpeaker: "c", StartMS: 1200, EndMS: 1800, DurationMS: 600, Text: "45"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMergeAdjacencyInvariant(t *testing.T) {
	in := []IdentifiedSegment{
		ident("a", 0, 100, ""),
		ident("a", 100, 200, ""),
		ident("b", 200, 300, ""),
		ident("b", 300, 400, ""),
		ident("a", 400, 500, ""),
	}

	got := Merge(in)
	for i := 1; i < len(got); i++ {
		if got[i].Speaker == got[i-1].Speaker {
			t.Fatalf("adjacent segments %d and %d share speaker %q", i-1, i, got[i].Speaker)
		}
	}
}

func TestCoalesceIdempotent(t *testing.T) {
	in := []MergedSegment{
		{Speaker: "a", StartMS: 0, EndMS: 100, DurationMS: 100, Text: "1"},
		{Speaker: "a", StartMS: 100, EndMS: 200, DurationMS: 100, Text: "2"},
		{Speaker: "b", StartMS: 200, EndMS: 300, DurationMS: 100, Text: "3"},
	}

	once := Coalesce(in)
	twice := Coalesce(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Coalesce is not idempotent: %+v vs %+v", once, twice)
	}
}

func TestCoalesceKeepsFirstDisplaySpeaker(t *testing.T) {
	in := []MergedSegment{
		{Speaker: "a", DisplaySpeaker: "seat 1", StartMS: 0, EndMS: 100, DurationMS: 100},
		{Speaker: "a", DisplaySpeaker: "a", StartMS: 100, EndMS: 200, DurationMS: 100},
	}

	got := Coalesce(in)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].DisplaySpeaker != "seat 1" {
		t.Errorf("DisplaySpeaker = %q, want first member's %q", got[0].DisplaySpeaker, "seat 1")
	}
}
