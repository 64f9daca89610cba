package analysis

import (
	"strings"
	"testing"
)

func TestSplitRounds(t *testing.T) {
	report := strings.Join([]string{
		"=== Speech 1 analysis - seat 1 ===",
		"Claims seer, checked seat 4.",
		"",
		"=== Speech 2 analysis - seat 2 ===",
		"Counter-claims, accuses seat 1.",
	}, "\n")

	rounds := SplitRounds(report)
	if len(rounds) != 2 {
		t.Fatalf("rounds = %d, want 2", len(rounds))
	}
	if rounds[0].Header != "=== Speech 1 analysis - seat 1 ===" {
		t.Errorf("rounds[0].Header = %q", rounds[0].Header)
	}
	if rounds[0].Content != "Claims seer, checked seat 4." {
		t.Errorf("rounds[0].Content = %q", rounds[0].Content)
	}
	if rounds[1].Content != "Counter-claims, accuses seat 1." {
		t.Errorf("rounds[1].Content = %q", rounds[1].Content)
	}
}

func TestSplitRoundsDropsPreamble(t *testing.T) {
	report := "stray preamble\n=== Speech 1 analysis - seat 1 ===\nbody"
	rounds := SplitRounds(report)
	if len(rounds) != 1 {
		t.Fatalf("rounds = %d, want 1", len(rounds))
	}
	if strings.Contains(rounds[0].Content, "preamble") {
		t.Errorf("preamble not dropped: %q", rounds[0].Content)
	}
}

func TestSplitRoundsNoBanners(t *testing.T) {
	rounds := SplitRounds("just one unbannered analysis")
	if len(rounds) != 1 {
		t.Fatalf("rounds = %d, want 1", len(rounds))
	}
	if rounds[0].Header != "" || rounds[0].Content != "just one unbannered analysis" {
		t.Errorf("rounds[0] = %+v", rounds[0])
	}

	if got := SplitRounds("   \n  "); got != nil {
		t.Errorf("blank report rounds = %+v, want nil", got)
	}
}

func TestExtractCommentary(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "tagged response",
			in:   "Sure, here it is:\n<commentary>\nSeat 1 comes out swinging!\n</commentary>\nHope that helps.",
			want: "Seat 1 comes out swinging!",
		},
		{
			name: "untagged response returned trimmed",
			in:   "  Seat 1 comes out swinging!  ",
			want: "Seat 1 comes out swinging!",
		},
		{
			name: "first tag pair wins",
			in:   "<commentary>one</commentary><commentary>two</commentary>",
			want: "one",
		},
		{
			name: "multiline body",
			in:   "<commentary>line one\nline two</commentary>",
			want: "line one\nline two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCommentary(tt.in); got != tt.want {
				t.Errorf("ExtractCommentary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatCommentary(t *testing.T) {
	rounds := []RoundCommentary{
		{Header: "=== Speech 1 analysis - seat 1 ===", Content: "Big opening!"},
		{Content: "Unbannered closer."},
	}

	got := FormatCommentary(rounds)
	want := "=== Speech 1 analysis - seat 1 ===\nBig opening!\n\nUnbannered closer."
	if got != want {
		t.Errorf("FormatCommentary() = %q, want %q", got, want)
	}
}
