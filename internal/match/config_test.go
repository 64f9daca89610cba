package match

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	data := []byte(`{
		"name": "finals game 3",
		"board_type": "standard 12",
		"participants": [
			{"name": "alice", "role": "seer", "seat": "seat 1"},
			{"name": "bob", "role": "werewolf", "seat": "seat 2"},
			{"name": "streamer", "role": "", "seat": "none"},
			{"name": "", "role": "ghost", "seat": "seat 9"}
		],
		"no_sheriff": ["bob"],
		"time_marks": [
			{"time": "10:00", "label": "first day"},
			{"time": "02:30", "label": "first night"},
			{"time": "", "label": "dropped"},
			{"time": "03:00", "label": ""}
		]
	}`)

	config, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if config.Name != "finals game 3" || config.BoardType != "standard 12" {
		t.Errorf("metadata = %q/%q", config.Name, config.BoardType)
	}

	// Empty-named participant dropped, judge appended.
	wantNames := []string{"alice", "bob", "judge", "streamer"}
	if got := config.CandidateNames(); !reflect.DeepEqual(got, wantNames) {
		t.Errorf("CandidateNames() = %v, want %v", got, wantNames)
	}

	if role := config.Roles()["streamer"]; role != "unknown role" {
		t.Errorf("blank role = %q, want default", role)
	}

	// Invalid marks dropped, remainder sorted by start time.
	if len(config.TimeMarks) != 2 {
		t.Fatalf("marks = %d, want 2", len(config.TimeMarks))
	}
	if config.TimeMarks[0].Label != "first night" || config.TimeMarks[0].StartMS != 150000 {
		t.Errorf("marks[0] = %+v", config.TimeMarks[0])
	}
	if config.TimeMarks[1].Label != "first day" || config.TimeMarks[1].StartMS != 600000 {
		t.Errorf("marks[1] = %+v", config.TimeMarks[1])
	}
}

func TestParseKeepsExplicitJudge(t *testing.T) {
	config, err := Parse([]byte(`{
		"participants": [{"name": "judge", "role": "moderator", "seat": "none"}]
	}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(config.Participants) != 1 {
		t.Fatalf("participants = %d, want 1", len(config.Participants))
	}
	if config.Participants[0].Role != "moderator" {
		t.Errorf("judge role = %q, explicit entry should be kept", config.Participants[0].Role)
	}
}

func TestParseDefaults(t *testing.T) {
	config, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if config.Name != "unnamed match" {
		t.Errorf("Name = %q", config.Name)
	}
	if config.BoardType != "unknown board" {
		t.Errorf("BoardType = %q", config.BoardType)
	}
	if !config.hasParticipant(Judge) {
		t.Error("judge not appended to empty roster")
	}
}

func TestParseInvalidJSON(t *testing.T) {
	if _, err := Parse([]byte(`{not json`)); err == nil {
		t.Fatal("Parse() error = nil, want parse failure")
	}
}

func TestSeatToName(t *testing.T) {
	config, err := Parse([]byte(`{
		"participants": [
			{"name": "alice", "role": "seer", "seat": "seat 1"},
			{"name": "carol", "role": "villager", "seat": ""},
			{"name": "dave", "role": "villager", "seat": "none"}
		]
	}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := map[string]string{"seat 1": "alice"}
	if got := config.SeatToName(); !reflect.DeepEqual(got, want) {
		t.Errorf("SeatToName() = %v, want %v", got, want)
	}
}

func TestParseTimeToMS(t *testing.T) {
	tests := []struct {
		value  string
		fps    float64
		want   int64
		wantOK bool
	}{
		{"02:30", 30, 150000, true},
		{"00:00", 30, 0, true},
		{"61:05", 30, 3665000, true},
		{"1:02:03", 30, 3723000, true},
		{" 05:00 ", 30, 300000, true},
		{"900", 30, 30000, true},
		{"450", 60, 7500, true},
		{"90.5", 30, 3016, true},
		{"", 30, 0, false},
		{"abc", 30, 0, false},
		{"1:2:3:4", 30, 0, false},
		{"-5", 30, 0, false},
		{"-1:30", 30, 0, false},
		{"100", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := ParseTimeToMS(tt.value, tt.fps)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseTimeToMS(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}
