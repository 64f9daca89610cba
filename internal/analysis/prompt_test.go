package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lsm1103/ArenaAI/internal/match"
	"github.com/lsm1103/ArenaAI/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.Nop()
}

func rosterFixture(t *testing.T) *match.Config {
	t.Helper()
	config, err := match.Parse([]byte(`{
		"name": "finals game 3",
		"board_type": "standard 12",
		"participants": [
			{"name": "carol", "role": "villager", "seat": "seat 10"},
			{"name": "alice", "role": "seer", "seat": "seat 2"},
			{"name": "bob", "role": "werewolf", "seat": "seat 1"},
			{"name": "streamer", "role": "observer", "seat": "none"}
		],
		"no_sheriff": ["carol"]
	}`))
	if err != nil {
		t.Fatalf("parse roster: %v", err)
	}
	return config
}

func TestBuildPlayerInfo(t *testing.T) {
	info := BuildPlayerInfo(rosterFixture(t))
	lines := strings.Split(info, "\n")

	// Numeric seat order, unseated players dropped, judge appended last.
	want := []string{"seat 1 bob", "seat 2 alice", "seat 10 carol", "judge judge"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestBuildPromptData(t *testing.T) {
	board := BoardConfig{
		Roles:     "4 werewolves, 4 villagers, 4 gods",
		ActionSeq: "wolves, seer, witch",
		Rules:     "standard elimination",
	}

	data := BuildPromptData(rosterFixture(t), board)
	if data.MatchName != "finals game 3" || data.BoardType != "standard 12" {
		t.Errorf("metadata = %q/%q", data.MatchName, data.BoardType)
	}
	if data.Roles != board.Roles || data.Rules != board.Rules {
		t.Errorf("board fields not carried over: %+v", data)
	}
	if data.NoSheriff != "carol" {
		t.Errorf("NoSheriff = %q", data.NoSheriff)
	}
	if strings.Contains(data.PlayerInfo, "seer") {
		t.Error("player info leaks roles")
	}
}

func TestBuildPromptDataEmptyNoSheriff(t *testing.T) {
	config := rosterFixture(t)
	config.NoSheriff = nil

	data := BuildPromptData(config, BoardConfig{})
	if data.NoSheriff != "none" {
		t.Errorf("NoSheriff = %q, want %q", data.NoSheriff, "none")
	}
}

func TestRenderAnalysisUserTemplate(t *testing.T) {
	data := BuildPromptData(rosterFixture(t), BoardConfig{Roles: "standard"})
	data.Transcript = "[00:00-00:10] seat 1: I am the seer"
	data.Previous = "none yet, this is the first speech"

	out, err := renderTemplate(analysisUserTmpl, data)
	if err != nil {
		t.Fatalf("renderTemplate() error = %v", err)
	}
	for _, want := range []string{"finals game 3", "seat 1 bob", "I am the seer", "none yet"} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestLoadBoardConfigs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.json")
	content := `{
		"standard 12": {
			"roles": "4 wolves, 4 villagers, seer, witch, hunter, idiot",
			"action_seq": "wolves, witch, seer",
			"rules": "gods and wolves win condition"
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	boards, err := LoadBoardConfigs(path)
	if err != nil {
		t.Fatalf("LoadBoardConfigs() error = %v", err)
	}
	board, ok := boards["standard 12"]
	if !ok {
		t.Fatal("board type missing")
	}
	if !strings.Contains(board.Roles, "seer") {
		t.Errorf("Roles = %q", board.Roles)
	}

	if _, err := LoadBoardConfigs(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("missing file should error")
	}
}

func TestCacheKeyStability(t *testing.T) {
	a := Key("gpt-4o", "system", "user")
	b := Key("gpt-4o", "system", "user")
	if a != b {
		t.Error("identical inputs produced different keys")
	}

	if Key("gpt-4o", "system", "user") == Key("other-model", "system", "user") {
		t.Error("model change did not change the key")
	}
	if Key("gpt-4o", "systemuser") == Key("gpt-4o", "system", "user") {
		t.Error("part boundaries are not separated")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := NewCache(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	key := Key("gpt-4o", "prompt")
	if _, ok := cache.Get(key); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	cache.Put(key, "cached response")
	got, ok := cache.Get(key)
	if !ok || got != "cached response" {
		t.Errorf("Get() = %q, %v", got, ok)
	}
}

func TestNilCacheIsMissOnly(t *testing.T) {
	cache, err := NewCache("", testLogger())
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	if cache != nil {
		t.Fatal("empty dir should disable the cache")
	}

	cache.Put("key", "value")
	if _, ok := cache.Get("key"); ok {
		t.Error("nil cache returned a hit")
	}
}
