package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arenaai.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Pipeline.SimilarityThreshold != 0.3 {
		t.Errorf("SimilarityThreshold = %g", cfg.Pipeline.SimilarityThreshold)
	}
	if cfg.Pipeline.MinSpeakerDurationMS != 3000 {
		t.Errorf("MinSpeakerDurationMS = %d", cfg.Pipeline.MinSpeakerDurationMS)
	}
	if cfg.Pipeline.CascadeCorrection {
		t.Error("CascadeCorrection should default to false")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Inference.TimeoutSeconds != 120 || cfg.Inference.MaxRetries != 3 {
		t.Errorf("inference = %+v", cfg.Inference)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
[logging]
level = "debug"
format = "json"

[pipeline]
similarity_threshold = 0.45
min_speaker_duration_ms = 2000
cascade_correction = true

[llm]
model = "deepseek-chat"
api_key = "sk-test"

[server]
addr = ":9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	if cfg.Pipeline.SimilarityThreshold != 0.45 || !cfg.Pipeline.CascadeCorrection {
		t.Errorf("pipeline = %+v", cfg.Pipeline)
	}
	if cfg.LLM.Model != "deepseek-chat" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}

	// Sections absent from the file keep their defaults.
	if cfg.Database.Path != "arenaai.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "threshold out of range",
			content: "[pipeline]\nsimilarity_threshold = 1.5\n",
		},
		{
			name:    "negative duration",
			content: "[pipeline]\nmin_speaker_duration_ms = -1\n",
		},
		{
			name:    "empty inference url",
			content: "[inference]\nbase_url = \"\"\n",
		},
		{
			name:    "empty database path",
			content: "[database]\npath = \"\"\n",
		},
		{
			name:    "malformed toml",
			content: "[pipeline\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfigFile(t, tt.content)); err == nil {
				t.Fatal("Load() error = nil, want failure")
			}
		})
	}
}
