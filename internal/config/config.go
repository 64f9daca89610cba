package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Database contains the SQLite database location.
type Database struct {
	Path string `toml:"path"`
}

// Inference contains the speech inference server connection settings.
type Inference struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
}

// Pipeline contains the speaker attribution thresholds.
type Pipeline struct {
	SimilarityThreshold  float64 `toml:"similarity_threshold"`
	MinSpeakerDurationMS int64   `toml:"min_speaker_duration_ms"`
	CascadeCorrection    bool    `toml:"cascade_correction"`
	VoiceprintPath       string  `toml:"voiceprint_path"`
	OutputDir            string  `toml:"output_dir"`
}

// LLM contains the chat completion settings for analysis and commentary.
type LLM struct {
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int64   `toml:"max_tokens"`
	CacheDir    string  `toml:"cache_dir"`
}

// Analysis contains the match analysis inputs.
type Analysis struct {
	BoardConfigPath string `toml:"board_config_path"`
	SectionLabel    string `toml:"section_label"`
}

// Server contains the HTTP API settings.
type Server struct {
	Addr string `toml:"addr"`
}

// Config encapsulates all configuration values.
type Config struct {
	Logging   Logging   `toml:"logging"`
	Database  Database  `toml:"database"`
	Inference Inference `toml:"inference"`
	Pipeline  Pipeline  `toml:"pipeline"`
	LLM       LLM       `toml:"llm"`
	Analysis  Analysis  `toml:"analysis"`
	Server    Server    `toml:"server"`
}

// Default returns the configuration used when a field is absent from the file.
func Default() *Config {
	return &Config{
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		Database: Database{
			Path: "arenaai.db",
		},
		Inference: Inference{
			BaseURL:        "http://localhost:8300",
			TimeoutSeconds: 120,
			MaxRetries:     3,
		},
		Pipeline: Pipeline{
			SimilarityThreshold:  0.3,
			MinSpeakerDurationMS: 3000,
			VoiceprintPath:       "voiceprints.json",
			OutputDir:            "output",
		},
		LLM: LLM{
			Model:       "gpt-4o",
			Temperature: 0.7,
			MaxTokens:   4096,
			CacheDir:    ".analysis-cache",
		},
		Analysis: Analysis{
			BoardConfigPath: "boards.json",
			SectionLabel:    "first round",
		},
		Server: Server{
			Addr: ":8080",
		},
	}
}

// Load parses the TOML file at path on top of the defaults. A missing file
// is not an error: the defaults are returned unchanged so every command can
// run without a config file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges. API keys are not required here: only the
// commands that talk to the LLM enforce them.
func (c *Config) Validate() error {
	if c.Pipeline.SimilarityThreshold < -1 || c.Pipeline.SimilarityThreshold > 1 {
		return fmt.Errorf("pipeline.similarity_threshold must be within [-1, 1], got %g", c.Pipeline.SimilarityThreshold)
	}
	if c.Pipeline.MinSpeakerDurationMS < 0 {
		return fmt.Errorf("pipeline.min_speaker_duration_ms must not be negative, got %d", c.Pipeline.MinSpeakerDurationMS)
	}
	if c.Inference.BaseURL == "" {
		return fmt.Errorf("inference.base_url is required")
	}
	if c.Inference.TimeoutSeconds < 0 || c.Inference.MaxRetries < 0 {
		return fmt.Errorf("inference timeouts and retries must not be negative")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}
