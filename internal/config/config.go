package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syncsub/syncsub/internal/subtitle"
)

// application settings loaded from YAML, all optional with defaults
type Config struct {
	// segmentation rules applied uniformly to every segment
	MaxCharsPerSegment int     `yaml:"max_chars_per_segment"`
	MaxDurationSeconds float64 `yaml:"max_duration_seconds"`
	MaxLinesPerBlock   int     `yaml:"max_lines_per_block"`

	OutputFormat string `yaml:"output_format"`
	TempDir      string `yaml:"temp_dir"`

	TranscribeProvider string `yaml:"transcribe_provider"`
	TranscribeModel    string `yaml:"transcribe_model"`
	TranslateProvider  string `yaml:"translate_provider"`
	TranslateModel     string `yaml:"translate_model"`
	TargetLanguage     string `yaml:"target_language"`

	ChunkDurationMinutes int `yaml:"chunk_duration_minutes"`
	Concurrency          int `yaml:"concurrency"`
}

func Default() Config {
	return Config{
		MaxCharsPerSegment:   80,
		MaxDurationSeconds:   7.0,
		MaxLinesPerBlock:     2,
		OutputFormat:         "srt",
		TempDir:              "",
		TranscribeProvider:   "gemini",
		TranslateProvider:    "gemini",
		ChunkDurationMinutes: 1,
		Concurrency:          3,
	}
}

// Load reads a YAML config file and merges it over the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxCharsPerSegment <= 0 {
		return fmt.Errorf(
			"max_chars_per_segment must be positive, got %d",
			c.MaxCharsPerSegment,
		)
	}
	if c.MaxDurationSeconds <= 0 {
		return fmt.Errorf(
			"max_duration_seconds must be positive, got %g",
			c.MaxDurationSeconds,
		)
	}
	if c.MaxLinesPerBlock <= 0 {
		return fmt.Errorf(
			"max_lines_per_block must be positive, got %d",
			c.MaxLinesPerBlock,
		)
	}
	if c.OutputFormat != "" && c.OutputFormat != string(subtitle.FormatSRT) {
		return fmt.Errorf("unsupported output format %q", c.OutputFormat)
	}
	return nil
}

// SubtitleOptions maps the segmentation rules onto the core's options.
func (c Config) SubtitleOptions() subtitle.Options {
	return subtitle.Options{
		MaxCharsPerLine: c.MaxCharsPerSegment,
		MaxDuration:     c.MaxDurationSeconds,
		MaxLines:        c.MaxLinesPerBlock,
	}
}
