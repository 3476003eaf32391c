package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.MaxCharsPerSegment != 80 {
		t.Errorf("max chars: got %d, want 80", cfg.MaxCharsPerSegment)
	}
	if cfg.MaxDurationSeconds != 7.0 {
		t.Errorf("max duration: got %g, want 7", cfg.MaxDurationSeconds)
	}
	if cfg.MaxLinesPerBlock != 2 {
		t.Errorf("max lines: got %d, want 2", cfg.MaxLinesPerBlock)
	}
	if cfg.TranscribeProvider != "gemini" {
		t.Errorf("transcribe provider: got %q", cfg.TranscribeProvider)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `max_chars_per_segment: 42
max_duration_seconds: 5.5
transcribe_provider: openai
target_language: Spanish
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.MaxCharsPerSegment != 42 {
		t.Errorf("max chars: got %d, want 42", cfg.MaxCharsPerSegment)
	}
	if cfg.MaxDurationSeconds != 5.5 {
		t.Errorf("max duration: got %g, want 5.5", cfg.MaxDurationSeconds)
	}
	if cfg.TranscribeProvider != "openai" {
		t.Errorf("transcribe provider: got %q", cfg.TranscribeProvider)
	}
	if cfg.TargetLanguage != "Spanish" {
		t.Errorf("target language: got %q", cfg.TargetLanguage)
	}
	// untouched keys keep defaults
	if cfg.MaxLinesPerBlock != 2 {
		t.Errorf("max lines: got %d, want 2", cfg.MaxLinesPerBlock)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("max_chars: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"zero chars", func(c *Config) { c.MaxCharsPerSegment = 0 }, true},
		{"negative duration", func(c *Config) { c.MaxDurationSeconds = -1 }, true},
		{"zero lines", func(c *Config) { c.MaxLinesPerBlock = 0 }, true},
		{"unknown format", func(c *Config) { c.OutputFormat = "vtt" }, true},
		{"empty format", func(c *Config) { c.OutputFormat = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate: err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubtitleOptions(t *testing.T) {
	cfg := Default()
	cfg.MaxCharsPerSegment = 60
	cfg.MaxLinesPerBlock = 3

	opts := cfg.SubtitleOptions()
	if opts.MaxCharsPerLine != 60 || opts.MaxLines != 3 {
		t.Errorf("options: %+v", opts)
	}
	if opts.MaxCombinedChars() != 180 {
		t.Errorf("combined chars: got %d, want 180", opts.MaxCombinedChars())
	}
}
