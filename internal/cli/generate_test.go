package cli

import "testing"

func TestIsValidOpenAITranscriptLanguage(t *testing.T) {
	tests := []struct {
		lang string
		want bool
	}{
		// Valid cases
		{"", true},
		{"native", true},
		{"Native", true},
		{"NATIVE", true},
		{" native ", true},
		{"english", true},
		{"English", true},
		{"ENGLISH", true},
		{" english ", true},
		{"en", true},
		{"EN", true},
		{" en ", true},

		// Invalid cases - non-English languages
		{"spanish", false},
		{"Spanish", false},
		{"french", false},
		{"german", false},
		{"japanese", false},
		{"chinese", false},
		{"korean", false},
		{"es", false},
		{"fr", false},
		{"de", false},
		{"ja", false},
		{"zh", false},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			got := isValidOpenAITranscriptLanguage(tt.lang)
			if got != tt.want {
				t.Errorf(
					"isValidOpenAITranscriptLanguage(%q) = %v, want %v",
					tt.lang,
					got,
					tt.want,
				)
			}
		})
	}
}

func TestModelValidation(t *testing.T) {
	if !isValidGeminiModel("gemini-2.5-flash") {
		t.Error("expected gemini-2.5-flash to be valid")
	}
	if isValidGeminiModel("gemini-1.0") {
		t.Error("expected gemini-1.0 to be invalid")
	}
	if !isValidOpenAIModel("gpt-5-mini") {
		t.Error("expected gpt-5-mini to be valid")
	}
	if isValidOpenAIModel("gpt-3.5-turbo") {
		t.Error("expected gpt-3.5-turbo to be invalid")
	}
	if !isValidAnthropicModel("claude-haiku-4-5") {
		t.Error("expected claude-haiku-4-5 to be valid")
	}
	if isValidAnthropicModel("claude-2") {
		t.Error("expected claude-2 to be invalid")
	}
}

func TestTranslatedOutputPath(t *testing.T) {
	tests := []struct {
		output string
		lang   string
		want   string
	}{
		{"video.srt", "Spanish", "video.spanish.srt"},
		{"dir/movie.srt", "ja", "dir/movie.ja.srt"},
		{"a.srt", "Brazilian Portuguese", "a.brazilian_portuguese.srt"},
	}

	for _, tt := range tests {
		if got := translatedOutputPath(tt.output, tt.lang); got != tt.want {
			t.Errorf(
				"translatedOutputPath(%q, %q) = %q, want %q",
				tt.output,
				tt.lang,
				got,
				tt.want,
			)
		}
	}
}
