package cli

import "strings"

var validGeminiModels = map[string]bool{
	"gemini-3-pro-preview":   true,
	"gemini-3-flash-preview": true,
	"gemini-2.5-pro":         true,
	"gemini-2.5-flash":       true,
	"gemini-2.5-flash-lite":  true,
}

var validOpenAIModels = map[string]bool{
	"o1":          true,
	"o3-mini":     true,
	"o1-pro":      true,
	"o3":          true,
	"gpt-5":       true,
	"gpt-5-nano":  true,
	"gpt-5-mini":  true,
	"gpt-5-pro":   true,
	"gpt-5.1":     true,
	"gpt-5.2":     true,
	"gpt-5.2-pro": true,
}

var validAnthropicModels = map[string]bool{
	"claude-haiku-4-5":  true,
	"claude-sonnet-4-5": true,
	"claude-opus-4-5":   true,
}

func isValidGeminiModel(model string) bool {
	return validGeminiModels[strings.TrimSpace(model)]
}

func isValidOpenAIModel(model string) bool {
	return validOpenAIModels[strings.TrimSpace(model)]
}

func isValidAnthropicModel(model string) bool {
	return validAnthropicModels[strings.TrimSpace(model)]
}

// OpenAI Whisper can only transcribe in the source language or translate
// to English.
func isValidOpenAITranscriptLanguage(lang string) bool {
	normalized := strings.ToLower(strings.TrimSpace(lang))
	switch normalized {
	case "", "native", "english", "en":
		return true
	}
	return false
}
