package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/syncsub/syncsub/internal/audio"
	"github.com/syncsub/syncsub/internal/subtitle"
	"github.com/syncsub/syncsub/internal/transcribe"
	"github.com/syncsub/syncsub/internal/translate"
	"github.com/syncsub/syncsub/internal/video"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media_file]",
	Short: "Generate SRT subtitles for an audio or video file",
	Long: `Generate subtitles for the specified audio or video file using AI transcription.

The command accepts both audio files (mp3, wav, aac, etc.) and video files (mp4, mkv, etc.).
For video files, audio is automatically extracted before transcription.

The audio is split into chunks (default 1 minute) and transcribed in parallel.
The transcript is then segmented on duration and length limits and written
as an SRT file next to the input.

With --target-language, a second SRT translated to that language is written
alongside the original.

Examples:
  syncsub generate video.mp4
  syncsub generate audio.mp3 --provider openai
  syncsub generate video.mp4 --api-key YOUR_KEY --chunk-duration 2
  syncsub generate podcast.mp3 --target-language Spanish --concurrency 5`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		String("provider", "", "Transcription provider (gemini, openai)")
	generateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY env var)")
	generateCmd.Flags().
		IntP("chunk-duration", "d", 0, "Chunk duration in minutes for splitting audio")
	generateCmd.Flags().
		Int("concurrency", 0, "Number of parallel transcription workers")
	generateCmd.Flags().
		String("model", "", "Model to use for transcription (provider-specific default)")
	generateCmd.Flags().
		String("transcript-language", "native", "Output language for transcript (e.g., 'english', 'spanish', or 'native' for original language)")
	generateCmd.Flags().
		StringP("target-language", "t", "", "Also produce a translated SRT in this language")
	generateCmd.Flags().
		Int("max-chars", 0, "Maximum characters per subtitle line")
	generateCmd.Flags().
		Float64("max-duration", 0, "Maximum subtitle duration in seconds")
	generateCmd.Flags().
		Int("max-lines", 0, "Maximum lines per subtitle block")
}

// per-run settings resolved from config and flags
type generateOptions struct {
	Provider           transcribe.Provider
	APIKey             string
	ChunkDuration      time.Duration
	Concurrency        int
	Model              string
	Language           string
	TranscriptLanguage string
	TargetLanguage     string
	OutputPath         string
	Subtitle           subtitle.Options
	TempDir            string
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]

	opts, err := resolveGenerateOptions(cmd)
	if err != nil {
		return err
	}

	outputPath, err := generateSubtitles(context.Background(), mediaPath, opts)
	if err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles generated successfully: %s\n", absOutput)
	return nil
}

func resolveGenerateOptions(cmd *cobra.Command) (generateOptions, error) {
	opts := generateOptions{
		Provider:      transcribe.Provider(cfg.TranscribeProvider),
		Model:         cfg.TranscribeModel,
		ChunkDuration: time.Duration(cfg.ChunkDurationMinutes) * time.Minute,
		Concurrency:   cfg.Concurrency,
		Subtitle:      cfg.SubtitleOptions(),
		TempDir:       cfg.TempDir,
	}

	if s, _ := cmd.Flags().GetString("provider"); s != "" {
		opts.Provider = transcribe.Provider(s)
	}
	if opts.Provider != transcribe.ProviderGemini &&
		opts.Provider != transcribe.ProviderOpenAI {
		return opts, fmt.Errorf(
			"unsupported provider %q: use gemini or openai",
			opts.Provider,
		)
	}

	if s, _ := cmd.Flags().GetString("model"); s != "" {
		opts.Model = s
	}
	if n, _ := cmd.Flags().GetInt("chunk-duration"); n > 0 {
		opts.ChunkDuration = time.Duration(n) * time.Minute
	}
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		opts.Concurrency = n
	}
	if n, _ := cmd.Flags().GetInt("max-chars"); n > 0 {
		opts.Subtitle.MaxCharsPerLine = n
	}
	if f, _ := cmd.Flags().GetFloat64("max-duration"); f > 0 {
		opts.Subtitle.MaxDuration = f
	}
	if n, _ := cmd.Flags().GetInt("max-lines"); n > 0 {
		opts.Subtitle.MaxLines = n
	}

	opts.Language, _ = cmd.Flags().GetString("language")
	opts.TranscriptLanguage, _ = cmd.Flags().GetString("transcript-language")
	opts.OutputPath, _ = cmd.Flags().GetString("output")

	opts.TargetLanguage, _ = cmd.Flags().GetString("target-language")
	if opts.TargetLanguage == "" {
		opts.TargetLanguage = cfg.TargetLanguage
	}

	if opts.Provider == transcribe.ProviderOpenAI &&
		!isValidOpenAITranscriptLanguage(opts.TranscriptLanguage) {
		return opts, fmt.Errorf(
			"OpenAI transcription only supports 'native' or 'english' transcript language, got %q",
			opts.TranscriptLanguage,
		)
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		switch opts.Provider {
		case transcribe.ProviderGemini:
			apiKey = os.Getenv("GEMINI_API_KEY")
		case transcribe.ProviderOpenAI:
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if apiKey == "" {
		return opts, fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			providerKeyEnv(opts.Provider),
		)
	}
	opts.APIKey = apiKey

	return opts, nil
}

func providerKeyEnv(provider transcribe.Provider) string {
	switch provider {
	case transcribe.ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// generateSubtitles runs the full pipeline for one media file: audio
// preparation, chunked transcription, segmentation, SRT output, and the
// optional translated copy. Returns the primary output path.
func generateSubtitles(
	ctx context.Context,
	mediaPath string,
	opts generateOptions,
) (string, error) {
	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return "", fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return "", fmt.Errorf(
			"unsupported file type: %s (expected audio or video file)",
			filepath.Ext(mediaPath),
		)
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + ".srt"
	}

	logger.Infow("Starting subtitle generation",
		"input", mediaPath,
		"output", outputPath,
		"provider", string(opts.Provider),
		"chunk_duration", opts.ChunkDuration.String(),
		"concurrency", opts.Concurrency,
	)

	tempDir, err := os.MkdirTemp(opts.TempDir, "syncsub-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	audioPath := filepath.Join(tempDir, uuid.NewString()+".mp3")
	compressionOpts := audio.DefaultCompressionOptions()

	if audio.IsVideoFile(mediaPath) {
		logger.Infow("Extracting audio from video")

		processor := video.NewProcessor(tempDir)
		extractOpts := video.ExtractAudioOptions{
			Format:     compressionOpts.Format,
			SampleRate: compressionOpts.SampleRate,
			Channels:   compressionOpts.Channels,
			Bitrate:    compressionOpts.Bitrate,
		}
		if err := processor.ExtractAudio(ctx, mediaPath, audioPath, extractOpts); err != nil {
			return "", fmt.Errorf("failed to extract audio: %w", err)
		}
	} else {
		logger.Infow("Compressing audio for transcription")

		if err := audio.CompressAudio(ctx, mediaPath, audioPath, compressionOpts); err != nil {
			return "", fmt.Errorf("failed to compress audio: %w", err)
		}
	}

	duration, err := audio.GetDuration(ctx, audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to get audio duration: %w", err)
	}

	logger.Infow("Audio prepared",
		"duration", duration.String(),
	)

	chunkDir := filepath.Join(tempDir, "chunks")
	chunks, err := audio.ChunkAudio(ctx, audioPath, opts.ChunkDuration, chunkDir)
	if err != nil {
		return "", fmt.Errorf("failed to split audio: %w", err)
	}

	logger.Infow("Created audio chunks",
		"count", len(chunks),
	)

	transcriber, err := transcribe.Factory(ctx, opts.Provider, opts.APIKey,
		transcribe.Options{
			Language:           opts.Language,
			TranscriptLanguage: opts.TranscriptLanguage,
			Model:              opts.Model,
		})
	if err != nil {
		return "", fmt.Errorf("failed to create transcriber: %w", err)
	}

	logger.Infow("Transcribing audio",
		"concurrency", opts.Concurrency,
	)

	var result *transcribe.Result
	if ct, ok := transcriber.(transcribe.ConcurrentTranscriber); ok {
		result, err = ct.TranscribeWithChunks(ctx, chunks, opts.Concurrency)
	} else {
		result, err = transcriber.Transcribe(ctx, audioPath)
	}
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	logger.Infow("Transcription complete",
		"segments", len(result.Segments),
	)

	cues := subtitle.NewGenerator(opts.Subtitle).Generate(result.TranscriptSet())
	if len(cues) == 0 {
		return "", fmt.Errorf("transcription produced no usable segments")
	}

	writer, err := subtitle.NewWriter(subtitle.Format(cfg.OutputFormat), logger)
	if err != nil {
		return "", err
	}
	if err := writer.WriteFile(outputPath, cues); err != nil {
		return "", fmt.Errorf("failed to write subtitles: %w", err)
	}

	logger.Infow("Wrote subtitles",
		"path", outputPath,
		"cues", len(cues),
	)

	if opts.TargetLanguage != "" {
		translatedPath := translatedOutputPath(outputPath, opts.TargetLanguage)
		if err := translateCues(ctx, cues, translatedPath, opts); err != nil {
			return "", err
		}
	}

	return outputPath, nil
}

func translatedOutputPath(outputPath, targetLang string) string {
	ext := filepath.Ext(outputPath)
	base := strings.TrimSuffix(outputPath, ext)
	lang := strings.ToLower(strings.ReplaceAll(targetLang, " ", "_"))
	return fmt.Sprintf("%s.%s%s", base, lang, ext)
}

// translateCues translates the cue texts and writes them as a second SRT
// with the original timing.
func translateCues(
	ctx context.Context,
	cues []subtitle.Cue,
	outputPath string,
	opts generateOptions,
) error {
	provider := translate.Provider(cfg.TranslateProvider)
	apiKey := translateAPIKey(provider, opts.APIKey)
	if apiKey == "" {
		return fmt.Errorf(
			"translation API key is required for provider %q",
			provider,
		)
	}

	translator, err := translate.Factory(ctx, provider, apiKey,
		translate.Options{
			InputLanguage:  opts.Language,
			TargetLanguage: opts.TargetLanguage,
			Model:          cfg.TranslateModel,
		})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	items := make([]translate.TranslationItem, len(cues))
	for i, cue := range cues {
		items[i] = translate.TranslationItem{
			Index: i,
			Text:  strings.Join(cue.Lines, "\n"),
		}
	}

	logger.Infow("Translating subtitles",
		"items", len(items),
		"target_language", opts.TargetLanguage,
	)

	var results []translate.TranslationResult
	if ct, ok := translator.(translate.ConcurrentTranslator); ok {
		results, err = ct.TranslateWithConcurrency(ctx, items, opts.Concurrency)
	} else {
		results, err = translator.Translate(ctx, items)
	}
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	translated := make([]subtitle.Cue, len(cues))
	copy(translated, cues)
	for _, result := range results {
		if result.Index < 0 || result.Index >= len(translated) {
			logger.Warnw("Skipping invalid result index",
				"index", result.Index,
				"max", len(translated)-1,
			)
			continue
		}
		translated[result.Index].Lines = strings.Split(result.Text, "\n")
	}

	if err := subtitle.NewSRTWriter(logger).WriteFile(outputPath, translated); err != nil {
		return fmt.Errorf("failed to write translated subtitles: %w", err)
	}

	logger.Infow("Wrote translated subtitles",
		"path", outputPath,
	)
	return nil
}

func translateAPIKey(provider translate.Provider, fallback string) string {
	var key string
	switch provider {
	case translate.ProviderGemini:
		key = os.Getenv("GEMINI_API_KEY")
	case translate.ProviderOpenAI:
		key = os.Getenv("OPENAI_API_KEY")
	case translate.ProviderAnthropic:
		key = os.Getenv("ANTHROPIC_API_KEY")
	}
	if key == "" {
		key = fallback
	}
	return key
}
