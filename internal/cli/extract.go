package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syncsub/syncsub/internal/audio"
	"github.com/syncsub/syncsub/internal/video"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract the audio track from a video file",
	Long: `Extract the audio track from a video file and save it as a standalone audio file.

Without flags the transcription profile is used: mono 16kHz WAV. The output
path defaults to the video path with its extension swapped for the chosen
format.

Examples:
  syncsub extract video.mp4
  syncsub extract video.mp4 -o audio.mp3 -f mp3
  syncsub extract video.mp4 --format flac --sample-rate 44100 --channels 2`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		StringP("format", "f", "", "Output audio format (wav, mp3, aac, flac)")
	extractCmd.Flags().
		IntP("sample-rate", "r", 0, "Sample rate in Hz (e.g., 16000, 44100, 48000)")
	extractCmd.Flags().
		IntP("channels", "c", 0, "Number of audio channels (1=mono, 2=stereo)")
	extractCmd.Flags().
		StringP("bitrate", "b", "", "Bitrate for lossy formats (e.g., 128k, 320k)")
}

var validAudioFormats = map[string]bool{
	"wav":  true,
	"mp3":  true,
	"aac":  true,
	"flac": true,
}

// per-run settings resolved from flags on top of the default profile
type extractOptions struct {
	Audio      video.ExtractAudioOptions
	OutputPath string
	TempDir    string
}

func resolveExtractOptions(
	cmd *cobra.Command,
	videoPath string,
) (extractOptions, error) {
	opts := extractOptions{
		Audio:   video.DefaultExtractAudioOptions(),
		TempDir: cfg.TempDir,
	}

	if s, _ := cmd.Flags().GetString("format"); s != "" {
		opts.Audio.Format = s
	}
	if !validAudioFormats[opts.Audio.Format] {
		return opts, fmt.Errorf(
			"invalid format %q: supported formats are wav, mp3, aac, flac",
			opts.Audio.Format,
		)
	}
	if n, _ := cmd.Flags().GetInt("sample-rate"); n > 0 {
		opts.Audio.SampleRate = n
	}
	if n, _ := cmd.Flags().GetInt("channels"); n > 0 {
		opts.Audio.Channels = n
	}
	opts.Audio.Bitrate, _ = cmd.Flags().GetString("bitrate")

	opts.OutputPath, _ = cmd.Flags().GetString("output")
	if opts.OutputPath == "" {
		opts.OutputPath = extractOutputPath(videoPath, opts.Audio.Format)
	}

	return opts, nil
}

// swaps the video extension for the audio format's
func extractOutputPath(videoPath, format string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + "." + format
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	opts, err := resolveExtractOptions(cmd, videoPath)
	if err != nil {
		return err
	}

	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", videoPath)
	}
	if !audio.IsVideoFile(videoPath) {
		return fmt.Errorf("not a supported video file: %s", videoPath)
	}

	logger.Infow("Extracting audio",
		"video", videoPath,
		"output", opts.OutputPath,
		"format", opts.Audio.Format,
		"sample_rate", opts.Audio.SampleRate,
		"channels", opts.Audio.Channels,
	)

	processor := video.NewProcessor(opts.TempDir)
	if err := processor.ExtractAudio(
		context.Background(),
		videoPath,
		opts.OutputPath,
		opts.Audio,
	); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	absOutput, _ := filepath.Abs(opts.OutputPath)
	fmt.Printf("Audio extracted successfully: %s\n", absOutput)

	return nil
}
