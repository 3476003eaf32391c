package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syncsub/syncsub/internal/audio"
)

var batchCmd = &cobra.Command{
	Use:   "batch [directory]",
	Short: "Generate subtitles for every media file in a directory",
	Long: `Scan a directory for audio and video files and generate subtitles
for each one.

Files are processed smallest first so quick results appear early. Files
that already have a matching .srt next to them are skipped unless --force
is given. A failure on one file is logged and the batch continues.

Examples:
  syncsub batch ./videos
  syncsub batch ./podcasts --provider openai --force`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().
		String("provider", "", "Transcription provider (gemini, openai)")
	batchCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY env var)")
	batchCmd.Flags().
		IntP("chunk-duration", "d", 0, "Chunk duration in minutes for splitting audio")
	batchCmd.Flags().
		Int("concurrency", 0, "Number of parallel transcription workers")
	batchCmd.Flags().
		String("model", "", "Model to use for transcription (provider-specific default)")
	batchCmd.Flags().
		String("transcript-language", "native", "Output language for transcript")
	batchCmd.Flags().
		StringP("target-language", "t", "", "Also produce translated SRTs in this language")
	batchCmd.Flags().
		Int("max-chars", 0, "Maximum characters per subtitle line")
	batchCmd.Flags().
		Float64("max-duration", 0, "Maximum subtitle duration in seconds")
	batchCmd.Flags().
		Int("max-lines", 0, "Maximum lines per subtitle block")
	batchCmd.Flags().
		Bool("force", false, "Regenerate subtitles even when an .srt already exists")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	opts, err := resolveGenerateOptions(cmd)
	if err != nil {
		return err
	}
	// per-file default output paths
	opts.OutputPath = ""

	force, _ := cmd.Flags().GetBool("force")

	files, err := findMediaFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no media files found in %s", dir)
	}

	logger.Infow("Starting batch generation",
		"directory", dir,
		"files", len(files),
	)

	ctx := context.Background()
	var done, skipped, failed int

	for _, mediaPath := range files {
		srtPath := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + ".srt"
		if !force {
			if _, err := os.Stat(srtPath); err == nil {
				logger.Infow("Skipping file with existing subtitles",
					"file", mediaPath,
				)
				skipped++
				continue
			}
		}

		if _, err := generateSubtitles(ctx, mediaPath, opts); err != nil {
			logger.Errorw("Failed to generate subtitles",
				"file", mediaPath,
				"error", err,
			)
			failed++
			continue
		}
		done++
	}

	fmt.Printf("Batch complete: %d generated, %d skipped, %d failed\n",
		done, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// findMediaFiles returns the media files directly under dir, smallest
// first.
func findMediaFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	type sized struct {
		path string
		size int64
	}
	var files []sized

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !audio.IsMediaFile(path) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, sized{path: path, size: info.Size()})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].size < files[j].size
	})

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}
