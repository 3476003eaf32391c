package cli

import (
	"github.com/spf13/cobra"

	"github.com/syncsub/syncsub/internal/config"
	"github.com/syncsub/syncsub/internal/logging"
)

var (
	verbose    bool
	configPath string
	cfg        config.Config
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "syncsub",
	Short: "AI-powered subtitle generator for audio and video files",
	Long: `SyncSub transcribes audio and video files with AI and formats the
result into readable, synchronized SRT subtitles.

Segments are split on duration and length limits so every subtitle
stays on screen long enough to read. Existing SRT files can also be
translated to another language.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		var err error
		cfg, err = config.Load(configPath)
		return err
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")
}
