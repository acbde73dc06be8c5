package cmd

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stefego2-arch/Avatar/internal/logging"
	"github.com/stefego2-arch/Avatar/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "avatar",
	Short: "Interactive avatar tutor",
	Long:  "Avatar — a terminal tutor that narrates lessons out loud, watches whether you're following, and adapts its pace.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides AVATAR_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "Path to JSON log file (default: next to the database)")

	rootCmd.Flags().String("lesson", "", "Open this lesson directly, skipping the picker")
	rootCmd.Flags().String("user", "default", "Learner id for saved results")
	rootCmd.Flags().Bool("no-voice", false, "Run silently even if a voice is installed")
	rootCmd.Flags().Bool("no-camera", false, "Disable attention sensing")
	rootCmd.Flags().String("sensor-cmd", "", "Attention classifier binary (emits JSON readings on stdout)")
	rootCmd.Flags().Int("camera", 0, "Camera device index for the classifier")

	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(speakCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then AVATAR_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// buildLogger builds the process logger. The TUI path logs to a file
// only; console output would tear the display.
func buildLogger(cmd *cobra.Command, console bool) (zerolog.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	file, _ := cmd.Flags().GetString("log-file")

	if file == "" && !console {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return zerolog.Nop(), err
		}
		file = filepath.Join(filepath.Dir(dbPath), "avatar.log")
	}

	return logging.New(logging.Config{
		Level:   level,
		File:    file,
		Console: console,
	})
}
