package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stefego2-arch/Avatar/internal/app"
	"github.com/stefego2-arch/Avatar/internal/attention"
	"github.com/stefego2-arch/Avatar/internal/exercise"
	"github.com/stefego2-arch/Avatar/internal/llm"
	lessonscreen "github.com/stefego2-arch/Avatar/internal/screens/lesson"
	"github.com/stefego2-arch/Avatar/internal/speech"
	"github.com/stefego2-arch/Avatar/internal/store"
)

// runApp opens the store, probes the optional leaves (voice, camera,
// generation backend), and launches the TUI. Every leaf degrades to nil
// rather than blocking startup.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	log, err := buildLogger(cmd, false)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	userID, _ := cmd.Flags().GetString("user")
	deps := lessonscreen.Deps{
		Store:  st,
		UserID: userID,
		Log:    log,
	}

	// Voice.
	if noVoice, _ := cmd.Flags().GetBool("no-voice"); !noVoice {
		synth := speech.NewPiperSynthesizer(speech.DefaultPiperConfig(), log)
		if synth.Available() {
			deps.Synth = synth
		} else {
			log.Warn().Msg("no voice installed, lessons run silently")
			fmt.Fprintln(os.Stderr, "No voice found; the lesson will run silently.")
		}
	}

	// Attention sensing.
	deps.NewSensor = sensorFactory(cmd, log)

	// Generation backend.
	if cfg, ok := llm.DiscoverConfig(); ok {
		provider, err := llm.NewProvider(ctx, cfg, log)
		if err != nil {
			log.Warn().Err(err).Msg("generation backend unavailable, using pregenerated exercises only")
		} else {
			deps.Generator = exercise.NewLLMGenerator(provider, exercise.DefaultGeneratorConfig(), log)
		}
	} else {
		log.Info().Msg("no API key configured, using pregenerated exercises only")
	}

	opts := app.Options{Lesson: deps}
	opts.StartLessonID, _ = cmd.Flags().GetString("lesson")

	return app.Run(opts)
}

// sensorFactory returns a constructor for the attention sensor, or nil
// when sensing is disabled or unconfigured.
func sensorFactory(cmd *cobra.Command, log zerolog.Logger) func() attention.Sensor {
	if noCamera, _ := cmd.Flags().GetBool("no-camera"); noCamera {
		return nil
	}
	binary, _ := cmd.Flags().GetString("sensor-cmd")
	if binary == "" {
		return nil
	}
	camera, _ := cmd.Flags().GetInt("camera")

	return func() attention.Sensor {
		sensor, err := attention.NewExecSensor(binary, camera)
		if err != nil {
			log.Warn().Err(err).Msg("attention classifier failed to start")
			return nil
		}
		return sensor
	}
}
