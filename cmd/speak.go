package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefego2-arch/Avatar/internal/speech"
)

var speakCmd = &cobra.Command{
	Use:   "speak <text>",
	Short: "Test the installed voice",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := buildLogger(cmd, true)
		if err != nil {
			return err
		}

		synth := speech.NewPiperSynthesizer(speech.DefaultPiperConfig(), log)
		if !synth.Available() {
			return fmt.Errorf("no voice installed; put a piper binary on PATH and a .onnx voice under ~/.avatar/piper-voices")
		}

		return synth.Speak(cmd.Context(), strings.Join(args, " "))
	},
}
