package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// PiperSynthesizer speaks through the local Piper neural TTS CLI
// (https://github.com/rhasspy/piper): text goes to piper's stdin, the
// rendered WAV is played with the platform audio player.
type PiperSynthesizer struct {
	cfg PiperConfig
	log zerolog.Logger
}

// PiperConfig locates the piper binary and voice model.
type PiperConfig struct {
	BinaryPath string // path to the piper executable
	ModelPath  string // path to the .onnx voice model
}

// DefaultPiperConfig probes common install locations for piper and a
// voice model.
func DefaultPiperConfig() PiperConfig {
	home, _ := os.UserHomeDir()

	cfg := PiperConfig{}
	for _, p := range []string{
		filepath.Join(home, ".local", "bin", "piper"),
		"/usr/local/bin/piper",
		"/opt/homebrew/bin/piper",
	} {
		if _, err := os.Stat(p); err == nil {
			cfg.BinaryPath = p
			break
		}
	}

	voicesDir := filepath.Join(home, ".avatar", "piper-voices")
	if entries, err := os.ReadDir(voicesDir); err == nil {
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".onnx") {
				cfg.ModelPath = filepath.Join(voicesDir, e.Name())
				break
			}
		}
	}

	return cfg
}

// NewPiperSynthesizer creates a Piper-backed synthesizer.
func NewPiperSynthesizer(cfg PiperConfig, log zerolog.Logger) *PiperSynthesizer {
	return &PiperSynthesizer{
		cfg: cfg,
		log: log.With().Str("component", "piper").Logger(),
	}
}

// Available reports whether the piper binary and voice model exist.
func (p *PiperSynthesizer) Available() bool {
	if p.cfg.BinaryPath == "" || p.cfg.ModelPath == "" {
		return false
	}
	if _, err := os.Stat(p.cfg.BinaryPath); err != nil {
		return false
	}
	if _, err := os.Stat(p.cfg.ModelPath); err != nil {
		return false
	}
	return true
}

// Speak renders text to a temp WAV and plays it. Cancelling ctx kills
// whichever stage is running.
func (p *PiperSynthesizer) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	tmp, err := os.CreateTemp("", "avatar-tts-*.wav")
	if err != nil {
		return fmt.Errorf("temp wav: %w", err)
	}
	wavPath := tmp.Name()
	tmp.Close()
	defer os.Remove(wavPath)

	synth := exec.CommandContext(ctx, p.cfg.BinaryPath,
		"--model", p.cfg.ModelPath,
		"--output_file", wavPath,
	)
	synth.Stdin = strings.NewReader(text)
	if out, err := synth.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("piper synthesis: %w (%s)", err, strings.TrimSpace(string(out)))
	}

	player, args := audioPlayer(wavPath)
	if player == "" {
		return fmt.Errorf("no audio player found for %s", runtime.GOOS)
	}
	play := exec.CommandContext(ctx, player, args...)
	if err := play.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("audio playback: %w", err)
	}

	return nil
}

// audioPlayer picks the platform WAV player.
func audioPlayer(wavPath string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "afplay", []string{wavPath}
	case "linux":
		if _, err := exec.LookPath("aplay"); err == nil {
			return "aplay", []string{"-q", wavPath}
		}
		if _, err := exec.LookPath("paplay"); err == nil {
			return "paplay", []string{wavPath}
		}
		return "", nil
	default:
		return "", nil
	}
}
