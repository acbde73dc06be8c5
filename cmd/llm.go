package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stefego2-arch/Avatar/internal/exercise"
	"github.com/stefego2-arch/Avatar/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the exercise generation backend",
}

var llmCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configured provider by generating one exercise",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := buildLogger(cmd, true)
		if err != nil {
			return err
		}

		cfg, ok := llm.DiscoverConfig()
		if !ok {
			return fmt.Errorf("no API key found; set OPENAI_API_KEY, ANTHROPIC_API_KEY, or GEMINI_API_KEY")
		}
		fmt.Printf("Provider: %s\n", cfg.Provider)

		provider, err := llm.NewProvider(cmd.Context(), cfg, log)
		if err != nil {
			return fmt.Errorf("build provider: %w", err)
		}
		fmt.Printf("Model:    %s\n", provider.ModelID())

		topic, _ := cmd.Flags().GetString("topic")
		gen := exercise.NewLLMGenerator(provider, exercise.DefaultGeneratorConfig(), log)
		batch, err := gen.GenerateBatch(cmd.Context(), exercise.BatchRequest{
			Topic:    topic,
			Grade:    4,
			Subject:  "math",
			Count:    1,
			Phase:    exercise.PhasePractice,
			LessonID: "llm-check",
		})
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}
		if len(batch) == 0 {
			return fmt.Errorf("provider returned no valid exercise")
		}

		ex := batch[0]
		fmt.Println()
		fmt.Printf("Statement:  %s\n", ex.Statement)
		fmt.Printf("Answer:     %s\n", ex.Answer)
		fmt.Printf("Difficulty: %s\n", ex.Difficulty)
		for i, h := range ex.Hints {
			fmt.Printf("Hint %d:     %s\n", i+1, h)
		}
		return nil
	},
}

func init() {
	llmCheckCmd.Flags().String("topic", "adding fractions", "Topic for the test exercise")
	llmCmd.AddCommand(llmCheckCmd)
}
