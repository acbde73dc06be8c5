package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefego2-arch/Avatar/internal/exercise"
	"github.com/stefego2-arch/Avatar/internal/store"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Manage the lesson library",
}

var lessonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		lessons, err := st.ListLessons(context.Background())
		if err != nil {
			return fmt.Errorf("list lessons: %w", err)
		}
		if len(lessons) == 0 {
			fmt.Println("No lessons imported. Use: avatar lessons import <file.json>")
			return nil
		}

		fmt.Printf("%-20s  %-30s  %-12s  %5s  %s\n", "ID", "Title", "Subject", "Grade", "Topic")
		fmt.Println(strings.Repeat("─", 90))
		for _, l := range lessons {
			fmt.Printf("%-20s  %-30s  %-12s  %5d  %s\n",
				l.ID, l.Title, l.Subject, l.Grade, l.Topic)
		}
		return nil
	},
}

var lessonsImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a lesson file with its pregenerated exercises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, exercises, err := store.ReadLessonFile(args[0])
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ImportLesson(context.Background(), l, exercises); err != nil {
			return err
		}

		counts := map[exercise.Phase]int{}
		for _, ex := range exercises {
			counts[ex.Phase]++
		}
		fmt.Printf("Imported %q: %d practice, %d assessment exercises.\n",
			l.Title, counts[exercise.PhasePractice], counts[exercise.PhaseAssessment])
		return nil
	},
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

func init() {
	lessonsCmd.AddCommand(lessonsListCmd)
	lessonsCmd.AddCommand(lessonsImportCmd)
}
