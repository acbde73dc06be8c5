package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recent lesson results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		userID, _ := cmd.Flags().GetString("user")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		results, err := st.SessionResults(context.Background(), userID, limit)
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No lesson results recorded yet.")
			return nil
		}

		fmt.Printf("%-19s  %-20s  %5s  %9s  %8s  %6s\n",
			"Started", "Lesson", "Score", "Correct", "Duration", "Status")
		fmt.Println(strings.Repeat("─", 80))
		for _, r := range results {
			status := "done"
			if r.Aborted {
				status = "ended"
			}
			mins := int(r.Duration.Minutes())
			secs := int(r.Duration.Seconds()) % 60
			fmt.Printf("%-19s  %-20s  %5d  %6d/%-2d  %5d:%02d  %6s\n",
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				r.LessonID,
				r.Score,
				r.Correct, r.Answers,
				mins, secs,
				status)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
	statsCmd.Flags().String("user", "default", "Learner id")
}
