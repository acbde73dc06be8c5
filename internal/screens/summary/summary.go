package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/stefego2-arch/Avatar/internal/router"
	"github.com/stefego2-arch/Avatar/internal/screen"
	"github.com/stefego2-arch/Avatar/internal/store"
	"github.com/stefego2-arch/Avatar/internal/ui/components"
	"github.com/stefego2-arch/Avatar/internal/ui/layout"
	"github.com/stefego2-arch/Avatar/internal/ui/theme"
)

// SummaryScreen displays the result of a finished or aborted lesson.
type SummaryScreen struct {
	lessonTitle string
	result      *store.SessionResult
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(lessonTitle string, result *store.SessionResult) *SummaryScreen {
	return &SummaryScreen{lessonTitle: lessonTitle, result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Lesson Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result
	if r == nil {
		return ""
	}

	var b strings.Builder

	title := "Lesson complete!"
	titleColor := theme.Primary
	if r.Aborted {
		title = "Lesson ended early"
		titleColor = theme.TextDim
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(titleColor).
		Bold(true).
		Render(title))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(s.lessonTitle))
	b.WriteString("\n\n")

	mins := int(r.Duration.Minutes())
	secs := int(r.Duration.Seconds()) % 60
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Answered: %d        Correct: %d", r.Answers, r.Correct)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	accuracy := 0.0
	if r.Answers > 0 {
		accuracy = float64(r.Correct) / float64(r.Answers)
	}
	bar := components.NewProgressBar("Accuracy", accuracy, true, min(width-8, 44))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Score")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	scoreLines := []struct {
		label string
		value int
	}{
		{"Practice", r.PracticeScore},
		{"Assessment", r.AssessmentScore},
		{"Total", r.Score},
	}
	for _, sl := range scoreLines {
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if sl.label == "Total" {
			style = style.Foreground(theme.Accent).Bold(true)
		}
		line := fmt.Sprintf("  %-12s %d", sl.label, sl.value)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
