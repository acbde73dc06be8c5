package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	les "github.com/stefego2-arch/Avatar/internal/lesson"
	"github.com/stefego2-arch/Avatar/internal/ui/theme"
)

func (s *LessonScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.meta == nil {
		return renderLoading(width)
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	var b strings.Builder

	// Avatar, centered above everything else.
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderAvatar(s.mood)))
	b.WriteString("\n\n")

	if s.current == nil {
		b.WriteString(s.renderNarration(width))
		return b.String()
	}

	b.WriteString(s.renderExercise(width))
	return b.String()
}

// renderNarration covers the stretches with no exercise on screen:
// theory narration and the gap while the next exercise is prepared.
func (s *LessonScreen) renderNarration(width int) string {
	var msg string
	switch s.phase {
	case les.PhaseTheory:
		msg = "Listen along. The exercises come right after."
	case les.PhaseComplete:
		msg = "Wrapping up..."
	default:
		msg = "Getting the next exercise ready..."
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(msg)
}

func (s *LessonScreen) renderExercise(width int) string {
	var b strings.Builder

	// Statement, centered.
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(s.current.Statement))
	b.WriteString("\n\n")

	// Revealed hints, in order.
	for i, hint := range s.hints {
		line := fmt.Sprintf("Hint %d: %s", i+1, hint)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Accent).Render(line)))
		b.WriteString("\n")
	}
	if len(s.hints) > 0 {
		b.WriteString("\n")
	}

	// Feedback from the last submission.
	if fb := s.feedback; fb != nil {
		if fb.correct {
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.Success).
				Bold(true).
				Render("Correct!"))
		} else {
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.Error).
				Bold(true).
				Render("Not quite"))
			if fb.answer != "" {
				b.WriteString("\n")
				b.WriteString(lipgloss.NewStyle().
					Width(width).
					Align(lipgloss.Center).
					Foreground(theme.TextDim).
					Render(fmt.Sprintf("The answer is: %s", fb.answer)))
			}
		}
		if fb.explanation != "" {
			b.WriteString("\n\n")
			exp := lipgloss.NewStyle().
				Width(min(width-8, 70)).
				Foreground(theme.Text).
				Render(fb.explanation)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		}
		b.WriteString("\n\n")
	}

	// Answer input.
	answerLine := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("Answer: " + s.input.View())
	b.WriteString(answerLine)

	return b.String()
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("End the lesson early?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Your progress so far will be saved."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Y] Yes, end lesson"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Preparing your lesson...")
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
