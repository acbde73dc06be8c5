// Package history lists past lesson results for the current learner.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/stefego2-arch/Avatar/internal/router"
	"github.com/stefego2-arch/Avatar/internal/screen"
	"github.com/stefego2-arch/Avatar/internal/store"
	"github.com/stefego2-arch/Avatar/internal/ui/theme"
)

const resultLimit = 20

// HistoryScreen shows recent session results, newest first.
type HistoryScreen struct {
	st     *store.Store
	userID string

	results []*store.SessionResult
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*HistoryScreen)(nil)

type resultsLoadedMsg struct {
	Results []*store.SessionResult
	Err     error
}

// New creates a new HistoryScreen.
func New(st *store.Store, userID string) *HistoryScreen {
	return &HistoryScreen{st: st, userID: userID}
}

func (h *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		results, err := h.st.SessionResults(context.Background(), h.userID, resultLimit)
		return resultsLoadedMsg{Results: results, Err: err}
	}
}

func (h *HistoryScreen) Title() string {
	return "History"
}

func (h *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultsLoadedMsg:
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
		} else {
			h.results = msg.Results
		}
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return h, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return h, nil
}

func (h *HistoryScreen) View(width, height int) string {
	if h.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\nError: " + h.errMsg)
	}
	if !h.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\nLoading...")
	}
	if len(h.results) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\nNo lessons yet. Finish one and it shows up here.")
	}

	var b strings.Builder
	b.WriteString("\n")

	header := fmt.Sprintf("  %-12s %-24s %7s %9s %8s", "Date", "Lesson", "Score", "Correct", "Status")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render(header)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 68)))))
	b.WriteString("\n")

	for _, r := range h.results {
		status := "done"
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if r.Aborted {
			status = "ended"
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		}
		line := fmt.Sprintf("  %-12s %-24s %7d %6d/%-2d %8s",
			r.StartedAt.Format("2006-01-02"),
			truncate(r.LessonID, 24),
			r.Score,
			r.Correct, r.Answers,
			status)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
