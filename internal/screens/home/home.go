// Package home is the lesson picker shown at startup.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/stefego2-arch/Avatar/internal/router"
	"github.com/stefego2-arch/Avatar/internal/screen"
	"github.com/stefego2-arch/Avatar/internal/screens/history"
	lessonscreen "github.com/stefego2-arch/Avatar/internal/screens/lesson"
	"github.com/stefego2-arch/Avatar/internal/ui/components"
	"github.com/stefego2-arch/Avatar/internal/ui/theme"
)

// HomeScreen lists the imported lessons plus history and exit entries.
type HomeScreen struct {
	menu        components.Menu
	lessonCount int
	voiceOn     bool
	cameraOn    bool
	errMsg      string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. Lessons are read from the store up front
// so the menu is complete on first render.
func New(deps lessonscreen.Deps) *HomeScreen {
	h := &HomeScreen{
		voiceOn:  deps.Synth != nil && deps.Synth.Available(),
		cameraOn: deps.NewSensor != nil,
	}

	lessons, err := deps.Store.ListLessons(context.Background())
	if err != nil {
		h.errMsg = err.Error()
		return h
	}
	h.lessonCount = len(lessons)

	var items []components.MenuItem
	for _, l := range lessons {
		l := l
		items = append(items, components.MenuItem{
			Label:  l.Title,
			Detail: fmt.Sprintf("%s, grade %d", l.Subject, l.Grade),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: lessonscreen.New(deps, l.ID)}
				}
			},
		})
	}
	items = append(items,
		components.MenuItem{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(deps.Store, deps.UserID)}
			}
		}},
		components.MenuItem{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)

	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) View(width, height int) string {
	if h.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\nError: " + h.errMsg)
	}

	var sections []string

	sections = append(sections, theme.Title.Width(width).Render("Avatar"))
	sections = append(sections, theme.Subtitle.Width(width).Render("Your talking tutor"))

	status := statusLine(h.voiceOn, h.cameraOn)
	sections = append(sections, lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(status))

	if h.lessonCount == 0 {
		sections = append(sections, lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("No lessons imported yet.\nRun: avatar lessons import <file.json>"))
	}

	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	return "\n" + strings.Join(sections, "\n\n")
}

func statusLine(voiceOn, cameraOn bool) string {
	part := func(name string, on bool) string {
		if on {
			return name + " on"
		}
		return name + " off"
	}
	return part("voice", voiceOn) + "   " + part("camera", cameraOn)
}
