package lesson

import (
	"charm.land/lipgloss/v2"

	les "github.com/stefego2-arch/Avatar/internal/lesson"
	"github.com/stefego2-arch/Avatar/internal/ui/theme"
)

const avatarNeutral = `┌─────┐
│ ◉ ◉ │
│  ▽  │
└─────┘`

const avatarSpeaking = `┌─────┐
│ ◉ ◉ │ ♪
│  ○  │
└─────┘`

const avatarHappy = `┌─────┐
│ ^ ^ │
│  ▿  │
└─────┘`

const avatarConcerned = `┌─────┐
│ ◉ ◉ │ ?
│  ~  │
└─────┘`

const avatarProud = `┌─────┐
│ ★ ★ │
│  ▿  │
└─╥═╥─┘
  ╚═╝`

// renderAvatar returns the avatar face for the given mood.
func renderAvatar(mood les.Mood) string {
	art := avatarNeutral
	fg := theme.Primary

	switch mood {
	case les.MoodSpeaking:
		art = avatarSpeaking
		fg = theme.Secondary
	case les.MoodHappy:
		art = avatarHappy
		fg = theme.Success
	case les.MoodConcerned:
		art = avatarConcerned
		fg = theme.Accent
	case les.MoodProud:
		art = avatarProud
		fg = theme.Success
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
