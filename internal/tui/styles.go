package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focusday/internal/models"
)

var (
	docStyle = lipgloss.NewStyle().Padding(1, 2)

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 0)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)
)

// phaseColor is the accent for a phase: red focus, green short break,
// blue long break.
func phaseColor(p models.TimerPhase) lipgloss.Color {
	switch p {
	case models.PhaseShortBreak:
		return lipgloss.Color("#4CAF50")
	case models.PhaseLongBreak:
		return lipgloss.Color("#2196F3")
	default:
		return lipgloss.Color("#F44336")
	}
}

func phaseTitleStyle(p models.TimerPhase) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(phaseColor(p)).
		Padding(0, 1).
		Bold(true)
}
