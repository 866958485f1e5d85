package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focusday/internal/models"
	"github.com/julianstephens/focusday/internal/pomodoro"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.snap

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		phaseTitleStyle(s.Phase).Render(strings.ToUpper(s.Phase.String())),
		mutedStyle.Render(fmt.Sprintf("  round %d · %s", s.Round, s.Mode)),
	)

	clock := clockStyle.Foreground(phaseColor(s.Phase)).Render(pomodoro.FormatClock(s.Remaining))

	elapsed := 1 - s.Progress
	bar := m.progress.ViewAs(elapsed)

	stats := mutedStyle.Render(fmt.Sprintf("%d focus sessions · %s focused · %d short / %d long breaks",
		s.Session.CompletedFocus,
		pomodoro.FormatFocusTotal(s.Session.TotalFocus),
		s.Session.CompletedShortBreak,
		s.Session.CompletedLongBreak,
	))

	lines := []string{header, clock, bar, "", stats}
	if s.Settings.MetronomeEnabled {
		lines = append(lines, mutedStyle.Render("metronome on"))
	}
	if s.Mode == models.ModePaused {
		lines = append(lines, warningStyle.Render("paused"))
	}
	if m.status != "" {
		lines = append(lines, warningStyle.Render(m.status))
	}
	lines = append(lines, "", m.help.View(m.keys))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
