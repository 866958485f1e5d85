package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/focusday/internal/models"
	"github.com/julianstephens/focusday/internal/pomodoro"
)

const maxProgressWidth = 60

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = max(min(msg.Width-4, maxProgressWidth), 10)

	case tea.FocusMsg:
		// The countdown may have been suspended with the terminal; catch up
		// against the wall clock.
		m.timer.Resume()

	case snapshotMsg:
		if msg.Phase != m.snap.Phase {
			m.progress.FullColor = string(phaseColor(msg.Phase))
		}
		m.snap = pomodoro.Snapshot(msg)
		return m, waitForSnapshot(m.updates)

	case updatesClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		m.status = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			if m.snap.Mode == models.ModeRunning {
				m.timer.Pause()
			} else {
				m.timer.Start()
			}
		case key.Matches(msg, m.keys.Reset):
			m.timer.Reset()
		case key.Matches(msg, m.keys.Skip):
			m.timer.SkipToNext()
		case key.Matches(msg, m.keys.Metronome):
			settings := m.timer.Snapshot().Settings
			settings.MetronomeEnabled = !settings.MetronomeEnabled
			if err := m.timer.ApplySettings(settings); err != nil {
				m.status = err.Error()
			}
		case key.Matches(msg, m.keys.ResetStats):
			if err := m.timer.ResetStatistics(); err != nil {
				m.status = "statistics reset but not saved: " + err.Error()
			}
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		// Reflect the change immediately; the published snapshot follows.
		m.snap = m.timer.Snapshot()
	}

	return m, nil
}
