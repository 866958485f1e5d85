// Package tui is the interactive pomodoro timer screen.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/focusday/internal/pomodoro"
)

// snapshotMsg carries a timer state change into the update loop.
type snapshotMsg pomodoro.Snapshot

// updatesClosedMsg reports that the timer was closed.
type updatesClosedMsg struct{}

type Model struct {
	timer    *pomodoro.Timer
	updates  <-chan pomodoro.Snapshot
	snap     pomodoro.Snapshot
	keys     KeyMap
	help     help.Model
	progress progress.Model
	status   string
	width    int
	quitting bool
}

func NewModel(timer *pomodoro.Timer) Model {
	return Model{
		timer:    timer,
		updates:  timer.Subscribe(),
		snap:     timer.Snapshot(),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithSolidFill(string(phaseColor(timer.Snapshot().Phase))), progress.WithoutPercentage()),
	}
}

func waitForSnapshot(ch <-chan pomodoro.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return updatesClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.updates)
}
