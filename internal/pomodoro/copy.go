package pomodoro

import "github.com/julianstephens/focusday/internal/models"

// endCopy is the scheduled notification shown when a running phase reaches zero.
func endCopy(phase models.TimerPhase) (title, body string) {
	switch phase {
	case models.PhaseShortBreak:
		return "Short break completed!", "Ready for next focus session?"
	case models.PhaseLongBreak:
		return "Long break completed!", "Ready for next focus session?"
	default:
		return "Focus session completed!", "Time for a break."
	}
}

// completionCopy is the immediate notification fired by completion handling.
func completionCopy(phase models.TimerPhase) (title, body string) {
	if phase.IsBreak() {
		return "Break completed!", "Ready for next focus session?"
	}
	return "Focus session completed!", "Time for a break."
}
