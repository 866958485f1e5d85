package habits

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focusday/internal/streak"
)

const (
	cellDone   = "■"
	cellEmpty  = "□"
	cellFuture = " "
)

var (
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	todayStyle = lipgloss.NewStyle().Underline(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// renderGrid draws week columns left to right with one row per weekday.
func renderGrid(weeks []streak.Week, color string) string {
	done := lipgloss.NewStyle().Foreground(lipgloss.Color(color))

	var b strings.Builder
	for d := 0; d < 7; d++ {
		b.WriteString(labelStyle.Render(streak.WeekdayLabels[d]))
		b.WriteString(" ")
		for _, week := range weeks {
			cell := week[d]
			var s string
			switch {
			case cell.IsFuture:
				s = cellFuture
			case cell.Completed:
				s = done.Render(cellDone)
			default:
				s = emptyStyle.Render(cellEmpty)
			}
			if cell.IsToday {
				s = todayStyle.Render(s)
			}
			b.WriteString(s)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderDays draws one mark per day, oldest first.
func renderDays(days []string, completed map[string]bool, color string) string {
	done := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	var b strings.Builder
	for _, day := range days {
		if completed[day] {
			b.WriteString(done.Render(cellDone))
		} else {
			b.WriteString(emptyStyle.Render(cellEmpty))
		}
		b.WriteString(" ")
	}
	return strings.TrimRight(b.String(), " ")
}
