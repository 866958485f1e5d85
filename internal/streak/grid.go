package streak

import (
	"time"

	"github.com/julianstephens/focusday/internal/constants"
	"github.com/julianstephens/focusday/internal/utils"
)

// Cell is one day of the activity grid.
type Cell struct {
	Day       string
	Completed bool
	IsToday   bool
	IsFuture  bool
}

// Week is a Sunday..Saturday column.
type Week [7]Cell

// ActivityGrid lays out the last weeks of completions as week columns,
// oldest first. The final column is the current week, so its trailing days
// may be in the future.
func (e *Engine) ActivityGrid(habitID string, weeks int) ([]Week, error) {
	if weeks <= 0 {
		weeks = constants.DefaultGridWeeks
	}

	entries, err := e.EntriesSorted(habitID)
	if err != nil {
		return nil, err
	}
	completed := daySet(entries)

	today := e.Today()
	thisWeek, err := utils.StartOfWeek(today)
	if err != nil {
		return nil, err
	}
	first, err := utils.AddDays(thisWeek, -7*(weeks-1))
	if err != nil {
		return nil, err
	}

	grid := make([]Week, weeks)
	day := first
	for w := range grid {
		for d := 0; d < 7; d++ {
			grid[w][d] = Cell{
				Day:       day,
				Completed: completed[day],
				IsToday:   day == today,
				IsFuture:  day > today,
			}
			if day, err = utils.AddDays(day, 1); err != nil {
				return nil, err
			}
		}
	}
	return grid, nil
}

// RecentDays returns the last n calendar days ending today, oldest first.
func (e *Engine) RecentDays(n int) []string {
	if n <= 0 {
		n = constants.DefaultRecentDays
	}
	today := e.Today()
	days := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		day, err := utils.AddDays(today, -i)
		if err != nil {
			continue
		}
		days = append(days, day)
	}
	return days
}

// WeekdayLabels are the grid's row headers.
var WeekdayLabels = [7]string{
	time.Sunday.String()[:3], time.Monday.String()[:3], time.Tuesday.String()[:3],
	time.Wednesday.String()[:3], time.Thursday.String()[:3], time.Friday.String()[:3],
	time.Saturday.String()[:3],
}
