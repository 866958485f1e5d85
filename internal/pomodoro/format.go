package pomodoro

import (
	"fmt"
	"time"
)

// FormatClock renders d as MM:SS, truncating partial seconds.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// FormatFocusTotal renders cumulative focus time as "Xh Ym", or
// "N minutes" below an hour.
func FormatFocusTotal(d time.Duration) string {
	secs := int(d / time.Second)
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%d minutes", minutes)
}
