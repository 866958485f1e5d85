package pomodoro

import (
	"sync"
	"time"
)

// TickerFunc calls fn every interval until the returned stop is called.
// stop must be safe to call from inside fn and more than once.
type TickerFunc func(interval time.Duration, fn func()) (stop func())

// RealTicker drives fn from a time.Ticker on its own goroutine.
func RealTicker(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}
