// Package audio provides the timer's metronome.
package audio

import (
	"io"
	"os"
	"sync"
	"time"
)

const bell = "\a"

// Metronome rings the terminal bell on a fixed interval while started.
type Metronome struct {
	mu       sync.Mutex
	out      io.Writer
	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewMetronome returns a metronome writing to out, or stderr when out is nil.
func NewMetronome(out io.Writer, interval time.Duration) *Metronome {
	if out == nil {
		out = os.Stderr
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Metronome{out: out, interval: interval}
}

// Start begins ticking. Calling it while already ticking does nothing.
func (m *Metronome) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done != nil {
		return nil
	}
	done := make(chan struct{})
	m.done = done

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m.mu.Lock()
				_, _ = io.WriteString(m.out, bell)
				m.mu.Unlock()
			}
		}
	}()
	return nil
}

// Stop silences the metronome and waits for the ticking goroutine to exit.
func (m *Metronome) Stop() {
	m.mu.Lock()
	done := m.done
	m.done = nil
	m.mu.Unlock()

	if done == nil {
		return
	}
	close(done)
	m.wg.Wait()
}

// Playing reports whether the metronome is ticking.
func (m *Metronome) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done != nil
}
