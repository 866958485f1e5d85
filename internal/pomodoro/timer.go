// Package pomodoro implements the focus/break timer state machine.
package pomodoro

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/focusday/internal/clock"
	"github.com/julianstephens/focusday/internal/constants"
	"github.com/julianstephens/focusday/internal/logger"
	"github.com/julianstephens/focusday/internal/models"
	"github.com/julianstephens/focusday/internal/notifier"
)

// Scheduler delivers reminders at absolute times, one pending per ID.
type Scheduler interface {
	Schedule(req notifier.Request) error
	Cancel(ids ...string)
}

// AudioPlayer is the metronome. Start while playing and Stop while silent
// must be harmless.
type AudioPlayer interface {
	Start() error
	Stop()
}

type nopAudio struct{}

func (nopAudio) Start() error { return nil }
func (nopAudio) Stop()        {}

// Snapshot is a point-in-time copy of the timer's observable state.
type Snapshot struct {
	Mode         models.TimerMode
	Phase        models.TimerPhase
	Remaining    time.Duration
	Total        time.Duration
	Progress     float64
	Round        int
	ScheduledEnd *time.Time
	Session      models.TimerSession
	Settings     models.TimerSettings
}

// Options carries optional collaborators. Zero values select the system
// clock, a real one-second ticker and a silent metronome.
type Options struct {
	Clock  clock.Clock
	Ticker TickerFunc
	Audio  AudioPlayer
}

const subscriberBuffer = 16

// Timer cycles focus, short break and long break phases. All methods are
// safe for concurrent use; countdown ticks arrive on their own goroutine.
type Timer struct {
	mu        sync.Mutex
	settings  *Manager
	scheduler Scheduler
	audio     AudioPlayer
	clock     clock.Clock
	newTicker TickerFunc

	mode         models.TimerMode
	phase        models.TimerPhase
	remaining    time.Duration
	total        time.Duration
	round        int
	scheduledEnd *time.Time
	playing      bool

	stopTick func()
	tickGen  uint64

	subs   []chan Snapshot
	closed bool
}

func NewTimer(settings *Manager, scheduler Scheduler, opts Options) *Timer {
	t := &Timer{
		settings:  settings,
		scheduler: scheduler,
		audio:     opts.Audio,
		clock:     opts.Clock,
		newTicker: opts.Ticker,
		mode:      models.ModeInitial,
		phase:     models.PhaseFocus,
	}
	if t.audio == nil {
		t.audio = nopAudio{}
	}
	if t.clock == nil {
		t.clock = clock.System{}
	}
	if t.newTicker == nil {
		t.newTicker = RealTicker
	}

	s := settings.Settings()
	t.total = s.FocusDuration
	t.remaining = t.total
	t.round = roundFor(settings.Session().CompletedFocus, s.RoundsBeforeLongBreak)
	return t
}

func roundFor(completedFocus, rounds int) int {
	if rounds < 1 {
		rounds = 1
	}
	return completedFocus/rounds + 1
}

// Snapshot returns the current state.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Timer) snapshotLocked() Snapshot {
	snap := Snapshot{
		Mode:      t.mode,
		Phase:     t.phase,
		Remaining: t.remaining,
		Total:     t.total,
		Round:     t.round,
		Session:   t.settings.Session(),
		Settings:  t.settings.Settings(),
	}
	if t.total > 0 {
		snap.Progress = float64(t.remaining) / float64(t.total)
	}
	if t.scheduledEnd != nil {
		end := *t.scheduledEnd
		snap.ScheduledEnd = &end
	}
	return snap
}

// Subscribe returns a channel that receives a snapshot after every state
// change. A slow reader loses intermediate snapshots, never the latest one.
// The channel is closed by Close.
func (t *Timer) Subscribe() <-chan Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch := make(chan Snapshot, subscriberBuffer)
	if t.closed {
		close(ch)
		return ch
	}
	t.subs = append(t.subs, ch)
	return ch
}

func (t *Timer) publishLocked() {
	if len(t.subs) == 0 {
		return
	}
	snap := t.snapshotLocked()
	for _, ch := range t.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Start begins or resumes the countdown. It is a no-op unless the timer is
// initial or paused.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startLocked()
}

func (t *Timer) startLocked() {
	if t.closed || (t.mode != models.ModeInitial && t.mode != models.ModePaused) {
		return
	}

	t.mode = models.ModeRunning
	end := t.clock.Now().Add(t.remaining)
	t.scheduledEnd = &end

	title, body := endCopy(t.phase)
	err := t.scheduler.Schedule(notifier.Request{
		ID:     constants.TimerEndNotificationID,
		Title:  title,
		Body:   body,
		FireAt: end,
	})
	if err != nil {
		logger.Warn("Failed to schedule timer end notification", "error", err)
	}

	if t.settings.Settings().MetronomeEnabled {
		t.startAudioLocked()
	}

	t.startCountdownLocked()
	t.publishLocked()
}

// startCountdownLocked replaces any active countdown with a fresh one.
func (t *Timer) startCountdownLocked() {
	t.stopCountdownLocked()
	t.tickGen++
	gen := t.tickGen
	t.stopTick = t.newTicker(time.Second, func() { t.tick(gen) })
}

func (t *Timer) stopCountdownLocked() {
	if t.stopTick != nil {
		t.stopTick()
		t.stopTick = nil
	}
	// Ticks already in flight carry the old generation and are dropped.
	t.tickGen++
}

func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.tickGen || t.mode != models.ModeRunning {
		return
	}

	t.remaining -= time.Second
	if t.remaining > 0 {
		t.publishLocked()
		return
	}

	t.remaining = 0
	t.finishLocked()
}

// finishLocked handles a running phase reaching zero.
func (t *Timer) finishLocked() {
	t.stopCountdownLocked()
	t.stopAudioLocked()
	t.mode = models.ModeFinished
	t.scheduledEnd = nil
	t.publishLocked()
	t.completeLocked()
}

func (t *Timer) startAudioLocked() {
	if t.playing {
		return
	}
	if err := t.audio.Start(); err != nil {
		logger.Warn("Failed to start metronome", "error", err)
		return
	}
	t.playing = true
}

func (t *Timer) stopAudioLocked() {
	if !t.playing {
		return
	}
	t.audio.Stop()
	t.playing = false
}

func (t *Timer) cancelEndNotificationLocked() {
	t.scheduler.Cancel(constants.TimerEndNotificationID)
}

// Pause freezes a running countdown. remaining is kept as is.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mode != models.ModeRunning {
		return
	}
	t.stopCountdownLocked()
	t.mode = models.ModePaused
	t.stopAudioLocked()
	t.cancelEndNotificationLocked()
	t.scheduledEnd = nil
	t.publishLocked()
}

// Reset returns to the start of the current phase using the current settings.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopCountdownLocked()
	t.stopAudioLocked()
	t.cancelEndNotificationLocked()
	t.mode = models.ModeInitial
	t.total = t.settings.Settings().DurationFor(t.phase)
	t.remaining = t.total
	t.scheduledEnd = nil
	t.publishLocked()
}

// SkipToNext completes the current phase immediately. It counts exactly
// like natural expiry.
func (t *Timer) SkipToNext() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.stopCountdownLocked()
	t.stopAudioLocked()
	t.cancelEndNotificationLocked()
	t.scheduledEnd = nil
	t.completeLocked()
}

// completeLocked records the finished phase, notifies, and moves to the next
// phase in initial mode, auto-starting it when configured.
func (t *Timer) completeLocked() {
	settings := t.settings.Settings()
	finished := t.phase

	// The completion notification below supersedes the scheduled one.
	t.cancelEndNotificationLocked()

	var next models.TimerPhase
	var autoStart bool
	if finished == models.PhaseFocus {
		session := t.settings.RecordFocus(settings.FocusDuration)
		next = models.PhaseShortBreak
		if session.CompletedFocus > 0 && session.CompletedFocus%settings.RoundsBeforeLongBreak == 0 {
			next = models.PhaseLongBreak
		}
		t.round = roundFor(session.CompletedFocus, settings.RoundsBeforeLongBreak)
		autoStart = settings.AutoStartBreaks
	} else {
		t.settings.RecordBreak(finished == models.PhaseLongBreak)
		next = models.PhaseFocus
		autoStart = settings.AutoStartFocus
	}

	title, body := completionCopy(finished)
	err := t.scheduler.Schedule(notifier.Request{
		ID:     uuid.New().String(),
		Title:  title,
		Body:   body,
		FireAt: t.clock.Now(),
	})
	if err != nil {
		logger.Warn("Failed to send completion notification", "error", err)
	}
	logger.Debug("Timer phase completed", "phase", finished.String(), "next", next.String())

	t.phase = next
	t.mode = models.ModeInitial
	t.total = settings.DurationFor(next)
	t.remaining = t.total
	t.scheduledEnd = nil
	t.publishLocked()

	if autoStart {
		t.startLocked()
	}
}

// Resume reconciles a running countdown with the wall clock, for example
// after the process or terminal was suspended. A deadline already passed
// completes the phase once; otherwise remaining is recomputed from the
// deadline and the countdown restarts without moving the deadline.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mode != models.ModeRunning || t.scheduledEnd == nil {
		return
	}

	now := t.clock.Now()
	if !now.Before(*t.scheduledEnd) {
		t.remaining = 0
		t.finishLocked()
		return
	}

	t.remaining = t.scheduledEnd.Sub(now)
	t.startCountdownLocked()
	t.publishLocked()
}

// ApplySettings stores s and applies it live. Durations only change the
// current phase while the timer is initial; metronome and round count apply
// in every state.
func (t *Timer) ApplySettings(s models.TimerSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := t.settings.SaveSettings(s); err != nil {
		logger.Warn("Failed to persist timer settings", "error", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mode == models.ModeInitial {
		t.total = s.DurationFor(t.phase)
		t.remaining = t.total
	}
	if s.MetronomeEnabled && t.mode == models.ModeRunning {
		t.startAudioLocked()
	} else {
		t.stopAudioLocked()
	}
	t.round = roundFor(t.settings.Session().CompletedFocus, s.RoundsBeforeLongBreak)
	t.publishLocked()
	return nil
}

// ResetStatistics clears the cumulative session and the round display.
func (t *Timer) ResetStatistics() error {
	err := t.settings.ResetSession()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.round = roundFor(0, t.settings.Settings().RoundsBeforeLongBreak)
	t.publishLocked()
	return err
}

// Close stops the countdown, the metronome and the pending end notification,
// and closes subscriber channels. The timer ignores Start afterwards.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.stopCountdownLocked()
	t.stopAudioLocked()
	t.cancelEndNotificationLocked()
	t.closed = true
	for _, ch := range t.subs {
		close(ch)
	}
	t.subs = nil
}
