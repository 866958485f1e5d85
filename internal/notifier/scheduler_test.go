package notifier

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/focusday/internal/clock"
)

type recordingDeliverer struct {
	mu    sync.Mutex
	got   []Notification
	err   error
	calls int
}

func (r *recordingDeliverer) Deliver(n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.got = append(r.got, n)
	return nil
}

// fakeTimers replaces afterFunc so tests decide when timers fire.
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func installFakeTimers(t *testing.T) *fakeTimers {
	t.Helper()
	ft := &fakeTimers{}
	old := afterFunc
	afterFunc = func(d time.Duration, f func()) func() bool {
		ft.mu.Lock()
		defer ft.mu.Unlock()
		timer := &fakeTimer{delay: d, fn: f}
		ft.timers = append(ft.timers, timer)
		return func() bool {
			ft.mu.Lock()
			defer ft.mu.Unlock()
			wasActive := !timer.stopped
			timer.stopped = true
			return wasActive
		}
	}
	t.Cleanup(func() { afterFunc = old })
	return ft
}

// fireAll runs every timer that has not been stopped.
func (ft *fakeTimers) fireAll() {
	ft.mu.Lock()
	var due []func()
	for _, timer := range ft.timers {
		if !timer.stopped {
			timer.stopped = true
			due = append(due, timer.fn)
		}
	}
	ft.mu.Unlock()
	for _, fn := range due {
		fn()
	}
}

var schedNow = time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

func TestScheduleDelaysUntilFireAt(t *testing.T) {
	ft := installFakeTimers(t)
	d := &recordingDeliverer{}
	s := NewLocalScheduler(d, clock.NewFake(schedNow))

	if err := s.Schedule(Request{ID: "timer-end", Title: "Done", FireAt: schedNow.Add(25 * time.Minute)}); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if got := ft.timers[0].delay; got != 25*time.Minute {
		t.Errorf("delay = %v, want 25m", got)
	}

	ft.fireAll()
	if len(d.got) != 1 || d.got[0].Title != "Done" {
		t.Errorf("delivered %+v", d.got)
	}
	if len(s.Pending()) != 0 {
		t.Error("fired request still pending")
	}
}

func TestSchedulePastFireAtIsImmediate(t *testing.T) {
	ft := installFakeTimers(t)
	s := NewLocalScheduler(&recordingDeliverer{}, clock.NewFake(schedNow))

	if err := s.Schedule(Request{ID: "late", FireAt: schedNow.Add(-time.Hour)}); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if ft.timers[0].delay != 0 {
		t.Errorf("delay = %v, want 0", ft.timers[0].delay)
	}
}

func TestRescheduleReplaces(t *testing.T) {
	ft := installFakeTimers(t)
	d := &recordingDeliverer{}
	s := NewLocalScheduler(d, clock.NewFake(schedNow))

	s.Schedule(Request{ID: "timer-end", Title: "first", FireAt: schedNow.Add(time.Minute)})
	s.Schedule(Request{ID: "timer-end", Title: "second", FireAt: schedNow.Add(2 * time.Minute)})

	pending := s.Pending()
	if len(pending) != 1 || pending[0].Title != "second" {
		t.Fatalf("Pending() = %+v, want only the replacement", pending)
	}
	if !ft.timers[0].stopped {
		t.Error("replaced timer was not stopped")
	}

	ft.fireAll()
	if len(d.got) != 1 || d.got[0].Title != "second" {
		t.Errorf("delivered %+v, want only the replacement", d.got)
	}
}

func TestCancel(t *testing.T) {
	ft := installFakeTimers(t)
	d := &recordingDeliverer{}
	s := NewLocalScheduler(d, clock.NewFake(schedNow))

	s.Schedule(Request{ID: "a", FireAt: schedNow.Add(time.Minute)})
	s.Schedule(Request{ID: "b", FireAt: schedNow.Add(time.Minute)})
	s.Cancel("a", "unknown")

	pending := s.Pending()
	if len(pending) != 1 || pending[0].ID != "b" {
		t.Errorf("Pending() = %+v, want only b", pending)
	}
	ft.fireAll()
	if d.calls != 1 {
		t.Errorf("deliveries = %d, want 1", d.calls)
	}
}

func TestStaleFireIsIgnored(t *testing.T) {
	ft := installFakeTimers(t)
	d := &recordingDeliverer{}
	s := NewLocalScheduler(d, clock.NewFake(schedNow))

	s.Schedule(Request{ID: "x", FireAt: schedNow})
	first := ft.timers[0].fn
	s.Cancel("x")

	// The runtime timer raced the cancel and fired anyway.
	first()
	if d.calls != 0 {
		t.Errorf("cancelled request delivered %d times", d.calls)
	}
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	ft := installFakeTimers(t)
	d := &recordingDeliverer{err: errors.New("tray gone")}
	s := NewLocalScheduler(d, clock.NewFake(schedNow))

	s.Schedule(Request{ID: "x", FireAt: schedNow})
	ft.fireAll()
	if d.calls != 1 {
		t.Errorf("deliveries = %d, want 1", d.calls)
	}
}

func TestScheduleRequiresID(t *testing.T) {
	s := NewLocalScheduler(&recordingDeliverer{}, nil)
	if err := s.Schedule(Request{}); !errors.Is(err, ErrEmptyID) {
		t.Errorf("Schedule() error = %v, want ErrEmptyID", err)
	}
}

func TestCloseCancelsAll(t *testing.T) {
	installFakeTimers(t)
	s := NewLocalScheduler(&recordingDeliverer{}, clock.NewFake(schedNow))
	s.Schedule(Request{ID: "a", FireAt: schedNow.Add(time.Minute)})
	s.Schedule(Request{ID: "b", FireAt: schedNow.Add(time.Hour)})
	s.Close()
	if n := len(s.Pending()); n != 0 {
		t.Errorf("Pending() after Close = %d, want 0", n)
	}
}

func TestFallback(t *testing.T) {
	primary := &recordingDeliverer{err: errors.New("down")}
	secondary := &recordingDeliverer{}
	f := Fallback{Primary: primary, Secondary: secondary}

	if err := f.Deliver(Notification{Title: "hi"}); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if len(secondary.got) != 1 {
		t.Error("secondary did not receive the notification")
	}
}

func TestRealTimerDelivers(t *testing.T) {
	d := &recordingDeliverer{}
	s := NewLocalScheduler(d, nil)
	if err := s.Schedule(Request{ID: "now", Title: "now", FireAt: time.Now()}); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		d.mu.Lock()
		n := len(d.got)
		d.mu.Unlock()
		if n == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("notification was not delivered by the runtime timer")
}
