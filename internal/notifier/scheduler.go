package notifier

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/focusday/internal/clock"
	"github.com/julianstephens/focusday/internal/logger"
)

// Request is a reminder to deliver at FireAt. Requests are keyed by ID.
type Request struct {
	ID     string
	Title  string
	Body   string
	FireAt time.Time
}

// Notification is what reaches the user once a Request fires.
type Notification struct {
	Title string
	Body  string
}

// Deliverer shows a notification to the user.
type Deliverer interface {
	Deliver(n Notification) error
}

var afterFunc = func(d time.Duration, f func()) (stop func() bool) {
	return time.AfterFunc(d, f).Stop
}

var ErrEmptyID = errors.New("notification id is required")

type pending struct {
	req  Request
	stop func() bool
}

// LocalScheduler keeps at most one pending request per ID in process and
// hands each to a Deliverer when its time comes. Scheduling an ID that is
// already pending replaces it.
type LocalScheduler struct {
	mu        sync.Mutex
	deliverer Deliverer
	clock     clock.Clock
	pending   map[string]*pending
}

func NewLocalScheduler(d Deliverer, c clock.Clock) *LocalScheduler {
	if c == nil {
		c = clock.System{}
	}
	return &LocalScheduler{
		deliverer: d,
		clock:     c,
		pending:   make(map[string]*pending),
	}
}

func (s *LocalScheduler) Schedule(req Request) error {
	if req.ID == "" {
		return ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.pending[req.ID]; ok {
		old.stop()
		delete(s.pending, req.ID)
	}

	delay := req.FireAt.Sub(s.clock.Now())
	if delay < 0 {
		delay = 0
	}

	p := &pending{req: req}
	p.stop = afterFunc(delay, func() { s.fire(p) })
	s.pending[req.ID] = p
	logger.Debug("Notification scheduled", "id", req.ID, "fire_at", req.FireAt.Format(time.RFC3339))
	return nil
}

func (s *LocalScheduler) fire(p *pending) {
	s.mu.Lock()
	current, ok := s.pending[p.req.ID]
	if !ok || current != p {
		// replaced or cancelled after the timer had already fired
		s.mu.Unlock()
		return
	}
	delete(s.pending, p.req.ID)
	s.mu.Unlock()

	if err := s.deliverer.Deliver(Notification{Title: p.req.Title, Body: p.req.Body}); err != nil {
		logger.Warn("Failed to deliver notification", "id", p.req.ID, "error", err)
	}
}

// Cancel drops pending requests. Unknown IDs are ignored.
func (s *LocalScheduler) Cancel(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if p, ok := s.pending[id]; ok {
			p.stop()
			delete(s.pending, id)
		}
	}
}

// Pending returns the pending requests ordered by fire time.
func (s *LocalScheduler) Pending() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	reqs := make([]Request, 0, len(s.pending))
	for _, p := range s.pending {
		reqs = append(reqs, p.req)
	}
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].FireAt.Equal(reqs[j].FireAt) {
			return reqs[i].ID < reqs[j].ID
		}
		return reqs[i].FireAt.Before(reqs[j].FireAt)
	})
	return reqs
}

// Close cancels everything still pending.
func (s *LocalScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.pending {
		p.stop()
		delete(s.pending, id)
	}
}
