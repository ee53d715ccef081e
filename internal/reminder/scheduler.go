package reminder

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/sleeplog/internal"
)

const (
	DefaultTitle = "Time to log your sleepiness"
	DefaultBody  = "Open Sleep Tracker and record how you feel right now."
)

// Reminder is a notification armed for a future instant.
type Reminder struct {
	ID    string    `json:"id"`
	At    time.Time `json:"at"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
}

type entry struct {
	reminder Reminder
	timer    Timer
}

// Scheduler arms one-shot reminders. Each reminder fires at most once and
// can be cancelled or moved until it does. Delivery failures are logged and
// not retried.
type Scheduler struct {
	mu       sync.Mutex
	notifier Notifier
	clock    Clock
	logger   internal.Logger
	title    string
	body     string
	pending  map[string]*entry
}

type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

func WithMessage(title, body string) Option {
	return func(s *Scheduler) {
		if title != "" {
			s.title = title
		}
		if body != "" {
			s.body = body
		}
	}
}

func NewScheduler(notifier Notifier, logger internal.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		notifier: notifier,
		clock:    SystemClock{},
		logger:   logger,
		title:    DefaultTitle,
		body:     DefaultBody,
		pending:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule asks for notification permission if needed and arms a reminder
// after the given delay. It reports false when permission is refused or the
// platform errors.
func (s *Scheduler) Schedule(ctx context.Context, after time.Duration) (Reminder, bool) {
	if !s.permitted(ctx) {
		return Reminder{}, false
	}
	r := Reminder{
		ID:    uuid.NewString(),
		At:    s.clock.Now().Add(after),
		Title: s.title,
		Body:  s.body,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.arm(r, after)
	s.logger.Infof("reminder %s scheduled for %s", r.ID, r.At.Format(time.RFC3339))
	return r, true
}

// Cancel disarms a pending reminder. It reports false for unknown or already
// fired reminders.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.pending[id]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(s.pending, id)
	return true
}

// Reschedule moves a pending reminder to fire after the new delay, keeping
// its id.
func (s *Scheduler) Reschedule(ctx context.Context, id string, after time.Duration) (Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.pending[id]
	if !ok {
		return Reminder{}, false
	}
	e.timer.Stop()
	r := e.reminder
	r.At = s.clock.Now().Add(after)
	s.arm(r, after)
	return r, true
}

// Pending lists armed reminders, soonest first.
func (s *Scheduler) Pending() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Reminder, 0, len(s.pending))
	for _, e := range s.pending {
		out = append(out, e.reminder)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

// Stop cancels every pending reminder.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.pending {
		e.timer.Stop()
		delete(s.pending, id)
	}
}

// arm registers r. Caller holds s.mu.
func (s *Scheduler) arm(r Reminder, after time.Duration) {
	e := &entry{reminder: r}
	e.timer = s.clock.AfterFunc(after, func() { s.fire(e) })
	s.pending[r.ID] = e
}

func (s *Scheduler) fire(e *entry) {
	s.mu.Lock()
	current, ok := s.pending[e.reminder.ID]
	if !ok || current != e {
		s.mu.Unlock()
		return
	}
	delete(s.pending, e.reminder.ID)
	s.mu.Unlock()

	r := e.reminder
	err := s.notifier.Notify(context.Background(), Notification{ID: r.ID, Title: r.Title, Body: r.Body, At: r.At})
	if err != nil {
		s.logger.Errorf("reminder %s: delivery failed: %v", r.ID, err)
	}
}

func (s *Scheduler) permitted(ctx context.Context) bool {
	granted, err := s.notifier.CheckPermission(ctx)
	if err != nil {
		s.logger.Errorf("reminder: checking notification permission: %v", err)
		return false
	}
	if granted {
		return true
	}
	granted, err = s.notifier.RequestPermission(ctx)
	if err != nil {
		s.logger.Errorf("reminder: requesting notification permission: %v", err)
		return false
	}
	if !granted {
		s.logger.Warn("reminder: notifications are not allowed")
	}
	return granted
}
