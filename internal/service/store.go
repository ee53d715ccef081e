package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/sleeplog/internal"
	"github.com/yourname/sleeplog/internal/storage"
)

// Store owns the overnight sessions, the sleepiness samples and the pending
// bed time, and mirrors all three to a key-value store after every change.
// Persistence failures are logged; the in-memory state stays authoritative.
type Store struct {
	mu         sync.RWMutex
	kv         storage.KeyValueStore
	logger     internal.Logger
	now        func() time.Time
	loc        *time.Location
	sessions   []internal.OvernightSession
	sleepiness []internal.SleepinessSample
	all        []internal.Record // insertion order across both kinds
	pending    *time.Time
	streak     int
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the zone calendar days are counted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// NewStore builds a Store and rehydrates it from kv.
func NewStore(ctx context.Context, kv storage.KeyValueStore, logger internal.Logger, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		logger: logger,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reload(ctx)
	return s
}

func (s *Store) Location() *time.Location { return s.loc }

// Reload discards in-memory state and reads the three keys again. Malformed
// documents or records are skipped.
func (s *Store) Reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	s.sleepiness = nil
	s.all = nil
	s.pending = nil

	if doc, ok := s.read(ctx, OvernightKey); ok {
		sessions, dropped, err := decodeSessions(doc)
		if err != nil {
			s.logger.Warnf("records: discarding unreadable %s: %v", OvernightKey, err)
		}
		if dropped > 0 {
			s.logger.Warnf("records: skipped %d malformed overnight entries", dropped)
		}
		for _, sess := range sessions {
			sess.ID = uuid.NewString()
			s.sessions = append(s.sessions, sess)
			s.all = append(s.all, internal.SessionRecord(sess))
		}
	}

	if doc, ok := s.read(ctx, SleepinessKey); ok {
		samples, dropped, err := decodeSleepiness(doc, s.now())
		if err != nil {
			s.logger.Warnf("records: discarding unreadable %s: %v", SleepinessKey, err)
		}
		if dropped > 0 {
			s.logger.Warnf("records: skipped %d malformed sleepiness entries", dropped)
		}
		for _, sample := range samples {
			sample.ID = uuid.NewString()
			s.sleepiness = append(s.sleepiness, sample)
			s.all = append(s.all, internal.SleepinessRecord(sample))
		}
	}

	if raw, ok := s.read(ctx, CurrentStartKey); ok {
		if t, err := parseTimestamp(raw); err == nil {
			s.pending = &t
		} else {
			s.logger.Warnf("records: ignoring unreadable pending start %q", raw)
		}
	}

	s.recomputeStreak()
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warnf("records: reading %s: %v", key, err)
		return "", false
	}
	return v, ok && v != ""
}

// persist writes all three keys. Caller holds s.mu.
func (s *Store) persist(ctx context.Context) {
	if doc, err := encodeSessions(s.sessions); err != nil {
		s.logger.Errorf("records: %v", err)
	} else if err := s.kv.Set(ctx, OvernightKey, doc); err != nil {
		s.logger.Warnf("records: writing %s: %v", OvernightKey, err)
	}

	if doc, err := encodeSleepiness(s.sleepiness); err != nil {
		s.logger.Errorf("records: %v", err)
	} else if err := s.kv.Set(ctx, SleepinessKey, doc); err != nil {
		s.logger.Warnf("records: writing %s: %v", SleepinessKey, err)
	}

	var err error
	if s.pending != nil {
		err = s.kv.Set(ctx, CurrentStartKey, formatTimestamp(*s.pending))
	} else {
		err = s.kv.Remove(ctx, CurrentStartKey)
	}
	if err != nil {
		s.logger.Warnf("records: writing %s: %v", CurrentStartKey, err)
	}
}

func (s *Store) recomputeStreak() {
	s.streak = Streak(s.sessions, s.loc)
}

// --- Overnight ---

// BeginSession records a bed time, replacing any unfinished one.
func (s *Store) BeginSession(ctx context.Context, start time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &start
	s.persist(ctx)
}

func (s *Store) PendingStart() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pending == nil {
		return time.Time{}, false
	}
	return *s.pending, true
}

var (
	ErrNoPendingStart = errors.New("no bed time saved")
	ErrWakeBeforeBed  = errors.New("wake-up time must be after your sleep time")
)

// CompleteSession pairs end with the pending bed time. It reports false and
// changes nothing when there is no pending start or end is not after it.
func (s *Store) CompleteSession(ctx context.Context, end time.Time) (internal.OvernightSession, bool) {
	sess, err := s.Complete(ctx, end)
	return sess, err == nil
}

// Complete is CompleteSession returning why it refused: ErrNoPendingStart or
// ErrWakeBeforeBed, decided under the same lock as the change.
func (s *Store) Complete(ctx context.Context, end time.Time) (internal.OvernightSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return internal.OvernightSession{}, ErrNoPendingStart
	}
	if !end.After(*s.pending) {
		return internal.OvernightSession{}, ErrWakeBeforeBed
	}

	sess := internal.OvernightSession{ID: uuid.NewString(), Start: *s.pending, End: end}
	s.sessions = append(s.sessions, sess)
	s.all = append(s.all, internal.SessionRecord(sess))
	s.pending = nil
	s.recomputeStreak()
	s.persist(ctx)
	return sess, nil
}

// DeleteSession removes the session with id. Unknown ids are a no-op.
func (s *Store) DeleteSession(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, sess := range s.sessions {
		if sess.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.sessions = append(s.sessions[:idx:idx], s.sessions[idx+1:]...)
	s.dropFromAll(id)
	s.recomputeStreak()
	s.persist(ctx)
	return true
}

// --- Sleepiness ---

// LogSleepiness appends a sample. The value is not range checked.
func (s *Store) LogSleepiness(ctx context.Context, value int, when time.Time) internal.SleepinessSample {
	s.mu.Lock()
	defer s.mu.Unlock()

	sample := internal.SleepinessSample{ID: uuid.NewString(), Value: value, LoggedAt: when}
	s.sleepiness = append(s.sleepiness, sample)
	s.all = append(s.all, internal.SleepinessRecord(sample))
	s.persist(ctx)
	return sample
}

func (s *Store) DeleteSleepiness(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, sample := range s.sleepiness {
		if sample.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.sleepiness = append(s.sleepiness[:idx:idx], s.sleepiness[idx+1:]...)
	s.dropFromAll(id)
	s.persist(ctx)
	return true
}

// Delete removes whichever kind of record r holds.
func (s *Store) Delete(ctx context.Context, r internal.Record) bool {
	switch r.Kind {
	case internal.KindSession:
		return s.DeleteSession(ctx, r.ID())
	case internal.KindSleepiness:
		return s.DeleteSleepiness(ctx, r.ID())
	}
	return false
}

func (s *Store) dropFromAll(id string) {
	for i, r := range s.all {
		if r.ID() == id {
			s.all = append(s.all[:i:i], s.all[i+1:]...)
			return
		}
	}
}

// --- Getters ---
// All getters return copies in insertion order.

func (s *Store) Sessions() []internal.OvernightSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]internal.OvernightSession, len(s.sessions))
	copy(out, s.sessions)
	return out
}

func (s *Store) Sleepiness() []internal.SleepinessSample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]internal.SleepinessSample, len(s.sleepiness))
	copy(out, s.sleepiness)
	return out
}

func (s *Store) All() []internal.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]internal.Record, 0, len(s.all))
	for _, r := range s.all {
		switch {
		case r.Session != nil:
			out = append(out, internal.SessionRecord(*r.Session))
		case r.Sleepiness != nil:
			out = append(out, internal.SleepinessRecord(*r.Sleepiness))
		}
	}
	return out
}

func (s *Store) FindSession(id string) (internal.OvernightSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess, true
		}
	}
	return internal.OvernightSession{}, false
}

func (s *Store) FindSleepiness(id string) (internal.SleepinessSample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sample := range s.sleepiness {
		if sample.ID == id {
			return sample, true
		}
	}
	return internal.SleepinessSample{}, false
}

// LatestSession is the most recently added session, not the latest by date.
func (s *Store) LatestSession() (internal.OvernightSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.sessions) == 0 {
		return internal.OvernightSession{}, false
	}
	return s.sessions[len(s.sessions)-1], true
}

func (s *Store) Streak() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.streak
}

// Summary snapshots the derived values shown on the overview screen.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		Label:      LatestRestLabel(s.sessions),
		Streak:     s.streak,
		Sessions:   len(s.sessions),
		Sleepiness: len(s.sleepiness),
	}
	if s.pending != nil {
		p := *s.pending
		sum.PendingStart = &p
	}
	if n := len(s.sessions); n > 0 {
		latest := s.sessions[n-1]
		hours := RoundedHours(DurationHours(latest))
		sum.Latest = &latest
		sum.LatestHours = &hours
		sum.LatestLine = SummaryLine(latest, s.loc)
		sum.LatestDate = DateLabel(latest, s.loc)
	}
	return sum
}
