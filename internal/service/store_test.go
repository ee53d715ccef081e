package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleeplog/internal"
	"github.com/yourname/sleeplog/internal/storage"
)

var (
	ctx  = context.Background()
	base = time.Date(2025, 11, 28, 22, 45, 0, 0, time.UTC)
)

func newTestStore(t *testing.T, kv storage.KeyValueStore) *Store {
	t.Helper()
	return NewStore(ctx, kv, internal.NopLogger(),
		WithLocation(time.UTC),
		WithClock(func() time.Time { return base }),
	)
}

func TestBeginThenComplete(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStore())
	end := base.Add(7*time.Hour + 45*time.Minute)

	s.BeginSession(ctx, base)
	pending, ok := s.PendingStart()
	require.True(t, ok)
	assert.True(t, pending.Equal(base))

	sess, ok := s.CompleteSession(ctx, end)
	require.True(t, ok)
	assert.True(t, sess.Start.Equal(base))
	assert.True(t, sess.End.Equal(end))
	assert.NotEmpty(t, sess.ID)

	_, ok = s.PendingStart()
	assert.False(t, ok)
	assert.Len(t, s.Sessions(), 1)
	assert.Equal(t, 1, s.Streak())
}

func TestCompleteWithoutBegin(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStore())
	_, ok := s.CompleteSession(ctx, base)
	assert.False(t, ok)
	assert.Empty(t, s.Sessions())
	assert.Empty(t, s.All())
}

func TestCompleteNotAfterStart(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStore())
	s.BeginSession(ctx, base)

	for _, end := range []time.Time{base, base.Add(-time.Minute)} {
		_, ok := s.CompleteSession(ctx, end)
		assert.False(t, ok)
		pending, ok := s.PendingStart()
		require.True(t, ok)
		assert.True(t, pending.Equal(base))
	}
	assert.Empty(t, s.Sessions())
}

func TestCompleteReportsReason(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStore())

	_, err := s.Complete(ctx, base)
	assert.ErrorIs(t, err, ErrNoPendingStart)

	s.BeginSession(ctx, base)
	_, err = s.Complete(ctx, base)
	assert.ErrorIs(t, err, ErrWakeBeforeBed)

	sess, err := s.Complete(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, sess.End.Equal(base.Add(time.Hour)))
	_, err = s.Complete(ctx, base.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrNoPendingStart)
}

func TestBeginOverwritesPending(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStore())
	s.BeginSession(ctx, base)
	later := base.Add(time.Hour)
	s.BeginSession(ctx, later)

	pending, ok := s.PendingStart()
	require.True(t, ok)
	assert.True(t, pending.Equal(later))
}

func TestDeleteSession(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStore())
	var ids []string
	for i := 0; i < 3; i++ {
		start := base.AddDate(0, 0, i)
		s.BeginSession(ctx, start)
		sess, ok := s.CompleteSession(ctx, start.Add(8*time.Hour))
		require.True(t, ok)
		ids = append(ids, sess.ID)
	}
	s.LogSleepiness(ctx, 3, base)
	assert.Equal(t, 3, s.Streak())

	assert.True(t, s.DeleteSession(ctx, ids[1]))
	remaining := s.Sessions()
	require.Len(t, remaining, 2)
	assert.Equal(t, ids[0], remaining[0].ID)
	assert.Equal(t, ids[2], remaining[1].ID)
	assert.Len(t, s.All(), 3)
	assert.Equal(t, 1, s.Streak())

	assert.False(t, s.DeleteSession(ctx, ids[1]))
	assert.False(t, s.DeleteSession(ctx, "nope"))
	assert.Len(t, s.Sessions(), 2)
}

func TestLogAndDeleteSleepiness(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStore())
	sample := s.LogSleepiness(ctx, 5, base)

	all := s.Sleepiness()
	require.Len(t, all, 1)
	assert.Equal(t, 5, all[0].Value)
	assert.True(t, all[0].LoggedAt.Equal(base))

	assert.True(t, s.Delete(ctx, internal.SleepinessRecord(sample)))
	assert.Empty(t, s.Sleepiness())
	assert.Empty(t, s.All())
}

func TestLogSleepinessDoesNotRangeCheck(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStore())
	s.LogSleepiness(ctx, 42, base)
	s.LogSleepiness(ctx, -1, base)
	assert.Len(t, s.Sleepiness(), 2)
}

func TestAllKeepsInsertionOrder(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStore())
	s.LogSleepiness(ctx, 2, base)
	s.BeginSession(ctx, base)
	s.CompleteSession(ctx, base.Add(time.Hour))
	s.LogSleepiness(ctx, 6, base)

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, internal.KindSleepiness, all[0].Kind)
	assert.Equal(t, internal.KindSession, all[1].Kind)
	assert.Equal(t, 6, all[2].Sleepiness.Value)
}

func TestGettersReturnCopies(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStore())
	s.LogSleepiness(ctx, 4, base)
	got := s.Sleepiness()
	got[0].Value = 99
	assert.Equal(t, 4, s.Sleepiness()[0].Value)
}

func TestRoundTripThroughKV(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := newTestStore(t, kv)
	s.BeginSession(ctx, base)
	s.CompleteSession(ctx, base.Add(8*time.Hour))
	s.LogSleepiness(ctx, 5, base.Add(9*time.Hour))
	nextBed := base.Add(24 * time.Hour)
	s.BeginSession(ctx, nextBed)

	reloaded := newTestStore(t, kv)
	sessions := reloaded.Sessions()
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].Start.Equal(base))
	assert.True(t, sessions[0].End.Equal(base.Add(8*time.Hour)))

	samples := reloaded.Sleepiness()
	require.Len(t, samples, 1)
	assert.Equal(t, 5, samples[0].Value)
	assert.True(t, samples[0].LoggedAt.Equal(base.Add(9*time.Hour)))

	pending, ok := reloaded.PendingStart()
	require.True(t, ok)
	assert.True(t, pending.Equal(nextBed))
	assert.Len(t, reloaded.All(), 2)
}

func TestPersistedFormat(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := newTestStore(t, kv)
	s.BeginSession(ctx, base)
	s.CompleteSession(ctx, base.Add(time.Hour))
	s.LogSleepiness(ctx, 3, base)

	doc, ok, _ := kv.Get(ctx, OvernightKey)
	require.True(t, ok)
	assert.JSONEq(t, `[{"sleepStart":"2025-11-28T22:45:00Z","sleepEnd":"2025-11-28T23:45:00Z"}]`, doc)

	doc, ok, _ = kv.Get(ctx, SleepinessKey)
	require.True(t, ok)
	assert.JSONEq(t, `[{"loggedAt":"2025-11-28T22:45:00Z","value":3}]`, doc)

	_, ok, _ = kv.Get(ctx, CurrentStartKey)
	assert.False(t, ok)
}

func TestReloadSkipsMalformedRecords(t *testing.T) {
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, OvernightKey, `[
		{"sleepStart":"2025-11-28T22:45:00.000Z","sleepEnd":"2025-11-29T06:30:00.000Z"},
		{"sleepStart":null,"sleepEnd":"2025-11-29T06:30:00.000Z"},
		{"sleepStart":"2025-11-28T22:45:00.000Z"},
		{"sleepStart":"yesterday","sleepEnd":"2025-11-29T06:30:00.000Z"},
		42
	]`))
	require.NoError(t, kv.Set(ctx, SleepinessKey, `[
		{"loggedAt":"2025-11-28T22:32:00.000Z","value":5},
		{"loggedAt":"2025-11-28T22:32:00.000Z","value":null},
		{"loggedAt":"2025-11-28T22:32:00.000Z","value":"five"},
		{"value":2},
		{"loggedAt":"soon","value":1}
	]`))
	require.NoError(t, kv.Set(ctx, CurrentStartKey, "not a time"))

	s := newTestStore(t, kv)
	sessions := s.Sessions()
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].End.Equal(time.Date(2025, 11, 29, 6, 30, 0, 0, time.UTC)))

	samples := s.Sleepiness()
	require.Len(t, samples, 2)
	assert.Equal(t, 5, samples[0].Value)
	assert.Equal(t, 2, samples[1].Value)
	assert.True(t, samples[1].LoggedAt.Equal(base))

	_, ok := s.PendingStart()
	assert.False(t, ok)
}

func TestReloadDropsWholeUnreadableKey(t *testing.T) {
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, OvernightKey, `{"oops":`))
	require.NoError(t, kv.Set(ctx, SleepinessKey, `[{"loggedAt":"2025-11-28T22:32:00Z","value":4}]`))

	s := newTestStore(t, kv)
	assert.Empty(t, s.Sessions())
	assert.Len(t, s.Sleepiness(), 1)
}

func TestReloadDropsValuesThatAreNotWholeInts(t *testing.T) {
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, SleepinessKey, `[
		{"loggedAt":"2025-11-28T22:32:00Z","value":1e300},
		{"loggedAt":"2025-11-28T22:32:00Z","value":-1e300},
		{"loggedAt":"2025-11-28T22:32:00Z","value":5.5},
		{"loggedAt":"2025-11-28T22:32:00Z","value":7.0},
		{"loggedAt":"2025-11-28T22:32:00Z","value":-3}
	]`))

	s := newTestStore(t, kv)
	samples := s.Sleepiness()
	require.Len(t, samples, 2)
	assert.Equal(t, 7, samples[0].Value)
	assert.Equal(t, -3, samples[1].Value)
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, storage.ErrUnavailable
}
func (failingKV) Set(context.Context, string, string) error { return storage.ErrUnavailable }
func (failingKV) Remove(context.Context, string) error      { return errors.New("boom") }
func (failingKV) Close() error                              { return nil }

func TestStorageFailuresKeepMemoryAuthoritative(t *testing.T) {
	s := newTestStore(t, failingKV{})
	s.BeginSession(ctx, base)
	sess, ok := s.CompleteSession(ctx, base.Add(6*time.Hour))
	require.True(t, ok)
	s.LogSleepiness(ctx, 1, base)

	assert.Len(t, s.Sessions(), 1)
	assert.Len(t, s.Sleepiness(), 1)
	found, ok := s.FindSession(sess.ID)
	require.True(t, ok)
	assert.Equal(t, sess, found)
}

func TestSummary(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStore())
	sum := s.Summary()
	assert.Equal(t, NoDataLabel, sum.Label)
	assert.Nil(t, sum.Latest)
	assert.Equal(t, 0, sum.Streak)

	s.BeginSession(ctx, base)
	s.CompleteSession(ctx, base.Add(7*time.Hour+45*time.Minute))
	s.BeginSession(ctx, base.Add(24*time.Hour))

	sum = s.Summary()
	require.NotNil(t, sum.LatestHours)
	assert.Equal(t, 7.8, *sum.LatestHours)
	assert.Equal(t, "Okay night", sum.Label)
	assert.Equal(t, "10:45 PM – 06:30 AM · 7.8 h", sum.LatestLine)
	assert.Equal(t, "Fri, Nov 28, 2025", sum.LatestDate)
	assert.Equal(t, 1, sum.Streak)
	require.NotNil(t, sum.PendingStart)
}
