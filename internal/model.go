package internal

import "time"

// OvernightSession is one night of sleep, from bed time to wake time.
type OvernightSession struct {
	ID    string    `json:"id" yaml:"id"`
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Duration is zero for a session that has no end yet.
func (s OvernightSession) Duration() time.Duration {
	if s.End.IsZero() || s.Start.IsZero() {
		return 0
	}
	return s.End.Sub(s.Start)
}

// EffectiveTime is the instant the session counts towards: the wake time
// when known, otherwise the bed time.
func (s OvernightSession) EffectiveTime() time.Time {
	if !s.End.IsZero() {
		return s.End
	}
	return s.Start
}

// SleepinessSample is one Stanford Sleepiness Scale self report (1–7).
type SleepinessSample struct {
	ID       string    `json:"id" yaml:"id"`
	Value    int       `json:"value" yaml:"value"`
	LoggedAt time.Time `json:"logged_at" yaml:"logged_at"`
}

type RecordKind string

const (
	KindSession    RecordKind = "session"
	KindSleepiness RecordKind = "sleepiness"
)

// Record is either a session or a sleepiness sample. Exactly one of the
// pointers is set, matching Kind.
type Record struct {
	Kind       RecordKind        `json:"kind" yaml:"kind"`
	Session    *OvernightSession `json:"session,omitempty" yaml:"session,omitempty"`
	Sleepiness *SleepinessSample `json:"sleepiness,omitempty" yaml:"sleepiness,omitempty"`
}

func SessionRecord(s OvernightSession) Record {
	return Record{Kind: KindSession, Session: &s}
}

func SleepinessRecord(s SleepinessSample) Record {
	return Record{Kind: KindSleepiness, Sleepiness: &s}
}

// ID returns the id of whichever record is set.
func (r Record) ID() string {
	switch r.Kind {
	case KindSession:
		if r.Session != nil {
			return r.Session.ID
		}
	case KindSleepiness:
		if r.Sleepiness != nil {
			return r.Sleepiness.ID
		}
	}
	return ""
}

// Time is the instant used to order records in history listings.
func (r Record) Time() time.Time {
	switch {
	case r.Session != nil:
		return r.Session.EffectiveTime()
	case r.Sleepiness != nil:
		return r.Sleepiness.LoggedAt
	}
	return time.Time{}
}
