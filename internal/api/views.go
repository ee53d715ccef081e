package api

import (
	"time"

	"github.com/yourname/sleeplog/internal"
	"github.com/yourname/sleeplog/internal/service"
)

type sessionView struct {
	internal.OvernightSession
	DateLabel string  `json:"date_label"`
	Summary   string  `json:"summary"`
	Hours     float64 `json:"hours"`
	Label     string  `json:"label"`
}

func newSessionView(s internal.OvernightSession, loc *time.Location) sessionView {
	hours := service.DurationHours(s)
	return sessionView{
		OvernightSession: s,
		DateLabel:        service.DateLabel(s, loc),
		Summary:          service.SummaryLine(s, loc),
		Hours:            service.RoundedHours(hours),
		Label:            service.RestLabel(hours),
	}
}

type sleepinessView struct {
	internal.SleepinessSample
	DateLabel   string `json:"date_label"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
}

func newSleepinessView(s internal.SleepinessSample, loc *time.Location) sleepinessView {
	return sleepinessView{
		SleepinessSample: s,
		DateLabel:        service.SampleLabel(s, loc),
		Summary:          service.SampleSummary(s),
		Description:      service.SleepinessDescription(s.Value),
	}
}

type historyView struct {
	Kind       internal.RecordKind `json:"kind"`
	Session    *sessionView        `json:"session,omitempty"`
	Sleepiness *sleepinessView     `json:"sleepiness,omitempty"`
}

func newHistoryView(r internal.Record, loc *time.Location) historyView {
	v := historyView{Kind: r.Kind}
	switch {
	case r.Session != nil:
		sv := newSessionView(*r.Session, loc)
		v.Session = &sv
	case r.Sleepiness != nil:
		sv := newSleepinessView(*r.Sleepiness, loc)
		v.Sleepiness = &sv
	}
	return v
}
