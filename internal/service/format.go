package service

import (
	"fmt"
	"math"
	"time"

	"github.com/yourname/sleeplog/internal"
)

const (
	DateLayout   = "Mon, Jan 2, 2006"
	ClockLayout  = "03:04 PM"
	SampleLayout = "1/2/2006, 3:04:05 PM"
)

const NoDataLabel = "No data yet"

// Summary is the overview derived from the store at one instant.
type Summary struct {
	Latest       *internal.OvernightSession `json:"latest,omitempty" yaml:"latest,omitempty"`
	LatestHours  *float64                   `json:"latest_hours,omitempty" yaml:"latest_hours,omitempty"`
	LatestLine   string                     `json:"latest_line,omitempty" yaml:"latest_line,omitempty"`
	LatestDate   string                     `json:"latest_date,omitempty" yaml:"latest_date,omitempty"`
	Label        string                     `json:"label" yaml:"label"`
	Streak       int                        `json:"streak" yaml:"streak"`
	Sessions     int                        `json:"sessions" yaml:"sessions"`
	Sleepiness   int                        `json:"sleepiness" yaml:"sleepiness"`
	PendingStart *time.Time                 `json:"pending_start,omitempty" yaml:"pending_start,omitempty"`
}

func DurationHours(s internal.OvernightSession) float64 {
	return s.Duration().Hours()
}

// RoundedHours rounds to one decimal, halves away from zero.
func RoundedHours(h float64) float64 {
	return math.Round(h*10) / 10
}

// DateLabel renders the bed-time date, e.g. "Fri, Nov 28, 2025".
func DateLabel(s internal.OvernightSession, loc *time.Location) string {
	return s.Start.In(loc).Format(DateLayout)
}

// SummaryLine renders e.g. "10:45 PM – 06:30 AM · 7.8 h".
func SummaryLine(s internal.OvernightSession, loc *time.Location) string {
	return fmt.Sprintf("%s – %s · %.1f h",
		s.Start.In(loc).Format(ClockLayout),
		s.End.In(loc).Format(ClockLayout),
		RoundedHours(DurationHours(s)),
	)
}

// RestLabel grades a night by its rounded length in hours.
func RestLabel(hours float64) string {
	h := RoundedHours(hours)
	switch {
	case h >= 8:
		return "Well rested"
	case h >= 6:
		return "Okay night"
	case h >= 4:
		return "Short sleep"
	default:
		return "Running on fumes"
	}
}

// LatestRestLabel grades the most recently added session.
func LatestRestLabel(sessions []internal.OvernightSession) string {
	if len(sessions) == 0 {
		return NoDataLabel
	}
	last := sessions[len(sessions)-1]
	if last.Start.IsZero() || last.End.IsZero() {
		return NoDataLabel
	}
	return RestLabel(DurationHours(last))
}

var stanfordScale = map[int]string{
	1: "Feeling active, vital, alert, or wide awake",
	2: "Functioning at high levels, but not at peak; able to concentrate",
	3: "Awake, but relaxed; responsive but not fully alert",
	4: "Somewhat foggy, let down",
	5: "Foggy; losing interest in remaining awake; slowed down",
	6: "Sleepy, woozy, fighting sleep; prefer to lie down",
	7: "No longer fighting sleep, sleep onset soon; having dream-like thoughts",
}

// SleepinessDescription is the Stanford Sleepiness Scale wording for v, or
// "" outside 1..7.
func SleepinessDescription(v int) string {
	return stanfordScale[v]
}

// SampleLabel renders e.g. "11/28/2025, 10:32:00 PM".
func SampleLabel(s internal.SleepinessSample, loc *time.Location) string {
	return s.LoggedAt.In(loc).Format(SampleLayout)
}

func SampleSummary(s internal.SleepinessSample) string {
	return fmt.Sprintf("Stanford sleepiness level %d", s.Value)
}
