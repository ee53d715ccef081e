package service

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/yourname/sleeplog/internal"
)

func at(day, hour, min int) time.Time {
	return time.Date(2025, 11, day, hour, min, 0, 0, time.UTC)
}

func TestSummaryLineAndDuration(t *testing.T) {
	s := internal.OvernightSession{Start: at(28, 22, 45), End: at(29, 6, 30)}
	assert.InDelta(t, 7.75, DurationHours(s), 1e-9)
	assert.Equal(t, "10:45 PM – 06:30 AM · 7.8 h", SummaryLine(s, time.UTC))
	assert.Equal(t, "Fri, Nov 28, 2025", DateLabel(s, time.UTC))
	assert.Equal(t, "Okay night", RestLabel(DurationHours(s)))
}

func TestRestLabelThresholds(t *testing.T) {
	cases := map[float64]string{
		9:    "Well rested",
		8:    "Well rested",
		7.96: "Well rested",
		7.94: "Okay night",
		6:    "Okay night",
		5.9:  "Short sleep",
		4:    "Short sleep",
		3.9:  "Running on fumes",
		0:    "Running on fumes",
	}
	for hours, want := range cases {
		assert.Equal(t, want, RestLabel(hours), "hours=%v", hours)
	}
}

func TestLatestRestLabel(t *testing.T) {
	assert.Equal(t, NoDataLabel, LatestRestLabel(nil))
	sessions := []internal.OvernightSession{
		{Start: at(27, 22, 0), End: at(28, 8, 0)},
		{Start: at(28, 23, 0), End: at(29, 3, 0)},
	}
	assert.Equal(t, "Short sleep", LatestRestLabel(sessions))
}

func TestSleepinessDescription(t *testing.T) {
	assert.Contains(t, SleepinessDescription(1), "wide awake")
	assert.Empty(t, SleepinessDescription(0))
	assert.Empty(t, SleepinessDescription(8))
}

func TestRenderedHistoryGolden(t *testing.T) {
	sessions := []internal.OvernightSession{
		{Start: at(28, 22, 45), End: at(29, 6, 30)},
		{Start: at(29, 23, 0), End: at(30, 7, 30)},
		{Start: at(30, 1, 15), End: at(30, 5, 0)},
		{Start: time.Date(2025, 12, 1, 23, 50, 0, 0, time.UTC), End: time.Date(2025, 12, 2, 5, 50, 0, 0, time.UTC)},
		{Start: time.Date(2025, 12, 2, 22, 0, 0, 0, time.UTC), End: time.Date(2025, 12, 3, 2, 54, 0, 0, time.UTC)},
	}
	sample := internal.SleepinessSample{Value: 5, LoggedAt: at(28, 22, 32)}

	var buf bytes.Buffer
	for _, s := range sessions {
		fmt.Fprintf(&buf, "%s | %s | %s\n", DateLabel(s, time.UTC), SummaryLine(s, time.UTC), RestLabel(DurationHours(s)))
	}
	fmt.Fprintf(&buf, "%s | %s | %s\n", SampleLabel(sample, time.UTC), SampleSummary(sample), SleepinessDescription(sample.Value))
	fmt.Fprintf(&buf, "streak: %d\n", Streak(sessions, time.UTC))

	g := goldie.New(t)
	g.Assert(t, "history", buf.Bytes())
}
