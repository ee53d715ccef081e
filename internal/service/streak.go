package service

import (
	"sort"
	"time"

	"github.com/yourname/sleeplog/internal"
)

// civilDay is a calendar date with no zone attached.
type civilDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time, loc *time.Location) civilDay {
	y, m, d := t.In(loc).Date()
	return civilDay{y, m, d}
}

// daysBetween counts calendar days from b forward to a.
func daysBetween(a, b civilDay) int {
	ta := time.Date(a.year, a.month, a.day, 0, 0, 0, 0, time.UTC)
	tb := time.Date(b.year, b.month, b.day, 0, 0, 0, 0, time.UTC)
	return int(ta.Sub(tb).Hours() / 24)
}

// Streak counts consecutive calendar days, walking back from the most recent
// logged day, that have at least one session. A session belongs to the day of
// its wake time (its bed time if it never ended), read in loc. Several
// sessions on the same day count once.
func Streak(sessions []internal.OvernightSession, loc *time.Location) int {
	if len(sessions) == 0 {
		return 0
	}
	if loc == nil {
		loc = time.Local
	}

	seen := make(map[civilDay]struct{}, len(sessions))
	days := make([]civilDay, 0, len(sessions))
	for _, s := range sessions {
		d := dayOf(s.EffectiveTime(), loc)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		return daysBetween(days[i], days[j]) > 0
	})

	streak := 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i-1], days[i]) != 1 {
			break
		}
		streak++
	}
	return streak
}
