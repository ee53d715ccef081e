package service

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/yourname/sleeplog/internal"
)

// Keys in the key-value store. Each holds an independent document.
const (
	OvernightKey    = "sleeptracker_overnight"
	SleepinessKey   = "sleeptracker_sleepiness"
	CurrentStartKey = "sleeptracker_current_start"
)

type sessionRow struct {
	SleepStart *string `json:"sleepStart"`
	SleepEnd   *string `json:"sleepEnd"`
}

type sleepinessRow struct {
	LoggedAt *string  `json:"loggedAt"`
	Value    *float64 `json:"value"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func optionalTimestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := formatTimestamp(t)
	return &s
}

func encodeSessions(sessions []internal.OvernightSession) (string, error) {
	rows := make([]sessionRow, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, sessionRow{
			SleepStart: optionalTimestamp(s.Start),
			SleepEnd:   optionalTimestamp(s.End),
		})
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode sessions: %w", err)
	}
	return string(raw), nil
}

func encodeSleepiness(samples []internal.SleepinessSample) (string, error) {
	rows := make([]sleepinessRow, 0, len(samples))
	for _, s := range samples {
		v := float64(s.Value)
		rows = append(rows, sleepinessRow{
			LoggedAt: optionalTimestamp(s.LoggedAt),
			Value:    &v,
		})
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode sleepiness: %w", err)
	}
	return string(raw), nil
}

// decodeRows splits a stored JSON array into its elements so that one bad
// element cannot take the rest down with it.
func decodeRows(doc string) ([]json.RawMessage, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal([]byte(doc), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// decodeSessions returns the well-formed sessions and how many rows were dropped.
func decodeSessions(doc string) ([]internal.OvernightSession, int, error) {
	rows, err := decodeRows(doc)
	if err != nil {
		return nil, 0, err
	}
	sessions := make([]internal.OvernightSession, 0, len(rows))
	dropped := 0
	for _, raw := range rows {
		var row sessionRow
		if err := json.Unmarshal(raw, &row); err != nil || row.SleepStart == nil || row.SleepEnd == nil {
			dropped++
			continue
		}
		start, err := parseTimestamp(*row.SleepStart)
		if err != nil {
			dropped++
			continue
		}
		end, err := parseTimestamp(*row.SleepEnd)
		if err != nil {
			dropped++
			continue
		}
		sessions = append(sessions, internal.OvernightSession{Start: start, End: end})
	}
	return sessions, dropped, nil
}

// decodeSleepiness mirrors decodeSessions. A missing loggedAt is read as now.
// Values must be whole numbers within int32 range.
func decodeSleepiness(doc string, now time.Time) ([]internal.SleepinessSample, int, error) {
	rows, err := decodeRows(doc)
	if err != nil {
		return nil, 0, err
	}
	samples := make([]internal.SleepinessSample, 0, len(rows))
	dropped := 0
	for _, raw := range rows {
		var row sleepinessRow
		if err := json.Unmarshal(raw, &row); err != nil || row.Value == nil {
			dropped++
			continue
		}
		loggedAt := now
		if row.LoggedAt != nil {
			t, err := parseTimestamp(*row.LoggedAt)
			if err != nil {
				dropped++
				continue
			}
			loggedAt = t
		}
		v := *row.Value
		if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
			dropped++
			continue
		}
		samples = append(samples, internal.SleepinessSample{
			Value:    int(v),
			LoggedAt: loggedAt,
		})
	}
	return samples, dropped, nil
}
