package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/verte-zerg/phrasebook/internal/model"
)

// KeyListeningTime is the key-value entry holding the DailyMap as JSON.
const KeyListeningTime = "listeningTime"

// KeyValue is the string key-value store the tracker persists to.
type KeyValue interface {
	GetValue(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value string) error
}

// Tracker records listening samples and answers summary queries over them.
type Tracker struct {
	kv KeyValue
}

// NewTracker returns a Tracker backed by kv.
func NewTracker(kv KeyValue) *Tracker {
	return &Tracker{kv: kv}
}

// Load returns the stored DailyMap. A missing entry is an empty map.
func (t *Tracker) Load(ctx context.Context) (DailyMap, error) {
	value, ok, err := t.kv.GetValue(ctx, KeyListeningTime)
	if err != nil {
		return nil, fmt.Errorf("read listening time: %w", err)
	}
	if !ok || value == "" {
		return DailyMap{}, nil
	}
	var raw map[string]float64
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, fmt.Errorf("decode listening time: %w", err)
	}
	m := make(DailyMap, len(raw))
	for date, seconds := range raw {
		m[date] = ClampSeconds(seconds)
	}
	return m, nil
}

// RecordSample adds the truncated duration to today's entry and returns the
// new total for today. Nothing is recorded when the write fails.
func (t *Tracker) RecordSample(ctx context.Context, durationSeconds float64, today time.Time) (int64, error) {
	seconds, err := WholeSeconds(durationSeconds)
	if err != nil {
		return 0, err
	}
	m, err := t.Load(ctx)
	if err != nil {
		return 0, err
	}
	key := DateKey(today)
	m[key] = min(m[key]+seconds, MaxSeconds)
	encoded, err := json.Marshal(m)
	if err != nil {
		return 0, fmt.Errorf("encode listening time: %w", err)
	}
	if err := t.kv.SetValue(ctx, KeyListeningTime, string(encoded)); err != nil {
		return 0, fmt.Errorf("save listening time: %w", err)
	}
	return m[key], nil
}

// Today returns the seconds recorded on today's date.
func (t *Tracker) Today(ctx context.Context, today time.Time) (int64, error) {
	m, err := t.Load(ctx)
	if err != nil {
		return 0, err
	}
	return m[DateKey(today)], nil
}

// DailyBreakdown returns every recorded day, newest first.
func (t *Tracker) DailyBreakdown(ctx context.Context) ([]model.DailyTotal, error) {
	m, err := t.Load(ctx)
	if err != nil {
		return nil, err
	}
	return DailyBreakdown(m), nil
}

// WeeklyTotals returns seconds per Monday week-start date.
func (t *Tracker) WeeklyTotals(ctx context.Context) (map[string]int64, error) {
	m, err := t.Load(ctx)
	if err != nil {
		return nil, err
	}
	return WeeklyTotals(m), nil
}

// MonthlyTotal returns the seconds recorded in month (YYYY-MM).
func (t *Tracker) MonthlyTotal(ctx context.Context, month string) (int64, error) {
	m, err := t.Load(ctx)
	if err != nil {
		return 0, err
	}
	return MonthlyTotal(m, month), nil
}

// AllTimeTotal returns the seconds recorded over the whole history.
func (t *Tracker) AllTimeTotal(ctx context.Context) (int64, error) {
	m, err := t.Load(ctx)
	if err != nil {
		return 0, err
	}
	return AllTimeTotal(m), nil
}
