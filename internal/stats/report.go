// Package stats records listening time and derives daily, weekly and monthly totals.
package stats

import (
	"context"
	"time"

	"github.com/verte-zerg/phrasebook/internal/model"
)

// Report contains precomputed data for dashboard rendering.
type Report struct {
	Daily      []model.DailyTotal
	Weekly     []model.WeekTotal
	Month      string
	MonthTotal int64
	AllTime    int64
	Today      int64
	ThisWeek   int64
}

// BuildReport loads the listening history once and derives every summary.
// An empty month selects the month of today.
func BuildReport(ctx context.Context, tr *Tracker, today time.Time, month string) (Report, error) {
	m, err := tr.Load(ctx)
	if err != nil {
		return Report{}, err
	}
	if month == "" {
		month = MonthKey(today)
	}
	weekly := WeeklyTotals(m)
	var thisWeek int64
	if start, err := WeekStart(DateKey(today)); err == nil {
		thisWeek = weekly[start]
	}
	return Report{
		Daily:      DailyBreakdown(m),
		Weekly:     SortedWeeks(weekly),
		Month:      month,
		MonthTotal: MonthlyTotal(m, month),
		AllTime:    AllTimeTotal(m),
		Today:      m[DateKey(today)],
		ThisWeek:   thisWeek,
	}, nil
}

// ValidMonth reports whether month is formatted as YYYY-MM.
func ValidMonth(month string) bool {
	_, err := time.Parse("2006-01", month)
	return err == nil
}
