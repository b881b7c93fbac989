// Package stats records listening time and derives daily, weekly and monthly totals.
package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/phrasebook/internal/model"
)

// DateLayout is the layout of DailyMap keys.
const DateLayout = "2006-01-02"

// DailyMap maps an ISO date (YYYY-MM-DD) to accumulated whole seconds.
type DailyMap map[string]int64

// DateKey returns the DailyMap key for t in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthKey returns the YYYY-MM month of t in t's own location.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MaxSeconds is the largest total stored for one day.
const MaxSeconds int64 = 1 << 40

// ClampSeconds limits a stored value to [0, MaxSeconds].
func ClampSeconds(seconds float64) int64 {
	switch {
	case math.IsNaN(seconds) || seconds <= 0:
		return 0
	case seconds >= float64(MaxSeconds):
		return MaxSeconds
	}
	return int64(math.Trunc(seconds))
}

// WholeSeconds truncates a media duration toward zero.
func WholeSeconds(duration float64) (int64, error) {
	if math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0, fmt.Errorf("invalid duration %v", duration)
	}
	if duration < 0 {
		return 0, fmt.Errorf("duration must be >= 0, got %v", duration)
	}
	if duration > float64(MaxSeconds) {
		return 0, fmt.Errorf("duration %v exceeds %d seconds", duration, MaxSeconds)
	}
	return int64(math.Trunc(duration)), nil
}

// DailyBreakdown returns every day sorted by date, newest first.
func DailyBreakdown(m DailyMap) []model.DailyTotal {
	out := make([]model.DailyTotal, 0, len(m))
	for date, seconds := range m {
		out = append(out, model.DailyTotal{Date: date, Seconds: seconds})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// WeekStart returns the Monday of the week containing date. Sunday belongs to
// the week that started six days earlier.
func WeekStart(date string) (string, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1)).Format(DateLayout), nil
}

// WeeklyTotals sums seconds per week-start date. Keys that are not valid dates are skipped.
func WeeklyTotals(m DailyMap) map[string]int64 {
	out := map[string]int64{}
	for date, seconds := range m {
		start, err := WeekStart(date)
		if err != nil {
			continue
		}
		out[start] += seconds
	}
	return out
}

// SortedWeeks orders weekly totals newest first.
func SortedWeeks(weeks map[string]int64) []model.WeekTotal {
	out := make([]model.WeekTotal, 0, len(weeks))
	for start, seconds := range weeks {
		out = append(out, model.WeekTotal{WeekStart: start, Seconds: seconds})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].WeekStart > out[j].WeekStart
	})
	return out
}

// MonthlyTotal sums the days whose date starts with month (YYYY-MM).
func MonthlyTotal(m DailyMap, month string) int64 {
	var total int64
	for date, seconds := range m {
		if strings.HasPrefix(date, month) {
			total += seconds
		}
	}
	return total
}

// AllTimeTotal sums every recorded day.
func AllTimeTotal(m DailyMap) int64 {
	var total int64
	for _, seconds := range m {
		total += seconds
	}
	return total
}

// FormatHMS renders seconds as HH:MM:SS. Hours do not wrap at 24.
func FormatHMS(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
