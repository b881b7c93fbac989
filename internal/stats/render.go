package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/phrasebook/internal/model"
)

// RenderSummary prints today, this week, the reference month and the all-time total.
func RenderSummary(w io.Writer, r Report) error {
	lines := []string{
		"Listening Time",
		fmt.Sprintf("Today: %s", FormatHMS(r.Today)),
		fmt.Sprintf("This Week: %s", FormatHMS(r.ThisWeek)),
		fmt.Sprintf("Monthly Total (%s): %s", r.Month, FormatHMS(r.MonthTotal)),
		fmt.Sprintf("All Time Total: %s", FormatHMS(r.AllTime)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderWeekly prints weekly totals, newest week first.
func RenderWeekly(w io.Writer, weeks []model.WeekTotal) error {
	if len(weeks) == 0 {
		_, err := fmt.Fprintln(w, "No listening time recorded.")
		return err
	}
	rows := make([][]string, 0, len(weeks))
	for _, wk := range weeks {
		rows = append(rows, []string{"Week of " + wk.WeekStart, FormatHMS(wk.Seconds)})
	}
	return writeTable(w, "Weekly Totals", []column{{title: "Week"}, {title: "Time", right: true}}, rows)
}

// RenderDaily prints the daily breakdown, newest day first.
func RenderDaily(w io.Writer, days []model.DailyTotal) error {
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "No listening time recorded.")
		return err
	}
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{d.Date, FormatHMS(d.Seconds), fmt.Sprintf("%d", d.Seconds)})
	}
	return writeTable(w, "Daily Listening Time", []column{
		{title: "Date"},
		{title: "Time", right: true},
		{title: "Seconds", right: true},
	}, rows)
}

func writeTable(w io.Writer, title string, cols []column, rows [][]string) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range formatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
