package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/phrasebook/internal/model"
)

const (
	barRune             = "█"
	barSeparator        = " │ "
	minBarWidth         = 10
	terminalWidthBackup = 80
	barColor            = "\x1b[34m"
	colorReset          = "\x1b[0m"
)

// ChartWidthFor returns the bar area width for a total line width.
func ChartWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minBarWidth
	}
	// date label + separator + " HH:MM:SS" suffix
	labelWidth := len(DateLayout) + len([]rune(barSeparator)) + 1 + len("00:00:00")
	return max(minBarWidth, totalWidth-labelWidth)
}

// RenderDailyBars draws one horizontal bar per day for the most recent days,
// oldest at the top. totalWidth <= 0 sizes the chart to the terminal.
func RenderDailyBars(w io.Writer, days []model.DailyTotal, limit, totalWidth int, forceColor bool) error {
	if len(days) == 0 {
		return nil
	}
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	if limit > 0 && len(days) > limit {
		days = days[:limit]
	}
	barWidth := ChartWidthFor(totalWidth)
	var peak int64
	for _, d := range days {
		peak = max(peak, d.Seconds)
	}
	useColor := shouldUseColor(w, forceColor)

	if _, err := fmt.Fprintln(w, "Daily Listening Time"); err != nil {
		return err
	}
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		n := 0
		if peak > 0 {
			n = int(float64(d.Seconds) / float64(peak) * float64(barWidth))
		}
		if n == 0 && d.Seconds > 0 {
			n = 1
		}
		bar := strings.Repeat(barRune, n)
		if useColor && n > 0 {
			bar = barColor + bar + colorReset
		}
		line := d.Date + barSeparator + bar + " " + FormatHMS(d.Seconds)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
