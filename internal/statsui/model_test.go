package statsui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/phrasebook/internal/model"
	"github.com/verte-zerg/phrasebook/internal/stats"
)

type memKV map[string]string

func (m memKV) GetValue(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memKV) SetValue(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

func newTestModel(t *testing.T, month string) *Model {
	t.Helper()
	kv := memKV{stats.KeyListeningTime: `{"2024-03-04":60,"2024-03-06":30,"2024-02-28":100}`}
	m := NewModel(stats.NewTracker(kv), model.StatsConfig{Month: month})
	m.now = func() time.Time { return time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC) }
	m.refreshReport()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestReportDrivesTabs(t *testing.T) {
	m := newTestModel(t, "")
	if m.errMsg != "" {
		t.Fatalf("unexpected error: %s", m.errMsg)
	}
	if m.report.Month != "2024-03" || m.report.MonthTotal != 90 {
		t.Fatalf("unexpected month summary: %+v", m.report)
	}
	if m.report.ThisWeek != 90 || m.report.Today != 30 {
		t.Fatalf("unexpected week/today: %+v", m.report)
	}

	daily := m.tables[tabDaily].Rows()
	if len(daily) != 3 || daily[0][0] != "2024-03-06" || daily[2][0] != "2024-02-28" {
		t.Fatalf("unexpected daily rows: %v", daily)
	}
	weekly := m.tables[tabWeekly].Rows()
	if len(weekly) != 2 || weekly[0][0] != "2024-03-04" || weekly[0][1] != "00:01:30" {
		t.Fatalf("unexpected weekly rows: %v", weekly)
	}
	if !strings.Contains(m.View(), "Month 2024-03") {
		t.Fatalf("expected month card in overview")
	}
}

func TestTabNavigationWraps(t *testing.T) {
	m := newTestModel(t, "")
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabWeekly {
		t.Fatalf("expected wrap to weekly tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "00:01:30") {
		t.Fatalf("expected weekly table in view")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected wrap to overview, got %d", m.activeTab)
	}
}

func TestMonthInput(t *testing.T) {
	m := newTestModel(t, "")
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.monthMode {
		t.Fatalf("expected month input mode")
	}

	m.monthInput.SetValue("2024-13")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.monthMode || m.monthError == "" {
		t.Fatalf("expected invalid month to keep the input open")
	}

	m.monthInput.SetValue("2024-02")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.monthMode {
		t.Fatalf("expected input to close")
	}
	if m.report.Month != "2024-02" || m.report.MonthTotal != 100 {
		t.Fatalf("unexpected month report: %+v", m.report)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.monthMode || m.report.Month != "2024-02" {
		t.Fatalf("expected esc to keep the previous month")
	}
}

func TestEmptyHistory(t *testing.T) {
	m := NewModel(stats.NewTracker(memKV{}), model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m.moveTab(1)
	if !strings.Contains(m.View(), "No listening time recorded.") {
		t.Fatalf("expected empty message")
	}
}

func TestCorruptHistoryShowsError(t *testing.T) {
	m := NewModel(stats.NewTracker(memKV{stats.KeyListeningTime: "{"}), model.StatsConfig{})
	if m.errMsg == "" {
		t.Fatalf("expected error for corrupt listening time")
	}
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(m.View(), "Failed to load listening time.") {
		t.Fatalf("expected failure message in view")
	}
}
