package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/phrasebook/internal/audio"
	"github.com/verte-zerg/phrasebook/internal/dataset"
	"github.com/verte-zerg/phrasebook/internal/model"
	statsPkg "github.com/verte-zerg/phrasebook/internal/stats"
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

type fakePlayer struct {
	started  []audio.Source
	duration float64
	err      error
}

func (p *fakePlayer) Start(_ context.Context, src audio.Source) (*audio.Playback, error) {
	p.started = append(p.started, src)
	if p.err != nil {
		return nil, p.err
	}
	return &audio.Playback{Name: src.Name, Duration: p.duration}, nil
}

func testRecords() []model.PhraseRecord {
	return []model.PhraseRecord{
		{Filename: "a.mp3", Phrase: "おはよう", English: "Good morning", GrammarNotes: "casual greeting", Transliteration: "ohayou"},
		{Filename: "b.mp3", Phrase: "ありがとう", English: "Thank you", GrammarNotes: "set phrase", Transliteration: "arigatou"},
	}
}

func newTestModel(t *testing.T, kind model.DatasetKind, player *fakePlayer) (*Model, memKV) {
	t.Helper()
	kv := memKV{}
	lib := audio.NewLibrary()
	lib.Add("a.mp3", []byte("ID3"))
	m := NewModel(model.Config{}, dataset.PracticeSet{Kind: kind, Records: testRecords()}, lib, player, statsPkg.NewTracker(kv))
	m.now = func() time.Time { return time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC) }
	return m, kv
}

func press(m *Model, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestPlayRecordsListeningTime(t *testing.T) {
	player := &fakePlayer{duration: 3.7}
	m, kv := newTestModel(t, model.DatasetCustom, player)

	if cmd := press(m, "space"); cmd == nil {
		t.Fatalf("expected wait command after playback start")
	}
	if len(player.started) != 1 || string(player.started[0].Data) != "ID3" {
		t.Fatalf("expected blob playback, got %+v", player.started)
	}
	if m.todaySeconds != 3 {
		t.Fatalf("expected 3 seconds today, got %d", m.todaySeconds)
	}
	if kv[statsPkg.KeyListeningTime] != `{"2024-03-06":3}` {
		t.Fatalf("unexpected stored listening time: %q", kv[statsPkg.KeyListeningTime])
	}
	if !strings.Contains(m.renderFooter(), "Daily Listening Time 00:00:03") {
		t.Fatalf("footer missing listening time: %s", m.renderFooter())
	}
}

func TestMissingBlobShowsNotice(t *testing.T) {
	player := &fakePlayer{duration: 2}
	m, kv := newTestModel(t, model.DatasetCustom, player)

	press(m, "right")
	if cmd := press(m, "p"); cmd != nil {
		t.Fatalf("expected no command for missing audio")
	}
	if m.notice != "Audio file not found: b.mp3" {
		t.Fatalf("unexpected notice %q", m.notice)
	}
	if len(player.started) != 0 || len(kv) != 0 {
		t.Fatalf("expected nothing played or recorded")
	}
	if !strings.Contains(m.View(), "Audio file not found: b.mp3") {
		t.Fatalf("expected notice in view")
	}

	press(m, "right")
	if m.notice != "" {
		t.Fatalf("expected any key to dismiss notice")
	}
	if idx, _ := m.deck.Current(); idx != 1 {
		t.Fatalf("expected dismissing key not to move the card, got %d", idx)
	}
}

func TestPlaybackFailureStaysOnCard(t *testing.T) {
	player := &fakePlayer{err: &audio.PlaybackError{Name: "a.mp3", Err: errors.New("boom")}}
	m, kv := newTestModel(t, model.DatasetCustom, player)

	press(m, "space")
	if m.status == "" || !strings.Contains(m.status, "a.mp3") {
		t.Fatalf("expected playback error in status, got %q", m.status)
	}
	if len(kv) != 0 {
		t.Fatalf("expected no listening time on failure")
	}
	if idx, _ := m.deck.Current(); idx != 0 {
		t.Fatalf("expected to stay on the first card")
	}

	m.Update(playbackDoneMsg{name: "a.mp3", err: errors.New("exit status 1")})
	if m.status != "exit status 1" {
		t.Fatalf("expected done error in status, got %q", m.status)
	}
}

func TestDefaultDatasetResolvesAudioDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	player := &fakePlayer{duration: 1}
	m, _ := newTestModel(t, model.DatasetDefault, player)
	m.config.AudioDir = dir

	press(m, "space")
	if len(player.started) != 1 || player.started[0].Path != filepath.Join(dir, "a.mp3") {
		t.Fatalf("expected path playback, got %+v", player.started)
	}

	press(m, "right")
	press(m, "space")
	if m.notice != "Audio file not found: b.mp3" {
		t.Fatalf("expected notice for absent default audio, got %q", m.notice)
	}
}

func TestNavigationWrapsAndResetsToggles(t *testing.T) {
	m, _ := newTestModel(t, model.DatasetDefault, &fakePlayer{})

	press(m, "t")
	press(m, "g")
	view := m.View()
	if !strings.Contains(view, "Good morning") || !strings.Contains(view, "casual greeting") {
		t.Fatalf("expected translation and grammar in view:\n%s", view)
	}

	press(m, "left")
	if idx, _ := m.deck.Current(); idx != 1 {
		t.Fatalf("expected wrap to last card, got %d", idx)
	}
	if m.showGrammar || m.showTranslation {
		t.Fatalf("expected toggles to reset on navigation")
	}
	if !strings.Contains(m.renderFooter(), "Card 2/2") {
		t.Fatalf("unexpected footer %s", m.renderFooter())
	}
	press(m, "right")
	if idx, _ := m.deck.Current(); idx != 0 {
		t.Fatalf("expected wrap to first card, got %d", idx)
	}
}

func TestEmptyCustomSet(t *testing.T) {
	m := NewModel(model.Config{}, dataset.PracticeSet{Kind: model.DatasetCustom}, nil, &fakePlayer{}, nil)
	if cmd := press(m, "space"); cmd != nil {
		t.Fatalf("expected no playback for empty set")
	}
	if !strings.Contains(m.View(), "No phrases in the active dataset.") {
		t.Fatalf("expected empty-set message")
	}
}

func TestPlaybackCommandClearsPlaying(t *testing.T) {
	m, _ := newTestModel(t, model.DatasetCustom, &fakePlayer{duration: 2})

	cmd := press(m, "space")
	if cmd == nil {
		t.Fatalf("expected wait command after playback start")
	}
	if m.playing != "a.mp3" || !strings.Contains(m.renderFooter(), "Playing a.mp3") {
		t.Fatalf("expected playing state, got %q", m.playing)
	}

	msg := cmd()
	done, ok := msg.(playbackDoneMsg)
	if !ok {
		t.Fatalf("expected playbackDoneMsg, got %T", msg)
	}
	if done.err != nil {
		t.Fatalf("unexpected playback error: %v", done.err)
	}
	m.Update(msg)
	if m.playing != "" || m.status != "" {
		t.Fatalf("expected idle state after playback, got playing=%q status=%q", m.playing, m.status)
	}
}
