// Package tui provides the Bubble Tea flashcard practice interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/phrasebook/internal/audio"
	"github.com/verte-zerg/phrasebook/internal/dataset"
	"github.com/verte-zerg/phrasebook/internal/deck"
	"github.com/verte-zerg/phrasebook/internal/model"
	statsPkg "github.com/verte-zerg/phrasebook/internal/stats"
)

// Player starts playback of one audio source.
type Player interface {
	Start(ctx context.Context, src audio.Source) (*audio.Playback, error)
}

type playbackDoneMsg struct {
	name string
	err  error
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config  model.Config
	set     dataset.PracticeSet
	library *audio.Library
	player  Player
	tracker *statsPkg.Tracker
	deck    *deck.Deck
	now     func() time.Time

	width  int
	height int

	showGrammar     bool
	showTranslation bool

	notice  string
	status  string
	playing string

	todaySeconds int64
}

var (
	phraseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	translitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).Underline(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF4D4F")).
			Padding(1, 3)
)

const helpLine = "space play · ←/→ move · t translation · g grammar · q quit"

// NewModel constructs a practice TUI model over the active dataset.
func NewModel(cfg model.Config, set dataset.PracticeSet, library *audio.Library, player Player, tracker *statsPkg.Tracker) *Model {
	if library == nil {
		library = audio.NewLibrary()
	}
	m := &Model{
		config:  cfg,
		set:     set,
		library: library,
		player:  player,
		tracker: tracker,
		deck:    deck.New(len(set.Records), cfg.Shuffle),
		now:     time.Now,
	}
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case playbackDoneMsg:
		if msg.name == m.playing {
			m.playing = ""
		}
		if msg.err != nil {
			logErrf("%v\n", msg.err)
			m.status = msg.err.Error()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.notice != "" {
			m.notice = ""
			return m, nil
		}
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case " ", "space", "enter", "p":
		return m, m.play()
	case "right", "n", "l":
		m.deck.Next()
		m.resetCard()
	case "left", "b", "h":
		m.deck.Prev()
		m.resetCard()
	case "g":
		m.showGrammar = !m.showGrammar
	case "t":
		m.showTranslation = !m.showTranslation
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.notice != "" {
		box := noticeStyle.Render(m.notice + "\n\n" + detailStyle.Render("press any key to continue"))
		if m.width == 0 || m.height == 0 {
			return box
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	content := m.renderCard(int(float64(m.width) * 0.70))
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) current() (model.PhraseRecord, bool) {
	idx, ok := m.deck.Current()
	if !ok || idx >= len(m.set.Records) {
		return model.PhraseRecord{}, false
	}
	return m.set.Records[idx], true
}

func (m *Model) renderCard(width int) string {
	rec, ok := m.current()
	if !ok {
		msg := "No phrases in the active dataset."
		if m.set.Kind == model.DatasetCustom {
			msg += " Upload one with `phrasebook upload` or run `phrasebook use default`."
		}
		return detailStyle.Render(strings.Join(wrapText(msg, width), "\n"))
	}

	blocks := []string{
		phraseStyle.Render(strings.Join(wrapText(rec.Phrase, width), "\n")),
	}
	if rec.Transliteration != "" {
		blocks = append(blocks, translitStyle.Render(strings.Join(wrapText(rec.Transliteration, width), "\n")))
	}
	if m.showTranslation {
		blocks = append(blocks, labelStyle.Render("Translation"), detailStyle.Render(strings.Join(wrapText(rec.English, width), "\n")))
	}
	if m.showGrammar {
		blocks = append(blocks, labelStyle.Render("Grammar"), detailStyle.Render(strings.Join(wrapText(rec.GrammarNotes, width), "\n")))
	}
	blocks = append(blocks, "", footerStyle.Render(helpLine))
	return strings.Join(blocks, "\n")
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if n := m.deck.Len(); n > 0 {
		segments = append(segments, fmt.Sprintf("Card %d/%d", m.deck.Position()+1, n))
	}
	segments = append(segments, "Daily Listening Time "+statsPkg.FormatHMS(m.todaySeconds))
	if m.playing != "" {
		segments = append(segments, "Playing "+m.playing)
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.status != "" {
		footer += "  " + errorStyle.Render(m.status)
	}
	return footer
}

func (m *Model) resetCard() {
	m.showGrammar = false
	m.showTranslation = false
	m.status = ""
}

// play resolves the current card's audio, records its duration and starts
// the player. The returned command waits for the player to exit.
func (m *Model) play() tea.Cmd {
	rec, ok := m.current()
	if !ok {
		return nil
	}
	src, err := m.resolveSource(rec)
	if err != nil {
		if errors.Is(err, audio.ErrMissingBlob) {
			m.notice = "Audio file not found: " + rec.Filename
			return nil
		}
		logErrf("failed to load audio: %v\n", err)
		m.status = err.Error()
		return nil
	}
	if m.player == nil {
		m.status = "no audio player configured"
		return nil
	}
	pb, err := m.player.Start(context.Background(), src)
	if err != nil {
		logErrf("%v\n", err)
		m.status = err.Error()
		return nil
	}
	m.status = ""
	m.playing = pb.Name
	if m.tracker != nil {
		total, err := m.tracker.RecordSample(context.Background(), pb.Duration, m.now())
		if err != nil {
			logErrf("failed to save listening time: %v\n", err)
			m.status = "listening time not saved"
		} else {
			m.todaySeconds = total
		}
	}
	return func() tea.Msg {
		return playbackDoneMsg{name: pb.Name, err: pb.Wait()}
	}
}

func (m *Model) resolveSource(rec model.PhraseRecord) (audio.Source, error) {
	if rec.Filename == "" {
		return audio.Source{}, &audio.MissingBlobError{Filename: rec.Filename}
	}
	if m.set.Kind == model.DatasetCustom {
		data, err := m.library.Lookup(rec.Filename)
		if err != nil {
			return audio.Source{}, err
		}
		return audio.Source{Name: rec.Filename, Data: data}, nil
	}
	path := filepath.Join(m.config.AudioDir, rec.Filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return audio.Source{}, &audio.MissingBlobError{Filename: rec.Filename}
		}
		return audio.Source{}, err
	}
	return audio.Source{Name: rec.Filename, Path: path}, nil
}

func (m *Model) loadFooterStats() {
	if m.tracker == nil {
		return
	}
	total, err := m.tracker.Today(context.Background(), m.now())
	if err != nil {
		logErrf("failed to load listening time: %v\n", err)
		return
	}
	m.todaySeconds = total
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
