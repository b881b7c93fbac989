// Package main provides the CLI entrypoint for phrasebook.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/phrasebook/internal/audio"
	"github.com/verte-zerg/phrasebook/internal/config"
	"github.com/verte-zerg/phrasebook/internal/dataset"
	"github.com/verte-zerg/phrasebook/internal/model"
	"github.com/verte-zerg/phrasebook/internal/stats"
	"github.com/verte-zerg/phrasebook/internal/statsui"
	"github.com/verte-zerg/phrasebook/internal/store"
	"github.com/verte-zerg/phrasebook/internal/tui"
)

const plainChartDays = 14

var (
	practiceShuffle        bool
	practicePlayer         string
	practiceProbe          string
	practiceAudioDir       string
	practiceDefaultDataset string

	statsMonth string
	statsPlain bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "phrasebook",
		Short:         "Audio flashcards for phrase practice",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().BoolVar(&practiceShuffle, "shuffle", false, "shuffle card order")
	rootCmd.Flags().StringVar(&practicePlayer, "player", audio.DefaultPlayer, "audio player command; the file path is appended")
	rootCmd.Flags().StringVar(&practiceProbe, "probe", audio.DefaultProbe, "ffprobe-compatible command used to read durations")
	rootCmd.Flags().StringVar(&practiceAudioDir, "audio-dir", "", "directory with audio for the default dataset")
	rootCmd.Flags().StringVar(&practiceDefaultDataset, "default-dataset", "", "JSON file replacing the bundled default dataset")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newUseCmd())
	rootCmd.AddCommand(newClearAudioCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	paths, err := config.LoadPaths()
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(paths.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if practiceAudioDir == "" {
		practiceAudioDir = paths.AudioDir
	}
	applyBoolConfig(cmd, "shuffle", &practiceShuffle, fileCfg.Practice.Shuffle)
	applyStringConfig(cmd, "player", &practicePlayer, fileCfg.Practice.Player)
	applyStringConfig(cmd, "probe", &practiceProbe, fileCfg.Practice.Probe)
	applyStringConfig(cmd, "audio-dir", &practiceAudioDir, fileCfg.Practice.AudioDir)
	applyStringConfig(cmd, "default-dataset", &practiceDefaultDataset, fileCfg.Practice.DefaultDataset)

	cfg := model.Config{
		Shuffle:        practiceShuffle,
		Player:         practicePlayer,
		Probe:          practiceProbe,
		AudioDir:       practiceAudioDir,
		DefaultDataset: practiceDefaultDataset,
	}
	player, err := audio.NewPlayer(cfg.Player, cfg.Probe)
	if err != nil {
		return err
	}

	st, err := openStore(paths)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	set, err := dataset.NewLoader(st, cfg.DefaultDataset).Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	var lib *audio.Library
	if set.Kind == model.DatasetCustom {
		lib, err = audio.LoadLibrary(ctx, st)
		if err != nil {
			return err
		}
		if len(set.Records) == 0 {
			logErrln("no custom dataset uploaded yet; run phrasebook upload or phrasebook use default")
		}
	}

	m := tui.NewModel(cfg, set, lib, player, stats.NewTracker(st))
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	paths, err := config.LoadPaths()
	if err != nil {
		return err
	}
	path := paths.ConfigPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate(paths)), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show listening time",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMonth, "month", "", "reference month for the monthly total (YYYY-MM)")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print text instead of opening the dashboard")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	paths, err := config.LoadPaths()
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(paths.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyBoolConfig(cmd, "plain", &statsPlain, fileCfg.Stats.Plain)
	if statsMonth != "" && !stats.ValidMonth(statsMonth) {
		return fmt.Errorf("invalid --month value %q: expected YYYY-MM", statsMonth)
	}
	cfg := model.StatsConfig{Month: statsMonth}

	st, err := openStore(paths)
	if err != nil {
		return err
	}
	defer closeStore(st)

	tracker := stats.NewTracker(st)
	if statsPlain {
		return printStats(cmd, tracker, cfg, time.Now())
	}

	m := statsui.NewModel(tracker, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printStats(cmd *cobra.Command, tracker *stats.Tracker, cfg model.StatsConfig, today time.Time) error {
	report, err := stats.BuildReport(context.Background(), tracker, today, cfg.Month)
	if err != nil {
		return fmt.Errorf("failed to load listening time: %w", err)
	}
	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, report); err != nil {
		return err
	}
	if err := stats.RenderDailyBars(&buf, report.Daily, plainChartDays, 0, false); err != nil {
		return err
	}
	if err := stats.RenderWeekly(&buf, report.Weekly); err != nil {
		return err
	}
	if err := stats.RenderDaily(&buf, report.Daily); err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func openStore(paths config.Paths) (*store.Store, error) {
	st, err := store.Open(paths.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate(paths config.Paths) string {
	return fmt.Sprintf(`# phrasebook configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# shuffle = false                # Shuffle card order
# player = %q
# probe = %q
# audio-dir = %q
# default-dataset = ""           # JSON file replacing the bundled phrases

[stats]
# plain = false                  # Print text instead of opening the dashboard
`,
		audio.DefaultPlayer,
		audio.DefaultProbe,
		paths.AudioDir,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
