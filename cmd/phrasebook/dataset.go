package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/phrasebook/internal/audio"
	"github.com/verte-zerg/phrasebook/internal/config"
	"github.com/verte-zerg/phrasebook/internal/dataset"
	"github.com/verte-zerg/phrasebook/internal/model"
	"github.com/verte-zerg/phrasebook/internal/stats"
)

const missingUploadMessage = "Please select both a CSV file and audio files."

var errMissingUpload = errors.New("csv file and audio files are required")

var uploadCSV string

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload --csv FILE AUDIO...",
		Short: "Import a custom dataset from a CSV file and audio files or directories",
		RunE:  runUploadCmd,
	}
	cmd.Flags().StringVar(&uploadCSV, "csv", "", "CSV file with Filename, Phrase, English, Grammar and Structure, Transliteration columns")
	return cmd
}

func runUploadCmd(cmd *cobra.Command, args []string) error {
	if uploadCSV == "" || len(args) == 0 {
		return missingUpload(cmd)
	}
	lib, err := audio.ReadFiles(args)
	if err != nil {
		return err
	}
	if lib.Len() == 0 {
		return missingUpload(cmd)
	}
	f, err := os.Open(uploadCSV)
	if err != nil {
		return fmt.Errorf("failed to open csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for a read-only file.
			_ = cerr
		}
	}()

	paths, err := config.LoadPaths()
	if err != nil {
		return err
	}
	st, err := openStore(paths)
	if err != nil {
		return err
	}
	defer closeStore(st)

	receipt, err := dataset.NewIngestor(st, st).Ingest(context.Background(), f, lib)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(),
		"Imported %d phrases and %d audio files (language %s, import %s).\nCustom dataset is now active.\n",
		receipt.Records, receipt.AudioFiles, receipt.Language, receipt.ID)
	return err
}

func missingUpload(cmd *cobra.Command) error {
	if _, err := fmt.Fprintln(cmd.ErrOrStderr(), missingUploadMessage); err != nil {
		// Best-effort hint; the error is still returned.
		_ = err
	}
	return errMissingUpload
}

func newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "use default|custom",
		Short:     "Select the active dataset",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(model.DatasetDefault), string(model.DatasetCustom)},
		RunE:      runUseCmd,
	}
}

func runUseCmd(cmd *cobra.Command, args []string) error {
	paths, err := config.LoadPaths()
	if err != nil {
		return err
	}
	st, err := openStore(paths)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	in := dataset.NewIngestor(st, st)
	kind := model.DatasetKind(args[0])
	if kind == model.DatasetCustom {
		err = in.UseCustom(ctx)
	} else {
		err = in.UseDefault(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to select dataset: %w", err)
	}
	if kind == model.DatasetCustom {
		records, err := dataset.LoadCustom(ctx, st)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			logErrln("no custom dataset uploaded yet; practice will show an empty set")
		}
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Active dataset: %s\n", kind)
	return err
}

func newClearAudioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-audio",
		Short: "Delete every uploaded audio file",
		Args:  cobra.NoArgs,
		RunE:  runClearAudioCmd,
	}
}

func runClearAudioCmd(cmd *cobra.Command, _ []string) error {
	paths, err := config.LoadPaths()
	if err != nil {
		return err
	}
	st, err := openStore(paths)
	if err != nil {
		return err
	}
	defer closeStore(st)

	n, err := dataset.NewIngestor(st, st).ClearAudio(context.Background())
	if err != nil {
		return fmt.Errorf("failed to clear audio: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d audio files.\n", n)
	return err
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active dataset and today's listening time",
		Args:  cobra.NoArgs,
		RunE:  runStatusCmd,
	}
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	paths, err := config.LoadPaths()
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(paths.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	defaultPath := ""
	if fileCfg.Practice.DefaultDataset != nil {
		defaultPath = *fileCfg.Practice.DefaultDataset
	}

	st, err := openStore(paths)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	set, err := dataset.NewLoader(st, defaultPath).Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	names, err := st.ListBlobNames(ctx)
	if err != nil {
		return err
	}
	today, err := stats.NewTracker(st).Today(ctx, time.Now())
	if err != nil {
		return err
	}

	lines := []string{
		fmt.Sprintf("Active dataset: %s", set.Kind),
		fmt.Sprintf("Phrases: %d", len(set.Records)),
		fmt.Sprintf("Stored audio files: %d", len(names)),
	}
	meta, ok, err := dataset.LastImport(ctx, st)
	if err != nil {
		return err
	}
	if ok {
		lines = append(lines, fmt.Sprintf("Last import: %s at %s (%d phrases, %d audio files, language %s)",
			meta.ID, meta.ImportedAt, meta.Records, meta.AudioFiles, meta.Language))
	} else {
		lines = append(lines, "Last import: none")
	}
	lines = append(lines, fmt.Sprintf("Daily Listening Time: %s", stats.FormatHMS(today)))
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
