package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PHRASEBOOK_DB", filepath.Join(dir, "phrasebook.db"))
	t.Setenv("PHRASEBOOK_CONFIG", filepath.Join(dir, "config.toml"))
	t.Setenv("PHRASEBOOK_AUDIO_DIR", filepath.Join(dir, "audio"))
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLIWithStderr(t, args...)
	return out, err
}

func runCLIWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeUpload(t *testing.T, dir string) (csvPath, audioDir string) {
	t.Helper()
	csvPath = filepath.Join(dir, "phrases.csv")
	content := "Filename,Phrase,English,Grammar and Structure,Transliteration\n" +
		"a.mp3,おはようございます,Good morning,polite greeting,ohayou gozaimasu\n" +
		"b.mp3,ありがとうございます,Thank you,polite thanks,arigatou gozaimasu\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	audioDir = filepath.Join(dir, "upload")
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"a.mp3", "b.mp3", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(audioDir, name), []byte(name), 0o644); err != nil {
			t.Fatalf("write audio: %v", err)
		}
	}
	return csvPath, audioDir
}

func TestUploadRequiresCSVAndAudio(t *testing.T) {
	dir := setupEnv(t)
	csvPath, audioDir := writeUpload(t, dir)

	if _, err := runCLI(t, "upload", audioDir); !errors.Is(err, errMissingUpload) {
		t.Fatalf("expected missing upload error without csv, got %v", err)
	}
	_, stderr, err := runCLIWithStderr(t, "upload", "--csv", csvPath)
	if !errors.Is(err, errMissingUpload) {
		t.Fatalf("expected missing upload error without audio, got %v", err)
	}
	if !strings.Contains(stderr, "Please select both a CSV file and audio files.") {
		t.Fatalf("expected user-facing hint on stderr, got %q", stderr)
	}
	if msg := errMissingUpload.Error(); strings.ToLower(msg) != msg || strings.HasSuffix(msg, ".") {
		t.Fatalf("unexpected error string %q", msg)
	}
}

func TestUploadUseAndStatus(t *testing.T) {
	dir := setupEnv(t)
	csvPath, audioDir := writeUpload(t, dir)

	out, err := runCLI(t, "upload", "--csv", csvPath, audioDir)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.Contains(out, "Imported 2 phrases and 2 audio files") {
		t.Fatalf("unexpected upload output: %s", out)
	}

	out, err = runCLI(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"Active dataset: custom", "Phrases: 2", "Stored audio files: 2", "Daily Listening Time: 00:00:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status missing %q:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, "use", "default"); err != nil {
		t.Fatalf("use default: %v", err)
	}
	out, err = runCLI(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Active dataset: default") || !strings.Contains(out, "Phrases: 6") {
		t.Fatalf("expected bundled dataset after use default:\n%s", out)
	}

	if _, err := runCLI(t, "use", "custom"); err != nil {
		t.Fatalf("use custom: %v", err)
	}
	out, err = runCLI(t, "clear-audio")
	if err != nil {
		t.Fatalf("clear-audio: %v", err)
	}
	if !strings.Contains(out, "Removed 2 audio files.") {
		t.Fatalf("unexpected clear output: %s", out)
	}
	out, err = runCLI(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Phrases: 2") || !strings.Contains(out, "Stored audio files: 0") {
		t.Fatalf("expected records kept after clearing audio:\n%s", out)
	}
}

func TestUploadRejectsBadCSV(t *testing.T) {
	dir := setupEnv(t)
	_, audioDir := writeUpload(t, dir)
	bad := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(bad, []byte("Filename,Phrase\na.mp3,hi\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if _, err := runCLI(t, "upload", "--csv", bad, audioDir); err == nil {
		t.Fatalf("expected missing columns error")
	}
	out, err := runCLI(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Active dataset: default") || !strings.Contains(out, "Stored audio files: 0") {
		t.Fatalf("expected storage untouched after failed upload:\n%s", out)
	}
}

func TestUseRejectsUnknownDataset(t *testing.T) {
	setupEnv(t)
	if _, err := runCLI(t, "use", "other"); err == nil {
		t.Fatalf("expected error for unknown dataset")
	}
}

func TestStatsPlain(t *testing.T) {
	setupEnv(t)
	out, err := runCLI(t, "stats", "--plain", "--month", "2024-03")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"Listening Time", "Monthly Total (2024-03): 00:00:00", "No listening time recorded."} {
		if !strings.Contains(out, want) {
			t.Fatalf("stats output missing %q:\n%s", want, out)
		}
	}
	if _, err := runCLI(t, "stats", "--plain", "--month", "March"); err == nil {
		t.Fatalf("expected invalid month error")
	}
}
