package audio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Default external tools.
const (
	DefaultPlayer = "ffplay -nodisp -autoexit -loglevel quiet"
	DefaultProbe  = "ffprobe"
)

// ErrPlayback is matched by errors.Is for any media-layer failure.
var ErrPlayback = errors.New("playback failed")

// PlaybackError wraps a failure to load or play one audio file.
type PlaybackError struct {
	Name string
	Err  error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback of %s failed: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *PlaybackError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPlayback.
func (e *PlaybackError) Is(target error) bool {
	return target == ErrPlayback
}

// Source is a playable audio file. Data takes precedence over Path.
type Source struct {
	Name string
	Path string
	Data []byte
}

// Player probes and plays audio through external commands.
type Player struct {
	command []string
	probe   []string
}

// NewPlayer parses the player and probe command lines.
func NewPlayer(command, probe string) (*Player, error) {
	cmdParts := strings.Fields(command)
	if len(cmdParts) == 0 {
		return nil, fmt.Errorf("player command is empty")
	}
	probeParts := strings.Fields(probe)
	if len(probeParts) == 0 {
		return nil, fmt.Errorf("probe command is empty")
	}
	return &Player{command: cmdParts, probe: probeParts}, nil
}

// Playback is a started player process.
type Playback struct {
	Name string
	// Duration is the probed media length in seconds.
	Duration float64

	cmd     *exec.Cmd
	cleanup func()
}

// Wait blocks until the player exits and releases temporary files.
// A Playback without a started process has nothing to wait for.
func (pb *Playback) Wait() error {
	if pb.cleanup != nil {
		defer pb.cleanup()
	}
	if pb.cmd == nil || pb.cmd.Process == nil {
		return nil
	}
	if err := pb.cmd.Wait(); err != nil {
		return &PlaybackError{Name: pb.Name, Err: err}
	}
	return nil
}

// Start loads the source metadata and launches the player without waiting for it.
func (p *Player) Start(ctx context.Context, src Source) (*Playback, error) {
	path, cleanup, err := materialize(src)
	if err != nil {
		return nil, &PlaybackError{Name: src.Name, Err: err}
	}
	duration, err := p.Probe(ctx, path)
	if err != nil {
		cleanup()
		return nil, &PlaybackError{Name: src.Name, Err: err}
	}

	args := append(append([]string{}, p.command[1:]...), path)
	cmd := exec.Command(p.command[0], args...)
	if err := cmd.Start(); err != nil {
		cleanup()
		return nil, &PlaybackError{Name: src.Name, Err: err}
	}
	return &Playback{Name: src.Name, Duration: duration, cmd: cmd, cleanup: cleanup}, nil
}

// Probe returns the media duration of path in seconds.
func (p *Player) Probe(ctx context.Context, path string) (float64, error) {
	cmdPath, err := exec.LookPath(p.probe[0])
	if err != nil {
		return 0, err
	}
	args := append(append([]string{}, p.probe[1:]...), probeArgs(path)...)
	output, err := exec.CommandContext(ctx, cmdPath, args...).Output()
	if err != nil {
		return 0, fmt.Errorf("run %s: %w", p.probe[0], err)
	}
	return parseProbeDuration(output)
}

func probeArgs(path string) []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	}
}

func parseProbeDuration(output []byte) (float64, error) {
	var probeResult struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(output, &probeResult); err != nil {
		return 0, fmt.Errorf("parse probe output: %w", err)
	}
	raw := strings.TrimSpace(probeResult.Format.Duration)
	if raw == "" {
		return 0, fmt.Errorf("probe output has no duration")
	}
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", raw, err)
	}
	if duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	return duration, nil
}

// materialize returns a filesystem path for src, spooling in-memory data to a
// temp file that cleanup removes.
func materialize(src Source) (string, func(), error) {
	if src.Data == nil {
		if src.Path == "" {
			return "", nil, fmt.Errorf("no audio data or path for %s", src.Name)
		}
		if _, err := os.Stat(src.Path); err != nil {
			return "", nil, err
		}
		return src.Path, func() {}, nil
	}
	tmpFile, err := os.CreateTemp("", "phrasebook-*"+filepath.Ext(src.Name))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp audio file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}
	if _, err := tmpFile.Write(src.Data); err != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write temp audio file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to close temp audio file: %w", err)
	}
	return tmpPath, cleanup, nil
}
