package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var audioExts = map[string]struct{}{
	".mp3":  {},
	".m4a":  {},
	".ogg":  {},
	".opus": {},
	".wav":  {},
	".flac": {},
	".aac":  {},
}

// IsAudioFile reports whether name carries a known audio extension.
func IsAudioFile(name string) bool {
	_, ok := audioExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ReadFiles builds a library from files and directories. Files are keyed by
// their base name; directories contribute their audio files (non-recursive).
// Paths are applied in order, so a later file with the same name wins.
func ReadFiles(paths []string) (*Library, error) {
	lib := NewLibrary()
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			if err := addFile(lib, path); err != nil {
				return nil, err
			}
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() || !IsAudioFile(entry.Name()) {
				continue
			}
			names = append(names, entry.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			if err := addFile(lib, filepath.Join(path, name)); err != nil {
				return nil, err
			}
		}
	}
	return lib, nil
}

func addFile(lib *Library, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read audio file: %w", err)
	}
	lib.Add(filepath.Base(path), data)
	return nil
}
