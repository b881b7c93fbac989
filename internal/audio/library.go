// Package audio owns uploaded audio blobs and plays them through external tools.
package audio

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrMissingBlob is matched by errors.Is for lookups of unknown filenames.
var ErrMissingBlob = errors.New("audio file not found")

// MissingBlobError reports a phrase whose audio file was never uploaded.
type MissingBlobError struct {
	Filename string
}

func (e *MissingBlobError) Error() string {
	return fmt.Sprintf("audio file not found: %s", e.Filename)
}

// Is reports whether target is ErrMissingBlob.
func (e *MissingBlobError) Is(target error) bool {
	return target == ErrMissingBlob
}

// BlobSource provides stored blobs keyed by filename.
type BlobSource interface {
	LoadBlobs(ctx context.Context) (map[string][]byte, error)
}

// Library maps filenames to audio bytes. A later Add with the same name wins.
type Library struct {
	blobs map[string][]byte
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{blobs: map[string][]byte{}}
}

// LoadLibrary builds a library from every blob in src.
func LoadLibrary(ctx context.Context, src BlobSource) (*Library, error) {
	blobs, err := src.LoadBlobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load audio files: %w", err)
	}
	lib := NewLibrary()
	for name, data := range blobs {
		lib.Add(name, data)
	}
	return lib, nil
}

// Add stores data under name, replacing an earlier entry.
func (l *Library) Add(name string, data []byte) {
	l.blobs[name] = data
}

// Lookup returns the bytes stored under the exact filename.
func (l *Library) Lookup(name string) ([]byte, error) {
	data, ok := l.blobs[name]
	if !ok {
		return nil, &MissingBlobError{Filename: name}
	}
	return data, nil
}

// Len returns the number of stored files.
func (l *Library) Len() int {
	return len(l.blobs)
}

// Names returns the stored filenames in ascending order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.blobs))
	for name := range l.blobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Blobs returns a shallow copy of the name to bytes mapping.
func (l *Library) Blobs() map[string][]byte {
	out := make(map[string][]byte, len(l.blobs))
	for name, data := range l.blobs {
		out[name] = data
	}
	return out
}
