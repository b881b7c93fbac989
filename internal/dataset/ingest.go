package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/verte-zerg/phrasebook/internal/audio"
	"github.com/verte-zerg/phrasebook/internal/model"
)

// Persisted key-value entries.
const (
	KeyActiveDataset = "activeDataset"
	KeyCustomDataset = "customDataset"
	KeyCustomMeta    = "customDatasetMeta"
)

// KeyValue is the string key-value store backing the selector and collections.
type KeyValue interface {
	GetValue(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value string) error
}

// BlobStore persists audio blobs keyed by filename.
type BlobStore interface {
	PutBlobs(ctx context.Context, blobs map[string][]byte) error
	ClearBlobs(ctx context.Context) (int64, error)
}

// Receipt summarizes a successful upload.
type Receipt struct {
	ID         uuid.UUID
	Records    int
	AudioFiles int
	Language   string
}

// Ingestor validates uploads and switches the active dataset.
type Ingestor struct {
	kv    KeyValue
	blobs BlobStore
	now   func() time.Time
}

// NewIngestor returns an Ingestor over the given stores.
func NewIngestor(kv KeyValue, blobs BlobStore) *Ingestor {
	return &Ingestor{kv: kv, blobs: blobs, now: time.Now}
}

// Ingest parses and validates the CSV, then stores the library, the records
// and the import metadata before flipping the selector to custom. Parse and
// validation failures leave storage untouched.
func (in *Ingestor) Ingest(ctx context.Context, csvData io.Reader, lib *audio.Library) (Receipt, error) {
	records, err := ParseRecords(csvData)
	if err != nil {
		return Receipt{}, err
	}
	if lib == nil {
		lib = audio.NewLibrary()
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		return Receipt{}, fmt.Errorf("encode records: %w", err)
	}

	receipt := Receipt{
		ID:         uuid.New(),
		Records:    len(records),
		AudioFiles: lib.Len(),
		Language:   detectLanguage(records),
	}
	meta, err := json.Marshal(model.ImportMeta{
		ID:         receipt.ID.String(),
		ImportedAt: in.now().UTC().Format(time.RFC3339),
		Records:    receipt.Records,
		AudioFiles: receipt.AudioFiles,
		Language:   receipt.Language,
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("encode import metadata: %w", err)
	}

	if err := in.blobs.PutBlobs(ctx, lib.Blobs()); err != nil {
		return Receipt{}, fmt.Errorf("save audio files: %w", err)
	}
	if err := in.kv.SetValue(ctx, KeyCustomDataset, string(encoded)); err != nil {
		return Receipt{}, fmt.Errorf("save custom dataset: %w", err)
	}
	if err := in.kv.SetValue(ctx, KeyCustomMeta, string(meta)); err != nil {
		return Receipt{}, fmt.Errorf("save import metadata: %w", err)
	}
	if err := in.kv.SetValue(ctx, KeyActiveDataset, string(model.DatasetCustom)); err != nil {
		return Receipt{}, fmt.Errorf("activate custom dataset: %w", err)
	}
	return receipt, nil
}

// UseDefault selects the bundled dataset. Stored custom data is kept.
func (in *Ingestor) UseDefault(ctx context.Context) error {
	return in.kv.SetValue(ctx, KeyActiveDataset, string(model.DatasetDefault))
}

// UseCustom selects the previously uploaded dataset.
func (in *Ingestor) UseCustom(ctx context.Context) error {
	return in.kv.SetValue(ctx, KeyActiveDataset, string(model.DatasetCustom))
}

// ClearAudio wipes every stored audio blob.
func (in *Ingestor) ClearAudio(ctx context.Context) (int64, error) {
	return in.blobs.ClearBlobs(ctx)
}

// Active returns the selected dataset kind. Missing or unknown values mean default.
func Active(ctx context.Context, kv KeyValue) (model.DatasetKind, error) {
	value, ok, err := kv.GetValue(ctx, KeyActiveDataset)
	if err != nil {
		return "", err
	}
	if ok && model.DatasetKind(value) == model.DatasetCustom {
		return model.DatasetCustom, nil
	}
	return model.DatasetDefault, nil
}

// LastImport returns the metadata of the latest upload, if any.
func LastImport(ctx context.Context, kv KeyValue) (model.ImportMeta, bool, error) {
	value, ok, err := kv.GetValue(ctx, KeyCustomMeta)
	if err != nil || !ok {
		return model.ImportMeta{}, false, err
	}
	var meta model.ImportMeta
	if err := json.Unmarshal([]byte(value), &meta); err != nil {
		return model.ImportMeta{}, false, fmt.Errorf("decode import metadata: %w", err)
	}
	return meta, true, nil
}

func detectLanguage(records []model.PhraseRecord) string {
	var b strings.Builder
	for _, rec := range records {
		if rec.Phrase == "" {
			continue
		}
		b.WriteString(rec.Phrase)
		b.WriteByte('\n')
	}
	if b.Len() == 0 {
		return language.Und.String()
	}
	code := whatlanggo.DetectLang(b.String()).Iso6391()
	if code == "" {
		return language.Und.String()
	}
	return language.Make(code).String()
}
