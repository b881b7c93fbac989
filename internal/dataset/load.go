package dataset

import (
	"context"
	_ "embed" // Bundled default dataset.
	"encoding/json"
	"fmt"
	"os"

	"github.com/verte-zerg/phrasebook/internal/model"
)

//go:embed data/default.json
var bundledDefault []byte

// PracticeSet is the phrase collection the practice screen works through.
type PracticeSet struct {
	Kind    model.DatasetKind
	Records []model.PhraseRecord
}

// Loader resolves the active practice set.
type Loader struct {
	kv          KeyValue
	defaultPath string
}

// NewLoader returns a Loader. An empty defaultPath selects the bundled dataset.
func NewLoader(kv KeyValue, defaultPath string) *Loader {
	return &Loader{kv: kv, defaultPath: defaultPath}
}

// Load returns the records of the active dataset. A custom selection without
// a saved collection yields an empty set.
func (l *Loader) Load(ctx context.Context) (PracticeSet, error) {
	kind, err := Active(ctx, l.kv)
	if err != nil {
		return PracticeSet{}, fmt.Errorf("read active dataset: %w", err)
	}
	if kind == model.DatasetCustom {
		records, err := LoadCustom(ctx, l.kv)
		if err != nil {
			return PracticeSet{}, err
		}
		return PracticeSet{Kind: kind, Records: records}, nil
	}
	records, err := l.LoadDefault()
	if err != nil {
		return PracticeSet{}, err
	}
	return PracticeSet{Kind: kind, Records: records}, nil
}

// LoadDefault decodes the default dataset from the configured file or the bundled copy.
func (l *Loader) LoadDefault() ([]model.PhraseRecord, error) {
	data := bundledDefault
	if l.defaultPath != "" {
		raw, err := os.ReadFile(l.defaultPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read default dataset: %w", err)
		}
		data = raw
	}
	var records []model.PhraseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode default dataset: %w", err)
	}
	return records, nil
}

// LoadCustom returns the stored custom collection, or nil when none was saved.
func LoadCustom(ctx context.Context, kv KeyValue) ([]model.PhraseRecord, error) {
	value, ok, err := kv.GetValue(ctx, KeyCustomDataset)
	if err != nil {
		return nil, fmt.Errorf("read custom dataset: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var records []model.PhraseRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return nil, fmt.Errorf("decode custom dataset: %w", err)
	}
	return records, nil
}
