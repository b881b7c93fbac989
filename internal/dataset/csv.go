// Package dataset ingests custom phrase datasets and selects the active one.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/verte-zerg/phrasebook/internal/model"
)

// Validation failures. Neither mutates storage.
var (
	ErrMissingColumns = errors.New("csv is missing one or more required columns")
	ErrNoRecords      = errors.New("csv has no data rows")
)

// MissingColumnsError names the required columns absent from the first row.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingColumns, strings.Join(e.Missing, ", "))
}

// Is reports whether target is ErrMissingColumns.
func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

// ParseError wraps a syntax error reported by the CSV reader.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("csv parse error: %v", e.Err)
}

// Unwrap returns the underlying reader error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseRecords reads a CSV with a header row into phrase records in row order.
// Blank rows are skipped and unknown columns ignored. Only the first data row
// must carry every required column; later short rows yield empty fields.
func ParseRecords(r io.Reader) ([]model.PhraseRecord, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoRecords
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	columns := map[string]int{}
	for i, name := range header {
		if _, ok := columns[name]; !ok {
			columns[name] = i
		}
	}

	var records []model.PhraseRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		if isBlankRow(row) {
			continue
		}
		if len(records) == 0 {
			if missing := missingColumns(columns, row); len(missing) > 0 {
				return nil, &MissingColumnsError{Missing: missing}
			}
		}
		records = append(records, model.PhraseRecord{
			Filename:        field(columns, row, model.ColumnFilename),
			Phrase:          field(columns, row, model.ColumnPhrase),
			English:         field(columns, row, model.ColumnEnglish),
			GrammarNotes:    field(columns, row, model.ColumnGrammar),
			Transliteration: field(columns, row, model.ColumnTransliteration),
		})
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// missingColumns lists required columns that the header lacks or the row is too short to fill.
func missingColumns(columns map[string]int, row []string) []string {
	var missing []string
	for _, name := range model.RequiredColumns {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			missing = append(missing, name)
		}
	}
	return missing
}

func field(columns map[string]int, row []string, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	return len(row) == 1 && row[0] == ""
}
