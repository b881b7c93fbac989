// Package model defines shared data structures.
package model

// Config defines practice settings.
type Config struct {
	Shuffle        bool
	Player         string
	Probe          string
	AudioDir       string
	DefaultDataset string
}

// StatsConfig defines options for the listening dashboard.
type StatsConfig struct {
	// Month is the reference month for the monthly total (YYYY-MM).
	Month string
}

// DatasetKind selects between the bundled and the uploaded phrase set.
type DatasetKind string

// Dataset kinds stored under the activeDataset key.
const (
	DatasetDefault DatasetKind = "default"
	DatasetCustom  DatasetKind = "custom"
)

// Required CSV column names. They double as JSON field names of PhraseRecord.
const (
	ColumnFilename        = "Filename"
	ColumnPhrase          = "Phrase"
	ColumnEnglish         = "English"
	ColumnGrammar         = "Grammar and Structure"
	ColumnTransliteration = "Transliteration"
)

// RequiredColumns lists the columns every uploaded CSV must provide.
var RequiredColumns = []string{
	ColumnFilename,
	ColumnPhrase,
	ColumnEnglish,
	ColumnGrammar,
	ColumnTransliteration,
}

// PhraseRecord is one flashcard. Identity is its position in the collection.
type PhraseRecord struct {
	Filename        string `json:"Filename"`
	Phrase          string `json:"Phrase"`
	English         string `json:"English"`
	GrammarNotes    string `json:"Grammar and Structure"`
	Transliteration string `json:"Transliteration"`
}

// ImportMeta describes the most recent custom dataset upload.
type ImportMeta struct {
	ID         string `json:"id"`
	ImportedAt string `json:"importedAt"`
	Records    int    `json:"records"`
	AudioFiles int    `json:"audioFiles"`
	Language   string `json:"language,omitempty"`
}

// DailyTotal is the listening time recorded on one date.
type DailyTotal struct {
	Date    string
	Seconds int64
}

// WeekTotal is the listening time of one Monday-started week.
type WeekTotal struct {
	WeekStart string
	Seconds   int64
}
