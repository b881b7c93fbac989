package dataset

import (
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/phrasebook/internal/model"
)

const validCSV = "Filename,Phrase,English,Grammar and Structure,Transliteration\n" +
	"a.mp3,こんにちは,Hello,greeting,konnichiwa\n" +
	"\n" +
	"b.mp3,ありがとう,Thanks,\"casual, short\",arigatou\n" +
	"c.mp3,はい,Yes,,hai\n"

func TestParseRecords_KeepsRowOrderAndSkipsBlankRows(t *testing.T) {
	t.Parallel()

	records, err := ParseRecords(strings.NewReader(validCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, model.PhraseRecord{
		Filename:        "a.mp3",
		Phrase:          "こんにちは",
		English:         "Hello",
		GrammarNotes:    "greeting",
		Transliteration: "konnichiwa",
	}, records[0])
	assert.Equal(t, "casual, short", records[1].GrammarNotes)
	assert.Equal(t, "c.mp3", records[2].Filename)
	assert.Equal(t, "", records[2].GrammarNotes)
}

func TestParseRecords_ColumnOrderAndExtraColumns(t *testing.T) {
	t.Parallel()

	input := "\ufeffNotes,Transliteration,English,Filename,Level,Phrase,Grammar and Structure\n" +
		"x,hai,Yes,hai.mp3,1,はい,interjection\r\n"
	records, err := ParseRecords(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.PhraseRecord{
		Filename:        "hai.mp3",
		Phrase:          "はい",
		English:         "Yes",
		GrammarNotes:    "interjection",
		Transliteration: "hai",
	}, records[0])
}

func TestParseRecords_MissingColumn(t *testing.T) {
	t.Parallel()

	for _, dropped := range model.RequiredColumns {
		cols := make([]string, 0, len(model.RequiredColumns)-1)
		vals := make([]string, 0, len(model.RequiredColumns)-1)
		for _, c := range model.RequiredColumns {
			if c == dropped {
				continue
			}
			cols = append(cols, c)
			vals = append(vals, "v")
		}
		input := strings.Join(cols, ",") + "\n" + strings.Join(vals, ",") + "\n"

		_, err := ParseRecords(strings.NewReader(input))
		require.Error(t, err, dropped)
		assert.True(t, errors.Is(err, ErrMissingColumns), dropped)
		var mc *MissingColumnsError
		require.True(t, errors.As(err, &mc))
		assert.Equal(t, []string{dropped}, mc.Missing)
	}
}

func TestParseRecords_ShortFirstRowIsMissingColumns(t *testing.T) {
	t.Parallel()

	input := "Filename,Phrase,English,Grammar and Structure,Transliteration\n" +
		"a.mp3,はい,Yes\n"
	_, err := ParseRecords(strings.NewReader(input))
	require.Error(t, err)
	var mc *MissingColumnsError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, []string{model.ColumnGrammar, model.ColumnTransliteration}, mc.Missing)
}

func TestParseRecords_ShortLaterRowIsAccepted(t *testing.T) {
	t.Parallel()

	input := "Filename,Phrase,English,Grammar and Structure,Transliteration\n" +
		"a.mp3,はい,Yes,g,hai\n" +
		"b.mp3,いいえ\n"
	records, err := ParseRecords(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.PhraseRecord{Filename: "b.mp3", Phrase: "いいえ"}, records[1])
}

func TestParseRecords_ParseError(t *testing.T) {
	t.Parallel()

	input := "Filename,Phrase,English,Grammar and Structure,Transliteration\n" +
		"a.mp3,\"unterminated,Yes,g,hai\n"
	_, err := ParseRecords(strings.NewReader(input))
	require.Error(t, err)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	var csvErr *csv.ParseError
	assert.True(t, errors.As(err, &csvErr))
	assert.True(t, strings.HasPrefix(err.Error(), "csv parse error: "))
}

func TestParseRecords_NoRows(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "Filename,Phrase,English,Grammar and Structure,Transliteration\n\n"} {
		_, err := ParseRecords(strings.NewReader(input))
		assert.True(t, errors.Is(err, ErrNoRecords), "%q", input)
	}
}
