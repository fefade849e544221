package worklist

import (
	"os"
	"path/filepath"
	"testing"
	"xwordclues/internal/components/telemetry"
	"xwordclues/internal/records"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "worklist.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0666))
	return path
}

func TestLoadWords(t *testing.T) {
	path := writeFile(t, `rank,WORD,occurrences,clues
1,ERA,120,3
2,,90,2
3,ALOE,"1,200",30
x,ORE,80,2
4,ONE,70
`)
	rec := &telemetry.Recorder{}
	words, err := LoadWords(path, rec)
	require.NoError(t, err)

	expected := []WordItem{
		{Word: "ERA", Clues: 3, Occurrences: 120, Rank: 1},
		{Word: "ALOE", Clues: 30, Occurrences: 1200, Rank: 3},
	}
	if diff := cmp.Diff(expected, words); diff != "" {
		t.Fatal(diff)
	}
	require.Len(t, rec.Find(telemetry.REPORT_WARNING, report_worklist_row), 3)
}

func TestLoadClues(t *testing.T) {
	path := writeFile(t, "Clue,Count,Rank\nZilch,412,1\n\"Greek letter, sometimes\",300,2\n")
	clues, err := LoadClues(path, &telemetry.Recorder{})
	require.NoError(t, err)
	require.Equal(t, []ClueItem{
		{Clue: "Zilch", Count: 412, Rank: 1},
		{Clue: "Greek letter, sometimes", Count: 300, Rank: 2},
	}, clues)
}

func TestLoadFailures(t *testing.T) {
	_, err := LoadWords(filepath.Join(t.TempDir(), "missing.csv"), &telemetry.Recorder{})
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadClues(writeFile(t, ""), &telemetry.Recorder{})
	require.Error(t, err)

	_, err = LoadClues(writeFile(t, "Clue,Rank\nZilch,1\n"), &telemetry.Recorder{})
	require.ErrorContains(t, err, "Count")
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()

	wordsPath := filepath.Join(dir, "out", "words.csv")
	err := WriteWords(wordsPath, []records.PopularWord{
		{Word: "ERA", Clues: 3, Occurrences: 120, Rank: 1},
	})
	require.NoError(t, err)
	contents, err := os.ReadFile(wordsPath)
	require.NoError(t, err)
	require.Equal(t, "Word,Clues,Occurrences,Rank\nERA,3,120,1\n", string(contents))

	words, err := LoadWords(wordsPath, &telemetry.Recorder{})
	require.NoError(t, err)
	require.Equal(t, []WordItem{{Word: "ERA", Clues: 3, Occurrences: 120, Rank: 1}}, words)

	cluesPath := filepath.Join(dir, "clues.csv")
	err = WriteClues(cluesPath, []records.CommonClue{{Clue: "Zilch", Count: 412, Rank: 1}})
	require.NoError(t, err)
	clues, err := LoadClues(cluesPath, &telemetry.Recorder{})
	require.NoError(t, err)
	require.Equal(t, []ClueItem{{Clue: "Zilch", Count: 412, Rank: 1}}, clues)
}
