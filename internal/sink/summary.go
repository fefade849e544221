package sink

import (
	"fmt"
	"io"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary describes what an output file holds.
type Summary struct {
	Records int
	// Entries lists record counts per value of the first column, most
	// records first.
	Entries []Entry
}

type Entry struct {
	Key     string
	Records int
	// Sample is the clue of the first record for Key.
	Sample string
}

// Summarize reads back an output file.
func Summarize(path string) (Summary, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return Summary{}, err
	}

	index := map[string]int{}
	var entries []Entry
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		i, ok := index[row[0]]
		if !ok {
			i = len(entries)
			index[row[0]] = i
			entries = append(entries, Entry{Key: row[0], Sample: row[1]})
		}
		entries[i].Records++
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Records - a.Records
	})
	return Summary{Records: len(rows), Entries: entries}, nil
}

// Render writes the summary as a table of its limit largest entries.
func (s Summary) Render(out io.Writer, limit int) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Word", "Records", "First clue"})

	entries := s.Entries
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for _, e := range entries {
		t.AppendRow(table.Row{e.Key, e.Records, e.Sample})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d words", len(s.Entries)),
		s.Records,
		"",
	})
	t.Render()
}
