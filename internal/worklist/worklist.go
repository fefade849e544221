// Package worklist reads and writes the csv files that list what a batch
// should look up.
package worklist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"xwordclues/internal/components/telemetry"
	"xwordclues/internal/records"

	"github.com/go-playground/validator/v10"
)

const (
	report_worklist_row = "worklist.row"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WordItem asks for up to Clues clues of Word.
type WordItem struct {
	Word        string `validate:"required"`
	Clues       int    `validate:"gte=0"`
	Occurrences int    `validate:"gte=0"`
	Rank        int    `validate:"gte=0"`
}

func (w WordItem) Key() string {
	return w.Word
}

// ClueItem asks for the most common answers of Clue.
type ClueItem struct {
	Clue  string `validate:"required"`
	Count int    `validate:"gte=0"`
	Rank  int    `validate:"gte=0"`
}

func (c ClueItem) Key() string {
	return c.Clue
}

var (
	WordColumns = []string{"Word", "Clues", "Occurrences", "Rank"}
	ClueColumns = []string{"Clue", "Count", "Rank"}
)

// header maps lowercased column names to their index.
type header map[string]int

func readHeader(row []string, required []string) (header, error) {
	h := header{}
	for i, name := range row {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := h[key]; !ok {
			h[key] = i
		}
	}
	var missing []string
	for _, name := range required {
		if _, ok := h[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns %s", strings.Join(missing, ", "))
	}
	return h, nil
}

func (h header) text(row []string, name string) (string, error) {
	i := h[strings.ToLower(name)]
	if i >= len(row) {
		return "", fmt.Errorf("no value for %s", name)
	}
	return strings.TrimSpace(row[i]), nil
}

func (h header) number(row []string, name string) (int, error) {
	value, err := h.text(row, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.ReplaceAll(value, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

// load reads every row of a csv with the given required columns, rows
// that parse fails on are reported and skipped. A missing or unreadable
// file is an error.
func load[T any](path string, columns []string, tel telemetry.API, parse func(header, []string) (T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load worklist: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("load worklist %s: empty file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("load worklist %s: %w", path, err)
	}
	h, err := readHeader(first, columns)
	if err != nil {
		return nil, fmt.Errorf("load worklist %s: %w", path, err)
	}

	var out []T
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			tel.ReportWarning(report_worklist_row, path, line, err)
			continue
		}
		item, err := parse(h, row)
		if err == nil {
			err = validate.Struct(item)
		}
		if err != nil {
			tel.ReportWarning(report_worklist_row, path, line, err)
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// LoadWords reads a word worklist, columns are matched by name ignoring
// case and order.
func LoadWords(path string, tel telemetry.API) ([]WordItem, error) {
	return load(path, WordColumns, tel, func(h header, row []string) (WordItem, error) {
		var item WordItem
		var err error
		if item.Word, err = h.text(row, "Word"); err != nil {
			return item, err
		}
		if item.Clues, err = h.number(row, "Clues"); err != nil {
			return item, err
		}
		if item.Occurrences, err = h.number(row, "Occurrences"); err != nil {
			return item, err
		}
		item.Rank, err = h.number(row, "Rank")
		return item, err
	})
}

// LoadClues reads a clue worklist.
func LoadClues(path string, tel telemetry.API) ([]ClueItem, error) {
	return load(path, ClueColumns, tel, func(h header, row []string) (ClueItem, error) {
		var item ClueItem
		var err error
		if item.Clue, err = h.text(row, "Clue"); err != nil {
			return item, err
		}
		if item.Count, err = h.number(row, "Count"); err != nil {
			return item, err
		}
		item.Rank, err = h.number(row, "Rank")
		return item, err
	})
}

func write(path string, columns []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "" {
		err := os.MkdirAll(dir, 0777)
		if err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	err = w.Write(columns)
	if err != nil {
		return err
	}
	err = w.WriteAll(rows)
	if err != nil {
		return err
	}
	return f.Close()
}

// WriteWords writes the popular words listing as a word worklist.
func WriteWords(path string, words []records.PopularWord) error {
	rows := make([][]string, len(words))
	for i, w := range words {
		rows[i] = []string{
			w.Word,
			strconv.Itoa(w.Clues),
			strconv.Itoa(w.Occurrences),
			strconv.Itoa(w.Rank),
		}
	}
	err := write(path, WordColumns, rows)
	if err != nil {
		return fmt.Errorf("write worklist %s: %w", path, err)
	}
	return nil
}

// WriteClues writes the common clue listing as a clue worklist.
func WriteClues(path string, clues []records.CommonClue) error {
	rows := make([][]string, len(clues))
	for i, c := range clues {
		rows[i] = []string{
			c.Clue,
			strconv.Itoa(c.Count),
			strconv.Itoa(c.Rank),
		}
	}
	err := write(path, ClueColumns, rows)
	if err != nil {
		return fmt.Errorf("write worklist %s: %w", path, err)
	}
	return nil
}
