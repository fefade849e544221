// Package records turns located tables and result pages into the rows the
// batch writes out.
package records

import "strconv"

// Columns is the header of every output file.
var Columns = []string{"Word", "Clue", "Date", "Rank", "Occurrences"}

// DatePlaceholder fills the date column of rows that have no date.
const DatePlaceholder = "-"

// DatedClue is one row of a word's clue history table.
type DatedClue struct {
	Date string
	Clue string
}

// ClueRecord is one observed clue for a word.
type ClueRecord struct {
	Word        string
	Clue        string
	Date        string
	Rank        int
	Occurrences int
}

// FlashcardRecord pairs a clue (with letter count hints) to its most
// common answers.
type FlashcardRecord struct {
	Answers     string
	Clue        string
	Date        string
	Rank        int
	Occurrences int
}

// Record is anything that can be written as an output row.
type Record interface {
	Row() []string
}

func (r ClueRecord) Row() []string {
	return []string{
		r.Word,
		r.Clue,
		r.Date,
		strconv.Itoa(r.Rank),
		strconv.Itoa(r.Occurrences),
	}
}

func (r FlashcardRecord) Row() []string {
	return []string{
		r.Answers,
		r.Clue,
		r.Date,
		strconv.Itoa(r.Rank),
		strconv.Itoa(r.Occurrences),
	}
}

// AnswerCount is an answer and the number of times it was seen.
type AnswerCount struct {
	Answer string
	Count  int
}
