package batch

import (
	"context"
	"xwordclues/internal/components/telemetry"
	"xwordclues/internal/records"
	"xwordclues/internal/scrapers/xwordinfo"
	"xwordclues/internal/tables"
	"xwordclues/internal/worklist"
)

const (
	report_word_mode_locate = "finder.locate"
)

// Item is one unit of a worklist.
type Item interface {
	Key() string
}

// Mode decides what looking up an item means. Process makes a single
// attempt with the session it is given, the driver takes care of
// retrying lost sessions.
type Mode[T Item] interface {
	Name() string
	// Resumable modes write records as they go and can pick up an
	// interrupted run, other modes write everything at the end.
	Resumable() bool
	Process(ctx context.Context, sess *xwordinfo.Session, item T) ([]records.Record, error)
}

// WordMode looks up the clue history of each word.
type WordMode struct {
	locator    tables.Locator
	similarity float64
	tel        telemetry.API
}

// NewWordMode creates a WordMode, similarity > 0 also drops clues that
// are nearly the same as an earlier one.
func NewWordMode(locator tables.Locator, similarity float64, tel telemetry.API) WordMode {
	return WordMode{
		locator:    locator,
		similarity: similarity,
		tel:        telemetry.NewScopedAPI("word_mode", tel),
	}
}

func (WordMode) Name() string {
	return "clues"
}

func (WordMode) Resumable() bool {
	return false
}

func (m WordMode) Process(ctx context.Context, sess *xwordinfo.Session, item worklist.WordItem) ([]records.Record, error) {
	page, err := sess.Finder(ctx, item.Word)
	if err != nil {
		return nil, err
	}

	table, ok := m.locator.Locate(page.Doc)
	if !ok {
		m.tel.ReportDebug(report_word_mode_locate, item.Word, tables.Inspect(page.Doc))
		return nil, nil
	}

	clues := records.ExtractClues(table, item.Clues)
	found := records.Dedupe(
		records.ClueRecords(item.Word, item.Rank, item.Occurrences, clues),
		m.similarity,
	)
	out := make([]records.Record, len(found))
	for i, r := range found {
		out[i] = r
	}
	return out, nil
}

// DefaultAnswers is how many answers a flashcard lists.
const DefaultAnswers = 3

// FlashcardMode searches each clue and keeps its most common answers.
type FlashcardMode struct {
	Answers int
}

func (FlashcardMode) Name() string {
	return "flashcards"
}

func (FlashcardMode) Resumable() bool {
	return true
}

func (m FlashcardMode) Process(ctx context.Context, sess *xwordinfo.Session, item worklist.ClueItem) ([]records.Record, error) {
	tally, err := sess.SearchAnswers(ctx, item.Clue)
	if err != nil {
		return nil, err
	}
	limit := m.Answers
	if limit <= 0 {
		limit = DefaultAnswers
	}
	answers := tally.Top(limit)
	if len(answers) == 0 {
		return nil, nil
	}
	return []records.Record{
		records.Flashcard(item.Clue, item.Rank, item.Count, answers),
	}, nil
}
