package records

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"xwordclues/lib/htmlutil"
	"xwordclues/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// Tally counts answers by exact text, remembering the order in which each
// answer was first seen.
type Tally struct {
	counts map[string]int
	order  []string
}

func NewTally() *Tally {
	return &Tally{counts: map[string]int{}}
}

func (t *Tally) Add(answer string) {
	if _, ok := t.counts[answer]; !ok {
		t.order = append(t.order, answer)
	}
	t.counts[answer]++
}

func (t *Tally) Len() int {
	return len(t.order)
}

// Top returns the limit most common answers by descending count, equal
// counts keep first-seen order. limit <= 0 returns every answer.
func (t *Tally) Top(limit int) []AnswerCount {
	out := make([]AnswerCount, len(t.order))
	for i, answer := range t.order {
		out[i] = AnswerCount{Answer: answer, Count: t.counts[answer]}
	}
	slices.SortStableFunc(out, func(a, b AnswerCount) int {
		return b.Count - a.Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// AnswerLinkMatcher reports whether a link points at the word lookup
// endpoint, only those links carry answers.
type AnswerLinkMatcher struct {
	// Path is the path of the lookup endpoint, compared case-insensitively.
	Path string
	// Param is the query parameter holding the word.
	Param string
}

func (m AnswerLinkMatcher) Match(link *url.URL) bool {
	if link == nil || !strings.EqualFold(link.Path, m.Path) {
		return false
	}
	return link.Query().Has(m.Param)
}

// TallyAnswers counts the visible text of every answer link in the result
// page, in document order.
func TallyAnswers(doc *goquery.Document, base *url.URL, matcher AnswerLinkMatcher) *Tally {
	tally := NewTally()
	for _, a := range htmlutil.GetAnchors(base, doc.Find("a[href]")) {
		if a.Name == "" || !matcher.Match(a.Url) {
			continue
		}
		tally.Add(a.Name)
	}
	return tally
}

// Flashcard combines a clue with its ranked answers, the clue is suffixed
// with the letter count of each answer, ex. "Zilch (3, 4)".
func Flashcard(clue string, rank, occurrences int, answers []AnswerCount) FlashcardRecord {
	names := make([]string, len(answers))
	hints := make([]string, len(answers))
	for i, a := range answers {
		names[i] = a.Answer
		hints[i] = fmt.Sprint(textutil.LetterCount(a.Answer))
	}
	return FlashcardRecord{
		Answers:     strings.Join(names, " / "),
		Clue:        fmt.Sprintf("%s (%s)", clue, strings.Join(hints, ", ")),
		Date:        DatePlaceholder,
		Rank:        rank,
		Occurrences: occurrences,
	}
}
