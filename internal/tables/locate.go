// Package tables finds the data grid of a page among the layout and
// navigation tables around it.
package tables

import (
	"xwordclues/lib/htmlutil"
	"xwordclues/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// Locator picks the relevant data table out of a parsed document.
//
// note: the heuristics behind a Locator are expected to drift with the
// upstream markup, callers should not depend on anything but this method.
type Locator interface {
	// Locate returns the table and true, or false if the document has no
	// table worth extracting. Not finding a table is not an error.
	Locate(doc *goquery.Document) (*goquery.Selection, bool)
}

// DefaultMinRows separates real data grids from layout tables.
const DefaultMinRows = 50

// DefaultRecentYears is the year set that marks a table as sorted newest
// first.
var DefaultRecentYears = []string{"2020", "2021", "2022", "2023", "2024", "2025", "2026"}

var (
	// DatedClueTokens are the header tokens of a word's clue history table.
	DatedClueTokens = []string{"date", "clue"}
	// AggregateClueTokens are the header tokens of the common clue listing.
	AggregateClueTokens = []string{"clue", "count"}
)

// HeaderLocator accepts tables with more than MinRows rows whose first row
// has a cell for every token in Tokens. Among those it prefers the first one
// whose first data row starts with one of RecentYears.
type HeaderLocator struct {
	MinRows     int
	Tokens      []string
	RecentYears []string
}

func NewDatedClueLocator() HeaderLocator {
	return HeaderLocator{
		MinRows:     DefaultMinRows,
		Tokens:      DatedClueTokens,
		RecentYears: DefaultRecentYears,
	}
}

func NewAggregateClueLocator() HeaderLocator {
	return HeaderLocator{
		MinRows: DefaultMinRows,
		Tokens:  AggregateClueTokens,
	}
}

func (l HeaderLocator) Locate(doc *goquery.Document) (*goquery.Selection, bool) {
	candidates := l.Candidates(doc)
	if len(candidates) == 0 {
		return nil, false
	}
	for _, table := range candidates {
		if l.isRecent(table) {
			return table, true
		}
	}
	return candidates[0], true
}

// Candidates returns every table passing the row count and header checks,
// in document order.
func (l HeaderLocator) Candidates(doc *goquery.Document) []*goquery.Selection {
	var candidates []*goquery.Selection
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() <= l.MinRows {
			return
		}
		if !HasHeaderTokens(rows.First(), l.Tokens) {
			return
		}
		candidates = append(candidates, table)
	})
	return candidates
}

func (l HeaderLocator) isRecent(table *goquery.Selection) bool {
	if len(l.RecentYears) == 0 {
		return false
	}
	rows := table.Find("tr")
	if rows.Length() < 2 {
		return false
	}
	firstCell := rows.Eq(1).Find("td").First()
	if firstCell.Length() == 0 {
		return false
	}
	return textutil.ContainsAny(htmlutil.SelectionText(firstCell), l.RecentYears)
}

// HeaderCells returns the normalized text of each header or data cell of row.
func HeaderCells(row *goquery.Selection) []string {
	cells := row.Find("td, th")
	out := make([]string, 0, cells.Length())
	for _, n := range cells.Nodes {
		out = append(out, textutil.NormalizeKey(htmlutil.NodeText(n)))
	}
	return out
}

// HasHeaderTokens reports whether every token is the full text of some
// cell of row.
func HasHeaderTokens(row *goquery.Selection, tokens []string) bool {
	cells := HeaderCells(row)
	for _, token := range tokens {
		if ColumnIndex(cells, token) < 0 {
			return false
		}
	}
	return true
}

// ColumnIndex returns the position of token in normalized header cells, or -1.
func ColumnIndex(cells []string, token string) int {
	for i, c := range cells {
		if c == token {
			return i
		}
	}
	return -1
}

// Inspect returns the row count of each table in the document, it is the
// debug report for pages where nothing could be located.
func Inspect(doc *goquery.Document) []int {
	var sizes []int
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		sizes = append(sizes, table.Find("tr").Length())
	})
	return sizes
}
