package records

import (
	"strconv"
	"strings"
	"xwordclues/internal/tables"
	"xwordclues/lib/htmlutil"
	"xwordclues/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

func cellTexts(row *goquery.Selection) []string {
	cells := row.Find("td")
	out := make([]string, 0, cells.Length())
	for _, n := range cells.Nodes {
		out = append(out, htmlutil.NodeText(n))
	}
	return out
}

// ExtractClues reads the rows following the header of a clue history
// table. At most maxRows rows are looked at, rows with fewer than 3 cells
// within that window are skipped.
func ExtractClues(table *goquery.Selection, maxRows int) []DatedClue {
	if table == nil || maxRows <= 0 {
		return nil
	}

	rows := table.Find("tr")
	end := min(rows.Length(), maxRows+1)

	var out []DatedClue
	for i := 1; i < end; i++ {
		cells := cellTexts(rows.Eq(i))
		if len(cells) < 3 {
			continue
		}
		out = append(out, DatedClue{
			Date: cells[0],
			Clue: textutil.StripLengthHint(cells[2]),
		})
	}
	return out
}

// ClueRecords attaches the word's worklist attributes to extracted clues.
func ClueRecords(word string, rank, occurrences int, clues []DatedClue) []ClueRecord {
	out := make([]ClueRecord, len(clues))
	for i, c := range clues {
		out[i] = ClueRecord{
			Word:        word,
			Clue:        c.Clue,
			Date:        c.Date,
			Rank:        rank,
			Occurrences: occurrences,
		}
	}
	return out
}

// CommonClue is a row of the site wide common clue listing.
type CommonClue struct {
	Clue  string
	Count int
	Rank  int
}

// ExtractCommonClues reads clue and count columns by header position,
// rows with a non numeric count are skipped. limit <= 0 reads every row.
func ExtractCommonClues(table *goquery.Selection, limit int) []CommonClue {
	if table == nil {
		return nil
	}

	rows := table.Find("tr")
	header := tables.HeaderCells(rows.First())
	clueIdx := tables.ColumnIndex(header, "clue")
	countIdx := tables.ColumnIndex(header, "count")
	if clueIdx < 0 || countIdx < 0 {
		return nil
	}

	var out []CommonClue
	for i := 1; i < rows.Length(); i++ {
		if limit > 0 && len(out) >= limit {
			break
		}
		cells := cellTexts(rows.Eq(i))
		if len(cells) <= max(clueIdx, countIdx) {
			continue
		}
		count, err := parseCount(cells[countIdx])
		if err != nil {
			continue
		}
		clue := textutil.StripLengthHint(cells[clueIdx])
		if clue == "" {
			continue
		}
		out = append(out, CommonClue{
			Clue:  clue,
			Count: count,
			Rank:  len(out) + 1,
		})
	}
	return out
}

// PopularWord is an entry of the site's most popular answers listing.
type PopularWord struct {
	Word        string
	Clues       int
	Occurrences int
	Rank        int
}

// CluesPerOccurrence scales a word's occurrence count into the number of
// clues to request for it.
const CluesPerOccurrence = 40

// ExtractPopular reads the popular answers listing: a rank cell like "12.",
// an occurrence count and the words themselves, one link each. Cells
// without links are read as a single word. limit <= 0 reads every word.
func ExtractPopular(table *goquery.Selection, limit int) []PopularWord {
	if table == nil {
		return nil
	}

	var out []PopularWord
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 || (limit > 0 && len(out) >= limit) {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		rank, err := strconv.Atoi(strings.TrimRight(htmlutil.SelectionText(cells.Eq(0)), "."))
		if err != nil {
			return
		}
		count, err := parseCount(htmlutil.SelectionText(cells.Eq(1)))
		if err != nil {
			return
		}

		var words []string
		wordCell := cells.Eq(2)
		links := wordCell.Find("a")
		if links.Length() > 0 {
			for _, n := range links.Nodes {
				words = append(words, htmlutil.NodeText(n))
			}
		} else {
			words = append(words, htmlutil.SelectionText(wordCell))
		}

		for _, w := range words {
			if w == "" {
				continue
			}
			if limit > 0 && len(out) >= limit {
				return
			}
			out = append(out, PopularWord{
				Word:        w,
				Clues:       count / CluesPerOccurrence,
				Occurrences: count,
				Rank:        rank,
			})
		}
	})
	return out
}

func parseCount(s string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}
