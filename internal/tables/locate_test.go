package tables

import (
	"strings"
	"testing"
	"xwordclues/lib/htmlutil"
	"xwordclues/lib/testutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t testing.TB, page string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func firstDate(table *goquery.Selection) string {
	return htmlutil.SelectionText(table.Find("tr").Eq(1).Find("td").First())
}

var clueHeader = []string{"Date", "Grid", "Clue"}

func TestLocateFound(t *testing.T) {
	page := testutil.Page("ERA - Finder",
		testutil.Table{Header: []string{"Nav"}, Rows: [][]string{{"Home"}, {"Popular"}}}.HTML(),
		testutil.Table{
			Header: clueHeader,
			Rows:   [][]string{{"1/6/2023", "Fri", "Epoch (3)"}},
			Total:  60,
		}.HTML(),
	)

	table, ok := NewDatedClueLocator().Locate(parse(t, page))
	require.True(t, ok)
	require.Equal(t, "1/6/2023", firstDate(table))
}

func TestLocateNotFound(t *testing.T) {
	testCases := []struct {
		name string
		page string
	}{
		{
			name: "no tables",
			page: testutil.Page("empty", "<p>nothing here</p>"),
		},
		{
			name: "exactly the row threshold",
			page: testutil.Page("short", testutil.Table{Header: clueHeader, Total: 50}.HTML()),
		},
		{
			name: "missing clue header",
			page: testutil.Page("headers", testutil.Table{
				Header: []string{"Date", "Grid", "Answer"},
				Total:  80,
			}.HTML()),
		},
		{
			name: "token is only a substring of a header cell",
			page: testutil.Page("headers", testutil.Table{
				Header: []string{"Date played", "Clue"},
				Total:  80,
			}.HTML()),
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, ok := NewDatedClueLocator().Locate(parse(t, test.page))
			require.False(t, ok)
		})
	}
}

func TestLocatePrefersRecentTable(t *testing.T) {
	page := testutil.Page("ERA - Finder",
		testutil.Table{
			Header: clueHeader,
			Rows:   [][]string{{"3/2/1998", "Mon", "Long time (3)"}},
			Total:  70,
		}.HTML(),
		testutil.Table{
			Header: clueHeader,
			Rows:   [][]string{{"5/14/2024", "Tue", "Period (3)"}},
			Total:  70,
		}.HTML(),
	)

	table, ok := NewDatedClueLocator().Locate(parse(t, page))
	require.True(t, ok)
	require.Equal(t, "5/14/2024", firstDate(table))
}

func TestLocateFallsBackToFirstCandidate(t *testing.T) {
	page := testutil.Page("ERA - Finder",
		testutil.Table{
			Header: clueHeader,
			Rows:   [][]string{{"3/2/1998", "Mon", "Long time (3)"}},
			Total:  70,
		}.HTML(),
		testutil.Table{
			Header: clueHeader,
			Rows:   [][]string{{"7/7/1987", "Tue", "Period (3)"}},
			Total:  70,
		}.HTML(),
	)

	table, ok := NewDatedClueLocator().Locate(parse(t, page))
	require.True(t, ok)
	require.Equal(t, "3/2/1998", firstDate(table))
}

func TestLocateAggregate(t *testing.T) {
	page := testutil.Page("Common Clues",
		testutil.Table{
			Header: []string{"Rank", "Count", "Clue"},
			Rows:   [][]string{{"1.", "412", "Zilch"}},
			Total:  100,
		}.HTML(),
	)

	table, ok := NewAggregateClueLocator().Locate(parse(t, page))
	require.True(t, ok)
	require.Equal(t, 100, table.Find("tr").Length())

	_, ok = NewDatedClueLocator().Locate(parse(t, page))
	require.False(t, ok)
}

func TestInspect(t *testing.T) {
	page := testutil.Page("x",
		testutil.Table{Header: []string{"a"}, Total: 3}.HTML(),
		testutil.Table{Header: clueHeader, Total: 51}.HTML(),
	)
	require.Equal(t, []int{3, 51}, Inspect(parse(t, page)))
}

func TestColumnIndex(t *testing.T) {
	cells := HeaderCells(parse(t, testutil.Page("x", testutil.Table{Header: clueHeader}.HTML())).Find("tr").First())
	require.Equal(t, []string{"date", "grid", "clue"}, cells)
	require.Equal(t, 2, ColumnIndex(cells, "clue"))
	require.Equal(t, -1, ColumnIndex(cells, "count"))
}
