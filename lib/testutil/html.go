package testutil

import (
	"fmt"
	"html"
	"strings"
)

// Table describes an html table fixture, Header becomes the first <tr> with
// <th> cells, every row in Rows becomes a <tr> with <td> cells.
type Table struct {
	Header []string
	Rows   [][]string
	// Filler pads the table with rows of this shape until it has Total rows
	// including the header. Empty Filler uses three placeholder cells.
	Filler []string
	Total  int
}

func (t Table) HTML() string {
	var out strings.Builder
	out.WriteString("<table>\n")
	rowCount := 0
	if len(t.Header) > 0 {
		writeRow(&out, "th", t.Header)
		rowCount++
	}
	for _, row := range t.Rows {
		writeRow(&out, "td", row)
		rowCount++
	}
	filler := t.Filler
	if len(filler) == 0 {
		filler = []string{"1/1/1999", "Sat", "Filler clue (4)"}
	}
	for ; rowCount < t.Total; rowCount++ {
		writeRow(&out, "td", filler)
	}
	out.WriteString("</table>\n")
	return out.String()
}

func writeRow(out *strings.Builder, cell string, values []string) {
	out.WriteString("<tr>")
	for _, v := range values {
		fmt.Fprintf(out, "<%s>%s</%s>", cell, html.EscapeString(v), cell)
	}
	out.WriteString("</tr>\n")
}

// Page wraps body fragments into a full html document with the given title.
func Page(title string, body ...string) string {
	return fmt.Sprintf(
		"<!DOCTYPE html>\n<html><head><title>%s</title></head><body>\n%s</body></html>",
		html.EscapeString(title),
		strings.Join(body, "\n"),
	)
}

// LoginPage is what the site answers with once the session is gone.
func LoginPage() string {
	return Page(
		"Login - XWord Info",
		`<form method="post"><input type="text" name="email"><input type="password" name="pw"></form>`,
	)
}

// Anchors renders links to the word lookup page for each answer.
func Anchors(path string, answers ...string) string {
	var out strings.Builder
	for _, a := range answers {
		fmt.Fprintf(&out, `<a href="%s?word=%s">%s</a>`+"\n", path, a, html.EscapeString(a))
	}
	return out.String()
}
