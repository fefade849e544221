package htmlutil

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var whitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText collapses runs of whitespace into single spaces, strips
// non-printable characters and trims.
func CleanText(s string) string {
	s = whitespace.ReplaceAllString(s, " ")
	s = removeNonPrintable(s)
	return strings.TrimSpace(s)
}

// NodeText is the cleaned text content of a node.
func NodeText(node *html.Node) string {
	return CleanText(GetText(node))
}

// SelectionText is the cleaned text content of the first node of sel.
func SelectionText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return NodeText(sel.Nodes[0])
}

// Title returns the cleaned text of the document <title>, or "" when there
// isn't one.
func Title(doc *goquery.Document) string {
	return SelectionText(doc.Find("title"))
}

type Anchor struct {
	Name string
	Url  *url.URL
}

// GetAnchors collects every anchor in sel with an href, relative hrefs are
// resolved against base when base is non-nil. Anchors with unparseable
// hrefs are dropped.
func GetAnchors(base *url.URL, sel *goquery.Selection) []Anchor {
	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		hasHref := false
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				hasHref = true
				break
			}
		}
		if !hasHref {
			continue
		}

		link, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			continue
		}
		if base != nil {
			link = base.ResolveReference(link)
		}

		anchors = append(anchors, Anchor{
			Name: NodeText(n),
			Url:  link,
		})
	}
	return anchors
}

// HiddenInputs returns the name and value of every hidden form input in
// sel, in document order. Inputs without a name are skipped.
func HiddenInputs(sel *goquery.Selection) url.Values {
	values := url.Values{}
	sel.Find("input").Each(func(_ int, input *goquery.Selection) {
		if !strings.EqualFold(input.AttrOr("type", ""), "hidden") {
			return
		}
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		values.Add(name, input.AttrOr("value", ""))
	})
	return values
}
