package htmlutil

import (
	"bytes"
	"strings"

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

// Predicate decides whether a single node matches a lookup.
type Predicate func(node *html.Node) bool

// ExactText matches nodes whose full text equals `text` byte for byte.
// leading and trailing whitespace is significant: labels on upstream pages
// carry incidental trailing spaces and must be given verbatim.
func ExactText(text string) Predicate {
	return func(node *html.Node) bool {
		return GetText(node) == text
	}
}

// HasClass matches element nodes carrying every class in `classes`.
func HasClass(classes ...string) Predicate {
	return func(node *html.Node) bool {
		var attr string
		for _, a := range node.Attr {
			if a.Key == "class" {
				attr = a.Val
				break
			}
		}
		present := strings.Fields(attr)
	outer:
		for _, want := range classes {
			for _, have := range present {
				if have == want {
					continue outer
				}
			}
			return false
		}
		return true
	}
}

// FindFirst returns the first node matched by `selector` under `sel` that
// also satisfies `pred`.
func FindFirst(sel *goquery.Selection, selector string, pred Predicate) (*goquery.Selection, bool) {
	matched := sel.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return pred(s.Get(0))
	}).First()
	if matched.Length() == 0 {
		return nil, false
	}
	return matched, true
}

// NextSiblingText returns the trimmed text of the next element sibling.
func NextSiblingText(sel *goquery.Selection) (string, bool) {
	next := sel.Next()
	if next.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(next.Text()), true
}

// LabelValue finds the `selector` node whose text is exactly `label` and
// returns the text of the element that follows it.
func LabelValue(sel *goquery.Selection, selector, label string) (string, bool) {
	labelSel, ok := FindFirst(sel, selector, ExactText(label))
	if !ok {
		return "", false
	}
	return NextSiblingText(labelSel)
}
