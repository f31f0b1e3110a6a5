package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const fixture = `<html><body>
<div class="indic-srri">1</div>
<div class="indic-srri indic-srri-selected">4</div>
<table>
	<tr><td>Perf. 1 an </td><td> 12,5% </td></tr>
	<tr><td>Perf. 1 an</td><td>99%</td></tr>
	<tr><td>Orphan label </td></tr>
</table>
</body></html>`

func parse(t testing.TB) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fixture))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestFindFirstByClass(t *testing.T) {
	doc := parse(t)

	sel, ok := FindFirst(doc.Selection, "div", HasClass("indic-srri", "indic-srri-selected"))
	require.True(t, ok)
	require.Equal(t, "4", sel.Text())

	_, ok = FindFirst(doc.Selection, "div", HasClass("missing"))
	require.False(t, ok)
}

func TestLabelValueWhitespaceIsSignificant(t *testing.T) {
	doc := parse(t)

	value, ok := LabelValue(doc.Selection, "td", "Perf. 1 an ")
	require.True(t, ok)
	require.Equal(t, "12,5%", value)

	value, ok = LabelValue(doc.Selection, "td", "Perf. 1 an")
	require.True(t, ok)
	require.Equal(t, "99%", value)

	_, ok = LabelValue(doc.Selection, "td", "Perf. 1 an  ")
	require.False(t, ok)
}

func TestLabelValueWithoutSibling(t *testing.T) {
	doc := parse(t)
	_, ok := LabelValue(doc.Selection, "td", "Orphan label ")
	require.False(t, ok)
}

func TestGetText(t *testing.T) {
	doc := parse(t)
	require.Equal(t, "4", GetText(doc.Find("div.indic-srri-selected").Get(0)))
	require.Equal(t, "", GetText(nil))
}
