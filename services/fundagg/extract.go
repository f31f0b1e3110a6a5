package fundagg

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"fundagg-backend/lib/htmlutil"
	"fundagg-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// labels are matched verbatim against the fund page, trailing spaces
// included.
const (
	categoryLabel = "Catégorie Quantalys "
	perfYTDLabel  = "Perf. YTD "
	perf1YLabel   = "Perf. 1 an "
	perf3YLabel   = "Perf. 3 ans "
	perf5YLabel   = "Perf. 5 ans "
)

var srriClasses = []string{"indic-srri", "indic-srri-selected"}

// zonePriority is searched in order, so more specific names must come
// before the names they contain ("Pays Emergents Monde" before "Monde").
var zonePriority = []string{
	"Pays Emergents Monde",
	"Pays Emergents Asie",
	"Pays Emergents Europe",
	"Pays Emergents",
	"Amérique Latine",
	"Amérique du Nord",
	"Etats-Unis",
	"Zone Euro",
	"Europe",
	"France",
	"Royaume-Uni",
	"Suisse",
	"Japon",
	"Chine",
	"Inde",
	"Asie",
	"Monde",
}

// ResolveZone returns the first known region named in `category`.
func ResolveZone(category string) (string, bool) {
	for _, zone := range zonePriority {
		if strings.Contains(category, zone) {
			return zone, true
		}
	}
	return "", false
}

// CoarseZone derives a zone from the search hit by removing the broad
// asset class from the specific category ("Actions Europe" -> "Europe").
func CoarseZone(assetClass, specificCategory string) (string, bool) {
	return textutil.RemovePrefix(assetClass, specificCategory)
}

// ExtractSRRI reads the highlighted risk indicator, NaN when the page does
// not carry one.
func ExtractSRRI(ctx context.Context, doc *goquery.Document) float64 {
	sel, ok := htmlutil.FindFirst(doc.Selection, "div", htmlutil.HasClass(srriClasses...))
	if !ok {
		slog.DebugContext(ctx, "risk indicator not found")
		return math.NaN()
	}
	text := strings.TrimSpace(sel.Text())
	value, err := strconv.Atoi(text)
	if err != nil {
		slog.DebugContext(ctx, "risk indicator is not an integer", "text", text)
		return math.NaN()
	}
	return float64(value)
}

// ExtractCategory reads the site's own category of the fund, which names
// the region more precisely than the search grid does.
func ExtractCategory(doc *goquery.Document) (string, bool) {
	return htmlutil.LabelValue(doc.Selection, "td", categoryLabel)
}

func extractPercent(ctx context.Context, doc *goquery.Document, label string) float64 {
	text, ok := htmlutil.LabelValue(doc.Selection, "td", label)
	if !ok {
		return math.NaN()
	}
	value, err := textutil.ParsePercent(text)
	if err != nil {
		slog.DebugContext(ctx, "unparseable performance figure", "label", label, "text", text)
		return math.NaN()
	}
	return value
}

func ExtractPerformance(ctx context.Context, doc *goquery.Document) Performance {
	return Performance{
		YTD:        extractPercent(ctx, doc, perfYTDLabel),
		OneYear:    extractPercent(ctx, doc, perf1YLabel),
		ThreeYears: extractPercent(ctx, doc, perf3YLabel),
		FiveYears:  extractPercent(ctx, doc, perf5YLabel),
	}
}
