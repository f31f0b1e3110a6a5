package fundagg

import (
	"math"
	"strconv"

	"fundagg-backend/lib/scrapers/quantalys"
	"fundagg-backend/lib/tabular"
)

type Outcome int

const (
	// every stage ran
	OutcomeComplete Outcome = iota
	// the search returned no candidate
	OutcomeNotFound
	// a stage failed, the record holds what was gathered before it
	OutcomePartial
)

func (o Outcome) String() string {
	switch o {
	case OutcomeComplete:
		return "complete"
	case OutcomeNotFound:
		return "not_found"
	case OutcomePartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Performance holds historical returns in percent, NaN when not published.
type Performance struct {
	YTD        float64
	OneYear    float64
	ThreeYears float64
	FiveYears  float64
}

// FundRecord is the output row of one job. only ISIN is guaranteed, the
// other parts are set as the stages producing them complete.
type FundRecord struct {
	ISIN    string
	Outcome Outcome
	// the error that ended a partial job
	Err error

	Hit *quantalys.SearchHit
	// geographic zone, empty when unresolved
	Zone string

	// nil until the detail page was extracted
	Detail *Detail
	// nil until every composition series was reduced
	SectorAndStyle *string
}

// Detail holds what the fund page contributes.
type Detail struct {
	// risk rating as printed on the page, NaN when absent
	SRRI        float64
	Performance Performance
}

const (
	ColumnISIN           = "isin"
	ColumnName           = "name"
	ColumnRating         = "quantalys_rating"
	ColumnSRRI           = "srri_rating"
	ColumnSharpe         = "sharpe_ratio"
	ColumnAssetClass     = "asset_class"
	ColumnZone           = "geo_zone"
	ColumnSectorAndStyle = "sector_and_style"
	ColumnPerfYTD        = "perf_ytd"
	ColumnPerf1Y         = "perf_1y"
	ColumnPerf3Y         = "perf_3y"
	ColumnPerf5Y         = "perf_5y"
)

// Columns is the preferred layout of exported tables.
var Columns = []string{
	ColumnISIN,
	ColumnName,
	ColumnRating,
	ColumnSRRI,
	ColumnSharpe,
	ColumnAssetClass,
	ColumnZone,
	ColumnSectorAndStyle,
	ColumnPerfYTD,
	ColumnPerf1Y,
	ColumnPerf3Y,
	ColumnPerf5Y,
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Fields lists the columns this record actually has.
func (r FundRecord) Fields() []tabular.Field {
	fields := []tabular.Field{{Name: ColumnISIN, Value: r.ISIN}}
	if r.Hit == nil {
		return fields
	}

	fields = append(fields,
		tabular.Field{Name: ColumnName, Value: r.Hit.Name},
		tabular.Field{Name: ColumnRating, Value: formatFloat(r.Hit.StarRating)},
		tabular.Field{Name: ColumnSharpe, Value: formatFloat(r.Hit.Sharpe3Y)},
		tabular.Field{Name: ColumnAssetClass, Value: r.Hit.AssetClass},
		tabular.Field{Name: ColumnZone, Value: r.Zone},
	)
	if r.Detail != nil {
		perf := r.Detail.Performance
		fields = append(fields,
			tabular.Field{Name: ColumnSRRI, Value: formatFloat(r.Detail.SRRI)},
			tabular.Field{Name: ColumnPerfYTD, Value: formatFloat(perf.YTD)},
			tabular.Field{Name: ColumnPerf1Y, Value: formatFloat(perf.OneYear)},
			tabular.Field{Name: ColumnPerf3Y, Value: formatFloat(perf.ThreeYears)},
			tabular.Field{Name: ColumnPerf5Y, Value: formatFloat(perf.FiveYears)},
		)
	}
	if r.SectorAndStyle != nil {
		fields = append(fields, tabular.Field{Name: ColumnSectorAndStyle, Value: *r.SectorAndStyle})
	}
	return fields
}

// Table lays records out in input order.
func Table(records []FundRecord) *tabular.Table {
	table := tabular.New(Columns...)
	for _, r := range records {
		table.Append(r.Fields())
	}
	return table
}
