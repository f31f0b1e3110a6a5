package fundagg

import (
	"context"
	"math"
	"time"

	"fundagg-backend/services/fundagg/db"
)

// Row converts the record into its stored form.
func (r FundRecord) Row(position int) db.Fund {
	row := db.Fund{
		Position: position,
		ISIN:     r.ISIN,
		Outcome:  r.Outcome.String(),
	}
	if r.Err != nil {
		row.Error = db.String(r.Err.Error())
	}
	if r.Hit != nil {
		row.Name = db.String(r.Hit.Name)
		if !math.IsNaN(r.Hit.StarRating) {
			row.Rating = db.Int(int(r.Hit.StarRating))
		}
		row.Sharpe = db.Float(r.Hit.Sharpe3Y)
		row.AssetClass = db.String(r.Hit.AssetClass)
		row.Zone = db.String(r.Zone)
	}
	if r.Detail != nil {
		row.SRRI = db.Float(r.Detail.SRRI)
		row.PerfYTD = db.Float(r.Detail.Performance.YTD)
		row.Perf1Y = db.Float(r.Detail.Performance.OneYear)
		row.Perf3Y = db.Float(r.Detail.Performance.ThreeYears)
		row.Perf5Y = db.Float(r.Detail.Performance.FiveYears)
	}
	if r.SectorAndStyle != nil {
		row.SectorAndStyle = db.String(*r.SectorAndStyle)
	}
	return row
}

// Save stores the records as one run and returns its id.
func Save(ctx context.Context, sink db.Sink, startedAt time.Time, records []FundRecord) (string, error) {
	funds := make([]db.Fund, len(records))
	for i, r := range records {
		funds[i] = r.Row(i)
	}
	run := db.NewRun(startedAt, funds)
	err := sink.Save(ctx, run)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}
