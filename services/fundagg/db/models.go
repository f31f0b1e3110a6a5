package db

import (
	"database/sql"
	"database/sql/driver"
	"math"
	"time"

	"github.com/google/uuid"
)

// Fund is one exported row. nullable columns are NULL when the job never
// reached the stage producing them or the source did not publish a value.
type Fund struct {
	Position       int
	ISIN           string
	Outcome        string
	Error          sql.NullString
	Name           sql.NullString
	Rating         sql.NullInt64
	SRRI           sql.NullFloat64
	Sharpe         sql.NullFloat64
	AssetClass     sql.NullString
	Zone           sql.NullString
	SectorAndStyle sql.NullString
	PerfYTD        sql.NullFloat64
	Perf1Y         sql.NullFloat64
	Perf3Y         sql.NullFloat64
	Perf5Y         sql.NullFloat64
}

// Run is one batch export.
type Run struct {
	ID        string
	StartedAt time.Time
	Funds     []Fund
}

func NewRun(startedAt time.Time, funds []Fund) Run {
	return Run{
		ID:        uuid.NewString(),
		StartedAt: startedAt,
		Funds:     funds,
	}
}

// Float maps NaN to NULL.
func Float(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}

func String(v string) sql.NullString {
	return sql.NullString{String: v, Valid: true}
}

func Int(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

func nullable(v driver.Valuer) any {
	value, _ := v.Value()
	return value
}

// values lays the row out along fundColumns with NULLs as untyped nil, so
// both database/sql drivers and pgx accept it.
func (f Fund) values(runId string) []any {
	return []any{
		runId,
		int64(f.Position),
		f.ISIN,
		f.Outcome,
		nullable(f.Error),
		nullable(f.Name),
		nullable(f.Rating),
		nullable(f.SRRI),
		nullable(f.Sharpe),
		nullable(f.AssetClass),
		nullable(f.Zone),
		nullable(f.SectorAndStyle),
		nullable(f.PerfYTD),
		nullable(f.Perf1Y),
		nullable(f.Perf3Y),
		nullable(f.Perf5Y),
	}
}

var fundColumns = []string{
	"run_id",
	"position",
	"isin",
	"outcome",
	"error",
	"name",
	"quantalys_rating",
	"srri_rating",
	"sharpe_ratio",
	"asset_class",
	"geo_zone",
	"sector_and_style",
	"perf_ytd",
	"perf_1y",
	"perf_3y",
	"perf_5y",
}
