package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"fundagg-backend/lib/telemetry"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	_ "modernc.org/sqlite"
)

var tracer = telemetry.Tracer("fundagg.services.fundagg.db")

// Sink persists export runs.
type Sink interface {
	Save(ctx context.Context, run Run) error
	// Funds reads back the rows of one run in position order.
	Funds(ctx context.Context, runId string) ([]Fund, error)
	Close() error
}

// Open picks a sink from the shape of `dsn`: postgres URLs go to postgres,
// libsql and http(s) URLs to a remote libsql server, anything else is a
// sqlite file path.
func Open(ctx context.Context, dsn string) (Sink, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return OpenPostgres(ctx, dsn)
	case strings.HasPrefix(dsn, "libsql://"),
		strings.HasPrefix(dsn, "http://"),
		strings.HasPrefix(dsn, "https://"):
		database, err := sql.Open("libsql", dsn)
		if err != nil {
			return nil, err
		}
		return NewStore(ctx, database)
	default:
		return OpenSqlite(ctx, dsn)
	}
}

// OpenSqlite opens (and creates if needed) a local sqlite database.
func OpenSqlite(ctx context.Context, path string) (Store, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, err
	}
	// sqlite allows a single writer, ":memory:" databases also only exist
	// on the connection that created them.
	database.SetMaxOpenConns(1)
	if path != ":memory:" {
		_, err = database.ExecContext(ctx, "PRAGMA journal_mode=WAL")
		if err != nil {
			database.Close()
			return Store{}, err
		}
	}
	return NewStore(ctx, database)
}

// Store is a sink over database/sql, used for sqlite and libsql.
type Store struct {
	db *sql.DB
}

// NewStore applies the schema to `database`.
func NewStore(ctx context.Context, database *sql.DB) (Store, error) {
	_, err := database.ExecContext(ctx, Schema)
	if err != nil {
		database.Close()
		return Store{}, fmt.Errorf("apply schema: %w", err)
	}
	return Store{db: database}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

var insertFund = fmt.Sprintf(
	"insert into fund_record (%s) values (?%s)",
	strings.Join(fundColumns, ", "),
	strings.Repeat(", ?", len(fundColumns)-1),
)

func (s Store) Save(ctx context.Context, run Run) error {
	ctx, span := tracer.Start(ctx, "Store.Save")
	defer span.End()
	span.SetAttributes(
		attribute.String("run_id", run.ID),
		attribute.Int("funds", len(run.Funds)),
	)

	err := s.save(ctx, run)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	slog.DebugContext(ctx, "saved export run", "run_id", run.ID, "funds", len(run.Funds))
	return nil
}

func (s Store) save(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		"insert into export_run (id, started_at, fund_count) values (?, ?, ?)",
		run.ID, run.StartedAt.Unix(), len(run.Funds),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertFund)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, f := range run.Funds {
		_, err = stmt.ExecContext(ctx, f.values(run.ID)...)
		if err != nil {
			return fmt.Errorf("insert fund %s: %w", f.ISIN, err)
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func selectFunds(placeholder string) string {
	return fmt.Sprintf(
		"select %s from fund_record where run_id = %s order by position",
		strings.Join(fundColumns[1:], ", "),
		placeholder,
	)
}

func scanFund(row rowScanner) (Fund, error) {
	var f Fund
	err := row.Scan(
		&f.Position,
		&f.ISIN,
		&f.Outcome,
		&f.Error,
		&f.Name,
		&f.Rating,
		&f.SRRI,
		&f.Sharpe,
		&f.AssetClass,
		&f.Zone,
		&f.SectorAndStyle,
		&f.PerfYTD,
		&f.Perf1Y,
		&f.Perf3Y,
		&f.Perf5Y,
	)
	return f, err
}

// Funds reads back the rows of one run in position order.
func (s Store) Funds(ctx context.Context, runId string) ([]Fund, error) {
	rows, err := s.db.QueryContext(ctx, selectFunds("?"), runId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var funds []Fund
	for rows.Next() {
		f, err := scanFund(rows)
		if err != nil {
			return nil, err
		}
		funds = append(funds, f)
	}
	return funds, rows.Err()
}
