package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PostgresStore is a sink over a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, dsn string) (PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return PostgresStore{}, err
	}
	_, err = pool.Exec(ctx, PostgresSchema)
	if err != nil {
		pool.Close()
		return PostgresStore{}, fmt.Errorf("apply schema: %w", err)
	}
	return PostgresStore{pool: pool}, nil
}

func (s PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s PostgresStore) Save(ctx context.Context, run Run) error {
	ctx, span := tracer.Start(ctx, "PostgresStore.Save")
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

func (s PostgresStore) save(ctx context.Context, run Run) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(
		ctx,
		"insert into export_run (id, started_at, fund_count) values ($1, $2, $3)",
		run.ID, run.StartedAt, len(run.Funds),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	rows := make([][]any, len(run.Funds))
	for i, f := range run.Funds {
		rows[i] = f.values(run.ID)
	}
	_, err = tx.CopyFrom(ctx, pgx.Identifier{"fund_record"}, fundColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy funds: %w", err)
	}
	return tx.Commit(ctx)
}

// Funds reads back the rows of one run in position order.
func (s PostgresStore) Funds(ctx context.Context, runId string) ([]Fund, error) {
	rows, err := s.pool.Query(ctx, selectFunds("$1"), runId)
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
