package fundagg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fundagg-backend/lib/composition"
	"fundagg-backend/lib/scrapers/quantalys"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// Source is the slice of the data source a job needs.
type Source interface {
	Search(ctx context.Context, isin string) ([]quantalys.SearchHit, error)
	FundPage(ctx context.Context, productId int64) (*goquery.Document, error)
	Composition(ctx context.Context, productId int64, kind quantalys.SeriesKind) ([]composition.Sample, error)
	Close() error
}

// SessionFactory opens a fresh session for one job. sessions are never
// shared between jobs.
type SessionFactory func(ctx context.Context, isin string) (Source, error)

// QuantalysSessions opens one quantalys client per job.
func QuantalysSessions(opts quantalys.ClientOptions) SessionFactory {
	return func(ctx context.Context, isin string) (Source, error) {
		sessionOpts := opts
		if sessionOpts.DumpPrefix == "" {
			sessionOpts.DumpPrefix = isin
		}
		return quantalys.NewClient(ctx, sessionOpts)
	}
}

var errPanic = errors.New("job panicked")

// Job collects the attributes of one fund.
type Job struct {
	ISIN string
	Open SessionFactory
}

type jobState struct {
	isin   string
	source Source
	record FundRecord
}

// Run never fails: errors end the job early and yield a partial record,
// which is returned like any other.
func (job Job) Run(ctx context.Context) (record FundRecord) {
	ctx, span := tracer.Start(ctx, "Job.Run")
	defer span.End()
	span.SetAttributes(attribute.String("isin", job.ISIN))

	isin := job.ISIN
	j := &jobState{isin: isin, record: FundRecord{ISIN: isin}}

	defer func() {
		if r := recover(); r != nil {
			j.fail(ctx, fmt.Errorf("%w: %v", errPanic, r))
		}
		record = j.record

		span.SetAttributes(attribute.String("outcome", record.Outcome.String()))
		if record.Err != nil {
			span.RecordError(record.Err)
			span.SetStatus(codes.Error, "job failed")
		}
		jobCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("outcome", record.Outcome.String()),
		))
	}()

	source, err := job.Open(ctx, isin)
	if err != nil {
		j.fail(ctx, fmt.Errorf("open session: %w", err))
		return
	}
	defer func() {
		err := source.Close()
		if err != nil {
			slog.DebugContext(ctx, "failed to close session", "isin", isin, "err", err)
		}
	}()
	j.source = source

	j.run(ctx)
	return
}

func (j *jobState) fail(ctx context.Context, err error) {
	j.record.Outcome = OutcomePartial
	j.record.Err = err
	slog.WarnContext(ctx, "fund aggregation failed", "isin", j.isin, "err", err)
}

func (j *jobState) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "stage:"+name)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, name+" failed")
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (j *jobState) run(ctx context.Context) {
	found := false
	err := j.stage(ctx, "search", func(ctx context.Context) (err error) {
		found, err = j.search(ctx)
		return err
	})
	if err != nil {
		j.fail(ctx, err)
		return
	}
	if !found {
		slog.DebugContext(ctx, "no search results", "isin", j.isin)
		j.record.Outcome = OutcomeNotFound
		return
	}

	var doc *goquery.Document
	err = j.stage(ctx, "fetch fund page", func(ctx context.Context) (err error) {
		doc, err = j.source.FundPage(ctx, j.record.Hit.ProductID)
		return err
	})
	if err != nil {
		j.fail(ctx, err)
		return
	}
	j.extract(ctx, doc)

	var series map[quantalys.SeriesKind][]composition.Sample
	err = j.stage(ctx, "fetch composition", func(ctx context.Context) (err error) {
		series, err = j.fetchComposition(ctx)
		return err
	})
	if err != nil {
		j.fail(ctx, err)
		return
	}
	summary := Summarize(series)
	j.record.SectorAndStyle = &summary

	j.record.Outcome = OutcomeComplete
}

func (j *jobState) search(ctx context.Context) (bool, error) {
	hits, err := j.source.Search(ctx, j.isin)
	if err != nil {
		return false, err
	}
	if len(hits) == 0 {
		return false, nil
	}

	hit := hits[0]
	j.record.Hit = &hit
	zone, ok := CoarseZone(hit.AssetClass, hit.SpecificCategory)
	if ok {
		j.record.Zone = zone
	}
	return true, nil
}

func (j *jobState) extract(ctx context.Context, doc *goquery.Document) {
	j.record.Detail = &Detail{
		SRRI:        ExtractSRRI(ctx, doc),
		Performance: ExtractPerformance(ctx, doc),
	}

	category, ok := ExtractCategory(doc)
	if !ok {
		return
	}
	zone, ok := ResolveZone(category)
	if ok {
		j.record.Zone = zone
	}
}

func (j *jobState) fetchComposition(ctx context.Context) (map[quantalys.SeriesKind][]composition.Sample, error) {
	series := make(map[quantalys.SeriesKind][]composition.Sample, len(quantalys.AllSeries))
	for _, kind := range quantalys.AllSeries {
		samples, err := j.source.Composition(ctx, j.record.Hit.ProductID, kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		series[kind] = samples
	}
	return series, nil
}
