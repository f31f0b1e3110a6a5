package fundagg

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
)

// Batch runs one Job per identifier.
type Batch struct {
	Open SessionFactory
	// maximum number of jobs in flight, 0 runs every job at once
	Concurrency int
}

// Run returns exactly one record per identifier, in input order. `done`
// receives one signal per finished job (success or failure alike) and may
// be nil.
func (b Batch) Run(ctx context.Context, isins []string, done chan<- struct{}) []FundRecord {
	ctx, span := tracer.Start(ctx, "Batch.Run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("isins", len(isins)),
		attribute.Int("concurrency", b.Concurrency),
	)

	var sem chan struct{}
	if b.Concurrency > 0 {
		sem = make(chan struct{}, b.Concurrency)
	}

	records := make([]FundRecord, len(isins))
	wg := sync.WaitGroup{}
	for i, isin := range isins {
		wg.Add(1)
		go func(i int, isin string) {
			defer wg.Done()
			if done != nil {
				defer func() { done <- struct{}{} }()
			}
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			job := Job{ISIN: isin, Open: b.Open}
			records[i] = job.Run(ctx)
		}(i, isin)
	}
	wg.Wait()

	return records
}
