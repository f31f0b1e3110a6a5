package fundagg

import (
	"context"
	"errors"
	"math"
	"testing"

	"fundagg-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestJobComplete(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/fundagg")
	defer cleanup()

	site := newFakeSite()
	record := Job{ISIN: completeISIN, Open: site.Open}.Run(context.Background())

	require.Equal(t, OutcomeComplete, record.Outcome)
	require.NoError(t, record.Err)
	require.Equal(t, "Comgest Monde C", record.Hit.Name)
	// the fund page category refines the coarse "Monde"
	require.Equal(t, "Pays Emergents Monde", record.Zone)
	require.Equal(t, 6.0, record.Detail.SRRI)
	require.Equal(t, 12.5, record.Detail.Performance.YTD)
	require.NotNil(t, record.SectorAndStyle)
	require.Equal(t, "Amérique du Nord 60%, Europe 40%, Technologie", *record.SectorAndStyle)
	require.EqualValues(t, 1, site.closed.Load())
}

func TestJobNotFound(t *testing.T) {
	site := newFakeSite()
	record := Job{ISIN: notFoundISIN, Open: site.Open}.Run(context.Background())

	require.Equal(t, OutcomeNotFound, record.Outcome)
	require.NoError(t, record.Err)
	require.Nil(t, record.Hit)
	require.Equal(t, notFoundISIN, record.ISIN)
	require.EqualValues(t, 1, site.closed.Load())
}

func TestJobCompositionFailureKeepsGatheredFields(t *testing.T) {
	site := newFakeSite()
	record := Job{ISIN: brokenCompISIN, Open: site.Open}.Run(context.Background())

	require.Equal(t, OutcomePartial, record.Outcome)
	require.True(t, errors.Is(record.Err, errTransport))
	require.ErrorContains(t, record.Err, "fetch composition")
	require.Equal(t, "Carmignac Emergents", record.Hit.Name)
	require.Equal(t, "Pays Emergents Asie", record.Zone)
	require.True(t, math.IsNaN(record.Detail.SRRI))
	require.Nil(t, record.SectorAndStyle)
	require.EqualValues(t, 1, site.closed.Load())
}

func TestJobDetailFailureKeepsSearchHit(t *testing.T) {
	site := newFakeSite()
	record := Job{ISIN: brokenPageISIN, Open: site.Open}.Run(context.Background())

	require.Equal(t, OutcomePartial, record.Outcome)
	require.ErrorContains(t, record.Err, "fetch fund page")
	require.Equal(t, "Amundi Tresorerie", record.Hit.Name)
	// coarse zone from the search hit survives
	require.Equal(t, "Euro", record.Zone)
	require.Nil(t, record.Detail)
	require.EqualValues(t, 1, site.closed.Load())
}

func TestJobSessionFailure(t *testing.T) {
	site := newFakeSite()
	site.refuse = completeISIN
	record := Job{ISIN: completeISIN, Open: site.Open}.Run(context.Background())

	require.Equal(t, OutcomePartial, record.Outcome)
	require.True(t, errors.Is(record.Err, errTransport))
	require.Equal(t, FundRecord{ISIN: completeISIN, Outcome: OutcomePartial, Err: record.Err}, record)
	require.EqualValues(t, 0, site.closed.Load())
}

func TestJobRecoversPanic(t *testing.T) {
	site := newFakeSite()
	site.panicOn = completeISIN
	record := Job{ISIN: completeISIN, Open: site.Open}.Run(context.Background())

	require.Equal(t, OutcomePartial, record.Outcome)
	require.True(t, errors.Is(record.Err, errPanic))
	require.Nil(t, record.Hit)
	require.EqualValues(t, 1, site.closed.Load())
}
