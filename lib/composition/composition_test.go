package composition

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// the denominator is the total sample count, not the number of samples a
// category appears in. this is deliberate and load bearing for the
// summaries built on top of it.
func TestMeanDividesByTotalSampleCount(t *testing.T) {
	means := Mean([]Sample{
		{"A": 10},
		{"B": 20},
	}, "sDate")

	require.InDelta(t, 5, means["A"], 1e-9)
	require.InDelta(t, 10, means["B"], 1e-9)
}

func TestMeanSparseCategory(t *testing.T) {
	samples := make([]Sample, 10)
	for i := range samples {
		samples[i] = Sample{"Europe": 50}
	}
	samples[3]["Japon"] = 30

	means := Mean(samples, "sDate")
	require.InDelta(t, 50, means["Europe"], 1e-9)
	require.InDelta(t, 3, means["Japon"], 1e-9)
}

func TestMeanExcludesAxisKey(t *testing.T) {
	means := Mean([]Sample{
		{"sDate": 20231231, "Europe": 60},
		{"sDate": 20240131, "Europe": 40},
	}, "sDate")

	diff := cmp.Diff(map[string]float64{"Europe": 50}, means, cmpopts.EquateApprox(0, 1e-9))
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestMeanEmpty(t *testing.T) {
	require.Empty(t, Mean(nil, "sDate"))
}

func TestSignificantThreshold(t *testing.T) {
	means := map[string]float64{
		"Europe":          25,
		"Amérique du Nord": 24.999,
		"Asie":            40,
	}

	got := Significant(means, 25)
	expected := []Entry{
		{Label: "Asie", Percent: 40},
		{Label: "Europe", Percent: 25},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestTop(t *testing.T) {
	_, ok := Top(map[string]float64{})
	require.False(t, ok)

	top, ok := Top(map[string]float64{
		"Technologie": 30,
		"Santé":       30,
		"Finance":     12,
	})
	require.True(t, ok)
	require.Equal(t, Entry{Label: "Santé", Percent: 30}, top)
}
