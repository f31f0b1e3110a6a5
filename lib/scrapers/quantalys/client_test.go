package quantalys

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"fundagg-backend/lib/composition"
	"fundagg-backend/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

const searchBody = `{"data": [
	{
		"sNom": "Comgest Monde C",
		"nStarRating": 4,
		"nSharpe3a": 0.87,
		"sGroupeCat_rng1": "Actions",
		"sGroupeCat_Specific_Dynamic": "Actions Monde",
		"ID_Produit": 62215
	},
	{
		"sNom": "Comgest Monde I",
		"nStarRating": null,
		"nSharpe3a": null,
		"sGroupeCat_rng1": "Actions",
		"sGroupeCat_Specific_Dynamic": "Actions Monde",
		"ID_Produit": 62216
	}
]}`

// "Société" in ISO-8859-1
var latin1Page = []byte("<html><body><h1>Soci\xe9t\xe9</h1></body></html>")

func newTestServer(t testing.TB) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /Recherche/Data", func(w http.ResponseWriter, r *http.Request) {
		err := r.ParseForm()
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("sSearch") != "FR0010017731" {
			w.Write([]byte(`{"data": []}`))
			return
		}
		w.Write([]byte(searchBody))
	})
	mux.HandleFunc("GET /Fonds/62215", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write(latin1Page)
	})
	mux.HandleFunc("GET /Fonds/500", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /Fonds/62215/Composition/Geographique", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [
			{"sDate": 1703980800000, "Europe": 40.5, "Act. Amérique du Nord": "35,5%"},
			{"sDate": "31/01/2024", "Europe": "-", "Japon": "n/a"}
		]}`))
	})
	mux.HandleFunc("GET /Fonds/62215/Composition/Style", func(w http.ResponseWriter, r *http.Request) {})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t testing.TB) *Client {
	srv := newTestServer(t)
	client, err := NewClient(context.Background(), ClientOptions{BaseUrl: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSearch(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/quantalys")
	defer cleanup()

	client := newTestClient(t)
	ctx := context.Background()

	hits, err := client.Search(ctx, "FR0010017731")
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, hits, 2)
	require.Equal(t, SearchHit{
		Name:             "Comgest Monde C",
		StarRating:       4,
		Sharpe3Y:         0.87,
		AssetClass:       "Actions",
		SpecificCategory: "Actions Monde",
		ProductID:        62215,
	}, hits[0])
	require.True(t, math.IsNaN(hits[1].StarRating))
	require.True(t, math.IsNaN(hits[1].Sharpe3Y))

	hits, err = client.Search(ctx, "XX0000000000")
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, hits)
}

func TestFundPageDecodesCharset(t *testing.T) {
	client := newTestClient(t)

	doc, err := client.FundPage(context.Background(), 62215)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Société", doc.Find("h1").Text())
}

func TestFundPageStatusError(t *testing.T) {
	client := newTestClient(t)

	_, err := client.FundPage(context.Background(), 500)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestComposition(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	samples, err := client.Composition(ctx, 62215, SeriesGeography)
	if err != nil {
		t.Fatal(err)
	}
	expected := []composition.Sample{
		{AxisKey: 1703980800000, "Europe": 40.5, "Act. Amérique du Nord": 35.5},
		{"Europe": 0},
	}
	if diff := cmp.Diff(expected, samples, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatal(diff)
	}

	samples, err = client.Composition(ctx, 62215, SeriesStyle)
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, samples)

	_, err = client.Composition(ctx, 62215, SeriesSector)
	require.True(t, errors.Is(err, ErrUnexpectedStatus))
}
