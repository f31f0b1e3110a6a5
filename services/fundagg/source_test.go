package fundagg

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fundagg-backend/lib/composition"
	"fundagg-backend/lib/scrapers/quantalys"

	"github.com/PuerkitoBio/goquery"
)

var errTransport = errors.New("connection reset by peer")

// fakeSite serves canned search hits, pages and composition series, keyed
// by product id. a product missing from `pages` or `series` fails like a
// dropped connection.
type fakeSite struct {
	hits   map[string][]quantalys.SearchHit
	pages  map[int64]string
	series map[int64]map[quantalys.SeriesKind][]composition.Sample
	// when set, every call sleeps up to this long
	jitter time.Duration
	// when set, opening a session for this isin fails
	refuse string
	// when set, searching this isin panics
	panicOn string

	mu     sync.Mutex
	opened int
	closed atomic.Int32
	// sessions open right now, and the most ever open at once
	active atomic.Int32
	peak   atomic.Int32
}

type fakeSession struct {
	site *fakeSite
}

func (f *fakeSite) Open(ctx context.Context, isin string) (Source, error) {
	if isin == f.refuse {
		return nil, errTransport
	}
	f.mu.Lock()
	f.opened++
	f.mu.Unlock()

	active := f.active.Add(1)
	for {
		peak := f.peak.Load()
		if active <= peak || f.peak.CompareAndSwap(peak, active) {
			break
		}
	}
	return &fakeSession{site: f}, nil
}

func (s *fakeSession) wait() {
	if s.site.jitter > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(s.site.jitter))))
	}
}

func (s *fakeSession) Search(ctx context.Context, isin string) ([]quantalys.SearchHit, error) {
	s.wait()
	if isin == s.site.panicOn {
		panic("unexpected payload")
	}
	return s.site.hits[isin], nil
}

func (s *fakeSession) FundPage(ctx context.Context, productId int64) (*goquery.Document, error) {
	s.wait()
	page, ok := s.site.pages[productId]
	if !ok {
		return nil, errTransport
	}
	return goquery.NewDocumentFromReader(strings.NewReader(page))
}

func (s *fakeSession) Composition(ctx context.Context, productId int64, kind quantalys.SeriesKind) ([]composition.Sample, error) {
	s.wait()
	series, ok := s.site.series[productId]
	if !ok {
		return nil, fmt.Errorf("%s: %w", kind, errTransport)
	}
	return series[kind], nil
}

func (s *fakeSession) Close() error {
	s.site.active.Add(-1)
	s.site.closed.Add(1)
	return nil
}

const (
	completeISIN    = "FR0010017731"
	notFoundISIN    = "XX0000000000"
	brokenCompISIN  = "LU0119750205"
	brokenPageISIN  = "FR0000989626"
	completeProduct = 62215
	brokenProduct   = 71000
	noPageProduct   = 82000
)

func newFakeSite() *fakeSite {
	return &fakeSite{
		hits: map[string][]quantalys.SearchHit{
			completeISIN: {{
				Name:             "Comgest Monde C",
				StarRating:       4,
				Sharpe3Y:         0.87,
				AssetClass:       "Actions",
				SpecificCategory: "Actions Monde",
				ProductID:        completeProduct,
			}},
			brokenCompISIN: {{
				Name:             "Carmignac Emergents",
				StarRating:       3,
				Sharpe3Y:         0.4,
				AssetClass:       "Actions",
				SpecificCategory: "Actions Pays Emergents",
				ProductID:        brokenProduct,
			}},
			brokenPageISIN: {{
				Name:             "Amundi Tresorerie",
				StarRating:       2,
				Sharpe3Y:         1.2,
				AssetClass:       "Monétaire",
				SpecificCategory: "Monétaire Euro",
				ProductID:        noPageProduct,
			}},
		},
		pages: map[int64]string{
			completeProduct: fundPage,
			brokenProduct:   `<table><tr><td>Catégorie Quantalys </td><td>Actions Pays Emergents Asie</td></tr></table>`,
		},
		series: map[int64]map[quantalys.SeriesKind][]composition.Sample{
			completeProduct: {
				quantalys.SeriesGeography: {
					{quantalys.AxisKey: 1, "Act. Amérique du Nord": 60, "Act. Europe": 40},
				},
				quantalys.SeriesSector: {
					{quantalys.AxisKey: 1, "Technologie": 55, "Santé": 45},
				},
			},
		},
	}
}
