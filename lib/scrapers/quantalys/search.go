package quantalys

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SearchHit is one candidate row of the fund search grid.
type SearchHit struct {
	Name string
	// 1 to 5 stars, NaN when the fund is unrated
	StarRating float64
	// 3 year sharpe ratio, NaN when the site has none
	Sharpe3Y float64
	// broad asset class, ex. "Actions"
	AssetClass string
	// asset class followed by a geographic qualifier, ex. "Actions Europe"
	SpecificCategory string
	ProductID        int64
}

type searchRow struct {
	Name             string   `json:"sNom"`
	StarRating       *int     `json:"nStarRating"`
	Sharpe3Y         *float64 `json:"nSharpe3a"`
	AssetClass       string   `json:"sGroupeCat_rng1"`
	SpecificCategory string   `json:"sGroupeCat_Specific_Dynamic"`
	ProductID        int64    `json:"ID_Produit"`
}

type searchResponse struct {
	Data []searchRow `json:"data"`
}

func (r searchRow) hit() SearchHit {
	hit := SearchHit{
		Name:             r.Name,
		StarRating:       math.NaN(),
		Sharpe3Y:         math.NaN(),
		AssetClass:       r.AssetClass,
		SpecificCategory: r.SpecificCategory,
		ProductID:        r.ProductID,
	}
	if r.StarRating != nil {
		hit.StarRating = float64(*r.StarRating)
	}
	if r.Sharpe3Y != nil {
		hit.Sharpe3Y = *r.Sharpe3Y
	}
	return hit
}

const searchPageSize = "6"

// Search queries the fund search grid with an identifier (usually an
// ISIN). hits are in the site's ranking order, the first is the match.
func (c *Client) Search(ctx context.Context, isin string) ([]SearchHit, error) {
	ctx, span := tracer.Start(ctx, "client:Search")
	defer span.End()
	span.SetAttributes(attribute.String("isin", isin))

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"sSearch": isin,
			"maxItem": searchPageSize,
		}).
		Post("/Recherche/Data")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	err = checkResponse(res)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var parsed searchResponse
	err = json.Unmarshal(res.Body(), &parsed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode search results")
		return nil, fmt.Errorf("decode search results: %w", err)
	}

	hits := make([]SearchHit, len(parsed.Data))
	for i, row := range parsed.Data {
		hits[i] = row.hit()
	}
	span.SetAttributes(attribute.Int("hits", len(hits)))
	return hits, nil
}
