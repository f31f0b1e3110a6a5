package quantalys

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"fundagg-backend/lib/composition"
	"fundagg-backend/lib/textutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type SeriesKind string

const (
	SeriesGeography      SeriesKind = "Geographique"
	SeriesSector         SeriesKind = "Sectorielle"
	SeriesCapitalization SeriesKind = "Capitalisation"
	SeriesStyle          SeriesKind = "Style"
)

// AllSeries lists the breakdowns in the order they are summarized.
var AllSeries = []SeriesKind{
	SeriesGeography,
	SeriesSector,
	SeriesCapitalization,
	SeriesStyle,
}

// AxisKey is the chart x-axis field present in every composition sample.
const AxisKey = "sDate"

type compositionResponse struct {
	Data []map[string]any `json:"data"`
}

// Composition fetches the history of one portfolio breakdown. funds
// without that breakdown return an empty slice.
func (c *Client) Composition(ctx context.Context, productId int64, kind SeriesKind) ([]composition.Sample, error) {
	ctx, span := tracer.Start(ctx, "client:Composition")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("product_id", productId),
		attribute.String("kind", string(kind)),
	)

	res, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"id":   strconv.FormatInt(productId, 10),
			"kind": string(kind),
		}).
		Get("/Fonds/{id}/Composition/{kind}")
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
	if len(res.Body()) == 0 {
		return nil, nil
	}

	var parsed compositionResponse
	err = json.Unmarshal(res.Body(), &parsed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode composition")
		return nil, fmt.Errorf("decode %s composition: %w", kind, err)
	}

	samples := make([]composition.Sample, 0, len(parsed.Data))
	for _, row := range parsed.Data {
		samples = append(samples, decodeSample(ctx, row))
	}
	span.SetAttributes(attribute.Int("samples", len(samples)))
	return samples, nil
}

// values arrive either as JSON numbers or as formatted strings ("40,2%").
// anything else is dropped from the sample.
func decodeSample(ctx context.Context, row map[string]any) composition.Sample {
	sample := composition.Sample{}
	for label, raw := range row {
		switch value := raw.(type) {
		case float64:
			sample[label] = value
		case string:
			parsed, err := textutil.ParsePercent(value)
			if err != nil {
				if label != AxisKey {
					slog.DebugContext(ctx, "skipping unparseable composition value", "label", label, "value", value)
				}
				continue
			}
			sample[label] = parsed
		}
	}
	return sample
}
