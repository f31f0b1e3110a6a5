package quantalys

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html/charset"
)

// FundPage fetches and parses the detail page of a product.
func (c *Client) FundPage(ctx context.Context, productId int64) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:FundPage")
	defer span.End()
	span.SetAttributes(attribute.Int64("product_id", productId))

	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(productId, 10)).
		Get("/Fonds/{id}")
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

	reader, err := charset.NewReader(bytes.NewReader(res.Body()), res.Header().Get("Content-Type"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to detect charset")
		return nil, fmt.Errorf("decode fund page %d: %w", productId, err)
	}
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}
	return doc, nil
}
