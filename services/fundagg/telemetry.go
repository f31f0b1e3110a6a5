package fundagg

import (
	"fundagg-backend/lib/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("fundagg.services.fundagg")

var meter = otel.Meter("fundagg.services.fundagg")
var jobCounter, _ = meter.Int64Counter(
	"fundagg.jobs",
	metric.WithDescription("fund aggregation jobs finished, by outcome"),
)
