package quantalys

import (
	"fundagg-backend/lib/telemetry"
)

var tracer = telemetry.Tracer("fundagg.lib.scrapers.quantalys")
