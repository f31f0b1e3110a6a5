package fundagg

import (
	"fmt"
	"math"
	"strings"

	"fundagg-backend/lib/composition"
	"fundagg-backend/lib/scrapers/quantalys"
)

// SignificanceThreshold is the mean share (in percent) a region needs to be
// named in the summary.
const SignificanceThreshold = 25

const geographyLabelPrefix = "Act. "

// Summarize turns the four composition series into one comma separated
// description: every significant region with its share, then the leading
// sector, capitalization band and style. it is empty when no series has
// data.
func Summarize(series map[quantalys.SeriesKind][]composition.Sample) string {
	var labels []string
	for _, kind := range quantalys.AllSeries {
		means := composition.Mean(series[kind], quantalys.AxisKey)

		if kind == quantalys.SeriesGeography {
			for _, entry := range composition.Significant(means, SignificanceThreshold) {
				label := strings.TrimPrefix(entry.Label, geographyLabelPrefix)
				labels = append(labels, fmt.Sprintf("%s %d%%", label, int(math.Round(entry.Percent))))
			}
			continue
		}

		top, ok := composition.Top(means)
		if ok {
			labels = append(labels, top.Label)
		}
	}
	return strings.Join(labels, ", ")
}
