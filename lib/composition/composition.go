// Package composition reduces dated portfolio breakdown snapshots
// (geography, sector, capitalization, style) into summary figures.
package composition

import (
	"sort"
)

// Sample is one dated snapshot: category label -> percentage of assets.
// keys differ between samples and percentages need not sum to 100.
type Sample map[string]float64

// Mean averages each category over every sample in `samples`, including
// the samples where the category is absent. a category seen once out of
// ten samples is divided by ten. `exclude` names a non-category key (such
// as the chart's x-axis) that is skipped.
func Mean(samples []Sample, exclude string) map[string]float64 {
	means := map[string]float64{}
	if len(samples) == 0 {
		return means
	}

	for _, sample := range samples {
		for label, value := range sample {
			if label == exclude {
				continue
			}
			means[label] += value
		}
	}
	count := float64(len(samples))
	for label := range means {
		means[label] /= count
	}
	return means
}

// Entry is a single category with its mean percentage.
type Entry struct {
	Label   string
	Percent float64
}

func sorted(means map[string]float64) []Entry {
	entries := make([]Entry, 0, len(means))
	for label, percent := range means {
		entries = append(entries, Entry{Label: label, Percent: percent})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Percent != entries[j].Percent {
			return entries[i].Percent > entries[j].Percent
		}
		return entries[i].Label < entries[j].Label
	})
	return entries
}

// Significant returns the categories whose mean is at or above
// `threshold`, highest first.
func Significant(means map[string]float64, threshold float64) []Entry {
	var out []Entry
	for _, entry := range sorted(means) {
		if entry.Percent >= threshold {
			out = append(out, entry)
		}
	}
	return out
}

// Top returns the category with the highest mean. ties go to the
// lexicographically smallest label.
func Top(means map[string]float64) (Entry, bool) {
	entries := sorted(means)
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[0], true
}
