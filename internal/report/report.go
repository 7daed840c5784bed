// Package report renders the markdown quality report for a pipeline run:
// scrape accounting against the success-rate target, per-column missing-cell
// counts, and outlier flags over the cleaned dataset.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gdm/internal/models"
	"gdm/pkg/metadata"
)

// Stats accumulates the per-run scrape accounting.
type Stats struct {
	SourcesTotal  int
	Extracted     int
	BelowQuality  int
	FetchFailures int
	Duration      time.Duration
}

// SuccessRate returns the scrape success percentage.
func (s Stats) SuccessRate() float64 {
	if s.SourcesTotal == 0 {
		return 0
	}

	return float64(s.Extracted) / float64(s.SourcesTotal) * 100
}

// Build renders the quality report and signs it with a dataset snapshot
// block, so the report stays traceable to the dataset state it describes.
func Build(stats Stats, target float64, clean, derived *models.Table) string {
	var sb strings.Builder

	sb.WriteString("# Data Quality Report\n\n")

	sb.WriteString("## Run summary\n\n")
	writeRunSummary(&sb, stats, target, clean, derived)

	sb.WriteString("\n## Missing data\n\n")
	writeMissingData(&sb, clean)

	sb.WriteString("\n## Outliers\n\n")
	writeOutliers(&sb, clean)

	return metadata.Sign(sb.String(), clean.Len())
}

func writeRunSummary(sb *strings.Builder, stats Stats, target float64, clean, derived *models.Table) {
	rate := stats.SuccessRate()

	verdict := fmt.Sprintf("MET (target %.1f%%)", target)
	if rate < target {
		verdict = fmt.Sprintf("BELOW TARGET (target %.1f%%)", target)
	}

	rows := [][]string{
		{"Sources", fmt.Sprintf("%d", stats.SourcesTotal)},
		{"Extracted", fmt.Sprintf("%d", stats.Extracted)},
		{"Below metric threshold", fmt.Sprintf("%d", stats.BelowQuality)},
		{"Fetch failures", fmt.Sprintf("%d", stats.FetchFailures)},
		{"Success rate", fmt.Sprintf("%.1f%% %s", rate, verdict)},
		{"Duration", stats.Duration.Round(time.Millisecond).String()},
		{"Records", fmt.Sprintf("%d", clean.Len())},
		{"Clean columns", fmt.Sprintf("%d", len(clean.Columns()))},
		{"Derived columns", fmt.Sprintf("%d", len(derived.Columns())-1)},
	}

	writeTable(sb, []string{"METRIC", "VALUE"}, rows)
}

func writeMissingData(sb *strings.Builder, clean *models.Table) {
	var rows [][]string

	for _, col := range clean.Columns()[1:] {
		missing := 0

		for _, rec := range clean.Records() {
			v, ok := rec.Get(col)
			if !ok || v.IsAbsent() {
				missing++
			}
		}

		if missing > 0 {
			pct := float64(missing) / float64(clean.Len()) * 100
			rows = append(rows, []string{col, fmt.Sprintf("%d", missing), fmt.Sprintf("%.2f%%", pct)})
		}
	}

	if len(rows) == 0 {
		sb.WriteString("No missing cells.\n")

		return
	}

	writeTable(sb, []string{"COLUMN", "MISSING", "PCT"}, rows)
}

// writeOutliers flags columns with values outside Q1-3*IQR .. Q3+3*IQR.
// Flags are advisory; nothing is dropped.
func writeOutliers(sb *strings.Builder, clean *models.Table) {
	var rows [][]string

	for _, col := range clean.Columns()[1:] {
		var values []float64

		for _, rec := range clean.Records() {
			if v, ok := rec.Get(col); ok {
				if f, isNum := v.Float(); isNum {
					values = append(values, f)
				}
			}
		}

		if len(values) < 4 {
			continue
		}

		sort.Float64s(values)

		q1 := quantile(values, 0.25)
		q3 := quantile(values, 0.75)
		iqr := q3 - q1

		outliers := 0

		for _, x := range values {
			if x < q1-3*iqr || x > q3+3*iqr {
				outliers++
			}
		}

		if outliers > 0 {
			rows = append(rows, []string{col, fmt.Sprintf("%d", outliers)})
		}
	}

	if len(rows) == 0 {
		sb.WriteString("No outliers detected.\n")

		return
	}

	writeTable(sb, []string{"COLUMN", "OUTLIERS"}, rows)
}

// quantile computes the q-th quantile of sorted values with linear
// interpolation between adjacent ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	pos := q * float64(len(sorted)-1)
	lo := int(pos)

	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}

	frac := pos - float64(lo)

	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}
