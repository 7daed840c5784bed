package report

import (
	"strings"
	"testing"
	"time"

	"gdm/internal/models"
	"gdm/pkg/metadata"
)

func buildReportTables() (*models.Table, *models.Table) {
	clean := models.NewTable()

	// Nine tightly grouped records plus one extreme value, so the outlier
	// section has something to flag.
	aircraft := []float64{100, 110, 120, 130, 140, 150, 160, 170, 180, 90000}

	for i, v := range aircraft {
		rec := models.NewRecord(string(rune('A' + i)))
		rec.Set("Total Aircraft", models.NumberValue(v))

		if i < 8 {
			rec.Set("Active Personnel", models.NumberValue(1000*float64(i+1)))
		} else {
			rec.Set("Active Personnel", models.AbsentValue())
		}

		clean.Append(rec)
	}

	derived := models.NewTable()

	for _, rec := range clean.Records() {
		kpi := models.NewRecord(rec.Name())
		kpi.Set("Power Index Score", models.NumberValue(0.5))
		derived.Append(kpi)
	}

	return clean, derived
}

func TestBuild(t *testing.T) {
	clean, derived := buildReportTables()

	stats := Stats{
		SourcesTotal:  12,
		Extracted:     10,
		BelowQuality:  1,
		FetchFailures: 1,
		Duration:      3 * time.Second,
	}

	content := Build(stats, 95, clean, derived)

	for _, want := range []string{
		"# Data Quality Report",
		"## Run summary",
		"## Missing data",
		"## Outliers",
		"83.3% BELOW TARGET",
		"Total Aircraft",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("report missing %q", want)
		}
	}

	// Two personnel cells are missing out of ten records.
	if !strings.Contains(content, "20.00%") {
		t.Error("report missing the personnel missing-data percentage")
	}

	// The report carries a valid snapshot block.
	ok, err := metadata.Verify(content)
	if err != nil || !ok {
		t.Errorf("snapshot verification failed: %v", err)
	}

	snap, _ := metadata.Extract(content)
	if snap.Records != clean.Len() {
		t.Errorf("snapshot records = %d, want %d", snap.Records, clean.Len())
	}
}

func TestBuildTargetMet(t *testing.T) {
	clean, derived := buildReportTables()

	stats := Stats{SourcesTotal: 10, Extracted: 10}

	content := Build(stats, 95, clean, derived)

	if !strings.Contains(content, "100.0% MET") {
		t.Error("report should state the target was met")
	}
}

func TestStatsSuccessRate(t *testing.T) {
	if got := (Stats{}).SuccessRate(); got != 0 {
		t.Errorf("empty run rate = %v, want 0", got)
	}

	if got := (Stats{SourcesTotal: 8, Extracted: 6}).SuccessRate(); got != 75 {
		t.Errorf("rate = %v, want 75", got)
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}

	for _, tt := range tests {
		if got := quantile(sorted, tt.q); got != tt.want {
			t.Errorf("quantile(%v) = %v, want %v", tt.q, got, tt.want)
		}
	}
}
