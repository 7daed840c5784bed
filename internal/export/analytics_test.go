package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"gdm/internal/models"
)

func TestWriteAnalyticsBundle(t *testing.T) {
	dir := t.TempDir()

	clean := models.NewTable()

	fr := models.NewRecord("France")
	fr.Set("Total Aircraft", models.NumberValue(1300))
	fr.Set("Defense Budget (USD)", models.NumberValue(55e9))
	fr.Set("Active Personnel", models.NumberValue(200000))
	clean.Append(fr)

	atlantis := models.NewRecord("Atlantis")
	atlantis.Set("Total Aircraft", models.NumberValue(7))
	clean.Append(atlantis)

	derived := models.NewTable()

	frKPI := models.NewRecord("France")
	frKPI.Set("Power Index Score", models.NumberValue(1.5))
	frKPI.Set("Total Aircraft", models.NumberValue(99)) // collides with a clean column
	derived.Append(frKPI)

	atlantisKPI := models.NewRecord("Atlantis")
	atlantisKPI.Set("Power Index Score", models.NumberValue(0.1))
	derived.Append(atlantisKPI)

	if err := WriteAnalyticsBundle(dir, clean, derived); err != nil {
		t.Fatalf("WriteAnalyticsBundle returned unexpected error: %v", err)
	}

	rows := readCSVRows(t, filepath.Join(dir, AnalyticsDataFile))

	header := rows[0]
	if header[0] != "Country Name" {
		t.Errorf("header[0] = %q, want Country Name", header[0])
	}

	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[col] = i
	}

	// The colliding derived column gets the _kpi suffix.
	if _, ok := colIdx["Total Aircraft_kpi"]; !ok {
		t.Fatalf("header missing Total Aircraft_kpi: %v", header)
	}

	for _, col := range []string{"Region", "ISO Code", "Latitude", "Longitude"} {
		if _, ok := colIdx[col]; !ok {
			t.Fatalf("header missing %q: %v", col, header)
		}
	}

	france := rows[1]
	if france[colIdx["Region"]] != "Europe" || france[colIdx["ISO Code"]] != "FRA" {
		t.Errorf("France geo = %q/%q, want Europe/FRA",
			france[colIdx["Region"]], france[colIdx["ISO Code"]])
	}

	if france[colIdx["Total Aircraft"]] != "1300" || france[colIdx["Total Aircraft_kpi"]] != "99" {
		t.Errorf("France aircraft = %q/%q, want 1300/99",
			france[colIdx["Total Aircraft"]], france[colIdx["Total Aircraft_kpi"]])
	}

	// Unknown countries fall back to the catch-all region.
	unknown := rows[2]
	if unknown[colIdx["Region"]] != "Other" || unknown[colIdx["ISO Code"]] != "OTH" {
		t.Errorf("Atlantis geo = %q/%q, want Other/OTH",
			unknown[colIdx["Region"]], unknown[colIdx["ISO Code"]])
	}
}

func TestWriteAnalyticsSummary(t *testing.T) {
	dir := t.TempDir()

	clean := models.NewTable()

	fr := models.NewRecord("France")
	fr.Set("Defense Budget (USD)", models.NumberValue(50))
	fr.Set("Total Aircraft", models.NumberValue(1000))
	clean.Append(fr)

	de := models.NewRecord("Germany")
	de.Set("Defense Budget (USD)", models.NumberValue(25))
	de.Set("Total Aircraft", models.AbsentValue())
	clean.Append(de)

	if err := WriteAnalyticsBundle(dir, clean, models.NewTable()); err != nil {
		t.Fatalf("WriteAnalyticsBundle returned unexpected error: %v", err)
	}

	rows := readCSVRows(t, filepath.Join(dir, AnalyticsSummaryFile))

	byMetric := make(map[string]string, len(rows))
	for _, row := range rows[1:] {
		byMetric[row[0]] = row[1]
	}

	if byMetric["Total Countries"] != "2" {
		t.Errorf("Total Countries = %q, want 2", byMetric["Total Countries"])
	}

	if byMetric["Total Defense Budget"] != "75" {
		t.Errorf("Total Defense Budget = %q, want 75", byMetric["Total Defense Budget"])
	}

	// Absent cells are ignored in the sums.
	if byMetric["Total Aircraft"] != "1000" {
		t.Errorf("Total Aircraft = %q, want 1000", byMetric["Total Aircraft"])
	}
}

func readCSVRows(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse %s: %v", path, err)
	}

	if len(rows) < 2 {
		t.Fatalf("%s has %d rows, want at least 2", path, len(rows))
	}

	return rows
}
