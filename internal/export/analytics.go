package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gdm/internal/models"
)

// Analytics bundle file names.
const (
	AnalyticsDataFile    = "gdm_analytics_data.csv"
	AnalyticsSummaryFile = "gdm_summary.csv"
)

// regionInfo carries the mapping metadata attached to well-known countries
// so the dashboard can plot them without a separate geo lookup.
type regionInfo struct {
	Region string
	ISO    string
	Lat    float64
	Lon    float64
}

var regions = map[string]regionInfo{
	"United States":  {"North America", "USA", 37.0902, -95.7129},
	"Russia":         {"Europe", "RUS", 61.5240, 105.3188},
	"China":          {"Asia", "CHN", 35.8617, 104.1954},
	"India":          {"Asia", "IND", 20.5937, 78.9629},
	"United Kingdom": {"Europe", "GBR", 55.3781, -3.4360},
	"France":         {"Europe", "FRA", 46.2276, 2.2137},
	"Germany":        {"Europe", "DEU", 51.1657, 10.4515},
	"Japan":          {"Asia", "JPN", 36.2048, 138.2529},
	"South Korea":    {"Asia", "KOR", 35.9078, 127.7669},
	"Italy":          {"Europe", "ITA", 41.8719, 12.5674},
	"Brazil":         {"South America", "BRA", -14.2350, -51.9253},
	"Australia":      {"Oceania", "AUS", -25.2744, 133.7751},
	"Canada":         {"North America", "CAN", 56.1304, -106.3468},
	"Turkey":         {"Middle East", "TUR", 38.9637, 35.2433},
	"Israel":         {"Middle East", "ISR", 31.0461, 34.8516},
	"Egypt":          {"Africa", "EGY", 26.8206, 30.8025},
	"Pakistan":       {"Asia", "PAK", 30.3753, 69.3451},
	"Iran":           {"Middle East", "IRN", 32.4279, 53.6880},
	"Saudi Arabia":   {"Middle East", "SAU", 23.8859, 45.0792},
	"Indonesia":      {"Asia", "IDN", -0.7893, 113.9213},
}

// WriteAnalyticsBundle merges the clean and derived tables on the identity
// column, attaches region metadata for mapping, and writes the combined
// dashboard CSV plus a summary rollup into dir. Derived columns that
// collide with clean ones get a "_kpi" suffix.
func WriteAnalyticsBundle(dir string, clean, derived *models.Table) error {
	if clean.Len() == 0 {
		return ErrEmptyTable
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create analytics directory: %w", err)
	}

	if err := writeAnalyticsData(filepath.Join(dir, AnalyticsDataFile), clean, derived); err != nil {
		return err
	}

	return writeAnalyticsSummary(filepath.Join(dir, AnalyticsSummaryFile), clean)
}

func writeAnalyticsData(path string, clean, derived *models.Table) error {
	cleanCols := clean.Columns()[1:]
	derivedCols := derived.Columns()[1:]

	cleanColSet := make(map[string]bool, len(cleanCols))
	for _, col := range cleanCols {
		cleanColSet[col] = true
	}

	derivedByName := make(map[string]*models.Record, derived.Len())
	for _, rec := range derived.Records() {
		derivedByName[rec.Name()] = rec
	}

	header := []string{"Country Name"}
	header = append(header, cleanCols...)

	for _, col := range derivedCols {
		if cleanColSet[col] {
			header = append(header, col+"_kpi")
		} else {
			header = append(header, col)
		}
	}

	header = append(header, "Region", "ISO Code", "Latitude", "Longitude")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create analytics CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write analytics header: %w", err)
	}

	for _, rec := range clean.Records() {
		row := make([]string, 0, len(header))
		row = append(row, rec.Name())

		for _, col := range cleanCols {
			row = append(row, cellString(rec, col))
		}

		kpi := derivedByName[rec.Name()]
		for _, col := range derivedCols {
			if kpi != nil {
				row = append(row, cellString(kpi, col))
			} else {
				row = append(row, "")
			}
		}

		info, known := regions[rec.Name()]
		if !known {
			info = regionInfo{Region: "Other", ISO: "OTH"}
		}

		row = append(row,
			info.Region,
			info.ISO,
			strconv.FormatFloat(info.Lat, 'f', -1, 64),
			strconv.FormatFloat(info.Lon, 'f', -1, 64),
		)

		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write analytics row: %w", err)
		}
	}

	w.Flush()

	return w.Error()
}

// writeAnalyticsSummary writes the headline rollup the dashboard's overview
// page reads: a Metric,Value pair per line.
func writeAnalyticsSummary(path string, clean *models.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	rows := [][]string{
		{"Metric", "Value"},
		{"Total Countries", strconv.Itoa(clean.Len())},
		{"Total Defense Budget", formatSum(clean, "Defense Budget (USD)")},
		{"Total Aircraft", formatSum(clean, "Total Aircraft")},
		{"Total Personnel", formatSum(clean, "Active Personnel")},
	}

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	w.Flush()

	return w.Error()
}

func cellString(rec *models.Record, col string) string {
	v, ok := rec.Get(col)
	if !ok {
		return ""
	}

	return v.String()
}

func formatSum(table *models.Table, col string) string {
	total := 0.0

	for _, rec := range table.Records() {
		if v, ok := rec.Get(col); ok {
			if f, isNum := v.Float(); isNum {
				total += f
			}
		}
	}

	return strconv.FormatFloat(total, 'f', -1, 64)
}
