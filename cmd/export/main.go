// Package main provides the export command: take cleaned and derived CSVs
// and produce the analytics bundle and SQLite database consumed by
// downstream dashboards.
package main

import (
	"flag"
	"fmt"
	"os"

	"gdm/internal/export"
	"gdm/internal/logger"
	"gdm/internal/models"
)

func main() {
	cleanIn := flag.String("clean", "data/clean_data.csv", "Cleaned metric CSV")
	derivedIn := flag.String("derived", "data/kpi_data.csv", "Derived-indicator CSV")
	outDir := flag.String("output-dir", "data", "Directory for the analytics bundle")
	sqlitePath := flag.String("sqlite", "", "Also write a SQLite database at this path (optional)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	log := logger.NewLogger(*logLevel)

	clean, err := export.ReadCSV(*cleanIn)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Reading clean CSV: %v", err))
		os.Exit(1)
	}

	derived, err := export.ReadCSV(*derivedIn)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Reading derived CSV: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Loaded %d records", clean.Len()))

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Error(fmt.Sprintf("❌ Creating output directory: %v", err))
		os.Exit(1)
	}

	if err := export.WriteAnalyticsBundle(*outDir, clean, derived); err != nil {
		log.Error(fmt.Sprintf("❌ Writing analytics bundle: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Wrote %s and %s in %s", export.AnalyticsDataFile, export.AnalyticsSummaryFile, *outDir))

	if *sqlitePath != "" {
		err := export.WriteSQLite(*sqlitePath, map[string]*models.Table{
			"clean_metrics":   clean,
			"derived_metrics": derived,
		})
		if err != nil {
			log.Error(fmt.Sprintf("❌ Writing SQLite: %v", err))
			os.Exit(1)
		}

		log.Info(fmt.Sprintf("✅ Wrote %s", *sqlitePath))
	}
}
