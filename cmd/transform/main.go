// Package main provides the standalone transform command: read a raw metric
// CSV, clean it and compute the derived indicators, without touching the
// network.
package main

import (
	"flag"
	"fmt"
	"os"

	"gdm/internal/export"
	"gdm/internal/logger"
	"gdm/internal/normalizer"
)

func main() {
	input := flag.String("input", "data/raw_data.csv", "Raw metric CSV to transform")
	cleanOut := flag.String("clean", "data/clean_data.csv", "Output path for the cleaned CSV")
	derivedOut := flag.String("derived", "data/kpi_data.csv", "Output path for the derived-indicator CSV")
	minMetrics := flag.Int("min-metrics", 0, "Minimum metric count per record (0 uses the default)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	log := logger.NewLogger(*logLevel)

	log.Info("🔄 Starting transform", "input", *input)

	raw, err := export.ReadCSV(*input)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Reading input: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Loaded %d records, %d columns", raw.Len(), len(raw.Columns())))

	processor := normalizer.NewProcessor(*minMetrics)

	clean, derived, err := processor.Process(raw)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Transform failed: %v", err))
		os.Exit(1)
	}

	if err := export.WriteCSV(*cleanOut, clean); err != nil {
		log.Error(fmt.Sprintf("❌ Writing clean CSV: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Wrote %s", *cleanOut))

	if err := export.WriteCSV(*derivedOut, derived); err != nil {
		log.Error(fmt.Sprintf("❌ Writing derived CSV: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Wrote %s (%d derived columns)", *derivedOut, len(derived.Columns())-1))
}
