// Package main provides the unified worker command that runs the full
// pipeline: fetch, extract, normalize, derive and export.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gdm/internal/config"
	"gdm/internal/export"
	"gdm/internal/logger"
	"gdm/internal/models"
	"gdm/internal/pipeline"
	"gdm/internal/report"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file (optional)")
	outputDir := flag.String("output-dir", "", "Override output directory")
	logLevel := flag.String("log-level", "", "Override log level (debug, info, warn, error)")

	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if *outputDir != "" {
		cfg.Pipeline.Output.Dir = *outputDir
	}

	if *logLevel != "" {
		cfg.Pipeline.Logging.Level = *logLevel
	}

	log := logger.NewLogger(cfg.Pipeline.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("🚀 Starting military dataset pipeline")
	log.Info(fmt.Sprintf("📍 Output: %s", cfg.Pipeline.Output.Dir))

	// 1. Fetch + Extract + Normalize
	// ------------------------------
	log.Info("Phase 1: Extraction & Normalization...")

	result, err := pipeline.New(cfg, log).Run(ctx)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Pipeline failed: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Built dataset: %d records, %d clean columns, %d derived columns",
		result.Clean.Len(), len(result.Clean.Columns()), len(result.Derived.Columns())))

	// 2. Export
	// ---------
	log.Info("Phase 2: Export...")

	out := cfg.Pipeline.Output

	if err := os.MkdirAll(out.Dir, 0o755); err != nil {
		log.Error(fmt.Sprintf("❌ Creating output directory: %v", err))
		os.Exit(1)
	}

	csvTargets := []struct {
		path  string
		table *models.Table
	}{
		{out.OutputPath(out.RawCSV), result.Raw},
		{out.OutputPath(out.CleanCSV), result.Clean},
		{out.OutputPath(out.DerivedCSV), result.Derived},
	}

	for _, t := range csvTargets {
		if err := export.WriteCSV(t.path, t.table); err != nil {
			log.Error(fmt.Sprintf("❌ Writing %s: %v", t.path, err))
			os.Exit(1)
		}

		log.Info(fmt.Sprintf("✅ Wrote %s", t.path))
	}

	sqlitePath := out.OutputPath(out.SQLite)

	err = export.WriteSQLite(sqlitePath, map[string]*models.Table{
		"raw_metrics":     result.Raw,
		"clean_metrics":   result.Clean,
		"derived_metrics": result.Derived,
	})
	if err != nil {
		log.Error(fmt.Sprintf("❌ Writing SQLite: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Wrote %s", sqlitePath))

	if err := export.WriteAnalyticsBundle(out.Dir, result.Clean, result.Derived); err != nil {
		log.Error(fmt.Sprintf("❌ Writing analytics bundle: %v", err))
		os.Exit(1)
	}

	log.Info("✅ Wrote analytics bundle")

	// 3. Quality report
	// -----------------
	log.Info("Phase 3: Quality report...")

	reportPath := out.OutputPath(out.Report)
	content := report.Build(result.Stats, cfg.Pipeline.Quality.SuccessRateTarget, result.Clean, result.Derived)

	if err := os.WriteFile(reportPath, []byte(content), 0o644); err != nil {
		log.Error(fmt.Sprintf("❌ Writing report: %v", err))
		os.Exit(1)
	}

	log.Info("✨ Pipeline Complete!")
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Printf("Sources: %d\n", result.Stats.SourcesTotal)
	fmt.Printf("Extracted: %d\n", result.Stats.Extracted)
	fmt.Printf("Fetch failures: %d\n", result.Stats.FetchFailures)
	fmt.Printf("Below threshold: %d\n", result.Stats.BelowQuality)
	fmt.Printf("Success rate: %.1f%%\n", result.Stats.SuccessRate())
	fmt.Printf("Total Duration: %v\n", result.Stats.Duration)
	fmt.Println("------------------------------------------------")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}

	return config.LoadConfig(path)
}
