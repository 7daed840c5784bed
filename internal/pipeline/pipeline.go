// Package pipeline orchestrates a full run: fetch every configured source,
// extract metric records, then clean and derive the final dataset.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"gdm/internal/config"
	"gdm/internal/crawler"
	"gdm/internal/extractor"
	"gdm/internal/logger"
	"gdm/internal/models"
	"gdm/internal/normalizer"
	"gdm/internal/report"
)

// Result bundles the three dataset stages plus the run accounting.
type Result struct {
	Raw     *models.Table
	Clean   *models.Table
	Derived *models.Table
	Stats   report.Stats
}

// Pipeline wires the fetch, extract and normalize stages together.
type Pipeline struct {
	cfg       *config.Config
	log       *logger.Logger
	scraper   *crawler.Scraper
	extractor *extractor.Extractor
	processor *normalizer.Processor
}

// New creates a pipeline from the given configuration.
func New(cfg *config.Config, log *logger.Logger) *Pipeline {
	fetch := cfg.Pipeline.Fetch

	return &Pipeline{
		cfg:       cfg,
		log:       log,
		scraper:   crawler.NewScraperWithConfig(&fetch.Retry, fetch.MaxBodyKb),
		extractor: extractor.NewExtractor(),
		processor: normalizer.NewProcessor(cfg.Pipeline.Quality.MinMetrics),
	}
}

// outcome is the per-source result slot. Exactly one of rec and err is set;
// slots keep source order independent of worker scheduling.
type outcome struct {
	rec *models.Record
	err error
}

// Run executes the full pipeline and returns all three dataset stages.
// Individual fetch failures are counted, not fatal; the run only errors
// when the surviving dataset fails structural validation.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := time.Now()

	raw, stats, err := p.Scrape(ctx)
	if err != nil {
		return nil, err
	}

	clean, derived, err := p.processor.Process(raw)
	if err != nil {
		return nil, err
	}

	stats.Duration = time.Since(started)

	return &Result{Raw: raw, Clean: clean, Derived: derived, Stats: stats}, nil
}

// Scrape runs the fetch and extract stages over every configured source and
// returns the raw table plus the per-source accounting.
func (p *Pipeline) Scrape(ctx context.Context) (*models.Table, report.Stats, error) {
	started := time.Now()

	sources, err := crawler.GatherSources(&p.cfg.Pipeline.Sources)
	if err != nil {
		return nil, report.Stats{}, fmt.Errorf("gathering sources: %w", err)
	}

	p.log.Info("🌐 Fetching sources", "count", len(sources), "workers", p.cfg.Pipeline.Fetch.Workers)

	outcomes := make([]outcome, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Pipeline.Fetch.Workers)

	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rec, err := p.ExtractSource(src)
			outcomes[i] = outcome{rec: rec, err: err}

			if err != nil {
				p.log.Warn("Source failed", "source", src.Ref(), "error", err)
			} else {
				p.log.Debug("Source extracted", "country", rec.Name(), "metrics", rec.Len())
			}

			// Politeness delay between requests on the same worker.
			if !src.IsLocalFile() {
				time.Sleep(p.cfg.Pipeline.Fetch.GetDelay())
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, report.Stats{}, err
	}

	stats := report.Stats{SourcesTotal: len(sources)}
	raw := models.NewTable()
	validator := p.processor.Validator()

	for i, out := range outcomes {
		switch {
		case out.err != nil:
			stats.FetchFailures++
		case !validator.Usable(out.rec):
			stats.BelowQuality++

			p.log.Warn("Record below metric threshold", "source", sources[i].Ref(), "metrics", out.rec.Len())
		default:
			stats.Extracted++

			raw.Append(out.rec)
		}
	}

	p.log.Info("📊 Extraction complete", "extracted", stats.Extracted, "failed", stats.FetchFailures, "thin", stats.BelowQuality)

	stats.Duration = time.Since(started)

	return raw, stats, nil
}

// ExtractSource fetches one source and extracts its metric record.
func (p *Pipeline) ExtractSource(src config.SourceConfig) (*models.Record, error) {
	var (
		content string
		err     error
	)

	if src.IsLocalFile() {
		content, err = p.scraper.ReadLocalFile(src.File)
	} else {
		content, err = p.scraper.Fetch(src.URL)
	}

	if err != nil {
		return nil, err
	}

	page, err := crawler.CollapsePage(content)
	if err != nil {
		return nil, fmt.Errorf("collapsing page: %w", err)
	}

	hints := extractor.Hints{
		Title:     page.Title,
		Heading:   page.Heading,
		SourceRef: src.Ref(),
	}

	return p.extractor.Extract(page.Text, hints), nil
}
