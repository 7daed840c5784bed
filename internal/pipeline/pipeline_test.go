package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gdm/internal/config"
	"gdm/internal/logger"
	"gdm/internal/models"
	"gdm/internal/normalizer"
)

func countryPage(name string, aircraft, personnel int) string {
	return fmt.Sprintf(`<html>
<head><title>%s Military Strength 2025</title></head>
<body>
<p>For 2025, %s is ranked 9 of 145 with a PwrIndx* score of 0.5000.</p>
<p>Total Population: 10,000,000</p>
<p>Active Personnel: %d</p>
<p>Aircraft Total <span>Tracking</span> Stock: %d</p>
<p>Tanks Tracking Stock: 300</p>
<p>Defense Budget: $9,000,000,000</p>
</body></html>`, name, name, personnel, aircraft)
}

func testConfig(t *testing.T, pages []config.SourceConfig) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Pipeline.Sources = config.SourcesConfig{Pages: pages}
	cfg.Pipeline.Fetch.DelayMs = 0
	cfg.Pipeline.Fetch.Workers = 2
	cfg.Pipeline.Fetch.Retry = config.RetryPolicy{
		MaxAttempts:       1,
		InitialDelayMs:    1,
		MaxDelayMs:        1,
		BackoffMultiplier: 1.0,
		TimeoutSec:        5,
	}
	cfg.Pipeline.Quality.MinMetrics = 3

	return cfg
}

func TestPipelineRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/alpha":
			fmt.Fprint(w, countryPage("Alphaland", 2000, 900000))
		case "/beta":
			fmt.Fprint(w, countryPage("Betaland", 100, 40000))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := testConfig(t, []config.SourceConfig{
		{Name: "alpha", URL: server.URL + "/alpha", Enabled: true},
		{Name: "beta", URL: server.URL + "/beta", Enabled: true},
		{Name: "gone", URL: server.URL + "/missing", Enabled: true},
	})

	p := New(cfg, logger.NewLogger("error"))

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned unexpected error: %v", err)
	}

	if result.Stats.SourcesTotal != 3 {
		t.Errorf("SourcesTotal = %d, want 3", result.Stats.SourcesTotal)
	}

	if result.Stats.Extracted != 2 {
		t.Errorf("Extracted = %d, want 2", result.Stats.Extracted)
	}

	if result.Stats.FetchFailures != 1 {
		t.Errorf("FetchFailures = %d, want 1", result.Stats.FetchFailures)
	}

	// Source order survives the worker pool.
	if got := result.Clean.Records()[0].Name(); got != "Alphaland" {
		t.Errorf("first record = %q, want Alphaland", got)
	}

	if got := result.Clean.Records()[1].Name(); got != "Betaland" {
		t.Errorf("second record = %q, want Betaland", got)
	}

	// Cleaned values are numeric.
	v, ok := result.Clean.Records()[0].Get("Total Aircraft")
	if !ok {
		t.Fatal("Total Aircraft missing from clean table")
	}

	if f, isNum := v.Float(); !isNum || f != 2000 {
		t.Errorf("Total Aircraft = %q, want 2000", v.String())
	}

	// The derived table tracks the same records.
	if result.Derived.Len() != 2 {
		t.Fatalf("Derived.Len() = %d, want 2", result.Derived.Len())
	}

	if _, ok := result.Derived.Records()[0].Get(normalizer.FieldPowerIndexScore); !ok {
		t.Error("derived table missing the composite score")
	}
}

func TestPipelineRunKeepsRawTableTextual(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, countryPage("Alphaland", 2000, 900000))
	}))
	defer server.Close()

	cfg := testConfig(t, []config.SourceConfig{
		{Name: "alpha", URL: server.URL + "/alpha", Enabled: true},
	})

	p := New(cfg, logger.NewLogger("error"))

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned unexpected error: %v", err)
	}

	if result.Raw == result.Clean {
		t.Fatal("Raw and Clean point at the same table")
	}

	v, ok := result.Raw.Records()[0].Get("Defense Budget (USD)")
	if !ok {
		t.Fatal("Defense Budget (USD) missing from raw table")
	}

	if v.Kind != models.KindRaw {
		t.Fatalf("raw budget cell Kind = %v, want KindRaw", v.Kind)
	}

	if got, want := v.String(), "9,000,000,000"; got != want {
		t.Errorf("raw budget cell = %q, want %q", got, want)
	}

	cleaned, _ := result.Clean.Records()[0].Get("Defense Budget (USD)")
	if f, isNum := cleaned.Float(); !isNum || f != 9000000000 {
		t.Errorf("clean budget cell = %q, want 9000000000", cleaned.String())
	}
}

func TestPipelineRunAllSourcesFail(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	cfg := testConfig(t, []config.SourceConfig{
		{Name: "gone", URL: server.URL + "/missing", Enabled: true},
	})

	p := New(cfg, logger.NewLogger("error"))

	_, err := p.Run(context.Background())
	if !errors.Is(err, normalizer.ErrNoRecords) {
		t.Errorf("error = %v, want ErrNoRecords", err)
	}
}

func TestPipelineFiltersThinRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/thin" {
			fmt.Fprint(w, `<html><head><title>Thinland Military Strength</title></head><body>Active Personnel: 5</body></html>`)

			return
		}

		fmt.Fprint(w, countryPage("Fullland", 500, 20000))
	}))
	defer server.Close()

	cfg := testConfig(t, []config.SourceConfig{
		{Name: "thin", URL: server.URL + "/thin", Enabled: true},
		{Name: "full", URL: server.URL + "/full", Enabled: true},
	})

	p := New(cfg, logger.NewLogger("error"))

	raw, stats, err := p.Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape returned unexpected error: %v", err)
	}

	if stats.BelowQuality != 1 {
		t.Errorf("BelowQuality = %d, want 1", stats.BelowQuality)
	}

	if raw.Len() != 1 {
		t.Fatalf("raw.Len() = %d, want 1", raw.Len())
	}

	if got := raw.Records()[0].Name(); got != "Fullland" {
		t.Errorf("kept record = %q, want Fullland", got)
	}
}
