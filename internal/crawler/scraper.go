// Package crawler fetches country profile pages and collapses their markup
// into the plain text the extraction patterns are written against.
package crawler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"gdm/internal/config"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Scraper fetches page content with config-driven retry logic. The core
// pipeline treats it as a synchronous call returning text or failing.
type Scraper struct {
	client      *http.Client
	retryPolicy *config.RetryPolicy
	maxBodyKb   int
}

// NewScraper creates a scraper with the default retry policy.
func NewScraper() *Scraper {
	policy := config.DefaultRetryPolicy()

	return NewScraperWithConfig(&policy, 2048)
}

// NewScraperWithConfig creates a scraper with a custom retry policy and
// response size cap.
func NewScraperWithConfig(retryPolicy *config.RetryPolicy, maxBodyKb int) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: retryPolicy.GetTimeout(),
		},
		retryPolicy: retryPolicy,
		maxBodyKb:   maxBodyKb,
	}
}

// FetchWithMetrics fetches a URL and returns (content, statusCode, total
// duration, error), retrying transient failures with exponential backoff.
func (s *Scraper) FetchWithMetrics(url string) (string, int, time.Duration, error) {
	var lastErr error

	var lastStatusCode int

	totalDuration := time.Duration(0)

	for attempt := 1; attempt <= s.retryPolicy.MaxAttempts; attempt++ {
		start := time.Now()

		content, statusCode, err := s.fetchOnce(url)
		totalDuration += time.Since(start)
		lastStatusCode = statusCode

		if err == nil {
			return content, statusCode, totalDuration, nil
		}

		lastErr = fmt.Errorf("fetch attempt %d/%d: %w", attempt, s.retryPolicy.MaxAttempts, err)

		if attempt < s.retryPolicy.MaxAttempts && (statusCode == 0 || isRetryableStatus(statusCode)) {
			if delay := s.retryPolicy.GetRetryDelay(attempt); delay > 0 {
				time.Sleep(delay)
			}
		}
	}

	return "", lastStatusCode, totalDuration, lastErr
}

// Fetch fetches a URL and returns its body.
func (s *Scraper) Fetch(url string) (string, error) {
	content, _, _, err := s.FetchWithMetrics(url)

	return content, err
}

func (s *Scraper) fetchOnce(url string) (string, int, error) {
	req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}

	// Browser headers; the source site blocks the default Go user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	limit := int64(s.maxBodyKb) * 1024

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), resp.StatusCode, nil
}

// ReadLocalFile reads page content from a local file path, for offline runs
// and fixtures.
func (s *Scraper) ReadLocalFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read local file %s: %w", filePath, err)
	}

	return string(content), nil
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests,
		http.StatusRequestTimeout:
		return true
	}

	return false
}
