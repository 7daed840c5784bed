package crawler

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gdm/internal/config"
)

// ErrNoSources indicates an empty or unusable source list.
var ErrNoSources = errors.New("no source URLs found")

// LoadURLs reads source URLs from a text file, one per line, skipping blank
// lines and anything that is not an http(s) URL. Sources always come from a
// file or config, never from code.
func LoadURLs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}

	var urls []string

	for _, line := range strings.Split(string(data), "\n") {
		u := strings.TrimSpace(line)
		if u != "" && strings.HasPrefix(u, "http") {
			urls = append(urls, u)
		}
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSources, path)
	}

	return urls, nil
}

// GatherSources combines the config's URL file (if any) with its explicit
// page entries, preserving declaration order: file URLs first, then enabled
// pages.
func GatherSources(cfg *config.SourcesConfig) ([]config.SourceConfig, error) {
	var sources []config.SourceConfig

	if cfg.URLsFile != "" {
		urls, err := LoadURLs(cfg.URLsFile)
		if err != nil {
			return nil, err
		}

		for _, u := range urls {
			sources = append(sources, config.SourceConfig{URL: u, Enabled: true})
		}
	}

	for _, page := range cfg.Pages {
		if page.Enabled {
			sources = append(sources, page)
		}
	}

	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	return sources, nil
}
