package crawler

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gdm/internal/config"
)

func writeURLFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write URL file: %v", err)
	}

	return path
}

func TestLoadURLs(t *testing.T) {
	path := writeURLFile(t, `
https://example.com/a

# not a url
ftp://example.com/skip
https://example.com/b
`)

	urls, err := LoadURLs(path)
	if err != nil {
		t.Fatalf("LoadURLs returned unexpected error: %v", err)
	}

	want := []string{"https://example.com/a", "https://example.com/b"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("LoadURLs() = %v, want %v", urls, want)
	}
}

func TestLoadURLsEmpty(t *testing.T) {
	path := writeURLFile(t, "# comments only\n")

	if _, err := LoadURLs(path); !errors.Is(err, ErrNoSources) {
		t.Errorf("error = %v, want ErrNoSources", err)
	}
}

func TestGatherSources(t *testing.T) {
	path := writeURLFile(t, "https://example.com/from-file\n")

	cfg := &config.SourcesConfig{
		URLsFile: path,
		Pages: []config.SourceConfig{
			{Name: "enabled", URL: "https://example.com/page", Enabled: true},
			{Name: "disabled", URL: "https://example.com/off", Enabled: false},
			{Name: "local", File: "testdata/page.html", Enabled: true},
		},
	}

	sources, err := GatherSources(cfg)
	if err != nil {
		t.Fatalf("GatherSources returned unexpected error: %v", err)
	}

	if len(sources) != 3 {
		t.Fatalf("len(sources) = %d, want 3", len(sources))
	}

	// File URLs come first, then enabled pages in declaration order.
	if sources[0].URL != "https://example.com/from-file" {
		t.Errorf("sources[0] = %q", sources[0].URL)
	}

	if sources[1].Name != "enabled" {
		t.Errorf("sources[1] = %q", sources[1].Name)
	}

	if !sources[2].IsLocalFile() {
		t.Error("sources[2] should be a local file source")
	}
}

func TestGatherSourcesEmpty(t *testing.T) {
	cfg := &config.SourcesConfig{
		Pages: []config.SourceConfig{{Name: "off", URL: "https://example.com", Enabled: false}},
	}

	if _, err := GatherSources(cfg); !errors.Is(err, ErrNoSources) {
		t.Errorf("error = %v, want ErrNoSources", err)
	}
}
