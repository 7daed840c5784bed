package crawler

import (
	"strings"
	"testing"
)

const samplePageHTML = `<!DOCTYPE html>
<html>
<head>
  <title>France Military Strength 2025</title>
  <style>body { color: red; }</style>
  <script>var tracker = "ignore me";</script>
</head>
<body>
  <h1>France Military Strength</h1>
  <div>
    <span>Active   Personnel:</span>
    <strong>200,000</strong>
  </div>
  <noscript>enable javascript</noscript>
  <p>Defense Budget:
     $55,000,000,000</p>
</body>
</html>`

func TestCollapsePage(t *testing.T) {
	page, err := CollapsePage(samplePageHTML)
	if err != nil {
		t.Fatalf("CollapsePage returned unexpected error: %v", err)
	}

	if page.Title != "France Military Strength 2025" {
		t.Errorf("Title = %q", page.Title)
	}

	if page.Heading != "France Military Strength" {
		t.Errorf("Heading = %q", page.Heading)
	}

	// Label and value collapse onto one line with single spaces, so a
	// pattern like `Active Personnel:\s*([\d,]+)` can match across the
	// original tag boundary.
	if !strings.Contains(page.Text, "Active Personnel: 200,000") {
		t.Errorf("collapsed text missing label/value pair: %q", page.Text)
	}

	if !strings.Contains(page.Text, "Defense Budget: $55,000,000,000") {
		t.Errorf("collapsed text missing budget pair: %q", page.Text)
	}

	for _, hidden := range []string{"ignore me", "color: red", "enable javascript"} {
		if strings.Contains(page.Text, hidden) {
			t.Errorf("script/style/noscript content leaked: %q", hidden)
		}
	}
}

func TestCollapsePageToleratesBrokenMarkup(t *testing.T) {
	page, err := CollapsePage("<p>Tanks Tracking <b>Stock: 215")
	if err != nil {
		t.Fatalf("CollapsePage returned unexpected error: %v", err)
	}

	if !strings.Contains(page.Text, "Tanks Tracking Stock: 215") {
		t.Errorf("Text = %q", page.Text)
	}
}
