package extractor

import (
	"strings"

	"gdm/internal/models"
)

// Hints carries the structured fields that accompany one page's text
// content, used for country-name resolution.
type Hints struct {
	Title     string
	Heading   string
	SourceRef string
}

// Extractor applies the metric catalog to page text. It is stateless and
// safe for concurrent use; each page's extraction is independent.
type Extractor struct{}

// NewExtractor creates a new extractor instance.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs every catalog rule plus the special-purpose patterns against
// the collapsed page text and returns a record keyed by the resolved country
// name. A generic match is recorded only when its captured value survives
// separator removal as a pure digit string; malformed matches are dropped
// silently rather than stored.
func (e *Extractor) Extract(text string, hints Hints) *models.Record {
	rec := models.NewRecord(ResolveName(hints))

	for _, r := range catalog {
		m := r.Pattern.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}

		value := strings.ReplaceAll(m[1], ",", "")
		if !isDigits(value) {
			continue
		}

		rec.Set(r.Field, models.RawValue(value))
	}

	if m := rankPattern.FindStringSubmatch(text); len(m) == 3 {
		rec.Set("GFP Rank", models.RawValue(m[1]))
		rec.Set("Total Countries Ranked", models.RawValue(m[2]))
	}

	if m := powerIndexPattern.FindStringSubmatch(text); len(m) == 2 {
		rec.Set("Power Index", models.RawValue(m[1]))
	}

	return rec
}

// isDigits reports whether s is a non-empty run of ASCII digits, i.e. a
// syntactically valid non-negative integer.
func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}
