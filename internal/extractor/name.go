package extractor

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownCountry is the sentinel used when every resolution tier fails.
const UnknownCountry = "Unknown"

// Trailing-qualifier patterns for page titles and headings:
// "United States Military Strength 2025" -> "United States".
var (
	titleQualifierPattern   = regexp.MustCompile(`\s*(Military Strength|2025|2024|\|).*`)
	headingQualifierPattern = regexp.MustCompile(`\s*(Military Strength|Overview).*`)
)

// ResolveName resolves the country name from the page hints, in tiers: the
// document title, then the first heading, then the de-slugged identifier
// from the source URL. Each tier is tried only when the previous produced
// an empty result; if all fail the sentinel is returned.
func ResolveName(h Hints) string {
	if name := strings.TrimSpace(titleQualifierPattern.ReplaceAllString(h.Title, "")); name != "" {
		return name
	}

	if name := strings.TrimSpace(headingQualifierPattern.ReplaceAllString(h.Heading, "")); name != "" {
		return name
	}

	if slug := CountrySlug(h.SourceRef); slug != "" {
		return deslug(slug)
	}

	return UnknownCountry
}

// CountrySlug extracts the country_id query parameter from a source URL,
// e.g. ".../country-military-strength-detail.php?country_id=united-states-of-america".
func CountrySlug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return u.Query().Get("country_id")
}

// deslug turns "united-states-of-america" into "United States Of America".
func deslug(slug string) string {
	// A cases.Caser carries state, so build one per call rather than share
	// it across extraction workers.
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}
