package normalizer

import (
	"strings"

	"gdm/internal/models"
)

// Clean normalizes every field of every record in place, routing each column
// through the normalizer its category selects: equipment counts truncate to
// integers, personnel and financial values keep their fractional part, and
// uncategorized columns fall back to the loose first-number extractor.
//
// The identity column is untouched by construction, source-reference columns
// are left raw, and no field or record is ever dropped: a value that fails
// to normalize becomes an absent cell, so the table keeps its shape.
func Clean(table *models.Table, byCategory map[Category][]string) {
	categories := make(map[string]Category)

	for cat, fields := range byCategory {
		for _, field := range fields {
			categories[field] = cat
		}
	}

	for _, rec := range table.Records() {
		for _, field := range rec.Fields() {
			value, _ := rec.Get(field)
			raw := value.String()

			switch categories[field] {
			case CategoryEquipment:
				if n, ok := NormalizeCount(raw); ok {
					rec.Set(field, models.NumberValue(float64(n)))
				} else {
					rec.Set(field, models.AbsentValue())
				}
			case CategoryPersonnel, CategoryFinancial:
				if f, ok := Normalize(raw); ok {
					rec.Set(field, models.NumberValue(f))
				} else {
					rec.Set(field, models.AbsentValue())
				}
			default:
				if isSourceReference(field) {
					continue
				}

				if f, ok := ExtractNumeric(raw); ok {
					rec.Set(field, models.NumberValue(f))
				} else {
					rec.Set(field, models.AbsentValue())
				}
			}
		}
	}
}

// isSourceReference reports whether a column carries a raw source pointer
// rather than a metric, and must survive cleaning verbatim.
func isSourceReference(field string) bool {
	lower := strings.ToLower(field)

	return strings.Contains(lower, "url") || strings.Contains(lower, "source")
}
