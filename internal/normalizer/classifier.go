package normalizer

import (
	"strings"

	"gdm/internal/models"
)

// Category is the semantic bucket a column falls into. It decides which
// normalization path the cleaning stage routes the column through.
type Category string

// Column categories.
const (
	CategoryEquipment Category = "equipment"
	CategoryPersonnel Category = "personnel"
	CategoryFinancial Category = "financial"
	CategoryOther     Category = "other"
)

// categoryRule pairs a category with the keywords that select it.
type categoryRule struct {
	category Category
	keywords []string
}

// categoryRules is the classification policy. Rules are evaluated in
// declaration order and the first matching category wins, so a field name
// matching several keyword sets lands in the earliest one (a hypothetical
// "Personnel Budget" classifies as personnel, not financial).
var categoryRules = []categoryRule{
	{CategoryEquipment, []string{"aircraft", "tank", "helicopter", "submarine", "carrier", "vessel", "ship", "artillery", "launcher"}},
	{CategoryPersonnel, []string{"personnel", "active", "reserve", "manpower", "soldier", "troop"}},
	{CategoryFinancial, []string{"budget", "gdp", "spending", "expenditure", "revenue", "income"}},
}

// Classify buckets each field name into a category by case-insensitive
// keyword substring match. The identity field is never classified. The
// result depends only on the names, so it is computed once per distinct
// field set and shared by all records over that schema.
func Classify(fields []string) map[Category][]string {
	byCategory := map[Category][]string{
		CategoryEquipment: nil,
		CategoryPersonnel: nil,
		CategoryFinancial: nil,
		CategoryOther:     nil,
	}

	for _, field := range fields {
		if field == models.IdentityField {
			continue
		}

		cat := ClassifyField(field)
		byCategory[cat] = append(byCategory[cat], field)
	}

	return byCategory
}

// ClassifyField returns the category for a single field name.
func ClassifyField(field string) Category {
	lower := strings.ToLower(field)

	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}

	return CategoryOther
}
