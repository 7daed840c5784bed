package normalizer

import (
	"fmt"

	"gdm/internal/models"
)

// Processor runs the cleaning and derivation passes over an extracted
// dataset.
type Processor struct {
	validator *Validator
}

// NewProcessor creates a processor with the given quality policy.
func NewProcessor(minMetrics int) *Processor {
	return &Processor{
		validator: NewValidator(minMetrics),
	}
}

// Validator exposes the quality policy so callers can pre-filter records.
func (p *Processor) Validator() *Validator {
	return p.validator
}

// Process validates the raw table and computes the clean and derived KPI
// tables. The input is left untouched so callers can still export the raw
// textual dataset; all three tables share identities and record order.
func (p *Processor) Process(raw *models.Table) (*models.Table, *models.Table, error) {
	if err := p.validator.Validate(raw); err != nil {
		return nil, nil, fmt.Errorf("dataset validation failed: %w", err)
	}

	// Classification is schema-level: one pass over the column set, shared
	// by every record.
	byCategory := Classify(raw.Columns())

	clean := raw.Clone()
	Clean(clean, byCategory)

	return clean, Derive(clean), nil
}
