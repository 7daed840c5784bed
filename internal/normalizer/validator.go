package normalizer

import (
	"errors"

	"gdm/internal/models"
)

// Structural validation errors. These are the only failures that abort a
// pipeline run; everything below them degrades to absent cells or skipped
// records.
var (
	ErrNoRecords       = errors.New("no usable records reached cleaning: every source failed extraction or fell below the metric threshold")
	ErrNoMetricColumns = errors.New("no metric columns recognized: the source schema yielded identity data only")
)

// DefaultMinMetrics is the quality floor: a record with fewer than this many
// extracted metrics is treated as a failed scrape.
const DefaultMinMetrics = 5

// Validator applies the dataset quality policy before cleaning.
type Validator struct {
	minMetrics int
}

// NewValidator creates a validator with the given minimum non-identity
// metric count. Values below 1 fall back to DefaultMinMetrics.
func NewValidator(minMetrics int) *Validator {
	if minMetrics < 1 {
		minMetrics = DefaultMinMetrics
	}

	return &Validator{minMetrics: minMetrics}
}

// Usable reports whether a record carries enough extracted metrics to be
// worth keeping. A short record is a soft failure: the caller counts it and
// moves on.
func (v *Validator) Usable(rec *models.Record) bool {
	return rec.Len() >= v.minMetrics
}

// Validate confirms the assembled table can be processed at all. A dataset
// with some missing cells is the normal case; a dataset with no records or
// no metric columns cannot produce anything useful and stops the run.
func (v *Validator) Validate(table *models.Table) error {
	if table.Len() == 0 {
		return ErrNoRecords
	}

	if len(table.Columns()) <= 1 {
		return ErrNoMetricColumns
	}

	return nil
}
