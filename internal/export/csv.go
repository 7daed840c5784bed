// Package export writes pipeline tables to their downstream formats: CSV
// files, a SQLite database, and the analytics bundle for dashboards.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gdm/internal/models"
)

// CSV errors.
var (
	ErrEmptyTable      = errors.New("no records to write")
	ErrMissingIdentity = errors.New("identity column not found in CSV header")
)

// WriteCSV writes a table with the identity column first and the remaining
// columns sorted by name. Absent cells are written empty, so every row has
// the same shape regardless of which fields its record carries.
func WriteCSV(path string, table *models.Table) error {
	if table.Len() == 0 {
		return ErrEmptyTable
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	cols := table.Columns()
	if err := w.Write(cols); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range table.Records() {
		row := make([]string, len(cols))
		row[0] = rec.Name()

		for i, col := range cols[1:] {
			if v, ok := rec.Get(col); ok {
				row[i+1] = v.String()
			}
		}

		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()

	return w.Error()
}

// ReadCSV reads a table previously written by WriteCSV (or by any producer
// following the same identity-first contract). All cells come back as raw
// values; empty cells become absent.
func ReadCSV(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, path)
	}

	header := rows[0]

	identityIdx := -1

	for i, col := range header {
		if col == models.IdentityField {
			identityIdx = i

			break
		}
	}

	if identityIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingIdentity, path)
	}

	table := models.NewTable()

	for _, row := range rows[1:] {
		if identityIdx >= len(row) {
			continue
		}

		rec := models.NewRecord(row[identityIdx])

		for i, cell := range row {
			if i == identityIdx || i >= len(header) {
				continue
			}

			if cell == "" {
				rec.Set(header[i], models.AbsentValue())
			} else {
				rec.Set(header[i], models.RawValue(cell))
			}
		}

		table.Append(rec)
	}

	return table, nil
}
