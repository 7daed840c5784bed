package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gdm/internal/models"

	_ "modernc.org/sqlite"
)

// WriteSQLite writes the given tables into one SQLite database, replacing
// any previous file. Each table gets the identity column as TEXT, every
// metric column as REAL, and an index on the identity column so dashboard
// queries join cheaply.
func WriteSQLite(path string, tables map[string]*models.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	_ = os.Remove(path)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	defer db.Close()

	for name, table := range tables {
		if err := writeTable(db, name, table); err != nil {
			return fmt.Errorf("failed to write table %s: %w", name, err)
		}
	}

	return nil
}

func writeTable(db *sql.DB, name string, table *models.Table) error {
	cols := table.Columns()

	defs := make([]string, 0, len(cols))
	quoted := make([]string, 0, len(cols))

	for i, col := range cols {
		colType := "REAL"
		if i == 0 {
			colType = "TEXT"
		}

		defs = append(defs, fmt.Sprintf("%q %s", col, colType))
		quoted = append(quoted, fmt.Sprintf("%q", col))
	}

	if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %q", name)); err != nil {
		return err
	}

	createStmt := fmt.Sprintf("CREATE TABLE %q (%s)", name, strings.Join(defs, ","))
	if _, err := db.Exec(createStmt); err != nil {
		return err
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")

	stmt, err := db.Prepare(fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
		name, strings.Join(quoted, ","), placeholders))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range table.Records() {
		args := make([]any, 0, len(cols))
		args = append(args, rec.Name())

		for _, col := range cols[1:] {
			args = append(args, sqliteValue(rec, col))
		}

		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}

	indexStmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_identity ON %q(%q)",
		name, name, cols[0])
	if _, err := db.Exec(indexStmt); err != nil {
		return err
	}

	return nil
}

// sqliteValue maps a cell to its SQL argument: numbers as REAL, absent as
// NULL, and anything still raw (source references) as TEXT.
func sqliteValue(rec *models.Record, col string) any {
	v, ok := rec.Get(col)
	if !ok || v.IsAbsent() {
		return nil
	}

	if f, isNum := v.Float(); isNum {
		return f
	}

	return v.Raw
}
