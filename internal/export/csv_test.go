package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gdm/internal/models"
)

func buildCleanTable() *models.Table {
	table := models.NewTable()

	fr := models.NewRecord("France")
	fr.Set("Total Aircraft", models.NumberValue(1300))
	fr.Set("Defense Budget (USD)", models.NumberValue(55e9))
	table.Append(fr)

	de := models.NewRecord("Germany")
	de.Set("Total Aircraft", models.NumberValue(600))
	de.Set("Active Personnel", models.AbsentValue())
	table.Append(de)

	return table
}

func TestWriteCSVColumnOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := WriteCSV(path, buildCleanTable()); err != nil {
		t.Fatalf("WriteCSV returned unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3", len(lines))
	}

	// Identity first, then metric columns sorted by name; the union of all
	// record fields appears in every row.
	wantHeader := "Country,Active Personnel,Defense Budget (USD),Total Aircraft"
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}

	if lines[1] != "France,,55000000000,1300" {
		t.Errorf("row 1 = %q", lines[1])
	}

	if lines[2] != "Germany,,,600" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestWriteCSVEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := WriteCSV(path, models.NewTable()); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("error = %v, want ErrEmptyTable", err)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := WriteCSV(path, buildCleanTable()); err != nil {
		t.Fatalf("WriteCSV returned unexpected error: %v", err)
	}

	got, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV returned unexpected error: %v", err)
	}

	if got.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", got.Len())
	}

	fr := got.Records()[0]
	if fr.Name() != "France" {
		t.Errorf("Name() = %q, want France", fr.Name())
	}

	v, ok := fr.Get("Total Aircraft")
	if !ok {
		t.Fatal("Total Aircraft missing after round trip")
	}

	// Values come back raw; the numeric form survives textually.
	if v.String() != "1300" {
		t.Errorf("Total Aircraft = %q, want 1300", v.String())
	}

	// The empty cell reads back as absent, not as an empty raw value.
	pers, ok := fr.Get("Active Personnel")
	if !ok {
		t.Fatal("Active Personnel column missing after round trip")
	}

	if !pers.IsAbsent() {
		t.Errorf("Active Personnel = %q, want absent", pers.String())
	}
}

func TestReadCSVMissingIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("Nation,Total Aircraft\nFrance,1300\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := ReadCSV(path); !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("error = %v, want ErrMissingIdentity", err)
	}
}
