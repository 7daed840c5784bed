package models

import "sort"

// IdentityField is the column that names the entity a record describes.
// It is never normalized and never classified into a metric category.
const IdentityField = "Country"

// Record is one country's row: an identity name plus an open-ended, ordered
// mapping from canonical field name to value. Field sets differ between
// records, so the mapping is grown as extraction discovers metrics.
type Record struct {
	name   string
	order  []string
	fields map[string]Value
}

// NewRecord creates an empty record for the named entity.
func NewRecord(name string) *Record {
	return &Record{
		name:   name,
		fields: make(map[string]Value),
	}
}

// Name returns the identity value. It is immutable for the record's lifetime.
func (r *Record) Name() string {
	return r.name
}

// Set stores a field value. First insertion fixes the field's position;
// later writes replace the value in place. The identity field is ignored.
func (r *Record) Set(field string, v Value) {
	if field == IdentityField {
		return
	}

	if _, ok := r.fields[field]; !ok {
		r.order = append(r.order, field)
	}

	r.fields[field] = v
}

// Get returns the value stored under field.
func (r *Record) Get(field string) (Value, bool) {
	v, ok := r.fields[field]

	return v, ok
}

// Fields returns the non-identity field names in insertion order.
func (r *Record) Fields() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)

	return out
}

// Len returns the number of non-identity fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// Clone returns a deep copy of the record. Values are immutable, so copying
// the field map and order is enough.
func (r *Record) Clone() *Record {
	out := &Record{
		name:   r.name,
		order:  make([]string, len(r.order)),
		fields: make(map[string]Value, len(r.fields)),
	}

	copy(out.order, r.order)

	for field, v := range r.fields {
		out.fields[field] = v
	}

	return out
}

// Table is an ordered collection of records. Record order is the order the
// records were appended in and survives cleaning unchanged.
type Table struct {
	records []*Record
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Append adds a record to the end of the table.
func (t *Table) Append(r *Record) {
	t.records = append(t.records, r)
}

// Records returns the records in input order.
func (t *Table) Records() []*Record {
	return t.records
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Clone returns a deep copy of the table and every record in it.
func (t *Table) Clone() *Table {
	out := &Table{records: make([]*Record, len(t.records))}

	for i, rec := range t.records {
		out.records[i] = rec.Clone()
	}

	return out
}

// Columns returns the union of all field names across records: the identity
// column first, the rest sorted by name. This is the column contract every
// export follows.
func (t *Table) Columns() []string {
	seen := make(map[string]bool)

	var names []string

	for _, rec := range t.records {
		for _, field := range rec.Fields() {
			if !seen[field] {
				seen[field] = true

				names = append(names, field)
			}
		}
	}

	sort.Strings(names)

	return append([]string{IdentityField}, names...)
}
