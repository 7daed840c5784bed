// Package models defines the dataset types shared across the pipeline.
package models

import "strconv"

// ValueKind describes what a cell currently holds.
type ValueKind int

// Cell states, in lifecycle order.
const (
	KindAbsent ValueKind = iota
	KindRaw
	KindNumber
)

// Value is a single dataset cell: raw text straight out of extraction, a
// normalized number after cleaning, or absent when there is no usable value.
// Absent is a normal state, not an error.
type Value struct {
	Raw  string
	Num  float64
	Kind ValueKind
}

// AbsentValue returns the missing-value marker.
func AbsentValue() Value {
	return Value{Kind: KindAbsent}
}

// RawValue wraps an extracted text token.
func RawValue(raw string) Value {
	return Value{Raw: raw, Kind: KindRaw}
}

// NumberValue wraps a normalized numeric value.
func NumberValue(num float64) Value {
	return Value{Num: num, Kind: KindNumber}
}

// IsAbsent reports whether the cell holds no usable value.
func (v Value) IsAbsent() bool {
	return v.Kind == KindAbsent
}

// Float returns the numeric value if the cell has been normalized.
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}

	return v.Num, true
}

// String returns the canonical text form of the cell: the raw token before
// cleaning, the shortest exact decimal form after, and "" when absent.
// Re-normalizing this form reproduces the same value.
func (v Value) String() string {
	switch v.Kind {
	case KindRaw:
		return v.Raw
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return ""
	}
}
