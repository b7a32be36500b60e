// Package ingest implements the CSV ingestion pipeline: parsing raw delimited
// text into validated student records and reconciling imported records against
// an existing collection. Both steps are pure, synchronous computations over
// in-memory values - the package never touches I/O or the record store, and a
// single caller-supplied timestamp is threaded through each invocation.
package ingest

import (
	"github.com/vidya-hub/student-risk-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// IMPORT RESULT
// ══════════════════════════════════════════════════════════════════════════════

// ImportError describes one problem found while parsing a CSV import.
type ImportError struct {
	// Row is the 1-based line number the error refers to. Row 0 marks a
	// file-level error; the header line is row 1, so the first data line
	// reports errors as row 2.
	Row int `json:"row"`

	// Field names the offending column, or "file"/"header"/"row" for
	// structural errors.
	Field string `json:"field"`

	// Message is a human-readable reason.
	Message string `json:"message"`

	// Value is the offending raw string.
	Value string `json:"value"`
}

// ImportResult is the outcome of parsing one CSV import.
type ImportResult struct {
	// Success is true only when no errors were collected.
	Success bool `json:"success"`

	// StudentsImported counts the constructed records. It is populated even
	// when Success is false: rows with errors contribute no record, but
	// valid rows before and after them still do.
	StudentsImported int `json:"students_imported"`

	// Errors holds all collected errors in row order.
	Errors []ImportError `json:"errors"`

	// Students holds all constructed records in file order.
	Students []*student.Record `json:"students"`
}
