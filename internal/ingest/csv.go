package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidya-hub/student-risk-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// CSV PARSING
// ══════════════════════════════════════════════════════════════════════════════

// requiredColumns are the header names a CSV import must carry, in any order.
// Extra columns are tolerated and ignored.
var requiredColumns = []string{"name", "attendance", "marks", "fees_paid", "guardian_phone"}

// Field validation messages. These surface directly to staff, so they stay
// short and concrete.
const (
	msgFileTooShort   = "CSV must have header and at least one data row"
	msgColumnMismatch = "Column count mismatch"
	msgNameRequired   = "Name is required"
	msgAttendance     = "Attendance must be 0-100"
	msgMarks          = "Marks must be 0-100"
	msgFeesPaid       = "Fees paid must be Yes/No"
	msgPhone          = "Phone must be 10 digits"
)

// ParseCSV parses raw comma-separated text into validated student records.
//
// The format is deliberately simple: one header row, then data rows, fields
// split strictly on comma. There is no quoting or escaping support, so a
// comma inside a name will misparse; that limitation is part of the accepted
// input format, not a defect to patch over.
//
// All records constructed by one call share the same timestamp, so ingestion
// is reproducible and testable without wall-clock mocking.
func ParseCSV(raw string, now time.Time) ImportResult {
	lines := splitLines(raw)

	// File-level check: header plus at least one data row.
	if len(lines) < 2 {
		return ImportResult{
			Success:          false,
			StudentsImported: 0,
			Errors: []ImportError{{
				Row:     0,
				Field:   "file",
				Message: msgFileTooShort,
				Value:   "",
			}},
			Students: []*student.Record{},
		}
	}

	header := splitCells(lines[0])
	for i, cell := range header {
		header[i] = strings.ToLower(cell)
	}

	if missing := missingColumns(header); len(missing) > 0 {
		return ImportResult{
			Success:          false,
			StudentsImported: 0,
			Errors: []ImportError{{
				Row:     0,
				Field:   "header",
				Message: fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")),
				Value:   strings.Join(header, ", "),
			}},
			Students: []*student.Record{},
		}
	}

	var (
		errors   []ImportError
		students []*student.Record
	)

	for i := 1; i < len(lines); i++ {
		row := i + 1 // header is row 1
		cells := splitCells(lines[i])

		// A malformed row short-circuits: no field-level validation runs.
		if len(cells) != len(header) {
			errors = append(errors, ImportError{
				Row:     row,
				Field:   "row",
				Message: msgColumnMismatch,
				Value:   strings.Join(cells, ", "),
			})
			continue
		}

		values := make(map[string]string, len(header))
		for idx, col := range header {
			values[col] = cells[idx]
		}

		rec, rowErrors := validateRow(row, values, now)
		if len(rowErrors) > 0 {
			// Every failing field reports; the row contributes no record,
			// even for the fields that did validate.
			errors = append(errors, rowErrors...)
			continue
		}

		students = append(students, rec)
	}

	return ImportResult{
		Success:          len(errors) == 0,
		StudentsImported: len(students),
		Errors:           errors,
		Students:         students,
	}
}

// validateRow runs all five field validations unconditionally, so a single
// bad row can surface up to five errors at once.
func validateRow(row int, values map[string]string, now time.Time) (*student.Record, []ImportError) {
	var rowErrors []ImportError

	name := strings.TrimSpace(values["name"])
	if name == "" {
		rowErrors = append(rowErrors, ImportError{Row: row, Field: "name", Message: msgNameRequired, Value: values["name"]})
	}

	attendance, ok := parsePercent(values["attendance"])
	if !ok {
		rowErrors = append(rowErrors, ImportError{Row: row, Field: "attendance", Message: msgAttendance, Value: values["attendance"]})
	}

	marks, ok := parsePercent(values["marks"])
	if !ok {
		rowErrors = append(rowErrors, ImportError{Row: row, Field: "marks", Message: msgMarks, Value: values["marks"]})
	}

	feesPaid, ok := parseFeesPaid(values["fees_paid"])
	if !ok {
		rowErrors = append(rowErrors, ImportError{Row: row, Field: "fees_paid", Message: msgFeesPaid, Value: values["fees_paid"]})
	}

	phone, ok := student.NormalizePhone(values["guardian_phone"])
	if !ok {
		rowErrors = append(rowErrors, ImportError{Row: row, Field: "guardian_phone", Message: msgPhone, Value: values["guardian_phone"]})
	}

	if len(rowErrors) > 0 {
		return nil, rowErrors
	}

	rec, err := student.NewRecord(student.NewRecordParams{
		ID:                uuid.NewString(),
		Name:              name,
		AttendancePercent: attendance,
		MarksPercent:      marks,
		FeesPaid:          feesPaid,
		GuardianPhone:     phone,
		Timestamp:         now,
	})
	if err != nil {
		// Field validation above mirrors the factory's rules, so this is
		// unreachable for textual input; report it as a row error anyway
		// rather than panicking.
		return nil, []ImportError{{Row: row, Field: "row", Message: err.Error(), Value: ""}}
	}

	return rec, nil
}

// splitLines splits raw text into non-empty trimmed lines.
func splitLines(raw string) []string {
	parts := strings.Split(raw, "\n")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// splitCells splits one line strictly on comma and trims each cell.
func splitCells(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

// missingColumns returns the required columns absent from the header.
func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// parsePercent reads the leading numeric prefix of raw and checks the
// [0, 100] range. Spreadsheet exports routinely carry units in these cells,
// so "72%" and "72 days" both read as 72; empty or non-numeric input is
// invalid.
func parsePercent(raw string) (float64, bool) {
	n, ok := leadingFloat(strings.TrimSpace(raw))
	if !ok || n < 0 || n > 100 {
		return 0, false
	}
	return n, true
}

// leadingFloat parses the longest prefix of s that forms a decimal number
// (optional sign, digits, fraction, exponent). Trailing text is ignored.
func leadingFloat(s string) (float64, bool) {
	i, n := 0, len(s)
	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := false
	for i < n && s[i] >= '0' && s[i] <= '9' {
		i++
		digits = true
	}
	if i < n && s[i] == '.' {
		i++
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
			digits = true
		}
	}
	if !digits {
		return 0, false
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < n && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < n && s[k] >= '0' && s[k] <= '9' {
			k++
		}
		if k > j {
			i = k
		}
	}

	f, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseFeesPaid maps Yes/True/1 to true and No/False/0 to false,
// case-insensitively. Anything else is invalid.
func parseFeesPaid(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1":
		return true, true
	case "no", "false", "0":
		return false, true
	default:
		return false, false
	}
}
