// Package student contains the domain model for tracked students.
// This is the core of the business logic - no external dependencies here.
package student

import (
	"fmt"
	"strings"
	"time"

	"github.com/vidya-hub/student-risk-hub/internal/domain/risk"
	"github.com/vidya-hub/student-risk-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Percent represents a percentage value in the inclusive range [0, 100].
type Percent float64

// IsValid reports whether the percent is within [0, 100].
func (p Percent) IsValid() bool {
	return p >= 0 && p <= 100
}

// GuardianPhone represents a normalized 10-digit guardian phone number.
type GuardianPhone string

// NormalizePhone strips all non-digit characters from raw and returns the
// result. The second return value is true only when exactly 10 digits remain.
func NormalizePhone(raw string) (GuardianPhone, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	return GuardianPhone(digits), len(digits) == 10
}

// IsValid reports whether the phone is exactly 10 digits.
func (g GuardianPhone) IsValid() bool {
	if len(g) != 10 {
		return false
	}
	for _, r := range g {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String returns the string representation of the phone.
func (g GuardianPhone) String() string {
	return string(g)
}

// ══════════════════════════════════════════════════════════════════════════════
// WEEKLY SNAPSHOT
// ══════════════════════════════════════════════════════════════════════════════

// WeeklySnapshot is one immutable point-in-time observation of a student's
// metrics. Snapshots are created once per update or import event and appended
// to the student's history; they are never mutated after creation.
type WeeklySnapshot struct {
	// Date is when the observation was made.
	Date time.Time `json:"date"`

	// AttendancePercent is the attendance at observation time, in [0, 100].
	AttendancePercent float64 `json:"attendance_percent"`

	// MarksPercent is the marks at observation time, in [0, 100].
	MarksPercent float64 `json:"marks_percent"`

	// FeesPaid reports whether the fees were paid at observation time.
	FeesPaid bool `json:"fees_paid"`
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record is the central entity of the system, representing one tracked student.
//
// Invariant: the latest scalar fields (AttendancePercent, MarksPercent,
// FeesPaid, LastUpdated) always equal the values in the last element of
// History. ID is immutable once assigned and History only grows.
type Record struct {
	// ID is the internal unique identifier (UUID in string form).
	ID string `json:"id"`

	// Name is the student's display name. Never empty.
	Name string `json:"name"`

	// AttendancePercent is the latest attendance value, in [0, 100].
	AttendancePercent float64 `json:"attendance_percent"`

	// MarksPercent is the latest marks value, in [0, 100].
	MarksPercent float64 `json:"marks_percent"`

	// FeesPaid reports whether the fees are currently paid.
	FeesPaid bool `json:"fees_paid"`

	// GuardianPhone is the normalized 10-digit guardian phone number.
	GuardianPhone string `json:"guardian_phone"`

	// LastUpdated is when the record was last observed.
	LastUpdated time.Time `json:"last_updated"`

	// History is the chronological, append-only sequence of observations.
	// Always has at least one element.
	History []WeeklySnapshot `json:"history"`
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewRecordParams contains the parameters for creating a new student record.
type NewRecordParams struct {
	ID                string
	Name              string
	AttendancePercent float64
	MarksPercent      float64
	FeesPaid          bool
	GuardianPhone     GuardianPhone
	Timestamp         time.Time
}

// NewRecord creates a new student record with validation of all fields.
// The record starts with a single-element history built from the same values
// and timestamp, establishing the latest-equals-last-snapshot invariant.
func NewRecord(params NewRecordParams) (*Record, error) {
	if params.ID == "" {
		return nil, shared.ErrInvalidStudentID
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, shared.ErrEmptyName
	}

	if !Percent(params.AttendancePercent).IsValid() || !Percent(params.MarksPercent).IsValid() {
		return nil, shared.ErrInvalidPercent
	}

	if !params.GuardianPhone.IsValid() {
		return nil, shared.ErrInvalidGuardianPhone
	}

	snap := WeeklySnapshot{
		Date:              params.Timestamp,
		AttendancePercent: params.AttendancePercent,
		MarksPercent:      params.MarksPercent,
		FeesPaid:          params.FeesPaid,
	}

	return &Record{
		ID:                params.ID,
		Name:              name,
		AttendancePercent: params.AttendancePercent,
		MarksPercent:      params.MarksPercent,
		FeesPaid:          params.FeesPaid,
		GuardianPhone:     params.GuardianPhone.String(),
		LastUpdated:       params.Timestamp,
		History:           []WeeklySnapshot{snap},
	}, nil
}

// Validate checks structural invariants of the record.
func (r *Record) Validate() error {
	if r.ID == "" {
		return shared.ErrInvalidStudentID
	}
	if strings.TrimSpace(r.Name) == "" {
		return shared.ErrEmptyName
	}
	if !Percent(r.AttendancePercent).IsValid() || !Percent(r.MarksPercent).IsValid() {
		return shared.ErrInvalidPercent
	}
	if !GuardianPhone(r.GuardianPhone).IsValid() {
		return shared.ErrInvalidGuardianPhone
	}
	if len(r.History) == 0 {
		return shared.ErrEmptyHistory
	}

	last := r.History[len(r.History)-1]
	if last.AttendancePercent != r.AttendancePercent ||
		last.MarksPercent != r.MarksPercent ||
		last.FeesPaid != r.FeesPaid ||
		!last.Date.Equal(r.LastUpdated) {
		return shared.WrapError("student", "Validate", shared.ErrInvalidEntity,
			"latest fields diverge from last history snapshot", nil)
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// ApplySnapshot folds a new observation into the record: the scalar fields
// take the snapshot's values, LastUpdated takes its date, and the snapshot is
// appended to the history. The ID and prior history are untouched.
func (r *Record) ApplySnapshot(snap WeeklySnapshot) {
	r.AttendancePercent = snap.AttendancePercent
	r.MarksPercent = snap.MarksPercent
	r.FeesPaid = snap.FeesPaid
	r.LastUpdated = snap.Date
	r.History = append(r.History, snap)
}

// LatestSnapshot returns the most recent history entry.
func (r *Record) LatestSnapshot() WeeklySnapshot {
	return r.History[len(r.History)-1]
}

// MarkFeesPaid records a new observation identical to the latest one except
// that fees are paid.
func (r *Record) MarkFeesPaid(now time.Time) {
	r.ApplySnapshot(WeeklySnapshot{
		Date:              now,
		AttendancePercent: r.AttendancePercent,
		MarksPercent:      r.MarksPercent,
		FeesPaid:          true,
	})
}

// RiskSignals exposes the latest metrics in the form the risk model consumes.
func (r *Record) RiskSignals() risk.Signals {
	return risk.Signals{
		AttendancePercent: r.AttendancePercent,
		MarksPercent:      r.MarksPercent,
		FeesPaid:          r.FeesPaid,
	}
}

// String returns a compact representation for logging.
func (r *Record) String() string {
	return fmt.Sprintf(
		"Record{ID: %s, Name: %s, Attendance: %.1f, Marks: %.1f, FeesPaid: %t}",
		r.ID, r.Name, r.AttendancePercent, r.MarksPercent, r.FeesPaid,
	)
}

// Clone creates a deep copy of the record, including its history.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	clone := *r
	clone.History = make([]WeeklySnapshot, len(r.History))
	copy(clone.History, r.History)
	return &clone
}

// CloneAll deep-copies a slice of records.
func CloneAll(records []*Record) []*Record {
	if records == nil {
		return nil
	}
	out := make([]*Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
