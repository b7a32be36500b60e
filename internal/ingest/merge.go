package ingest

import (
	"strings"
	"time"

	"github.com/vidya-hub/student-risk-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECONCILIATION
// ══════════════════════════════════════════════════════════════════════════════

// Merge reconciles newly imported records against an existing collection and
// returns a new collection. Neither input slice is mutated.
//
// Each incoming record is matched against the records that pre-existed the
// call: first by exact guardian phone, then by case-insensitive name. The
// first match wins, and a phone match is always preferred over a name match.
// A matched record keeps its ID and prior history; its scalar fields take the
// incoming values and one new snapshot is appended, all stamped with the
// single now timestamp shared by the whole call. An unmatched incoming record
// is appended verbatim, with the ID and single-entry history it got at
// ingestion.
//
// Incoming records are never matched against each other: two incoming rows
// sharing a new phone number both append as separate records. Re-merging
// identical incoming data therefore updates the same pre-existing records
// again, growing each matched history by one entry per call - history growth
// is intentionally not deduplicated.
func Merge(existing, incoming []*student.Record, now time.Time) []*student.Record {
	merged := student.CloneAll(existing)
	if merged == nil {
		merged = []*student.Record{}
	}

	// Only records that pre-existed the call are candidates for matching.
	matchable := len(merged)

	for _, in := range incoming {
		target := findMatch(merged[:matchable], in)

		if target == nil {
			merged = append(merged, in.Clone())
			continue
		}

		target.ApplySnapshot(student.WeeklySnapshot{
			Date:              now,
			AttendancePercent: in.AttendancePercent,
			MarksPercent:      in.MarksPercent,
			FeesPaid:          in.FeesPaid,
		})
	}

	return merged
}

// findMatch locates the first candidate matching the incoming record, phone
// equality first, then case-insensitive name equality.
func findMatch(candidates []*student.Record, in *student.Record) *student.Record {
	for _, c := range candidates {
		if c.GuardianPhone == in.GuardianPhone {
			return c
		}
	}
	for _, c := range candidates {
		if strings.EqualFold(c.Name, in.Name) {
			return c
		}
	}
	return nil
}
