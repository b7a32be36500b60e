package student

import (
	"time"

	"github.com/google/uuid"
)

// SampleCSV is a small well-formed CSV used for demos and documentation.
const SampleCSV = `name,attendance,marks,fees_paid,guardian_phone
राज कुमार,72,54,No,9123456789
प्रिया सिंह,85,76,Yes,9876543210
अमित शर्मा,68,61,Yes,9555444333
सुनीता पटेल,92,89,Yes,9888777666
रोहित गुप्ता,58,45,No,9777888999`

type sampleSeed struct {
	name       string
	attendance float64
	marks      float64
	feesPaid   bool
	phone      string

	// metrics one week before now, for a two-entry history
	prevAttendance float64
	prevMarks      float64
	prevFeesPaid   bool
}

var sampleSeeds = []sampleSeed{
	{"राज कुमार", 45, 35, false, "9123456789", 48, 32, false},
	{"प्रिया सिंह", 85, 76, true, "9876543210", 82, 74, true},
	{"अमित शर्मा", 65, 58, true, "9555444333", 62, 55, false},
	{"सुनीता पटेल", 92, 89, true, "9888777666", 90, 87, true},
	{"रोहित गुप्ता", 55, 42, false, "9777888999", 58, 45, false},
}

// SampleRecords returns a demo dataset of five students, each with a
// two-entry history (one observation a week before now, one at now).
// Fresh IDs are generated on every call.
func SampleRecords(now time.Time) []*Record {
	weekAgo := now.Add(-7 * 24 * time.Hour)

	records := make([]*Record, 0, len(sampleSeeds))
	for _, seed := range sampleSeeds {
		rec, err := NewRecord(NewRecordParams{
			ID:                uuid.NewString(),
			Name:              seed.name,
			AttendancePercent: seed.prevAttendance,
			MarksPercent:      seed.prevMarks,
			FeesPaid:          seed.prevFeesPaid,
			GuardianPhone:     GuardianPhone(seed.phone),
			Timestamp:         weekAgo,
		})
		if err != nil {
			// Seeds are static and always valid.
			continue
		}
		rec.ApplySnapshot(WeeklySnapshot{
			Date:              now,
			AttendancePercent: seed.attendance,
			MarksPercent:      seed.marks,
			FeesPaid:          seed.feesPaid,
		})
		records = append(records, rec)
	}
	return records
}
