package student

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidya-hub/student-risk-hub/internal/domain/shared"
)

var testTime = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

func validParams() NewRecordParams {
	return NewRecordParams{
		ID:                "rec-1",
		Name:              "Aarav Sharma",
		AttendancePercent: 92,
		MarksPercent:      88,
		FeesPaid:          true,
		GuardianPhone:     GuardianPhone("9876543210"),
		Timestamp:         testTime,
	}
}

func TestNewRecord(t *testing.T) {
	rec, err := NewRecord(validParams())
	require.NoError(t, err)

	assert.Equal(t, "Aarav Sharma", rec.Name)
	assert.Equal(t, 92.0, rec.AttendancePercent)
	require.Len(t, rec.History, 1)
	assert.Equal(t, rec.AttendancePercent, rec.History[0].AttendancePercent)
	assert.Equal(t, rec.MarksPercent, rec.History[0].MarksPercent)
	assert.Equal(t, rec.FeesPaid, rec.History[0].FeesPaid)
	assert.True(t, rec.LastUpdated.Equal(rec.History[0].Date))
	assert.NoError(t, rec.Validate())
}

func TestNewRecord_TrimsName(t *testing.T) {
	p := validParams()
	p.Name = "  Diya Patel  "
	rec, err := NewRecord(p)
	require.NoError(t, err)
	assert.Equal(t, "Diya Patel", rec.Name)
}

func TestNewRecord_Rejections(t *testing.T) {
	p := validParams()
	p.ID = ""
	_, err := NewRecord(p)
	assert.ErrorIs(t, err, shared.ErrInvalidStudentID)

	p = validParams()
	p.Name = "   "
	_, err = NewRecord(p)
	assert.ErrorIs(t, err, shared.ErrEmptyName)

	p = validParams()
	p.AttendancePercent = 101
	_, err = NewRecord(p)
	assert.ErrorIs(t, err, shared.ErrInvalidPercent)

	p = validParams()
	p.MarksPercent = -1
	_, err = NewRecord(p)
	assert.ErrorIs(t, err, shared.ErrInvalidPercent)

	p = validParams()
	p.GuardianPhone = GuardianPhone("12345")
	_, err = NewRecord(p)
	assert.ErrorIs(t, err, shared.ErrInvalidGuardianPhone)
}

func TestNormalizePhone(t *testing.T) {
	phone, ok := NormalizePhone("(987) 654-3210")
	assert.True(t, ok)
	assert.Equal(t, GuardianPhone("9876543210"), phone)

	phone, ok = NormalizePhone("98765 43210")
	assert.True(t, ok)
	assert.Equal(t, GuardianPhone("9876543210"), phone)

	_, ok = NormalizePhone("12345")
	assert.False(t, ok)

	_, ok = NormalizePhone("+91 98765 43210") // 12 digits after stripping
	assert.False(t, ok)

	_, ok = NormalizePhone("")
	assert.False(t, ok)
}

func TestRecord_ApplySnapshot(t *testing.T) {
	rec, err := NewRecord(validParams())
	require.NoError(t, err)

	later := testTime.Add(7 * 24 * time.Hour)
	rec.ApplySnapshot(WeeklySnapshot{
		Date:              later,
		AttendancePercent: 80,
		MarksPercent:      75,
		FeesPaid:          false,
	})

	assert.Equal(t, 80.0, rec.AttendancePercent)
	assert.Equal(t, 75.0, rec.MarksPercent)
	assert.False(t, rec.FeesPaid)
	assert.True(t, rec.LastUpdated.Equal(later))
	require.Len(t, rec.History, 2)
	assert.Equal(t, 92.0, rec.History[0].AttendancePercent, "prior history stays intact")
	assert.NoError(t, rec.Validate())
}

func TestRecord_MarkFeesPaid(t *testing.T) {
	p := validParams()
	p.FeesPaid = false
	rec, err := NewRecord(p)
	require.NoError(t, err)

	later := testTime.Add(time.Hour)
	rec.MarkFeesPaid(later)

	assert.True(t, rec.FeesPaid)
	assert.Equal(t, 92.0, rec.AttendancePercent, "other metrics untouched")
	require.Len(t, rec.History, 2)
	assert.True(t, rec.LatestSnapshot().FeesPaid)
	assert.NoError(t, rec.Validate())
}

func TestRecord_Validate_DivergentLatest(t *testing.T) {
	rec, err := NewRecord(validParams())
	require.NoError(t, err)

	rec.AttendancePercent = 50 // scalar touched without appending a snapshot
	err = rec.Validate()
	assert.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidEntity)
}

func TestRecord_Clone(t *testing.T) {
	rec, err := NewRecord(validParams())
	require.NoError(t, err)

	clone := rec.Clone()
	clone.Name = "Changed"
	clone.History[0].AttendancePercent = 1

	assert.Equal(t, "Aarav Sharma", rec.Name)
	assert.Equal(t, 92.0, rec.History[0].AttendancePercent)
}

func TestSampleRecords(t *testing.T) {
	now := testTime
	records := SampleRecords(now)
	require.Len(t, records, 5)

	seen := make(map[string]bool)
	for _, rec := range records {
		assert.NoError(t, rec.Validate())
		assert.False(t, seen[rec.ID], "sample IDs must be unique")
		seen[rec.ID] = true
		assert.Len(t, rec.History, 2, "samples ship with one week of history")
	}
}
