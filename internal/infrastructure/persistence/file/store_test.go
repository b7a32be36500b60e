package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidya-hub/student-risk-hub/internal/domain/risk"
	"github.com/vidya-hub/student-risk-hub/internal/domain/shared"
	"github.com/vidya-hub/student-risk-hub/internal/domain/student"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "students.json")
	s, err := NewStore(path)
	require.NoError(t, err)
	return s, path
}

func testRecord(t *testing.T) *student.Record {
	t.Helper()
	rec, err := student.NewRecord(student.NewRecordParams{
		ID:                "rec-1",
		Name:              "Diya Patel",
		AttendancePercent: 85,
		MarksPercent:      76,
		FeesPaid:          true,
		GuardianPhone:     student.GuardianPhone("9123456789"),
		Timestamp:         time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return rec
}

func TestNewStore_EmptyPath(t *testing.T) {
	_, err := NewStore("")
	assert.Error(t, err)
}

func TestNewStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "students.json")
	_, err := NewStore(path)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)

	records, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	cfg, err := s.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, risk.DefaultConfig(), cfg)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "reading must not create the file")
}

func TestStore_SaveAllPersists(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)
	rec := testRecord(t)

	require.NoError(t, s.SaveAll(ctx, []*student.Record{rec}))

	// A fresh store over the same file sees the data.
	reopened, err := NewStore(path)
	require.NoError(t, err)
	got, err := reopened.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)
	assert.True(t, got[0].LastUpdated.Equal(rec.LastUpdated))
	require.Len(t, got[0].History, 1)
	assert.Equal(t, 85.0, got[0].History[0].AttendancePercent)
}

func TestStore_ConfigSurvivesSaveAll(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	custom := risk.DefaultConfig()
	custom.MediumThreshold = 25
	require.NoError(t, s.SaveConfig(ctx, custom))
	require.NoError(t, s.SaveAll(ctx, []*student.Record{testRecord(t)}))

	cfg, err := s.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25.0, cfg.MediumThreshold)
}

func TestStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := s.GetAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrStorage)
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestStore(t)
	rec := testRecord(t)

	require.NoError(t, src.SaveAll(ctx, []*student.Record{rec}))

	data, err := src.ExportSnapshot(ctx)
	require.NoError(t, err)

	dst, _ := newTestStore(t)
	require.NoError(t, dst.ImportSnapshot(ctx, data))

	records, err := dst.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.ID, records[0].ID)
}

func TestStore_ImportSnapshot_Malformed(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	require.NoError(t, s.SaveAll(ctx, []*student.Record{testRecord(t)}))

	err := s.ImportSnapshot(ctx, "not a snapshot")
	require.Error(t, err)
	assert.True(t, shared.IsMalformedSnapshot(err))

	records, getErr := s.GetAll(ctx)
	require.NoError(t, getErr)
	assert.Len(t, records, 1, "rejected import leaves the file untouched")
}
