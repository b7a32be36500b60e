package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidya-hub/student-risk-hub/internal/domain/risk"
	"github.com/vidya-hub/student-risk-hub/internal/domain/shared"
	"github.com/vidya-hub/student-risk-hub/internal/domain/student"
	"github.com/vidya-hub/student-risk-hub/internal/infrastructure/persistence/memory"
)

var testTime = time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

type capturePublisher struct {
	events []shared.Event
}

func (p *capturePublisher) Publish(e shared.Event) error {
	p.events = append(p.events, e)
	return nil
}

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()

	seeds := []struct {
		name       string
		phone      string
		attendance float64
		marks      float64
		feesPaid   bool
	}{
		{"High Risk", "9000000001", 45, 35, false}, // score 65.25
		{"Medium Risk", "9000000002", 65, 58, true},  // score 32.2
		{"Low Risk", "9000000003", 92, 89, true},     // score 7.85
	}

	records := make([]*student.Record, 0, len(seeds))
	for i, s := range seeds {
		rec, err := student.NewRecord(student.NewRecordParams{
			ID:                string(rune('a' + i)),
			Name:              s.name,
			AttendancePercent: s.attendance,
			MarksPercent:      s.marks,
			FeesPaid:          s.feesPaid,
			GuardianPhone:     student.GuardianPhone(s.phone),
			Timestamp:         testTime,
		})
		require.NoError(t, err)
		records = append(records, rec)
	}
	require.NoError(t, store.SaveAll(context.Background(), records))
	return store
}

func TestRiskOverview(t *testing.T) {
	store := seedStore(t)
	h := NewRiskOverviewHandler(store, nil)

	overview, err := h.Handle(context.Background(), RiskOverviewQuery{})
	require.NoError(t, err)

	assert.Equal(t, risk.Summary{Total: 3, High: 1, Medium: 1, Low: 1}, overview.Summary)
	assert.Equal(t, risk.DefaultConfig(), overview.Config)
	assert.Empty(t, overview.ConfigWarnings)
	require.Len(t, overview.Students, 3)

	assert.Equal(t, risk.LevelHigh, overview.Students[0].Assessment.Level)
	assert.InDelta(t, 65.25, overview.Students[0].Assessment.Score, 1e-9)
}

func TestRiskOverview_Filter(t *testing.T) {
	store := seedStore(t)
	h := NewRiskOverviewHandler(store, nil)

	overview, err := h.Handle(context.Background(), RiskOverviewQuery{FilterLevel: risk.LevelHigh})
	require.NoError(t, err)

	require.Len(t, overview.Students, 1)
	assert.Equal(t, "High Risk", overview.Students[0].Student.Name)
	assert.Equal(t, 3, overview.Summary.Total, "summary counts the full collection, not the filtered view")
}

func TestRiskOverview_InvalidFilter(t *testing.T) {
	h := NewRiskOverviewHandler(memory.NewStore(), nil)

	_, err := h.Handle(context.Background(), RiskOverviewQuery{FilterLevel: risk.Level("critical")})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestRiskOverview_PublishesHighRiskEvents(t *testing.T) {
	store := seedStore(t)
	pub := &capturePublisher{}
	h := NewRiskOverviewHandler(store, pub)

	_, err := h.Handle(context.Background(), RiskOverviewQuery{})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, shared.EventHighRiskDetected, pub.events[0].EventType())
}

func TestRiskOverview_UsesStoredConfig(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)

	// A stricter config pushes the medium student into the high band.
	cfg := risk.DefaultConfig()
	cfg.HighThreshold = 30
	require.NoError(t, store.SaveConfig(ctx, cfg))

	overview, err := NewRiskOverviewHandler(store, nil).Handle(ctx, RiskOverviewQuery{})
	require.NoError(t, err)

	assert.Equal(t, 2, overview.Summary.High)
	assert.NotEmpty(t, overview.ConfigWarnings, "medium >= high is flagged")
}

func TestRiskOverview_EmptyStore(t *testing.T) {
	overview, err := NewRiskOverviewHandler(memory.NewStore(), nil).Handle(context.Background(), RiskOverviewQuery{})
	require.NoError(t, err)

	assert.Equal(t, risk.Summary{}, overview.Summary)
	assert.Empty(t, overview.Students)
}
