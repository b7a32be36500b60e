package command

import (
	"context"
	"time"

	"github.com/vidya-hub/student-risk-hub/internal/domain/student"
	"github.com/vidya-hub/student-risk-hub/internal/ingest"
	"github.com/vidya-hub/student-risk-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOAD SAMPLE DATA COMMAND
// Merges the bundled demo dataset into the store, for first-run demos and
// training sessions. Goes through the same reconciler as a real import, so
// loading twice grows histories instead of duplicating students.
// ══════════════════════════════════════════════════════════════════════════════

// LoadSampleDataHandler handles loading the demo dataset.
type LoadSampleDataHandler struct {
	store student.Store
	log   *logger.Logger
}

// NewLoadSampleDataHandler creates a new LoadSampleDataHandler.
func NewLoadSampleDataHandler(store student.Store, log *logger.Logger) *LoadSampleDataHandler {
	if log == nil {
		log = logger.Default()
	}
	return &LoadSampleDataHandler{
		store: store,
		log:   log.With(logger.Component("sample_data")),
	}
}

// Handle merges the sample dataset into the stored collection and returns the
// collection size afterwards.
func (h *LoadSampleDataHandler) Handle(ctx context.Context, now time.Time) (int, error) {
	if now.IsZero() {
		now = time.Now()
	}

	existing, err := h.store.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	merged := ingest.Merge(existing, student.SampleRecords(now), now)
	if err := h.store.SaveAll(ctx, merged); err != nil {
		return 0, err
	}

	h.log.Info("sample data loaded", logger.Count(len(merged)))
	return len(merged), nil
}
