// Package query contains read operations (CQRS - Queries).
// Queries never change stored state; risk is always recomputed on demand and
// never persisted.
package query

import (
	"context"

	"github.com/vidya-hub/student-risk-hub/internal/domain/risk"
	"github.com/vidya-hub/student-risk-hub/internal/domain/shared"
	"github.com/vidya-hub/student-risk-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// RISK OVERVIEW QUERY
// The dashboard view: every student assessed against the stored
// configuration, band counts, and optional filtering by band.
// ══════════════════════════════════════════════════════════════════════════════

// RiskOverviewQuery selects what the overview should contain.
type RiskOverviewQuery struct {
	// FilterLevel restricts the returned students to one risk band.
	// Empty means all students.
	FilterLevel risk.Level
}

// AssessedStudent pairs a record with its current assessment.
type AssessedStudent struct {
	Student    *student.Record `json:"student"`
	Assessment risk.Assessment `json:"assessment"`
}

// RiskOverview is the full dashboard view.
type RiskOverview struct {
	// Students holds the (possibly filtered) assessed students in store order.
	Students []AssessedStudent `json:"students"`

	// Summary counts every student per band, regardless of the filter.
	Summary risk.Summary `json:"summary"`

	// Config is the configuration the assessments were computed with.
	Config risk.Config `json:"config"`

	// ConfigWarnings lists validation concerns about the stored
	// configuration, such as an inverted threshold pair.
	ConfigWarnings []string `json:"config_warnings,omitempty"`
}

// RiskOverviewHandler handles the RiskOverviewQuery.
type RiskOverviewHandler struct {
	store     student.Store
	publisher shared.EventPublisher
}

// NewRiskOverviewHandler creates a new RiskOverviewHandler. The publisher is
// optional; when present, a high-risk event is emitted per high-band student
// so notification surfaces can react.
func NewRiskOverviewHandler(store student.Store, publisher shared.EventPublisher) *RiskOverviewHandler {
	return &RiskOverviewHandler{store: store, publisher: publisher}
}

// Handle executes the query.
func (h *RiskOverviewHandler) Handle(ctx context.Context, q RiskOverviewQuery) (*RiskOverview, error) {
	if q.FilterLevel != "" && !q.FilterLevel.IsValid() {
		return nil, shared.NewDomainError("risk", "Overview", shared.ErrInvalidInput, "unknown risk level filter")
	}

	records, err := h.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := h.store.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	overview := &RiskOverview{
		Config:         cfg,
		ConfigWarnings: cfg.Validate(),
	}

	for _, rec := range records {
		assessment := risk.Assess(rec.RiskSignals(), cfg)
		overview.Summary.Add(assessment.Level)

		if assessment.Level == risk.LevelHigh && h.publisher != nil {
			_ = h.publisher.Publish(shared.NewHighRiskDetectedEvent(rec.ID, rec.Name, assessment.Score))
		}

		if q.FilterLevel != "" && assessment.Level != q.FilterLevel {
			continue
		}
		overview.Students = append(overview.Students, AssessedStudent{
			Student:    rec,
			Assessment: assessment,
		})
	}

	return overview, nil
}
