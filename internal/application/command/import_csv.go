// Package command contains write operations (CQRS - Commands).
// Commands orchestrate the ingestion pipeline and the record store; the
// pipeline itself stays pure and never touches I/O.
package command

import (
	"context"
	"errors"
	"time"

	"github.com/vidya-hub/student-risk-hub/internal/domain/shared"
	"github.com/vidya-hub/student-risk-hub/internal/domain/student"
	"github.com/vidya-hub/student-risk-hub/internal/ingest"
	"github.com/vidya-hub/student-risk-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// IMPORT CSV COMMAND
// Parses raw CSV text, reconciles the result against the stored collection,
// and persists the merged set. The caller supplies the raw text (file
// reading is its concern) and one timestamp for the whole invocation.
// ══════════════════════════════════════════════════════════════════════════════

// ImportCSVCommand contains the data needed to run one CSV import.
type ImportCSVCommand struct {
	// SourceName identifies where the text came from (file name, upload id).
	// Used for logging and events only.
	SourceName string

	// RawText is the full CSV content.
	RawText string

	// Timestamp is the single timestamp shared by every record created or
	// updated in this import. Zero means "now".
	Timestamp time.Time
}

// Validate validates the command.
func (c ImportCSVCommand) Validate() error {
	if c.SourceName == "" {
		return errors.New("import_csv: source name is required")
	}
	return nil
}

// ImportCSVResult contains the outcome of one import.
type ImportCSVResult struct {
	// Parse is the full parse outcome, including row errors.
	Parse ingest.ImportResult

	// Persisted is true when the merged collection was saved. Following the
	// product's rule, an import with any error persists nothing.
	Persisted bool

	// TotalAfter is the collection size after the merge (0 when not persisted).
	TotalAfter int
}

// ImportCSVHandler handles the ImportCSVCommand.
type ImportCSVHandler struct {
	store     student.Store
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewImportCSVHandler creates a new ImportCSVHandler.
func NewImportCSVHandler(store student.Store, publisher shared.EventPublisher, log *logger.Logger) *ImportCSVHandler {
	if log == nil {
		log = logger.Default()
	}
	return &ImportCSVHandler{
		store:     store,
		publisher: publisher,
		log:       log.With(logger.Component("import_csv")),
	}
}

// Handle executes the import command.
func (h *ImportCSVHandler) Handle(ctx context.Context, cmd ImportCSVCommand) (*ImportCSVResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ts := cmd.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	parse := ingest.ParseCSV(cmd.RawText, ts)
	if !parse.Success {
		h.log.Warn("import rejected",
			logger.SourceFile(cmd.SourceName),
			logger.Count(len(parse.Errors)))
		if h.publisher != nil {
			_ = h.publisher.Publish(shared.NewImportFailedEvent(
				cmd.SourceName, parse.StudentsImported, len(parse.Errors)))
		}
		return &ImportCSVResult{Parse: parse}, nil
	}

	existing, err := h.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	merged := ingest.Merge(existing, parse.Students, ts)
	if err := h.store.SaveAll(ctx, merged); err != nil {
		return nil, err
	}

	h.log.Info("import completed",
		logger.SourceFile(cmd.SourceName),
		logger.Count(parse.StudentsImported),
		logger.Int("total_after", len(merged)))

	if h.publisher != nil {
		// Notification failures never fail the import.
		_ = h.publisher.Publish(shared.NewImportCompletedEvent(
			cmd.SourceName, parse.StudentsImported, len(parse.Errors), len(merged)))
	}

	return &ImportCSVResult{
		Parse:      parse,
		Persisted:  true,
		TotalAfter: len(merged),
	}, nil
}
