package student

import (
	"context"

	"github.com/vidya-hub/student-risk-hub/internal/domain/risk"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD STORE INTERFACE
// The contract for persisting student records and risk configuration.
// Implementations live in infrastructure/persistence. The ingestion pipeline
// itself never calls the store; only application-layer callers do.
// ══════════════════════════════════════════════════════════════════════════════

// Store defines the key-value persistence contract for student records and
// risk configuration.
type Store interface {
	// GetAll returns every persisted student record.
	// Returns an empty slice when nothing is persisted.
	GetAll(ctx context.Context) ([]*Record, error)

	// SaveAll persists the full record set, overwriting whatever was stored.
	SaveAll(ctx context.Context, records []*Record) error

	// GetConfig returns the persisted risk configuration, or the built-in
	// default when nothing is persisted.
	GetConfig(ctx context.Context) (risk.Config, error)

	// SaveConfig persists the risk configuration.
	SaveConfig(ctx context.Context, cfg risk.Config) error

	// ExportSnapshot returns a serialized snapshot of all records and the
	// current configuration.
	ExportSnapshot(ctx context.Context) (string, error)

	// ImportSnapshot replaces stored state from a serialized snapshot.
	// Returns an error matching shared.ErrInvalidFormat when the text is not
	// a well-formed snapshot.
	ImportSnapshot(ctx context.Context, data string) error
}
