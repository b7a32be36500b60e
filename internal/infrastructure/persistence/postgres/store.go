// Package postgres implements a record store backed by PostgreSQL. The
// schema is deliberately a two-row key-value document table rather than a
// relational student model: the store contract is whole-collection get/set,
// and the pipeline never queries inside a record.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidya-hub/student-risk-hub/internal/domain/risk"
	"github.com/vidya-hub/student-risk-hub/internal/domain/shared"
	"github.com/vidya-hub/student-risk-hub/internal/domain/student"
	"github.com/vidya-hub/student-risk-hub/internal/infrastructure/persistence/snapshot"
)

// Storage keys within the document table.
const (
	KeyStudents = "students"
	KeyConfig   = "risk_config"
)

const migrationDocuments = `
CREATE TABLE IF NOT EXISTS risk_documents (
    key        TEXT PRIMARY KEY,
    value      JSONB NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store implements the record store contract on a PostgreSQL pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to PostgreSQL with the given connection URL, verifies the
// connection, and ensures the document table exists.
func NewStore(ctx context.Context, url string) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, shared.WrapError("store", "Connect", shared.ErrInvalidInput, "invalid postgres URL", err)
	}
	poolCfg.MaxConns = 5
	poolCfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, shared.WrapError("store", "Connect", shared.ErrServiceUnavailable, "failed to create pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, shared.WrapError("store", "Connect", shared.ErrServiceUnavailable, "postgres ping failed", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// migrate creates the document table if it does not exist.
func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, migrationDocuments); err != nil {
		return shared.WrapError("store", "Migrate", shared.ErrStorage, "failed to create document table", err)
	}
	return nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// getDocument loads one JSON document by key. Missing keys return ("", false).
func (s *Store) getDocument(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value::text FROM risk_documents WHERE key = $1`, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, shared.WrapError("store", "Get", shared.ErrStorage, "query failed", err)
	}
	return value, true, nil
}

// putDocument upserts one JSON document.
func (s *Store) putDocument(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO risk_documents (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return shared.WrapError("store", "Save", shared.ErrStorage, "upsert failed", err)
	}
	return nil
}

// GetAll returns every persisted record, or an empty slice when nothing is
// stored yet.
func (s *Store) GetAll(ctx context.Context) ([]*student.Record, error) {
	value, ok, err := s.getDocument(ctx, KeyStudents)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*student.Record{}, nil
	}

	var records []*student.Record
	if err := decodeJSON(value, &records); err != nil {
		return nil, shared.WrapError("store", "GetAll", shared.ErrStorage, "stored records are corrupt", err)
	}
	if records == nil {
		records = []*student.Record{}
	}
	return records, nil
}

// SaveAll overwrites the persisted record set.
func (s *Store) SaveAll(ctx context.Context, records []*student.Record) error {
	if records == nil {
		records = []*student.Record{}
	}
	value, err := encodeJSON(records)
	if err != nil {
		return shared.WrapError("store", "SaveAll", shared.ErrStorage, "failed to encode records", err)
	}
	return s.putDocument(ctx, KeyStudents, value)
}

// GetConfig returns the persisted configuration, or the built-in default.
func (s *Store) GetConfig(ctx context.Context) (risk.Config, error) {
	value, ok, err := s.getDocument(ctx, KeyConfig)
	if err != nil {
		return risk.Config{}, err
	}
	if !ok {
		return risk.DefaultConfig(), nil
	}

	var cfg risk.Config
	if err := decodeJSON(value, &cfg); err != nil {
		return risk.Config{}, shared.WrapError("store", "GetConfig", shared.ErrStorage, "stored config is corrupt", err)
	}
	return cfg, nil
}

// SaveConfig overwrites the persisted configuration.
func (s *Store) SaveConfig(ctx context.Context, cfg risk.Config) error {
	value, err := encodeJSON(cfg)
	if err != nil {
		return shared.WrapError("store", "SaveConfig", shared.ErrStorage, "failed to encode config", err)
	}
	return s.putDocument(ctx, KeyConfig, value)
}

// ExportSnapshot serializes the persisted records and configuration.
func (s *Store) ExportSnapshot(ctx context.Context) (string, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return "", err
	}
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return "", err
	}
	return snapshot.Encode(records, cfg)
}

// ImportSnapshot replaces persisted state from a serialized snapshot. Only
// the parts present in the snapshot are applied.
func (s *Store) ImportSnapshot(ctx context.Context, data string) error {
	env, err := snapshot.Decode(data)
	if err != nil {
		return err
	}

	if env.Records != nil {
		if err := s.SaveAll(ctx, env.Records); err != nil {
			return err
		}
	}
	if env.Config != nil {
		if err := s.SaveConfig(ctx, *env.Config); err != nil {
			return err
		}
	}
	return nil
}

// compile-time interface check
var _ student.Store = (*Store)(nil)
