// Package memory implements an in-process record store. It is the
// zero-configuration default and the test double for the application layer.
package memory

import (
	"context"
	"sync"

	"github.com/vidya-hub/student-risk-hub/internal/domain/risk"
	"github.com/vidya-hub/student-risk-hub/internal/domain/student"
	"github.com/vidya-hub/student-risk-hub/internal/infrastructure/persistence/snapshot"
)

// Store keeps records and configuration in memory. Records are deep-copied on
// the way in and out, so callers can never alias stored state.
type Store struct {
	mu      sync.RWMutex
	records []*student.Record
	config  *risk.Config
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// GetAll returns a deep copy of every stored record.
func (s *Store) GetAll(ctx context.Context) ([]*student.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.records == nil {
		return []*student.Record{}, nil
	}
	return student.CloneAll(s.records), nil
}

// SaveAll overwrites the stored record set.
func (s *Store) SaveAll(ctx context.Context, records []*student.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = student.CloneAll(records)
	return nil
}

// GetConfig returns the stored configuration, or the built-in default.
func (s *Store) GetConfig(ctx context.Context) (risk.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.config == nil {
		return risk.DefaultConfig(), nil
	}
	return *s.config, nil
}

// SaveConfig overwrites the stored configuration.
func (s *Store) SaveConfig(ctx context.Context, cfg risk.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = &cfg
	return nil
}

// ExportSnapshot serializes the stored records and configuration.
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

// ImportSnapshot replaces stored state from a serialized snapshot. Only the
// parts present in the snapshot are applied.
func (s *Store) ImportSnapshot(ctx context.Context, data string) error {
	env, err := snapshot.Decode(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if env.Records != nil {
		s.records = student.CloneAll(env.Records)
	}
	if env.Config != nil {
		cfg := *env.Config
		s.config = &cfg
	}
	return nil
}

// compile-time interface check
var _ student.Store = (*Store)(nil)
