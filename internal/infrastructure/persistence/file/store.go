// Package file implements a record store backed by a single JSON document on
// disk - the server-less persistence mode, analogous to the browser-local
// storage the product started with. Writes are atomic (temp file + rename).
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vidya-hub/student-risk-hub/internal/domain/risk"
	"github.com/vidya-hub/student-risk-hub/internal/domain/shared"
	"github.com/vidya-hub/student-risk-hub/internal/domain/student"
	"github.com/vidya-hub/student-risk-hub/internal/infrastructure/persistence/snapshot"
)

// Store persists records and configuration in one JSON file.
// Calls are serialized; the product contract is single-writer anyway.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a file store at the given path. The parent directory is
// created if needed; the file itself appears on first save.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, shared.NewDomainError("store", "Open", shared.ErrInvalidInput, "file store path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, shared.WrapError("store", "Open", shared.ErrStorage, "failed to create data directory", err)
		}
	}
	return &Store{path: path}, nil
}

// GetAll returns every persisted record, or an empty slice when the file does
// not exist yet.
func (s *Store) GetAll(ctx context.Context) ([]*student.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.load()
	if err != nil {
		return nil, err
	}
	if env.Records == nil {
		return []*student.Record{}, nil
	}
	return env.Records, nil
}

// SaveAll overwrites the persisted record set, keeping the stored config.
func (s *Store) SaveAll(ctx context.Context, records []*student.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.load()
	if err != nil {
		return err
	}
	env.Records = student.CloneAll(records)
	if env.Records == nil {
		env.Records = []*student.Record{}
	}
	return s.save(env)
}

// GetConfig returns the persisted configuration, or the built-in default.
func (s *Store) GetConfig(ctx context.Context) (risk.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.load()
	if err != nil {
		return risk.Config{}, err
	}
	if env.Config == nil {
		return risk.DefaultConfig(), nil
	}
	return *env.Config, nil
}

// SaveConfig overwrites the persisted configuration, keeping the records.
func (s *Store) SaveConfig(ctx context.Context, cfg risk.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.load()
	if err != nil {
		return err
	}
	env.Config = &cfg
	return s.save(env)
}

// ExportSnapshot serializes the persisted records and configuration.
func (s *Store) ExportSnapshot(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.load()
	if err != nil {
		return "", err
	}
	cfg := risk.DefaultConfig()
	if env.Config != nil {
		cfg = *env.Config
	}
	return snapshot.Encode(env.Records, cfg)
}

// ImportSnapshot replaces persisted state from a serialized snapshot. Only
// the parts present in the snapshot are applied.
func (s *Store) ImportSnapshot(ctx context.Context, data string) error {
	incoming, err := snapshot.Decode(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.load()
	if err != nil {
		return err
	}
	if incoming.Records != nil {
		env.Records = incoming.Records
	}
	if incoming.Config != nil {
		env.Config = incoming.Config
	}
	return s.save(env)
}

// load reads the document from disk. A missing file yields an empty envelope.
func (s *Store) load() (snapshot.Envelope, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return snapshot.Envelope{}, nil
		}
		return snapshot.Envelope{}, shared.WrapError("store", "Load", shared.ErrStorage, "failed to read data file", err)
	}

	env, err := snapshot.Decode(string(data))
	if err != nil {
		// A corrupt data file is a storage fault, not a caller mistake.
		return snapshot.Envelope{}, shared.WrapError("store", "Load", shared.ErrStorage,
			fmt.Sprintf("data file %s is corrupt", s.path), err)
	}
	return env, nil
}

// save writes the document atomically.
func (s *Store) save(env snapshot.Envelope) error {
	cfg := risk.DefaultConfig()
	if env.Config != nil {
		cfg = *env.Config
	}
	data, err := snapshot.Encode(env.Records, cfg)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(data), 0o644); err != nil {
		return shared.WrapError("store", "Save", shared.ErrStorage, "failed to write data file", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return shared.WrapError("store", "Save", shared.ErrStorage, "failed to replace data file", err)
	}
	return nil
}

// compile-time interface check
var _ student.Store = (*Store)(nil)
