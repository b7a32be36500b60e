// Package redis implements a record store backed by Redis. State lives under
// two keys holding JSON values, which keeps the exact key-value get/set
// contract of the store interface - Redis plays the role the browser's local
// storage played in the original product.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vidya-hub/student-risk-hub/internal/domain/risk"
	"github.com/vidya-hub/student-risk-hub/internal/domain/shared"
	"github.com/vidya-hub/student-risk-hub/internal/domain/student"
	"github.com/vidya-hub/student-risk-hub/internal/infrastructure/persistence/snapshot"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// Host is the Redis server hostname.
	Host string

	// Port is the Redis server port.
	Port int

	// Password is the Redis authentication password (empty if no auth).
	Password string

	// DB is the Redis database number (0-15).
	DB int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		Password:     "",
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Storage keys. Two keys mirror the two slots of the original local storage.
const (
	KeyStudents = "risk:students"
	KeyConfig   = "risk:config"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store implements the record store contract on a Redis connection.
type Store struct {
	client *redis.Client
}

// NewStore connects to Redis and verifies the connection with a ping.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, shared.WrapError("store", "Connect", shared.ErrServiceUnavailable, "redis ping failed", err)
	}

	return &Store{client: client}, nil
}

// NewStoreFromURL connects using a redis:// connection URL.
func NewStoreFromURL(ctx context.Context, url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, shared.WrapError("store", "Connect", shared.ErrInvalidInput, "invalid redis URL", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, shared.WrapError("store", "Connect", shared.ErrServiceUnavailable, "redis ping failed", err)
	}

	return &Store{client: client}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// GetAll returns every persisted record, or an empty slice when the key is
// missing.
func (s *Store) GetAll(ctx context.Context) ([]*student.Record, error) {
	data, err := s.client.Get(ctx, KeyStudents).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*student.Record{}, nil
		}
		return nil, shared.WrapError("store", "GetAll", shared.ErrStorage, "redis get failed", err)
	}

	var records []*student.Record
	if err := json.Unmarshal([]byte(data), &records); err != nil {
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
	data, err := json.Marshal(records)
	if err != nil {
		return shared.WrapError("store", "SaveAll", shared.ErrStorage, "failed to encode records", err)
	}
	if err := s.client.Set(ctx, KeyStudents, data, 0).Err(); err != nil {
		return shared.WrapError("store", "SaveAll", shared.ErrStorage, "redis set failed", err)
	}
	return nil
}

// GetConfig returns the persisted configuration, or the built-in default.
func (s *Store) GetConfig(ctx context.Context) (risk.Config, error) {
	data, err := s.client.Get(ctx, KeyConfig).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return risk.DefaultConfig(), nil
		}
		return risk.Config{}, shared.WrapError("store", "GetConfig", shared.ErrStorage, "redis get failed", err)
	}

	var cfg risk.Config
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return risk.Config{}, shared.WrapError("store", "GetConfig", shared.ErrStorage, "stored config is corrupt", err)
	}
	return cfg, nil
}

// SaveConfig overwrites the persisted configuration.
func (s *Store) SaveConfig(ctx context.Context, cfg risk.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return shared.WrapError("store", "SaveConfig", shared.ErrStorage, "failed to encode config", err)
	}
	if err := s.client.Set(ctx, KeyConfig, data, 0).Err(); err != nil {
		return shared.WrapError("store", "SaveConfig", shared.ErrStorage, "redis set failed", err)
	}
	return nil
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
