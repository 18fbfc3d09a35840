// Package audit keeps a write-mostly trail of ingestion snapshots and
// risk assessments. Failures here are logged and swallowed; the audit
// trail must never affect query handling.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KillMonga130/AI-agent-aws/pkg/logger"
)

type Store struct {
	client    *redis.Client
	keyPrefix string
}

func NewStore(host string, port int, password string, db int, keyPrefix string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Audit store initialized",
		zap.String("addr", fmt.Sprintf("%s:%d", host, port)),
		zap.String("key_prefix", keyPrefix),
	)

	return &Store{client: client, keyPrefix: keyPrefix}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Put stores a JSON-serialized record under
// {prefix}/{category}/{lat}_{lon}/{isoTimestamp}-style keys. Records
// are kept without expiry; retention is an operator concern.
func (s *Store) Put(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	if err := s.client.Set(ctx, s.fullKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store audit record: %w", err)
	}

	logger.Debug("Audit record stored", zap.String("key", key))
	return nil
}

// Get loads a record into value. Returns false when the key is absent.
func (s *Store) Get(ctx context.Context, key string, value interface{}) (bool, error) {
	data, err := s.client.Get(ctx, s.fullKey(key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load audit record: %w", err)
	}

	if err := json.Unmarshal(data, value); err != nil {
		return false, fmt.Errorf("failed to unmarshal audit record: %w", err)
	}
	return true, nil
}

// List returns the keys stored under a category prefix, e.g.
// "assessments/-33.9249_18.4241/".
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	iter := s.client.Scan(ctx, 0, s.fullKey(prefix)+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan audit keys: %w", err)
	}

	return keys, nil
}

func (s *Store) fullKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + "/" + key
}
