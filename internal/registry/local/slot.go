// Package local is the on-device side of the registry: a Backend that keeps
// every registration as one JSON array in a named slot, plus the slot
// stores it can sit on.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

const (
	SlotCompanies     = "companies"
	SlotAdminLoggedIn = "adminLoggedIn"
)

type SlotStore interface {
	// Get reports ok == false when the slot has never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// RedisSlot keeps slots as redis strings under an optional prefix.
type RedisSlot struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisSlot(rdb *redis.Client, prefix string) *RedisSlot {
	return &RedisSlot{rdb: rdb, prefix: prefix}
}

func (s *RedisSlot) key(k string) string { return s.prefix + k }

func (s *RedisSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisSlot) Set(ctx context.Context, key string, value []byte) error {
	return s.rdb.Set(ctx, s.key(key), value, 0).Err()
}

func (s *RedisSlot) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

// MemorySlot lives as long as the process.
type MemorySlot struct {
	cache *gocache.Cache
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{cache: gocache.New(gocache.NoExpiration, 0)}
}

func (s *MemorySlot) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	b := v.([]byte)
	return append([]byte(nil), b...), true, nil
}

func (s *MemorySlot) Set(_ context.Context, key string, value []byte) error {
	s.cache.Set(key, append([]byte(nil), value...), gocache.NoExpiration)
	return nil
}

func (s *MemorySlot) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// SQLiteSlot persists slots in a single-table sqlite file.
type SQLiteSlot struct {
	db *sql.DB
}

func OpenSQLiteSlot(path string) (*SQLiteSlot, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("slot path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS slots (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create slots table: %w", err)
	}
	return &SQLiteSlot{db: db}, nil
}

func (s *SQLiteSlot) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get slot %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteSlot) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set slot %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteSlot) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}
	return nil
}
