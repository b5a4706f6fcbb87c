package rsvpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Local cache keys.
const (
	RSVPKey           = "purim_party_rsvp"
	LastSubmissionKey = "last_submission_time"
)

// Store is a small device-local key/value store. Get returns nil for a
// missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string][]byte{}}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.values[key] = stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

type metadataEntry struct {
	Key   string `gorm:"primaryKey"`
	Value []byte
}

func (metadataEntry) TableName() string {
	return "metadata"
}

// SQLiteStore keeps the cache in a SQLite file so it survives restarts.
type SQLiteStore struct {
	db *gorm.DB
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("open local cache %s: %w", path, err)
	}

	if err := db.AutoMigrate(&metadataEntry{}); err != nil {
		return nil, fmt.Errorf("prepare local cache: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry metadataEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return entry.Value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&metadataEntry{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&metadataEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CachedRSVP is the pointer kept under RSVPKey. Token is the record access
// token; without it the server will not return the record again.
type CachedRSVP struct {
	ID      string `json:"id"`
	Data    Record `json:"data"`
	Token   string `json:"token,omitempty"`
	Editing bool   `json:"editing,omitempty"`
}

// LocalCache reads and writes the two cache keys on top of a Store.
type LocalCache struct {
	store Store
}

func NewLocalCache(store Store) *LocalCache {
	return &LocalCache{store: store}
}

// Load returns nil when nothing usable is cached. A corrupt entry is dropped.
func (c *LocalCache) Load(ctx context.Context) (*CachedRSVP, error) {
	raw, err := c.store.Get(ctx, RSVPKey)
	if err != nil || raw == nil {
		return nil, err
	}

	var cached CachedRSVP
	if err := json.Unmarshal(raw, &cached); err != nil || cached.ID == "" {
		return nil, c.store.Delete(ctx, RSVPKey)
	}
	return &cached, nil
}

func (c *LocalCache) Save(ctx context.Context, record Record, token string, editing bool) error {
	record.AccessToken = ""
	raw, err := json.Marshal(CachedRSVP{ID: record.ID, Data: record, Token: token, Editing: editing})
	if err != nil {
		return err
	}
	return c.store.Set(ctx, RSVPKey, raw)
}

func (c *LocalCache) Clear(ctx context.Context) error {
	return c.store.Delete(ctx, RSVPKey)
}

// LastSubmission returns the zero time when no submission is recorded.
func (c *LocalCache) LastSubmission(ctx context.Context) (time.Time, error) {
	raw, err := c.store.Get(ctx, LastSubmissionKey)
	if err != nil || raw == nil {
		return time.Time{}, err
	}

	millis, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, nil
	}
	return time.UnixMilli(millis), nil
}

func (c *LocalCache) SetLastSubmission(ctx context.Context, at time.Time) error {
	return c.store.Set(ctx, LastSubmissionKey, []byte(strconv.FormatInt(at.UnixMilli(), 10)))
}
