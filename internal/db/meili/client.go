// Package meili implements db.Store on top of Meilisearch.
package meili

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meilisearch/meilisearch-go"

	"github.com/kailas-cloud/studiodex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Defaults for Config.
const (
	DefaultPrimaryKey   = "_id"
	DefaultTaskInterval = 50 * time.Millisecond
	DefaultMaxTotalHits = 100000
)

// Config holds connection parameters for a Meilisearch store.
type Config struct {
	Host       string
	APIKey     string
	PrimaryKey string
	// TaskInterval is the polling interval for asynchronous tasks.
	TaskInterval time.Duration
	// MaxTotalHits caps how deep offset/limit pagination may reach.
	MaxTotalHits int64
}

// Store implements db.Store via meilisearch-go.
// Every write waits for its task so callers observe completed operations.
type Store struct {
	client       meilisearch.ServiceManager
	primaryKey   string
	interval     time.Duration
	maxTotalHits int64
}

// NewStore creates a Meilisearch store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("host is required")
	}
	return newStore(meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey)), cfg), nil
}

func newStore(c meilisearch.ServiceManager, cfg Config) *Store {
	s := &Store{
		client:       c,
		primaryKey:   cfg.PrimaryKey,
		interval:     cfg.TaskInterval,
		maxTotalHits: cfg.MaxTotalHits,
	}
	if s.primaryKey == "" {
		s.primaryKey = DefaultPrimaryKey
	}
	if s.interval <= 0 {
		s.interval = DefaultTaskInterval
	}
	if s.maxTotalHits <= 0 {
		s.maxTotalHits = DefaultMaxTotalHits
	}
	return s
}

// Ping checks the server health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.HealthWithContext(ctx); err != nil {
		return &db.Error{Op: db.OpMeiliHealth, Err: err}
	}
	return nil
}

// Close is a no-op: the SDK holds no connections that need releasing.
func (s *Store) Close() {}

// WaitForReady polls Ping until the server responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for meilisearch: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// wait blocks until the task finishes and converts a failed task into an error.
func (s *Store) wait(ctx context.Context, op string, info *meilisearch.TaskInfo) (*meilisearch.Task, error) {
	task, err := s.client.WaitForTaskWithContext(ctx, info.TaskUID, s.interval)
	if err != nil {
		return nil, &db.Error{Op: db.OpMeiliTask, Err: err}
	}
	if task.Status == meilisearch.TaskStatusFailed {
		return task, taskError(op, task.Error.Code, task.Error.Message)
	}
	return task, nil
}

func taskError(op, code, message string) error {
	switch code {
	case "index_already_exists":
		return db.ErrIndexExists
	case "index_not_found":
		return db.ErrIndexNotFound
	}
	return &db.Error{Op: op, Err: fmt.Errorf("%s: %s", code, message)}
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, db.ErrIndexNotFound) {
		return true
	}
	return strings.Contains(err.Error(), "index_not_found")
}
