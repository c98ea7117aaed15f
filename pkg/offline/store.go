package offline

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// QueueItem is a mutation waiting to be replayed against the backend. Items
// are removed only after the server acknowledges them with a 2xx.
type QueueItem struct {
	ID         string    `db:"id"`
	Kind       string    `db:"kind"`
	Method     string    `db:"method"`
	Path       string    `db:"path"`
	Payload    []byte    `db:"payload"`
	EnqueuedAt time.Time `db:"enqueued_at"`
}

// Store is the agent's durable local state: the replay queue, a timestamped
// response cache for reads, and downloaded game content.
type Store struct {
	db *sqlx.DB
}

// OpenStore opens (creating if needed) the SQLite file at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %v", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open offline store: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.initializeSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initializeSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS queue_items (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			method TEXT NOT NULL,
			path TEXT NOT NULL,
			payload BLOB NOT NULL,
			enqueued_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create queue_items table: %v", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS response_cache (
			path TEXT PRIMARY KEY,
			body BLOB NOT NULL,
			fetched_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create response_cache table: %v", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS content_items (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			saved_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create content_items table: %v", err)
	}

	return nil
}

// Enqueue persists a pending mutation.
func (s *Store) Enqueue(item *QueueItem) error {
	_, err := s.db.Exec(
		"INSERT INTO queue_items (id, kind, method, path, payload, enqueued_at) VALUES ($1, $2, $3, $4, $5, $6)",
		item.ID, item.Kind, item.Method, item.Path, item.Payload, item.EnqueuedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue item: %v", err)
	}
	return nil
}

// Pending returns queued items oldest-first.
func (s *Store) Pending() ([]QueueItem, error) {
	var items []QueueItem
	err := s.db.Select(&items, "SELECT * FROM queue_items ORDER BY enqueued_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %v", err)
	}
	return items, nil
}

// PendingCount reports how many mutations await replay.
func (s *Store) PendingCount() (int, error) {
	var n int
	err := s.db.Get(&n, "SELECT COUNT(*) FROM queue_items")
	return n, err
}

// Ack removes an item once the server accepted it.
func (s *Store) Ack(id string) error {
	_, err := s.db.Exec("DELETE FROM queue_items WHERE id = $1", id)
	return err
}

// CacheResponse stores the latest successful body for a read path.
func (s *Store) CacheResponse(path string, body []byte, fetchedAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO response_cache (path, body, fetched_at) VALUES ($1, $2, $3)
		ON CONFLICT(path) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at
	`, path, body, fetchedAt)
	return err
}

// CachedResponse returns the stored body for path, or sql.ErrNoRows.
func (s *Store) CachedResponse(path string) ([]byte, time.Time, error) {
	var row struct {
		Body      []byte    `db:"body"`
		FetchedAt time.Time `db:"fetched_at"`
	}
	err := s.db.Get(&row, "SELECT body, fetched_at FROM response_cache WHERE path = $1", path)
	if err != nil {
		return nil, time.Time{}, err
	}
	return row.Body, row.FetchedAt, nil
}

// SaveContent stores a downloaded game package for offline play.
func (s *Store) SaveContent(key string, data []byte, savedAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO content_items (key, data, saved_at) VALUES ($1, $2, $3)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at
	`, key, data, savedAt)
	return err
}

// Content returns a stored package and purges anything older than retention.
// Purging is lazy: it happens on read rather than on a timer.
func (s *Store) Content(key string, retention time.Duration, now time.Time) ([]byte, error) {
	cutoff := now.Add(-retention)
	if _, err := s.db.Exec("DELETE FROM content_items WHERE saved_at < $1", cutoff); err != nil {
		return nil, fmt.Errorf("failed to purge expired content: %v", err)
	}

	var data []byte
	err := s.db.Get(&data, "SELECT data FROM content_items WHERE key = $1", key)
	if err == sql.ErrNoRows {
		return nil, ErrNoCachedData
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
