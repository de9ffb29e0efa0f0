package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultKey names the record that holds the reminder list.
const DefaultKey = "reminders"

// Store persists the whole reminder list as one record.
type Store interface {
	// Load returns the persisted list. Missing or unreadable state yields an
	// empty list; the failure is logged, never returned.
	Load(ctx context.Context) []Reminder
	// Save overwrites the persisted list.
	Save(ctx context.Context, reminders []Reminder) error
}

// SQLiteStore keeps the reminder list in a key-value table of a SQLite
// database.
type SQLiteStore struct {
	db  *sql.DB
	key string
}

// NewSQLiteStore opens (or creates) the SQLite database at dbPath and
// ensures the kv table exists. An empty key uses DefaultKey.
func NewSQLiteStore(dbPath, key string) (*SQLiteStore, error) {
	if key == "" {
		key = DefaultKey
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, key: key}, nil
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) []Reminder {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("[reminder] Failed to read %q: %v", s.key, err)
		}
		return []Reminder{}
	}

	reminders, err := Decode([]byte(value))
	if err != nil {
		log.Printf("[reminder] Failed to parse %q, starting empty: %v", s.key, err)
		return []Reminder{}
	}
	return reminders
}

func (s *SQLiteStore) Save(ctx context.Context, reminders []Reminder) error {
	data, err := Encode(reminders)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, s.key, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save reminders: %w", err)
	}
	return nil
}

// MemoryStore keeps the encoded list in memory. It goes through the same
// codec as SQLiteStore.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore returns a store seeded with raw persisted bytes, which may
// be nil.
func NewMemoryStore(seed []byte) *MemoryStore {
	return &MemoryStore{data: seed}
}

func (m *MemoryStore) Load(_ context.Context) []Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return []Reminder{}
	}
	reminders, err := Decode(m.data)
	if err != nil {
		log.Printf("[reminder] Failed to parse stored reminders, starting empty: %v", err)
		return []Reminder{}
	}
	return reminders
}

func (m *MemoryStore) Save(_ context.Context, reminders []Reminder) error {
	data, err := Encode(reminders)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

// Bytes returns the currently stored encoding.
func (m *MemoryStore) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}
