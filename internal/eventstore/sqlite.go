package eventstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rmgdb/kineticdb/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// user_version 1 adds the events.content_key index.
const currentSchemaVersion = 1

// SQLiteStore keeps events in a SQLite database.
// Uses WAL mode so readers proceed during an append.
type SQLiteStore struct {
	mu   sync.Mutex // serializes appends
	db   *sql.DB
	next int64
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens the event log at path, creating it if needed, and brings
// its schema up to currentSchemaVersion. The next append position is
// recovered from the highest stored position.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	var next int64
	if err := db.QueryRow("SELECT COALESCE(MAX(position) + 1, 0) FROM events").Scan(&next); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read log length: %w", err)
	}

	return &SQLiteStore{db: db, next: next}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// runMigrations upgrades an older log in place, one user_version at a time.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// migrateToV1 indexes content keys so duplicate submissions can be found.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_events_content_key
		ON events(content_key)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// AppendKineticModel writes km at the next position inside a transaction.
func (s *SQLiteStore) AppendKineticModel(ctx context.Context, km model.KineticModel) (int64, error) {
	ev, err := encodeEvent(km)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return 0, ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("append event: begin tx: %w", err)
	}
	defer tx.Rollback()

	position := s.next
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (position, model_id, content_key, payload)
		VALUES (?, ?, ?, ?)
	`, position, ev.ModelID, ev.ContentKey, string(ev.Payload))
	if err != nil {
		return 0, fmt.Errorf("append event: insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("append event: commit: %w", err)
	}

	s.next++
	return position, nil
}

func (s *SQLiteStore) GetKineticModel(ctx context.Context, position int64) (model.KineticModel, bool, error) {
	if position < 0 {
		return model.KineticModel{}, false, nil
	}
	db, err := s.handle()
	if err != nil {
		return model.KineticModel{}, false, err
	}

	var payload string
	err = db.QueryRowContext(ctx, `
		SELECT payload FROM events WHERE position = ?
	`, position).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.KineticModel{}, false, nil
	}
	if err != nil {
		return model.KineticModel{}, false, fmt.Errorf("read event %d: %w", position, err)
	}

	km, err := decodeEvent([]byte(payload))
	if err != nil {
		return model.KineticModel{}, false, fmt.Errorf("read event %d: %w", position, err)
	}
	return km, true, nil
}

// AllKineticModels reads the whole log in one query, so the result is a
// single snapshot.
func (s *SQLiteStore) AllKineticModels(ctx context.Context) ([]model.KineticModel, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT position, payload FROM events ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	models := []model.KineticModel{}
	for rows.Next() {
		var (
			position int64
			payload  string
		)
		if err := rows.Scan(&position, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		km, err := decodeEvent([]byte(payload))
		if err != nil {
			return nil, fmt.Errorf("read event %d: %w", position, err)
		}
		models = append(models, km)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return models, nil
}

func (s *SQLiteStore) Len(ctx context.Context) (int64, error) {
	db, err := s.handle()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) handle() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, ErrClosed
	}
	return s.db, nil
}
