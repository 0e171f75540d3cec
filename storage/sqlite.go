package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parlex-ai/parlex/core"
	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore persists definitions and model artifacts for any number of
// bots in a single SQLite database. It is suitable for single-instance
// deployments where persistence across restarts is required.
//
// The store itself is bot-agnostic; Bot returns the tenant-scoped handle the
// engine consumes.
type SQLiteStore struct {
	db *sql.DB
}

// SQLiteConfig configures the SQLite store.
type SQLiteConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS intents (
	bot_id  TEXT NOT NULL,
	name    TEXT NOT NULL,
	payload TEXT NOT NULL,
	pos     INTEGER NOT NULL,
	PRIMARY KEY (bot_id, name)
);
CREATE TABLE IF NOT EXISTS custom_entities (
	bot_id  TEXT NOT NULL,
	name    TEXT NOT NULL,
	payload TEXT NOT NULL,
	PRIMARY KEY (bot_id, name)
);
CREATE TABLE IF NOT EXISTS models (
	bot_id     TEXT NOT NULL,
	name       TEXT NOT NULL,
	data       BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (bot_id, name)
);
CREATE INDEX IF NOT EXISTS idx_models_bot ON models(bot_id, created_at DESC);
`

// NewSQLiteStore opens (creating if necessary) the database with WAL mode
// enabled and ensures the schema exists.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Bot returns the tenant-scoped Storage handle for the given bot.
func (s *SQLiteStore) Bot(botID string) core.Storage {
	return &sqliteBotStore{db: s.db, botID: botID}
}

// Provider returns a core.StorageProvider backed by this store.
func (s *SQLiteStore) Provider() core.StorageProvider {
	return func(botID string) (core.Storage, error) {
		return s.Bot(botID), nil
	}
}

// sqliteBotStore is the per-bot view over the shared database.
type sqliteBotStore struct {
	db    *sql.DB
	botID string
}

var _ core.Storage = (*sqliteBotStore)(nil)

func (s *sqliteBotStore) Intents(ctx context.Context) ([]core.IntentDefinition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM intents WHERE bot_id = ? ORDER BY pos`, s.botID)
	if err != nil {
		return nil, fmt.Errorf("failed to query intents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []core.IntentDefinition
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan intent: %w", err)
		}
		var in core.IntentDefinition
		if err := json.Unmarshal([]byte(payload), &in); err != nil {
			return nil, fmt.Errorf("failed to decode intent: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (s *sqliteBotStore) Intent(ctx context.Context, name string) (core.IntentDefinition, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM intents WHERE bot_id = ? AND name = ?`, s.botID, name).Scan(&payload)
	if err == sql.ErrNoRows {
		return core.IntentDefinition{}, ErrNotFound
	}
	if err != nil {
		return core.IntentDefinition{}, fmt.Errorf("failed to query intent: %w", err)
	}
	var in core.IntentDefinition
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		return core.IntentDefinition{}, fmt.Errorf("failed to decode intent: %w", err)
	}
	return in, nil
}

func (s *sqliteBotStore) CustomEntities(ctx context.Context) ([]core.EntityDefinition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM custom_entities WHERE bot_id = ? ORDER BY name`, s.botID)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom entities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []core.EntityDefinition
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan custom entity: %w", err)
		}
		var def core.EntityDefinition
		if err := json.Unmarshal([]byte(payload), &def); err != nil {
			return nil, fmt.Errorf("failed to decode custom entity: %w", err)
		}
		out = append(out, def)
	}
	return out, rows.Err()
}

func (s *sqliteBotStore) ModelExists(ctx context.Context, fingerprint string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM models WHERE bot_id = ? AND name LIKE ?`,
		s.botID, "%__"+fingerprint+".bin").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query models: %w", err)
	}
	return count > 0, nil
}

func (s *sqliteBotStore) ModelBuffer(ctx context.Context, fingerprint string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM models WHERE bot_id = ? AND name LIKE ? ORDER BY created_at DESC LIMIT 1`,
		s.botID, "%__"+fingerprint+".bin").Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	return data, nil
}

func (s *sqliteBotStore) PersistModel(ctx context.Context, data []byte, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO models (bot_id, name, data, created_at) VALUES (?, ?, ?, ?)`,
		s.botID, name, data, modelTimestamp(name))
	if err != nil {
		return fmt.Errorf("failed to persist model: %w", err)
	}
	return nil
}

func (s *sqliteBotStore) SaveIntent(ctx context.Context, intent core.IntentDefinition) error {
	payload, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("failed to encode intent: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO intents (bot_id, name, payload, pos)
		 VALUES (?, ?, ?, COALESCE((SELECT MAX(pos) + 1 FROM intents WHERE bot_id = ?), 0))
		 ON CONFLICT(bot_id, name) DO UPDATE SET payload = excluded.payload`,
		s.botID, intent.Name, string(payload), s.botID)
	if err != nil {
		return fmt.Errorf("failed to save intent: %w", err)
	}
	return nil
}

func (s *sqliteBotStore) DeleteIntent(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM intents WHERE bot_id = ? AND name = ?`, s.botID, name)
	if err != nil {
		return fmt.Errorf("failed to delete intent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqliteBotStore) SaveCustomEntity(ctx context.Context, def core.EntityDefinition) error {
	payload, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to encode custom entity: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO custom_entities (bot_id, name, payload) VALUES (?, ?, ?)
		 ON CONFLICT(bot_id, name) DO UPDATE SET payload = excluded.payload`,
		s.botID, def.Name, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save custom entity: %w", err)
	}
	return nil
}
