package repos

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"modernc.org/sqlite"

	"aifinder/internal/config"
	applog "aifinder/internal/log"
)

// sqliteLower folds the full Unicode range; the built-in LOWER on SQLite
// only folds ASCII letters.
const sqliteLower = "unicode_lower"

func init() {
	err := sqlite.RegisterDeterministicScalarFunction(sqliteLower, 1,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case string:
				return strings.ToLower(v), nil
			case []byte:
				return strings.ToLower(string(v)), nil
			default:
				return v, nil
			}
		})
	if err != nil {
		panic(fmt.Sprintf("register %s: %v", sqliteLower, err))
	}
}

// OpenDB opens the store named by dsn: a postgres:// URL selects lib/pq,
// anything else is a SQLite path (":memory:" in tests). The schema is
// created if missing; demo categories and networks are seeded when seed is set.
func OpenDB(dsn string, seed bool) (*sqlx.DB, error) {
	driverName := "sqlite"
	if config.IsPostgresURL(dsn) {
		driverName = "postgres"
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	if err := configurePool(db); err != nil {
		db.Close()
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driverName, err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if seed {
		if err := seedDemoData(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}
	return db, nil
}

func isPostgres(db *sqlx.DB) bool { return db.DriverName() == "postgres" }

// lowerFunc names the case-folding function matching the driver.
func lowerFunc(db *sqlx.DB) string {
	if isPostgres(db) {
		return "LOWER"
	}
	return sqliteLower
}

func configurePool(db *sqlx.DB) error {
	if isPostgres(db) {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		return nil
	}

	// One connection: SQLite allows a single writer anyway, an in-memory
	// database lives and dies with its connection, and pragmas are per
	// connection. Concurrent requests queue on the pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	for _, p := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := sqliteSchema
	if isPostgres(db) {
		schema = postgresSchema
	}
	_, err := db.Exec(schema)
	return err
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS neuro_categories(
  category_id   INTEGER PRIMARY KEY AUTOINCREMENT,
  category_name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS neural_networks(
  neuro_id       INTEGER PRIMARY KEY AUTOINCREMENT,
  name           TEXT NOT NULL,
  description    TEXT NOT NULL DEFAULT '',
  category_id    INTEGER NOT NULL REFERENCES neuro_categories(category_id) ON DELETE RESTRICT,
  average_rating REAL,
  rating_count   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_networks_category ON neural_networks(category_id);
CREATE INDEX IF NOT EXISTS idx_networks_name     ON neural_networks(name);

CREATE TABLE IF NOT EXISTS users(
  user_id       INTEGER PRIMARY KEY AUTOINCREMENT,
  email         TEXT NOT NULL UNIQUE,
  username      TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS user_favorites(
  favorite_id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id     INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
  neuro_id    INTEGER NOT NULL REFERENCES neural_networks(neuro_id) ON DELETE CASCADE,
  created_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(user_id, neuro_id)
);

CREATE TABLE IF NOT EXISTS favorite_categories(
  favorite_id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id     INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
  category_id INTEGER NOT NULL REFERENCES neuro_categories(category_id) ON DELETE CASCADE,
  created_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(user_id, category_id)
);

CREATE TABLE IF NOT EXISTS ratings(
  user_id      INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
  neuro_id     INTEGER NOT NULL REFERENCES neural_networks(neuro_id) ON DELETE CASCADE,
  rating_value INTEGER NOT NULL CHECK (rating_value BETWEEN 1 AND 5),
  created_at   TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at   TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY(user_id, neuro_id)
);
CREATE INDEX IF NOT EXISTS idx_ratings_network ON ratings(neuro_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS neuro_categories(
  category_id   BIGSERIAL PRIMARY KEY,
  category_name VARCHAR(255) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS neural_networks(
  neuro_id       BIGSERIAL PRIMARY KEY,
  name           VARCHAR(255) NOT NULL,
  description    TEXT NOT NULL DEFAULT '',
  category_id    BIGINT NOT NULL REFERENCES neuro_categories(category_id) ON DELETE RESTRICT,
  average_rating DOUBLE PRECISION,
  rating_count   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_networks_category ON neural_networks(category_id);
CREATE INDEX IF NOT EXISTS idx_networks_name     ON neural_networks(name);

CREATE TABLE IF NOT EXISTS users(
  user_id       BIGSERIAL PRIMARY KEY,
  email         VARCHAR(255) NOT NULL UNIQUE,
  username      VARCHAR(100) NOT NULL,
  password_hash VARCHAR(255) NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_favorites(
  favorite_id BIGSERIAL PRIMARY KEY,
  user_id     BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
  neuro_id    BIGINT NOT NULL REFERENCES neural_networks(neuro_id) ON DELETE CASCADE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  UNIQUE(user_id, neuro_id)
);

CREATE TABLE IF NOT EXISTS favorite_categories(
  favorite_id BIGSERIAL PRIMARY KEY,
  user_id     BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
  category_id BIGINT NOT NULL REFERENCES neuro_categories(category_id) ON DELETE CASCADE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  UNIQUE(user_id, category_id)
);

CREATE TABLE IF NOT EXISTS ratings(
  user_id      BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
  neuro_id     BIGINT NOT NULL REFERENCES neural_networks(neuro_id) ON DELETE CASCADE,
  rating_value INTEGER NOT NULL CHECK (rating_value BETWEEN 1 AND 5),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  PRIMARY KEY(user_id, neuro_id)
);
CREATE INDEX IF NOT EXISTS idx_ratings_network ON ratings(neuro_id);
`

type seedNetwork struct {
	Name, Description, Category string
}

var (
	seedCategories = []string{"Text", "Images", "Audio", "Video", "Code"}
	seedNetworks   = []seedNetwork{
		{"ChatGPT", "Conversational assistant for drafting, summarizing and answering questions", "Text"},
		{"DeepL Write", "Rewrites and polishes text in several languages", "Text"},
		{"Midjourney", "Generates images from text prompts", "Images"},
		{"Stable Diffusion", "Open image generation model that runs locally", "Images"},
		{"Whisper", "Speech recognition and transcription", "Audio"},
		{"Suno", "Composes songs with vocals from a short description", "Audio"},
		{"Runway", "Text-to-video generation and video editing", "Video"},
		{"GitHub Copilot", "Code completion inside the editor", "Code"},
	}
)

// seedDemoData provisions categories and networks. Safe to run on every
// startup (idempotent).
func seedDemoData(db *sqlx.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, name := range seedCategories {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO neuro_categories(category_name) VALUES (?)
			ON CONFLICT(category_name) DO NOTHING`), name); err != nil {
			return err
		}
	}

	var inserted int64
	for _, n := range seedNetworks {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO neural_networks(name, description, category_id)
			SELECT ?, ?, c.category_id
			FROM neuro_categories c
			WHERE c.category_name = ?
			  AND NOT EXISTS (SELECT 1 FROM neural_networks WHERE name = ?)`),
			n.Name, n.Description, n.Category, n.Name)
		if err != nil {
			return err
		}
		if k, err := res.RowsAffected(); err == nil {
			inserted += k
		}
	}

	if inserted > 0 {
		applog.Logger.Info().Int64("networks", inserted).Msg("seeded demo catalog")
	}
	return tx.Commit()
}
