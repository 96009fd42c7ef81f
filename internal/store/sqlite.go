// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Opens the database, creates the schema and applies idempotent column migrations

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is the text format of every stored timestamp
const timeLayout = time.RFC3339

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// Per-connection pragmas go in the DSN so every pooled connection gets them
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != ":memory:" {
		dsn = "file:" + dsn
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// A single in-memory database only exists on one connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
		now:    time.Now,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			email        TEXT NOT NULL UNIQUE,
			api_key_hash TEXT UNIQUE,
			role         TEXT NOT NULL DEFAULT 'user',
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL,

			CHECK (role IN ('user', 'admin'))
		);

		CREATE TABLE IF NOT EXISTS user_profiles (
			user_id        TEXT PRIMARY KEY,
			height_cm      REAL NOT NULL,
			age            INTEGER NOT NULL,
			gender         TEXT NOT NULL,
			activity_level TEXT NOT NULL DEFAULT 'sedentary',
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,

			CHECK (height_cm >= 50 AND height_cm <= 300),
			CHECK (age >= 1 AND age <= 150),
			CHECK (gender IN ('male', 'female')),
			CHECK (activity_level IN ('sedentary', 'light', 'moderate', 'active', 'very_active'))
		);

		CREATE TABLE IF NOT EXISTS profile_tracking (
			id                  TEXT PRIMARY KEY,
			user_id             TEXT NOT NULL,
			weight_kg           REAL,
			muscle_mass_kg      REAL,
			body_fat_percentage REAL,
			bmr_calories        INTEGER,
			tdee_calories       INTEGER,
			recorded_date       TEXT NOT NULL,
			created_at          TEXT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,

			CHECK (weight_kg IS NULL OR (weight_kg > 0 AND weight_kg <= 1000)),
			CHECK (body_fat_percentage IS NULL OR (body_fat_percentage >= 0 AND body_fat_percentage <= 100))
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_profile_tracking_user_date
			ON profile_tracking(user_id, recorded_date);

		CREATE TABLE IF NOT EXISTS food_entries (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			food_name  TEXT NOT NULL,
			calories   INTEGER NOT NULL,
			protein_g  REAL,
			carbs_g    REAL,
			fat_g      REAL,
			meal_type  TEXT,
			entry_date TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,

			CHECK (meal_type IS NULL OR meal_type IN ('breakfast', 'lunch', 'dinner', 'snack'))
		);

		CREATE INDEX IF NOT EXISTS idx_food_entries_user_date
			ON food_entries(user_id, entry_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// runMigrations applies schema migrations for existing databases.
// These are idempotent - safe to run multiple times.
func (s *SQLiteStore) runMigrations() error {
	// SQLite doesn't support ADD COLUMN IF NOT EXISTS, so we check first
	migrations := []struct {
		table  string
		column string
		apply  string
	}{
		{
			// Databases created before food entries could be edited
			table:  "food_entries",
			column: "updated_at",
			apply:  `ALTER TABLE food_entries ADD COLUMN updated_at TEXT`,
		},
	}

	for _, m := range migrations {
		var exists int
		err := s.db.QueryRow(`SELECT 1 FROM pragma_table_info(?) WHERE name = ?`, m.table, m.column).Scan(&exists)
		if err == nil {
			continue
		}
		if _, err := s.db.Exec(m.apply); err != nil {
			return fmt.Errorf("adding %s column to %s: %w", m.column, m.table, err)
		}
		s.logger.Info("applied migration", "column", m.column, "table", m.table)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// clock returns the current time at the precision timestamps are stored with.
func (s *SQLiteStore) clock() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// timestamp returns the current time in the stored text format.
func (s *SQLiteStore) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

// isConstraintViolation checks if the error is a SQLite UNIQUE constraint violation
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// constraintColumn reports whether a UNIQUE violation concerns table.column.
func constraintColumn(err error, table, column string) bool {
	return isConstraintViolation(err) && strings.Contains(err.Error(), table+"."+column)
}

func parseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", field, err)
	}
	return t, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
