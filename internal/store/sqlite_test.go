// ABOUTME: Tests for SQLite store construction, schema constraints and migrations
// ABOUTME: Uses real SQLite files under t.TempDir()

package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file was not created")
}

func TestNewSQLiteStore_InMemory(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	n, err := s.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteStore_ForeignKeysEnforced(t *testing.T) {
	s := setupTestStore(t)

	err := s.CreateFoodEntry(context.Background(), &FoodEntry{
		ID:        "e1",
		UserID:    "ghost",
		FoodName:  "Toast",
		Calories:  120,
		EntryDate: "2026-03-10",
	})
	assert.Error(t, err)
}

func TestSQLiteStore_CheckConstraints(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createTestUser(t, s, "u1", "alice@example.com", "hash-1")

	err := s.CreateProfile(ctx, &UserProfile{UserID: "u1", HeightCM: 20, Age: 30, Gender: "male", ActivityLevel: "sedentary"})
	assert.Error(t, err, "height below 50cm must be rejected by the schema")

	meal := MealType("brunch")
	err = s.CreateFoodEntry(ctx, &FoodEntry{ID: "e1", UserID: "u1", FoodName: "Eggs", Calories: 200, MealType: &meal, EntryDate: "2026-03-10"})
	assert.Error(t, err, "unknown meal types must be rejected by the schema")
}

func TestSQLiteStore_FreshSchemaDeclaresUpdatedAt(t *testing.T) {
	s := setupTestStore(t)

	var ddl string
	err := s.db.QueryRow(`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'food_entries'`).Scan(&ddl)
	require.NoError(t, err)
	assert.Contains(t, ddl, "updated_at TEXT")

	// Reopening an up-to-date database leaves the column alone
	require.NoError(t, s.runMigrations())
	var columns int
	err = s.db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('food_entries') WHERE name = 'updated_at'`).Scan(&columns)
	require.NoError(t, err)
	assert.Equal(t, 1, columns)
}

func TestSQLiteStore_MigratesOldFoodEntries(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "old.db")

	// A database created before food entries could be edited
	db, err := sql.Open("sqlite", "file:"+dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE food_entries (
		id TEXT PRIMARY KEY, user_id TEXT NOT NULL, food_name TEXT NOT NULL,
		calories INTEGER NOT NULL, protein_g REAL, carbs_g REAL, fat_g REAL,
		meal_type TEXT, entry_date TEXT NOT NULL, created_at TEXT NOT NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	var exists int
	err = s.db.QueryRow(`SELECT 1 FROM pragma_table_info('food_entries') WHERE name = 'updated_at'`).Scan(&exists)
	require.NoError(t, err)
	assert.Equal(t, 1, exists)
}
