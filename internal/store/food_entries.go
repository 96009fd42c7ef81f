// ABOUTME: SQLite persistence for food log entries
// ABOUTME: Every statement is scoped by user_id so callers only ever touch their own rows

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const foodEntryColumns = `id, user_id, food_name, calories, protein_g, carbs_g, fat_g, meal_type, entry_date, created_at, updated_at`

// CreateFoodEntry inserts e. CreatedAt is filled in when zero.
func (s *SQLiteStore) CreateFoodEntry(ctx context.Context, e *FoodEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock()
	}

	var meal *string
	if e.MealType != nil {
		m := string(*e.MealType)
		meal = &m
	}

	query := `
		INSERT INTO food_entries (id, user_id, food_name, calories, protein_g, carbs_g, fat_g, meal_type, entry_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.FoodName,
		e.Calories,
		nullFloat(e.ProteinG),
		nullFloat(e.CarbsG),
		nullFloat(e.FatG),
		nullString(meal),
		e.EntryDate,
		e.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting food entry: %w", err)
	}

	s.logger.Debug("created food entry", "id", e.ID, "user_id", e.UserID)
	return nil
}

// GetFoodEntry retrieves one entry owned by userID.
func (s *SQLiteStore) GetFoodEntry(ctx context.Context, userID, id string) (*FoodEntry, error) {
	query := `SELECT ` + foodEntryColumns + ` FROM food_entries WHERE id = ? AND user_id = ?`
	return scanFoodEntry(s.db.QueryRowContext(ctx, query, id, userID))
}

// ListFoodEntries returns the user's entries for f.Date, newest first.
func (s *SQLiteStore) ListFoodEntries(ctx context.Context, userID string, f FoodEntryFilter) ([]*FoodEntry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}

	query := `
		SELECT ` + foodEntryColumns + ` FROM food_entries
		WHERE user_id = ? AND entry_date = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`
	rows, err := s.db.QueryContext(ctx, query, userID, f.Date, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("querying food entries: %w", err)
	}
	defer rows.Close()

	var out []*FoodEntry
	for rows.Next() {
		e, err := scanFoodEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating food entries: %w", err)
	}
	return out, nil
}

// UpdateFoodEntry merges upd into the entry. Returns ErrNotFound when the entry
// does not exist or belongs to someone else.
func (s *SQLiteStore) UpdateFoodEntry(ctx context.Context, userID, id string, upd FoodEntryUpdate) (*FoodEntry, error) {
	if upd.Empty() {
		return nil, errors.New("no fields to update")
	}

	var sets []string
	var args []any
	if upd.FoodName != nil {
		sets = append(sets, "food_name = ?")
		args = append(args, *upd.FoodName)
	}
	if upd.Calories != nil {
		sets = append(sets, "calories = ?")
		args = append(args, *upd.Calories)
	}
	if upd.ProteinG != nil {
		sets = append(sets, "protein_g = ?")
		args = append(args, *upd.ProteinG)
	}
	if upd.CarbsG != nil {
		sets = append(sets, "carbs_g = ?")
		args = append(args, *upd.CarbsG)
	}
	if upd.FatG != nil {
		sets = append(sets, "fat_g = ?")
		args = append(args, *upd.FatG)
	}
	if upd.MealType != nil {
		sets = append(sets, "meal_type = ?")
		args = append(args, string(*upd.MealType))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, s.timestamp(), id, userID)

	query := `UPDATE food_entries SET ` + strings.Join(sets, ", ") +
		` WHERE id = ? AND user_id = ? RETURNING ` + foodEntryColumns
	e, err := scanFoodEntry(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("updating food entry: %w", err)
	}
	return e, nil
}

// DeleteFoodEntry removes an entry owned by userID.
func (s *SQLiteStore) DeleteFoodEntry(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM food_entries WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting food entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func scanFoodEntry(row rowScanner) (*FoodEntry, error) {
	var e FoodEntry
	var protein, carbs, fat sql.NullFloat64
	var meal, updatedAt sql.NullString
	var createdAt string

	err := row.Scan(&e.ID, &e.UserID, &e.FoodName, &e.Calories, &protein, &carbs, &fat, &meal, &e.EntryDate, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning food entry: %w", err)
	}

	e.ProteinG = floatPtr(protein)
	e.CarbsG = floatPtr(carbs)
	e.FatG = floatPtr(fat)
	if meal.Valid {
		m := MealType(meal.String)
		e.MealType = &m
	}
	if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		var t time.Time
		if t, err = parseTime("updated_at", updatedAt.String); err != nil {
			return nil, err
		}
		e.UpdatedAt = &t
	}
	return &e, nil
}
