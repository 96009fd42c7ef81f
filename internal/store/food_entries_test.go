// ABOUTME: Tests for food entry persistence
// ABOUTME: Runs against both SQLiteStore and MockStore

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_FoodEntries(t *testing.T) {
	for name, s := range map[string]Store{"sqlite": setupTestStore(t), "mock": NewMockStore()} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			createTestUser(t, s, "u1", "alice@example.com", "h1")
			createTestUser(t, s, "u2", "bob@example.com", "h2")

			lunch := MealLunch
			require.NoError(t, s.CreateFoodEntry(ctx, &FoodEntry{
				ID: "e1", UserID: "u1", FoodName: "Apple", Calories: 95, EntryDate: "2026-04-01",
			}))
			require.NoError(t, s.CreateFoodEntry(ctx, &FoodEntry{
				ID: "e2", UserID: "u1", FoodName: "Salad", Calories: 320, ProteinG: ptr(12.5), MealType: &lunch, EntryDate: "2026-04-01",
			}))
			require.NoError(t, s.CreateFoodEntry(ctx, &FoodEntry{
				ID: "e3", UserID: "u1", FoodName: "Toast", Calories: 150, EntryDate: "2026-04-02",
			}))

			entries, err := s.ListFoodEntries(ctx, "u1", FoodEntryFilter{Date: "2026-04-01", Limit: 10})
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, "e2", entries[0].ID, "newest first")
			assert.Equal(t, MealLunch, *entries[0].MealType)
			assert.Equal(t, 12.5, *entries[0].ProteinG)
			assert.Nil(t, entries[1].MealType)
			assert.Nil(t, entries[1].UpdatedAt)

			entries, err = s.ListFoodEntries(ctx, "u1", FoodEntryFilter{Date: "2026-04-01", Limit: 1, Offset: 1})
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "e1", entries[0].ID)

			entries, err = s.ListFoodEntries(ctx, "u2", FoodEntryFilter{Date: "2026-04-01", Limit: 10})
			require.NoError(t, err)
			assert.Empty(t, entries)

			t.Run("update is owner scoped", func(t *testing.T) {
				_, err := s.UpdateFoodEntry(ctx, "u2", "e1", FoodEntryUpdate{Calories: ptr(1)})
				assert.ErrorIs(t, err, ErrNotFound)

				e, err := s.UpdateFoodEntry(ctx, "u1", "e1", FoodEntryUpdate{Calories: ptr(100), FatG: ptr(0.3)})
				require.NoError(t, err)
				assert.Equal(t, 100, e.Calories)
				assert.Equal(t, "Apple", e.FoodName)
				assert.Equal(t, 0.3, *e.FatG)
				assert.NotNil(t, e.UpdatedAt)

				_, err = s.UpdateFoodEntry(ctx, "u1", "e1", FoodEntryUpdate{})
				assert.Error(t, err)
			})

			t.Run("delete is owner scoped", func(t *testing.T) {
				assert.ErrorIs(t, s.DeleteFoodEntry(ctx, "u2", "e3"), ErrNotFound)
				require.NoError(t, s.DeleteFoodEntry(ctx, "u1", "e3"))
				assert.ErrorIs(t, s.DeleteFoodEntry(ctx, "u1", "e3"), ErrNotFound)

				_, err := s.GetFoodEntry(ctx, "u1", "e3")
				assert.ErrorIs(t, err, ErrNotFound)
			})
		})
	}
}

func TestMockStore_FailOn(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()
	boom := assert.AnError

	m.FailOn("GetUserByAPIKeyHash", boom)
	_, err := m.GetUserByAPIKeyHash(ctx, "x")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, m.Calls("GetUserByAPIKeyHash"))

	m.FailOn("GetUserByAPIKeyHash", nil)
	_, err = m.GetUserByAPIKeyHash(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, m.Calls("GetUserByAPIKeyHash"))
}
