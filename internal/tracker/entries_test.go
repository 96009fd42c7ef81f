// ABOUTME: Tests for food entry operations
// ABOUTME: Defaults, validation, user scoping, partial updates and deletes

package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/calorie-gateway/internal/events"
	"github.com/2389/calorie-gateway/internal/store"
)

func TestAddEntry_DefaultsToToday(t *testing.T) {
	env := newTestEnv(t)

	e, err := env.svc.AddEntry(t.Context(), "u1", EntryInput{
		FoodName: "Oatmeal",
		Calories: 320,
		ProteinG: ptr(12.5),
		MealType: ptr(store.MealBreakfast),
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", e.ID)
	assert.Equal(t, "2026-06-15", e.EntryDate)
	assert.Equal(t, "u1", e.UserID)

	evs := env.events.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.TypeFoodEntryAdded, evs[0].Type)
}

func TestAddEntry_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.AddEntry(t.Context(), "u1", EntryInput{
		FoodName:  " ",
		Calories:  -5,
		FatG:      ptr(-1.0),
		MealType:  ptr(store.MealType("brunch")),
		EntryDate: "2026-13-01",
	})
	te := requireKind(t, err, KindValidation)
	for _, want := range []string{
		"Food name is required.",
		"Calories must be a non-negative integer.",
		"entry_date must be in YYYY-MM-DD format.",
		"Fat must be a non-negative number.",
		"Meal type must be one of breakfast, lunch, dinner, snack.",
	} {
		assert.Contains(t, te.Message, want)
	}
	assert.Zero(t, env.store.Calls("CreateFoodEntry"))
	assert.Empty(t, env.events.Events())
}

func TestListEntries_ScopedToUserAndDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	for _, in := range []struct {
		user, name, date string
	}{
		{"u1", "Eggs", ""},
		{"u1", "Salad", ""},
		{"u1", "Pasta", "2026-06-14"},
		{"u2", "Steak", ""},
	} {
		_, err := env.svc.AddEntry(ctx, in.user, EntryInput{FoodName: in.name, Calories: 100, EntryDate: in.date})
		require.NoError(t, err)
	}

	list, err := env.svc.ListEntries(ctx, "u1", EntryQuery{})
	require.NoError(t, err)
	assert.Equal(t, "2026-06-15", list.Date)
	require.Len(t, list.Entries, 2)
	assert.Equal(t, "Salad", list.Entries[0].FoodName, "newest first")

	list, err = env.svc.ListEntries(ctx, "u1", EntryQuery{Date: "2026-06-14"})
	require.NoError(t, err)
	require.Len(t, list.Entries, 1)
	assert.Equal(t, "Pasta", list.Entries[0].FoodName)

	list, err = env.svc.ListEntries(ctx, "u1", EntryQuery{Limit: ptr(1), Offset: ptr(1)})
	require.NoError(t, err)
	require.Len(t, list.Entries, 1)
	assert.Equal(t, "Eggs", list.Entries[0].FoodName)

	list, err = env.svc.ListEntries(ctx, "u3", EntryQuery{})
	require.NoError(t, err)
	assert.NotNil(t, list.Entries)
	assert.Empty(t, list.Entries)
}

func TestListEntries_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.ListEntries(t.Context(), "u1", EntryQuery{Date: "yesterday", Limit: ptr(500)})
	te := requireKind(t, err, KindValidation)
	assert.Contains(t, te.Message, "date must be in YYYY-MM-DD format.")
	assert.Contains(t, te.Message, "limit must be between 1 and 100.")
	assert.Zero(t, env.store.Calls("ListFoodEntries"))
}

func TestUpdateEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	e, err := env.svc.AddEntry(ctx, "u1", EntryInput{FoodName: "Toast", Calories: 150})
	require.NoError(t, err)

	t.Run("no fields", func(t *testing.T) {
		_, err := env.svc.UpdateEntry(ctx, "u1", e.ID, store.FoodEntryUpdate{})
		te := requireKind(t, err, KindValidation)
		assert.Equal(t, "No fields provided to update.", te.Message)
	})

	t.Run("partial update", func(t *testing.T) {
		got, err := env.svc.UpdateEntry(ctx, "u1", e.ID, store.FoodEntryUpdate{Calories: ptr(180)})
		require.NoError(t, err)
		assert.Equal(t, 180, got.Calories)
		assert.Equal(t, "Toast", got.FoodName)
	})

	t.Run("other user", func(t *testing.T) {
		_, err := env.svc.UpdateEntry(ctx, "u2", e.ID, store.FoodEntryUpdate{Calories: ptr(1)})
		te := requireKind(t, err, KindNotFound)
		assert.Equal(t, "Entry "+e.ID+" not found or you don't have permission to update it.", te.Message)

		stored, err := env.store.GetFoodEntry(ctx, "u1", e.ID)
		require.NoError(t, err)
		assert.Equal(t, 180, stored.Calories)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := env.svc.UpdateEntry(ctx, "u1", e.ID, store.FoodEntryUpdate{FoodName: ptr(""), CarbsG: ptr(-2.0)})
		te := requireKind(t, err, KindValidation)
		assert.Contains(t, te.Message, "Food name cannot be empty.")
		assert.Contains(t, te.Message, "Carbs must be a non-negative number.")
	})
}

func TestDeleteEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	e, err := env.svc.AddEntry(ctx, "u1", EntryInput{FoodName: "Apple", Calories: 95})
	require.NoError(t, err)

	err = env.svc.DeleteEntry(ctx, "u2", e.ID)
	te := requireKind(t, err, KindNotFound)
	assert.Equal(t, "Entry "+e.ID+" not found or you don't have permission to delete it.", te.Message)

	require.NoError(t, env.svc.DeleteEntry(ctx, "u1", e.ID))
	_, err = env.store.GetFoodEntry(ctx, "u1", e.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = env.svc.DeleteEntry(ctx, "u1", e.ID)
	requireKind(t, err, KindNotFound)
}
