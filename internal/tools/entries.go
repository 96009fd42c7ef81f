// ABOUTME: Food log tools: list_entries, add_entry, update_entry, delete_entry
// ABOUTME: Arguments are validated here; ownership and persistence live in the tracker

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2389/calorie-gateway/internal/auth"
	"github.com/2389/calorie-gateway/internal/store"
	"github.com/2389/calorie-gateway/internal/tracker"
)

const (
	listEntriesSchema = `{"type":"object","properties":{` +
		`"date":{"type":"string","pattern":"^\\d{4}-\\d{2}-\\d{2}$","description":"Date in YYYY-MM-DD format (optional, defaults to today)"},` +
		`"limit":{"type":"integer","minimum":1,"maximum":100,"default":10},` +
		`"offset":{"type":"integer","minimum":0,"default":0}}}`

	addEntrySchema = `{"type":"object","properties":{` +
		`"food_name":{"type":"string","minLength":1,"description":"Name of the food item"},` +
		`"calories":{"type":"integer","minimum":0,"description":"Number of calories"},` +
		`"protein_g":{"type":"number","minimum":0,"description":"Protein content in grams"},` +
		`"carbs_g":{"type":"number","minimum":0,"description":"Carbohydrate content in grams"},` +
		`"fat_g":{"type":"number","minimum":0,"description":"Fat content in grams"},` +
		`"meal_type":{"type":"string","enum":["breakfast","lunch","dinner","snack"],"description":"Type of meal"},` +
		`"entry_date":{"type":"string","pattern":"^\\d{4}-\\d{2}-\\d{2}$","description":"Date in YYYY-MM-DD format (defaults to today)"}},` +
		`"required":["food_name","calories"]}`

	updateEntrySchema = `{"type":"object","properties":{` +
		`"entry_id":{"type":"string","minLength":1,"description":"ID of the food entry to update"},` +
		`"food_name":{"type":"string","minLength":1},` +
		`"calories":{"type":"integer","minimum":0},` +
		`"protein_g":{"type":"number","minimum":0},` +
		`"carbs_g":{"type":"number","minimum":0},` +
		`"fat_g":{"type":"number","minimum":0},` +
		`"meal_type":{"type":"string","enum":["breakfast","lunch","dinner","snack"]}},` +
		`"required":["entry_id"]}`

	deleteEntrySchema = `{"type":"object","properties":{` +
		`"entry_id":{"type":"string","minLength":1,"description":"ID of the food entry to delete"}},` +
		`"required":["entry_id"]}`
)

type listEntriesParams struct {
	Date   *string `json:"date" validate:"omitnil,datetime=2006-01-02"`
	Limit  *int    `json:"limit" validate:"omitnil,min=1,max=100"`
	Offset *int    `json:"offset" validate:"omitnil,min=0"`
}

func (h *handlers) listEntries(ctx context.Context, id auth.Identity, input json.RawMessage) Result {
	var p listEntriesParams
	if err := decode(input, &p); err != nil {
		return h.fail("list_entries", err)
	}

	list, err := h.svc.ListEntries(ctx, id.UserID, tracker.EntryQuery{
		Date:   deref(p.Date),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return h.fail("list_entries", err)
	}

	b, err := json.MarshalIndent(list.Entries, "", "  ")
	if err != nil {
		return h.fail("list_entries", err)
	}
	return textResult(fmt.Sprintf("Found %d entries for user %s:\n%s", len(list.Entries), id.UserID, b))
}

type addEntryParams struct {
	FoodName  string   `json:"food_name" validate:"required"`
	Calories  *int     `json:"calories" validate:"required,min=0"`
	ProteinG  *float64 `json:"protein_g" validate:"omitnil,min=0"`
	CarbsG    *float64 `json:"carbs_g" validate:"omitnil,min=0"`
	FatG      *float64 `json:"fat_g" validate:"omitnil,min=0"`
	MealType  *string  `json:"meal_type" validate:"omitnil,oneof=breakfast lunch dinner snack"`
	EntryDate *string  `json:"entry_date" validate:"omitnil,datetime=2006-01-02"`
}

func (h *handlers) addEntry(ctx context.Context, id auth.Identity, input json.RawMessage) Result {
	var p addEntryParams
	if err := decode(input, &p); err != nil {
		return h.fail("add_entry", err)
	}

	entry, err := h.svc.AddEntry(ctx, id.UserID, tracker.EntryInput{
		FoodName:  p.FoodName,
		Calories:  *p.Calories,
		ProteinG:  p.ProteinG,
		CarbsG:    p.CarbsG,
		FatG:      p.FatG,
		MealType:  mealType(p.MealType),
		EntryDate: deref(p.EntryDate),
	})
	if err != nil {
		return h.fail("add_entry", err)
	}
	return textResult(fmt.Sprintf("Successfully added \"%s\" (%d calories) with ID %s for user %s",
		entry.FoodName, entry.Calories, entry.ID, id.UserID))
}

type updateEntryParams struct {
	EntryID  string   `json:"entry_id" validate:"required"`
	FoodName *string  `json:"food_name" validate:"omitnil,min=1"`
	Calories *int     `json:"calories" validate:"omitnil,min=0"`
	ProteinG *float64 `json:"protein_g" validate:"omitnil,min=0"`
	CarbsG   *float64 `json:"carbs_g" validate:"omitnil,min=0"`
	FatG     *float64 `json:"fat_g" validate:"omitnil,min=0"`
	MealType *string  `json:"meal_type" validate:"omitnil,oneof=breakfast lunch dinner snack"`
}

func (h *handlers) updateEntry(ctx context.Context, id auth.Identity, input json.RawMessage) Result {
	var p updateEntryParams
	if err := decode(input, &p); err != nil {
		return h.fail("update_entry", err)
	}

	_, err := h.svc.UpdateEntry(ctx, id.UserID, p.EntryID, store.FoodEntryUpdate{
		FoodName: p.FoodName,
		Calories: p.Calories,
		ProteinG: p.ProteinG,
		CarbsG:   p.CarbsG,
		FatG:     p.FatG,
		MealType: mealType(p.MealType),
	})
	if err != nil {
		return h.fail("update_entry", err)
	}
	return textResult(fmt.Sprintf("Successfully updated entry %s for user %s", p.EntryID, id.UserID))
}

type deleteEntryParams struct {
	EntryID string `json:"entry_id" validate:"required"`
}

func (h *handlers) deleteEntry(ctx context.Context, id auth.Identity, input json.RawMessage) Result {
	var p deleteEntryParams
	if err := decode(input, &p); err != nil {
		return h.fail("delete_entry", err)
	}

	if err := h.svc.DeleteEntry(ctx, id.UserID, p.EntryID); err != nil {
		return h.fail("delete_entry", err)
	}
	return textResult(fmt.Sprintf("Successfully deleted entry %s for user %s", p.EntryID, id.UserID))
}

func mealType(s *string) *store.MealType {
	if s == nil {
		return nil
	}
	m := store.MealType(*s)
	return &m
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
